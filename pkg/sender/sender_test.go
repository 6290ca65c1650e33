package sender_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrgarest/firebase-sender/pkg/audit"
	"github.com/mrgarest/firebase-sender/pkg/condition"
	"github.com/mrgarest/firebase-sender/pkg/gateway"
	"github.com/mrgarest/firebase-sender/pkg/payload"
	"github.com/mrgarest/firebase-sender/pkg/sender"
	"github.com/mrgarest/firebase-sender/pkg/token"
)

var testResolver = token.StaticResolver{
	"main": {
		ProjectID:   "my-project",
		PrivateKey:  "key-material",
		ClientEmail: "sender@my-project.iam.gserviceaccount.com",
	},
}

type stubTokens struct {
	calls atomic.Int64
}

func (t *stubTokens) AccessToken(_ context.Context, _ token.ServiceAccount) (*token.AccessToken, error) {
	t.calls.Add(1)
	return &token.AccessToken{
		Value:     "tok",
		TokenType: "Bearer",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

// stubGateway scripts one reply per message index.
type stubGateway struct {
	mu      sync.Mutex
	batches [][]map[string]any
	reply   func(index int, message map[string]any) gateway.Reply
}

func (g *stubGateway) Send(_ context.Context, _, _ string, messages []map[string]any) []gateway.Reply {
	g.mu.Lock()
	g.batches = append(g.batches, messages)
	g.mu.Unlock()

	replies := make([]gateway.Reply, len(messages))
	for i, message := range messages {
		reply := g.reply(i, message)
		reply.Index = i
		replies[i] = reply
	}
	return replies
}

func okReply(messageID string) gateway.Reply {
	return gateway.Reply{
		Received:   true,
		StatusCode: 200,
		Name:       "projects/my-project/messages/" + messageID,
		Date:       time.Now(),
	}
}

func notFoundReply() gateway.Reply {
	code := 404
	status := "NOT_FOUND"
	message := "Requested entity was not found."
	return gateway.Reply{
		Received:   true,
		StatusCode: 404,
		Error:      &gateway.ErrorDetail{Code: &code, Status: &status, Message: &message},
		Date:       time.Now(),
	}
}

func allOK(_ int, _ map[string]any) gateway.Reply { return okReply("0:ok") }

func newTestSender(t *testing.T, gw sender.Gateway, opts ...sender.Option) *sender.Sender {
	t.Helper()
	opts = append([]sender.Option{
		sender.WithTokenSource(&stubTokens{}),
		sender.WithGateway(gw),
	}, opts...)
	s, err := sender.New("main", testResolver, opts...)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("unknown account fails construction", func(t *testing.T) {
		t.Parallel()
		_, err := sender.New("missing", testResolver)
		assert.ErrorIs(t, err, token.ErrAccountNotFound)
	})

	t.Run("nil resolver fails construction", func(t *testing.T) {
		t.Parallel()
		_, err := sender.New("main", nil)
		assert.ErrorIs(t, err, token.ErrAccountNotFound)
	})
}

func TestSendValidation(t *testing.T) {
	t.Parallel()

	t.Run("nothing set", func(t *testing.T) {
		t.Parallel()
		s := newTestSender(t, &stubGateway{reply: allOK})
		_, err := s.Send(context.Background())
		assert.ErrorIs(t, err, sender.ErrEmptyMessage)
	})

	t.Run("payload without recipient", func(t *testing.T) {
		t.Parallel()
		s := newTestSender(t, &stubGateway{reply: allOK})
		s.SetNotification(payload.NewNotification("Title", "Body"))

		_, err := s.Send(context.Background())
		assert.ErrorIs(t, err, sender.ErrMissingRecipient)

		var missing *sender.MissingRecipientError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, 0, missing.Index)
	})

	t.Run("recipient without content", func(t *testing.T) {
		t.Parallel()
		s := newTestSender(t, &stubGateway{reply: allOK})
		s.SetDeviceToken("device-a")
		s.SetNotification(&payload.Notification{}) // renders to nothing

		_, err := s.Send(context.Background())
		assert.ErrorIs(t, err, sender.ErrMissingContent)

		var missing *sender.MissingContentError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, 0, missing.Index)
	})

	t.Run("sparse group index fails the gap", func(t *testing.T) {
		t.Parallel()
		s := newTestSender(t, &stubGateway{reply: allOK})
		s.SetGroup(1)
		s.SetDeviceToken("device-b")
		s.SetNotification(payload.NewNotification("Title", "Body"))

		_, err := s.Send(context.Background())
		var missing *sender.MissingRecipientError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, 0, missing.Index)
	})
}

func TestSendRendersSparseMessage(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{reply: allOK}
	s := newTestSender(t, gw)
	s.SetDeviceToken("device-a")
	s.SetNotification(payload.NewNotification("Hello", "World"))

	_, err := s.Send(context.Background())
	require.NoError(t, err)

	require.Len(t, gw.batches, 1)
	require.Len(t, gw.batches[0], 1)
	assert.Equal(t, map[string]any{
		"token": "device-a",
		"notification": map[string]any{
			"title": "Hello",
			"body":  "World",
		},
	}, gw.batches[0][0])
}

func TestSendMixedBatch(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{reply: func(index int, _ map[string]any) gateway.Reply {
		if index == 1 {
			return notFoundReply()
		}
		return okReply("0:ok")
	}}

	var failures []sender.Failure
	store := audit.NewMemoryStore()
	s := newTestSender(t, gw,
		sender.WithAuditStore(store),
		sender.WithFailureHandler(func(_ context.Context, failure sender.Failure) {
			failures = append(failures, failure)
		}),
	)

	for i, device := range []string{"device-a", "device-b", "device-c"} {
		s.SetGroup(i)
		s.SetDeviceToken(device)
		s.SetNotification(payload.NewNotification("Title", "Body"))
		s.SetAuditPayload1("campaign-7")
	}

	report, err := s.Send(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalCount)
	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, 1, report.FailureCount)
	require.Len(t, report.Results, 3)

	assert.True(t, report.Results[0].Success)
	assert.Equal(t, "0:ok", report.Results[0].MessageID)
	assert.Equal(t, sender.TargetToken, report.Results[0].Target)
	assert.Equal(t, "device-a", report.Results[0].Address)

	failed := report.Results[1]
	assert.False(t, failed.Success)
	assert.Empty(t, failed.MessageID)
	require.NotNil(t, failed.Error)
	assert.Equal(t, 404, *failed.Error.Code)
	assert.Equal(t, "NOT_FOUND", *failed.Error.Status)

	require.Len(t, failures, 1)
	assert.Equal(t, "main", failures[0].Account)
	assert.Equal(t, "device-b", failures[0].Address)

	records := store.Records()
	require.Len(t, records, 3)
	assert.NotNil(t, records[0].SentAt)
	assert.Nil(t, records[0].FailedAt)
	assert.Equal(t, "campaign-7", records[0].Payload1)
	assert.NotNil(t, records[1].FailedAt)
	assert.Nil(t, records[1].SentAt)
	assert.Contains(t, records[1].ErrorSummary, "NOT_FOUND")
}

func TestSendReusesSessionToken(t *testing.T) {
	t.Parallel()

	tokens := &stubTokens{}
	gw := &stubGateway{reply: allOK}
	s, err := sender.New("main", testResolver,
		sender.WithTokenSource(tokens),
		sender.WithGateway(gw),
	)
	require.NoError(t, err)

	s.SetDeviceToken("device-a")
	s.SetNotification(payload.NewNotification("Title", "Body"))

	_, err = s.Send(context.Background())
	require.NoError(t, err)
	_, err = s.Send(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), tokens.calls.Load(), "token fetched once per session while fresh")
}

func TestSendWithCondition(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{reply: allOK}
	s := newTestSender(t, gw)

	cond := condition.New().Topic("news").And().Topic("breaking")
	require.NoError(t, s.SetCondition(cond))
	s.SetNotification(payload.NewNotification("Title", "Body"))

	_, err := s.Send(context.Background())
	require.NoError(t, err)

	require.Len(t, gw.batches, 1)
	assert.Equal(t, "'news' in topics && 'breaking' in topics", gw.batches[0][0]["condition"])
}

func TestSetConditionInvalid(t *testing.T) {
	t.Parallel()

	s := newTestSender(t, &stubGateway{reply: allOK})
	err := s.SetCondition(condition.New().Topic("only-one"))
	assert.ErrorIs(t, err, condition.ErrInvalidCondition)
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := newTestSender(t, &stubGateway{reply: allOK})
	s.SetDeviceToken("device-a")
	s.SetNotification(payload.NewNotification("Title", "Body"))
	require.Equal(t, 1, s.GroupCount())

	s.Clear()
	assert.Equal(t, 0, s.GroupCount())
	_, err := s.Send(context.Background())
	assert.ErrorIs(t, err, sender.ErrEmptyMessage)
}

func TestGroupCountSpansSparseIndexes(t *testing.T) {
	t.Parallel()

	s := newTestSender(t, &stubGateway{reply: allOK})
	s.SetGroup(4)
	s.SetData(map[string]string{"k": "v"})
	assert.Equal(t, 5, s.GroupCount())
}

func TestRawMessagesBypassValidation(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{reply: allOK}
	s := newTestSender(t, gw)
	s.SetMessages([]map[string]any{
		{"token": "device-a", "data": map[string]string{"k": "v"}},
	})

	report, err := s.Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalCount)
	assert.Equal(t, "device-a", report.Results[0].Address)
	assert.Equal(t, sender.TargetToken, report.Results[0].Target)
}
