package sender

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrgarest/firebase-sender/pkg/audit"
	"github.com/mrgarest/firebase-sender/pkg/condition"
	"github.com/mrgarest/firebase-sender/pkg/gateway"
	"github.com/mrgarest/firebase-sender/pkg/payload"
	"github.com/mrgarest/firebase-sender/pkg/queue"
	"github.com/mrgarest/firebase-sender/pkg/token"
	"github.com/mrgarest/firebase-sender/pkg/tree"
)

// TokenSource yields a valid bearer token for a service account.
type TokenSource interface {
	AccessToken(ctx context.Context, account token.ServiceAccount) (*token.AccessToken, error)
}

// Gateway dispatches rendered messages and returns one reply per message,
// in message order.
type Gateway interface {
	Send(ctx context.Context, projectID, accessToken string, messages []map[string]any) []gateway.Reply
}

// Sender is a dispatch session bound to one service account. Not safe for
// concurrent group mutation; concurrent Send calls are fine since they
// only share the session token.
type Sender struct {
	accountName string
	account     token.ServiceAccount

	tokens    TokenSource
	gateway   Gateway
	store     audit.Store
	queue     queue.Enqueuer
	log       *slog.Logger
	location  *time.Location
	now       func() time.Time
	onFailure FailureHandler

	auditEnabled bool

	// The session token is replaced whole, never edited, so a mutex around
	// read-or-refresh is all the coordination concurrent sends need.
	tokenMu   sync.Mutex
	authToken *token.AccessToken

	cursor        int
	recipients    map[int]Recipient
	notifications map[int]*payload.Notification
	android       map[int]*payload.Android
	apns          map[int]*payload.APNS
	web           map[int]*payload.Web
	data          map[int]map[string]string
	auditPayload1 map[int]string
	auditPayload2 map[int]string
	rawMessages   []map[string]any
}

// New creates a session for the named service account. Resolution happens
// here: an unknown or incomplete account fails construction, not Send.
func New(accountName string, resolver token.Resolver, opts ...Option) (*Sender, error) {
	if resolver == nil {
		return nil, token.ErrAccountNotFound
	}
	account, err := resolver.Resolve(accountName)
	if err != nil {
		return nil, err
	}

	s := &Sender{
		accountName: accountName,
		account:     account,
		log:         slog.Default(),
		location:    time.UTC,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tokens == nil {
		s.tokens = token.NewManager()
	}
	if s.gateway == nil {
		s.gateway = gateway.New()
	}

	s.Clear()
	return s, nil
}

// Clear drops all groups, payloads and raw messages. The session token and
// configuration survive.
func (s *Sender) Clear() {
	s.cursor = 0
	s.recipients = make(map[int]Recipient)
	s.notifications = make(map[int]*payload.Notification)
	s.android = make(map[int]*payload.Android)
	s.apns = make(map[int]*payload.APNS)
	s.web = make(map[int]*payload.Web)
	s.data = make(map[int]map[string]string)
	s.auditPayload1 = make(map[int]string)
	s.auditPayload2 = make(map[int]string)
	s.rawMessages = nil
}

// SetGroup moves the cursor; subsequent setters write to this group.
func (s *Sender) SetGroup(index int) {
	if index >= 0 {
		s.cursor = index
	}
}

// GroupCount reports how many groups the payload collections span: the
// highest populated index plus one, so sparse groups still count.
func (s *Sender) GroupCount() int {
	count := 0
	bump := func(index int) {
		if index+1 > count {
			count = index + 1
		}
	}
	for index := range s.notifications {
		bump(index)
	}
	for index := range s.android {
		bump(index)
	}
	for index := range s.apns {
		bump(index)
	}
	for index := range s.web {
		bump(index)
	}
	for index := range s.data {
		bump(index)
	}
	return count
}

// SetDeviceToken addresses the current group to a single device.
func (s *Sender) SetDeviceToken(deviceToken string) {
	s.recipients[s.cursor] = Recipient{Target: TargetToken, Address: deviceToken}
}

// SetTopic addresses the current group to all subscribers of a topic.
func (s *Sender) SetTopic(topic string) {
	s.recipients[s.cursor] = Recipient{Target: TargetTopic, Address: topic}
}

// SetCondition addresses the current group by a boolean topic condition.
// The condition is compiled immediately, so a malformed one fails here.
func (s *Sender) SetCondition(cond *condition.Builder) error {
	expr, err := cond.Expression()
	if err != nil {
		return err
	}
	s.recipients[s.cursor] = Recipient{Target: TargetCondition, Address: expr}
	return nil
}

// SetNotification sets the cross-platform notification payload. Nil removes it.
func (s *Sender) SetNotification(n *payload.Notification) {
	setOrDelete(s.notifications, s.cursor, n)
}

// SetAndroid sets the Android payload. Nil removes it.
func (s *Sender) SetAndroid(a *payload.Android) {
	setOrDelete(s.android, s.cursor, a)
}

// SetAPNS sets the APNs payload. Nil removes it.
func (s *Sender) SetAPNS(a *payload.APNS) {
	setOrDelete(s.apns, s.cursor, a)
}

// SetWeb sets the web push payload. Nil removes it.
func (s *Sender) SetWeb(w *payload.Web) {
	setOrDelete(s.web, s.cursor, w)
}

// SetData sets the custom key/value payload. Nil or empty removes it.
func (s *Sender) SetData(data map[string]string) {
	if len(data) == 0 {
		delete(s.data, s.cursor)
		return
	}
	s.data[s.cursor] = data
}

// SetAuditPayload1 attaches a free-form string to the group's audit record.
func (s *Sender) SetAuditPayload1(payload string) {
	s.auditPayload1[s.cursor] = payload
}

// SetAuditPayload2 attaches a second free-form string to the audit record.
func (s *Sender) SetAuditPayload2(payload string) {
	s.auditPayload2[s.cursor] = payload
}

// SetMessages bypasses the group builder with pre-rendered message bodies.
// Group validation is skipped for them.
func (s *Sender) SetMessages(messages []map[string]any) {
	s.rawMessages = messages
}

// EnableAudit toggles audit writes without detaching the store.
func (s *Sender) EnableAudit(enabled bool) {
	s.auditEnabled = enabled
}

func setOrDelete[T any](m map[int]*T, index int, v *T) {
	if v == nil {
		delete(m, index)
		return
	}
	m[index] = v
}

// buildMessages validates every group and renders the outgoing message
// list. Any malformed group aborts the whole batch before network I/O.
func (s *Sender) buildMessages() ([]map[string]any, error) {
	if len(s.rawMessages) > 0 {
		return s.rawMessages, nil
	}

	groupCount := s.GroupCount()
	if groupCount == 0 {
		return nil, ErrEmptyMessage
	}

	messages := make([]map[string]any, 0, groupCount)
	for i := 0; i < groupCount; i++ {
		recipient, ok := s.recipients[i]
		if !ok || recipient.Target == "" || recipient.Address == "" {
			return nil, &MissingRecipientError{Index: i}
		}

		message := map[string]any{
			string(recipient.Target): recipient.Address,
		}
		if n := s.notifications[i]; n != nil {
			message["notification"] = n.Render()
		}
		if a := s.android[i]; a != nil {
			message["android"] = a.Render()
		}
		if a := s.apns[i]; a != nil {
			message["apns"] = a.Render()
		}
		if w := s.web[i]; w != nil {
			message["webpush"] = w.Render()
		}
		if d := s.data[i]; len(d) > 0 {
			message["data"] = d
		}

		message = tree.PruneMap(message)
		if len(message) <= 1 {
			return nil, &MissingContentError{Index: i}
		}
		messages = append(messages, message)
	}

	if len(messages) == 0 {
		return nil, ErrEmptyMessage
	}
	return messages, nil
}

// accessToken returns the session token, refreshing it when absent or
// about to expire.
func (s *Sender) accessToken(ctx context.Context) (*token.AccessToken, error) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	if s.authToken != nil && !s.authToken.ExpiringSoon() {
		return s.authToken, nil
	}

	tok, err := s.tokens.AccessToken(ctx, s.account)
	if err != nil {
		return nil, err
	}
	s.authToken = tok
	return tok, nil
}

// Send dispatches all groups concurrently and returns the aggregated
// report. Per-message gateway failures live inside the report; only
// validation and token acquisition can fail the call itself.
func (s *Sender) Send(ctx context.Context) (*Report, error) {
	tok, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	messages, err := s.buildMessages()
	if err != nil {
		return nil, err
	}

	replies := s.gateway.Send(ctx, s.account.ProjectID, tok.Value, messages)
	report := s.assemble(ctx, messages, replies)

	if s.auditEnabled && s.store != nil {
		if err := s.store.Insert(ctx, s.auditRecords(report)); err != nil {
			s.log.ErrorContext(ctx, "audit insert failed",
				slog.String("account", s.accountName),
				slog.String("error", err.Error()))
		}
	}
	return report, nil
}

func (s *Sender) assemble(ctx context.Context, messages []map[string]any, replies []gateway.Reply) *Report {
	now := s.now()
	report := &Report{
		TotalCount: len(messages),
		Results:    make([]Result, 0, len(messages)),
	}

	for i, message := range messages {
		var reply gateway.Reply
		if i < len(replies) {
			reply = replies[i]
		}

		timestamp := now
		if !reply.Date.IsZero() {
			timestamp = reply.Date
		}
		timestamp = timestamp.In(s.location)

		recipient := recipientOf(message)
		result := Result{
			Success:   reply.Success(),
			MessageID: reply.MessageID(),
			Target:    recipient.Target,
			Address:   recipient.Address,
			Timestamp: timestamp,
			Error:     reply.Error,
		}
		report.Results = append(report.Results, result)

		if result.Success {
			report.SuccessCount++
			continue
		}
		report.FailureCount++

		if s.onFailure != nil {
			s.onFailure(ctx, Failure{
				Account: s.accountName,
				Target:  result.Target,
				Address: result.Address,
				Error:   result.Error,
			})
		}
	}
	return report
}

// auditRecords builds one completed audit row per result.
func (s *Sender) auditRecords(report *Report) []audit.Record {
	now := s.now()
	records := make([]audit.Record, 0, len(report.Results))
	for i, result := range report.Results {
		record := audit.Record{
			CorrelationID: uuid.New(),
			Account:       s.accountName,
			MessageID:     result.MessageID,
			Target:        string(result.Target),
			Address:       result.Address,
			Payload1:      s.auditPayload1[i],
			Payload2:      s.auditPayload2[i],
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		timestamp := result.Timestamp
		if result.Success {
			record.SentAt = &timestamp
		} else {
			record.FailedAt = &timestamp
			record.ErrorSummary = errorSummary(result.Error)
		}
		records = append(records, record)
	}
	return records
}
