package sender

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/mrgarest/firebase-sender/pkg/audit"
	"github.com/mrgarest/firebase-sender/pkg/queue"
	"github.com/mrgarest/firebase-sender/pkg/token"
)

// DefaultChunkLength is how many messages one deferred job carries when the
// caller does not say otherwise.
const DefaultChunkLength = 10

// ChunkJob is the unit of deferred work: one chunk of rendered messages and
// the correlation ids of their pending audit records, positionally aligned.
type ChunkJob struct {
	Account        string           `json:"account"`
	AuditEnabled   bool             `json:"audit_enabled"`
	Messages       []map[string]any `json:"messages"`
	CorrelationIDs []uuid.UUID      `json:"correlation_ids"`
}

// ChunkHandlerName identifies the queue handler that processes ChunkJobs.
const ChunkHandlerName = "firebase:dispatch-chunk"

// Schedule validates and renders all groups now, persists pending audit
// records, and enqueues the messages in chunks delayed until scheduledAt.
// With maxJitter > 0 each chunk additionally waits a uniformly random
// 0..maxJitter on top, spreading load at the gateway.
//
// A validation failure aborts before anything is persisted or enqueued.
func (s *Sender) Schedule(ctx context.Context, scheduledAt time.Time, chunkLength int, maxJitter time.Duration) error {
	if s.queue == nil {
		return ErrNoQueue
	}
	if chunkLength <= 0 {
		chunkLength = DefaultChunkLength
	}

	messages, err := s.buildMessages()
	if err != nil {
		return err
	}

	now := s.now()
	auditEnabled := s.auditEnabled && s.store != nil

	ids := make([]uuid.UUID, len(messages))
	var records []audit.Record
	for i, message := range messages {
		ids[i] = uuid.New()
		if !auditEnabled {
			continue
		}
		recipient := recipientOf(message)
		records = append(records, audit.Record{
			CorrelationID: ids[i],
			Account:       s.accountName,
			Target:        string(recipient.Target),
			Address:       recipient.Address,
			Payload1:      s.auditPayload1[i],
			Payload2:      s.auditPayload2[i],
			ScheduledAt:   &scheduledAt,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	if len(records) > 0 {
		if err := s.store.Insert(ctx, records); err != nil {
			return err
		}
	}

	baseDelay := max(scheduledAt.Sub(now), 0)
	for start := 0; start < len(messages); start += chunkLength {
		end := min(start+chunkLength, len(messages))
		job := ChunkJob{
			Account:        s.accountName,
			AuditEnabled:   auditEnabled,
			Messages:       messages[start:end],
			CorrelationIDs: ids[start:end],
		}

		delay := baseDelay
		if maxJitter > 0 {
			delay += time.Duration(rand.Int63n(int64(maxJitter) + 1))
		}
		if err := s.queue.Enqueue(ctx, job, delay); err != nil {
			return err
		}
	}
	return nil
}

// Runner executes ChunkJobs on the worker side. Each chunk runs through a
// fresh session with audit writes disabled, then reconciles the pending
// audit records in one upsert.
type Runner struct {
	resolver token.Resolver
	store    audit.Store
	opts     []Option
}

// NewRunner creates a Runner. opts are applied to every per-chunk session,
// on top of which audit writes are forcibly disabled to avoid
// double-inserting rows that already exist in pending state.
func NewRunner(resolver token.Resolver, store audit.Store, opts ...Option) *Runner {
	return &Runner{resolver: resolver, store: store, opts: opts}
}

// Handler adapts the Runner into a queue handler.
func (r *Runner) Handler() queue.Handler {
	return queue.NewTaskHandler(ChunkHandlerName, r.Process)
}

// Process dispatches one chunk and reconciles its audit records.
func (r *Runner) Process(ctx context.Context, job ChunkJob) error {
	session, err := New(job.Account, r.resolver, r.opts...)
	if err != nil {
		return err
	}
	session.EnableAudit(false)
	session.SetMessages(job.Messages)

	report, err := session.Send(ctx)
	if err != nil {
		return err
	}

	if !job.AuditEnabled || r.store == nil {
		return nil
	}

	now := session.now()
	updates := make([]audit.Update, 0, len(report.Results))
	for i, result := range report.Results {
		if i >= len(job.CorrelationIDs) {
			break
		}
		update := audit.Update{
			CorrelationID: job.CorrelationIDs[i],
			Account:       job.Account,
			MessageID:     result.MessageID,
			Target:        string(result.Target),
			Address:       result.Address,
			UpdatedAt:     now,
		}
		timestamp := result.Timestamp
		if result.Success {
			update.SentAt = &timestamp
		} else {
			update.FailedAt = &timestamp
			update.ErrorSummary = errorSummary(result.Error)
		}
		updates = append(updates, update)
	}
	return r.store.Reconcile(ctx, updates)
}
