package sender

import (
	"log/slog"
	"time"

	"github.com/mrgarest/firebase-sender/pkg/audit"
	"github.com/mrgarest/firebase-sender/pkg/queue"
)

// Option configures a Sender session.
type Option func(*Sender)

// WithTokenSource replaces the default token manager.
func WithTokenSource(tokens TokenSource) Option {
	return func(s *Sender) {
		if tokens != nil {
			s.tokens = tokens
		}
	}
}

// WithGateway replaces the default gateway client.
func WithGateway(gw Gateway) Option {
	return func(s *Sender) {
		if gw != nil {
			s.gateway = gw
		}
	}
}

// WithAuditStore attaches an audit store and enables audit logging. Call
// EnableAudit(false) to keep the store but skip writes.
func WithAuditStore(store audit.Store) Option {
	return func(s *Sender) {
		if store != nil {
			s.store = store
			s.auditEnabled = true
		}
	}
}

// WithQueue attaches the queue Schedule hands chunks to.
func WithQueue(q queue.Enqueuer) Option {
	return func(s *Sender) {
		if q != nil {
			s.queue = q
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Sender) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLocation sets the timezone result timestamps are expressed in.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Sender) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sender) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFailureHandler registers a callback fired once per failed message.
func WithFailureHandler(fn FailureHandler) Option {
	return func(s *Sender) {
		s.onFailure = fn
	}
}
