package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	insertColumns = `correlation_id, service_account, message_id, target, address,
		payload_1, payload_2, error_summary, sent_at, failed_at, scheduled_at,
		created_at, updated_at`
	insertColumnCount = 13

	upsertColumns = `correlation_id, service_account, message_id, target, address,
		error_summary, sent_at, failed_at, created_at, updated_at`
	upsertColumnCount = 10
)

// PostgresStore persists records in the firebase_dispatch_logs table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool. Run Migrate before
// first use.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	return &PostgresStore{pool: pool}, nil
}

// Insert writes the records in bulk, chunked multi-row statements.
func (s *PostgresStore) Insert(ctx context.Context, records []Record) error {
	for _, chunk := range chunkRecords(records) {
		placeholders := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*insertColumnCount)
		for i, record := range chunk {
			placeholders = append(placeholders, rowPlaceholder(i, insertColumnCount))
			args = append(args,
				record.CorrelationID.String(),
				record.Account,
				nullStr(record.MessageID),
				record.Target,
				record.Address,
				nullStr(record.Payload1),
				nullStr(record.Payload2),
				nullStr(record.ErrorSummary),
				record.SentAt,
				record.FailedAt,
				record.ScheduledAt,
				record.CreatedAt,
				record.UpdatedAt,
			)
		}

		query := fmt.Sprintf(
			"INSERT INTO firebase_dispatch_logs (%s) VALUES %s",
			insertColumns, strings.Join(placeholders, ", "),
		)
		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return errors.Join(errors.New("audit: insert failed"), err)
		}
	}
	return nil
}

// Reconcile upserts by correlation id. Existing rows get only their outcome
// columns replaced; a missing row is inserted whole.
func (s *PostgresStore) Reconcile(ctx context.Context, updates []Update) error {
	for _, chunk := range chunkUpdates(updates) {
		placeholders := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*upsertColumnCount)
		for i, update := range chunk {
			placeholders = append(placeholders, rowPlaceholder(i, upsertColumnCount))
			args = append(args,
				update.CorrelationID.String(),
				update.Account,
				nullStr(update.MessageID),
				update.Target,
				update.Address,
				nullStr(update.ErrorSummary),
				update.SentAt,
				update.FailedAt,
				update.UpdatedAt,
				update.UpdatedAt,
			)
		}

		query := fmt.Sprintf(
			`INSERT INTO firebase_dispatch_logs (%s) VALUES %s
			ON CONFLICT (correlation_id) DO UPDATE SET
				message_id = EXCLUDED.message_id,
				error_summary = EXCLUDED.error_summary,
				sent_at = EXCLUDED.sent_at,
				failed_at = EXCLUDED.failed_at,
				updated_at = EXCLUDED.updated_at`,
			upsertColumns, strings.Join(placeholders, ", "),
		)
		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return errors.Join(errors.New("audit: reconcile failed"), err)
		}
	}
	return nil
}

// PruneBefore deletes rows created before the cutoff.
func (s *PostgresStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM firebase_dispatch_logs WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, errors.Join(errors.New("audit: prune failed"), err)
	}
	return tag.RowsAffected(), nil
}

func rowPlaceholder(row, width int) string {
	parts := make([]string, width)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", row*width+i+1)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
