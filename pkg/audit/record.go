package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// chunkSize caps the number of rows per bulk write so a very large batch
// never turns into one oversized statement.
const chunkSize = 500

// Record is one message's audit row. Empty strings and nil times map to
// NULL columns in the SQL stores.
type Record struct {
	CorrelationID uuid.UUID
	Account       string
	MessageID     string
	Target        string
	Address       string
	Payload1      string
	Payload2      string
	ErrorSummary  string
	SentAt        *time.Time
	FailedAt      *time.Time
	ScheduledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Update carries the outcome of a deferred message back to its pending
// record. It holds enough of the row to insert one if the pending record
// went missing, which keeps reconciliation an upsert rather than a blind
// UPDATE.
type Update struct {
	CorrelationID uuid.UUID
	Account       string
	MessageID     string
	Target        string
	Address       string
	ErrorSummary  string
	SentAt        *time.Time
	FailedAt      *time.Time
	UpdatedAt     time.Time
}

// Store is the persistence boundary for audit records.
//
// Insert appends rows in bulk. Reconcile upserts by correlation id, touching
// only the outcome columns (message id, sent/failed timestamps, error
// summary) of rows that already exist; records whose correlation id is not
// among the updates are left untouched. Both must be safe for concurrent
// callers.
type Store interface {
	Insert(ctx context.Context, records []Record) error
	Reconcile(ctx context.Context, updates []Update) error

	// PruneBefore deletes records created before the cutoff, returning how
	// many were removed. Retention policy is the caller's concern.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

func chunkRecords(records []Record) [][]Record {
	var chunks [][]Record
	for len(records) > chunkSize {
		chunks = append(chunks, records[:chunkSize])
		records = records[chunkSize:]
	}
	if len(records) > 0 {
		chunks = append(chunks, records)
	}
	return chunks
}

func chunkUpdates(updates []Update) [][]Update {
	var chunks [][]Update
	for len(updates) > chunkSize {
		chunks = append(chunks, updates[:chunkSize])
		updates = updates[chunkSize:]
	}
	if len(updates) > 0 {
		chunks = append(chunks, updates)
	}
	return chunks
}
