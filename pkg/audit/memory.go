package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps records in memory, in insertion order. Meant for tests
// and single-process setups that want a send report without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	byID    map[uuid.UUID]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[uuid.UUID]int)}
}

// Insert appends the records.
func (s *MemoryStore) Insert(_ context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		s.byID[record.CorrelationID] = len(s.records)
		s.records = append(s.records, record)
	}
	return nil
}

// Reconcile applies each update to the record with the matching correlation
// id, inserting a new record when none exists.
func (s *MemoryStore) Reconcile(_ context.Context, updates []Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, update := range updates {
		idx, ok := s.byID[update.CorrelationID]
		if !ok {
			s.byID[update.CorrelationID] = len(s.records)
			s.records = append(s.records, Record{
				CorrelationID: update.CorrelationID,
				Account:       update.Account,
				MessageID:     update.MessageID,
				Target:        update.Target,
				Address:       update.Address,
				ErrorSummary:  update.ErrorSummary,
				SentAt:        update.SentAt,
				FailedAt:      update.FailedAt,
				CreatedAt:     update.UpdatedAt,
				UpdatedAt:     update.UpdatedAt,
			})
			continue
		}

		record := &s.records[idx]
		record.MessageID = update.MessageID
		record.SentAt = update.SentAt
		record.FailedAt = update.FailedAt
		record.ErrorSummary = update.ErrorSummary
		record.UpdatedAt = update.UpdatedAt
	}
	return nil
}

// PruneBefore drops records created before the cutoff.
func (s *MemoryStore) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var pruned int64
	for _, record := range s.records {
		if record.CreatedAt.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, record)
	}
	s.records = kept

	s.byID = make(map[uuid.UUID]int, len(s.records))
	for i, record := range s.records {
		s.byID[record.CorrelationID] = i
	}
	return pruned, nil
}

// Records returns a copy of all stored records in insertion order.
func (s *MemoryStore) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Find returns the record with the given correlation id.
func (s *MemoryStore) Find(id uuid.UUID) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return Record{}, false
	}
	return s.records[idx], true
}
