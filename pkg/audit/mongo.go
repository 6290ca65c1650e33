package audit

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoCollection is the collection audit documents live in.
const MongoCollection = "firebase_dispatch_logs"

// MongoStore persists records as documents keyed by correlation id.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore wraps a database handle. Callers should ensure a unique
// index on correlation_id so the upsert contract holds under races.
func NewMongoStore(db *mongo.Database) (*MongoStore, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}
	return &MongoStore{collection: db.Collection(MongoCollection)}, nil
}

// Insert writes the records in chunked InsertMany calls.
func (s *MongoStore) Insert(ctx context.Context, records []Record) error {
	for _, chunk := range chunkRecords(records) {
		docs := make([]any, 0, len(chunk))
		for _, record := range chunk {
			docs = append(docs, recordDoc(record))
		}
		if _, err := s.collection.InsertMany(ctx, docs); err != nil {
			return errors.Join(errors.New("audit: insert failed"), err)
		}
	}
	return nil
}

// Reconcile upserts by correlation id via one bulk write per chunk.
func (s *MongoStore) Reconcile(ctx context.Context, updates []Update) error {
	for _, chunk := range chunkUpdates(updates) {
		models := make([]mongo.WriteModel, 0, len(chunk))
		for _, update := range chunk {
			models = append(models, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"correlation_id": update.CorrelationID.String()}).
				SetUpdate(bson.M{
					"$set": bson.M{
						"message_id":    nullStr(update.MessageID),
						"error_summary": nullStr(update.ErrorSummary),
						"sent_at":       update.SentAt,
						"failed_at":     update.FailedAt,
						"updated_at":    update.UpdatedAt,
					},
					"$setOnInsert": bson.M{
						"service_account": update.Account,
						"target":          update.Target,
						"address":         update.Address,
						"created_at":      update.UpdatedAt,
					},
				}).
				SetUpsert(true))
		}
		if _, err := s.collection.BulkWrite(ctx, models); err != nil {
			return errors.Join(errors.New("audit: reconcile failed"), err)
		}
	}
	return nil
}

// PruneBefore deletes documents created before the cutoff.
func (s *MongoStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, errors.Join(errors.New("audit: prune failed"), err)
	}
	return res.DeletedCount, nil
}

func recordDoc(record Record) bson.M {
	return bson.M{
		"correlation_id":  record.CorrelationID.String(),
		"service_account": record.Account,
		"message_id":      nullStr(record.MessageID),
		"target":          record.Target,
		"address":         record.Address,
		"payload_1":       nullStr(record.Payload1),
		"payload_2":       nullStr(record.Payload2),
		"error_summary":   nullStr(record.ErrorSummary),
		"sent_at":         record.SentAt,
		"failed_at":       record.FailedAt,
		"scheduled_at":    record.ScheduledAt,
		"created_at":      record.CreatedAt,
		"updated_at":      record.UpdatedAt,
	}
}
