// Package mongo provides the MongoDB-backed audit trail. Audit events are
// append-only documents; the repository never updates or deletes them.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parish-fund-ledger/internal/domain/audit"
)

const (
	// AuditCollectionName is the name of the audit event collection in MongoDB
	AuditCollectionName = "audit_events"
)

// AuditRepository implements the audit.Repository interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit repository
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) audit.Repository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a new audit event after checking for duplicates.
// Returns ErrDuplicateEvent if an event with the same ID already exists, so
// at-least-once Kafka deliveries are recorded exactly once.
func (r *AuditRepository) Create(ctx context.Context, event *audit.Event) error {
	collection := r.db.Collection(AuditCollectionName)

	existing, err := r.GetByID(ctx, event.ID)
	if err != nil && !errors.Is(err, audit.ErrEventNotFound{}) {
		r.logger.Error("Failed to check for existing audit event",
			"event_id", event.ID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing audit event: %w", err)
	}

	if existing != nil {
		return audit.ErrDuplicateEvent{ID: event.ID}
	}

	_, err = collection.InsertOne(ctx, event)
	if err != nil {
		r.logger.Error("Failed to create audit event",
			"event_id", event.ID.String(),
			"error", err)
		return fmt.Errorf("failed to create audit event: %w", err)
	}

	return nil
}

// GetByID retrieves an audit event by its ID.
// Returns ErrEventNotFound if no event exists with the given ID.
func (r *AuditRepository) GetByID(ctx context.Context, id uuid.UUID) (*audit.Event, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"id": id}
	var event audit.Event
	err := collection.FindOne(ctx, filter).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, audit.ErrEventNotFound{ID: id}
		}
		r.logger.Error("Failed to get audit event",
			"event_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get audit event: %w", err)
	}

	return &event, nil
}

// GetByTransactionID retrieves every audit event recorded for a transaction,
// oldest first, giving the full mutation history of the entry.
func (r *AuditRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*audit.Event, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"transaction_id": transactionID}
	opts := options.Find().SetSort(bson.M{"occurred_at": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get audit events by transaction",
			"transaction_id", transactionID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get audit events by transaction: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*audit.Event
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode audit events",
			"transaction_id", transactionID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode audit events: %w", err)
	}

	return events, nil
}

// GetByTimeRange retrieves paginated audit events within the specified time
// window. Results are sorted by occurrence time in descending order for
// recent-first access.
func (r *AuditRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*audit.Event, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{
		"occurred_at": bson.M{
			"$gte": startTime,
			"$lte": endTime,
		},
	}
	opts := options.Find().
		SetSort(bson.M{"occurred_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get audit events by time range",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to get audit events by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*audit.Event
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode audit events",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to decode audit events: %w", err)
	}

	return events, nil
}
