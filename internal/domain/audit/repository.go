package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository manages the durable audit trail.
type Repository interface {
	// Create appends an event. Inserting an event ID that already exists
	// returns ErrDuplicateEvent so consumers can record at-least-once
	// deliveries idempotently.
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*Event, error)
	GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*Event, error)
}

// ErrEventNotFound indicates missing audit event
type ErrEventNotFound struct {
	ID uuid.UUID
}

func (e ErrEventNotFound) Error() string {
	return "audit event not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrEventNotFound
func (e ErrEventNotFound) Is(target error) bool {
	t, ok := target.(ErrEventNotFound)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || t.ID == e.ID
}

// ErrDuplicateEvent indicates event uniqueness violation
type ErrDuplicateEvent struct {
	ID uuid.UUID
}

func (e ErrDuplicateEvent) Error() string {
	return "duplicate audit event: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrDuplicateEvent
func (e ErrDuplicateEvent) Is(target error) bool {
	t, ok := target.(ErrDuplicateEvent)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || t.ID == e.ID
}
