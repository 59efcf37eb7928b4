// Package audit defines the append-only events emitted for every ledger
// mutation. Events travel from the Postgres outbox through Kafka into the
// MongoDB audit trail; they are never updated or deleted.
package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/domain/shared"
)

// EventType defines the audited ledger mutations.
type EventType string

const (
	EventTransactionPosted EventType = "TRANSACTION_POSTED"
	EventTransactionVoided EventType = "TRANSACTION_VOIDED"
	EventLinesReclassified EventType = "LINES_RECLASSIFIED"
)

// Event records one ledger mutation: who did what to which transaction and
// when. For reclassifications, SourceAccountIDs holds the previous account of
// each moved line (parallel to LineIDs) and DestinationAccountID the target.
type Event struct {
	ID                   uuid.UUID   `json:"id" bson:"id"`
	Type                 EventType   `json:"type" bson:"type"`
	TransactionID        uuid.UUID   `json:"transaction_id" bson:"transaction_id"`
	LineIDs              []uuid.UUID `json:"line_ids,omitempty" bson:"line_ids,omitempty"`
	SourceAccountIDs     []uuid.UUID `json:"source_account_ids,omitempty" bson:"source_account_ids,omitempty"`
	DestinationAccountID *uuid.UUID  `json:"destination_account_id,omitempty" bson:"destination_account_id,omitempty"`
	ActorID              string      `json:"actor_id" bson:"actor_id"`
	ActorRole            shared.Role `json:"actor_role" bson:"actor_role"`
	OccurredAt           time.Time   `json:"occurred_at" bson:"occurred_at"`
	CorrelationID        string      `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
}

// NewPostedEvent records a transaction posting.
func NewPostedEvent(transactionID uuid.UUID, actor shared.Actor, correlationID string) *Event {
	return &Event{
		ID:            uuid.New(),
		Type:          EventTransactionPosted,
		TransactionID: transactionID,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		OccurredAt:    time.Now().UTC(),
		CorrelationID: correlationID,
	}
}

// NewVoidedEvent records a transaction void.
func NewVoidedEvent(transactionID uuid.UUID, actor shared.Actor, correlationID string) *Event {
	return &Event{
		ID:            uuid.New(),
		Type:          EventTransactionVoided,
		TransactionID: transactionID,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		OccurredAt:    time.Now().UTC(),
		CorrelationID: correlationID,
	}
}

// NewReclassifiedEvent records a line move between accounts.
func NewReclassifiedEvent(transactionID uuid.UUID, lineIDs, sourceAccountIDs []uuid.UUID, destAccountID uuid.UUID, actor shared.Actor, correlationID string) *Event {
	return &Event{
		ID:                   uuid.New(),
		Type:                 EventLinesReclassified,
		TransactionID:        transactionID,
		LineIDs:              lineIDs,
		SourceAccountIDs:     sourceAccountIDs,
		DestinationAccountID: &destAccountID,
		ActorID:              actor.ID,
		ActorRole:            actor.Role,
		OccurredAt:           time.Now().UTC(),
		CorrelationID:        correlationID,
	}
}
