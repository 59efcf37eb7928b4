package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/parish-fund-ledger/internal/domain/audit"
)

// RecordingServiceImpl appends audit events to the MongoDB trail.
type RecordingServiceImpl struct {
	auditRepo audit.Repository
	logger    *slog.Logger
}

// NewRecordingService creates a new recording service
func NewRecordingService(logger *slog.Logger, auditRepo audit.Repository) *RecordingServiceImpl {
	return &RecordingServiceImpl{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// RecordEvent appends the event to the audit trail. Kafka delivers
// at-least-once, so a duplicate event ID is treated as already recorded and
// reported as success.
func (s *RecordingServiceImpl) RecordEvent(ctx context.Context, event *audit.Event) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	if err := s.auditRepo.Create(ctx, event); err != nil {
		if errors.Is(err, audit.ErrDuplicateEvent{}) {
			logger.Info("Audit event already recorded, skipping",
				"event_id", event.ID.String(),
				"transaction_id", event.TransactionID.String(),
			)
			return nil
		}
		logger.Error("Failed to record audit event",
			"event_id", event.ID.String(),
			"transaction_id", event.TransactionID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to record audit event %s: %w", event.ID.String(), err)
	}

	logger.Info("Recorded audit event",
		"event_id", event.ID.String(),
		"type", string(event.Type),
		"transaction_id", event.TransactionID.String(),
	)
	return nil
}
