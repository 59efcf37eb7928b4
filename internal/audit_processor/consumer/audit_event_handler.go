package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/parish-fund-ledger/internal/audit_processor/service"
	"github.com/parish-fund-ledger/internal/domain/audit"
	"github.com/parish-fund-ledger/internal/platform/messaging/producers"
)

// AuditEventHandler handles incoming audit event messages from Kafka
type AuditEventHandler struct {
	recordingService service.RecordingService
	producer         producers.DeadLetterPublisher
	logger           *slog.Logger
}

// NewAuditEventHandler creates a new handler
func NewAuditEventHandler(
	logger *slog.Logger,
	recordingService service.RecordingService,
	producer producers.DeadLetterPublisher,
) *AuditEventHandler {
	return &AuditEventHandler{
		recordingService: recordingService,
		producer:         producer,
		logger:           logger,
	}
}

// HandleMessage processes Kafka messages
func (h *AuditEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event audit.Event
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal audit event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received audit event for recording",
		"event_id", event.ID.String(),
		"type", string(event.Type),
		"transaction_id", event.TransactionID.String(),
		"actor_id", event.ActorID,
	)

	if err := h.recordingService.RecordEvent(ctx, &event); err != nil {
		logger.Error("Failed to record audit event",
			"event_id", event.ID.String(),
			"transaction_id", event.TransactionID.String(),
			"error", err,
		)
		return fmt.Errorf("recording audit event %s failed: %w", event.ID.String(), err)
	}

	logger.Info("Successfully recorded audit event", "event_id", event.ID.String())
	return nil // Success, commit offset
}
