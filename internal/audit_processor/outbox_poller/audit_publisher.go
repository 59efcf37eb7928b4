package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parish-fund-ledger/internal/domain/outbox"
	"github.com/parish-fund-ledger/internal/platform/messaging/producers"
)

// AuditPublisher publishes outbox messages to the audit event stream
type AuditPublisher interface {
	PublishAuditEvent(ctx context.Context, message *outbox.Message) error
}

// AuditPublisherImpl implements AuditPublisher
type AuditPublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewAuditPublisher creates a new publisher
func NewAuditPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) AuditPublisher {
	return &AuditPublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishAuditEvent pushes one outbox message onto the audit topic and marks
// it processed. The Kafka write is synchronous, so the message is durable
// before the outbox status changes; a crash in between re-delivers the event,
// which the consumer deduplicates by event ID.
func (p *AuditPublisherImpl) PublishAuditEvent(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal audit event from outbox payload",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	// Add correlation ID to logger
	logger := p.logger
	if event.CorrelationID != "" {
		logger = p.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Attempting to publish outbox message to audit stream",
		"outbox_id", message.ID, "event_id", event.ID.String(), "type", string(event.Type),
	)

	// Key by transaction ID so all events of one transaction land on the same
	// partition and are consumed in order.
	if err := p.producer.Publish(ctx, event.TransactionID.String(), event); err != nil {
		logger.Error("Failed to publish audit event to Kafka", "outbox_id", message.ID, "event_id", event.ID.String(), "error", err)
		return fmt.Errorf("failed to publish audit event %s: %w", event.ID.String(), err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "event_id", event.ID.String(), "error", err,
		)
		return fmt.Errorf("audit event %s published, but failed to mark outbox %d as PROCESSED: %w", event.ID.String(), message.ID, err)
	}

	logger.Info("Outbox message successfully published and marked as PROCESSED", "outbox_id", message.ID, "event_id", event.ID.String())
	return nil
}

// correlationIDOf extracts the correlation ID from an outbox payload for log
// enrichment, tolerating malformed payloads.
func correlationIDOf(message *outbox.Message) string {
	event, err := message.GetEvent()
	if err != nil {
		return ""
	}
	return event.CorrelationID
}
