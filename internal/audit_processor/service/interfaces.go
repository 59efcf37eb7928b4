package service

import (
	"context"

	"github.com/parish-fund-ledger/internal/domain/audit"
)

// RecordingService defines the interface for recording audit events into the
// durable trail.
type RecordingService interface {
	RecordEvent(ctx context.Context, event *audit.Event) error
}
