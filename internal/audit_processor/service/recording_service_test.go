package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/domain/audit"
	"github.com/parish-fund-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuditRepository for testing
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, event *audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByID(ctx context.Context, id uuid.UUID) (*audit.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.Event), args.Error(1)
}

func (m *MockAuditRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*audit.Event, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Event), args.Error(1)
}

func (m *MockAuditRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*audit.Event, error) {
	args := m.Called(ctx, startTime, endTime, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Event), args.Error(1)
}

func TestRecordingService_RecordEvent(t *testing.T) {
	logger := slog.Default()
	actor := shared.Actor{ID: "treasurer-1", Role: shared.RoleBookkeeper}

	t.Run("Success", func(t *testing.T) {
		mockRepo := &MockAuditRepository{}
		svc := NewRecordingService(logger, mockRepo)

		event := audit.NewPostedEvent(uuid.New(), actor, "corr-1")
		mockRepo.On("Create", mock.Anything, event).Return(nil).Once()

		err := svc.RecordEvent(context.Background(), event)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DuplicateEventIsIdempotent", func(t *testing.T) {
		mockRepo := &MockAuditRepository{}
		svc := NewRecordingService(logger, mockRepo)

		event := audit.NewVoidedEvent(uuid.New(), actor, "corr-2")
		mockRepo.On("Create", mock.Anything, event).Return(audit.ErrDuplicateEvent{ID: event.ID}).Once()

		err := svc.RecordEvent(context.Background(), event)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRepo := &MockAuditRepository{}
		svc := NewRecordingService(logger, mockRepo)

		event := audit.NewPostedEvent(uuid.New(), actor, "")
		mockRepo.On("Create", mock.Anything, event).Return(errors.New("mongo unavailable")).Once()

		err := svc.RecordEvent(context.Background(), event)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to record audit event")
		mockRepo.AssertExpectations(t)
	})
}
