package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/fund"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/parish-fund-ledger/internal/domain/outbox"
	"github.com/stretchr/testify/mock"
)

// fakeTxRunner runs the transactional closure directly, without a database.
type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*account.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context, activeOnly bool) ([]*account.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) ReferenceCount(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return m
}

type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) Create(ctx context.Context, f *fund.Fund) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFundRepository) GetByID(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Fund), args.Error(1)
}

func (m *MockFundRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*fund.Fund, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*fund.Fund), args.Error(1)
}

func (m *MockFundRepository) List(ctx context.Context, activeOnly bool) ([]*fund.Fund, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fund.Fund), args.Error(1)
}

func (m *MockFundRepository) Update(ctx context.Context, f *fund.Fund) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFundRepository) WithTx(tx pgx.Tx) fund.Repository {
	return m
}

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) Create(ctx context.Context, txn *journal.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockJournalRepository) GetByID(ctx context.Context, id uuid.UUID) (*journal.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Transaction), args.Error(1)
}

func (m *MockJournalRepository) List(ctx context.Context, filter journal.Filter) ([]*journal.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*journal.Transaction), args.Error(1)
}

func (m *MockJournalRepository) MarkVoid(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, id, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) UpdateLineAccounts(ctx context.Context, txnID uuid.UUID, lineIDs []uuid.UUID, destAccountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, txnID, lineIDs, destAccountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) SumActivity(ctx context.Context, from, to *time.Time, accountID, fundID *uuid.UUID) ([]journal.ActivityRow, error) {
	args := m.Called(ctx, from, to, accountID, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]journal.ActivityRow), args.Error(1)
}

func (m *MockJournalRepository) SumActivityByMonth(ctx context.Context, from, to time.Time) ([]journal.MonthlyActivityRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]journal.MonthlyActivityRow), args.Error(1)
}

func (m *MockJournalRepository) WithTx(tx pgx.Tx) journal.Repository {
	return m
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) UpdateStatus(ctx context.Context, id int64, status outbox.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	return m
}
