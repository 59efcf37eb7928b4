package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/budget"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/stretchr/testify/mock"
)

// fakeTxRunner runs the callback without a database.
type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
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

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) GetByFiscalYear(ctx context.Context, fiscalYear int) (*budget.Budget, error) {
	args := m.Called(ctx, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Save(ctx context.Context, b *budget.Budget) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBudgetRepository) WithTx(tx pgx.Tx) budget.Repository {
	return m
}
