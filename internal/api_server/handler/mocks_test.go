package handler

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/api_server/middleware"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/fund"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/parish-fund-ledger/internal/domain/shared"
	"github.com/parish-fund-ledger/internal/ledger"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return r
}

// withActor installs a fixed actor the way the Actor middleware would.
func withActor(role shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ActorKey, shared.Actor{ID: "treasurer-1", Role: role})
		c.Next()
	}
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) PostTransaction(ctx context.Context, actor shared.Actor, date time.Time, memo string, lines []journal.LineInput, correlationID string) (*journal.Transaction, error) {
	args := m.Called(ctx, actor, date, memo, lines, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Transaction), args.Error(1)
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, actor shared.Actor, id uuid.UUID) (*journal.Transaction, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, actor shared.Actor, filter journal.Filter) ([]*journal.Transaction, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*journal.Transaction), args.Error(1)
}

func (m *MockLedgerService) VoidTransaction(ctx context.Context, actor shared.Actor, id uuid.UUID, correlationID string) (*journal.Transaction, error) {
	args := m.Called(ctx, actor, id, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Transaction), args.Error(1)
}

func (m *MockLedgerService) MoveLines(ctx context.Context, actor shared.Actor, txnID uuid.UUID, lineIDs []uuid.UUID, destAccountID uuid.UUID, correlationID string) (*journal.Transaction, error) {
	args := m.Called(ctx, actor, txnID, lineIDs, destAccountID, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Transaction), args.Error(1)
}

type MockChartService struct {
	mock.Mock
}

func (m *MockChartService) CreateAccount(ctx context.Context, actor shared.Actor, name string, accountType account.Type) (*account.Account, error) {
	args := m.Called(ctx, actor, name, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockChartService) GetAccount(ctx context.Context, actor shared.Actor, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockChartService) ListAccounts(ctx context.Context, actor shared.Actor, activeOnly bool) ([]*account.Account, error) {
	args := m.Called(ctx, actor, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockChartService) UpdateAccount(ctx context.Context, actor shared.Actor, id uuid.UUID, name string, accountType account.Type) (*account.Account, error) {
	args := m.Called(ctx, actor, id, name, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockChartService) DeactivateAccount(ctx context.Context, actor shared.Actor, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockChartService) CreateFund(ctx context.Context, actor shared.Actor, name string, restricted bool) (*fund.Fund, error) {
	args := m.Called(ctx, actor, name, restricted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Fund), args.Error(1)
}

func (m *MockChartService) GetFund(ctx context.Context, actor shared.Actor, id uuid.UUID) (*fund.Fund, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Fund), args.Error(1)
}

func (m *MockChartService) ListFunds(ctx context.Context, actor shared.Actor, activeOnly bool) ([]*fund.Fund, error) {
	args := m.Called(ctx, actor, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fund.Fund), args.Error(1)
}

func (m *MockChartService) DeactivateFund(ctx context.Context, actor shared.Actor, id uuid.UUID) (*fund.Fund, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Fund), args.Error(1)
}

var _ ledger.Service = (*MockLedgerService)(nil)
var _ ledger.ChartService = (*MockChartService)(nil)
