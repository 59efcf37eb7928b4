package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/fund"
	"github.com/parish-fund-ledger/internal/domain/shared"
)

// ChartServiceImpl implements the ChartService interface
type ChartServiceImpl struct {
	logger      *slog.Logger
	accountRepo account.Repository
	fundRepo    fund.Repository
}

// NewChartService creates a new chart-of-accounts administration service
func NewChartService(logger *slog.Logger, accountRepo account.Repository, fundRepo fund.Repository) ChartService {
	return &ChartServiceImpl{
		logger:      logger,
		accountRepo: accountRepo,
		fundRepo:    fundRepo,
	}
}

// CreateAccount creates a new active chart-of-accounts entry
func (s *ChartServiceImpl) CreateAccount(ctx context.Context, actor shared.Actor, name string, accountType account.Type) (*account.Account, error) {
	if err := actor.Require(shared.CapabilityAdminChart); err != nil {
		return nil, err
	}

	acc, err := account.NewAccount(name, accountType)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("account created", "account_id", acc.ID.String(), "name", acc.Name, "type", string(acc.Type))
	return acc, nil
}

// GetAccount retrieves an account by ID
func (s *ChartServiceImpl) GetAccount(ctx context.Context, actor shared.Actor, id uuid.UUID) (*account.Account, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}
	return s.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists the chart of accounts
func (s *ChartServiceImpl) ListAccounts(ctx context.Context, actor shared.Actor, activeOnly bool) ([]*account.Account, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}
	return s.accountRepo.List(ctx, activeOnly)
}

// UpdateAccount renames or retypes an account. The type is frozen once any
// transaction line references the account, because retyping would silently
// rewrite historical statements.
func (s *ChartServiceImpl) UpdateAccount(ctx context.Context, actor shared.Actor, id uuid.UUID, name string, accountType account.Type) (*account.Account, error) {
	if err := actor.Require(shared.CapabilityAdminChart); err != nil {
		return nil, err
	}

	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if accountType != "" && accountType != acc.Type {
		if !accountType.Valid() {
			return nil, account.ErrInvalidType
		}
		refs, err := s.accountRepo.ReferenceCount(ctx, id)
		if err != nil {
			return nil, err
		}
		if refs > 0 {
			return nil, account.ErrTypeImmutable
		}
		acc.Type = accountType
	}

	if name != "" && name != acc.Name {
		if err := acc.Rename(name); err != nil {
			return nil, err
		}
	}

	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("account updated", "account_id", id.String(), "name", acc.Name, "type", string(acc.Type))
	return acc, nil
}

// DeactivateAccount retires an account
func (s *ChartServiceImpl) DeactivateAccount(ctx context.Context, actor shared.Actor, id uuid.UUID) (*account.Account, error) {
	if err := actor.Require(shared.CapabilityAdminChart); err != nil {
		return nil, err
	}

	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acc.Active {
		return nil, shared.NoOpError{Detail: "account is already inactive: " + id.String()}
	}

	acc.Deactivate()
	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("account deactivated", "account_id", id.String())
	return acc, nil
}

// CreateFund creates a new active fund
func (s *ChartServiceImpl) CreateFund(ctx context.Context, actor shared.Actor, name string, restricted bool) (*fund.Fund, error) {
	if err := actor.Require(shared.CapabilityAdminChart); err != nil {
		return nil, err
	}

	f, err := fund.NewFund(name, restricted)
	if err != nil {
		return nil, err
	}

	if err := s.fundRepo.Create(ctx, f); err != nil {
		return nil, err
	}

	s.logger.Info("fund created", "fund_id", f.ID.String(), "name", f.Name, "restricted", f.Restricted)
	return f, nil
}

// GetFund retrieves a fund by ID
func (s *ChartServiceImpl) GetFund(ctx context.Context, actor shared.Actor, id uuid.UUID) (*fund.Fund, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}
	return s.fundRepo.GetByID(ctx, id)
}

// ListFunds lists all funds
func (s *ChartServiceImpl) ListFunds(ctx context.Context, actor shared.Actor, activeOnly bool) ([]*fund.Fund, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}
	return s.fundRepo.List(ctx, activeOnly)
}

// DeactivateFund retires a fund
func (s *ChartServiceImpl) DeactivateFund(ctx context.Context, actor shared.Actor, id uuid.UUID) (*fund.Fund, error) {
	if err := actor.Require(shared.CapabilityAdminChart); err != nil {
		return nil, err
	}

	f, err := s.fundRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !f.Active {
		return nil, shared.NoOpError{Detail: "fund is already inactive: " + id.String()}
	}

	f.Deactivate()
	if err := s.fundRepo.Update(ctx, f); err != nil {
		return nil, err
	}

	s.logger.Info("fund deactivated", "fund_id", id.String())
	return f, nil
}
