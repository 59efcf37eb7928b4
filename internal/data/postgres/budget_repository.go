package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/parish-fund-ledger/internal/domain/budget"
	"github.com/parish-fund-ledger/internal/platform/persistence"
)

// BudgetRepository implements the budget.Repository interface for PostgreSQL.
// One row per fiscal year; saving replaces the full line set.
type BudgetRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewBudgetRepository creates a new PostgreSQL budget repository
func NewBudgetRepository(logger *slog.Logger, db *persistence.PostgresDB) budget.Repository {
	return &BudgetRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *BudgetRepository) WithTx(tx pgx.Tx) budget.Repository {
	return &BudgetRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// GetByFiscalYear returns the year's budget with lines, or nil when none was
// saved.
func (r *BudgetRepository) GetByFiscalYear(ctx context.Context, fiscalYear int) (*budget.Budget, error) {
	query := `
		SELECT id, fiscal_year, status, created_at, updated_at
		FROM budgets
		WHERE fiscal_year = $1
	`

	var b budget.Budget
	err := r.querier.QueryRow(ctx, query, fiscalYear).Scan(
		&b.ID,
		&b.FiscalYear,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get budget", "fiscal_year", fiscalYear, "error", err)
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	lineQuery := `
		SELECT id, budget_id, account_id, fund_id, amount
		FROM budget_lines
		WHERE budget_id = $1
		ORDER BY account_id, fund_id
	`

	rows, err := r.querier.Query(ctx, lineQuery, b.ID)
	if err != nil {
		r.logger.Error("Failed to load budget lines", "fiscal_year", fiscalYear, "error", err)
		return nil, fmt.Errorf("failed to load budget lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line budget.Line
		if err := rows.Scan(&line.ID, &line.BudgetID, &line.AccountID, &line.FundID, &line.Amount); err != nil {
			r.logger.Error("Failed to scan budget line", "error", err)
			return nil, fmt.Errorf("failed to scan budget line: %w", err)
		}
		b.Lines = append(b.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over budget lines: %w", err)
	}

	return &b, nil
}

// Save upserts the fiscal year's budget and replaces all of its lines.
// Last write wins; callers run this inside ExecuteTx.
func (r *BudgetRepository) Save(ctx context.Context, b *budget.Budget) error {
	upsertQuery := `
		INSERT INTO budgets (id, fiscal_year, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fiscal_year)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	var storedID = b.ID
	err := r.querier.QueryRow(ctx, upsertQuery,
		b.ID,
		b.FiscalYear,
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&storedID)
	if err != nil {
		r.logger.Error("Failed to save budget", "fiscal_year", b.FiscalYear, "error", err)
		return fmt.Errorf("failed to save budget: %w", err)
	}

	// On conflict the stored row keeps its original ID; rebind the lines.
	b.ID = storedID

	if _, err := r.querier.Exec(ctx, `DELETE FROM budget_lines WHERE budget_id = $1`, storedID); err != nil {
		r.logger.Error("Failed to clear budget lines", "fiscal_year", b.FiscalYear, "error", err)
		return fmt.Errorf("failed to clear budget lines: %w", err)
	}

	lineQuery := `
		INSERT INTO budget_lines (id, budget_id, account_id, fund_id, amount)
		VALUES ($1, $2, $3, $4, $5)
	`

	for i := range b.Lines {
		line := &b.Lines[i]
		line.BudgetID = storedID
		_, err := r.querier.Exec(ctx, lineQuery,
			line.ID,
			line.BudgetID,
			line.AccountID,
			line.FundID,
			line.Amount,
		)
		if err != nil {
			r.logger.Error("Failed to save budget line", "fiscal_year", b.FiscalYear, "error", err)
			return fmt.Errorf("failed to save budget line: %w", err)
		}
	}

	return nil
}
