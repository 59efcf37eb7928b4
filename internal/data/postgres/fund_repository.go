package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parish-fund-ledger/internal/domain/fund"
	"github.com/parish-fund-ledger/internal/domain/shared"
	"github.com/parish-fund-ledger/internal/platform/persistence"
)

// FundRepository implements the fund.Repository interface for PostgreSQL
type FundRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewFundRepository creates a new PostgreSQL fund repository
func NewFundRepository(logger *slog.Logger, db *persistence.PostgresDB) fund.Repository {
	return &FundRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *FundRepository) WithTx(tx pgx.Tx) fund.Repository {
	return &FundRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new fund.
// Returns ErrDuplicateName if a fund with the same name exists.
func (r *FundRepository) Create(ctx context.Context, f *fund.Fund) error {
	query := `
		INSERT INTO funds (id, name, restricted, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		f.ID,
		f.Name,
		f.Restricted,
		f.Active,
		f.CreatedAt,
		f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fund.ErrDuplicateName{Name: f.Name}
		}
		r.logger.Error("Failed to create fund", "error", err)
		return fmt.Errorf("failed to create fund: %w", err)
	}

	return nil
}

// GetByID retrieves a fund by its ID
func (r *FundRepository) GetByID(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	query := `
		SELECT id, name, restricted, active, created_at, updated_at
		FROM funds
		WHERE id = $1
	`

	var f fund.Fund
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.Name,
		&f.Restricted,
		&f.Active,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFoundError{Resource: "fund", ID: id.String()}
		}
		r.logger.Error("Failed to get fund", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get fund: %w", err)
	}

	return &f, nil
}

// GetByIDs retrieves the given funds keyed by ID. Unknown IDs are absent from
// the result.
func (r *FundRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*fund.Fund, error) {
	funds := make(map[uuid.UUID]*fund.Fund, len(ids))
	if len(ids) == 0 {
		return funds, nil
	}

	query := `
		SELECT id, name, restricted, active, created_at, updated_at
		FROM funds
		WHERE id = ANY($1)
	`

	rows, err := r.querier.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error("Failed to get funds by IDs", "error", err)
		return nil, fmt.Errorf("failed to get funds by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f fund.Fund
		if err := rows.Scan(&f.ID, &f.Name, &f.Restricted, &f.Active, &f.CreatedAt, &f.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan fund", "error", err)
			return nil, fmt.Errorf("failed to scan fund: %w", err)
		}
		funds[f.ID] = &f
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over funds: %w", err)
	}

	return funds, nil
}

// List retrieves all funds ordered by name
func (r *FundRepository) List(ctx context.Context, activeOnly bool) ([]*fund.Fund, error) {
	query := `
		SELECT id, name, restricted, active, created_at, updated_at
		FROM funds
		WHERE ($1 = false OR active = true)
		ORDER BY name ASC
	`

	rows, err := r.querier.Query(ctx, query, activeOnly)
	if err != nil {
		r.logger.Error("Failed to list funds", "error", err)
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}
	defer rows.Close()

	var funds []*fund.Fund
	for rows.Next() {
		var f fund.Fund
		if err := rows.Scan(&f.ID, &f.Name, &f.Restricted, &f.Active, &f.CreatedAt, &f.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan fund", "error", err)
			return nil, fmt.Errorf("failed to scan fund: %w", err)
		}
		funds = append(funds, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over funds: %w", err)
	}

	return funds, nil
}

// Update rewrites the fund's mutable fields
func (r *FundRepository) Update(ctx context.Context, f *fund.Fund) error {
	query := `
		UPDATE funds
		SET name = $1, restricted = $2, active = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		f.Name,
		f.Restricted,
		f.Active,
		f.UpdatedAt,
		f.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fund.ErrDuplicateName{Name: f.Name}
		}
		r.logger.Error("Failed to update fund", "id", f.ID.String(), "error", err)
		return fmt.Errorf("failed to update fund: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.NotFoundError{Resource: "fund", ID: f.ID.String()}
	}

	return nil
}
