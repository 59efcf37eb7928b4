// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the fund ledger system.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/shared"
	"github.com/parish-fund-ledger/internal/platform/persistence"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new chart-of-accounts entry.
// Returns ErrDuplicateName if an account with the same name exists.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, name, type, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Name,
		acc.Type,
		acc.Active,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateName{Name: acc.Name}
		}
		r.logger.Error("Failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, name, type, active, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.Name,
		&acc.Type,
		&acc.Active,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFoundError{Resource: "account", ID: id.String()}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// GetByIDs retrieves the given accounts keyed by ID. Unknown IDs are simply
// absent from the result; the caller decides whether that is an error.
func (r *AccountRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	accounts := make(map[uuid.UUID]*account.Account, len(ids))
	if len(ids) == 0 {
		return accounts, nil
	}

	query := `
		SELECT id, name, type, active, created_at, updated_at
		FROM accounts
		WHERE id = ANY($1)
	`

	rows, err := r.querier.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error("Failed to get accounts by IDs", "error", err)
		return nil, fmt.Errorf("failed to get accounts by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.Type, &acc.Active, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts[acc.ID] = &acc
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

// List retrieves the chart of accounts ordered by name.
func (r *AccountRepository) List(ctx context.Context, activeOnly bool) ([]*account.Account, error) {
	query := `
		SELECT id, name, type, active, created_at, updated_at
		FROM accounts
		WHERE ($1 = false OR active = true)
		ORDER BY name ASC
	`

	rows, err := r.querier.Query(ctx, query, activeOnly)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.Type, &acc.Active, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

// Update rewrites the account's mutable fields (name, type, active).
// The service layer enforces type immutability for referenced accounts.
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, type = $2, active = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Name,
		acc.Type,
		acc.Active,
		acc.UpdatedAt,
		acc.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateName{Name: acc.Name}
		}
		r.logger.Error("Failed to update account", "id", acc.ID.String(), "error", err)
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.NotFoundError{Resource: "account", ID: acc.ID.String()}
	}

	return nil
}

// ReferenceCount reports how many transaction lines reference the account.
func (r *AccountRepository) ReferenceCount(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transaction_lines
		WHERE account_id = $1
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query, id).Scan(&count); err != nil {
		r.logger.Error("Failed to count account references", "id", id.String(), "error", err)
		return 0, fmt.Errorf("failed to count account references: %w", err)
	}

	return count, nil
}
