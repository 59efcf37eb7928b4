package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/parish-fund-ledger/internal/domain/shared"
	"github.com/parish-fund-ledger/internal/platform/persistence"
)

// TransactionRepository implements the journal.Repository interface for
// PostgreSQL. Lines live in their own table and are always loaded with their
// owning transaction.
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) journal.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *TransactionRepository) WithTx(tx pgx.Tx) journal.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts the transaction header and all of its lines. Callers run
// this inside ExecuteTx so header and lines commit atomically.
func (r *TransactionRepository) Create(ctx context.Context, txn *journal.Transaction) error {
	headerQuery := `
		INSERT INTO transactions (id, date, memo, created_by, status, created_at, updated_at, voided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, headerQuery,
		txn.ID,
		txn.Date,
		txn.Memo,
		txn.CreatedBy,
		txn.Status,
		txn.CreatedAt,
		txn.UpdatedAt,
		txn.VoidedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	lineQuery := `
		INSERT INTO transaction_lines (id, transaction_id, account_id, fund_id, amount, memo, donor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i := range txn.Lines {
		line := &txn.Lines[i]
		_, err := r.querier.Exec(ctx, lineQuery,
			line.ID,
			line.TransactionID,
			line.AccountID,
			line.FundID,
			line.Amount,
			line.Memo,
			line.DonorID,
		)
		if err != nil {
			r.logger.Error("Failed to create transaction line", "transaction_id", txn.ID.String(), "error", err)
			return fmt.Errorf("failed to create transaction line: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a transaction with all its lines
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*journal.Transaction, error) {
	query := `
		SELECT id, date, memo, created_by, status, created_at, updated_at, voided_at
		FROM transactions
		WHERE id = $1
	`

	var txn journal.Transaction
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&txn.ID,
		&txn.Date,
		&txn.Memo,
		&txn.CreatedBy,
		&txn.Status,
		&txn.CreatedAt,
		&txn.UpdatedAt,
		&txn.VoidedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NotFoundError{Resource: "transaction", ID: id.String()}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	lines, err := r.loadLines(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	txn.Lines = lines[id]

	return &txn, nil
}

// List returns transactions matching the filter in stable order: date
// ascending, then ID ascending. Account and fund filters match transactions
// having at least one line on the account or fund; all lines of a matching
// transaction are returned.
func (r *TransactionRepository) List(ctx context.Context, filter journal.Filter) ([]*journal.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT t.id, t.date, t.memo, t.created_by, t.status, t.created_at, t.updated_at, t.voided_at
		FROM transactions t
		WHERE 1=1`)

	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if !filter.IncludeVoid {
		sb.WriteString(" AND t.status = " + arg(journal.StatusPosted))
	}
	if filter.DateFrom != nil {
		sb.WriteString(" AND t.date >= " + arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		sb.WriteString(" AND t.date <= " + arg(*filter.DateTo))
	}
	if filter.MemoMatch != "" {
		sb.WriteString(" AND t.memo ILIKE " + arg("%"+filter.MemoMatch+"%"))
	}
	if filter.AccountID != nil {
		sb.WriteString(" AND EXISTS (SELECT 1 FROM transaction_lines l WHERE l.transaction_id = t.id AND l.account_id = " + arg(*filter.AccountID) + ")")
	}
	if filter.FundID != nil {
		sb.WriteString(" AND EXISTS (SELECT 1 FROM transaction_lines l WHERE l.transaction_id = t.id AND l.fund_id = " + arg(*filter.FundID) + ")")
	}

	sb.WriteString(" ORDER BY t.date ASC, t.id ASC")

	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := r.querier.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*journal.Transaction
	var ids []uuid.UUID
	for rows.Next() {
		var txn journal.Transaction
		if err := rows.Scan(&txn.ID, &txn.Date, &txn.Memo, &txn.CreatedBy, &txn.Status, &txn.CreatedAt, &txn.UpdatedAt, &txn.VoidedAt); err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
		ids = append(ids, txn.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	if len(ids) == 0 {
		return txns, nil
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, txn := range txns {
		txn.Lines = lines[txn.ID]
	}

	return txns, nil
}

// loadLines fetches the lines for the given transactions keyed by owner.
func (r *TransactionRepository) loadLines(ctx context.Context, txnIDs []uuid.UUID) (map[uuid.UUID][]journal.Line, error) {
	query := `
		SELECT id, transaction_id, account_id, fund_id, amount, memo, donor_id
		FROM transaction_lines
		WHERE transaction_id = ANY($1)
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query, txnIDs)
	if err != nil {
		r.logger.Error("Failed to load transaction lines", "error", err)
		return nil, fmt.Errorf("failed to load transaction lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[uuid.UUID][]journal.Line)
	for rows.Next() {
		var line journal.Line
		if err := rows.Scan(&line.ID, &line.TransactionID, &line.AccountID, &line.FundID, &line.Amount, &line.Memo, &line.DonorID); err != nil {
			r.logger.Error("Failed to scan transaction line", "error", err)
			return nil, fmt.Errorf("failed to scan transaction line: %w", err)
		}
		lines[line.TransactionID] = append(lines[line.TransactionID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transaction lines: %w", err)
	}

	return lines, nil
}

// MarkVoid flips a posted transaction to void. The status guard in the WHERE
// clause makes the operation race-safe: a concurrent void loses and sees zero
// rows affected.
func (r *TransactionRepository) MarkVoid(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	query := `
		UPDATE transactions
		SET status = $1, voided_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.querier.Exec(ctx, query, journal.StatusVoid, at, id, journal.StatusPosted)
	if err != nil {
		r.logger.Error("Failed to void transaction", "id", id.String(), "error", err)
		return 0, fmt.Errorf("failed to void transaction: %w", err)
	}

	return result.RowsAffected(), nil
}

// UpdateLineAccounts rewrites the account reference on exactly the given
// lines of the transaction.
func (r *TransactionRepository) UpdateLineAccounts(ctx context.Context, txnID uuid.UUID, lineIDs []uuid.UUID, destAccountID uuid.UUID) (int64, error) {
	query := `
		UPDATE transaction_lines
		SET account_id = $1
		WHERE transaction_id = $2 AND id = ANY($3)
	`

	result, err := r.querier.Exec(ctx, query, destAccountID, txnID, lineIDs)
	if err != nil {
		r.logger.Error("Failed to update line accounts", "transaction_id", txnID.String(), "error", err)
		return 0, fmt.Errorf("failed to update line accounts: %w", err)
	}

	return result.RowsAffected(), nil
}

// SumActivity returns signed totals per (account, fund) for non-void lines
// whose transaction dates fall in the inclusive [from, to] range. Nil bounds
// leave that end of the range open.
func (r *TransactionRepository) SumActivity(ctx context.Context, from, to *time.Time, accountID, fundID *uuid.UUID) ([]journal.ActivityRow, error) {
	query := `
		SELECT l.account_id, l.fund_id, COALESCE(SUM(l.amount), 0)
		FROM transaction_lines l
		JOIN transactions t ON t.id = l.transaction_id
		WHERE t.status = $1
		  AND ($2::timestamptz IS NULL OR t.date >= $2)
		  AND ($3::timestamptz IS NULL OR t.date <= $3)
		  AND ($4::uuid IS NULL OR l.account_id = $4)
		  AND ($5::uuid IS NULL OR l.fund_id = $5)
		GROUP BY l.account_id, l.fund_id
		ORDER BY l.account_id, l.fund_id
	`

	rows, err := r.querier.Query(ctx, query, journal.StatusPosted, from, to, accountID, fundID)
	if err != nil {
		r.logger.Error("Failed to sum activity", "error", err)
		return nil, fmt.Errorf("failed to sum activity: %w", err)
	}
	defer rows.Close()

	var result []journal.ActivityRow
	for rows.Next() {
		var row journal.ActivityRow
		if err := rows.Scan(&row.AccountID, &row.FundID, &row.Amount); err != nil {
			r.logger.Error("Failed to scan activity row", "error", err)
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over activity rows: %w", err)
	}

	return result, nil
}

// SumActivityByMonth returns signed per-month totals for non-void lines in
// the inclusive range. Quarter and year figures are folded from these rows by
// the reporting layer so period sums stay exact.
func (r *TransactionRepository) SumActivityByMonth(ctx context.Context, from, to time.Time) ([]journal.MonthlyActivityRow, error) {
	query := `
		SELECT EXTRACT(YEAR FROM t.date)::int, EXTRACT(MONTH FROM t.date)::int, l.account_id, l.fund_id, COALESCE(SUM(l.amount), 0)
		FROM transaction_lines l
		JOIN transactions t ON t.id = l.transaction_id
		WHERE t.status = $1 AND t.date >= $2 AND t.date <= $3
		GROUP BY 1, 2, l.account_id, l.fund_id
		ORDER BY 1, 2, l.account_id, l.fund_id
	`

	rows, err := r.querier.Query(ctx, query, journal.StatusPosted, from, to)
	if err != nil {
		r.logger.Error("Failed to sum monthly activity", "error", err)
		return nil, fmt.Errorf("failed to sum monthly activity: %w", err)
	}
	defer rows.Close()

	var result []journal.MonthlyActivityRow
	for rows.Next() {
		var row journal.MonthlyActivityRow
		var month int
		if err := rows.Scan(&row.Year, &month, &row.AccountID, &row.FundID, &row.Amount); err != nil {
			r.logger.Error("Failed to scan monthly activity row", "error", err)
			return nil, fmt.Errorf("failed to scan monthly activity row: %w", err)
		}
		row.Month = time.Month(month)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over monthly activity rows: %w", err)
	}

	return result, nil
}
