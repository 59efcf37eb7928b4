package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Filter narrows a transaction listing. Date bounds are inclusive calendar
// dates. Void transactions are excluded unless IncludeVoid is set (audit
// queries set it).
type Filter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	AccountID   *uuid.UUID
	FundID      *uuid.UUID
	MemoMatch   string
	IncludeVoid bool
	Limit       int
	Offset      int
}

// ActivityRow is a signed total per (account, fund) over some date range,
// computed from non-void lines only.
type ActivityRow struct {
	AccountID uuid.UUID
	FundID    uuid.UUID
	Amount    int64
}

// MonthlyActivityRow is a signed per-account, per-fund total for one
// calendar month. Quarter and year figures are folded from these rows in
// process so that period sums are exact.
type MonthlyActivityRow struct {
	Year      int
	Month     time.Month
	AccountID uuid.UUID
	FundID    uuid.UUID
	Amount    int64
}

// Repository manages transaction persistence and the aggregation reads the
// reporting layer is built on. Aggregations never include void transactions.
type Repository interface {
	// Create inserts the transaction and all its lines.
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// List returns transactions in stable order: date ascending, then
	// identifier ascending.
	List(ctx context.Context, filter Filter) ([]*Transaction, error)

	// MarkVoid flips the transaction to void status. The caller is expected
	// to have checked current status; MarkVoid reports rows affected so the
	// caller can detect a lost race.
	MarkVoid(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)

	// UpdateLineAccounts rewrites the account reference on exactly the given
	// lines of the transaction, returning the number of lines updated.
	UpdateLineAccounts(ctx context.Context, txnID uuid.UUID, lineIDs []uuid.UUID, destAccountID uuid.UUID) (int64, error)

	// SumActivity returns signed totals per (account, fund) for non-void
	// lines with transaction dates in [from, to]; nil bounds are open ends.
	SumActivity(ctx context.Context, from, to *time.Time, accountID, fundID *uuid.UUID) ([]ActivityRow, error)

	// SumActivityByMonth returns signed per-month totals for non-void lines
	// in the inclusive range, ordered by year, month, account, fund.
	SumActivityByMonth(ctx context.Context, from, to time.Time) ([]MonthlyActivityRow, error)

	WithTx(tx pgx.Tx) Repository
}
