package budget

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository manages budget persistence. Saves replace the fiscal year's
// full entry set; concurrent saves are last-write-wins and any optimistic
// check is the caller's concern.
type Repository interface {
	// GetByFiscalYear returns the year's budget or nil when none was saved.
	GetByFiscalYear(ctx context.Context, fiscalYear int) (*Budget, error)

	// Save upserts the budget and replaces all of its lines.
	Save(ctx context.Context, budget *Budget) error

	WithTx(tx pgx.Tx) Repository
}
