package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines chart-of-accounts persistence operations. Accounts are
// never hard-deleted; retirement is modeled by the active flag so that
// referenced history stays intact.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Account, error)
	List(ctx context.Context, activeOnly bool) ([]*Account, error)
	Update(ctx context.Context, account *Account) error

	// ReferenceCount reports how many transaction lines reference the
	// account. A non-zero count freezes the account type and forbids removal.
	ReferenceCount(ctx context.Context, id uuid.UUID) (int64, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrDuplicateName indicates account name uniqueness violation
type ErrDuplicateName struct {
	Name string
}

func (e ErrDuplicateName) Error() string {
	return "account with name already exists: " + e.Name
}
