package fund

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines fund persistence operations.
type Repository interface {
	Create(ctx context.Context, fund *Fund) error
	GetByID(ctx context.Context, id uuid.UUID) (*Fund, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Fund, error)
	List(ctx context.Context, activeOnly bool) ([]*Fund, error)
	Update(ctx context.Context, fund *Fund) error
	WithTx(tx pgx.Tx) Repository
}

// ErrDuplicateName indicates fund name uniqueness violation
type ErrDuplicateName struct {
	Name string
}

func (e ErrDuplicateName) Error() string {
	return "fund with name already exists: " + e.Name
}
