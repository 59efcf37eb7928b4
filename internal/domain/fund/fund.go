package fund

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyName rejects funds without a display name.
var ErrEmptyName = errors.New("fund name cannot be empty")

// Fund is a restriction bucket orthogonal to account type (e.g. unrestricted,
// restricted-building). Every transaction line belongs to exactly one fund.
type Fund struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Restricted bool      `json:"restricted"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewFund creates an active fund.
func NewFund(name string, restricted bool) (*Fund, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	now := time.Now()
	return &Fund{
		ID:         uuid.New(),
		Name:       name,
		Restricted: restricted,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Deactivate retires the fund; history is kept, new postings are rejected.
func (f *Fund) Deactivate() {
	f.Active = false
	f.UpdatedAt = time.Now()
}
