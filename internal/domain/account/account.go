package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName     = errors.New("account name cannot be empty")
	ErrInvalidType   = errors.New("account type must be one of asset, liability, equity, income, expense")
	ErrTypeImmutable = errors.New("account type cannot change once the account is referenced by transaction lines")
)

// Type classifies a chart-of-accounts entry.
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeIncome    Type = "income"
	TypeExpense   Type = "expense"
)

// Valid reports whether t is a known account type.
func (t Type) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeIncome, TypeExpense:
		return true
	}
	return false
}

// NormalSign returns +1 for debit-normal types (asset, expense) and -1 for
// credit-normal types (liability, equity, income). Ledger amounts store
// debits positive and credits negative; multiplying a signed total by the
// normal sign yields the "natural" amount reported on statements.
func (t Type) NormalSign() int64 {
	switch t {
	case TypeAsset, TypeExpense:
		return 1
	default:
		return -1
	}
}

// Account is a chart-of-accounts entry. Balances are never stored on the
// account; they are always derived from transaction lines.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount creates an active account with the given name and type.
func NewAccount(name string, accountType Type) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if !accountType.Valid() {
		return nil, ErrInvalidType
	}

	now := time.Now()
	return &Account{
		ID:        uuid.New(),
		Name:      name,
		Type:      accountType,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Deactivate retires the account. Retired accounts keep their history but
// reject new postings and line moves.
func (a *Account) Deactivate() {
	a.Active = false
	a.UpdatedAt = time.Now()
}

// Rename changes the display name.
func (a *Account) Rename(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	return nil
}
