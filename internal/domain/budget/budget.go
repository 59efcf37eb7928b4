package budget

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidFiscalYear = errors.New("fiscal year must be a four-digit year")
	ErrFinalized         = errors.New("budget is final and cannot be edited")
)

// Status defines budget lifecycle states.
type Status string

const (
	StatusDraft Status = "draft"
	StatusFinal Status = "final"
)

// Budget is the plan for one fiscal year. Exactly one budget exists per
// fiscal year; saving replaces its full entry set (last-write-wins).
type Budget struct {
	ID         uuid.UUID `json:"id"`
	FiscalYear int       `json:"fiscal_year"`
	Status     Status    `json:"status"`
	Lines      []Line    `json:"lines"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Line is one planned annual amount for an (account, fund) pair. Amounts are
// natural (normal-sign-adjusted) minor units: an expense budget of 1200.00
// is stored as 120000 regardless of the ledger sign convention.
type Line struct {
	ID        uuid.UUID `json:"id"`
	BudgetID  uuid.UUID `json:"budget_id"`
	AccountID uuid.UUID `json:"account_id"`
	FundID    uuid.UUID `json:"fund_id"`
	Amount    int64     `json:"amount"`
}

// LineInput is a budget line as submitted by a caller.
type LineInput struct {
	AccountID uuid.UUID
	FundID    uuid.UUID
	Amount    int64
}

// NewBudget assembles a draft budget for the fiscal year.
func NewBudget(fiscalYear int, lines []LineInput) (*Budget, error) {
	if fiscalYear < 1000 || fiscalYear > 9999 {
		return nil, ErrInvalidFiscalYear
	}

	id := uuid.New()
	now := time.Now()
	b := &Budget{
		ID:         id,
		FiscalYear: fiscalYear,
		Status:     StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, in := range lines {
		b.Lines = append(b.Lines, Line{
			ID:        uuid.New(),
			BudgetID:  id,
			AccountID: in.AccountID,
			FundID:    in.FundID,
			Amount:    in.Amount,
		})
	}
	return b, nil
}

// Finalize freezes the budget for variance reporting.
func (b *Budget) Finalize() {
	b.Status = StatusFinal
	b.UpdatedAt = time.Now()
}
