// Package journal defines the double-entry transaction model and the posting
// rules every candidate transaction must pass before it is committed.
//
// Sign convention, applied uniformly across validation, aggregation and
// reporting: amounts are signed integer minor units, debits positive,
// credits negative. A balanced transaction's line amounts sum to exactly
// zero at the transaction level (not per fund).
package journal

import (
	"time"

	"github.com/google/uuid"
)

// Status defines transaction lifecycle states. Posted transactions are never
// hard-deleted; voiding flips the status and excludes the transaction from
// aggregation while keeping it queryable for audit.
type Status string

const (
	StatusPosted Status = "posted"
	StatusVoid   Status = "void"
)

// Transaction is a dated journal entry owning a set of lines.
type Transaction struct {
	ID        uuid.UUID  `json:"id"`
	Date      time.Time  `json:"date"` // calendar date, midnight UTC
	Memo      string     `json:"memo"`
	CreatedBy string     `json:"created_by"`
	Status    Status     `json:"status"`
	Lines     []Line     `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	VoidedAt  *time.Time `json:"voided_at,omitempty"`
}

// Line is one debit or credit within a transaction, owned exclusively by it.
// DonorID is an opaque tag used by contribution tracking; the ledger never
// interprets it.
type Line struct {
	ID            uuid.UUID `json:"id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	AccountID     uuid.UUID `json:"account_id"`
	FundID        uuid.UUID `json:"fund_id"`
	Amount        int64     `json:"amount"` // signed minor units, debit positive
	Memo          string    `json:"memo,omitempty"`
	DonorID       string    `json:"donor_id,omitempty"`
}

// LineInput is a line as submitted by a caller, before identifiers are
// assigned.
type LineInput struct {
	AccountID uuid.UUID
	FundID    uuid.UUID
	Amount    int64
	Memo      string
	DonorID   string
}

// NewTransaction assembles a posted transaction from caller input, assigning
// identifiers. It does not validate posting rules; see Validate.
func NewTransaction(date time.Time, memo string, createdBy string, lines []LineInput) *Transaction {
	id := uuid.New()
	now := time.Now()

	txn := &Transaction{
		ID:        id,
		Date:      NormalizeDate(date),
		Memo:      memo,
		CreatedBy: createdBy,
		Status:    StatusPosted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, in := range lines {
		txn.Lines = append(txn.Lines, Line{
			ID:            uuid.New(),
			TransactionID: id,
			AccountID:     in.AccountID,
			FundID:        in.FundID,
			Amount:        in.Amount,
			Memo:          in.Memo,
			DonorID:       in.DonorID,
		})
	}
	return txn
}

// Void marks the transaction void at the given time.
func (t *Transaction) Void(at time.Time) {
	t.Status = StatusVoid
	t.VoidedAt = &at
	t.UpdatedAt = at
}

// Line returns the owned line with the given ID, or nil.
func (t *Transaction) Line(id uuid.UUID) *Line {
	for i := range t.Lines {
		if t.Lines[i].ID == id {
			return &t.Lines[i]
		}
	}
	return nil
}

// NormalizeDate truncates a timestamp to its calendar date at midnight UTC.
// All range comparisons are inclusive-inclusive over calendar dates.
func NormalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
