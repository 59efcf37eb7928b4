// Package ledger implements the posting engine: transaction creation,
// voiding, line reclassification and chart-of-accounts administration.
// Every mutation writes an audit event to the transactional outbox in the
// same database transaction, so the audit trail never diverges from the
// ledger.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/fund"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/parish-fund-ledger/internal/domain/shared"
)

// Service defines the transaction posting and mutation operations.
type Service interface {
	// PostTransaction validates and commits a new balanced transaction.
	// Returns a shared.ValidationError naming the first violated rule, or a
	// shared.AuthorizationError for under-privileged callers.
	PostTransaction(ctx context.Context, actor shared.Actor, date time.Time, memo string, lines []journal.LineInput, correlationID string) (*journal.Transaction, error)

	// GetTransaction retrieves a transaction with its lines.
	GetTransaction(ctx context.Context, actor shared.Actor, id uuid.UUID) (*journal.Transaction, error)

	// ListTransactions returns transactions matching the filter in stable
	// date-then-ID order.
	ListTransactions(ctx context.Context, actor shared.Actor, filter journal.Filter) ([]*journal.Transaction, error)

	// VoidTransaction marks a posted transaction void. Returns
	// shared.AlreadyVoidError if it was voided before.
	VoidTransaction(ctx context.Context, actor shared.Actor, id uuid.UUID, correlationID string) (*journal.Transaction, error)

	// MoveLines reclassifies the given lines of a posted transaction onto a
	// different account. Returns shared.NoOpError when every selected line
	// already sits on the destination account.
	MoveLines(ctx context.Context, actor shared.Actor, txnID uuid.UUID, lineIDs []uuid.UUID, destAccountID uuid.UUID, correlationID string) (*journal.Transaction, error)
}

// ChartService defines chart-of-accounts and fund administration.
type ChartService interface {
	CreateAccount(ctx context.Context, actor shared.Actor, name string, accountType account.Type) (*account.Account, error)
	GetAccount(ctx context.Context, actor shared.Actor, id uuid.UUID) (*account.Account, error)
	ListAccounts(ctx context.Context, actor shared.Actor, activeOnly bool) ([]*account.Account, error)

	// UpdateAccount renames or retypes an account. The type is immutable once
	// any transaction line references the account.
	UpdateAccount(ctx context.Context, actor shared.Actor, id uuid.UUID, name string, accountType account.Type) (*account.Account, error)

	// DeactivateAccount retires an account. History is kept; new postings
	// and line moves against it are rejected.
	DeactivateAccount(ctx context.Context, actor shared.Actor, id uuid.UUID) (*account.Account, error)

	CreateFund(ctx context.Context, actor shared.Actor, name string, restricted bool) (*fund.Fund, error)
	GetFund(ctx context.Context, actor shared.Actor, id uuid.UUID) (*fund.Fund, error)
	ListFunds(ctx context.Context, actor shared.Actor, activeOnly bool) ([]*fund.Fund, error)
	DeactivateFund(ctx context.Context, actor shared.Actor, id uuid.UUID) (*fund.Fund, error)
}
