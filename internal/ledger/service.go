package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/audit"
	"github.com/parish-fund-ledger/internal/domain/fund"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/parish-fund-ledger/internal/domain/outbox"
	"github.com/parish-fund-ledger/internal/domain/shared"
)

// TxRunner executes a function inside a database transaction. It is satisfied
// by persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	logger      *slog.Logger
	db          TxRunner
	accountRepo account.Repository
	fundRepo    fund.Repository
	journalRepo journal.Repository
	outboxRepo  outbox.Repository
}

// NewService creates a new posting engine service
func NewService(
	logger *slog.Logger,
	db TxRunner,
	accountRepo account.Repository,
	fundRepo fund.Repository,
	journalRepo journal.Repository,
	outboxRepo outbox.Repository,
) Service {
	return &ServiceImpl{
		logger:      logger,
		db:          db,
		accountRepo: accountRepo,
		fundRepo:    fundRepo,
		journalRepo: journalRepo,
		outboxRepo:  outboxRepo,
	}
}

// PostTransaction validates a candidate transaction against the posting rules
// and commits it together with its audit event.
func (s *ServiceImpl) PostTransaction(ctx context.Context, actor shared.Actor, date time.Time, memo string, lines []journal.LineInput, correlationID string) (*journal.Transaction, error) {
	if err := actor.Require(shared.CapabilityPost); err != nil {
		return nil, err
	}

	refs, err := s.loadReferences(ctx, lines)
	if err != nil {
		return nil, err
	}

	if err := journal.Validate(date, lines, refs); err != nil {
		return nil, err
	}

	txn := journal.NewTransaction(date, memo, actor.ID, lines)

	event := audit.NewPostedEvent(txn.ID, actor, correlationID)
	msg, err := outbox.NewMessage(event)
	if err != nil {
		return nil, err
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.journalRepo.WithTx(tx).Create(ctx, txn); err != nil {
			return err
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction posted",
		"transaction_id", txn.ID.String(),
		"date", txn.Date.Format("2006-01-02"),
		"lines", len(txn.Lines),
		"actor_id", actor.ID,
	)
	return txn, nil
}

// GetTransaction retrieves a transaction with its lines
func (s *ServiceImpl) GetTransaction(ctx context.Context, actor shared.Actor, id uuid.UUID) (*journal.Transaction, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}
	return s.journalRepo.GetByID(ctx, id)
}

// ListTransactions returns transactions matching the filter
func (s *ServiceImpl) ListTransactions(ctx context.Context, actor shared.Actor, filter journal.Filter) ([]*journal.Transaction, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}
	return s.journalRepo.List(ctx, filter)
}

// VoidTransaction marks a posted transaction void and records the audit
// event. The status guard in MarkVoid catches a concurrent void: zero rows
// affected means someone else got there first.
func (s *ServiceImpl) VoidTransaction(ctx context.Context, actor shared.Actor, id uuid.UUID, correlationID string) (*journal.Transaction, error) {
	if err := actor.Require(shared.CapabilityVoid); err != nil {
		return nil, err
	}

	txn, err := s.journalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.Status == journal.StatusVoid {
		return nil, shared.AlreadyVoidError{TransactionID: id}
	}

	event := audit.NewVoidedEvent(id, actor, correlationID)
	msg, err := outbox.NewMessage(event)
	if err != nil {
		return nil, err
	}

	at := time.Now().UTC()
	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		affected, err := s.journalRepo.WithTx(tx).MarkVoid(ctx, id, at)
		if err != nil {
			return err
		}
		if affected == 0 {
			return shared.AlreadyVoidError{TransactionID: id}
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	txn.Void(at)
	s.logger.Info("transaction voided",
		"transaction_id", id.String(),
		"actor_id", actor.ID,
	)
	return txn, nil
}

// loadReferences resolves every account and fund a candidate transaction
// refers to. Unknown references are simply absent from the maps and surface
// as validation failures.
func (s *ServiceImpl) loadReferences(ctx context.Context, lines []journal.LineInput) (journal.References, error) {
	accountIDs := make([]uuid.UUID, 0, len(lines))
	fundIDs := make([]uuid.UUID, 0, len(lines))
	seenAccounts := make(map[uuid.UUID]bool)
	seenFunds := make(map[uuid.UUID]bool)
	for _, line := range lines {
		if !seenAccounts[line.AccountID] {
			seenAccounts[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
		if !seenFunds[line.FundID] {
			seenFunds[line.FundID] = true
			fundIDs = append(fundIDs, line.FundID)
		}
	}

	accounts, err := s.accountRepo.GetByIDs(ctx, accountIDs)
	if err != nil {
		return journal.References{}, err
	}
	funds, err := s.fundRepo.GetByIDs(ctx, fundIDs)
	if err != nil {
		return journal.References{}, err
	}

	refs := journal.References{
		Accounts: make(map[uuid.UUID]bool, len(accounts)),
		Funds:    make(map[uuid.UUID]bool, len(funds)),
	}
	for id, acc := range accounts {
		refs.Accounts[id] = acc.Active
	}
	for id, f := range funds {
		refs.Funds[id] = f.Active
	}
	return refs, nil
}
