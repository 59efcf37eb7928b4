package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parish-fund-ledger/internal/domain/audit"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/parish-fund-ledger/internal/domain/outbox"
	"github.com/parish-fund-ledger/internal/domain/shared"
)

// MoveLines reclassifies the selected lines of a posted transaction onto a
// different account. The transaction date, fund assignments and amounts are
// untouched, so the entry stays balanced and fund totals are unaffected.
func (s *ServiceImpl) MoveLines(ctx context.Context, actor shared.Actor, txnID uuid.UUID, lineIDs []uuid.UUID, destAccountID uuid.UUID, correlationID string) (*journal.Transaction, error) {
	if err := actor.Require(shared.CapabilityMove); err != nil {
		return nil, err
	}

	if len(lineIDs) == 0 {
		return nil, shared.NoOpError{Detail: "no lines selected"}
	}

	txn, err := s.journalRepo.GetByID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if txn.Status == journal.StatusVoid {
		return nil, shared.AlreadyVoidError{TransactionID: txnID}
	}

	dest, err := s.accountRepo.GetByID(ctx, destAccountID)
	if err != nil {
		return nil, err
	}
	if !dest.Active {
		return nil, shared.InactiveAccountError{AccountID: destAccountID}
	}

	sourceAccountIDs := make([]uuid.UUID, 0, len(lineIDs))
	anyChange := false
	for _, lineID := range lineIDs {
		line := txn.Line(lineID)
		if line == nil {
			return nil, shared.NotFoundError{Resource: "line", ID: lineID.String()}
		}
		sourceAccountIDs = append(sourceAccountIDs, line.AccountID)
		if line.AccountID != destAccountID {
			anyChange = true
		}
	}
	if !anyChange {
		return nil, shared.NoOpError{Detail: "every selected line is already on account " + destAccountID.String()}
	}

	event := audit.NewReclassifiedEvent(txnID, lineIDs, sourceAccountIDs, destAccountID, actor, correlationID)
	msg, err := outbox.NewMessage(event)
	if err != nil {
		return nil, err
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		affected, err := s.journalRepo.WithTx(tx).UpdateLineAccounts(ctx, txnID, lineIDs, destAccountID)
		if err != nil {
			return err
		}
		if affected != int64(len(lineIDs)) {
			return shared.InternalConsistencyError{
				Check:  "line_move",
				Detail: fmt.Sprintf("expected %d lines updated, got %d", len(lineIDs), affected),
			}
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	for _, lineID := range lineIDs {
		txn.Line(lineID).AccountID = destAccountID
	}
	s.logger.Info("transaction lines reclassified",
		"transaction_id", txnID.String(),
		"lines", len(lineIDs),
		"destination_account_id", destAccountID.String(),
		"actor_id", actor.ID,
	)
	return txn, nil
}
