package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/domain/shared"
)

// References carries the activity state of every account and fund a
// candidate transaction refers to. Missing keys mean the reference is
// unknown; a false value means it exists but is retired.
type References struct {
	Accounts map[uuid.UUID]bool
	Funds    map[uuid.UUID]bool
}

// Validate enforces the posting rules on a candidate transaction. It is a
// pure function: rules are checked in a fixed order and the first violation
// is returned as a shared.ValidationError; it never partially validates.
//
// Rule order:
//  1. at least two lines (no single-sided entries)
//  2. every amount is a non-zero integer minor-unit value
//  3. signed amounts sum to zero across all lines (debits positive,
//     credits negative)
//  4. every referenced account and fund exists and is active
func Validate(date time.Time, lines []LineInput, refs References) error {
	if date.IsZero() {
		return shared.ValidationError{Rule: shared.RuleDateRequired, Detail: "transaction date is required"}
	}

	if len(lines) < 2 {
		return shared.ValidationError{
			Rule:   shared.RuleMinimumLines,
			Detail: fmt.Sprintf("a transaction needs at least two lines, got %d", len(lines)),
		}
	}

	for i, line := range lines {
		if line.Amount == 0 {
			return shared.ValidationError{
				Rule:   shared.RuleNonZeroAmount,
				Detail: fmt.Sprintf("line %d has a zero amount", i),
			}
		}
	}

	var sum int64
	for _, line := range lines {
		sum += line.Amount
	}
	if sum != 0 {
		return shared.ValidationError{
			Rule:   shared.RuleBalancedEntry,
			Detail: fmt.Sprintf("signed line amounts sum to %d minor units, want 0", sum),
		}
	}

	for _, line := range lines {
		active, ok := refs.Accounts[line.AccountID]
		if !ok {
			return shared.ValidationError{
				Rule:   shared.RuleAccountRef,
				Detail: "unknown account: " + line.AccountID.String(),
			}
		}
		if !active {
			return shared.ValidationError{
				Rule:   shared.RuleAccountRef,
				Detail: "inactive account: " + line.AccountID.String(),
			}
		}

		active, ok = refs.Funds[line.FundID]
		if !ok {
			return shared.ValidationError{
				Rule:   shared.RuleFundRef,
				Detail: "unknown fund: " + line.FundID.String(),
			}
		}
		if !active {
			return shared.ValidationError{
				Rule:   shared.RuleFundRef,
				Detail: "inactive fund: " + line.FundID.String(),
			}
		}
	}

	return nil
}
