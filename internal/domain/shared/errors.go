// Package shared holds the types that cross component boundaries: the error
// taxonomy returned by every engine operation and the actor/role model passed
// into privileged calls.
package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// Validation rule identifiers reported by ValidationError.
const (
	RuleMinimumLines  = "MINIMUM_LINES"
	RuleNonZeroAmount = "NON_ZERO_AMOUNT"
	RuleBalancedEntry = "BALANCED_ENTRY"
	RuleAccountRef    = "ACCOUNT_REFERENCE"
	RuleFundRef       = "FUND_REFERENCE"
	RuleDateRequired  = "DATE_REQUIRED"
)

// ValidationError rejects malformed or unbalanced input before any write.
// Rule names the first violated posting rule.
type ValidationError struct {
	Rule   string
	Detail string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed [%s]: %s", e.Rule, e.Detail)
}

// Is matches any ValidationError when the target carries no rule,
// otherwise it matches on the rule identifier.
func (e ValidationError) Is(target error) bool {
	t, ok := target.(ValidationError)
	if !ok {
		return false
	}
	return t.Rule == "" || t.Rule == e.Rule
}

// NotFoundError indicates an unknown transaction, line, account, fund or budget.
type NotFoundError struct {
	Resource string // "transaction", "line", "account", "fund", "budget"
	ID       string
}

func (e NotFoundError) Error() string {
	return e.Resource + " not found: " + e.ID
}

func (e NotFoundError) Is(target error) bool {
	t, ok := target.(NotFoundError)
	if !ok {
		return false
	}
	if t.Resource != "" && t.Resource != e.Resource {
		return false
	}
	return t.ID == "" || t.ID == e.ID
}

// AlreadyVoidError rejects operations against a transaction that was voided.
type AlreadyVoidError struct {
	TransactionID uuid.UUID
}

func (e AlreadyVoidError) Error() string {
	return "transaction already void: " + e.TransactionID.String()
}

func (e AlreadyVoidError) Is(target error) bool {
	t, ok := target.(AlreadyVoidError)
	if !ok {
		return false
	}
	return t.TransactionID == uuid.Nil || t.TransactionID == e.TransactionID
}

// NoOpError rejects a mutation that would change nothing, preventing a
// spurious audit event.
type NoOpError struct {
	Detail string
}

func (e NoOpError) Error() string {
	return "operation would have no effect: " + e.Detail
}

func (e NoOpError) Is(target error) bool {
	_, ok := target.(NoOpError)
	return ok
}

// InactiveAccountError rejects mutations against retired accounts.
type InactiveAccountError struct {
	AccountID uuid.UUID
}

func (e InactiveAccountError) Error() string {
	return "account is inactive: " + e.AccountID.String()
}

func (e InactiveAccountError) Is(target error) bool {
	t, ok := target.(InactiveAccountError)
	if !ok {
		return false
	}
	return t.AccountID == uuid.Nil || t.AccountID == e.AccountID
}

// AuthorizationError rejects a privileged operation for an under-privileged
// caller. The handler layer maps it to its own navigation/response handling.
type AuthorizationError struct {
	Role       Role
	Capability Capability
}

func (e AuthorizationError) Error() string {
	return fmt.Sprintf("role %q lacks capability %q", e.Role, e.Capability)
}

func (e AuthorizationError) Is(target error) bool {
	_, ok := target.(AuthorizationError)
	return ok
}

// InternalConsistencyError signals a defect in the ledger or aggregation
// layer (e.g. a balance sheet that does not balance), never bad input.
// It must be surfaced, not swallowed.
type InternalConsistencyError struct {
	Check  string
	Detail string
}

func (e InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency check %q failed: %s", e.Check, e.Detail)
}

func (e InternalConsistencyError) Is(target error) bool {
	t, ok := target.(InternalConsistencyError)
	if !ok {
		return false
	}
	return t.Check == "" || t.Check == e.Check
}
