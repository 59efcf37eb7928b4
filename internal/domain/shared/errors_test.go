package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidationErrorIs(t *testing.T) {
	err := ValidationError{Rule: RuleBalancedEntry, Detail: "signed sum is 1"}

	assert.True(t, errors.Is(err, ValidationError{}))
	assert.True(t, errors.Is(err, ValidationError{Rule: RuleBalancedEntry}))
	assert.False(t, errors.Is(err, ValidationError{Rule: RuleMinimumLines}))

	wrapped := fmt.Errorf("posting rejected: %w", err)
	assert.True(t, errors.Is(wrapped, ValidationError{Rule: RuleBalancedEntry}))
}

func TestNotFoundErrorIs(t *testing.T) {
	id := uuid.New()
	err := NotFoundError{Resource: "transaction", ID: id.String()}

	assert.True(t, errors.Is(err, NotFoundError{}))
	assert.True(t, errors.Is(err, NotFoundError{Resource: "transaction"}))
	assert.True(t, errors.Is(err, NotFoundError{Resource: "transaction", ID: id.String()}))
	assert.False(t, errors.Is(err, NotFoundError{Resource: "account"}))
}

func TestAlreadyVoidErrorIs(t *testing.T) {
	id := uuid.New()
	err := AlreadyVoidError{TransactionID: id}

	assert.True(t, errors.Is(err, AlreadyVoidError{}))
	assert.True(t, errors.Is(err, AlreadyVoidError{TransactionID: id}))
	assert.False(t, errors.Is(err, AlreadyVoidError{TransactionID: uuid.New()}))
}

func TestInactiveAccountErrorIs(t *testing.T) {
	id := uuid.New()
	err := InactiveAccountError{AccountID: id}

	assert.True(t, errors.Is(err, InactiveAccountError{}))
	assert.False(t, errors.Is(err, InactiveAccountError{AccountID: uuid.New()}))
	assert.Contains(t, err.Error(), id.String())
}

func TestInternalConsistencyErrorIs(t *testing.T) {
	err := InternalConsistencyError{Check: "balance_sheet_identity", Detail: "off by 1 minor unit"}

	assert.True(t, errors.Is(err, InternalConsistencyError{}))
	assert.True(t, errors.Is(err, InternalConsistencyError{Check: "balance_sheet_identity"}))
	assert.False(t, errors.Is(err, InternalConsistencyError{Check: "quarterly_sum"}))
}

func TestNoOpErrorIs(t *testing.T) {
	err := NoOpError{Detail: "all lines already in destination account"}
	assert.True(t, errors.Is(err, NoOpError{}))
	assert.Contains(t, err.Error(), "no effect")
}
