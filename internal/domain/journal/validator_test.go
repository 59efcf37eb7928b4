package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

var (
	checkingID  = uuid.New()
	donationsID = uuid.New()
	retiredID   = uuid.New()
	generalFund = uuid.New()
	closedFund  = uuid.New()
)

func activeRefs() References {
	return References{
		Accounts: map[uuid.UUID]bool{
			checkingID:  true,
			donationsID: true,
			retiredID:   false,
		},
		Funds: map[uuid.UUID]bool{
			generalFund: true,
			closedFund:  false,
		},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidate_BalancedTransaction(t *testing.T) {
	lines := []LineInput{
		{AccountID: checkingID, FundID: generalFund, Amount: 10000},
		{AccountID: donationsID, FundID: generalFund, Amount: -10000},
	}

	assert.NoError(t, Validate(date(2024, time.January, 15), lines, activeRefs()))
}

func TestValidate_RuleOrder(t *testing.T) {
	refs := activeRefs()

	tests := []struct {
		name  string
		date  time.Time
		lines []LineInput
		rule  string
	}{
		{
			name: "missing date",
			date: time.Time{},
			lines: []LineInput{
				{AccountID: checkingID, FundID: generalFund, Amount: 100},
				{AccountID: donationsID, FundID: generalFund, Amount: -100},
			},
			rule: shared.RuleDateRequired,
		},
		{
			name:  "no lines",
			date:  date(2024, time.March, 1),
			lines: nil,
			rule:  shared.RuleMinimumLines,
		},
		{
			name: "single-sided entry",
			date: date(2024, time.March, 1),
			lines: []LineInput{
				{AccountID: checkingID, FundID: generalFund, Amount: 100},
			},
			rule: shared.RuleMinimumLines,
		},
		{
			name: "zero amount reported before imbalance",
			date: date(2024, time.March, 1),
			lines: []LineInput{
				{AccountID: checkingID, FundID: generalFund, Amount: 0},
				{AccountID: donationsID, FundID: generalFund, Amount: -100},
			},
			rule: shared.RuleNonZeroAmount,
		},
		{
			name: "off by one minor unit",
			date: date(2024, time.March, 1),
			lines: []LineInput{
				{AccountID: checkingID, FundID: generalFund, Amount: 10000},
				{AccountID: donationsID, FundID: generalFund, Amount: -9999},
			},
			rule: shared.RuleBalancedEntry,
		},
		{
			name: "unknown account",
			date: date(2024, time.March, 1),
			lines: []LineInput{
				{AccountID: uuid.New(), FundID: generalFund, Amount: 100},
				{AccountID: donationsID, FundID: generalFund, Amount: -100},
			},
			rule: shared.RuleAccountRef,
		},
		{
			name: "inactive account",
			date: date(2024, time.March, 1),
			lines: []LineInput{
				{AccountID: retiredID, FundID: generalFund, Amount: 100},
				{AccountID: donationsID, FundID: generalFund, Amount: -100},
			},
			rule: shared.RuleAccountRef,
		},
		{
			name: "unknown fund",
			date: date(2024, time.March, 1),
			lines: []LineInput{
				{AccountID: checkingID, FundID: uuid.New(), Amount: 100},
				{AccountID: donationsID, FundID: generalFund, Amount: -100},
			},
			rule: shared.RuleFundRef,
		},
		{
			name: "inactive fund",
			date: date(2024, time.March, 1),
			lines: []LineInput{
				{AccountID: checkingID, FundID: closedFund, Amount: 100},
				{AccountID: donationsID, FundID: generalFund, Amount: -100},
			},
			rule: shared.RuleFundRef,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.date, tt.lines, refs)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, shared.ValidationError{Rule: tt.rule}), "want rule %s, got %v", tt.rule, err)
		})
	}
}

func TestValidate_BalanceIsGlobalNotPerFund(t *testing.T) {
	// A transfer between funds balances at the transaction level even though
	// each fund individually does not net to zero.
	lines := []LineInput{
		{AccountID: checkingID, FundID: generalFund, Amount: 5000},
		{AccountID: checkingID, FundID: generalFund, Amount: -5000},
		{AccountID: donationsID, FundID: generalFund, Amount: 2500},
		{AccountID: donationsID, FundID: generalFund, Amount: -2500},
	}

	assert.NoError(t, Validate(date(2024, time.June, 30), lines, activeRefs()))
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	d := NormalizeDate(time.Date(2024, time.January, 15, 23, 45, 0, 0, loc))
	assert.Equal(t, date(2024, time.January, 15), d)
}

func TestNewTransaction(t *testing.T) {
	lines := []LineInput{
		{AccountID: checkingID, FundID: generalFund, Amount: 10000, DonorID: "donor-7"},
		{AccountID: donationsID, FundID: generalFund, Amount: -10000},
	}
	txn := NewTransaction(date(2024, time.January, 15), "Sunday offering", "u-1", lines)

	assert.Equal(t, StatusPosted, txn.Status)
	assert.Len(t, txn.Lines, 2)
	for _, line := range txn.Lines {
		assert.Equal(t, txn.ID, line.TransactionID)
		assert.NotEqual(t, uuid.Nil, line.ID)
	}
	assert.Equal(t, "donor-7", txn.Lines[0].DonorID)

	found := txn.Line(txn.Lines[1].ID)
	assert.NotNil(t, found)
	assert.Equal(t, int64(-10000), found.Amount)
	assert.Nil(t, txn.Line(uuid.New()))
}

func TestVoid(t *testing.T) {
	txn := NewTransaction(date(2024, time.January, 15), "m", "u-1", []LineInput{
		{AccountID: checkingID, FundID: generalFund, Amount: 1},
		{AccountID: donationsID, FundID: generalFund, Amount: -1},
	})

	at := time.Now()
	txn.Void(at)
	assert.Equal(t, StatusVoid, txn.Status)
	assert.NotNil(t, txn.VoidedAt)
	assert.Equal(t, at, *txn.VoidedAt)
}
