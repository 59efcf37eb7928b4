package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/parish-fund-ledger/internal/domain/shared"
)

// StatementLine is one account's figure on a statement, in natural
// (normal-sign-adjusted) minor units: a liability balance or an income total
// reads positive.
type StatementLine struct {
	AccountID   uuid.UUID    `json:"account_id"`
	AccountName string       `json:"account_name"`
	AccountType account.Type `json:"account_type"`
	Amount      int64        `json:"amount"`
}

// BalanceSheet is the statement of financial position as of a date. Equity
// carries a synthetic net-assets line holding all retained income and expense
// activity, so the sheet always balances when the ledger is consistent.
type BalanceSheet struct {
	AsOf             time.Time       `json:"as_of"`
	FundID           *uuid.UUID      `json:"fund_id,omitempty"`
	Assets           []StatementLine `json:"assets"`
	Liabilities      []StatementLine `json:"liabilities"`
	Equity           []StatementLine `json:"equity"`
	TotalAssets      int64           `json:"total_assets"`
	TotalLiabilities int64           `json:"total_liabilities"`
	TotalEquity      int64           `json:"total_equity"`
}

// IncomeStatement reports income and expense activity over an inclusive date
// range. Net is income minus expense in natural minor units.
type IncomeStatement struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	FundID       *uuid.UUID      `json:"fund_id,omitempty"`
	Income       []StatementLine `json:"income"`
	Expense      []StatementLine `json:"expense"`
	TotalIncome  int64           `json:"total_income"`
	TotalExpense int64           `json:"total_expense"`
	Net          int64           `json:"net"`
}

// QuarterlyIncomeStatement is a fiscal year's income statement broken into
// calendar quarters. The annual column is folded from the same monthly rows
// as the quarters, so it always equals their sum.
type QuarterlyIncomeStatement struct {
	Year     int               `json:"year"`
	Quarters []IncomeStatement `json:"quarters"`
	Annual   IncomeStatement   `json:"annual"`
}

// Reporter is the read-side facade: it enforces the viewer capability,
// resolves account metadata and turns raw aggregation rows into statements.
type Reporter struct {
	logger      *slog.Logger
	aggregator  *Aggregator
	accountRepo account.Repository
}

// NewReporter creates a new reporting facade
func NewReporter(logger *slog.Logger, aggregator *Aggregator, accountRepo account.Repository) *Reporter {
	return &Reporter{
		logger:      logger,
		aggregator:  aggregator,
		accountRepo: accountRepo,
	}
}

// netAssetsName labels the synthetic equity line carrying retained income
// and expense activity.
const netAssetsName = "Net Assets"

// BalanceSheet produces the statement of financial position as of the given
// date. The ledger invariant behind it: every transaction balances, so the
// signed sum over all accounts is zero. A non-zero sum is a defect and
// surfaces as a shared.InternalConsistencyError.
func (r *Reporter) BalanceSheet(ctx context.Context, actor shared.Actor, asOf time.Time, fundID *uuid.UUID) (*BalanceSheet, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}

	rows, err := r.aggregator.BalanceAsOf(ctx, asOf, fundID)
	if err != nil {
		return nil, err
	}

	accounts, err := r.accountIndex(ctx, rows)
	if err != nil {
		return nil, err
	}

	var signedTotal int64
	byAccount := make(map[uuid.UUID]int64)
	for _, row := range rows {
		byAccount[row.AccountID] += row.Amount
		signedTotal += row.Amount
	}

	// All-funds sheets must net to zero exactly. Single-fund sheets skip the
	// check: one fund's slice of a fund-to-fund transfer is allowed to carry
	// a net position.
	if fundID == nil && signedTotal != 0 {
		return nil, shared.InternalConsistencyError{
			Check:  "balance_sheet_identity",
			Detail: fmt.Sprintf("signed balances sum to %d minor units as of %s, want 0", signedTotal, journal.NormalizeDate(asOf).Format("2006-01-02")),
		}
	}

	sheet := &BalanceSheet{AsOf: journal.NormalizeDate(asOf), FundID: fundID}
	var retained int64
	for accID, signed := range byAccount {
		acc, ok := accounts[accID]
		if !ok {
			return nil, shared.InternalConsistencyError{
				Check:  "balance_sheet_accounts",
				Detail: "transaction lines reference unknown account " + accID.String(),
			}
		}
		natural := signed * acc.Type.NormalSign()
		line := StatementLine{AccountID: accID, AccountName: acc.Name, AccountType: acc.Type, Amount: natural}
		switch acc.Type {
		case account.TypeAsset:
			sheet.Assets = append(sheet.Assets, line)
			sheet.TotalAssets += natural
		case account.TypeLiability:
			sheet.Liabilities = append(sheet.Liabilities, line)
			sheet.TotalLiabilities += natural
		case account.TypeEquity:
			sheet.Equity = append(sheet.Equity, line)
			sheet.TotalEquity += natural
		default:
			// Income and expense roll into retained net assets.
			retained += signed * acc.Type.NormalSign() * incomeExpenseSign(acc.Type)
		}
	}

	sheet.Equity = append(sheet.Equity, StatementLine{AccountName: netAssetsName, AccountType: account.TypeEquity, Amount: retained})
	sheet.TotalEquity += retained

	sortLines(sheet.Assets)
	sortLines(sheet.Liabilities)
	sortLines(sheet.Equity)
	return sheet, nil
}

// incomeExpenseSign folds income and expense naturals into net assets:
// income increases equity, expense decreases it.
func incomeExpenseSign(t account.Type) int64 {
	if t == account.TypeExpense {
		return -1
	}
	return 1
}

// IncomeStatement reports income and expense activity over the inclusive
// range, optionally narrowed to one fund.
func (r *Reporter) IncomeStatement(ctx context.Context, actor shared.Actor, from, to time.Time, fundID *uuid.UUID) (*IncomeStatement, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}

	rows, err := r.aggregator.ActivityBetween(ctx, from, to, nil, fundID)
	if err != nil {
		return nil, err
	}

	accounts, err := r.accountIndex(ctx, rows)
	if err != nil {
		return nil, err
	}

	stmt := buildIncomeStatement(journal.NormalizeDate(from), journal.NormalizeDate(to), fundID, rows, accounts)
	return &stmt, nil
}

// QuarterlyIncomeStatement breaks a fiscal year into calendar quarters.
// Quarters and the annual column are folded from the same monthly rows, and
// the fold is verified: a mismatch means an aggregation defect, not bad data.
func (r *Reporter) QuarterlyIncomeStatement(ctx context.Context, actor shared.Actor, year int, fundID *uuid.UUID) (*QuarterlyIncomeStatement, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}

	from, to := yearBounds(year)
	monthly, err := r.aggregator.GroupByPeriod(ctx, from, to, GranularityMonth)
	if err != nil {
		return nil, err
	}

	var allRows []journal.ActivityRow
	for _, pa := range monthly {
		allRows = append(allRows, pa.Rows...)
	}
	accounts, err := r.accountIndex(ctx, allRows)
	if err != nil {
		return nil, err
	}

	quarterRows := make([][]journal.ActivityRow, 4)
	for _, pa := range monthly {
		q := quarterOf(pa.Period.Start.Month())
		for _, row := range pa.Rows {
			if fundID != nil && row.FundID != *fundID {
				continue
			}
			quarterRows[q-1] = append(quarterRows[q-1], row)
		}
	}

	result := &QuarterlyIncomeStatement{Year: year}
	var annualRows []journal.ActivityRow
	for q := 0; q < 4; q++ {
		p := periodFor(GranularityQuarter, year, time.Month(q*3+1))
		stmt := buildIncomeStatement(p.Start, p.End, fundID, quarterRows[q], accounts)
		result.Quarters = append(result.Quarters, stmt)
		annualRows = append(annualRows, quarterRows[q]...)
	}
	result.Annual = buildIncomeStatement(from, to, fundID, annualRows, accounts)

	var quarterNetSum int64
	for _, q := range result.Quarters {
		quarterNetSum += q.Net
	}
	if quarterNetSum != result.Annual.Net {
		return nil, shared.InternalConsistencyError{
			Check:  "period_fold",
			Detail: fmt.Sprintf("quarter nets sum to %d minor units, annual net is %d", quarterNetSum, result.Annual.Net),
		}
	}

	return result, nil
}

// ActivityByPeriod exposes raw period buckets for ad-hoc reporting.
func (r *Reporter) ActivityByPeriod(ctx context.Context, actor shared.Actor, from, to time.Time, g Granularity) ([]PeriodActivity, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}
	if !g.Valid() {
		return nil, shared.ValidationError{Rule: shared.RuleDateRequired, Detail: "unknown granularity: " + string(g)}
	}
	return r.aggregator.GroupByPeriod(ctx, from, to, g)
}

// buildIncomeStatement turns signed activity rows into a naturalized income
// statement, dropping balance-sheet accounts.
func buildIncomeStatement(from, to time.Time, fundID *uuid.UUID, rows []journal.ActivityRow, accounts map[uuid.UUID]*account.Account) IncomeStatement {
	stmt := IncomeStatement{From: from, To: to, FundID: fundID}

	byAccount := make(map[uuid.UUID]int64)
	for _, row := range rows {
		byAccount[row.AccountID] += row.Amount
	}

	for accID, signed := range byAccount {
		acc, ok := accounts[accID]
		if !ok {
			continue
		}
		natural := signed * acc.Type.NormalSign()
		line := StatementLine{AccountID: accID, AccountName: acc.Name, AccountType: acc.Type, Amount: natural}
		switch acc.Type {
		case account.TypeIncome:
			stmt.Income = append(stmt.Income, line)
			stmt.TotalIncome += natural
		case account.TypeExpense:
			stmt.Expense = append(stmt.Expense, line)
			stmt.TotalExpense += natural
		}
	}

	stmt.Net = stmt.TotalIncome - stmt.TotalExpense
	sortLines(stmt.Income)
	sortLines(stmt.Expense)
	return stmt
}

// accountIndex resolves the accounts referenced by the given rows.
func (r *Reporter) accountIndex(ctx context.Context, rows []journal.ActivityRow) (map[uuid.UUID]*account.Account, error) {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if !seen[row.AccountID] {
			seen[row.AccountID] = true
			ids = append(ids, row.AccountID)
		}
	}
	return r.accountRepo.GetByIDs(ctx, ids)
}

func sortLines(lines []StatementLine) {
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].AccountName < lines[j].AccountName
	})
}
