// Package planning builds budget proposals from historical actuals and
// reports budget-versus-actual variance. Budget amounts are natural
// (normal-sign-adjusted) minor units throughout, matching how treasurers
// read statements.
package planning

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parish-fund-ledger/internal/domain/account"
	"github.com/parish-fund-ledger/internal/domain/budget"
	"github.com/parish-fund-ledger/internal/domain/journal"
	"github.com/parish-fund-ledger/internal/domain/shared"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// ProposalLine is one proposed annual amount for an (account, fund) pair.
type ProposalLine struct {
	AccountID   uuid.UUID    `json:"account_id"`
	FundID      uuid.UUID    `json:"fund_id"`
	AccountName string       `json:"account_name"`
	AccountType account.Type `json:"account_type"`
	Amount      int64        `json:"amount"`
	FromBudget  bool         `json:"from_budget"` // true when a saved budget line overrode the historical figure
}

// Proposal is a draft budget for a fiscal year, seeded from the prior year's
// actuals and overlaid with any lines already saved for the target year.
type Proposal struct {
	FiscalYear       int            `json:"fiscal_year"`
	BasedOnYear      int            `json:"based_on_year"`
	NoHistoricalData bool           `json:"no_historical_data"`
	Lines            []ProposalLine `json:"lines"`
}

// VarianceLine compares one budget line with the year's actuals. Variance is
// actual minus budgeted: positive means over budget for expenses and ahead of
// plan for income. VariancePct is nil when nothing was budgeted, since the
// ratio is undefined.
type VarianceLine struct {
	AccountID   uuid.UUID    `json:"account_id"`
	FundID      uuid.UUID    `json:"fund_id"`
	AccountName string       `json:"account_name"`
	AccountType account.Type `json:"account_type"`
	Budgeted    int64        `json:"budgeted"`
	Actual      int64        `json:"actual"`
	Variance    int64        `json:"variance"`
	VariancePct *float64     `json:"variance_pct,omitempty"`
}

// VarianceReport is the budget-versus-actual comparison for one fiscal year.
type VarianceReport struct {
	FiscalYear int            `json:"fiscal_year"`
	Through    time.Time      `json:"through"`
	Lines      []VarianceLine `json:"lines"`
}

// Projector implements budget proposal, persistence and variance reporting.
type Projector struct {
	logger      *slog.Logger
	db          TxRunner
	budgetRepo  budget.Repository
	journalRepo journal.Repository
	accountRepo account.Repository
}

// NewProjector creates a new budget projector
func NewProjector(
	logger *slog.Logger,
	db TxRunner,
	budgetRepo budget.Repository,
	journalRepo journal.Repository,
	accountRepo account.Repository,
) *Projector {
	return &Projector{
		logger:      logger,
		db:          db,
		budgetRepo:  budgetRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

type pairKey struct {
	accountID uuid.UUID
	fundID    uuid.UUID
}

// Propose drafts a budget for the fiscal year from the prior year's income
// and expense actuals. Lines already saved for the target year override the
// historical figure. NoHistoricalData is set when the prior year had no
// income or expense activity at all, so callers can warn instead of
// presenting an empty-looking plan as authoritative.
func (p *Projector) Propose(ctx context.Context, actor shared.Actor, fiscalYear int) (*Proposal, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}
	if fiscalYear < 1000 || fiscalYear > 9999 {
		return nil, budget.ErrInvalidFiscalYear
	}

	priorYear := fiscalYear - 1
	actuals, accounts, err := p.naturalActuals(ctx, priorYear, time.Time{})
	if err != nil {
		return nil, err
	}

	proposal := &Proposal{
		FiscalYear:       fiscalYear,
		BasedOnYear:      priorYear,
		NoHistoricalData: len(actuals) == 0,
	}

	lines := make(map[pairKey]*ProposalLine, len(actuals))
	for key, amount := range actuals {
		acc := accounts[key.accountID]
		lines[key] = &ProposalLine{
			AccountID:   key.accountID,
			FundID:      key.fundID,
			AccountName: acc.Name,
			AccountType: acc.Type,
			Amount:      amount,
		}
	}

	saved, err := p.budgetRepo.GetByFiscalYear(ctx, fiscalYear)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		if err := p.overlaySaved(ctx, saved, lines); err != nil {
			return nil, err
		}
	}

	for _, l := range lines {
		proposal.Lines = append(proposal.Lines, *l)
	}
	sort.Slice(proposal.Lines, func(i, j int) bool {
		if proposal.Lines[i].AccountName != proposal.Lines[j].AccountName {
			return proposal.Lines[i].AccountName < proposal.Lines[j].AccountName
		}
		return proposal.Lines[i].FundID.String() < proposal.Lines[j].FundID.String()
	})
	return proposal, nil
}

// overlaySaved replaces proposed figures with the amounts already saved for
// the target year and appends saved lines with no historical counterpart.
func (p *Projector) overlaySaved(ctx context.Context, saved *budget.Budget, lines map[pairKey]*ProposalLine) error {
	missing := make([]uuid.UUID, 0)
	for _, bl := range saved.Lines {
		key := pairKey{bl.AccountID, bl.FundID}
		if existing, ok := lines[key]; ok {
			existing.Amount = bl.Amount
			existing.FromBudget = true
			continue
		}
		missing = append(missing, bl.AccountID)
		lines[key] = &ProposalLine{
			AccountID:  bl.AccountID,
			FundID:     bl.FundID,
			Amount:     bl.Amount,
			FromBudget: true,
		}
	}

	if len(missing) == 0 {
		return nil
	}
	accounts, err := p.accountRepo.GetByIDs(ctx, missing)
	if err != nil {
		return err
	}
	for key, l := range lines {
		if l.AccountName == "" {
			if acc, ok := accounts[key.accountID]; ok {
				l.AccountName = acc.Name
				l.AccountType = acc.Type
			}
		}
	}
	return nil
}

// SaveBudget replaces the fiscal year's budget with the given lines.
// Concurrent saves are last-write-wins; a finalized budget rejects further
// edits with budget.ErrFinalized.
func (p *Projector) SaveBudget(ctx context.Context, actor shared.Actor, fiscalYear int, lines []budget.LineInput, finalize bool) (*budget.Budget, error) {
	if err := actor.Require(shared.CapabilitySaveBudget); err != nil {
		return nil, err
	}

	existing, err := p.budgetRepo.GetByFiscalYear(ctx, fiscalYear)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == budget.StatusFinal {
		return nil, budget.ErrFinalized
	}

	b, err := budget.NewBudget(fiscalYear, lines)
	if err != nil {
		return nil, err
	}
	if finalize {
		b.Finalize()
	}

	err = p.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return p.budgetRepo.WithTx(tx).Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("budget saved",
		"fiscal_year", fiscalYear,
		"lines", len(b.Lines),
		"status", string(b.Status),
		"actor_id", actor.ID,
	)
	return b, nil
}

// Variance compares the fiscal year's budget with its actuals. A zero
// `through` reports the full year; otherwise actuals are cut off at the given
// date for year-to-date comparison against the full annual budget.
func (p *Projector) Variance(ctx context.Context, actor shared.Actor, fiscalYear int, through time.Time) (*VarianceReport, error) {
	if err := actor.Require(shared.CapabilityReadReports); err != nil {
		return nil, err
	}

	saved, err := p.budgetRepo.GetByFiscalYear(ctx, fiscalYear)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, shared.NotFoundError{Resource: "budget", ID: strconv.Itoa(fiscalYear)}
	}

	actuals, accounts, err := p.naturalActuals(ctx, fiscalYear, through)
	if err != nil {
		return nil, err
	}

	reportThrough := time.Date(fiscalYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	if !through.IsZero() {
		reportThrough = journal.NormalizeDate(through)
	}
	report := &VarianceReport{FiscalYear: fiscalYear, Through: reportThrough}

	covered := make(map[pairKey]bool, len(saved.Lines))
	for _, bl := range saved.Lines {
		key := pairKey{bl.AccountID, bl.FundID}
		covered[key] = true
		actual := actuals[key]
		line := VarianceLine{
			AccountID: bl.AccountID,
			FundID:    bl.FundID,
			Budgeted:  bl.Amount,
			Actual:    actual,
			Variance:  actual - bl.Amount,
		}
		if acc, ok := accounts[bl.AccountID]; ok {
			line.AccountName = acc.Name
			line.AccountType = acc.Type
		}
		if bl.Amount != 0 {
			pct := float64(line.Variance) / float64(bl.Amount) * 100
			line.VariancePct = &pct
		}
		report.Lines = append(report.Lines, line)
	}

	// Unbudgeted activity still shows up, with nothing budgeted against it.
	for key, actual := range actuals {
		if covered[key] {
			continue
		}
		acc := accounts[key.accountID]
		report.Lines = append(report.Lines, VarianceLine{
			AccountID:   key.accountID,
			FundID:      key.fundID,
			AccountName: acc.Name,
			AccountType: acc.Type,
			Actual:      actual,
			Variance:    actual,
		})
	}

	sort.Slice(report.Lines, func(i, j int) bool {
		if report.Lines[i].AccountName != report.Lines[j].AccountName {
			return report.Lines[i].AccountName < report.Lines[j].AccountName
		}
		return report.Lines[i].FundID.String() < report.Lines[j].FundID.String()
	})
	return report, nil
}

// naturalActuals returns the year's income and expense activity in natural
// minor units per (account, fund), along with the accounts involved. A
// non-zero `through` cuts the range short for year-to-date figures.
func (p *Projector) naturalActuals(ctx context.Context, year int, through time.Time) (map[pairKey]int64, map[uuid.UUID]*account.Account, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	if !through.IsZero() && journal.NormalizeDate(through).Before(to) {
		to = journal.NormalizeDate(through)
	}

	rows, err := p.journalRepo.SumActivity(ctx, &from, &to, nil, nil)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]bool)
	for _, row := range rows {
		if !seen[row.AccountID] {
			seen[row.AccountID] = true
			ids = append(ids, row.AccountID)
		}
	}
	accounts, err := p.accountRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	actuals := make(map[pairKey]int64)
	for _, row := range rows {
		acc, ok := accounts[row.AccountID]
		if !ok {
			continue
		}
		if acc.Type != account.TypeIncome && acc.Type != account.TypeExpense {
			continue
		}
		actuals[pairKey{row.AccountID, row.FundID}] += row.Amount * acc.Type.NormalSign()
	}
	return actuals, accounts, nil
}
