package report

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/parish-fund-ledger/internal/domain/journal"
)

// Aggregator answers the three primitive ledger questions every statement is
// built from: balance as of a date, activity between two dates, and activity
// grouped by period. Void transactions never contribute.
type Aggregator struct {
	logger      *slog.Logger
	journalRepo journal.Repository
}

// NewAggregator creates a new aggregation engine
func NewAggregator(logger *slog.Logger, journalRepo journal.Repository) *Aggregator {
	return &Aggregator{
		logger:      logger,
		journalRepo: journalRepo,
	}
}

// PeriodActivity is the signed per-(account, fund) activity of one period.
type PeriodActivity struct {
	Period Period
	Rows   []journal.ActivityRow
}

// BalanceAsOf returns the signed balance of every (account, fund) pair from
// the beginning of time through the given date, inclusive. An optional fund
// filter narrows the result to one fund's column.
func (a *Aggregator) BalanceAsOf(ctx context.Context, asOf time.Time, fundID *uuid.UUID) ([]journal.ActivityRow, error) {
	to := journal.NormalizeDate(asOf)
	return a.journalRepo.SumActivity(ctx, nil, &to, nil, fundID)
}

// ActivityBetween returns the signed activity of every (account, fund) pair
// over the inclusive date range, optionally narrowed to one account or fund.
func (a *Aggregator) ActivityBetween(ctx context.Context, from, to time.Time, accountID, fundID *uuid.UUID) ([]journal.ActivityRow, error) {
	f := journal.NormalizeDate(from)
	t := journal.NormalizeDate(to)
	return a.journalRepo.SumActivity(ctx, &f, &t, accountID, fundID)
}

// GroupByPeriod buckets the range's activity by month, quarter or year.
// The database returns monthly totals; coarser buckets are folded here with
// integer addition, so a quarter is exactly the sum of its months.
func (a *Aggregator) GroupByPeriod(ctx context.Context, from, to time.Time, g Granularity) ([]PeriodActivity, error) {
	rows, err := a.journalRepo.SumActivityByMonth(ctx, journal.NormalizeDate(from), journal.NormalizeDate(to))
	if err != nil {
		return nil, err
	}

	type cellKey struct {
		accountID uuid.UUID
		fundID    uuid.UUID
	}
	buckets := make(map[string]map[cellKey]int64)
	periods := make(map[string]Period)
	for _, row := range rows {
		p := periodFor(g, row.Year, row.Month)
		if _, ok := buckets[p.Label]; !ok {
			buckets[p.Label] = make(map[cellKey]int64)
			periods[p.Label] = p
		}
		buckets[p.Label][cellKey{row.AccountID, row.FundID}] += row.Amount
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	result := make([]PeriodActivity, 0, len(labels))
	for _, label := range labels {
		cells := buckets[label]
		pa := PeriodActivity{Period: periods[label], Rows: make([]journal.ActivityRow, 0, len(cells))}
		for key, amount := range cells {
			pa.Rows = append(pa.Rows, journal.ActivityRow{AccountID: key.accountID, FundID: key.fundID, Amount: amount})
		}
		sort.Slice(pa.Rows, func(i, j int) bool {
			if pa.Rows[i].AccountID != pa.Rows[j].AccountID {
				return pa.Rows[i].AccountID.String() < pa.Rows[j].AccountID.String()
			}
			return pa.Rows[i].FundID.String() < pa.Rows[j].FundID.String()
		})
		result = append(result, pa)
	}
	return result, nil
}
