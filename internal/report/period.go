// Package report derives financial statements from the journal. Balances are
// never stored; every figure is an aggregation of non-void transaction lines.
// Quarter and year figures are folded in process from monthly totals, so a
// period's figure always equals the sum of its sub-periods exactly.
package report

import (
	"fmt"
	"time"
)

// Granularity selects the reporting period size.
type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityMonth, GranularityQuarter, GranularityYear:
		return true
	}
	return false
}

// Period is one reporting bucket with inclusive calendar-date bounds.
type Period struct {
	Label string    `json:"label"` // "2024-01", "2024-Q1" or "2024"
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// quarterOf maps a month to its calendar quarter (1-4).
func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}

// periodFor returns the bucket containing the given year and month at the
// requested granularity.
func periodFor(g Granularity, year int, month time.Month) Period {
	switch g {
	case GranularityMonth:
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Label: fmt.Sprintf("%04d-%02d", year, month),
			Start: start,
			End:   start.AddDate(0, 1, -1),
		}
	case GranularityQuarter:
		q := quarterOf(month)
		start := time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Label: fmt.Sprintf("%04d-Q%d", year, q),
			Start: start,
			End:   start.AddDate(0, 3, -1),
		}
	default:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Label: fmt.Sprintf("%04d", year),
			Start: start,
			End:   start.AddDate(1, 0, -1),
		}
	}
}

// yearBounds returns the inclusive calendar bounds of a fiscal year.
func yearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}
