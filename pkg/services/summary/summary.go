// Package summary derives period views and monetary aggregates from the
// session datasets. Periods are computed on demand and never persisted.
package summary

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
)

// Period derives the YYYY-MM key from an issue date. Dates too short to
// carry a month component map to the empty period.
func Period(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

// Periods lists the distinct non-empty periods of a dataset in ascending
// order; lexicographic YYYY-MM order is chronological.
func Periods(ds domain.Dataset) []string {
	set := make(map[string]struct{})
	for _, rec := range ds {
		if p := Period(rec.Date); p != "" {
			set[p] = struct{}{}
		}
	}
	periods := make([]string, 0, len(set))
	for p := range set {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	return periods
}

// Latest returns the most recent period, the default view selection. Empty
// input yields "".
func Latest(periods []string) string {
	if len(periods) == 0 {
		return ""
	}
	return periods[len(periods)-1]
}

// Filter returns the dataset rows belonging to one period.
func Filter(ds domain.Dataset, period string) domain.Dataset {
	var out domain.Dataset
	for _, rec := range ds {
		if Period(rec.Date) == period {
			out = append(out, rec)
		}
	}
	return out
}

// Coerce converts a monetary cell to a number. Cells that do not parse are
// excluded from sums rather than treated as zero values.
func Coerce(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Sums computes column-wise sums over the given monetary columns. A column
// with no numeric cell at all sums to zero.
func Sums(records []domain.Record, columns []string) map[string]float64 {
	totals := make(map[string]float64, len(columns))
	for _, col := range columns {
		totals[col] = 0
	}
	for _, rec := range records {
		for _, col := range columns {
			if v, ok := Coerce(rec.Value(col)); ok {
				totals[col] += v
			}
		}
	}
	return totals
}

// Summarize aggregates one period slice of a dataset: row counts split by
// classification flag and the sums over the fixed monetary column set.
func Summarize(ds domain.Dataset, period string) domain.PeriodSummary {
	return Aggregate(Filter(ds, period), period)
}

// Aggregate summarizes an already-filtered record slice.
func Aggregate(records []domain.Record, period string) domain.PeriodSummary {
	s := domain.PeriodSummary{
		Period: period,
		Count:  len(records),
		Totals: Sums(records, domain.SummaryColumns),
	}
	for _, rec := range records {
		if rec.Included {
			s.Included++
		} else {
			s.Excluded++
		}
	}
	return s
}
