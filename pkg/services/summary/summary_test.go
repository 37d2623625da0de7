package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
)

func TestPeriod(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "full timestamp", date: "2024-03-15T00:00:00", want: "2024-03"},
		{name: "date only", date: "2024-12-01", want: "2024-12"},
		{name: "empty", date: "", want: ""},
		{name: "too short", date: "2024", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Period(tt.date))
		})
	}
}

func TestPeriodsSortedDistinct(t *testing.T) {
	ds := domain.Dataset{
		{Date: "2024-03-15T10:00:00"},
		{Date: "2024-01-02T08:00:00"},
		{Date: "2024-03-20T12:00:00"},
		{Date: ""},
	}

	periods := Periods(ds)
	assert.Equal(t, []string{"2024-01", "2024-03"}, periods)
	assert.Equal(t, "2024-03", Latest(periods))
	assert.Equal(t, "", Latest(nil))
}

func TestSumsExcludesInvalidCells(t *testing.T) {
	records := []domain.Record{
		{SubTotal: "100.00"},
		{SubTotal: "abc"},
		{SubTotal: ""},
		{SubTotal: "50.00"},
	}

	totals := Sums(records, []string{"Sub Total"})
	assert.InDelta(t, 150.00, totals["Sub Total"], 1e-9)
}

func TestSumsAllInvalidColumnIsZero(t *testing.T) {
	records := []domain.Record{{Discount: "n/a"}, {Discount: ""}}
	totals := Sums(records, []string{"Descuento"})
	assert.Zero(t, totals["Descuento"])
}

func TestSummarize(t *testing.T) {
	ds := domain.Dataset{
		{Date: "2024-03-01T00:00:00", Total: "100.00", Included: true},
		{Date: "2024-03-05T00:00:00", Total: "200.00", Included: false},
		{Date: "2024-04-01T00:00:00", Total: "999.00", Included: true},
	}

	s := Summarize(ds, "2024-03")
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 1, s.Included)
	assert.Equal(t, 1, s.Excluded)
	assert.InDelta(t, 300.00, s.Totals["Total"], 1e-9)
}
