package domain

// PeriodSummary aggregates one YYYY-MM slice of a dataset.
type PeriodSummary struct {
	Period   string
	Count    int
	Included int
	Excluded int
	// Totals maps each summary column to its numeric sum. Cells that do
	// not coerce to a number are excluded from the sum.
	Totals map[string]float64
}
