package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
)

type TableConfig struct {
	ColumnWidth int
	ValueWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		ColumnWidth: 28,
		ValueWidth:  16,
	}
}

// Report is what the CLI prints after processing a batch: per-period sums
// plus the ingest counters.
type Report struct {
	Title     string
	Added     int
	Skipped   int
	Warnings  int
	Summaries []domain.PeriodSummary
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(name string, value float64) string {
			return fmt.Sprintf("| %-*s | %*.2f |",
				c.config.ColumnWidth, name,
				c.config.ValueWidth, value)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.ColumnWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
		"columns": func() []string { return domain.SummaryColumns },
		"total": func(totals map[string]float64, col string) float64 {
			return totals[col]
		},
	}

	tmpl := `
{{.Title}}

Nuevos: {{.Added}}  Duplicados omitidos: {{.Skipped}}  Avisos: {{.Warnings}}

{{range .Summaries}}=== {{.Period}} ({{.Count}} CFDIs, {{.Included}} marcados / {{.Excluded}} sin marcar) ===
{{separator}}
{{$totals := .Totals}}{{range columns}}{{formatRow . (total $totals .)}}
{{end}}{{separator}}

{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
