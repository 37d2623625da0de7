package export

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/summary"
)

const (
	numberFormat = "#,##0.00"
	dateFormat   = "dd-mm-yyyy"

	// Excel caps sheet names at 31 characters.
	maxSheetName = 31

	defaultColWidth = 12.0
)

var columnWidths = map[string]float64{
	"Régimen Fiscal Emisor":     20,
	"Rfc Receptor":              15,
	"Nombre Receptor":           25,
	"CP Receptor":               10,
	"Régimen Receptor":          20,
	"Uso Cfdi Receptor":         25,
	"Tipo":                      10,
	"Serie":                     10,
	"Folio":                     10,
	"Fecha":                     15,
	"Sub Total":                 12,
	"Descuento":                 12,
	"Total impuesto Trasladado": 18,
	"Nombre Impuesto":           25,
	"Total impuesto Retenido":   18,
	"Total":                     15,
	"UUID":                      40,
	"Método de Pago":            15,
	"Forma de Pago":             20,
	"Moneda":                    10,
	"Tipo de Cambio":            15,
	"Versión":                   10,
	"Periodo":                   10,
	"Deducible":                 10,
}

var nonNumericChars = regexp.MustCompile(`[^0-9.\-]`)

// Sheet is one workbook sheet to render: a dataset slice plus its kind
// (which decides the flag column header).
type Sheet struct {
	Name       string
	Kind       domain.Kind
	Records    domain.Dataset
	WithPeriod bool
}

// Workbook renders the sheets into one XLSX workbook. Every sheet gets the
// numeric and date cell formats, per-column widths, an autofilter over its
// data range, and a conditional format that paints rows with a false
// classification flag in red.
func Workbook(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	for i, sheet := range sheets {
		name := truncateSheetName(sheet.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, sheet, styles); err != nil {
			return nil, fmt.Errorf("write sheet %s: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// PeriodWorkbook renders one sheet per period, optionally split into
// included/excluded sub-sheets. An empty period selection means all
// periods present in the dataset.
func PeriodWorkbook(ds domain.Dataset, kind domain.Kind, periods []string, split bool) ([]byte, error) {
	if len(periods) == 0 {
		periods = summary.Periods(ds)
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("dataset has no periods to export")
	}

	includedLabel, excludedLabel := flagLabels(kind)

	var sheets []Sheet
	for _, p := range periods {
		slice := summary.Filter(ds, p)
		if !split {
			sheets = append(sheets, Sheet{Name: p, Kind: kind, Records: slice, WithPeriod: true})
			continue
		}
		sheets = append(sheets,
			Sheet{Name: p + " - " + includedLabel, Kind: kind, Records: filterFlag(slice, true), WithPeriod: true},
			Sheet{Name: p + " - " + excludedLabel, Kind: kind, Records: filterFlag(slice, false), WithPeriod: true},
		)
	}
	return Workbook(sheets)
}

// SessionWorkbook renders the full session: each dataset complete plus its
// included/excluded slices, six sheets in all.
func SessionWorkbook(received, issued domain.Dataset) ([]byte, error) {
	return Workbook([]Sheet{
		{Name: "Recibidos", Kind: domain.KindReceived, Records: received},
		{Name: "Deducibles", Kind: domain.KindReceived, Records: filterFlag(received, true)},
		{Name: "No Deducibles", Kind: domain.KindReceived, Records: filterFlag(received, false)},
		{Name: "Emitidos", Kind: domain.KindIssued, Records: issued},
		{Name: "Emitidos Seleccionados", Kind: domain.KindIssued, Records: filterFlag(issued, true)},
		{Name: "Emitidos No Seleccionados", Kind: domain.KindIssued, Records: filterFlag(issued, false)},
	})
}

type sheetStyles struct {
	numeric int
	date    int
	redFont int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	numFmt := numberFormat
	numeric, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("numeric style: %w", err)
	}

	dateFmt := dateFormat
	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("date style: %w", err)
	}

	red, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "FF0000"}})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("red font style: %w", err)
	}

	return sheetStyles{numeric: numeric, date: date, redFont: red}, nil
}

func writeSheet(f *excelize.File, name string, sheet Sheet, styles sheetStyles) error {
	headers := append(append([]string{}, domain.Columns...), sheet.Kind.FlagColumn())
	if sheet.WithPeriod {
		headers = append(headers, "Periodo")
	}
	flagCol := len(domain.Columns) + 1

	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return err
	}

	numeric := make(map[string]struct{}, len(domain.NumericColumns))
	for _, col := range domain.NumericColumns {
		numeric[col] = struct{}{}
	}

	for r, rec := range sheet.Records {
		row := make([]interface{}, 0, len(headers))
		for _, col := range domain.Columns {
			raw := rec.Value(col)
			switch {
			case col == "Fecha":
				row = append(row, dateCell(raw))
			default:
				if _, ok := numeric[col]; ok {
					row = append(row, numericCell(raw))
				} else {
					row = append(row, raw)
				}
			}
		}
		row = append(row, rec.Included)
		if sheet.WithPeriod {
			row = append(row, summary.Period(rec.Date))
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}

	lastRow := len(sheet.Records) + 1
	for i, col := range headers {
		letter, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := defaultColWidth
		if w, ok := columnWidths[col]; ok {
			width = w
		}
		if err := f.SetColWidth(name, letter, letter, width); err != nil {
			return err
		}

		if lastRow < 2 {
			continue
		}
		var style int
		switch {
		case col == "Fecha":
			style = styles.date
		default:
			if _, ok := numeric[col]; !ok {
				continue
			}
			style = styles.numeric
		}
		if err := f.SetCellStyle(name, letter+"2", letter+strconv.Itoa(lastRow), style); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.AutoFilter(name, fmt.Sprintf("A1:%s%d", lastCol, lastRow), nil); err != nil {
		return err
	}

	if lastRow >= 2 {
		flagLetter, err := excelize.ColumnNumberToName(flagCol)
		if err != nil {
			return err
		}
		dataRange := fmt.Sprintf("A2:%s%d", lastCol, lastRow)
		red := styles.redFont
		err = f.SetConditionalFormat(name, dataRange, []excelize.ConditionalFormatOptions{{
			Type:     "formula",
			Criteria: fmt.Sprintf("NOT($%s2)", flagLetter),
			Format:   &red,
		}})
		if err != nil {
			return err
		}
	}

	return nil
}

// numericCell coerces a monetary string for a formatted cell, stripping
// currency symbols and separators first. Unparsable cells stay as raw text.
func numericCell(raw string) interface{} {
	cleaned := nonNumericChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return raw
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return raw
	}
	return v
}

// dateCell parses the CFDI issue timestamp so the date format applies;
// unparsable dates stay as raw text.
func dateCell(raw string) interface{} {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return raw
}

func filterFlag(ds domain.Dataset, included bool) domain.Dataset {
	var out domain.Dataset
	for _, rec := range ds {
		if rec.Included == included {
			out = append(out, rec)
		}
	}
	return out
}

func flagLabels(kind domain.Kind) (string, string) {
	if kind == domain.KindIssued {
		return "Seleccionados", "No Seleccionados"
	}
	return "Deducibles", "No Deducibles"
}

func truncateSheetName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxSheetName {
		return name
	}
	return string(runes[:maxSheetName])
}
