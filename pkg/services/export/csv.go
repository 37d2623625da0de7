// Package export renders datasets to CSV and spreadsheet byte streams and
// implements the checkpoint round-trip.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
)

// CSV renders one dataset as UTF-8 CSV: header row, one row per record,
// flag column last.
func CSV(ds domain.Dataset, kind domain.Kind) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(append(append([]string{}, domain.Columns...), kind.FlagColumn())); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range ds {
		row := append(rec.Row(), strconv.FormatBool(rec.Included))
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// CombinedCSV renders both datasets into one CSV with a leading dataset
// column. Each kind keeps its own flag column; the other kind's stays
// blank.
func CombinedCSV(received, issued domain.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"Tipo CFDI"}, domain.Columns...)
	header = append(header, domain.KindReceived.FlagColumn(), domain.KindIssued.FlagColumn())
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	write := func(label string, ds domain.Dataset, receivedFlag bool) error {
		for _, rec := range ds {
			row := append([]string{label}, rec.Row()...)
			flag := strconv.FormatBool(rec.Included)
			if receivedFlag {
				row = append(row, flag, "")
			} else {
				row = append(row, "", flag)
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		return nil
	}

	if err := write("Recibidos", received, true); err != nil {
		return nil, err
	}
	if err := write("Emitidos", issued, false); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVArchive bundles both datasets as named CSV files inside one ZIP.
func CSVArchive(received, issued domain.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []struct {
		name string
		ds   domain.Dataset
		kind domain.Kind
	}{
		{"recibidos.csv", received, domain.KindReceived},
		{"emitidos.csv", issued, domain.KindIssued},
	}
	for _, e := range entries {
		data, err := CSV(e.ds, e.kind)
		if err != nil {
			return nil, err
		}
		f, err := zw.Create(e.name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", e.name, err)
		}
		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}
