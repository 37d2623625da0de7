package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
)

var (
	// ErrMissingSheet marks a checkpoint workbook without one of the two
	// expected sheets. The load aborts and the session stays untouched.
	ErrMissingSheet = errors.New("checkpoint sheet missing")
	// ErrMissingColumn marks a checkpoint sheet without the identifier
	// column; without it the merge-filter cannot run.
	ErrMissingColumn = errors.New("checkpoint column missing")
)

// SaveCheckpoint writes both datasets into one workbook, sheets Recibidos
// and Emitidos, so a session can be resumed later.
func SaveCheckpoint(received, issued domain.Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", domain.KindReceived.SheetName()); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(domain.KindIssued.SheetName()); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := writeCheckpointSheet(f, domain.KindReceived, received); err != nil {
		return nil, err
	}
	if err := writeCheckpointSheet(f, domain.KindIssued, issued); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize checkpoint: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCheckpointSheet(f *excelize.File, kind domain.Kind, ds domain.Dataset) error {
	name := kind.SheetName()
	headers := append(append([]string{}, domain.Columns...), kind.FlagColumn())
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}

	for i, rec := range ds {
		row := make([]interface{}, 0, len(headers))
		for _, v := range rec.Row() {
			row = append(row, v)
		}
		row = append(row, rec.Included)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write %s row: %w", name, err)
		}
	}
	return nil
}

// LoadCheckpoint reads a checkpoint workbook back into two record batches.
// The caller merges them through the usual merge-filter. A missing sheet or
// a sheet without the UUID column fails the whole load; there is no safe
// partial-success for a resume operation.
func LoadCheckpoint(data []byte) (received, issued []domain.Record, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open checkpoint workbook: %w", err)
	}
	defer f.Close()

	received, err = readCheckpointSheet(f, domain.KindReceived)
	if err != nil {
		return nil, nil, err
	}
	issued, err = readCheckpointSheet(f, domain.KindIssued)
	if err != nil {
		return nil, nil, err
	}
	return received, issued, nil
}

func readCheckpointSheet(f *excelize.File, kind domain.Kind) ([]domain.Record, error) {
	name := kind.SheetName()
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingSheet, name)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	uuidCol := -1
	for i, h := range headers {
		if h == "UUID" {
			uuidCol = i
		}
	}
	if uuidCol == -1 {
		return nil, fmt.Errorf("%w: sheet %s has no UUID column", ErrMissingColumn, name)
	}
	flagColumn := kind.FlagColumn()

	var records []domain.Record
	for _, row := range rows[1:] {
		rec := domain.Record{Included: true}
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			if h == flagColumn {
				rec.Included = parseFlag(row[i])
				continue
			}
			rec.SetValue(h, row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseFlag tolerates the boolean spellings that spreadsheets and exports
// produce. Unrecognized values keep the ingest default of true.
func parseFlag(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FALSE", "FALSO", "0":
		return false
	default:
		return true
	}
}
