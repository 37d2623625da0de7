package commands

import (
	"fmt"
	"os"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/dataset"
	exportsvc "github.com/fiscal-tools/cfdi-atlas/pkg/services/export"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/summary"

	"github.com/spf13/cobra"
)

type ExportCmd struct {
	kind           string
	checkpointPath string
	outXLSX        string
	outCSV         string
	outCSVZip      string
	periods        []string
	split          bool
	store          *dataset.Store
}

func NewExportCmd(store *dataset.Store) *cobra.Command {
	ec := &ExportCmd{store: store}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a saved session as spreadsheets",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.checkpointPath, "checkpoint", "", "Checkpoint workbook to export from")
	cmd.Flags().StringVar(&ec.kind, "kind", string(domain.KindReceived), "Dataset to export (recibidos or emitidos)")
	cmd.Flags().StringVar(&ec.outXLSX, "out-xlsx", "", "Write a period workbook to this path")
	cmd.Flags().StringVar(&ec.outCSV, "out-csv", "", "Write a CSV export to this path")
	cmd.Flags().StringVar(&ec.outCSVZip, "out-csv-zip", "", "Write both datasets as zipped CSVs to this path")
	cmd.Flags().StringSliceVar(&ec.periods, "periods", nil, "Periods (YYYY-MM) to include in the workbook; defaults to all")
	cmd.Flags().BoolVar(&ec.split, "split", false, "Split workbook sheets by the classification flag")

	_ = cmd.MarkFlagRequired("checkpoint")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(ec.kind)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(ec.checkpointPath)
	if err != nil {
		return fmt.Errorf("read checkpoint %s: %w", ec.checkpointPath, err)
	}
	received, issued, err := exportsvc.LoadCheckpoint(data)
	if err != nil {
		return fmt.Errorf("load checkpoint %s: %w", ec.checkpointPath, err)
	}
	ec.store.Merge(domain.KindReceived, received)
	ec.store.Merge(domain.KindIssued, issued)

	ds := ec.store.Get(kind)

	if ec.outXLSX != "" {
		periods := ec.periods
		if len(periods) == 0 {
			periods = summary.Periods(ds)
		}
		out, err := exportsvc.PeriodWorkbook(ds, kind, periods, ec.split)
		if err != nil {
			return fmt.Errorf("build workbook: %w", err)
		}
		if err := os.WriteFile(ec.outXLSX, out, 0o644); err != nil {
			return fmt.Errorf("write workbook %s: %w", ec.outXLSX, err)
		}
	}

	if ec.outCSV != "" {
		out, err := exportsvc.CSV(ds, kind)
		if err != nil {
			return fmt.Errorf("build csv: %w", err)
		}
		if err := os.WriteFile(ec.outCSV, out, 0o644); err != nil {
			return fmt.Errorf("write csv %s: %w", ec.outCSV, err)
		}
	}

	if ec.outCSVZip != "" {
		out, err := exportsvc.CSVArchive(
			ec.store.Get(domain.KindReceived),
			ec.store.Get(domain.KindIssued),
		)
		if err != nil {
			return fmt.Errorf("build csv archive: %w", err)
		}
		if err := os.WriteFile(ec.outCSVZip, out, 0o644); err != nil {
			return fmt.Errorf("write csv archive %s: %w", ec.outCSVZip, err)
		}
	}

	return nil
}
