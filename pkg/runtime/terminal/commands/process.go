package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
	"github.com/fiscal-tools/cfdi-atlas/pkg/runtime/terminal/export"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/archive"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/dataset"
	exportsvc "github.com/fiscal-tools/cfdi-atlas/pkg/services/export"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/summary"

	"github.com/spf13/cobra"
)

type ProcessCmd struct {
	kind           string
	checkpointPath string
	outXLSX        string
	outCSV         string
	outCheckpoint  string
	periods        []string
	split          bool
	store          *dataset.Store
	reporter       *export.Reporter
}

func NewProcessCmd(store *dataset.Store, reporter *export.Reporter) *cobra.Command {
	pc := &ProcessCmd{store: store, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "process [flags] archive.zip ...",
		Short: "Process CFDI archives into a deduplicated dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.kind, "kind", string(domain.KindReceived), "Dataset to load into (recibidos or emitidos)")
	cmd.Flags().StringVar(&pc.checkpointPath, "checkpoint", "", "Existing checkpoint workbook to resume from")
	cmd.Flags().StringVar(&pc.outXLSX, "out-xlsx", "", "Write a period workbook to this path")
	cmd.Flags().StringVar(&pc.outCSV, "out-csv", "", "Write a CSV export to this path")
	cmd.Flags().StringVar(&pc.outCheckpoint, "out-checkpoint", "", "Write the session checkpoint to this path")
	cmd.Flags().StringSliceVar(&pc.periods, "periods", nil, "Periods (YYYY-MM) to include in the workbook; defaults to all")
	cmd.Flags().BoolVar(&pc.split, "split", false, "Split workbook sheets by the classification flag")

	return cmd
}

func (pc *ProcessCmd) run(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(pc.kind)
	if err != nil {
		return err
	}

	if pc.checkpointPath != "" {
		if err := pc.resume(); err != nil {
			return err
		}
	}

	var added, skipped, warnings int
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read archive %s: %w", path, err)
		}
		result, err := archive.ProcessZip(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("process archive %s: %w", path, err)
		}
		for i := range result.Records {
			result.Records[i].Included = true
		}
		merged := pc.store.Merge(kind, result.Records)
		added += merged.Added
		skipped += merged.Skipped
		warnings += len(result.Warnings)
		for _, w := range result.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "aviso: %s: %s\n", w.File, w.Err)
		}
	}

	ds := pc.store.Get(kind)
	periods := summary.Periods(ds)
	summaries := make([]domain.PeriodSummary, 0, len(periods))
	for _, p := range periods {
		summaries = append(summaries, summary.Summarize(ds, p))
	}

	if err := pc.reporter.Handle(&export.Report{
		Title:     fmt.Sprintf("CFDIs %s", kind),
		Added:     added,
		Skipped:   skipped,
		Warnings:  warnings,
		Summaries: summaries,
	}); err != nil {
		return err
	}

	return pc.writeOutputs(kind, ds, periods)
}

// resume merges both sheets of a checkpoint workbook before any archive is
// processed, so re-runs skip everything already collected.
func (pc *ProcessCmd) resume() error {
	data, err := os.ReadFile(pc.checkpointPath)
	if err != nil {
		return fmt.Errorf("read checkpoint %s: %w", pc.checkpointPath, err)
	}
	received, issued, err := exportsvc.LoadCheckpoint(data)
	if err != nil {
		return fmt.Errorf("load checkpoint %s: %w", pc.checkpointPath, err)
	}
	pc.store.Merge(domain.KindReceived, received)
	pc.store.Merge(domain.KindIssued, issued)
	return nil
}

func (pc *ProcessCmd) writeOutputs(kind domain.Kind, ds domain.Dataset, periods []string) error {
	if pc.outXLSX != "" {
		selected := periods
		if len(pc.periods) > 0 {
			selected = pc.periods
		}
		data, err := exportsvc.PeriodWorkbook(ds, kind, selected, pc.split)
		if err != nil {
			return fmt.Errorf("build workbook: %w", err)
		}
		if err := os.WriteFile(pc.outXLSX, data, 0o644); err != nil {
			return fmt.Errorf("write workbook %s: %w", pc.outXLSX, err)
		}
	}

	if pc.outCSV != "" {
		data, err := exportsvc.CSV(ds, kind)
		if err != nil {
			return fmt.Errorf("build csv: %w", err)
		}
		if err := os.WriteFile(pc.outCSV, data, 0o644); err != nil {
			return fmt.Errorf("write csv %s: %w", pc.outCSV, err)
		}
	}

	if pc.outCheckpoint != "" {
		data, err := exportsvc.SaveCheckpoint(
			pc.store.Get(domain.KindReceived),
			pc.store.Get(domain.KindIssued),
		)
		if err != nil {
			return fmt.Errorf("build checkpoint: %w", err)
		}
		if err := os.WriteFile(pc.outCheckpoint, data, 0o644); err != nil {
			return fmt.Errorf("write checkpoint %s: %w", pc.outCheckpoint, err)
		}
	}

	return nil
}

func parseKind(s string) (domain.Kind, error) {
	switch domain.Kind(strings.ToLower(s)) {
	case domain.KindReceived:
		return domain.KindReceived, nil
	case domain.KindIssued:
		return domain.KindIssued, nil
	}
	return "", fmt.Errorf("unknown dataset kind %q, expected %s or %s",
		s, domain.KindReceived, domain.KindIssued)
}
