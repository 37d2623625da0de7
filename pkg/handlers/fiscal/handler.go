// Package fiscal exposes the session datasets over HTTP: archive ingestion,
// period views, flag review, duplicate cleanup and exports.
package fiscal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/api"
	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/archive"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/dataset"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/export"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/summary"
)

// Store is the slice of the dataset service the handlers need.
type Store interface {
	Get(kind domain.Kind) domain.Dataset
	Merge(kind domain.Kind, batch []domain.Record) dataset.MergeResult
	SetFlags(kind domain.Kind, updates map[string]bool) int
	Duplicates(kind domain.Kind) []dataset.IndexedRecord
	Remove(kind domain.Kind, indices []int) (int, error)
	DropDuplicates(kind domain.Kind) int
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// UploadArchive ingests a ZIP of CFDI XMLs into the dataset named in the
// URL. New rows start with the classification flag set.
func (h *Handler) UploadArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown dataset kind")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "read request body")
		return
	}

	result, err := archive.ProcessZip(ctx, body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	for i := range result.Records {
		result.Records[i].Included = true
	}
	merge := h.store.Merge(kind, result.Records)
	logger.Info().
		Str("kind", string(kind)).
		Int("added", merge.Added).
		Int("skipped", merge.Skipped).
		Int("warnings", len(result.Warnings)).
		Msg("archive processed")

	respondJSON(w, http.StatusOK, api.UploadResult{
		Added:    merge.Added,
		Skipped:  merge.Skipped,
		Warnings: apiWarnings(result.Warnings),
	})
}

// ListPeriods returns the dataset's distinct periods, oldest first, plus
// the most recent one as the default view.
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown dataset kind")
		return
	}

	periods := summary.Periods(h.store.Get(kind))
	respondJSON(w, http.StatusOK, api.Periods{Periods: periods, Latest: summary.Latest(periods)})
}

// GetRecords returns one period slice of the dataset together with its
// summary. Without a period parameter the whole dataset is returned.
func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown dataset kind")
		return
	}

	ds := h.store.Get(kind)
	period := r.URL.Query().Get("period")

	records := ds
	if period != "" {
		records = summary.Filter(ds, period)
	}

	respondJSON(w, http.StatusOK, struct {
		Records []domain.Record      `json:"records"`
		Summary domain.PeriodSummary `json:"summary"`
	}{
		Records: records,
		Summary: summary.Aggregate(records, period),
	})
}

// UpdateFlags applies classification flag toggles from the review grid.
func (h *Handler) UpdateFlags(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown dataset kind")
		return
	}

	var updates []api.FlagUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "decode flag updates")
		return
	}

	byKey := make(map[string]bool, len(updates))
	for _, u := range updates {
		byKey[u.Key] = u.Included
	}
	changed := h.store.SetFlags(kind, byKey)
	respondJSON(w, http.StatusOK, api.FlagsResult{Changed: changed})
}

// ListDuplicates returns the rows sharing a repeated UUID, with their
// dataset positions, for human review.
func (h *Handler) ListDuplicates(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown dataset kind")
		return
	}

	dups := h.store.Duplicates(kind)
	if dups == nil {
		dups = []dataset.IndexedRecord{}
	}
	respondJSON(w, http.StatusOK, dups)
}

// RemoveDuplicates deletes an explicitly selected set of rows. An empty
// selection is rejected; nothing is ever removed silently.
func (h *Handler) RemoveDuplicates(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown dataset kind")
		return
	}

	var req api.RemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "decode removal request")
		return
	}

	removed, err := h.store.Remove(kind, req.Indices)
	if err != nil {
		if errors.Is(err, dataset.ErrEmptySelection) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, api.RemoveResult{Removed: removed})
}

// DropDuplicates removes every repeated-UUID row at once, keeping the first
// occurrence of each identifier.
func (h *Handler) DropDuplicates(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown dataset kind")
		return
	}

	removed := h.store.DropDuplicates(kind)
	respondJSON(w, http.StatusOK, api.RemoveResult{Removed: removed})
}

// ExportCSV streams a dataset as CSV; kind "combinado" merges both
// datasets under a leading type column.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	kindParam := r.URL.Query().Get("kind")

	var (
		data []byte
		err  error
		name string
	)
	if kindParam == "combinado" {
		data, err = export.CombinedCSV(h.store.Get(domain.KindReceived), h.store.Get(domain.KindIssued))
		name = "cfdis.csv"
	} else {
		kind, ok := parseKind(kindParam)
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown dataset kind")
			return
		}
		data, err = export.CSV(h.store.Get(kind), kind)
		name = string(kind) + ".csv"
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	serveFile(w, name, "text/csv; charset=utf-8", data)
}

// ExportWorkbook streams a styled XLSX workbook, one sheet per period,
// optionally split by classification flag. Kind "sesion" renders the full
// session instead: both datasets plus their flagged slices.
func (h *Handler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	kindParam := r.URL.Query().Get("kind")
	if kindParam == "sesion" {
		data, err := export.SessionWorkbook(h.store.Get(domain.KindReceived), h.store.Get(domain.KindIssued))
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		serveFile(w, "cfdis_sesion.xlsx",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}

	kind, ok := parseKind(kindParam)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown dataset kind")
		return
	}

	var periods []string
	if raw := r.URL.Query().Get("periods"); raw != "" {
		periods = strings.Split(raw, ",")
	}
	split := r.URL.Query().Get("split") == "true"

	data, err := export.PeriodWorkbook(h.store.Get(kind), kind, periods, split)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	serveFile(w, "cfdis_por_periodo.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// DownloadCheckpoint streams the full session as a resumable workbook.
func (h *Handler) DownloadCheckpoint(w http.ResponseWriter, r *http.Request) {
	data, err := export.SaveCheckpoint(h.store.Get(domain.KindReceived), h.store.Get(domain.KindIssued))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	serveFile(w, "avance_cfdis.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// UploadCheckpoint loads a previously saved workbook and merges it into
// the session with the usual dedup filter. A malformed checkpoint aborts
// the load and leaves both datasets untouched.
func (h *Handler) UploadCheckpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "read request body")
		return
	}

	received, issued, err := export.LoadCheckpoint(body)
	if err != nil {
		logger.Warn().Err(err).Msg("checkpoint load rejected")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	recMerge := h.store.Merge(domain.KindReceived, received)
	issMerge := h.store.Merge(domain.KindIssued, issued)
	respondJSON(w, http.StatusOK, api.CheckpointResult{
		Received: api.UploadResult{Added: recMerge.Added, Skipped: recMerge.Skipped},
		Issued:   api.UploadResult{Added: issMerge.Added, Skipped: issMerge.Skipped},
	})
}

func parseKind(s string) (domain.Kind, bool) {
	switch s {
	case string(domain.KindReceived):
		return domain.KindReceived, true
	case string(domain.KindIssued):
		return domain.KindIssued, true
	}
	return "", false
}

func apiWarnings(warnings []archive.Warning) []api.Warning {
	var out []api.Warning
	for _, w := range warnings {
		out = append(out, api.Warning{File: w.File, Error: w.Err})
	}
	return out
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, api.Error{Message: msg})
}

func serveFile(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}
