package fiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/api"
	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/dataset"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(kind domain.Kind) domain.Dataset {
	args := m.Called(kind)
	return args.Get(0).(domain.Dataset)
}

func (m *mockStore) Merge(kind domain.Kind, batch []domain.Record) dataset.MergeResult {
	args := m.Called(kind, batch)
	return args.Get(0).(dataset.MergeResult)
}

func (m *mockStore) SetFlags(kind domain.Kind, updates map[string]bool) int {
	args := m.Called(kind, updates)
	return args.Int(0)
}

func (m *mockStore) Duplicates(kind domain.Kind) []dataset.IndexedRecord {
	args := m.Called(kind)
	return args.Get(0).([]dataset.IndexedRecord)
}

func (m *mockStore) Remove(kind domain.Kind, indices []int) (int, error) {
	args := m.Called(kind, indices)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) DropDuplicates(kind domain.Kind) int {
	args := m.Called(kind)
	return args.Int(0)
}

func withKind(req *http.Request, kind string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("kind", kind)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func TestListPeriods(t *testing.T) {
	store := new(mockStore)
	store.On("Get", domain.KindReceived).Return(domain.Dataset{
		{Date: "2024-01-10T00:00:00"},
		{Date: "2024-03-02T00:00:00"},
	})

	req := withKind(httptest.NewRequest("GET", "/datasets/recibidos/periods", nil), "recibidos")
	rec := httptest.NewRecorder()

	NewHandler(store).ListPeriods(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response api.Periods
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, []string{"2024-01", "2024-03"}, response.Periods)
	assert.Equal(t, "2024-03", response.Latest)
	store.AssertExpectations(t)
}

func TestListPeriodsUnknownKind(t *testing.T) {
	req := withKind(httptest.NewRequest("GET", "/datasets/nominas/periods", nil), "nominas")
	rec := httptest.NewRecorder()

	NewHandler(new(mockStore)).ListPeriods(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateFlags(t *testing.T) {
	store := new(mockStore)
	store.On("SetFlags", domain.KindIssued, map[string]bool{"abc": false}).Return(1)

	body, _ := json.Marshal([]api.FlagUpdate{{Key: "abc", Included: false}})
	req := withKind(httptest.NewRequest("PATCH", "/datasets/emitidos/flags", bytes.NewReader(body)), "emitidos")
	rec := httptest.NewRecorder()

	NewHandler(store).UpdateFlags(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response api.FlagsResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 1, response.Changed)
	store.AssertExpectations(t)
}

func TestRemoveDuplicatesEmptySelection(t *testing.T) {
	store := new(mockStore)
	store.On("Remove", domain.KindReceived, []int(nil)).Return(0, dataset.ErrEmptySelection)

	body, _ := json.Marshal(api.RemoveRequest{})
	req := withKind(httptest.NewRequest("POST", "/datasets/recibidos/duplicates/remove", bytes.NewReader(body)), "recibidos")
	rec := httptest.NewRecorder()

	NewHandler(store).RemoveDuplicates(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertExpectations(t)
}

func TestDropDuplicates(t *testing.T) {
	store := new(mockStore)
	store.On("DropDuplicates", domain.KindReceived).Return(2)

	req := withKind(httptest.NewRequest("POST", "/datasets/recibidos/duplicates/drop", nil), "recibidos")
	rec := httptest.NewRecorder()

	NewHandler(store).DropDuplicates(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response api.RemoveResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 2, response.Removed)
	store.AssertExpectations(t)
}

func TestUploadArchiveRejectsNonZip(t *testing.T) {
	req := withKind(httptest.NewRequest("POST", "/datasets/recibidos/archive",
		bytes.NewReader([]byte("not a zip"))), "recibidos")
	rec := httptest.NewRecorder()

	NewHandler(new(mockStore)).UploadArchive(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSVUnknownKind(t *testing.T) {
	req := httptest.NewRequest("GET", "/export/csv?kind=otros", nil)
	rec := httptest.NewRecorder()

	NewHandler(new(mockStore)).ExportCSV(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
