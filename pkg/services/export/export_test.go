package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
)

func sampleDataset() domain.Dataset {
	return domain.Dataset{
		{
			SourceFile: "a.xml",
			UUID:       "11111111-1111-1111-1111-111111111111",
			Date:       "2024-03-15T10:00:00",
			SubTotal:   "1000.00",
			Total:      "1160.00",
			Included:   true,
		},
		{
			SourceFile: "b.xml",
			UUID:       "22222222-2222-2222-2222-222222222222",
			Date:       "2024-04-02T09:30:00",
			SubTotal:   "500.00",
			Total:      "580.00",
			Included:   false,
		},
	}
}

func TestCSV(t *testing.T) {
	data, err := CSV(sampleDataset(), domain.KindReceived)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Equal(t, "XML", header[0])
	assert.Equal(t, "Deducible", header[len(header)-1])
	assert.Len(t, header, len(domain.Columns)+1)

	assert.Equal(t, "a.xml", rows[1][0])
	assert.Equal(t, "true", rows[1][len(header)-1])
	assert.Equal(t, "false", rows[2][len(header)-1])
}

func TestCombinedCSV(t *testing.T) {
	data, err := CombinedCSV(sampleDataset(), domain.Dataset{{SourceFile: "e.xml", Included: true}})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Tipo CFDI", rows[0][0])
	assert.Equal(t, "Recibidos", rows[1][0])
	assert.Equal(t, "Emitidos", rows[3][0])
}

func TestCheckpointRoundTrip(t *testing.T) {
	received := sampleDataset()
	issued := domain.Dataset{
		{SourceFile: "e.xml", UUID: "33333333-3333-3333-3333-333333333333", Date: "2024-03-01T00:00:00", Included: true},
	}

	data, err := SaveCheckpoint(received, issued)
	require.NoError(t, err)

	gotReceived, gotIssued, err := LoadCheckpoint(data)
	require.NoError(t, err)

	require.Len(t, gotReceived, len(received))
	require.Len(t, gotIssued, len(issued))
	for i := range received {
		assert.Equal(t, received[i].UUID, gotReceived[i].UUID)
		assert.Equal(t, received[i].Included, gotReceived[i].Included)
	}
	assert.Equal(t, issued[0].UUID, gotIssued[0].UUID)
}

func TestLoadCheckpointMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Recibidos"))
	require.NoError(t, f.SetSheetRow("Recibidos", "A1", &[]string{"UUID"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, _, err = LoadCheckpoint(buf.Bytes())
	require.ErrorIs(t, err, ErrMissingSheet)
}

func TestLoadCheckpointMissingUUIDColumn(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Recibidos"))
	_, err := f.NewSheet("Emitidos")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Recibidos", "A1", &[]string{"Fecha", "Total"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, _, err = LoadCheckpoint(buf.Bytes())
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestPeriodWorkbookSheetPerPeriod(t *testing.T) {
	data, err := PeriodWorkbook(sampleDataset(), domain.KindReceived, nil, false)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2024-03", "2024-04"}, f.GetSheetList())

	rows, err := f.GetRows("2024-03")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Periodo", rows[0][len(rows[0])-1])
	assert.Equal(t, "2024-03", rows[1][len(rows[0])-1])
}

func TestPeriodWorkbookSplitByFlag(t *testing.T) {
	data, err := PeriodWorkbook(sampleDataset(), domain.KindReceived, []string{"2024-04"}, true)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2024-04 - Deducibles", "2024-04 - No Deducibles"}, f.GetSheetList())

	rows, err := f.GetRows("2024-04 - No Deducibles")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b.xml", rows[1][0])
}

func TestPeriodWorkbookEmptyDataset(t *testing.T) {
	_, err := PeriodWorkbook(domain.Dataset{}, domain.KindReceived, nil, false)
	require.Error(t, err)
}

func TestSessionWorkbookSheets(t *testing.T) {
	data, err := SessionWorkbook(sampleDataset(), domain.Dataset{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Recibidos",
		"Deducibles",
		"No Deducibles",
		"Emitidos",
		"Emitidos Seleccionados",
		"Emitidos No Seleccionados",
	}, f.GetSheetList())
}

func TestTruncateSheetName(t *testing.T) {
	long := "2024-03 - un nombre de hoja demasiado largo"
	assert.Len(t, []rune(truncateSheetName(long)), 31)
	assert.Equal(t, "2024-03", truncateSheetName("2024-03"))
}
