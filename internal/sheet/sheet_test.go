package sheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-report/internal/types"
)

func sampleRows() []Row {
	return []Row{
		{
			Order:  types.Order{OrderID: "12345", SiteCode: "STO1", CustomerName: "Budu", Type: "Astinet", AgeDays: "3"},
			Fields: types.OverrideFields{Status: "OPEN", Unit: "ASSURANCE", Assignment: "NOC-STO1", Summary: "waiting", Log: "-"},
		},
		{
			Order:  types.Order{OrderID: "12346", SiteCode: "STO2", CustomerName: "Sari", Type: "Indibiz", AgeDays: "0"},
			Fields: types.OverrideFields{Status: "OPEN", Unit: "ASSURANCE", Assignment: "NOC-STO2", Summary: "waiting", Log: "-"},
		},
	}
}

func toBuffer(t *testing.T, f *excelize.File) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return &buf
}

func TestAnnotationsRoundTrip(t *testing.T) {
	f, err := WriteAnnotations(sampleRows())
	require.NoError(t, err)

	// Simulate a user editing the second row.
	require.NoError(t, f.SetCellValue(AnnotationSheet, "G3", "CLOSED"))
	require.NoError(t, f.SetCellValue(AnnotationSheet, "K3", "called customer"))

	entries, err := ReadAnnotations(toBuffer(t, f))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "12345", entries[0].OrderID)
	require.NotNil(t, entries[0].Index)
	assert.Equal(t, 0, *entries[0].Index)
	assert.Equal(t, 2, entries[0].Line)
	assert.Equal(t, "NOC-STO1", entries[0].Assignment)

	require.NotNil(t, entries[1].Index)
	assert.Equal(t, 1, *entries[1].Index)
	assert.Equal(t, "CLOSED", entries[1].Status)
	assert.Equal(t, "called customer", entries[1].Log)
}

func TestReadAnnotationsSkipsEmptyRowsAndBadNumbers(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"No", "Order ID"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"x", "777", "", "", "", "", "DONE"}))

	entries, err := ReadAnnotations(toBuffer(t, f))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Nil(t, entries[0].Index)
	assert.Equal(t, "777", entries[0].OrderID)
	assert.Equal(t, "DONE", entries[0].Status)
	assert.Equal(t, 3, entries[0].Line)
}

func TestReadAnnotationsRejectsGarbage(t *testing.T) {
	_, err := ReadAnnotations(bytes.NewBufferString("not a workbook"))
	assert.Error(t, err)
}

func TestWriteReview(t *testing.T) {
	results := []types.Result{
		{Order: sampleRows()[0].Order, OverrideFields: sampleRows()[0].Fields},
		{Order: sampleRows()[1].Order, OverrideFields: types.OverrideFields{Status: "CLOSED"}, IsCustom: true},
	}
	meta := types.Metadata{Region: "JAKARTA", TotalA: "2", TotalB: "0"}

	f, err := WriteReview(meta, results)
	require.NoError(t, err)
	defer f.Close()

	badge, err := f.GetCellValue(ReviewSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "DEFAULT", badge)

	badge, err = f.GetCellValue(ReviewSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM", badge)

	status, err := f.GetCellValue(ReviewSheet, "I3")
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", status)

	custom, err := f.GetCellValue(SummarySheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "1", custom)

	region, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "JAKARTA", region)
}

func TestWriteReviewEmptyHasPlaceholder(t *testing.T) {
	f, err := WriteReview(types.NewMetadata(), nil)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(ReviewSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "No matching data", v)
}
