package overrides

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-report/internal/sheet"
	"github.com/ginjaninja78/order-report/internal/types"
)

const sampleYAML = `overrides:
  - index: 0
    status: CLOSED
  - order_id: "12346"
    log: called customer
    unit: FIELD
`

func TestDecodeYAML(t *testing.T) {
	entries, err := DecodeYAML([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NotNil(t, entries[0].Index)
	assert.Equal(t, 0, *entries[0].Index)
	assert.Equal(t, "CLOSED", entries[0].Status)
	assert.Equal(t, 2, entries[0].Line)

	assert.Nil(t, entries[1].Index)
	assert.Equal(t, "12346", entries[1].OrderID)
	assert.Equal(t, "called customer", entries[1].Log)
	assert.Equal(t, "FIELD", entries[1].Unit)
	assert.Equal(t, 4, entries[1].Line)
}

func TestDecodeYAMLWithoutList(t *testing.T) {
	entries, err := DecodeYAML([]byte("other: 1\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = DecodeYAML([]byte("overrides: nope\n"))
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	entries, err := DecodeYAML([]byte(sampleYAML))
	require.NoError(t, err)

	data, err := Encode(entries)
	require.NoError(t, err)

	again, err := DecodeYAML(data)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, entries[0].OverrideFields, again[0].OverrideFields)
	assert.Equal(t, entries[1].OrderID, again[1].OrderID)
}

func TestLoadFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "o.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))
	entries, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	f, err := sheet.WriteAnnotations([]sheet.Row{{
		Order:  types.Order{OrderID: "12345"},
		Fields: types.OverrideFields{Status: "OPEN"},
	}})
	require.NoError(t, err)
	xlsxPath := filepath.Join(dir, "o.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	entries, err = LoadFile(xlsxPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "12345", entries[0].OrderID)

	txtPath := filepath.Join(dir, "o.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o644))
	_, err = LoadFile(txtPath)
	assert.Error(t, err)
}
