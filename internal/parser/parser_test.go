package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-report/internal/types"
)

const sampleInput = `
WITEL: JAKARTA PUSAT
Total INDIBIZ: 12 | Total WMS: 4

12345 | STO1 | Budu | Provisioned | Astinet | 3 hari
12346 | STO2 | Sari | Provisioned | Indibiz
header | not | an | order | line
SC999 | STO3 | Joko | Provisioned | Astinet
`

func TestParseSampleInput(t *testing.T) {
	res := Parse(sampleInput)

	assert.Equal(t, types.Metadata{Region: "JAKARTA PUSAT", TotalA: "12", TotalB: "4"}, res.Metadata)
	require.Len(t, res.Orders, 2)

	want := []types.Order{
		{OrderID: "12345", SiteCode: "STO1", CustomerName: "Budu", ProvisioningStatus: "Provisioned", Type: "Astinet", AgeDays: "3"},
		{OrderID: "12346", SiteCode: "STO2", CustomerName: "Sari", ProvisioningStatus: "Provisioned", Type: "Indibiz", AgeDays: "0"},
	}
	if diff := cmp.Diff(want, res.Orders); diff != "" {
		t.Errorf("orders mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, res.Discarded)
}

func TestParseMetadataOnly(t *testing.T) {
	res := Parse("WITEL: BANDUNG\nTotal INDIBIZ: 7 | Total WMS: 1\n")

	assert.Empty(t, res.Orders)
	assert.NotNil(t, res.Orders)
	assert.Equal(t, "BANDUNG", res.Metadata.Region)
	assert.Equal(t, "7", res.Metadata.TotalA)
	assert.Equal(t, "1", res.Metadata.TotalB)
}

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t\n"} {
		res := Parse(in)
		assert.Empty(t, res.Orders)
		assert.Equal(t, types.NewMetadata(), res.Metadata)
	}
}

func TestParseTotalsWithSingleSegmentKeepsDefaults(t *testing.T) {
	res := Parse("Total INDIBIZ: 12")

	assert.Equal(t, "0", res.Metadata.TotalA)
	assert.Equal(t, "0", res.Metadata.TotalB)
	assert.Zero(t, res.Discarded)
}

func TestParseMarkerInsideOrderLineIsMetadata(t *testing.T) {
	res := Parse("12345 | STO1 | WITEL: X | Provisioned | Astinet")

	assert.Empty(t, res.Orders)
	assert.Equal(t, "X | Provisioned | Astinet", res.Metadata.Region)
}

func TestParseRegionBetweenRepeatedMarkers(t *testing.T) {
	res := Parse("WITEL: A WITEL: B")
	assert.Equal(t, "A", res.Metadata.Region)
}

func TestParseOrderLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		ok   bool
		want types.Order
	}{
		{
			name: "six fields with unit",
			line: "12345 | STO1 | Budu | Provisioned | Astinet | 3 hari",
			ok:   true,
			want: types.Order{OrderID: "12345", SiteCode: "STO1", CustomerName: "Budu", ProvisioningStatus: "Provisioned", Type: "Astinet", AgeDays: "3"},
		},
		{
			name: "extra fields are ignored",
			line: "1|A|B|C|D|10hari|extra",
			ok:   true,
			want: types.Order{OrderID: "1", SiteCode: "A", CustomerName: "B", ProvisioningStatus: "C", Type: "D", AgeDays: "10"},
		},
		{
			name: "empty inner fields are kept",
			line: "9 | | | | ",
			ok:   true,
			want: types.Order{OrderID: "9", AgeDays: "0"},
		},
		{name: "four fields", line: "1 | A | B | C", ok: false},
		{name: "leading letter", line: "A1 | A | B | C | D", ok: false},
		{name: "leading space before digit is trimmed", line: "   7 | A | B | C | D", ok: true,
			want: types.Order{OrderID: "7", SiteCode: "A", CustomerName: "B", ProvisioningStatus: "C", Type: "D", AgeDays: "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOrderLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseEveryValidLineYieldsExactlyOneOrder(t *testing.T) {
	lines := []string{
		"100 | S1 | N1 | P | T",
		"200 | S2 | N2 | P | T | 1 hari",
		"3x | S3 | N3 | P | T | 2 hari",
	}
	res := Parse(strings.Join(lines, "\n"))

	require.Len(t, res.Orders, 3)
	assert.Equal(t, "100", res.Orders[0].OrderID)
	assert.Equal(t, "200", res.Orders[1].OrderID)
	assert.Equal(t, "3x", res.Orders[2].OrderID)
	assert.Equal(t, "S3", res.Orders[2].SiteCode)
}

func TestParseReaderMatchesParse(t *testing.T) {
	got, err := ParseReader(strings.NewReader(sampleInput))
	require.NoError(t, err)

	if diff := cmp.Diff(Parse(sampleInput), got); diff != "" {
		t.Errorf("ParseReader differs from Parse (-parse +reader):\n%s", diff)
	}
}

func TestParseReaderHandlesCRLF(t *testing.T) {
	got, err := ParseReader(strings.NewReader("WITEL: SBY\r\n1 | A | B | C | D | 2 hari\r\n"))
	require.NoError(t, err)

	assert.Equal(t, "SBY", got.Metadata.Region)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, "2", got.Orders[0].AgeDays)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("does-not-exist.txt")
	assert.Error(t, err)
}
