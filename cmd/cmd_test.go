package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-report/internal/parser"
	"github.com/ginjaninja78/order-report/internal/session"
)

const listing = `WITEL: SEMARANG
Total INDIBIZ: 7 | Total WMS: 2
5001 | SMG | Toko Maju | Provisioned | Indibiz | 2 hari
5002 | KDL | CV Sinar | Provisioned | Astinet | 5 hari
`

// execute runs the root command with fresh flag values.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	inputPath, overridesPath, reviewMode, searchQuery, reviewPath = "", "", "all", "", ""
	dryRun, copyReport, verbose = false, false, false
	templateInput, templateOut, templateForce = "", "annotations.xlsx", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// writeConfig points the output directory at a temp dir.
func writeConfig(t *testing.T) (cfgPath, outDir string) {
	t.Helper()
	dir := t.TempDir()
	outDir = filepath.Join(dir, "out")
	cfgPath = filepath.Join(dir, "config.yaml")

	data := "output_dir: " + outDir + "\n" +
		"log_level: error\n" +
		"defaults:\n" +
		"  status: OPEN\n" +
		"  unit: ASSURANCE\n" +
		"  assignment: NOC-{STO}\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(data), 0644))
	return cfgPath, outDir
}

func writeListing(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.txt")
	require.NoError(t, os.WriteFile(path, []byte(listing), 0644))
	return path
}

func TestProcessDryRunFromStdin(t *testing.T) {
	cfgPath, outDir := writeConfig(t)

	out, err := execute(t, listing, "process", "--config", cfgPath, "--input", "-", "--dry-run")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, strings.Repeat("=", 170)+"\nWITEL: SEMARANG\nTotal INDIBIZ: 7 | Total WMS: 2\n"))
	assert.Contains(t, out, "5001 | SMG | Toko Maju | Provisioned | Indibiz | 2 hari | OPEN | ASSURANCE | NOC-SMG |  | \n")
	assert.NoDirExists(t, outDir)
}

func TestProcessWritesReport(t *testing.T) {
	cfgPath, outDir := writeConfig(t)
	input := writeListing(t)

	out, err := execute(t, "", "process", "--config", cfgPath, "--input", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Total orders:    2")

	files, err := filepath.Glob(filepath.Join(outDir, "hasil_SEMARANG_*.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "5002 | KDL | CV Sinar | Provisioned | Astinet | 5 hari | OPEN | ASSURANCE | NOC-KDL |  | \n")
}

func TestProcessWithOverrides(t *testing.T) {
	cfgPath, outDir := writeConfig(t)
	input := writeListing(t)

	overrides := filepath.Join(t.TempDir(), "notes.yaml")
	require.NoError(t, os.WriteFile(overrides, []byte(`overrides:
  - order_id: "5002"
    status: CLOSED
  - order_id: "9999"
    status: CLOSED
`), 0644))
	review := filepath.Join(t.TempDir(), "review.xlsx")

	out, err := execute(t, "", "process", "--config", cfgPath, "--input", input,
		"--overrides", overrides, "--mode", "custom", "--xlsx", review)
	require.NoError(t, err)

	assert.Contains(t, out, "Custom:          1")
	assert.Contains(t, out, "order not found in input")
	assert.Contains(t, out, "(1 rows)")
	assert.FileExists(t, review)

	logs, err := filepath.Glob(filepath.Join(outDir, "error_log_*.txt"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestProcessRejectsUnknownMode(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	input := writeListing(t)

	_, err := execute(t, "", "process", "--config", cfgPath, "--input", input, "--mode", "odd")
	assert.Error(t, err)
}

func TestProcessWithoutOrders(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	_, err := execute(t, "WITEL: X\n", "process", "--config", cfgPath, "--input", "-", "--dry-run")
	assert.ErrorIs(t, err, parser.ErrNoOrders)
	assert.ErrorIs(t, err, session.ErrNoOrders)
}

func TestProcessCopy(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	var copied string
	orig := clipboardWriteAll
	clipboardWriteAll = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { clipboardWriteAll = orig })

	out, err := execute(t, listing, "process", "--config", cfgPath, "--input", "-", "--dry-run", "--copy")
	require.NoError(t, err)
	assert.Equal(t, out, copied)
}

func TestProcessCopyFailureIsNotFatal(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	orig := clipboardWriteAll
	clipboardWriteAll = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { clipboardWriteAll = orig })

	_, err := execute(t, listing, "process", "--config", cfgPath, "--input", "-", "--dry-run", "--copy")
	assert.NoError(t, err)
}

func TestTemplateRoundTrip(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	input := writeListing(t)
	workbook := filepath.Join(t.TempDir(), "annotations.xlsx")

	out, err := execute(t, "", "template", "--config", cfgPath, "--input", input, "--out", workbook)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 order(s)")

	// An untouched template changes nothing.
	out, err = execute(t, "", "process", "--config", cfgPath, "--input", input, "--overrides", workbook)
	require.NoError(t, err)
	assert.Contains(t, out, "Custom:          0")
	assert.Contains(t, out, "Default:         2")
}

func TestTemplateYAML(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	input := writeListing(t)
	notes := filepath.Join(t.TempDir(), "notes.yaml")

	_, err := execute(t, "", "template", "--config", cfgPath, "--input", input, "--out", notes)
	require.NoError(t, err)

	data, err := os.ReadFile(notes)
	require.NoError(t, err)
	assert.Contains(t, string(data), "order_id: \"5002\"")
	assert.Contains(t, string(data), "assignment: NOC-KDL")

	// Existing files are kept unless --force is given.
	_, err = execute(t, "", "template", "--config", cfgPath, "--input", input, "--out", notes)
	assert.Error(t, err)

	_, err = execute(t, "", "template", "--config", cfgPath, "--input", input, "--out", notes, "--force")
	assert.NoError(t, err)

	_, err = execute(t, "", "template", "--config", cfgPath, "--input", input, "--out", filepath.Join(t.TempDir(), "x.csv"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	out, err := execute(t, "", "version", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    "+Version)
}

func TestInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: loud\n"), 0644))

	_, err := execute(t, "", "version", "--config", cfgPath)
	assert.Error(t, err)
}
