package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMainConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "hasil_{region}_{date}.txt", cfg.OutputNameFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "NOC-{STO}", cfg.Defaults.Assignment)
}

func TestLoadMainConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
output_dir: /tmp/reports
log_level: debug
log_format: json
server:
  address: "127.0.0.1:9000"
defaults:
  status: OPEN
  unit: ASSURANCE
  assignment: "TIF-{STO}"
  summary: pending
  log: "-"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/reports", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 5, cfg.Server.ShutdownTimeoutSeconds)
	assert.Equal(t, "OPEN", cfg.Defaults.Status)
	assert.Equal(t, "TIF-{STO}", cfg.Defaults.Assignment)
	assert.Equal(t, "pending", cfg.Defaults.Summary)
}

func TestParseMainConfigAssignmentDefault(t *testing.T) {
	cfg, err := ParseMainConfig([]byte("defaults:\n  status: OPEN\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAssignment, cfg.Defaults.Assignment)
	assert.Equal(t, "OPEN", cfg.Defaults.Status)

	// An explicit empty value is kept.
	cfg, err = ParseMainConfig([]byte("defaults:\n  assignment: \"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Defaults.Assignment)
}

func TestParseMainConfigRejectsBadLogLevel(t *testing.T) {
	_, err := ParseMainConfig([]byte("log_level: chatty\nlog_format: xml\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
	assert.Contains(t, err.Error(), "LogFormat")
}

func TestParseMainConfigRejectsBadYAML(t *testing.T) {
	_, err := ParseMainConfig([]byte("server: [unterminated"))
	assert.Error(t, err)
}
