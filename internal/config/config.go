// =============================================================================
// Order Report - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file.
//
// CONFIGURATION FILE (config.yaml):
//   output_dir: ./output
//   output_name_format: "hasil_{region}_{date}.txt"
//   log_level: info
//   log_format: console
//   server:
//     address: ":8080"
//   defaults:
//     status: ""
//     unit: ""
//     assignment: "NOC-{STO}"
//     summary: ""
//     log: ""
//
// A missing file is not an error: the built-in defaults are used instead.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/order-report/internal/types"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where report files are written by the process command.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" validate:"required"`

	// OutputNameFormat defines the report file name.
	// Placeholders:
	//   {region}    - Region code taken from the input ("WITEL" if absent)
	//   {date}      - Current date (YYYY-MM-DD)
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	// Default: "hasil_{region}_{date}.txt"
	OutputNameFormat string `yaml:"output_name_format" validate:"required"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the log encoder.
	// Valid values: "console", "json"
	// Default: "console"
	LogFormat string `yaml:"log_format" validate:"oneof=console json"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	// Server configures the browser form served by the serve command.
	Server ServerConfig `yaml:"server"`

	// =========================================================================
	// ANNOTATION DEFAULTS
	// =========================================================================

	// Defaults are the initial values of the five annotation fields.
	// The assignment default may contain "{STO}", replaced per row with the
	// order's site code.
	Defaults types.OverrideFields `yaml:"defaults"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Address is the listen address.
	// Default: ":8080"
	Address string `yaml:"address" validate:"required"`

	// ShutdownTimeoutSeconds bounds graceful shutdown.
	// Default: 5
	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds" validate:"gte=0"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// DefaultAssignment is the assignment default used when the config file
// has no defaults.assignment key.
const DefaultAssignment = "NOC-{STO}"

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	config := newMainConfig()
	applyMainConfigDefaults(config)
	return config
}

// newMainConfig presets the options whose empty value is meaningful, so
// only a key missing from the file falls back to the default.
func newMainConfig() *MainConfig {
	return &MainConfig{
		Defaults: types.OverrideFields{Assignment: DefaultAssignment},
	}
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct. When the file does not exist the
//     built-in defaults are returned.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseMainConfig(data)
}

// ParseMainConfig parses, defaults and validates YAML configuration bytes.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	config := newMainConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(config)

	if err := validateMainConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyMainConfigDefaults sets default values for any unset option.
// Annotation defaults may legitimately be empty and are left alone.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "hasil_{region}_{date}.txt"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.Server.ShutdownTimeoutSeconds == 0 {
		config.Server.ShutdownTimeoutSeconds = 5
	}
}

var validate = validator.New()

// validateMainConfig checks the struct tags and reports every failing field.
func validateMainConfig(config *MainConfig) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.Join(msgs...)
}
