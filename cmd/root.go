// =============================================================================
// Order Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI.
//
// COBRA CLI STRUCTURE:
//   rootCmd (order-report)
//   ├── processCmd  (order-report process)
//   ├── serveCmd    (order-report serve)
//   ├── templateCmd (order-report template)
//   └── versionCmd  (order-report version)
//
// The root command loads the configuration and builds the logger before any
// subcommand runs.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-report/internal/config"
	"github.com/ginjaninja78/order-report/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// mainConfig and logger are set by the root PersistentPreRunE.
var (
	mainConfig *config.MainConfig
	logger     *zap.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "order-report",
	Short: "Order Report - Build daily service-order reports from pasted listings",
	Long: `Order Report turns a pasted service-order listing into a fixed-width text
report. Each order can carry operator-entered follow-up values; anything left
blank falls back to a configured default, where "{STO}" stands for the
order's site code.

Example Usage:
  order-report process --input orders.txt               # Write the report file
  order-report process --input - --dry-run < orders.txt  # Print only
  order-report process --input orders.txt --overrides notes.yaml --xlsx review.xlsx
  order-report serve                                     # Browser review page`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadMainConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load main config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		l, err := logging.New(level, cfg.LogFormat)
		if err != nil {
			return err
		}

		mainConfig = cfg
		logger = l
		logger.Debug("configuration loaded", zap.String("path", cfgFile))
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file; built-in defaults apply if it is missing",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
