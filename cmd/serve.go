// =============================================================================
// Order Report - Serve Command
// =============================================================================
//
// This file defines the 'serve' command. It runs the browser review page and
// its JSON API until SIGINT or SIGTERM.
//
// COMMAND USAGE:
//   order-report serve [--addr :8080]
//
// =============================================================================

package cmd

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-report/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser review page",
	Long: `The serve command starts an HTTP server with a single page for pasting an
order listing, editing each order's follow-up values and producing the
report. Each browser tab works in its own in-memory session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			mainConfig.Server.Address = serveAddr
		}

		gin.SetMode(gin.ReleaseMode)
		if verbose {
			gin.SetMode(gin.DebugMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.New(mainConfig, logger).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.address)")
}
