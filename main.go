// =============================================================================
// Order Report - Main Entry Point
// =============================================================================
//
// This is the main entry point for the order report CLI. It hands control
// to the Cobra commands in the cmd package.
//
// USAGE:
//   order-report process   - Turn a pasted order listing into a report file
//   order-report serve     - Run the browser review page
//   order-report template  - Write an annotation workbook for an input
//   order-report version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parsing, reconciliation, reporting and the HTTP server
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/order-report/cmd"
)

func main() {
	cmd.Execute()
}
