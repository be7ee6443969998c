// Package cmd provides CLI commands for the journal converter.
package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Logs go to the command's error stream.
func NewRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Convert payroll journals into a payslip table",
		Long: `journal reads payroll journal PDFs and writes one row per staff member
and month with gross pay, social security, allowances, hours worked and
an attendance calendar.

Example:
  journal convert march.pdf april.pdf > payslips.csv
  journal convert --format xlsx --out payslips.xlsx journals/*.pdf`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			logLevel := slog.LevelInfo
			if debug {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), logLevel))
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging, including the parse trace")

	// Add subcommands
	rootCmd.AddCommand(newConvertCmd())

	return rootCmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
