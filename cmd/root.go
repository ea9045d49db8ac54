package cmd

import (
	"fmt"
	"os"

	"github.com/Rizwanu321/BillMate24-sub000/internal/logger"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "billmate",
	Short: "BillMate - billing and ledger backend for small shops",
	Long: `BillMate is the backend for a small-business billing app: shopkeepers
record purchases from wholesalers and sales to customers, track dues and
payments, and read cash-flow reports.

Run "billmate serve" to start the HTTP API, or "billmate migrate" to apply
the database schema.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		l := logger.WithComponent("cmd")
		l.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
