package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/aclshift/internal/logger"
	"github.com/glorpus-work/aclshift/pkg/ledger"
)

// NewLedgerCmd creates the ledger command with its subcommands.
func NewLedgerCmd() *cobra.Command {
	var ledgerPath string

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and manage the migration ledger",
	}
	cmd.PersistentFlags().StringVar(&ledgerPath, "ledger", "", "ledger database path")

	cmd.AddCommand(
		newLedgerResetCmd(&ledgerPath),
		newLedgerStatsCmd(&ledgerPath),
		newLedgerExportCmd(&ledgerPath),
	)
	return cmd
}

func newLedgerResetCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear all migration records",
		RunE: func(_ *cobra.Command, _ []string) error {
			led, err := openLedger(*path)
			if err != nil {
				return err
			}
			defer led.Close()
			if err := led.Reset(); err != nil {
				return err
			}
			logger.Successf("ledger reset: %s", led.Path())
			return nil
		},
	}
}

func newLedgerStatsCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show migration record counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			led, err := openLedger(*path)
			if err != nil {
				return err
			}
			defer led.Close()
			stats, err := led.Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ledger: %s\n", led.Path())
			fmt.Fprintf(out, "total records: %d\n", stats.Total)
			for status, count := range stats.ByStatus {
				fmt.Fprintf(out, "%s: %d\n", status, count)
			}
			return nil
		},
	}
}

func newLedgerExportCmd(path *string) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all records as a tar.gz audit bundle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			led, err := openLedger(*path)
			if err != nil {
				return err
			}
			defer led.Close()
			if err := led.Export(cmd.Context(), outPath); err != nil {
				return err
			}
			logger.Successf("ledger exported to %s", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "ledger_export.tar.gz", "output archive path")
	return cmd
}

// openLedger resolves the ledger path from the flag or config and opens it.
func openLedger(flagPath string) (*ledger.Ledger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := flagPath
	if path == "" {
		path = cfg.LedgerPath()
	}
	return ledger.Open(path)
}
