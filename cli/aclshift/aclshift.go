package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/aclshift/internal/cli"
)

var configPath string

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aclshift",
		Short: "Migrate POSIX ACLs to NFSv4 ACLs",
		Long: `aclshift migrates per-file POSIX ACL metadata (and optionally
ownership) from a source tree to a structurally identical NFSv4 destination
tree, with an incremental migration ledger and a bounded worker pool.`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath

	// Add subcommands
	cmd.AddCommand(
		cli.NewMigrateCmd(),
		cli.NewLedgerCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
