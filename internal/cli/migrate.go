package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/aclshift/internal/logger"
	"github.com/glorpus-work/aclshift/pkg/acl"
	"github.com/glorpus-work/aclshift/pkg/apply"
	"github.com/glorpus-work/aclshift/pkg/config"
	"github.com/glorpus-work/aclshift/pkg/hooks"
	"github.com/glorpus-work/aclshift/pkg/ledger"
	"github.com/glorpus-work/aclshift/pkg/orchestrator"
	"github.com/glorpus-work/aclshift/pkg/preflight"
	"github.com/glorpus-work/aclshift/pkg/runner"
)

type migrateFlags struct {
	source      string
	dest        string
	logDir      string
	workers     int
	incremental bool
	ownership   bool
	background  bool
	debug       bool
	domain      string
	ledgerPath  string
}

// NewMigrateCmd creates the migrate command.
func NewMigrateCmd() *cobra.Command {
	flags := &migrateFlags{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate POSIX ACLs to NFSv4 ACLs",
		Long: `Migrate extended POSIX ACL entries (and optionally ownership) from a
source tree to a structurally identical NFSv4 destination tree. Entries are
added to the destination, never cleared; per-file failures are recorded and
never halt the run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "source path (file or directory, POSIX ACLs)")
	cmd.Flags().StringVarP(&flags.dest, "dest", "d", "", "destination path (file or directory, NFSv4 ACLs)")
	cmd.Flags().StringVarP(&flags.logDir, "log-dir", "l", "", "log directory")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "worker pool size")
	cmd.Flags().BoolVar(&flags.incremental, "incremental", false, "skip paths already migrated at an unchanged mtime")
	cmd.Flags().BoolVar(&flags.ownership, "ownership", false, "also migrate owning user and group")
	cmd.Flags().BoolVarP(&flags.background, "background", "b", false, "log to file only, no console output")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&flags.domain, "domain", "", "NFSv4 domain suffix for principals (e.g. example.com)")
	cmd.Flags().StringVar(&flags.ledgerPath, "ledger", "", "ledger database path")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}

func runMigrate(cmd *cobra.Command, flags *migrateFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyMigrateFlags(cmd, cfg, flags)

	if err := checkPaths(flags.source, flags.dest); err != nil {
		return err
	}

	logPath, err := logger.InitFileLogger(cfg.Settings.LogLevel, cfg.Settings.LogDir, cfg.Settings.Background)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	run := runner.NewExecRunner()

	tools := []preflight.Tool{
		{Name: cfg.Tools.Query.Name, MinVersion: cfg.Tools.Query.MinVersion},
		{Name: cfg.Tools.Mutate.Name, MinVersion: cfg.Tools.Mutate.MinVersion},
	}
	if cfg.Settings.Ownership {
		tools = append(tools, preflight.Tool{Name: cfg.Tools.Chown.Name, MinVersion: cfg.Tools.Chown.MinVersion})
	}
	if err := preflight.Check(ctx, run, tools); err != nil {
		return err
	}

	led, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return err
	}
	defer led.Close()

	runID := uuid.NewString()
	hookCtx := &hooks.HookContext{
		RunID:       runID,
		SourceRoot:  flags.source,
		DestRoot:    flags.dest,
		Workers:     cfg.Settings.Workers,
		Incremental: cfg.Settings.Incremental,
		Ownership:   cfg.Settings.Ownership,
	}
	executor := hooks.NewHookExecutor()
	if cfg.Hooks.PreRun != "" {
		hookCtx.Phase = hooks.PreRun
		if err := executor.ExecuteHook(cfg.Hooks.PreRun, hookCtx); err != nil {
			return err
		}
	}

	orch := orchestrator.New(
		acl.NewAcquirer(run, cfg.Tools.Query.Name),
		&acl.Translator{Domain: cfg.Settings.Domain},
		apply.NewApplier(run, cfg.Tools.Mutate.Name),
		apply.NewOwnershipMigrator(run, cfg.Tools.Chown.Name),
		led,
		orchestrator.Options{
			RunID:       runID,
			Workers:     cfg.Settings.Workers,
			Incremental: cfg.Settings.Incremental,
			Ownership:   cfg.Settings.Ownership,
		},
	)
	summary, err := orch.Run(ctx, flags.source, flags.dest)
	if err != nil {
		return err
	}

	if cfg.Hooks.PostRun != "" {
		hookCtx.Phase = hooks.PostRun
		if err := executor.ExecuteHook(cfg.Hooks.PostRun, hookCtx); err != nil {
			logger.Errorf("post-run hook failed: %v", err)
		}
	}

	logger.Successf("run %s: %d entries, %d migrated, %d failed, %d skipped (log: %s, ledger: %s)",
		summary.RunID, summary.Total, summary.Succeeded, summary.Failed, summary.Skipped,
		logPath, led.Path())
	return nil
}

// applyMigrateFlags overrides config values with explicitly set flags.
func applyMigrateFlags(cmd *cobra.Command, cfg *config.Config, flags *migrateFlags) {
	if cmd.Flags().Changed("log-dir") {
		cfg.Settings.LogDir = flags.logDir
	}
	if cmd.Flags().Changed("workers") {
		cfg.Settings.Workers = flags.workers
	}
	if flags.incremental {
		cfg.Settings.Incremental = true
	}
	if flags.ownership {
		cfg.Settings.Ownership = true
	}
	if flags.background {
		cfg.Settings.Background = true
	}
	if flags.debug {
		cfg.Settings.LogLevel = "debug"
	}
	if cmd.Flags().Changed("domain") {
		cfg.Settings.Domain = flags.domain
	}
	if cmd.Flags().Changed("ledger") {
		cfg.Settings.LedgerPath = flags.ledgerPath
	}
}

// checkPaths enforces the source/destination shape contract: a file source
// needs a file destination, a directory source a directory destination.
func checkPaths(source, dest string) error {
	srcInfo, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("source path %s: %w", source, err)
	}
	destInfo, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("destination path %s: %w", dest, err)
	}
	if srcInfo.IsDir() != destInfo.IsDir() {
		if srcInfo.IsDir() {
			return fmt.Errorf("directory source requires a directory destination: %s", dest)
		}
		return fmt.Errorf("file source requires a file destination: %s", dest)
	}
	return nil
}
