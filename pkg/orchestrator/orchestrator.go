// Package orchestrator drives a migration run: it enumerates the source
// tree, fans per-path migration work across a bounded worker pool and
// aggregates outcomes. Per-path failures are isolated; one file's failure
// never halts the walk.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/glorpus-work/aclshift/internal/logger"
	"github.com/glorpus-work/aclshift/pkg/errors"
	"github.com/glorpus-work/aclshift/pkg/model"
)

// Orchestrator ties the acquirer, translator, applier, ownership migrator
// and ledger together for one migration run.
type Orchestrator struct {
	Acquirer   AclAcquirer
	Translator AceTranslator
	Applier    AclApplier
	Ownership  OwnershipMigrator
	Ledger     Ledger
	Opts       Options

	sourceRoot string
	destRoot   string
	singleFile bool
}

// New constructs an Orchestrator from existing components. Helper for wiring.
func New(acq AclAcquirer, tr AceTranslator, ap AclApplier, own OwnershipMigrator, led Ledger, opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Orchestrator{
		Acquirer:   acq,
		Translator: tr,
		Applier:    ap,
		Ownership:  own,
		Ledger:     led,
		Opts:       opts,
	}
}

// Run migrates source to dest and returns the aggregated summary. With a
// file source, dest is the explicit destination file; with a directory
// source, destinations are dest joined with each path's source-relative
// part. Cancelling ctx stops scheduling of not-yet-started paths; paths
// already in flight are allowed to finish, and the run then reports
// ErrInterrupted alongside the partial summary so an interrupted run is
// never mistaken for a complete one.
func (o *Orchestrator) Run(ctx context.Context, source, dest string) (*model.Summary, error) {
	var err error
	if o.sourceRoot, err = filepath.Abs(source); err != nil {
		return nil, fmt.Errorf("resolve source %s: %w", source, err)
	}
	if o.destRoot, err = filepath.Abs(dest); err != nil {
		return nil, fmt.Errorf("resolve dest %s: %w", dest, err)
	}
	fi, err := os.Stat(o.sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", o.sourceRoot, err)
	}
	o.singleFile = !fi.IsDir()

	var paths []string
	if o.singleFile {
		logger.Infof("single file mode: %s", o.sourceRoot)
		paths = []string{o.sourceRoot}
	} else {
		logger.Infof("scanning source tree: %s", o.sourceRoot)
		if paths, err = scanTree(o.sourceRoot); err != nil {
			return nil, fmt.Errorf("scan %s: %w", o.sourceRoot, err)
		}
	}

	runID := o.Opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	summary := &model.Summary{
		RunID: runID,
		Total: len(paths),
	}
	logger.Info("starting migration run", logger.Fields{
		"run_id":      summary.RunID,
		"source":      o.sourceRoot,
		"dest":        o.destRoot,
		"entries":     summary.Total,
		"workers":     o.Opts.Workers,
		"incremental": o.Opts.Incremental,
		"ownership":   o.Opts.Ownership,
	})

	results := o.runWorkers(ctx, paths)
	for out := range results {
		switch {
		case out.Skipped:
			summary.Skipped++
			logger.Debugf("skipped: %s", out.Path)
		case out.Success:
			summary.Succeeded++
			logger.Infof("migrated: %s - %s", out.Path, out.Detail)
		default:
			summary.Failed++
			logger.Errorf("failed: %s - %s", out.Path, out.Detail)
		}
	}

	logger.Info("migration run finished", logger.Fields{
		"run_id":    summary.RunID,
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
	})
	if ctx.Err() != nil {
		processed := summary.Succeeded + summary.Failed + summary.Skipped
		return summary, errors.Wrapf(errors.ErrInterrupted,
			"%d of %d entries processed", processed, summary.Total)
	}
	return summary, nil
}

// runWorkers feeds the enumerated paths to a fixed pool. Outcomes arrive in
// completion order, not submission order.
func (o *Orchestrator) runWorkers(ctx context.Context, paths []string) <-chan model.Outcome {
	tasks := make(chan string)
	results := make(chan model.Outcome)

	var wg sync.WaitGroup
	for w := 0; w < o.Opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range tasks {
				results <- o.migrateOne(ctx, path)
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, path := range paths {
			if ctx.Err() != nil {
				logger.Warnf("interrupted, not scheduling remaining entries")
				return
			}
			select {
			case tasks <- path:
			case <-ctx.Done():
				logger.Warnf("interrupted, not scheduling remaining entries")
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// migrateOne runs the per-path workflow: destination pre-check, skip check,
// ownership and ACL steps (independent), ledger record. A panic is
// converted into a failed outcome so it can never abort the run.
func (o *Orchestrator) migrateOne(ctx context.Context, path string) (out model.Outcome) {
	out.Path = path
	defer func() {
		if r := recover(); r != nil {
			out = model.Outcome{Path: path, Detail: fmt.Sprintf("panic: %v", r)}
		}
	}()

	dest, err := o.destFor(path)
	if err != nil {
		out.Detail = err.Error()
		return out
	}
	if _, err := os.Stat(dest); err != nil {
		out.Detail = errors.Wrapf(errors.ErrDestinationMissing, "%s", dest).Error()
		return out
	}

	srcInfo, err := os.Stat(path)
	if err != nil {
		out.Detail = fmt.Sprintf("stat source: %v", err)
		return out
	}
	mtime := float64(srcInfo.ModTime().UnixNano()) / 1e9

	if o.Opts.Incremental {
		done, err := o.Ledger.AlreadyMigrated(path, mtime)
		if err != nil {
			out.Detail = err.Error()
			return out
		}
		if done {
			out.Success = true
			out.Skipped = true
			out.Detail = "already migrated"
			return out
		}
	}

	ownershipOK := true
	if o.Opts.Ownership {
		if err := o.Ownership.Migrate(ctx, path, dest); err != nil {
			logger.Errorf("ownership migration failed for %s: %v", dest, err)
			ownershipOK = false
		}
	}

	aclOK := true
	aclCount := 0
	fingerprint := ""
	set, err := o.Acquirer.Acquire(ctx, path)
	if err != nil {
		logger.Errorf("acquisition failed for %s: %v", path, err)
		aclOK = false
	} else {
		fingerprint = set.Fingerprint()
		aces := o.Translator.Translate(set, srcInfo.IsDir())
		aclCount = len(aces)
		if err := o.Applier.Apply(ctx, dest, aces); err != nil {
			logger.Errorf("ACL apply failed for %s: %v", dest, err)
			aclOK = false
		}
	}

	out.Success = ownershipOK && aclOK
	status := model.StatusFailed
	if out.Success {
		status = model.StatusSuccess
	}
	if err := o.Ledger.Record(model.MigrationRecord{
		SourcePath:  path,
		DestPath:    dest,
		Mtime:       mtime,
		Fingerprint: fingerprint,
		Status:      status,
	}); err != nil {
		out.Success = false
		out.Detail = err.Error()
		return out
	}

	out.Detail = describe(o.Opts.Ownership, ownershipOK, aclOK, aclCount)
	return out
}

// destFor computes the destination path. Single-file mode uses the explicit
// destination; directory mode joins the source-relative path onto the
// destination root.
func (o *Orchestrator) destFor(path string) (string, error) {
	if o.singleFile {
		return o.destRoot, nil
	}
	rel, err := filepath.Rel(o.sourceRoot, path)
	if err != nil {
		return "", fmt.Errorf("relative path for %s: %w", path, err)
	}
	return filepath.Join(o.destRoot, rel), nil
}

// describe builds the outcome detail, naming each attempted component and,
// on failure, only the components that failed.
func describe(ownershipEnabled, ownershipOK, aclOK bool, aclCount int) string {
	if ownershipOK && aclOK {
		var done []string
		if ownershipEnabled {
			done = append(done, "ownership")
		}
		if aclCount > 0 {
			done = append(done, fmt.Sprintf("%d ACL entries", aclCount))
		}
		if len(done) == 0 {
			return "nothing to migrate"
		}
		return "migrated: " + strings.Join(done, ", ")
	}
	var failed []string
	if ownershipEnabled && !ownershipOK {
		failed = append(failed, "ownership")
	}
	if !aclOK {
		failed = append(failed, "ACL")
	}
	return "migration failed: " + strings.Join(failed, ", ")
}
