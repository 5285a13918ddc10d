package apply

import (
	"context"
	"os"
	"strings"
	"syscall"

	"github.com/glorpus-work/aclshift/internal/logger"
	"github.com/glorpus-work/aclshift/pkg/acl"
	"github.com/glorpus-work/aclshift/pkg/errors"
	"github.com/glorpus-work/aclshift/pkg/runner"
)

// ChownTool is the default ownership-change command.
const ChownTool = "chown"

// OwnershipMigrator copies the owning user and group of a source file to
// its destination counterpart.
type OwnershipMigrator struct {
	runner runner.Runner
	tool   string
}

// NewOwnershipMigrator creates an OwnershipMigrator. An empty tool selects
// the default.
func NewOwnershipMigrator(r runner.Runner, tool string) *OwnershipMigrator {
	if tool == "" {
		tool = ChownTool
	}
	return &OwnershipMigrator{runner: r, tool: tool}
}

// Migrate makes the destination's uid/gid match the source's. When both
// already match this is a success with no external call. Otherwise the
// source uid/gid are resolved to names (numeric fallback) and applied with
// owner:group syntax.
func (m *OwnershipMigrator) Migrate(ctx context.Context, srcPath, destPath string) error {
	srcStat, err := statOwnership(srcPath)
	if err != nil {
		return errors.Wrapf(errors.ErrOwnership, "stat %s: %v", srcPath, err)
	}
	destStat, err := statOwnership(destPath)
	if err != nil {
		return errors.Wrapf(errors.ErrOwnership, "stat %s: %v", destPath, err)
	}
	if srcStat.Uid == destStat.Uid && srcStat.Gid == destStat.Gid {
		logger.Debugf("ownership already matches on %s", destPath)
		return nil
	}

	owner := acl.UserName(srcStat.Uid) + ":" + acl.GroupName(srcStat.Gid)
	logger.Debugf("setting ownership %s on %s", owner, destPath)
	_, stderr, err := m.runner.Run(ctx, m.tool, owner, destPath)
	if err != nil {
		return errors.Wrapf(errors.ErrOwnership, "%s %s %s: %v: %s",
			m.tool, owner, destPath, err, strings.TrimSpace(stderr))
	}
	return nil
}

func statOwnership(path string) (*syscall.Stat_t, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, errors.Wrapf(errors.ErrStat, "%s: no ownership info", path)
	}
	return st, nil
}
