// Package apply mutates the destination filesystem: additive NFSv4 ACE
// application through nfs4_setfacl and ownership sync through chown.
package apply

import (
	"context"
	"strings"

	"github.com/glorpus-work/aclshift/internal/logger"
	"github.com/glorpus-work/aclshift/pkg/acl"
	"github.com/glorpus-work/aclshift/pkg/errors"
	"github.com/glorpus-work/aclshift/pkg/runner"
)

// MutateTool is the default NFSv4 ACL mutation command.
const MutateTool = "nfs4_setfacl"

// Applier applies generated ACEs to destination files.
type Applier struct {
	runner runner.Runner
	tool   string
}

// NewApplier creates an Applier. An empty tool selects the default.
func NewApplier(r runner.Runner, tool string) *Applier {
	if tool == "" {
		tool = MutateTool
	}
	return &Applier{runner: r, tool: tool}
}

// Apply validates the whole entry list, then applies each entry in order in
// additive mode (existing destination entries are never cleared). The first
// failing invocation stops the rest; entries already applied stay applied.
// An empty list is a no-op success.
func (a *Applier) Apply(ctx context.Context, destPath string, aces []string) error {
	if len(aces) == 0 {
		return nil
	}
	for _, ace := range aces {
		if !acl.ValidateAce(ace) {
			return errors.Wrapf(errors.ErrValidation, "entry %q for %s", ace, destPath)
		}
	}
	for _, ace := range aces {
		logger.Debugf("applying %s to %s", ace, destPath)
		_, stderr, err := a.runner.Run(ctx, a.tool, "-a", ace, destPath)
		if err != nil {
			logger.Errorf("failed to apply entry %q to %s: %s", ace, destPath, strings.TrimSpace(stderr))
			return errors.Wrapf(errors.ErrApply, "entry %q on %s: %v", ace, destPath, err)
		}
	}
	return nil
}
