// Package preflight verifies that the external filesystem tools the engine
// depends on are present before a run starts, optionally gating on a
// minimum tool version.
package preflight

import (
	"context"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/glorpus-work/aclshift/internal/logger"
	"github.com/glorpus-work/aclshift/pkg/errors"
	"github.com/glorpus-work/aclshift/pkg/runner"
)

// Tool describes one external command to verify.
type Tool struct {
	Name       string
	MinVersion string
}

var versionRe = regexp.MustCompile(`\d+\.\d+(?:\.\d+)*`)

// Check confirms each tool responds to --version and, when a minimum
// version is configured, that the reported version satisfies it.
func Check(ctx context.Context, r runner.Runner, tools []Tool) error {
	for _, tool := range tools {
		if err := checkOne(ctx, r, tool); err != nil {
			return err
		}
	}
	return nil
}

func checkOne(ctx context.Context, r runner.Runner, tool Tool) error {
	stdout, stderr, err := r.Run(ctx, tool.Name, "--version")
	if err != nil {
		return errors.Wrapf(errors.ErrPreflight, "%s is not available: %v: %s",
			tool.Name, err, strings.TrimSpace(stderr))
	}
	if tool.MinVersion == "" {
		return nil
	}

	raw := versionRe.FindString(stdout)
	if raw == "" {
		raw = versionRe.FindString(stderr)
	}
	if raw == "" {
		return errors.Wrapf(errors.ErrPreflight, "%s: could not determine version from %q",
			tool.Name, strings.TrimSpace(stdout))
	}
	have, err := goversion.NewVersion(raw)
	if err != nil {
		return errors.Wrapf(errors.ErrPreflight, "%s: bad version %q: %v", tool.Name, raw, err)
	}
	want, err := goversion.NewVersion(tool.MinVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrPreflight, "%s: bad minimum version %q: %v",
			tool.Name, tool.MinVersion, err)
	}
	if have.LessThan(want) {
		return errors.Wrapf(errors.ErrPreflight, "%s version %s is older than required %s",
			tool.Name, have, want)
	}
	logger.Debugf("preflight: %s %s ok", tool.Name, have)
	return nil
}
