package acl

import (
	"context"
	"os"
	"regexp"
	"strings"
	"syscall"

	"github.com/glorpus-work/aclshift/pkg/errors"
	"github.com/glorpus-work/aclshift/pkg/model"
	"github.com/glorpus-work/aclshift/pkg/runner"
)

// QueryTool is the default POSIX ACL query command.
const QueryTool = "getfacl"

// entryRe matches one getfacl output line: type, optional name, rwx triple.
// Trailing "#effective:" annotations are tolerated.
var entryRe = regexp.MustCompile(`^(user|group|mask|other):([^:]*):([rwx-]+)`)

// Acquirer reads a file's POSIX ACL and ownership from the source
// filesystem via the external query tool.
type Acquirer struct {
	runner runner.Runner
	tool   string
}

// NewAcquirer creates an Acquirer. An empty tool selects the default.
func NewAcquirer(r runner.Runner, tool string) *Acquirer {
	if tool == "" {
		tool = QueryTool
	}
	return &Acquirer{runner: r, tool: tool}
}

// Acquire queries and parses the POSIX ACL of path. The owning user and
// group names come from a stat of the path, with numeric fallback when the
// uid/gid has no symbolic name. A non-zero tool exit is an acquisition
// failure, reported per file and never fatal to a run.
func (a *Acquirer) Acquire(ctx context.Context, path string) (*model.AclSet, error) {
	stdout, stderr, err := a.runner.Run(ctx, a.tool, "--absolute-names", "--omit-header", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrAcquisition, "%s %s: %v: %s", a.tool, path, err, strings.TrimSpace(stderr))
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrAcquisition, "stat %s: %v", path, err)
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, errors.Wrapf(errors.ErrAcquisition, "stat %s: no ownership info", path)
	}

	set := &model.AclSet{
		Owner:      model.Owning{Name: UserName(st.Uid)},
		GroupOwner: model.Owning{Name: GroupName(st.Gid)},
	}
	parseEntries(stdout, set)
	return set, nil
}

// parseEntries fills set from getfacl output. An empty name on a user or
// group line is the owning class, not an extended entry. Unmatched lines
// (blanks, comments) are skipped.
func parseEntries(out string, set *model.AclSet) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := entryRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		kind, name, perms := m[1], m[2], model.PermTriple(m[3])
		switch kind {
		case "user":
			if name == "" {
				set.Owner.Perms = perms
			} else {
				set.Users = append(set.Users, model.Entry{Name: name, Perms: perms})
			}
		case "group":
			if name == "" {
				set.GroupOwner.Perms = perms
			} else {
				set.Groups = append(set.Groups, model.Entry{Name: name, Perms: perms})
			}
		case "mask":
			set.Mask = perms
		case "other":
			set.Other = perms
		}
	}
}
