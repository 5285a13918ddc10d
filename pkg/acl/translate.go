package acl

import (
	"fmt"

	"github.com/glorpus-work/aclshift/internal/logger"
	"github.com/glorpus-work/aclshift/pkg/model"
)

// Translator converts an acquired AclSet into NFSv4 ACE strings. Only the
// extended user and group entries are translated; the owning classes, mask
// and other are left to the destination's own mode bits.
type Translator struct {
	// Domain, when set, qualifies every principal as name@domain.
	Domain string
}

// Translate emits one "A::name:perms" ACE per extended user entry and one
// "A:g:name:perms" per extended group entry, preserving source order with
// users first. Entries with invalid principal names are dropped with a
// warning; entries whose permissions map to the empty string emit nothing
// (a POSIX no-permission entry has no NFSv4 allow representation here).
func (t *Translator) Translate(set *model.AclSet, isDir bool) []string {
	var aces []string
	aces = t.appendEntries(aces, set.Users, "", isDir)
	aces = t.appendEntries(aces, set.Groups, "g", isDir)
	return aces
}

func (t *Translator) appendEntries(aces []string, entries []model.Entry, flag string, isDir bool) []string {
	for _, e := range entries {
		if !ValidName(e.Name) {
			logger.Warnf("skipping invalid principal name: %q", e.Name)
			continue
		}
		perms := MapPerms(e.Perms, isDir)
		if perms == "" {
			continue
		}
		name := e.Name
		if t.Domain != "" {
			name = name + "@" + t.Domain
		}
		ace := fmt.Sprintf("A:%s:%s:%s", flag, name, perms)
		logger.Debugf("translated %s:%s -> %s", e.Name, e.Perms, ace)
		aces = append(aces, ace)
	}
	return aces
}
