// Package acl implements the POSIX-to-NFSv4 ACL translation: acquiring a
// file's POSIX ACL through getfacl, mapping permission triples, and
// generating validated NFSv4 ACE strings.
package acl

import (
	"regexp"

	"github.com/glorpus-work/aclshift/pkg/model"
)

// MapPerms maps a POSIX rwx triple to its NFSv4 permission string by testing
// r, w and x membership independently and concatenating the present ones in
// that fixed order. "---" maps to the empty string, which callers treat as
// "no entry to emit" rather than an entry with zero permissions.
//
// isDir is accepted for future directory-specific bits (traverse, add-file)
// but the mapping is currently identical for files and directories.
func MapPerms(perms model.PermTriple, isDir bool) string {
	_ = isDir
	out := ""
	if perms.Has('r') {
		out += "r"
	}
	if perms.Has('w') {
		out += "w"
	}
	if perms.Has('x') {
		out += "x"
	}
	return out
}

var (
	nameRe    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	allDigits = regexp.MustCompile(`^[0-9]+$`)
)

// ValidName reports whether a principal name can be carried into an NFSv4
// ACE: non-empty, not purely numeric (an unresolved uid/gid), and composed
// only of letters, digits, underscore and dash.
func ValidName(name string) bool {
	if name == "" || allDigits.MatchString(name) {
		return false
	}
	return nameRe.MatchString(name)
}
