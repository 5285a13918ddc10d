// Package model defines the shared data types of the ACL migration engine:
// acquired POSIX ACL sets, ledger records and per-path migration outcomes.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// PermTriple is a POSIX rwx permission triple as printed by getfacl,
// e.g. "rw-" or "---".
type PermTriple string

// Has reports whether the triple contains the given permission character.
func (p PermTriple) Has(c byte) bool {
	return strings.IndexByte(string(p), c) >= 0
}

// Entry is an extended (named) ACL entry for a user or group principal.
type Entry struct {
	Name  string
	Perms PermTriple
}

// Owning describes the owning user or owning group of a file together with
// its class permissions.
type Owning struct {
	Name  string
	Perms PermTriple
}

// AclSet is the full ACL state acquired for one path. Only Users and Groups
// are ever translated; the owning classes, mask and other are kept for the
// audit fingerprint.
type AclSet struct {
	Owner      Owning
	GroupOwner Owning
	Users      []Entry
	Groups     []Entry
	Mask       PermTriple
	Other      PermTriple
}

// Fingerprint returns an order-independent content hash of the set. Entries
// are sorted before hashing so two acquisitions of the same ACL state always
// produce the same digest, regardless of getfacl output order.
func (s *AclSet) Fingerprint() string {
	if s == nil {
		return ""
	}
	canon := func(entries []Entry) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Name+":"+string(e.Perms))
		}
		sort.Strings(out)
		return out
	}
	h := sha256.New()
	fmt.Fprintf(h, "owner=%s:%s\n", s.Owner.Name, s.Owner.Perms)
	fmt.Fprintf(h, "group=%s:%s\n", s.GroupOwner.Name, s.GroupOwner.Perms)
	fmt.Fprintf(h, "users=%s\n", strings.Join(canon(s.Users), ","))
	fmt.Fprintf(h, "groups=%s\n", strings.Join(canon(s.Groups), ","))
	fmt.Fprintf(h, "mask=%s\nother=%s\n", s.Mask, s.Other)
	return hex.EncodeToString(h.Sum(nil))
}

// Migration record statuses stored in the ledger.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// MigrationRecord is one ledger row, keyed by source path.
type MigrationRecord struct {
	SourcePath  string    `json:"source_path"`
	DestPath    string    `json:"dest_path"`
	Mtime       float64   `json:"mtime"`
	Fingerprint string    `json:"acl_fingerprint"`
	MigratedAt  time.Time `json:"migrated_at"`
	Status      string    `json:"status"`
}

// Outcome is the result of migrating a single path, flowing from a worker
// back to the orchestrator.
type Outcome struct {
	Path    string
	Success bool
	Skipped bool
	Detail  string
}

// Summary aggregates the outcomes of a whole run.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
}
