package acl

import (
	"os/user"
	"strconv"
)

// UserName resolves a uid to its symbolic name, falling back to the numeric
// string when the lookup fails. Lookup failure is never an error.
func UserName(uid uint32) string {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return strconv.FormatUint(uint64(uid), 10)
	}
	return u.Username
}

// GroupName resolves a gid to its symbolic name, falling back to the numeric
// string when the lookup fails.
func GroupName(gid uint32) string {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return strconv.FormatUint(uint64(gid), 10)
	}
	return g.Name
}
