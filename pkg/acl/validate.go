package acl

import "regexp"

// aceRe is the structural shape of an NFSv4 ACE as accepted by nfs4_setfacl:
// type, optional flag, principal, permissions. The permission class is the
// full NFSv4 alphabet, wider than what Translate emits, so hand-authored
// entries pass too.
var aceRe = regexp.MustCompile(`^[AD]:[fg]?:[^:]*:[rwaDxtTnNcy]*$`)

// ValidateAce reports whether a generated ACE string is structurally valid.
// A failure here is a programming-contract violation, not a recoverable
// per-entry condition.
func ValidateAce(ace string) bool {
	return aceRe.MatchString(ace)
}
