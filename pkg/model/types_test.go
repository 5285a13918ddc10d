package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermTripleHas(t *testing.T) {
	p := PermTriple("rw-")
	assert.True(t, p.Has('r'))
	assert.True(t, p.Has('w'))
	assert.False(t, p.Has('x'))
	assert.False(t, PermTriple("---").Has('r'))
}

func TestFingerprint(t *testing.T) {
	base := &AclSet{
		Owner:      Owning{Name: "root", Perms: "rwx"},
		GroupOwner: Owning{Name: "wheel", Perms: "r-x"},
		Users: []Entry{
			{Name: "mary", Perms: "rwx"},
			{Name: "peter", Perms: "r--"},
		},
		Groups: []Entry{{Name: "dev1", Perms: "rw-"}},
		Mask:   "rwx",
		Other:  "---",
	}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, base.Fingerprint(), base.Fingerprint())
	})

	t.Run("order independent", func(t *testing.T) {
		reordered := *base
		reordered.Users = []Entry{
			{Name: "peter", Perms: "r--"},
			{Name: "mary", Perms: "rwx"},
		}
		assert.Equal(t, base.Fingerprint(), reordered.Fingerprint())
	})

	t.Run("content sensitive", func(t *testing.T) {
		changed := *base
		changed.Users = []Entry{
			{Name: "mary", Perms: "rw-"},
			{Name: "peter", Perms: "r--"},
		}
		assert.NotEqual(t, base.Fingerprint(), changed.Fingerprint())
	})

	t.Run("nil set", func(t *testing.T) {
		var s *AclSet
		assert.Empty(t, s.Fingerprint())
	})
}
