package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAce(t *testing.T) {
	tests := []struct {
		ace   string
		valid bool
	}{
		{"A::peter:rwx", true},
		{"A:g:dev1@example.com:rw", true},
		{"A:f:peter:rwx", true},
		{"D::peter:rwaDxtTnNcy", true},
		{"A::peter:", true}, // empty permission set is structurally legal
		{"X::peter:rwx", false},
		{"A:x:peter:rwx", false},
		{"A::peter:rwz", false},
		{"peter:rwx", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.ace, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateAce(tt.ace))
		})
	}
}
