package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportedTags_LexicalOrder(t *testing.T) {
	tags := SupportedTags()
	assert.True(t, sort.StringsAreSorted(tags), "tag tie-break order must be lexical")
	assert.NotContains(t, tags, TagDefault, "default tag is a fallback, not a candidate")
}

func TestIdentity_IsAdmin(t *testing.T) {
	tests := []struct {
		name string
		role string
		want bool
	}{
		{"admin role", RoleAdmin, true},
		{"user role", RoleUser, false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Identity{Role: tt.role}
			assert.Equal(t, tt.want, id.IsAdmin())
		})
	}
}
