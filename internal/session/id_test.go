package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewIDShape tests the prefix, separator, and length of generated ids
func TestNewIDShape(t *testing.T) {
	id := newID("ses", 16)

	require.True(t, strings.HasPrefix(id, "ses_"))
	assert.Len(t, id, len("ses_")+16)

	for _, c := range id[len("ses_"):] {
		assert.Contains(t, base62Alphabet, string(c))
	}
}

// TestNewIDUniqueness tests that ids do not collide in practice
func TestNewIDUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := newID("ses", 16)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
