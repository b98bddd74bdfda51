package idgen

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHasTimePrefix(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	id := newAt(now)

	prefix := strconv.FormatInt(now.UnixMilli(), 36)
	require.Len(t, id, len(prefix)+suffixLen)
	assert.Equal(t, prefix, id[:len(prefix)])
}

func TestNewIsBase36(t *testing.T) {
	id := New()
	for _, r := range id {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z'), "unexpected rune %q in %s", r, id)
	}
}

func TestNewRarelyCollides(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := New()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
