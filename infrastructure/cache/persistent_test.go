package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTierRoundTrip(t *testing.T) {
	tier, err := NewFileTier(t.TempDir(), 1024)
	require.NoError(t, err)

	require.NoError(t, tier.Write("coursehub-v1-lesson-content-lessons/intro.md", []byte("data")))

	got, err := tier.Read("coursehub-v1-lesson-content-lessons/intro.md")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	keys, err := tier.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"coursehub-v1-lesson-content-lessons/intro.md"}, keys)
}

func TestFileTierReadMissing(t *testing.T) {
	tier, err := NewFileTier(t.TempDir(), 1024)
	require.NoError(t, err)

	_, err = tier.Read("absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileTierQuota(t *testing.T) {
	tier, err := NewFileTier(t.TempDir(), 10)
	require.NoError(t, err)

	require.NoError(t, tier.Write("a", []byte("12345")))
	require.NoError(t, tier.Write("b", []byte("12345")))

	err = tier.Write("c", []byte("x"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Overwriting an existing key counts its current size against the
	// quota, so a same-size rewrite fits
	assert.NoError(t, tier.Write("a", []byte("54321")))
}

func TestFileTierDeleteIdempotent(t *testing.T) {
	tier, err := NewFileTier(t.TempDir(), 1024)
	require.NoError(t, err)

	require.NoError(t, tier.Write("key", []byte("data")))
	assert.NoError(t, tier.Delete("key"))
	assert.NoError(t, tier.Delete("key"))
}
