package cache

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *RenderCache {
	t.Helper()
	c, err := Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestKey(t *testing.T) {
	base := Key([]byte("scene"), 64, 48, 32, 42)

	assert.Len(t, base, 32)
	assert.Equal(t, base, Key([]byte("scene"), 64, 48, 32, 42), "key must be stable")

	variants := map[string][]byte{
		"fingerprint": Key([]byte("scene2"), 64, 48, 32, 42),
		"width":       Key([]byte("scene"), 65, 48, 32, 42),
		"height":      Key([]byte("scene"), 64, 49, 32, 42),
		"seed":        Key([]byte("scene"), 64, 48, 32, 43),
		"tile size":   Key([]byte("scene"), 64, 48, 16, 42),
		"swapped":     Key([]byte("scene"), 48, 64, 32, 42),
	}
	for name, k := range variants {
		assert.False(t, bytes.Equal(base, k), "changing %s must change the key", name)
	}
}

func TestRenderCache_GetPut(t *testing.T) {
	c := openTestCache(t)
	key := Key([]byte("builtin:default"), 10, 10, 32, 1)

	_, found, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, found)

	want := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	require.NoError(t, c.Put(key, want))

	got, found, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	// Overwrite
	require.NoError(t, c.Put(key, []byte("second")))
	got, _, err = c.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestRenderCache_Reopen(t *testing.T) {
	dir := t.TempDir()
	key := Key([]byte("file"), 3, 3, 32, 0)

	c, err := Open(dir, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, c.Put(key, []byte("persisted")))
	require.NoError(t, c.Close())

	c, err = Open(dir, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	got, found, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("persisted"), got)
}
