package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/refactorkit/refactorkit/cache"
	"github.com/stretchr/testify/require"
)

func TestGetPutRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	c, err := cache.New(8)
	require.NoError(t, err)

	_, ok := c.Get(path)
	require.False(t, ok)

	c.Put(path, "cached-value")
	v, ok := c.Get(path)
	require.True(t, ok)
	require.Equal(t, "cached-value", v)
}

func TestInvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	c, err := cache.New(8)
	require.NoError(t, err)
	c.Put(path, "first")

	require.NoError(t, os.WriteFile(path, []byte("x = 2\nmore\n"), 0o644))
	_, ok := c.Get(path)
	require.False(t, ok)
}
