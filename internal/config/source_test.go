package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	mtime := time.Unix(1700000000, 42)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	token, err := StatSource(path)
	require.NoError(t, err)

	assert.Equal(t, int64(3), token.Size)
	assert.Equal(t, mtime.UnixNano(), token.ModTime)
	assert.Equal(t, "1700000000000000042-3", token.String())
	assert.False(t, token.IsZero())
}

func TestStatSource_ChangesWithContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))
	mtime := time.Unix(1700000000, 0)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	before, err := StatSource(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("abcdef"), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	after, err := StatSource(path)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestStatSource_Missing(t *testing.T) {
	t.Parallel()

	_, err := StatSource(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, SourceToken{}.IsZero())
}
