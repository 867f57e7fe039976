package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set(driven.ConfigResolverBaseURL, "https://api.example.com")
	require.NoError(t, err)

	val, ok := store.Get(driven.ConfigResolverBaseURL)
	assert.True(t, ok)
	assert.Equal(t, "https://api.example.com", val)
}

func TestConfigStore_GetString(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("string_key", "hello world")
	require.NoError(t, err)

	val := store.GetString("string_key")
	assert.Equal(t, "hello world", val)

	// Non-existent key
	val = store.GetString("nonexistent")
	assert.Equal(t, "", val)

	// Wrong type
	err = store.Set("int_key", 42)
	require.NoError(t, err)
	val = store.GetString("int_key")
	assert.Equal(t, "", val)
}

func TestConfigStore_GetInt(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("int_key", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, store.GetInt("int_key"))

	assert.Equal(t, 0, store.GetInt("nonexistent"))

	err = store.Set("string_key", "not a number")
	require.NoError(t, err)
	assert.Equal(t, 0, store.GetInt("string_key"))
}

func TestConfigStore_GetBool(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("verbose", true)
	require.NoError(t, err)
	assert.True(t, store.GetBool("verbose"))

	assert.False(t, store.GetBool("nonexistent"))
}

func TestConfigStore_PersistsAcrossReopen(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set(driven.ConfigCacheMaxBytes, 1024))
	require.NoError(t, store.Set(driven.ConfigVerbose, true))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 1024, reopened.GetInt(driven.ConfigCacheMaxBytes))
	assert.True(t, reopened.GetBool(driven.ConfigVerbose))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[cache]\nmax_bytes = 2048\n\n[fetch]\ntimeout_seconds = 15\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 2048, store.GetInt(driven.ConfigCacheMaxBytes))
	assert.Equal(t, 15, store.GetInt(driven.ConfigFetchTimeoutSeconds))
}

func TestConfigStore_MalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = = toml"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}
