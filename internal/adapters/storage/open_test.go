package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/weatherchat/internal/adapters/storage/file"
	"github.com/PabloGalante/weatherchat/internal/adapters/storage/memory"
	"github.com/PabloGalante/weatherchat/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/weatherchat/internal/config"
)

func TestOpenLocalBackends(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := Open(ctx, config.StorageConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, kv)

	kv, err = Open(ctx, config.StorageConfig{Backend: "file", Path: filepath.Join(dir, "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, kv)

	kv, err = Open(ctx, config.StorageConfig{Backend: "sqlite", Path: filepath.Join(dir, "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, kv)
	require.NoError(t, kv.Close())

	_, err = Open(ctx, config.StorageConfig{Backend: "floppy"})
	assert.Error(t, err)
}
