package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/weatherchat/internal/adapters/storage/storagetest"
	"github.com/PabloGalante/weatherchat/internal/domain"
)

func TestStoreContract(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "weatherchat.json"))
	require.NoError(t, err)
	storagetest.Run(t, s)
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weatherchat.json")

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "theme", "dark"))

	reopened, err := NewStore(path)
	require.NoError(t, err)
	v, err := reopened.Get(context.Background(), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
}

func TestStoreStartsEmptyOnCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "weatherchat.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"chatSessions": [1,2`), 0o600))

	s, err := NewStore(path)
	require.NoError(t, err)

	_, err = s.Get(ctx, "chatSessions")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	assert.FileExists(t, path+".corrupt")

	require.NoError(t, s.Set(ctx, "theme", "dark"))
	reopened, err := NewStore(path)
	require.NoError(t, err)
	v, err := reopened.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
}
