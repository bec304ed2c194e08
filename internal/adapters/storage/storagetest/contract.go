// Package storagetest holds the behaviour every KVStore backend must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/weatherchat/internal/domain"
)

// Run exercises kv against the KVStore contract.
func Run(t *testing.T, kv domain.KVStore) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "theme", "dark"))
	got, err := kv.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got)

	require.NoError(t, kv.Set(ctx, "theme", "light"))
	got, err = kv.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", got)

	blob := `[{"id":"1","title":"New Weather Chat","messages":[]}]`
	require.NoError(t, kv.Set(ctx, "chatSessions", blob))
	got, err = kv.Get(ctx, "chatSessions")
	require.NoError(t, err)
	assert.JSONEq(t, blob, got)
}
