package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/weatherchat/internal/adapters/storage/storagetest"
)

// Needs a live server: WEATHERCHAT_TEST_REDIS_URL=redis://localhost:6379/15
func TestStoreContract(t *testing.T) {
	url := os.Getenv("WEATHERCHAT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("WEATHERCHAT_TEST_REDIS_URL not set")
	}

	s, err := NewStore(context.Background(), url, "weatherchat-test:"+uuid.NewString()+":")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	storagetest.Run(t, s)
}
