package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/weatherchat/internal/domain"
)

func newGeminiServer(t *testing.T, status int, body string, seen *generateRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(raw, seen))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiComposeReturnsFirstCandidate(t *testing.T) {
	var seen generateRequest
	srv := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"It is 18°C in Tokyo."}]}},{"content":{"parts":[{"text":"ignored"}]}}]}`,
		&seen)

	c := NewGeminiClient(srv.URL, "test-key", "gemini-test", 5*time.Second)
	reply, err := c.Compose(context.Background(), "weather in Tokyo?", "Tokyo 18C")
	require.NoError(t, err)

	assert.Equal(t, "It is 18°C in Tokyo.", reply)
	require.Len(t, seen.Contents, 1)
	require.Len(t, seen.Contents[0].Parts, 1)
	assert.Contains(t, seen.Contents[0].Parts[0].Text, `The user asked: "weather in Tokyo?"`)
	assert.Contains(t, seen.Contents[0].Parts[0].Text, "Weather data from API: Tokyo 18C")
	assert.Equal(t, 40, seen.GenerationConfig.TopK)
	assert.Equal(t, 1024, seen.GenerationConfig.MaxOutputTokens)
}

func TestGeminiComposeNoCandidate(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, `{"candidates":[]}`, nil)

	c := NewGeminiClient(srv.URL, "test-key", "gemini-test", 5*time.Second)
	reply, err := c.Compose(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, NoCandidateReply, reply)
}

func TestGeminiComposeAPIError(t *testing.T) {
	srv := newGeminiServer(t, http.StatusForbidden, `{"error":{"message":"bad key"}}`, nil)

	c := NewGeminiClient(srv.URL, "test-key", "gemini-test", 5*time.Second)
	_, err := c.Compose(context.Background(), "hello", "")

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "bad key")
}

func TestGeminiComposeMissingKey(t *testing.T) {
	c := NewGeminiClient("http://127.0.0.1:0", "", "gemini-test", time.Second)
	_, err := c.Compose(context.Background(), "hello", "")

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestGeminiComposeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewGeminiClient(url, "test-key", "gemini-test", time.Second)
	_, err := c.Compose(context.Background(), "hello", "")

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestGenAIComposeMissingCredentials(t *testing.T) {
	c := NewGenAIClient(GenAIConfig{})
	_, err := c.Compose(context.Background(), "hello", "")

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
