package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/PabloGalante/weatherchat/internal/adapters/http"
	"github.com/PabloGalante/weatherchat/internal/adapters/llm"
	"github.com/PabloGalante/weatherchat/internal/adapters/pdf"
	"github.com/PabloGalante/weatherchat/internal/adapters/storage/memory"
	"github.com/PabloGalante/weatherchat/internal/app/conversation"
	"github.com/PabloGalante/weatherchat/internal/app/sessions"
	"github.com/PabloGalante/weatherchat/internal/domain"
)

type stubWeather struct{}

func (stubWeather) Fetch(_ context.Context, location string) (string, error) {
	return location + ": 21°C, clear skies", nil
}

func newTestServer(t *testing.T, composer domain.ResponseComposer) (*echo.Echo, *sessions.Store) {
	t.Helper()

	if composer == nil {
		composer = llm.NewMockLLM()
	}
	store := sessions.NewStore(memory.NewStore())
	chat := conversation.NewService(store, stubWeather{}, composer, conversation.Options{})
	return httpadapter.NewServer(store, chat, pdf.NewExporter(time.UTC)), store
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type sessionJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Messages []struct {
		ID      string `json:"id"`
		Role    string `json:"role"`
		Content string `json:"content"`
		Liked   bool   `json:"liked"`
	} `json:"messages"`
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestCreateSessionAndSendMessage(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[sessionJSON](t, rec)
	assert.Equal(t, domain.DefaultTitle, created.Title)

	rec = do(t, srv, http.MethodPost, "/v1/sessions/"+created.ID+"/messages", `{"text":"What's the weather in Tokyo?"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sent struct {
		UserMessage      struct{ Content string } `json:"user_message"`
		AssistantMessage struct{ Content string } `json:"assistant_message"`
		ReplyKind        string                   `json:"reply_kind"`
		Location         string                   `json:"location"`
		Session          struct {
			Title        string `json:"title"`
			MessageCount int    `json:"message_count"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))
	assert.Equal(t, "What's the weather in Tokyo?", sent.UserMessage.Content)
	assert.Contains(t, sent.AssistantMessage.Content, "Tokyo: 21°C")
	assert.Equal(t, string(conversation.ReplyComposed), sent.ReplyKind)
	assert.Equal(t, "Tokyo", sent.Location)
	assert.Equal(t, 2, sent.Session.MessageCount)
	assert.Equal(t, "What's the weather in...", sent.Session.Title)

	rec = do(t, srv, http.MethodGet, "/v1/sessions/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[sessionJSON](t, rec)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[1].Role)
}

func TestListSelectDelete(t *testing.T) {
	srv, store := newTestServer(t, nil)
	ctx := context.Background()
	first := store.Create(ctx)
	second := store.Create(ctx)

	rec := do(t, srv, http.MethodGet, "/v1/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Sessions []struct {
			ID string `json:"id"`
		} `json:"sessions"`
		CurrentSessionID string `json:"current_session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Sessions, 2)
	assert.Equal(t, string(second.ID), list.Sessions[0].ID)
	assert.Equal(t, string(second.ID), list.CurrentSessionID)

	rec = do(t, srv, http.MethodPost, "/v1/sessions/"+string(first.ID)+"/select", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID, store.Current().ID)

	rec = do(t, srv, http.MethodDelete, "/v1/sessions/"+string(first.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, store.Current())

	rec = do(t, srv, http.MethodDelete, "/v1/sessions/"+string(first.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeAndDislike(t *testing.T) {
	srv, store := newTestServer(t, nil)
	ctx := context.Background()
	sess := store.Create(ctx)
	m, _, err := store.AppendMessage(ctx, sess.ID, domain.Message{Role: domain.RoleAssistant, Content: "sunny"})
	require.NoError(t, err)

	base := "/v1/sessions/" + string(sess.ID) + "/messages/" + string(m.ID)

	rec := do(t, srv, http.MethodPost, base+"/like", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var msg struct {
		Liked    bool `json:"liked"`
		Disliked bool `json:"disliked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.True(t, msg.Liked)
	assert.False(t, msg.Disliked)

	rec = do(t, srv, http.MethodPost, base+"/dislike", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.False(t, msg.Liked)
	assert.True(t, msg.Disliked)

	rec = do(t, srv, http.MethodPost, "/v1/sessions/"+string(sess.ID)+"/messages/nope/like", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport(t *testing.T) {
	srv, store := newTestServer(t, nil)
	ctx := context.Background()
	sess := store.Create(ctx)

	rec := do(t, srv, http.MethodGet, "/v1/sessions/"+string(sess.ID)+"/export", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	_, _, err := store.AppendMessage(ctx, sess.ID, domain.Message{Role: domain.RoleUser, Content: "rain in Paris"})
	require.NoError(t, err)

	rec = do(t, srv, http.MethodGet, "/v1/sessions/"+string(sess.ID)+"/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), pdf.FileName(sess))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestTheme(t *testing.T) {
	srv, store := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/v1/preferences/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())

	rec = do(t, srv, http.MethodPut, "/v1/preferences/theme", `{"theme":"Dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ThemeDark, store.Theme())

	rec = do(t, srv, http.MethodPut, "/v1/preferences/theme", `{"theme":"sepia"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type blockingComposer struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingComposer) Compose(context.Context, string, string) (string, error) {
	close(b.entered)
	<-b.release
	return "ok", nil
}

func TestSendMessageErrors(t *testing.T) {
	gate := &blockingComposer{entered: make(chan struct{}), release: make(chan struct{})}
	srv, store := newTestServer(t, gate)
	sess := store.Create(context.Background())
	path := "/v1/sessions/" + string(sess.ID) + "/messages"

	rec := do(t, srv, http.MethodPost, path, `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, path, `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/v1/sessions/missing/messages", `{"text":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	done := make(chan int, 1)
	go func() {
		done <- do(t, srv, http.MethodPost, path, `{"text":"hello"}`).Code
	}()
	<-gate.entered

	rec = do(t, srv, http.MethodPost, path, `{"text":"hello again"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(gate.release)
	assert.Equal(t, http.StatusOK, <-done)
}
