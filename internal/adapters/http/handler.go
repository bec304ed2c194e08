// Package httpadapter exposes the session store and the conversation
// orchestrator as a JSON API.
package httpadapter

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/PabloGalante/weatherchat/internal/adapters/pdf"
	"github.com/PabloGalante/weatherchat/internal/app/conversation"
	"github.com/PabloGalante/weatherchat/internal/app/sessions"
	"github.com/PabloGalante/weatherchat/internal/domain"
	"github.com/PabloGalante/weatherchat/internal/observability"
)

type Server struct {
	store    *sessions.Store
	chat     *conversation.Service
	exporter *pdf.Exporter
}

// NewServer builds the echo instance with middleware and routes registered.
func NewServer(store *sessions.Store, chat *conversation.Service, exporter *pdf.Exporter) *echo.Echo {
	s := &Server{store: store, chat: chat, exporter: exporter}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(withRequestID)
	e.Use(withAccessLog())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	s.RegisterRoutes(e)
	return e
}

// RegisterRoutes registers the API routes with the echo server.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", s.Health)

	v1 := e.Group("/v1")
	v1.GET("/sessions", s.ListSessions)
	v1.POST("/sessions", s.CreateSession)
	v1.GET("/sessions/:id", s.GetSession)
	v1.DELETE("/sessions/:id", s.DeleteSession)
	v1.POST("/sessions/:id/select", s.SelectSession)
	v1.POST("/sessions/:id/messages", s.SendMessage)
	v1.POST("/sessions/:id/messages/:message_id/like", s.LikeMessage)
	v1.POST("/sessions/:id/messages/:message_id/dislike", s.DislikeMessage)
	v1.GET("/sessions/:id/export", s.ExportSession)

	v1.GET("/preferences/theme", s.GetTheme)
	v1.PUT("/preferences/theme", s.SetTheme)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type sessionSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type listSessionsResponse struct {
	Sessions         []sessionSummary `json:"sessions"`
	CurrentSessionID string           `json:"current_session_id,omitempty"`
}

type sessionResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	Messages  []messageResponse `json:"messages"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Liked     bool      `json:"liked"`
	Disliked  bool      `json:"disliked"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage      messageResponse `json:"user_message"`
	AssistantMessage messageResponse `json:"assistant_message"`
	ReplyKind        string          `json:"reply_kind"`
	Location         string          `json:"location,omitempty"`
	Session          sessionSummary  `json:"session"`
}

type themeBody struct {
	Theme string `json:"theme"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GET /v1/sessions
func (s *Server) ListSessions(c echo.Context) error {
	list := s.store.List()
	resp := listSessionsResponse{Sessions: make([]sessionSummary, 0, len(list))}
	for _, sess := range list {
		resp.Sessions = append(resp.Sessions, toSessionSummary(sess))
	}
	if cur := s.store.Current(); cur != nil {
		resp.CurrentSessionID = string(cur.ID)
	}
	return c.JSON(http.StatusOK, resp)
}

// POST /v1/sessions
func (s *Server) CreateSession(c echo.Context) error {
	sess := s.store.Create(c.Request().Context())
	return c.JSON(http.StatusCreated, toSessionResponse(sess))
}

// GET /v1/sessions/:id
func (s *Server) GetSession(c echo.Context) error {
	sess, err := s.store.Get(sessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// DELETE /v1/sessions/:id
func (s *Server) DeleteSession(c echo.Context) error {
	if err := s.store.Delete(c.Request().Context(), sessionID(c)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /v1/sessions/:id/select
func (s *Server) SelectSession(c echo.Context) error {
	sess, err := s.store.Select(c.Request().Context(), sessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// POST /v1/sessions/:id/messages
func (s *Server) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid JSON body"))
	}

	res, err := s.chat.HandleTurn(c.Request().Context(), sessionID(c), req.Text)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, sendMessageResponse{
		UserMessage:      toMessageResponse(res.UserMessage),
		AssistantMessage: toMessageResponse(res.AssistantMessage),
		ReplyKind:        string(res.Kind),
		Location:         res.Location,
		Session:          toSessionSummary(res.Session),
	})
}

// POST /v1/sessions/:id/messages/:message_id/like
func (s *Server) LikeMessage(c echo.Context) error {
	return s.rate(c, s.store.ToggleLike)
}

// POST /v1/sessions/:id/messages/:message_id/dislike
func (s *Server) DislikeMessage(c echo.Context) error {
	return s.rate(c, s.store.ToggleDislike)
}

type rateFunc func(ctx context.Context, id domain.SessionID, msgID domain.MessageID) (*domain.Session, error)

func (s *Server) rate(c echo.Context, toggle rateFunc) error {
	msgID := domain.MessageID(c.Param("message_id"))
	sess, err := toggle(c.Request().Context(), sessionID(c), msgID)
	if err != nil {
		return writeError(c, err)
	}
	for _, m := range sess.Messages {
		if m.ID == msgID {
			return c.JSON(http.StatusOK, toMessageResponse(m))
		}
	}
	return writeError(c, sessions.ErrMessageNotFound)
}

// GET /v1/sessions/:id/export
func (s *Server) ExportSession(c echo.Context) error {
	sess, err := s.store.Get(sessionID(c))
	if err != nil {
		return writeError(c, err)
	}

	var buf bytes.Buffer
	if err := s.exporter.Write(&buf, sess); err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+pdf.FileName(sess)+`"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

// GET /v1/preferences/theme
func (s *Server) GetTheme(c echo.Context) error {
	return c.JSON(http.StatusOK, themeBody{Theme: string(s.store.Theme())})
}

// PUT /v1/preferences/theme
func (s *Server) SetTheme(c echo.Context) error {
	var req themeBody
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid JSON body"))
	}

	theme := domain.Theme(strings.ToLower(strings.TrimSpace(req.Theme)))
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		return c.JSON(http.StatusBadRequest, errorBody("theme must be light or dark"))
	}

	s.store.SetTheme(c.Request().Context(), theme)
	return c.JSON(http.StatusOK, themeBody{Theme: string(theme)})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func sessionID(c echo.Context) domain.SessionID {
	return domain.SessionID(c.Param("id"))
}

func toSessionSummary(s *domain.Session) sessionSummary {
	return sessionSummary{
		ID:           string(s.ID),
		Title:        s.Title,
		MessageCount: len(s.Messages),
		CreatedAt:    s.CreatedAt,
	}
}

func toSessionResponse(s *domain.Session) sessionResponse {
	msgs := make([]messageResponse, 0, len(s.Messages))
	for _, m := range s.Messages {
		msgs = append(msgs, toMessageResponse(m))
	}
	return sessionResponse{
		ID:        string(s.ID),
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		Messages:  msgs,
	}
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		Role:      string(m.Role),
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Liked:     m.IsLiked(),
		Disliked:  m.IsDisliked(),
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps application errors to status codes.
func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(c.Request().Context()).Error("request failed",
			"path", c.Path(),
			"error", err,
		)
		return c.JSON(status, errorBody("internal server error"))
	}
	return c.JSON(status, errorBody(err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, sessions.ErrSessionNotFound), errors.Is(err, sessions.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, conversation.ErrTurnInProgress):
		return http.StatusConflict
	case errors.Is(err, pdf.ErrEmptySession):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
