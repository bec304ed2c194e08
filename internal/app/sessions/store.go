// Package sessions owns the chat session collection: creation, selection,
// deletion, message updates and the theme preference. Every mutation is
// written through to a domain.KVStore before the lock is released.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/weatherchat/internal/domain"
	"github.com/PabloGalante/weatherchat/internal/observability"
)

// Storage keys.
const (
	KeySessions = "chatSessions"
	KeyTheme    = "theme"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMessageNotFound = errors.New("message not found")
)

type Store struct {
	mu       sync.Mutex
	kv       domain.KVStore
	now      func() time.Time
	sessions []*domain.Session // newest first
	current  domain.SessionID
	theme    domain.Theme
}

func NewStore(kv domain.KVStore) *Store {
	return &Store{
		kv:    kv,
		now:   time.Now,
		theme: domain.ThemeLight,
	}
}

// Load replaces the in-memory state with what the KVStore holds. Missing or
// malformed data leaves an empty collection; it never fails startup.
func (s *Store) Load(ctx context.Context) {
	log := observability.LoggerFromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	s.current = ""

	if v, err := s.kv.Get(ctx, KeyTheme); err == nil {
		s.theme = domain.ParseTheme(v)
	} else if !errors.Is(err, domain.ErrKeyNotFound) {
		log.Warn("failed to load theme", "error", err)
	}

	raw, err := s.kv.Get(ctx, KeySessions)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			log.Error("failed to load sessions", "error", err)
		}
		return
	}

	sessions, err := decodeSessions(raw)
	if err != nil {
		log.Error("ignoring malformed stored sessions", "error", err)
		return
	}

	s.sessions = sessions
	log.Info("sessions loaded", "count", len(sessions))
}

// Create adds an empty session at the head of the collection and selects it.
func (s *Store) Create(ctx context.Context) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &domain.Session{
		ID:        domain.SessionID(uuid.NewString()),
		Title:     domain.DefaultTitle,
		Messages:  []domain.Message{},
		CreatedAt: domain.StorageTime(s.now()),
	}

	s.sessions = append([]*domain.Session{sess}, s.sessions...)
	s.current = sess.ID
	s.persist(ctx)

	observability.LoggerFromContext(ctx).Info("session created", "session_id", sess.ID)
	return sess.Clone()
}

// Select makes id the current session.
func (s *Store) Select(_ context.Context, id domain.SessionID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _ := s.find(id)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	s.current = id
	return sess.Clone(), nil
}

// Delete removes the session; deleting the current one clears the selection.
func (s *Store) Delete(ctx context.Context, id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx := s.find(id)
	if idx < 0 {
		return ErrSessionNotFound
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if s.current == id {
		s.current = ""
	}
	s.persist(ctx)

	observability.LoggerFromContext(ctx).Info("session deleted", "session_id", id)
	return nil
}

// Update replaces the messages of a session and recomputes its title.
func (s *Store) Update(ctx context.Context, id domain.SessionID, messages []domain.Message) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _ := s.find(id)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	sess.Messages = append([]domain.Message(nil), messages...)
	if sess.Messages == nil {
		sess.Messages = []domain.Message{}
	}
	sess.Title = domain.TitleFor(sess.Messages)
	s.persist(ctx)

	return sess.Clone(), nil
}

// AppendMessage stamps msg with an id and timestamp when missing and adds it
// to the end of the session.
func (s *Store) AppendMessage(ctx context.Context, id domain.SessionID, msg domain.Message) (domain.Message, *domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _ := s.find(id)
	if sess == nil {
		return domain.Message{}, nil, ErrSessionNotFound
	}

	if msg.ID == "" {
		msg.ID = domain.MessageID(uuid.NewString())
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	msg.Timestamp = domain.StorageTime(msg.Timestamp)

	sess.Messages = append(sess.Messages, msg)
	sess.Title = domain.TitleFor(sess.Messages)
	s.persist(ctx)

	return msg, sess.Clone(), nil
}

// ToggleLike flips the like flag of a message, clearing any dislike.
func (s *Store) ToggleLike(ctx context.Context, id domain.SessionID, msgID domain.MessageID) (*domain.Session, error) {
	return s.rate(ctx, id, msgID, (*domain.Message).ToggleLike)
}

// ToggleDislike flips the dislike flag of a message, clearing any like.
func (s *Store) ToggleDislike(ctx context.Context, id domain.SessionID, msgID domain.MessageID) (*domain.Session, error) {
	return s.rate(ctx, id, msgID, (*domain.Message).ToggleDislike)
}

func (s *Store) rate(ctx context.Context, id domain.SessionID, msgID domain.MessageID, toggle func(*domain.Message)) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _ := s.find(id)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	for i := range sess.Messages {
		if sess.Messages[i].ID == msgID {
			toggle(&sess.Messages[i])
			s.persist(ctx)
			return sess.Clone(), nil
		}
	}
	return nil, ErrMessageNotFound
}

// Get returns a copy of one session.
func (s *Store) Get(id domain.SessionID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _ := s.find(id)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// List returns copies of all sessions, newest first.
func (s *Store) List() []*domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Clone())
	}
	return out
}

// Current returns the selected session, or nil when nothing is selected.
func (s *Store) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		return nil
	}
	sess, _ := s.find(s.current)
	return sess.Clone()
}

func (s *Store) Theme() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Store) SetTheme(ctx context.Context, theme domain.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = theme
	if err := s.kv.Set(ctx, KeyTheme, string(theme)); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to persist theme", "error", err)
	}
}

func (s *Store) find(id domain.SessionID) (*domain.Session, int) {
	for i, sess := range s.sessions {
		if sess.ID == id {
			return sess, i
		}
	}
	return nil, -1
}

// persist writes the whole collection. Callers hold s.mu, which keeps writes
// from interleaving. Failures are logged; the in-memory state stays current.
func (s *Store) persist(ctx context.Context) {
	raw, err := encodeSessions(s.sessions)
	if err == nil {
		err = s.kv.Set(ctx, KeySessions, raw)
	}
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to persist sessions", "error", err)
	}
}

func encodeSessions(sessions []*domain.Session) (string, error) {
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return "", fmt.Errorf("encode sessions: %w", err)
	}
	return string(data), nil
}

func decodeSessions(raw string) ([]*domain.Session, error) {
	var sessions []*domain.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}

	out := sessions[:0]
	for _, sess := range sessions {
		if sess == nil || sess.ID == "" {
			continue
		}
		if sess.Messages == nil {
			sess.Messages = []domain.Message{}
		}
		out = append(out, sess)
	}
	return out, nil
}
