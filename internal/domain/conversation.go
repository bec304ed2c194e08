package domain

import (
	"strings"
	"time"
)

// DefaultTitle is used for sessions that have no messages yet.
const DefaultTitle = "New Weather Chat"

const titleWords = 4

// Message represents one entry of a chat timeline (user or assistant).
type Message struct {
	ID        MessageID `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp Timestamp `json:"timestamp"`

	// Feedback flags, mutually exclusive.
	Liked    *bool `json:"liked,omitempty"`
	Disliked *bool `json:"disliked,omitempty"`
}

// Session is a named, ordered conversation.
type Session struct {
	ID        SessionID `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt Timestamp `json:"createdAt"`
}

// IsLiked reports whether the message carries a positive rating.
func (m Message) IsLiked() bool { return m.Liked != nil && *m.Liked }

// IsDisliked reports whether the message carries a negative rating.
func (m Message) IsDisliked() bool { return m.Disliked != nil && *m.Disliked }

// ToggleLike flips the like flag and clears any dislike.
func (m *Message) ToggleLike() {
	liked := !m.IsLiked()
	m.Liked = &liked
	m.Disliked = boolPtr(false)
}

// ToggleDislike flips the dislike flag and clears any like.
func (m *Message) ToggleDislike() {
	disliked := !m.IsDisliked()
	m.Disliked = &disliked
	m.Liked = boolPtr(false)
}

// TitleFor derives a session title from its first message: the first four
// words, with an ellipsis when the message is longer than that.
func TitleFor(messages []Message) string {
	if len(messages) == 0 {
		return DefaultTitle
	}

	words := strings.Fields(messages[0].Content)
	if len(words) == 0 {
		return DefaultTitle
	}
	if len(words) <= titleWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleWords], " ") + "..."
}

// Clone returns a deep copy, so callers can't mutate store-owned state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		if m.Liked != nil {
			m.Liked = boolPtr(*m.Liked)
		}
		if m.Disliked != nil {
			m.Disliked = boolPtr(*m.Disliked)
		}
		out.Messages[i] = m
	}
	return &out
}

// StorageTime truncates t to the precision kept by the persisted form.
func StorageTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func boolPtr(b bool) *bool { return &b }
