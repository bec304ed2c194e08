package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTitleFor(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     string
	}{
		{"no messages", nil, DefaultTitle},
		{"blank first message", []Message{{Content: "   "}}, DefaultTitle},
		{"short", []Message{{Content: "rain in Paris"}}, "rain in Paris"},
		{"exactly four", []Message{{Content: "is it cold there"}}, "is it cold there"},
		{"long", []Message{{Content: "What's the weather in Tokyo today?"}}, "What's the weather in..."},
		{"collapses whitespace", []Message{{Content: "  hot \n in   Cairo "}}, "hot in Cairo"},
		{"first message only", []Message{{Content: "hi"}, {Content: "a much longer reply here"}}, "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFor(tt.messages))
		})
	}
}

func TestToggleLikeDislike(t *testing.T) {
	var m Message

	m.ToggleLike()
	assert.True(t, m.IsLiked())
	assert.False(t, m.IsDisliked())

	m.ToggleDislike()
	assert.False(t, m.IsLiked())
	assert.True(t, m.IsDisliked())

	m.ToggleDislike()
	assert.False(t, m.IsLiked())
	assert.False(t, m.IsDisliked())
}

func TestCloneIsDeep(t *testing.T) {
	liked := true
	orig := &Session{ID: "s1", Messages: []Message{{ID: "m1", Content: "x", Liked: &liked}}}

	cp := orig.Clone()
	cp.Messages[0].Content = "y"
	*cp.Messages[0].Liked = false

	assert.Equal(t, "x", orig.Messages[0].Content)
	assert.True(t, orig.Messages[0].IsLiked())
	assert.Nil(t, (*Session)(nil).Clone())
}

func TestStorageTime(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	in := time.Date(2026, 1, 2, 9, 0, 0, 123456789, loc)

	got := StorageTime(in)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123000000, got.Nanosecond())
	assert.True(t, got.Equal(in.Truncate(time.Millisecond)))
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, ParseTheme("dark"))
	assert.Equal(t, ThemeLight, ParseTheme("light"))
	assert.Equal(t, ThemeLight, ParseTheme("solarized"))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ConfigError{Key: "K"}, "config"},
		{fmt.Errorf("compose: %w", &APIError{Service: "gemini", StatusCode: 400}), "api"},
		{&StreamError{Service: "weather", Err: errors.New("eof")}, "stream"},
		{&NetworkError{Service: "weather", StatusCode: 502}, "network"},
		{errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err))
	}
}
