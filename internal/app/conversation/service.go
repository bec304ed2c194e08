package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/weatherchat/internal/app/location"
	"github.com/PabloGalante/weatherchat/internal/app/sessions"
	"github.com/PabloGalante/weatherchat/internal/domain"
	"github.com/PabloGalante/weatherchat/internal/observability"
)

// Canned assistant replies.
const (
	ClarificationReply = `I'd be happy to help you with weather information! Could you please specify which city or location you'd like to know about? For example, "What's the weather in Tokyo?" or "How's the weather in New York?"`
	RawWeatherPrefix   = "Here's the weather information I found:\n\n"
	GenericRetryReply  = "Sorry, I'm having trouble processing your request right now. Please try again later."
)

var (
	ErrEmptyMessage   = errors.New("message text is empty")
	ErrTurnInProgress = errors.New("a turn is already in progress for this session")
)

var weatherKeywords = []string{"weather", "temperature", "forecast", "rain", "sunny", "cloudy", "climate"}

// ReplyKind says which path produced the assistant message of a turn.
type ReplyKind string

const (
	ReplyComposed      ReplyKind = "composed"
	ReplyClarification ReplyKind = "clarification"
	ReplyRawWeather    ReplyKind = "raw_weather"
	ReplyGenericRetry  ReplyKind = "generic_retry"
)

// Options bounds each outbound call; zero means no extra deadline.
type Options struct {
	WeatherTimeout time.Duration
	ComposeTimeout time.Duration
}

type Service struct {
	store    *sessions.Store
	weather  domain.WeatherFetcher
	composer domain.ResponseComposer
	opts     Options
	extract  func(string) (string, bool)

	mu       sync.Mutex
	inFlight map[domain.SessionID]bool
}

func NewService(
	store *sessions.Store,
	weather domain.WeatherFetcher,
	composer domain.ResponseComposer,
	opts Options,
) *Service {
	return &Service{
		store:    store,
		weather:  weather,
		composer: composer,
		opts:     opts,
		extract:  location.Extract,
		inFlight: make(map[domain.SessionID]bool),
	}
}

type TurnResult struct {
	Session          *domain.Session
	UserMessage      domain.Message
	AssistantMessage domain.Message
	Kind             ReplyKind
	// Location is empty unless the turn looked up weather.
	Location string
	// WeatherErr and ComposeErr record the degraded paths; they never fail the turn.
	WeatherErr error
	ComposeErr error
}

// IsWeatherQuery reports whether text mentions any weather keyword.
func IsWeatherQuery(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range weatherKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Busy reports whether a turn is running for the session.
func (s *Service) Busy(id domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[id]
}

func (s *Service) acquire(id domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[id] {
		return false
	}
	s.inFlight[id] = true
	return true
}

func (s *Service) release(id domain.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// HandleTurn runs one user turn against a session. The user message is
// committed before any outbound call; the assistant message is committed once
// the reply is settled. Failures of the weather or language services degrade
// the reply instead of failing the turn, so the only errors returned are
// ErrEmptyMessage, ErrTurnInProgress and sessions.ErrSessionNotFound.
func (s *Service) HandleTurn(ctx context.Context, sessionID domain.SessionID, text string) (*TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if !s.acquire(sessionID) {
		return nil, ErrTurnInProgress
	}
	defer s.release(sessionID)

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	userMsg, _, err := s.store.AppendMessage(ctx, sessionID, domain.Message{
		Role:    domain.RoleUser,
		Content: text,
	})
	if err != nil {
		return nil, err
	}
	log.Info("turn started", "text", text)

	result := &TurnResult{UserMessage: userMsg}
	reply := s.resolveReply(ctx, text, result)

	assistantMsg, sess, err := s.store.AppendMessage(ctx, sessionID, domain.Message{
		Role:    domain.RoleAssistant,
		Content: reply,
	})
	if err != nil {
		// The session was deleted while the turn ran.
		return nil, err
	}

	result.AssistantMessage = assistantMsg
	result.Session = sess

	log.Info("turn completed",
		"reply_kind", result.Kind,
		"location", result.Location,
		"weather_error", domain.ErrorKind(result.WeatherErr),
		"compose_error", domain.ErrorKind(result.ComposeErr),
	)
	return result, nil
}

func (s *Service) resolveReply(ctx context.Context, text string, result *TurnResult) string {
	log := observability.LoggerFromContext(ctx)

	var weatherText string
	if IsWeatherQuery(text) {
		place, ok := s.extract(text)
		if !ok {
			result.Kind = ReplyClarification
			return ClarificationReply
		}

		result.Location = place
		weatherText, result.WeatherErr = s.fetchWeather(ctx, place)
		if result.WeatherErr != nil {
			log.Warn("weather lookup failed, continuing without it",
				"location", place,
				"kind", domain.ErrorKind(result.WeatherErr),
				"error", result.WeatherErr,
			)
			weatherText = ""
		}
	}

	reply, err := s.compose(ctx, text, weatherText)
	if err == nil {
		result.Kind = ReplyComposed
		return reply
	}

	result.ComposeErr = err
	log.Error("compose failed, degrading reply",
		"kind", domain.ErrorKind(err),
		"error", err,
		"have_weather", weatherText != "",
	)

	if weatherText != "" {
		result.Kind = ReplyRawWeather
		return RawWeatherPrefix + weatherText
	}
	result.Kind = ReplyGenericRetry
	return GenericRetryReply
}

func (s *Service) fetchWeather(ctx context.Context, place string) (string, error) {
	if s.opts.WeatherTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.WeatherTimeout)
		defer cancel()
	}
	return s.weather.Fetch(ctx, place)
}

func (s *Service) compose(ctx context.Context, text, weatherText string) (string, error) {
	if s.opts.ComposeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ComposeTimeout)
		defer cancel()
	}
	return s.composer.Compose(ctx, text, weatherText)
}
