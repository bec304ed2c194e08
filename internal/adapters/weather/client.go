// Package weather talks to the streaming weather agent endpoint.
package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/weatherchat/internal/domain"
	"github.com/PabloGalante/weatherchat/internal/observability"
)

const serviceName = "weather"

const agentID = "weatherAgent"

// Client fetches weather text from the agent stream endpoint.
type Client struct {
	url        string
	threadID   string
	httpClient *http.Client
}

// NewClient creates a weather client. timeout bounds each request end to end.
func NewClient(url, threadID string, timeout time.Duration) *Client {
	return &Client{
		url:      url,
		threadID: threadID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type agentMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type streamRequest struct {
	Messages       []agentMessage `json:"messages"`
	RunID          string         `json:"runId"`
	MaxRetries     int            `json:"maxRetries"`
	MaxSteps       int            `json:"maxSteps"`
	Temperature    float64        `json:"temperature"`
	TopP           float64        `json:"topP"`
	RuntimeContext map[string]any `json:"runtimeContext"`
	ThreadID       string         `json:"threadId"`
	ResourceID     string         `json:"resourceId"`
}

// Query is the natural-language question sent for a location.
func Query(location string) string {
	return fmt.Sprintf("What's the weather in %s?", location)
}

// Fetch implements domain.WeatherFetcher.
func (c *Client) Fetch(ctx context.Context, location string) (string, error) {
	log := observability.LoggerFromContext(ctx).With("location", location)

	payload := streamRequest{
		Messages:       []agentMessage{{Role: "user", Content: Query(location)}},
		RunID:          agentID,
		MaxRetries:     2,
		MaxSteps:       5,
		Temperature:    0.5,
		TopP:           1,
		RuntimeContext: map[string]any{},
		ThreadID:       c.threadID,
		ResourceID:     agentID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal weather request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", &domain.NetworkError{Service: serviceName, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-mastra-dev-playground", "true")

	log.Debug("sending weather query")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.NetworkError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &domain.NetworkError{Service: serviceName, StatusCode: resp.StatusCode}
	}

	text, err := readStream(resp.Body)
	if err != nil {
		return "", &domain.StreamError{Service: serviceName, Err: err}
	}

	log.Debug("weather stream complete", "bytes", len(text))
	return text, nil
}

// readStream drains r chunk by chunk and returns the trimmed concatenation.
func readStream(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
