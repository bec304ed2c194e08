package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/PabloGalante/weatherchat/internal/domain"
	"github.com/PabloGalante/weatherchat/internal/observability"
)

const geminiService = "gemini"

// GeminiClient calls the generateContent REST endpoint directly, passing
// the API key as a query parameter.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Compose implements domain.ResponseComposer.
func (g *GeminiClient) Compose(ctx context.Context, userText, weatherText string) (string, error) {
	if g.apiKey == "" {
		return "", &domain.ConfigError{Key: "WEATHERCHAT_GEMINI_API_KEY"}
	}

	log := observability.LoggerFromContext(ctx).With("model", g.model)

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: BuildPrompt(userText, weatherText)}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			TopK:            topK,
			TopP:            topP,
			MaxOutputTokens: maxOutputTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &domain.NetworkError{Service: geminiService, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", &domain.NetworkError{Service: geminiService, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.NetworkError{Service: geminiService, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("gemini api error response", "status", resp.StatusCode, "body", string(respBody))
		return "", &domain.APIError{
			Service:    geminiService,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	text := gjson.GetBytes(respBody, "candidates.0.content.parts.0.text").String()
	if text == "" {
		log.Warn("gemini returned no candidate text")
		return NoCandidateReply, nil
	}

	return text, nil
}
