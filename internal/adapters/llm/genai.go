package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/PabloGalante/weatherchat/internal/domain"
	"google.golang.org/genai"
)

const genaiService = "genai"

// GenAIConfig selects between the Gemini API (API key) and Vertex AI
// (project + location with application default credentials).
type GenAIConfig struct {
	APIKey    string
	Project   string
	Location  string
	ModelName string
}

type GenAIClient struct {
	cfg GenAIConfig

	mu sync.Mutex
	// client is built on first use so a missing key surfaces as a
	// ConfigError on each Compose instead of failing startup.
	client *genai.Client
}

// NewGenAIClient creates a ResponseComposer based on the genai SDK.
func NewGenAIClient(cfg GenAIConfig) *GenAIClient {
	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-2.5-flash"
	}
	return &GenAIClient{cfg: cfg}
}

func (g *GenAIClient) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	var cc *genai.ClientConfig
	switch {
	case g.cfg.Project != "":
		cc = &genai.ClientConfig{
			Project:  g.cfg.Project,
			Location: g.cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	case g.cfg.APIKey != "":
		cc = &genai.ClientConfig{
			APIKey:  g.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
	default:
		return nil, &domain.ConfigError{Key: "WEATHERCHAT_GEMINI_API_KEY"}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	g.client = client
	return client, nil
}

// Compose implements domain.ResponseComposer using the genai SDK.
func (g *GenAIClient) Compose(ctx context.Context, userText, weatherText string) (string, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(BuildPrompt(userText, weatherText), genai.RoleUser),
	}

	temp := float32(temperature)
	k := float32(topK)
	p := float32(topP)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopK:            &k,
		TopP:            &p,
		MaxOutputTokens: maxOutputTokens,
	}

	res, err := client.Models.GenerateContent(ctx, g.cfg.ModelName, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &domain.APIError{
				Service:    genaiService,
				StatusCode: apiErr.Code,
				Body:       apiErr.Message,
			}
		}
		return "", &domain.NetworkError{Service: genaiService, Err: err}
	}

	text := res.Text()
	if text == "" {
		return NoCandidateReply, nil
	}

	return text, nil
}
