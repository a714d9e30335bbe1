package llm

import (
	"context"
	"fmt"
	"slices"

	"google.golang.org/genai"

	"github.com/PabloGalante/syntax-chat/internal/domain"
)

// GeminiConfig selects the backend. Vertex is used when Project is set and
// APIKey is empty.
type GeminiConfig struct {
	APIKey       string
	Project      string
	Location     string
	DefaultModel string
	SystemPrompt string

	// BaseURL overrides the API endpoint, for proxies and tests.
	BaseURL string
}

type GeminiClient struct {
	client       *genai.Client
	defaultModel string
	systemPrompt string
}

// NewGeminiClient creates a CompletionModel backed by the Gemini API or Vertex AI.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	}
	switch {
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.Project != "":
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("gemini: an API key or a GCP project is required")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &GeminiClient{
		client:       client,
		defaultModel: model,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

// Generate implements domain.CompletionModel. Provider errors are wrapped, not
// flattened, so the gateway can read genai.APIError.
func (g *GeminiClient) Generate(
	ctx context.Context,
	messages []domain.Message,
	opts domain.GenerationOptions,
) (string, error) {
	model := opts.Model
	if model == "" {
		model = g.defaultModel
	}

	res, err := g.client.Models.GenerateContent(ctx, model, BuildContents(messages), BuildConfig(opts, g.systemPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content (model %s): %w", model, err)
	}

	// An empty candidate, e.g. one blocked by safety settings, is still a reply.
	return res.Text(), nil
}

// ModelInfo is one entry of the provider's model list.
type ModelInfo struct {
	Name        string
	DisplayName string
	Actions     []string
}

// SupportsGenerate reports whether the model can serve generateContent.
func (m ModelInfo) SupportsGenerate() bool {
	return slices.Contains(m.Actions, "generateContent")
}

// ListModels walks every page of the provider's model list.
func (g *GeminiClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var out []ModelInfo
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing gemini models: %w", err)
		}
		out = append(out, ModelInfo{
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Actions:     m.SupportedActions,
		})
	}
	return out, nil
}
