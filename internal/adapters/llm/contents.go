package llm

import (
	"google.golang.org/genai"

	"github.com/PabloGalante/syntax-chat/internal/domain"
)

// BuildContents maps a transcript to Gemini contents, one per message, in
// order. Assistant turns become model turns.
func BuildContents(messages []domain.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		contents = append(contents, genai.NewContentFromText(m.Content, geminiRole(m.Role)))
	}
	return contents
}

func geminiRole(r domain.Role) genai.Role {
	switch r {
	case domain.RoleAssistant:
		return genai.RoleModel
	default:
		return genai.RoleUser
	}
}

// BuildConfig returns the generation config for one call. An empty system
// prompt sends no system instruction.
func BuildConfig(opts domain.GenerationOptions, systemPrompt string) *genai.GenerateContentConfig {
	temp := opts.Temperature

	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return cfg
}
