package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/syntax-chat/internal/domain"
)

// MockLLM echoes the last user message. Used in local mode and tests.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Generate(ctx context.Context, messages []domain.Message, opts domain.GenerationOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("mock llm: empty transcript")
	}
	last := messages[len(messages)-1]
	return fmt.Sprintf("I hear you. You said %q (%d messages so far).", last.Content, len(messages)), nil
}
