package domain

import "context"

// GenerationOptions are fixed per deployment, never per call.
type GenerationOptions struct {
	Model       string
	Temperature float32
}

// CompletionModel is the remote model collaborator. Implementations must
// return errors whose text (or structure) keeps the provider status so the
// gateway can classify them.
type CompletionModel interface {
	Generate(ctx context.Context, messages []Message, opts GenerationOptions) (string, error)
}

// Display receives notifications after each turn. Rendering and theme are
// entirely up to the implementation.
type Display interface {
	OnMessageAppended(role Role, content string)
	OnError(n Notice)
}

// NopDisplay discards every notification.
type NopDisplay struct{}

func (NopDisplay) OnMessageAppended(Role, string) {}
func (NopDisplay) OnError(Notice)                 {}
