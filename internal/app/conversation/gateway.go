package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PabloGalante/syntax-chat/internal/domain"
	"github.com/PabloGalante/syntax-chat/internal/observability"
)

// ErrInvalidTranscript is wrapped into the failure returned for a transcript
// that is empty or does not end with a user message.
var ErrInvalidTranscript = errors.New("transcript must end with a user message")

const defaultTimeout = 60 * time.Second

// Reply is the successful outcome of one completion call.
type Reply struct {
	Content string
	Elapsed time.Duration
}

// Gateway turns a transcript into exactly one call to the completion model.
// It holds no conversation state.
type Gateway struct {
	model   domain.CompletionModel
	opts    domain.GenerationOptions
	timeout time.Duration
}

func NewGateway(model domain.CompletionModel, opts domain.GenerationOptions, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{
		model:   model,
		opts:    opts,
		timeout: timeout,
	}
}

func (g *Gateway) Options() domain.GenerationOptions {
	return g.opts
}

// Complete sends the transcript and returns the reply verbatim, or a
// classified failure. There is no retry.
func (g *Gateway) Complete(ctx context.Context, transcript domain.Transcript) (Reply, *domain.Failure) {
	last, ok := transcript.Last()
	if !ok || last.Role != domain.RoleUser {
		return Reply{}, &domain.Failure{
			Kind:        domain.FailureUnknown,
			Description: ErrInvalidTranscript.Error(),
			Err:         ErrInvalidTranscript,
		}
	}

	log := observability.LoggerFromContext(ctx).With(
		"model", g.opts.Model,
		"messages", len(transcript),
	)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	content, err := g.model.Generate(callCtx, transcript, g.opts)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		f := &domain.Failure{
			Kind:        Classify(err),
			Description: err.Error(),
			Err:         err,
		}
		log.Warn("completion failed", "kind", f.Kind, "error", err, "elapsed_ms", elapsed.Milliseconds())
		return Reply{}, f
	}

	log.Info("completion succeeded", "elapsed_ms", elapsed.Milliseconds())
	return Reply{Content: content, Elapsed: elapsed}, nil
}
