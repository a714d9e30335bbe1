package conversation

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/syntax-chat/internal/domain"
)

// Classify maps a raw completion error to a failure kind. Structured
// provider fields win over the error text.
func Classify(err error) domain.FailureKind {
	if err == nil {
		return domain.FailureUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.FailureTransient
	}

	if kind, ok := classifyAPIError(err); ok {
		return kind
	}

	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown && s.Code() != codes.OK {
		if kind, ok := classifyCode(s.Code()); ok {
			return kind
		}
	}

	return classifyText(err.Error())
}

func classifyAPIError(err error) (domain.FailureKind, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return "", false
		}
		apiErr = *ptr
	}

	if apiErr.Status != "" {
		var c codes.Code
		if err := c.UnmarshalJSON([]byte(`"` + apiErr.Status + `"`)); err == nil {
			if kind, ok := classifyCode(c); ok {
				return kind, true
			}
		}
	}

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		return domain.FailureRateLimited, true
	case http.StatusNotFound:
		return domain.FailureModelUnavailable, true
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.FailureTransient, true
	}

	// Fall through to the text rules with the provider message.
	return classifyText(apiErr.Message), true
}

func classifyCode(c codes.Code) (domain.FailureKind, bool) {
	switch c {
	case codes.ResourceExhausted:
		return domain.FailureRateLimited, true
	case codes.NotFound:
		return domain.FailureModelUnavailable, true
	case codes.Unavailable, codes.DeadlineExceeded:
		return domain.FailureTransient, true
	}
	return "", false
}

var (
	rateLimitSignals = []string{"429", "quota", "rate limit", "resource_exhausted", "resource exhausted"}
	modelSignals     = []string{"404", "not found", "unsupported model", "is not supported", "model_not_found"}
)

func classifyText(desc string) domain.FailureKind {
	lower := strings.ToLower(desc)
	for _, s := range rateLimitSignals {
		if strings.Contains(lower, s) {
			return domain.FailureRateLimited
		}
	}
	for _, s := range modelSignals {
		if strings.Contains(lower, s) {
			return domain.FailureModelUnavailable
		}
	}
	return domain.FailureUnknown
}

// Hint returns the remediation text shown next to a failure.
func Hint(kind domain.FailureKind) string {
	switch kind {
	case domain.FailureRateLimited:
		return "Quota exceeded (429): you are sending messages too fast. Wait 15-30 seconds and try again."
	case domain.FailureTransient:
		return "The model took too long to answer. Try again in a moment."
	default:
		return "If you see a 404/503 error, try another model or check Google AI Studio for status."
	}
}

// NewNotice builds the display notification for a failure.
func NewNotice(f *domain.Failure) domain.Notice {
	return domain.Notice{
		Kind:        f.Kind,
		Description: f.Description,
		Hint:        Hint(f.Kind),
	}
}
