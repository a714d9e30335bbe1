package domain

import "fmt"

// FailureKind is the closed set of gateway failure classes.
type FailureKind string

const (
	FailureRateLimited      FailureKind = "RATE_LIMITED"
	FailureModelUnavailable FailureKind = "MODEL_UNAVAILABLE"
	FailureTransient        FailureKind = "TRANSIENT"
	FailureUnknown          FailureKind = "UNKNOWN"
)

// Failure is a classified completion failure. Description keeps the raw
// provider text for display.
type Failure struct {
	Kind        FailureKind
	Description string
	Err         error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Description)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Notice is what the display collaborator receives after a failed turn.
type Notice struct {
	Kind        FailureKind
	Description string
	Hint        string
}
