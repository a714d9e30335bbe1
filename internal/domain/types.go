package domain

type SessionID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnState is the state of the current user turn within a session.
type TurnState string

const (
	TurnIdle          TurnState = "idle"
	TurnAwaitingReply TurnState = "awaiting_reply"
	TurnDone          TurnState = "done"
	TurnFailed        TurnState = "failed"
)

// Theme selects the presentation palette. The core never reads it.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme falls back to ThemeDark for anything it does not recognise.
func ParseTheme(s string) Theme {
	switch Theme(s) {
	case ThemeLight:
		return ThemeLight
	default:
		return ThemeDark
	}
}
