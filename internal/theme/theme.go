// Package theme holds the Dark and Light palettes shared by the web page and
// the terminal client.
package theme

import "github.com/PabloGalante/syntax-chat/internal/domain"

// Palette has CSS values for the web page and solid hex colors for terminals,
// which cannot blend alpha.
type Palette struct {
	Name domain.Theme

	Background string
	UserBG     string
	UserBorder string
	BotBG      string
	BotBorder  string
	Text       string
	TitleBG    string
	InputText  string

	TermUser  string
	TermBot   string
	TermText  string
	TermMuted string
	TermError string
}

var Dark = Palette{
	Name:       domain.ThemeDark,
	Background: "linear-gradient(-45deg, #020024, #090979, #00d4ff, #6a11cb)",
	UserBG:     "rgba(0, 200, 83, 0.7)",
	UserBorder: "rgba(0, 255, 100, 0.5)",
	BotBG:      "rgba(25, 25, 35, 0.9)",
	BotBorder:  "rgba(255, 255, 255, 0.2)",
	Text:       "#FFFFFF",
	TitleBG:    "rgba(0, 0, 0, 0.6)",
	InputText:  "#E0E0E0",

	TermUser:  "#00C853",
	TermBot:   "#00D4FF",
	TermText:  "#FFFFFF",
	TermMuted: "#9E9E9E",
	TermError: "#FF5252",
}

var Light = Palette{
	Name:       domain.ThemeLight,
	Background: "linear-gradient(-45deg, #FF9A9E, #FECFEF, #F6D365, #FDA085)",
	UserBG:     "rgba(33, 150, 243, 0.8)",
	UserBorder: "rgba(255, 255, 255, 0.5)",
	BotBG:      "rgba(255, 255, 255, 0.9)",
	BotBorder:  "rgba(0, 0, 0, 0.1)",
	Text:       "#000000",
	TitleBG:    "rgba(255, 255, 255, 0.6)",
	InputText:  "#333333",

	TermUser:  "#2196F3",
	TermBot:   "#6A11CB",
	TermText:  "#000000",
	TermMuted: "#616161",
	TermError: "#D32F2F",
}

// For returns the palette of t, Dark when unknown.
func For(t domain.Theme) Palette {
	if t == domain.ThemeLight {
		return Light
	}
	return Dark
}

// Toggle flips between Dark and Light.
func Toggle(t domain.Theme) domain.Theme {
	if t == domain.ThemeLight {
		return domain.ThemeDark
	}
	return domain.ThemeLight
}
