package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/PabloGalante/syntax-chat/internal/adapters/llm"
	"github.com/PabloGalante/syntax-chat/internal/adapters/tui"
	"github.com/PabloGalante/syntax-chat/internal/app/conversation"
	"github.com/PabloGalante/syntax-chat/internal/config"
	"github.com/PabloGalante/syntax-chat/internal/domain"
	"github.com/PabloGalante/syntax-chat/internal/observability"
)

func main() {
	os.Exit(runTUI())
}

// runTUI returns the exit code so deferred cleanup runs before os.Exit.
func runTUI() int {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	observability.SetLevel(cfg.LogLevel)

	// JSON log lines would corrupt the screen, so they go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.TUILogFile != "" {
		f, err := os.OpenFile(cfg.TUILogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	observability.SetLogger(observability.NewLogger(logOut))

	model, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	gateway := conversation.NewGateway(model, llm.GenerationOptions(cfg), cfg.RequestTimeout)
	id := domain.SessionID(uuid.NewString())
	session := conversation.NewSession(id, gateway, conversation.NewLogDisplay(observability.WithFields("session_id", id)))

	p := tea.NewProgram(tui.NewModel(ctx, session, domain.ParseTheme(cfg.DefaultTheme)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
