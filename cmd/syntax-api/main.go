package main

import (
	"context"
	"net/http"
	"os"
	"time"

	httpadapter "github.com/PabloGalante/syntax-chat/internal/adapters/http"
	"github.com/PabloGalante/syntax-chat/internal/adapters/llm"
	memstore "github.com/PabloGalante/syntax-chat/internal/adapters/storage/memory"
	"github.com/PabloGalante/syntax-chat/internal/app/conversation"
	"github.com/PabloGalante/syntax-chat/internal/config"
	"github.com/PabloGalante/syntax-chat/internal/domain"
	"github.com/PabloGalante/syntax-chat/internal/observability"
)

func main() {
	ctx := context.Background()
	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	observability.SetLevel(cfg.LogLevel)

	model, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Error("error initializing llm client", "error", err)
		os.Exit(1)
	}

	gateway := conversation.NewGateway(model, llm.GenerationOptions(cfg), cfg.RequestTimeout)

	log.Info("using in-memory session storage", "idle_timeout", cfg.SessionIdleTimeout.String())
	sessions := memstore.NewSessionStore(memstore.WithIdleTimeout(cfg.SessionIdleTimeout))
	go sessions.Run(ctx, time.Minute)

	svc := conversation.NewService(gateway, sessions)

	handler := httpadapter.NewServer(svc, domain.ParseTheme(cfg.DefaultTheme))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("syntax api listening", "addr", srv.Addr, "mode", cfg.Mode, "model", cfg.ModelName)
	if err := srv.ListenAndServe(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
