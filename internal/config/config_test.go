package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SYNTAX_MODE", "SYNTAX_PORT", "PORT", "GOOGLE_API_KEY", "SYNTAX_GCP_PROJECT",
		"SYNTAX_GCP_LOCATION", "SYNTAX_MODEL_NAME", "SYNTAX_TEMPERATURE",
		"SYNTAX_REQUEST_TIMEOUT", "SYNTAX_USE_MOCK_LLM", "SYNTAX_DEFAULT_THEME",
		"SYNTAX_SYSTEM_PROMPT", "SYNTAX_LOG_LEVEL", "SYNTAX_CONFIG_FILE", "SYNTAX_TUI_LOG",
		"SYNTAX_SESSION_IDLE_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
	// keep godotenv from picking up a developer .env
	t.Chdir(t.TempDir())
}

func TestLoadLocalDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYNTAX_MODE", "local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.UseMockLLM {
		t.Errorf("expected mock LLM in local mode")
	}
	if cfg.ModelName != "gemini-1.5-flash" {
		t.Errorf("unexpected model %q", cfg.ModelName)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("unexpected temperature %v", cfg.Temperature)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("unexpected timeout %v", cfg.RequestTimeout)
	}
}

func TestLoadGeminiRequiresKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYNTAX_MODE", "gemini")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without GOOGLE_API_KEY")
	}

	t.Setenv("GOOGLE_API_KEY", "k")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsTemperatureOutOfRange(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYNTAX_MODE", "local")
	t.Setenv("SYNTAX_TEMPERATURE", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected temperature validation error")
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "syntax.yaml")
	data := []byte("mode: local\nmodel: gemini-pro\ntemperature: 0.2\nrequest_timeout: 5s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SYNTAX_CONFIG_FILE", path)
	t.Setenv("SYNTAX_MODEL_NAME", "gemini-flash-latest")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ModelName != "gemini-flash-latest" {
		t.Errorf("env should override file, got %q", cfg.ModelName)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("expected temperature from file, got %v", cfg.Temperature)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("expected timeout from file, got %v", cfg.RequestTimeout)
	}
}

func TestReadSkipsValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYNTAX_MODE", "gemini")
	t.Setenv("SYNTAX_TUI_LOG", "/tmp/syntax-tui.log")

	cfg, err := Read()
	if err != nil {
		t.Fatalf("Read should not validate: %v", err)
	}
	if cfg.APIKey != "" {
		t.Fatalf("expected no key, got %q", cfg.APIKey)
	}
	if cfg.TUILogFile != "/tmp/syntax-tui.log" {
		t.Errorf("unexpected tui log file %q", cfg.TUILogFile)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject the missing key")
	}
}

func TestSessionIdleTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYNTAX_MODE", "local")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Errorf("unexpected default idle timeout %v", cfg.SessionIdleTimeout)
	}

	t.Setenv("SYNTAX_SESSION_IDLE_TIMEOUT", "5m")
	cfg, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SessionIdleTimeout != 5*time.Minute {
		t.Errorf("expected 5m, got %v", cfg.SessionIdleTimeout)
	}

	t.Setenv("SYNTAX_SESSION_IDLE_TIMEOUT", "-1m")
	if _, err := Load(); err == nil {
		t.Fatal("expected negative idle timeout to be rejected")
	}
}
