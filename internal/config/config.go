package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeGemini Mode = "gemini"
	ModeVertex Mode = "vertex"
)

type Config struct {
	Mode Mode `yaml:"mode"`

	Port string `yaml:"port"`

	APIKey       string `yaml:"-"` // secrets only come from the environment
	GCPProjectID string `yaml:"gcp_project"`
	GCPLocation  string `yaml:"gcp_location"`

	ModelName      string        `yaml:"model"`
	Temperature    float32       `yaml:"temperature"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SystemPrompt   string        `yaml:"system_prompt"`

	// SessionIdleTimeout drops API and web sessions not used for this long.
	// Zero keeps them until the process exits.
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`

	UseMockLLM   bool   `yaml:"use_mock_llm"`
	DefaultTheme string `yaml:"default_theme"`
	LogLevel     string `yaml:"log_level"`
	TUILogFile   string `yaml:"tui_log_file"`
}

func Default() *Config {
	return &Config{
		Mode:           ModeGemini,
		Port:           "8080",
		GCPLocation:    "us-central1",
		ModelName:      "gemini-1.5-flash",
		Temperature:    0.7,
		RequestTimeout: 60 * time.Second,
		DefaultTheme:   "dark",
		LogLevel:       "info",

		SessionIdleTimeout: 30 * time.Minute,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads .env, the optional YAML file in SYNTAX_CONFIG_FILE and then the
// environment, in that order of increasing precedence. It does not validate,
// so diagnostics can report on a broken setup.
func Read() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("SYNTAX_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Mode = Mode(strings.ToLower(getEnv("SYNTAX_MODE", string(c.Mode))))
	c.Port = getEnv("SYNTAX_PORT", getEnv("PORT", c.Port))

	c.APIKey = getEnv("GOOGLE_API_KEY", c.APIKey)
	c.GCPProjectID = getEnv("SYNTAX_GCP_PROJECT", c.GCPProjectID)
	c.GCPLocation = getEnv("SYNTAX_GCP_LOCATION", c.GCPLocation)

	c.ModelName = getEnv("SYNTAX_MODEL_NAME", c.ModelName)
	c.SystemPrompt = getEnv("SYNTAX_SYSTEM_PROMPT", c.SystemPrompt)

	if v := os.Getenv("SYNTAX_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("SYNTAX_TEMPERATURE: %w", err)
		}
		c.Temperature = float32(t)
	}

	if v := os.Getenv("SYNTAX_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SYNTAX_REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}

	if v := os.Getenv("SYNTAX_SESSION_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SYNTAX_SESSION_IDLE_TIMEOUT: %w", err)
		}
		c.SessionIdleTimeout = d
	}

	c.UseMockLLM = getBoolEnv("SYNTAX_USE_MOCK_LLM", c.UseMockLLM || c.Mode == ModeLocal)
	c.DefaultTheme = getEnv("SYNTAX_DEFAULT_THEME", c.DefaultTheme)
	c.LogLevel = getEnv("SYNTAX_LOG_LEVEL", c.LogLevel)
	c.TUILogFile = getEnv("SYNTAX_TUI_LOG", c.TUILogFile)
	return nil
}

// Validate checks the recognised options.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeLocal, ModeGemini, ModeVertex:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}

	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be in [0,1], got %v", c.Temperature)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.SessionIdleTimeout < 0 {
		return errors.New("session idle timeout must not be negative")
	}
	if c.ModelName == "" {
		return errors.New("model name is required")
	}

	if c.UseMockLLM {
		return nil
	}
	switch c.Mode {
	case ModeGemini:
		if c.APIKey == "" {
			return errors.New("GOOGLE_API_KEY not found, set it in the environment or a .env file")
		}
	case ModeVertex:
		if c.GCPProjectID == "" {
			return errors.New("SYNTAX_GCP_PROJECT must be set in vertex mode")
		}
	}
	return nil
}
