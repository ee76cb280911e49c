// Package config holds the runtime configuration and the domain constants of
// the CivicChain backend.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// openAIPlaceholderKey is the value shipped in the sample .env file.
	openAIPlaceholderKey = "your_openai_api_key_here"
	// DefaultJWTSecret is only acceptable in development.
	DefaultJWTSecret = "change-me-in-production"
)

// ErrDefaultJWTSecret is returned by CheckServer outside development when
// JWT_SECRET is empty or left at the default.
var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be set outside development")

// Config is populated from the environment (and an optional .env file).
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":5000"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`

	// DatabaseURL switches storage from the in-memory store to PostgreSQL.
	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	OpenAIAPIKey          string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL         string        `env:"OPENAI_BASE_URL"`
	OpenAIChatModel       string        `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4"`
	OpenAIValidationModel string        `env:"OPENAI_VALIDATION_MODEL" envDefault:"gpt-4o"`
	LLMTimeout            time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	ChatRateLimit      float64  `env:"CHAT_RATE_LIMIT" envDefault:"1"`
	ChatRateBurst      int      `env:"CHAT_RATE_BURST" envDefault:"5"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"`
	TelegramLang     string `env:"TELEGRAM_LANG" envDefault:"en"`

	missingEnvFiles []string
}

// Load reads .env files (".env" when none are given) and parses the
// environment into a Config. Missing files are reported by MissingEnvFiles;
// a file that exists but cannot be parsed is an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var missing []string
	for _, f := range files {
		err := godotenv.Load(f)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, f)
		case err != nil:
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{missingEnvFiles: missing}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// MissingEnvFiles lists the .env files Load could not find.
func (c *Config) MissingEnvFiles() []string {
	return c.missingEnvFiles
}

// CheckServer rejects settings the HTTP server must not run with.
func (c *Config) CheckServer() error {
	if !c.IsDevelopment() && (c.JWTSecret == DefaultJWTSecret || c.JWTSecret == "") {
		return ErrDefaultJWTSecret
	}
	return nil
}

// LLMEnabled reports whether a usable OpenAI credential is configured.
func (c *Config) LLMEnabled() bool {
	key := strings.TrimSpace(c.OpenAIAPIKey)
	return key != "" && key != openAIPlaceholderKey
}

// TelegramEnabled reports whether the moderator notifier should start.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
