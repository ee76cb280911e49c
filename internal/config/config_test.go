package config_test

import (
	"civicchain/backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "gpt-4", cfg.OpenAIChatModel)
	assert.Equal(t, "gpt-4o", cfg.OpenAIValidationModel)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.LLMEnabled())
	assert.False(t, cfg.TelegramEnabled())
	assert.Equal(t, []string{"testdata/does-not-exist.env"}, cfg.MissingEnvFiles())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://civicchain.app")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001")

	cfg, err := config.Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "https://civicchain.app"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(-1001), cfg.TelegramChatID)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "soon")

	_, err := config.Load("testdata/does-not-exist.env")
	assert.Error(t, err)
}

func TestLLMEnabled(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"sample placeholder", "your_openai_api_key_here", false},
		{"real key", "sk-test", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{OpenAIAPIKey: tt.key}
			assert.Equal(t, tt.want, cfg.LLMEnabled())
		})
	}
}

func TestLoad_MalformedEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=\"unterminated\n"), 0o600))

	_, err := config.Load(path)
	assert.ErrorContains(t, err, path)
}

func TestCheckServer(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{"production with default secret", "production", config.DefaultJWTSecret, true},
		{"production with empty secret", "production", "", true},
		{"production with own secret", "production", "s3cret", false},
		{"development with default secret", "development", config.DefaultJWTSecret, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{AppEnv: tt.env, JWTSecret: tt.secret}
			err := cfg.CheckServer()
			if tt.wantErr {
				assert.ErrorIs(t, err, config.ErrDefaultJWTSecret)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
