package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouramax/versatile-retrieval/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "https://api.anthropic.com/v1/messages", cfg.Generator.Endpoint)
	assert.Equal(t, 60*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, "full", cfg.Read.Mode)
	assert.Equal(t, 1, cfg.Read.StartLine)
	assert.Equal(t, "full", cfg.Scrape.Mode)
	assert.Equal(t, "text", cfg.Scrape.Format)

	require.NoError(t, cfg.Validate())
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
read:
  mode: head
  max_chars: 5000
scrape:
  mode: random_chunks
  max_chars: 8000
  format: markdown
  headers:
    User-Agent: custom-agent
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format, "unset keys keep defaults")
	assert.Equal(t, "head", cfg.Read.Mode)
	assert.Equal(t, 5000, cfg.Read.MaxChars)
	assert.Equal(t, "random_chunks", cfg.Scrape.Mode)
	assert.Equal(t, "markdown", cfg.Scrape.Format)
	assert.Equal(t, "custom-agent", cfg.Scrape.Headers["User-Agent"])
	assert.Equal(t, "claude-haiku-4-5", cfg.Generator.Model, "generator defaults survive")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFromBytes_EnvExpansion(t *testing.T) {
	t.Setenv("VR_TEST_KEY", "sk-live-123")
	os.Unsetenv("VR_TEST_MODEL")

	cfg, err := config.LoadFromBytes([]byte(`
generator:
  api_key: ${VR_TEST_KEY}
  model: ${VR_TEST_MODEL:-fallback-model}
`))
	require.NoError(t, err)

	assert.Equal(t, "sk-live-123", cfg.Generator.APIKey)
	assert.Equal(t, "fallback-model", cfg.Generator.Model, "unset var takes the :- default")
}

func TestLoadFromBytes_UnsetVarWithoutDefault(t *testing.T) {
	os.Unsetenv("VR_TEST_ABSENT")

	cfg, err := config.LoadFromBytes([]byte("generator:\n  api_key: ${VR_TEST_ABSENT}\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Generator.APIKey)
}

func TestLoadFromBytes_MalformedYAML(t *testing.T) {
	_, err := config.LoadFromBytes([]byte("read: [not a mapping"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "unknown read mode",
			mutate:  func(c *config.Config) { c.Read.Mode = "tail" },
			wantErr: "read.mode",
		},
		{
			name:    "unknown scrape mode",
			mutate:  func(c *config.Config) { c.Scrape.Mode = "everything" },
			wantErr: "scrape.mode",
		},
		{
			name:    "unknown scrape format",
			mutate:  func(c *config.Config) { c.Scrape.Format = "pdf" },
			wantErr: "scrape.format",
		},
		{
			name:    "negative max_chars",
			mutate:  func(c *config.Config) { c.Read.MaxChars = -1 },
			wantErr: "max_chars must be positive",
		},
		{
			name:    "negative start_line",
			mutate:  func(c *config.Config) { c.Read.StartLine = -5 },
			wantErr: "start_line",
		},
		{
			name:    "negative generator max_tokens",
			mutate:  func(c *config.Config) { c.Generator.MaxTokens = -1 },
			wantErr: "generator.max_tokens",
		},
		{
			name: "cookie_env missing env var name",
			mutate: func(c *config.Config) {
				c.Scrape.CookieEnv = &config.CookieEnvConfig{Name: "session"}
			},
			wantErr: "cookie_env requires both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
