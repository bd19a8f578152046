// Package config loads and validates the CLI deployment configuration.
//
// The configuration covers what varies per deployment: tool defaults,
// scraper headers/cookies and the text-generation backend. Tool-level
// invariants (budget required for head mode, generator required for
// summarize) are enforced at tool construction, not here.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mouramax/versatile-retrieval/internal/reduce"
	"github.com/mouramax/versatile-retrieval/internal/source"
)

// Config is the root configuration for the versatile CLI.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`   // Log level and format
	Generator GeneratorConfig `yaml:"generator"` // Summarization backend
	Read      ReadConfig      `yaml:"read"`      // File tool defaults
	Scrape    ScrapeConfig    `yaml:"scrape"`    // Website tool defaults
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

// GeneratorConfig configures the summarization backend. APIKey supports
// ${VAR:-default} expansion so secrets stay in the environment.
type GeneratorConfig struct {
	Provider  string        `yaml:"provider"`   // anthropic|openai|gemini|bedrock (empty = detect from endpoint)
	Endpoint  string        `yaml:"endpoint"`   // API endpoint URL
	APIKey    string        `yaml:"api_key"`    // API key
	Model     string        `yaml:"model"`      // Model name
	MaxTokens int           `yaml:"max_tokens"` // Generation cap
	Timeout   time.Duration `yaml:"timeout"`    // Per-call timeout
}

// ReadConfig contains file tool defaults.
type ReadConfig struct {
	Mode      string `yaml:"mode"`
	MaxChars  int    `yaml:"max_chars"`
	StartLine int    `yaml:"start_line"`
	LineCount int    `yaml:"line_count"`
}

// ScrapeConfig contains website tool defaults.
type ScrapeConfig struct {
	Mode     string            `yaml:"mode"`
	MaxChars int               `yaml:"max_chars"`
	Format   string            `yaml:"format"` // text|markdown
	Headers  map[string]string `yaml:"headers"`
	Cookies  map[string]string `yaml:"cookies"`

	// CookieEnv resolves one cookie value from the environment at startup.
	CookieEnv *CookieEnvConfig `yaml:"cookie_env"`
}

// CookieEnvConfig names a cookie whose value lives in an env var.
type CookieEnvConfig struct {
	Name string `yaml:"name"` // Cookie name
	Env  string `yaml:"env"`  // Environment variable holding the value
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Generator: GeneratorConfig{
			Endpoint:  "https://api.anthropic.com/v1/messages",
			APIKey:    "${ANTHROPIC_API_KEY:-}",
			Model:     "claude-haiku-4-5",
			MaxTokens: 4096,
			Timeout:   60 * time.Second,
		},
		Read:   ReadConfig{Mode: string(reduce.ModeFull), StartLine: 1},
		Scrape: ScrapeConfig{Mode: string(reduce.ModeFull), Format: string(source.FormatText)},
	}
}

// expandEnvWithDefaults expands environment variables with support for
// default values. Supports both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes, applying
// ${VAR:-default} env expansion on top of the defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum values and ranges. Mode/budget/generator coupling is
// checked later at tool construction.
func (c *Config) Validate() error {
	if c.Read.Mode != "" {
		if _, err := reduce.ParseMode(c.Read.Mode); err != nil {
			return fmt.Errorf("read.mode: %w", err)
		}
	}
	if c.Scrape.Mode != "" {
		if _, err := reduce.ParseMode(c.Scrape.Mode); err != nil {
			return fmt.Errorf("scrape.mode: %w", err)
		}
	}
	switch source.ExtractFormat(c.Scrape.Format) {
	case "", source.FormatText, source.FormatMarkdown:
	default:
		return fmt.Errorf("scrape.format: unknown extraction format '%s'", c.Scrape.Format)
	}
	if c.Read.MaxChars < 0 || c.Scrape.MaxChars < 0 {
		return fmt.Errorf("max_chars must be positive")
	}
	if c.Read.StartLine < 0 || c.Read.LineCount < 0 {
		return fmt.Errorf("start_line and line_count must be positive")
	}
	if c.Generator.MaxTokens < 0 {
		return fmt.Errorf("generator.max_tokens must be positive")
	}
	if c.Scrape.CookieEnv != nil && (c.Scrape.CookieEnv.Name == "" || c.Scrape.CookieEnv.Env == "") {
		return fmt.Errorf("scrape.cookie_env requires both name and env")
	}
	return nil
}
