// Website scraping tool.
package tool

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mouramax/versatile-retrieval/internal/reduce"
	"github.com/mouramax/versatile-retrieval/internal/source"
)

// emptyPageContent is returned when a page yields no visible text after
// cleaning. Deliberately content, not an error: the fetch itself worked.
const emptyPageContent = "No text content found on the website after cleaning."

// CookieFromEnv names a cookie whose value is read from an environment
// variable at construction time, keeping secrets out of configuration
// files. An unset variable silently skips the cookie.
type CookieFromEnv struct {
	Name   string
	EnvVar string
}

// ScrapeWebsiteConfig configures a ScrapeWebsiteTool. Validated once by
// NewScrapeWebsiteTool; the tool is immutable afterwards.
type ScrapeWebsiteConfig struct {
	// Name/Description override the default tool surface metadata.
	Name        string
	Description string

	// WebsiteURL is the default URL to scrape. When empty it must be
	// provided at call time.
	WebsiteURL string

	// Mode is the retrieval strategy. Defaults to full.
	Mode reduce.Mode

	// MaxChars is the character budget. Required for head and
	// random_chunks modes; optional for summarize.
	MaxChars int

	// Generator is the text-generation backend. Required for summarize.
	Generator reduce.TextGenerator

	// Headers replaces the default browser-like header set when non-nil.
	Headers map[string]string

	// Cookies are sent verbatim with every fetch.
	Cookies map[string]string

	// CookieEnv adds one cookie resolved from the environment.
	CookieEnv *CookieFromEnv

	// Format selects text or markdown extraction for the fetched page.
	Format source.ExtractFormat

	// Client overrides the HTTP client (tests, connection pooling).
	Client *http.Client

	// AllowOverrides enables per-call mode/budget overrides, re-validated
	// on every call. When false only the URL varies per call.
	AllowOverrides bool

	// Rand seeds chunk selection for deterministic tests.
	Rand *rand.Rand
}

func (c *ScrapeWebsiteConfig) validate() error {
	if c.Mode == "" {
		c.Mode = reduce.ModeFull
	}
	if _, err := reduce.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.MaxChars < 0 {
		return &reduce.ConfigError{Reason: "'max_chars' must be a positive integer"}
	}
	switch c.Format {
	case "", source.FormatText, source.FormatMarkdown:
	default:
		return &reduce.ConfigError{Reason: fmt.Sprintf("unknown extraction format '%s'", c.Format)}
	}
	switch c.Mode {
	case reduce.ModeHead:
		if c.MaxChars == 0 {
			return &reduce.ConfigError{Reason: "'max_chars' is required for 'head' mode"}
		}
	case reduce.ModeRandomChunks:
		if c.MaxChars == 0 {
			return &reduce.ConfigError{Reason: "'max_chars' is required for 'random_chunks' mode"}
		}
	case reduce.ModeSummarize:
		if c.Generator == nil {
			return &reduce.ConfigError{Reason: "a valid text generator is required for 'summarize' mode"}
		}
	}
	return nil
}

// ScrapeWebsiteTool fetches a web page and returns its content with full,
// head, random_chunks or summarize strategies.
type ScrapeWebsiteTool struct {
	name        string
	description string
	cfg         ScrapeWebsiteConfig
	fetcher     *source.WebFetcher
	sampler     *reduce.Sampler
	summarizer  *reduce.Summarizer
}

// NewScrapeWebsiteTool validates cfg and builds the tool.
func NewScrapeWebsiteTool(cfg ScrapeWebsiteConfig) (*ScrapeWebsiteTool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = "Website Scraping Tool"
	}
	description := cfg.Description
	if description == "" {
		description = "Scrapes website content with various strategies like full text, head " +
			"truncation, random chunks, or summarization."
	}

	cookies := make(map[string]string, len(cfg.Cookies)+1)
	for k, v := range cfg.Cookies {
		cookies[k] = v
	}
	if cfg.CookieEnv != nil {
		if value := os.Getenv(cfg.CookieEnv.EnvVar); value != "" {
			cookies[cfg.CookieEnv.Name] = value
		}
	}

	sampler := &reduce.Sampler{Rand: cfg.Rand}
	t := &ScrapeWebsiteTool{
		name: name,
		cfg:  cfg,
		fetcher: &source.WebFetcher{
			Client:  cfg.Client,
			Headers: cfg.Headers,
			Cookies: cookies,
			Format:  cfg.Format,
		},
		sampler: sampler,
		summarizer: &reduce.Summarizer{
			Generator:      cfg.Generator,
			PromptTemplate: reduce.WebsitePromptTemplate,
			Sampler:        *sampler,
		},
	}
	t.description = description + describeScrapeDefaults(cfg)
	return t, nil
}

func describeScrapeDefaults(cfg ScrapeWebsiteConfig) string {
	var details []string
	if cfg.WebsiteURL != "" {
		details = append(details, fmt.Sprintf("Default website: '%s'.", cfg.WebsiteURL))
	}
	details = append(details, fmt.Sprintf("Default mode: '%s'.", cfg.Mode))
	if (cfg.Mode == reduce.ModeHead || cfg.Mode == reduce.ModeRandomChunks) && cfg.MaxChars > 0 {
		details = append(details, fmt.Sprintf("Default 'max_chars': %d.", cfg.MaxChars))
	}
	if cfg.Mode == reduce.ModeSummarize {
		details = append(details, "Configured for summarization with a default LLM.")
	}
	return " " + strings.Join(details, " ")
}

func (t *ScrapeWebsiteTool) Name() string        { return t.name }
func (t *ScrapeWebsiteTool) Description() string { return t.description }

func (t *ScrapeWebsiteTool) ArgsSchema() string {
	if t.cfg.AllowOverrides {
		return webArgsSchemaOverridable
	}
	return webArgsSchemaFixed
}

// Invoke runs one scrape. The returned envelope always has exactly one of
// scraped_content/error_message set.
func (t *ScrapeWebsiteTool) Invoke(ctx context.Context, args []byte) (env Envelope) {
	logger := log.With().
		Str("tool", t.name).
		Str("invocation_id", uuid.NewString()).
		Logger()

	run := t.cfg
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Msgf("Unexpected failure: %v", r)
			env = errorEnvelope(webEnvelopeKeys, fmt.Sprintf("unexpected failure: %v", r), run.WebsiteURL, run.Mode)
		}
	}()

	parsed, err := parseCallArgs(args)
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected argument payload")
		return errorEnvelope(webEnvelopeKeys, err.Error(), run.WebsiteURL, run.Mode)
	}

	if parsed.WebsiteURL != "" {
		run.WebsiteURL = parsed.WebsiteURL
	}
	if t.cfg.AllowOverrides {
		if parsed.Mode != "" {
			run.Mode = parsed.Mode
		}
		if parsed.MaxChars > 0 {
			run.MaxChars = parsed.MaxChars
		}
		if err := run.validate(); err != nil {
			logger.Warn().Err(err).Msg("Rejected per-call overrides")
			return errorEnvelope(webEnvelopeKeys, err.Error(), run.WebsiteURL, run.Mode)
		}
	}

	if run.WebsiteURL == "" {
		return errorEnvelope(webEnvelopeKeys, "Website canonical URL is required.", "", run.Mode)
	}

	logger.Debug().
		Str("url", run.WebsiteURL).
		Str("mode", string(run.Mode)).
		Msg("Scraping website")

	content, err := t.retrieve(ctx, run)
	if err != nil {
		logger.Warn().Err(err).Str("url", run.WebsiteURL).Msg("Scrape failed")
		return errorEnvelope(webEnvelopeKeys, err.Error(), run.WebsiteURL, run.Mode)
	}
	return successEnvelope(webEnvelopeKeys, content, run.WebsiteURL, run.Mode)
}

func (t *ScrapeWebsiteTool) retrieve(ctx context.Context, run ScrapeWebsiteConfig) (string, error) {
	text, err := t.fetcher.Fetch(ctx, run.WebsiteURL)
	if err != nil {
		return "", err
	}
	if text == "" {
		return emptyPageContent, nil
	}

	budget := reduce.EffectiveBudget(run.Mode, run.MaxChars)
	switch run.Mode {
	case reduce.ModeFull:
		return text, nil
	case reduce.ModeHead:
		return reduce.Head(text, budget), nil
	case reduce.ModeRandomChunks:
		return t.sampler.Sample(text, budget), nil
	case reduce.ModeSummarize:
		return t.summarizer.Summarize(ctx, text, budget)
	default:
		return "", &reduce.ConfigError{Reason: fmt.Sprintf("unknown retrieval mode '%s'", run.Mode)}
	}
}

const webArgsSchemaFixed = `{
  "type": "object",
  "properties": {
    "website_url": {
      "type": "string",
      "description": "Mandatory website canonical URL to scrape."
    }
  },
  "required": ["website_url"]
}`

const webArgsSchemaOverridable = `{
  "type": "object",
  "properties": {
    "website_url": {
      "type": "string",
      "description": "Mandatory website canonical URL to scrape."
    },
    "retrieval_mode": {
      "type": "string",
      "enum": ["full", "head", "random_chunks", "summarize"],
      "description": "Strategy for retrieving website content."
    },
    "max_chars": {
      "type": "integer",
      "description": "Maximum characters for 'head' or 'random_chunks' modes."
    }
  },
  "required": ["website_url"]
}`
