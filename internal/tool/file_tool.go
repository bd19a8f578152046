// File reading tool.
package tool

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mouramax/versatile-retrieval/internal/reduce"
	"github.com/mouramax/versatile-retrieval/internal/source"
)

// FileReadConfig configures a FileReadTool. Validated once by
// NewFileReadTool; the tool is immutable afterwards.
type FileReadConfig struct {
	// Name/Description override the default tool surface metadata.
	Name        string
	Description string

	// FilePath is the default file to read. Callers may override it per
	// call; when empty it must be provided at call time.
	FilePath string

	// Mode is the retrieval strategy. Defaults to full.
	Mode reduce.Mode

	// StartLine/LineCount apply to full mode only. StartLine defaults to 1;
	// LineCount 0 reads to end of file.
	StartLine int
	LineCount int

	// MaxChars is the character budget. Required for head and
	// random_chunks modes; optional for summarize.
	MaxChars int

	// Generator is the text-generation backend. Required for summarize.
	Generator reduce.TextGenerator

	// AllowOverrides enables the per-call override strategy: argument
	// payloads may change mode, budget and line range, and the merged
	// configuration is re-validated on every call. When false only the
	// file path varies per call.
	AllowOverrides bool

	// Rand seeds chunk selection for deterministic tests. Nil uses the
	// shared unseeded source.
	Rand *rand.Rand
}

func (c *FileReadConfig) validate() error {
	if c.Mode == "" {
		c.Mode = reduce.ModeFull
	}
	if _, err := reduce.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.StartLine == 0 {
		c.StartLine = 1
	}
	if c.StartLine < 0 || c.LineCount < 0 || c.MaxChars < 0 {
		return &reduce.ConfigError{Reason: "line numbers and budgets must be positive"}
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

// FileReadTool reads file content with full, head, random_chunks or
// summarize strategies.
type FileReadTool struct {
	name        string
	description string
	cfg         FileReadConfig
	sampler     *reduce.Sampler
	summarizer  *reduce.Summarizer
}

// NewFileReadTool validates cfg and builds the tool. Configuration problems
// surface here, never at invocation time.
func NewFileReadTool(cfg FileReadConfig) (*FileReadTool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = "File Reading Tool"
	}
	description := cfg.Description
	if description == "" {
		description = "Reads file content with various strategies like full read, head " +
			"truncation, random chunks, or summarization."
	}

	sampler := &reduce.Sampler{Rand: cfg.Rand}
	t := &FileReadTool{
		name:    name,
		cfg:     cfg,
		sampler: sampler,
		summarizer: &reduce.Summarizer{
			Generator: cfg.Generator,
			Sampler:   *sampler,
		},
	}
	t.description = description + describeFileDefaults(cfg)
	return t, nil
}

// describeFileDefaults renders the configured defaults into the capability
// string shown to the agent.
func describeFileDefaults(cfg FileReadConfig) string {
	var details []string
	if cfg.FilePath != "" {
		details = append(details, fmt.Sprintf("Default file: '%s'.", cfg.FilePath))
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

func (t *FileReadTool) Name() string        { return t.name }
func (t *FileReadTool) Description() string { return t.description }

func (t *FileReadTool) ArgsSchema() string {
	if t.cfg.AllowOverrides {
		return fileArgsSchemaOverridable
	}
	return fileArgsSchemaFixed
}

// Invoke runs one file retrieval. The returned envelope always has exactly
// one of read_content/error_message set.
func (t *FileReadTool) Invoke(ctx context.Context, args []byte) (env Envelope) {
	logger := log.With().
		Str("tool", t.name).
		Str("invocation_id", uuid.NewString()).
		Logger()

	run := t.cfg
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Msgf("Unexpected failure: %v", r)
			env = errorEnvelope(fileEnvelopeKeys, fmt.Sprintf("unexpected failure: %v", r), run.FilePath, run.Mode)
		}
	}()

	parsed, err := parseCallArgs(args)
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected argument payload")
		return errorEnvelope(fileEnvelopeKeys, err.Error(), run.FilePath, run.Mode)
	}

	if parsed.FilePath != "" {
		run.FilePath = parsed.FilePath
	}
	if t.cfg.AllowOverrides {
		if parsed.Mode != "" {
			run.Mode = parsed.Mode
		}
		if parsed.StartLine > 0 {
			run.StartLine = parsed.StartLine
		}
		if parsed.LineCount > 0 {
			run.LineCount = parsed.LineCount
		}
		if parsed.MaxChars > 0 {
			run.MaxChars = parsed.MaxChars
		}
		if err := run.validate(); err != nil {
			logger.Warn().Err(err).Msg("Rejected per-call overrides")
			return errorEnvelope(fileEnvelopeKeys, err.Error(), run.FilePath, run.Mode)
		}
	}

	if run.FilePath == "" {
		return errorEnvelope(fileEnvelopeKeys, "File path is required.", "", run.Mode)
	}

	logger.Debug().
		Str("path", run.FilePath).
		Str("mode", string(run.Mode)).
		Msg("Reading file")

	content, err := t.retrieve(ctx, run)
	if err != nil {
		logger.Warn().Err(err).Str("path", run.FilePath).Msg("File retrieval failed")
		return errorEnvelope(fileEnvelopeKeys, err.Error(), run.FilePath, run.Mode)
	}
	return successEnvelope(fileEnvelopeKeys, content, run.FilePath, run.Mode)
}

func (t *FileReadTool) retrieve(ctx context.Context, run FileReadConfig) (string, error) {
	content, err := source.ReadFile(run.FilePath)
	if err != nil {
		return "", err
	}

	budget := reduce.EffectiveBudget(run.Mode, run.MaxChars)
	switch run.Mode {
	case reduce.ModeFull:
		return source.ExtractLineRange(content, run.StartLine, run.LineCount)
	case reduce.ModeHead:
		return reduce.Head(content, budget), nil
	case reduce.ModeRandomChunks:
		return t.sampler.Sample(content, budget), nil
	case reduce.ModeSummarize:
		return t.summarizer.Summarize(ctx, content, budget)
	default:
		return "", &reduce.ConfigError{Reason: fmt.Sprintf("unknown retrieval mode '%s'", run.Mode)}
	}
}

const fileArgsSchemaFixed = `{
  "type": "object",
  "properties": {
    "file_path": {
      "type": "string",
      "description": "Full path to the file to read."
    }
  },
  "required": ["file_path"]
}`

const fileArgsSchemaOverridable = `{
  "type": "object",
  "properties": {
    "file_path": {
      "type": "string",
      "description": "Full path to the file to read."
    },
    "retrieval_mode": {
      "type": "string",
      "enum": ["full", "head", "random_chunks", "summarize"],
      "description": "Strategy for retrieving file content."
    },
    "start_line": {
      "type": "integer",
      "description": "Line number to start reading from (1-indexed). Primarily used in 'full' mode."
    },
    "line_count": {
      "type": "integer",
      "description": "Number of lines to read. Primarily used in 'full' mode."
    },
    "max_chars": {
      "type": "integer",
      "description": "Maximum characters for 'head' or 'random_chunks' modes."
    }
  },
  "required": ["file_path"]
}`
