// Budget-constrained summarization pipeline.
//
// The summarizer feeds a random-chunks excerpt to a text generator and
// validates the result's length, retrying up to 3 times. This is the only
// component with retry semantics and the only one that can incur multiple
// external calls per invocation.
package reduce

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"
)

const (
	// SummaryInternalBudget is the sampling budget used to build the
	// summarization context when no budget is configured.
	SummaryInternalBudget = 34000

	// SummaryTargetLength caps the returned summary.
	SummaryTargetLength = 6000

	// SummaryMinValidLength is the shortest trimmed generator output
	// accepted as a summary.
	SummaryMinValidLength = 100

	// summaryMaxAttempts bounds generator calls per invocation. No backoff
	// between attempts.
	summaryMaxAttempts = 3

	// diagnosticClipLength limits invalid outputs carried in errors.
	diagnosticClipLength = 200
)

// DefaultPromptTemplate is the summarization prompt for generic text.
// It takes the target character count and the sampled context, in that order.
const DefaultPromptTemplate = "Provide a concise summary of the following text, " +
	"capturing the main points and key information. The summary should be up to " +
	"%d characters long.\n\nText:\n%s\n\nSummary:"

// WebsitePromptTemplate is the summarization prompt used for scraped pages.
const WebsitePromptTemplate = "Provide a concise summary of the following website text, " +
	"capturing the main points and key information. The summary should be up to " +
	"%d characters long.\n\nText:\n%s\n\nSummary:"

// TextGenerator maps a prompt to a generated string. Summarize mode is the
// only caller. Implementations live outside the core (see external.Generator).
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to TextGenerator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Summarizer produces bounded-length summaries of oversized text.
type Summarizer struct {
	Generator TextGenerator

	// PromptTemplate overrides DefaultPromptTemplate when set.
	PromptTemplate string

	// Sampler builds the summarization context. The zero value is usable.
	Sampler Sampler
}

// Summarize reduces text to a summary of 100..6000 characters, or fails.
// budget is the effective sampling budget for the context excerpt.
//
// Generator failures and outputs shorter than SummaryMinValidLength are
// retried up to 3 times; the returned SummaryError carries the most recent
// diagnostic.
func (s *Summarizer) Summarize(ctx context.Context, text string, budget int) (string, error) {
	if s.Generator == nil {
		return "", &ConfigError{Reason: "a text generator is required for summarize mode"}
	}

	excerpt := s.Sampler.Sample(text, budget)
	if strings.TrimSpace(excerpt) == "" {
		return "", ErrEmptyContent
	}

	tmpl := s.PromptTemplate
	if tmpl == "" {
		tmpl = DefaultPromptTemplate
	}
	prompt := fmt.Sprintf(tmpl, SummaryTargetLength, excerpt)

	log.Debug().
		Int("context_chars", len([]rune(excerpt))).
		Int("prompt_tokens", estimateTokens(prompt)).
		Msg("Calling text generator for summarization")

	var lastOutput string
	var lastErr error
	for attempt := 1; attempt <= summaryMaxAttempts; attempt++ {
		raw, err := s.Generator.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			lastOutput = ""
			log.Debug().Err(err).Int("attempt", attempt).Msg("Generator call failed")
			continue
		}

		summary := strings.TrimSpace(raw)
		if len([]rune(summary)) >= SummaryMinValidLength {
			return Head(summary, SummaryTargetLength), nil
		}

		lastErr = nil
		lastOutput = Head(raw, diagnosticClipLength)
		log.Debug().
			Int("attempt", attempt).
			Int("length", len([]rune(summary))).
			Msg("Generator returned an invalid summary")
	}

	return "", &SummaryError{
		Attempts:   summaryMaxAttempts,
		LastOutput: lastOutput,
		LastErr:    lastErr,
	}
}

var (
	tokenEncOnce sync.Once
	tokenEnc     *tiktoken.Tiktoken
)

// estimateTokens counts cl100k_base tokens for diagnostics. Best effort:
// returns 0 when the encoding is unavailable.
func estimateTokens(s string) int {
	tokenEncOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.Debug().Err(err).Msg("Token encoding unavailable, skipping token counts")
			return
		}
		tokenEnc = enc
	})
	if tokenEnc == nil {
		return 0
	}
	return len(tokenEnc.Encode(s, nil, nil))
}
