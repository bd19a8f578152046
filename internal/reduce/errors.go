// Error taxonomy for the reduction core.
//
// ConfigError is raised once at tool construction and never retried.
// ErrEmptyContent and SummaryError belong to the summarization pipeline;
// acquisition errors live with the source collaborators.
package reduce

import (
	"errors"
	"fmt"
)

// ErrEmptyContent reports that nothing usable remained to summarize after
// sampling and trimming.
var ErrEmptyContent = errors.New("no content extracted to summarize")

// ConfigError reports an invalid retrieval configuration, e.g. a missing
// budget for head mode or a missing generator for summarize mode.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// SummaryError reports that the text generator failed to produce a valid
// summary within the attempt limit. It carries the most recent diagnostic:
// either the last call error or the last invalid output (clipped).
type SummaryError struct {
	Attempts   int
	LastOutput string
	LastErr    error
}

func (e *SummaryError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("LLM call failed after %d attempts: %v", e.Attempts, e.LastErr)
	}
	if e.LastOutput != "" {
		return fmt.Sprintf(
			"LLM failed to generate a valid summary after %d attempts (last output: %q)",
			e.Attempts, e.LastOutput,
		)
	}
	return fmt.Sprintf(
		"LLM failed to generate a valid summary after %d attempts (e.g., summary too short or empty response)",
		e.Attempts,
	)
}

func (e *SummaryError) Unwrap() error {
	return e.LastErr
}
