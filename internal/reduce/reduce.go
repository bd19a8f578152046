// Package reduce implements the content-reduction core shared by the
// retrieval tools.
//
// Given a raw text blob and a character budget, the core decides which
// subset of the blob to return:
//   - Head:         leading characters only
//   - RandomChunks: first block + last block + random middle blocks
//   - Summarize:    LLM summary of a random-chunks excerpt, with retries
//
// Budgets count Unicode characters, not bytes. Text that already fits a
// budget is always returned unchanged.
package reduce

import (
	"math/rand/v2"
	"sort"
	"strings"
)

const (
	// BlockSize is the length of one sampling block in characters.
	BlockSize = 1000

	// MinRandomChunksBudget floors the random-chunks budget so at least
	// three blocks' worth of content is selectable.
	MinRandomChunksBudget = 3000

	// blockSeparator joins selected blocks and marks omitted content.
	blockSeparator = "..."
)

// Mode selects the retrieval strategy.
type Mode string

const (
	ModeFull         Mode = "full"
	ModeHead         Mode = "head"
	ModeRandomChunks Mode = "random_chunks"
	ModeSummarize    Mode = "summarize"
)

// ParseMode validates a mode string as received from configuration or a
// tool-call argument payload.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFull, ModeHead, ModeRandomChunks, ModeSummarize:
		return Mode(s), nil
	}
	return "", &ConfigError{Reason: "unknown retrieval mode '" + s + "'"}
}

// EffectiveBudget applies the mode-specific floor/default to a configured
// character budget. maxChars == 0 means "not configured".
//
//	Head:         budget as configured (caller must require it)
//	RandomChunks: max(budget, 3000)
//	Summarize:    max(budget or 34000, 3000)
func EffectiveBudget(mode Mode, maxChars int) int {
	switch mode {
	case ModeRandomChunks:
		return max(maxChars, MinRandomChunksBudget)
	case ModeSummarize:
		if maxChars == 0 {
			maxChars = SummaryInternalBudget
		}
		return max(maxChars, MinRandomChunksBudget)
	default:
		return maxChars
	}
}

// Head returns the leading budget characters of text. A pure character
// slice, no word or line boundary awareness.
func Head(text string, budget int) string {
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}

// Blocks partitions text into BlockSize-character blocks. The final block
// may be shorter. Block 0 starts at the text's first character.
func Blocks(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	blocks := make([]string, 0, (len(runes)+BlockSize-1)/BlockSize)
	for i := 0; i < len(runes); i += BlockSize {
		end := min(i+BlockSize, len(runes))
		blocks = append(blocks, string(runes[i:end]))
	}
	return blocks
}

// Sampler builds representative excerpts from oversized text. The zero
// value uses the shared unseeded random source; tests inject a seeded
// *rand.Rand for reproducible middle-block selection.
type Sampler struct {
	Rand *rand.Rand
}

// Sample returns a budget-bounded excerpt of text built from BlockSize
// blocks: always the first block, the last block when more than one block
// is wanted, and uniformly random middle blocks for the remaining slots.
// Selected blocks are joined in original order with "..." separators; a
// trailing "..." marks omitted content. The result never exceeds budget
// characters.
func (s *Sampler) Sample(text string, budget int) string {
	if text == "" {
		return ""
	}
	if len([]rune(text)) <= budget {
		return text
	}

	blocks := Blocks(text)
	wanted := budget / BlockSize
	if wanted < 1 && budget > 0 {
		wanted = 1
	}

	if len(blocks) <= wanted {
		joined := strings.Join(blocks, blockSeparator) + blockSeparator
		return Head(joined, budget)
	}

	selected := map[int]bool{0: true}
	if wanted > 1 && len(blocks) > 1 {
		selected[len(blocks)-1] = true
	}

	needed := wanted - len(selected)
	if needed > 0 && len(blocks) > 2 {
		middle := make([]int, 0, len(blocks)-2)
		for i := 1; i < len(blocks)-1; i++ {
			middle = append(middle, i)
		}
		s.shuffle(middle)
		for i := 0; i < min(needed, len(middle)); i++ {
			selected[middle[i]] = true
		}
	}

	indices := make([]int, 0, len(selected))
	for i := range selected {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = blocks[idx]
	}

	out := strings.Join(parts, blockSeparator)
	if len(parts) > 1 && len(blocks) > wanted {
		out += blockSeparator
	}
	return Head(out, budget)
}

func (s *Sampler) shuffle(indices []int) {
	if s.Rand != nil {
		s.Rand.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		return
	}
	rand.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}
