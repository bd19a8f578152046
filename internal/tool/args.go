// Per-call argument parsing.
//
// Argument payloads come from a language model, so they are frequently
// malformed JSON (unquoted keys, trailing commas, fenced blocks). Payloads
// that fail strict validation are passed through jsonrepair before parsing.
package tool

import (
	"fmt"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"

	"github.com/mouramax/versatile-retrieval/internal/reduce"
)

// callArgs is the decoded per-call argument payload. Zero values mean "not
// provided"; all integers must be positive when present.
type callArgs struct {
	FilePath   string
	WebsiteURL string
	Mode       reduce.Mode
	StartLine  int
	LineCount  int
	MaxChars   int
}

func parseCallArgs(raw []byte) (callArgs, error) {
	var args callArgs
	if len(raw) == 0 {
		return args, nil
	}

	if !gjson.ValidBytes(raw) {
		repaired, err := jsonrepair.JSONRepair(string(raw))
		if err != nil {
			return args, fmt.Errorf("malformed tool arguments: %w", err)
		}
		raw = []byte(repaired)
	}

	doc := gjson.ParseBytes(raw)
	args.FilePath = doc.Get("file_path").String()
	args.WebsiteURL = doc.Get("website_url").String()

	if mode := doc.Get("retrieval_mode"); mode.Exists() && mode.String() != "" {
		parsed, err := reduce.ParseMode(mode.String())
		if err != nil {
			return args, err
		}
		args.Mode = parsed
	}

	for _, field := range []struct {
		key  string
		dest *int
	}{
		{"start_line", &args.StartLine},
		{"line_count", &args.LineCount},
		{"max_chars", &args.MaxChars},
	} {
		res := doc.Get(field.key)
		if !res.Exists() {
			continue
		}
		v := int(res.Int())
		if v <= 0 {
			return args, fmt.Errorf("'%s' must be a positive integer", field.key)
		}
		*field.dest = v
	}

	return args, nil
}
