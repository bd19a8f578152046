// Package tool implements the two retrieval tools exposed to the hosting
// agent framework: a file reader and a website scraper. Both compose the
// reduction core in internal/reduce and differ only in acquisition and in
// their envelope key names.
//
// DESIGN: no inheritance hierarchy. Invoker is the whole framework surface;
// each tool is a plain struct validated once at construction. Failures are
// rendered into the envelope, never raised — callers that want errors use
// InvokeStrict.
package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/tidwall/sjson"

	"github.com/mouramax/versatile-retrieval/internal/reduce"
)

// Invoker is the invocation surface the agent framework calls. One call is
// one acquisition plus one reduction; no state is shared across calls.
type Invoker interface {
	// Name identifies the tool to the framework.
	Name() string

	// Description is the capability string shown to the agent, including
	// the construction-time defaults.
	Description() string

	// ArgsSchema returns the JSON schema fragment for the tool's argument
	// payload.
	ArgsSchema() string

	// Invoke runs one retrieval. args is the raw JSON argument payload;
	// every failure is rendered into the returned envelope.
	Invoke(ctx context.Context, args []byte) Envelope
}

// InvokeStrict adapts the envelope contract for callers that want errors
// raised: a failed envelope comes back alongside a non-nil error built from
// its error message.
func InvokeStrict(ctx context.Context, inv Invoker, args []byte) (Envelope, error) {
	env := inv.Invoke(ctx, args)
	if !env.OK() {
		return env, errors.New(env.ErrorMessage)
	}
	return env, nil
}

// envelopeKeys are the per-surface JSON key names.
type envelopeKeys struct {
	content string
	source  string
}

var (
	fileEnvelopeKeys = envelopeKeys{content: "read_content", source: "source_file_path"}
	webEnvelopeKeys  = envelopeKeys{content: "scraped_content", source: "source_url"}
)

// Envelope is the sole externally observable artifact of one invocation.
// Exactly one of Content/ErrorMessage is populated.
type Envelope struct {
	Content      string
	ErrorMessage string
	Source       string
	Mode         reduce.Mode

	ok   bool
	keys envelopeKeys
}

// OK reports whether the invocation succeeded.
func (e Envelope) OK() bool {
	return e.ok
}

// JSON renders the envelope with the surface's key names, omitting the
// absent content/error field and pretty-printing the result.
func (e Envelope) JSON() string {
	out := "{}"
	if e.ok {
		out, _ = sjson.Set(out, e.keys.content, e.Content)
	} else {
		out, _ = sjson.Set(out, "error_message", e.ErrorMessage)
	}
	out, _ = sjson.Set(out, e.keys.source, e.Source)
	out, _ = sjson.Set(out, "retrieval_mode_used", string(e.Mode))

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(out), "", "  "); err != nil {
		return out
	}
	return pretty.String()
}

func successEnvelope(keys envelopeKeys, content, source string, mode reduce.Mode) Envelope {
	return Envelope{Content: content, Source: source, Mode: mode, ok: true, keys: keys}
}

func errorEnvelope(keys envelopeKeys, message, source string, mode reduce.Mode) Envelope {
	return Envelope{ErrorMessage: message, Source: source, Mode: mode, keys: keys}
}
