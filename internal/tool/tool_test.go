package tool_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/mouramax/versatile-retrieval/internal/tool"
)

func TestEnvelope_ExactlyOneOfContentOrError(t *testing.T) {
	path := writeFile(t, "payload")
	ft, err := tool.NewFileReadTool(tool.FileReadConfig{FilePath: path})
	require.NoError(t, err)

	ok := ft.Invoke(context.Background(), nil)
	require.True(t, ok.OK())
	assert.NotEmpty(t, ok.Content)
	assert.Empty(t, ok.ErrorMessage)

	missing, err := tool.NewFileReadTool(tool.FileReadConfig{
		FilePath: filepath.Join(t.TempDir(), "gone.txt"),
	})
	require.NoError(t, err)

	failed := missing.Invoke(context.Background(), nil)
	require.False(t, failed.OK())
	assert.Empty(t, failed.Content)
	assert.NotEmpty(t, failed.ErrorMessage)
}

func TestEnvelope_JSONIsPrettyPrinted(t *testing.T) {
	path := writeFile(t, "payload")
	ft, err := tool.NewFileReadTool(tool.FileReadConfig{FilePath: path})
	require.NoError(t, err)

	payload := ft.Invoke(context.Background(), nil).JSON()
	assert.True(t, strings.HasPrefix(payload, "{\n"), "payload is indented")
	assert.True(t, gjson.Valid(payload))
	assert.Equal(t, "payload", gjson.Get(payload, "read_content").String())
	assert.False(t, gjson.Get(payload, "error_message").Exists())
}

func TestEnvelope_EmptyContentStillPopulatesContentKey(t *testing.T) {
	path := writeFile(t, "")
	ft, err := tool.NewFileReadTool(tool.FileReadConfig{FilePath: path})
	require.NoError(t, err)

	env := ft.Invoke(context.Background(), nil)
	require.True(t, env.OK(), "an empty file read is a success")

	payload := env.JSON()
	assert.True(t, gjson.Get(payload, "read_content").Exists(),
		"success keeps the content key even for empty content")
	assert.False(t, gjson.Get(payload, "error_message").Exists())
}

func TestInvokeStrict(t *testing.T) {
	path := writeFile(t, "payload")
	ft, err := tool.NewFileReadTool(tool.FileReadConfig{FilePath: path})
	require.NoError(t, err)

	env, err := tool.InvokeStrict(context.Background(), ft, nil)
	require.NoError(t, err)
	assert.Equal(t, "payload", env.Content)

	missing, err := tool.NewFileReadTool(tool.FileReadConfig{
		FilePath: filepath.Join(t.TempDir(), "gone.txt"),
	})
	require.NoError(t, err)

	env, err = tool.InvokeStrict(context.Background(), missing, nil)
	require.Error(t, err, "strict mode raises the envelope's error")
	assert.Equal(t, env.ErrorMessage, err.Error())
}

func TestInvokerInterfaceIsSatisfied(t *testing.T) {
	var _ tool.Invoker = &tool.FileReadTool{}
	var _ tool.Invoker = &tool.ScrapeWebsiteTool{}
}

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

func TestInvoke_RepairsMalformedArguments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("repaired"), 0o600))

	ft, err := tool.NewFileReadTool(tool.FileReadConfig{})
	require.NoError(t, err)

	// Unquoted key, single quotes, trailing comma: typical LLM output.
	raw := "{file_path: '" + path + "',}"
	env := ft.Invoke(context.Background(), []byte(raw))
	require.True(t, env.OK(), "malformed JSON is repaired before parsing: %s", env.ErrorMessage)
	assert.Equal(t, "repaired", env.Content)
}

func TestInvoke_RejectsUnknownModeArgument(t *testing.T) {
	ft, err := tool.NewFileReadTool(tool.FileReadConfig{AllowOverrides: true})
	require.NoError(t, err)

	env := ft.Invoke(context.Background(), []byte(`{"retrieval_mode": "tail"}`))
	require.False(t, env.OK())
	assert.Contains(t, env.ErrorMessage, "unknown retrieval mode")
}

func TestInvoke_RejectsNonPositiveIntegers(t *testing.T) {
	ft, err := tool.NewFileReadTool(tool.FileReadConfig{AllowOverrides: true})
	require.NoError(t, err)

	for _, raw := range []string{
		`{"start_line": 0}`,
		`{"line_count": -1}`,
		`{"max_chars": -100}`,
	} {
		env := ft.Invoke(context.Background(), []byte(raw))
		assert.False(t, env.OK(), "payload %s must be rejected", raw)
	}
}
