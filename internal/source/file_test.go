package source_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouramax/versatile-retrieval/internal/source"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\nworld\n"), 0o600))

	content, err := source.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", content)
}

func TestReadFile_NotFound(t *testing.T) {
	_, err := source.ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	var notFound *source.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, strings.ToLower(err.Error()), "not found")
}

func TestReadFile_ReplacesInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "binaryish.txt")
	require.NoError(t, os.WriteFile(path, []byte{'o', 'k', 0xff, 0xfe, '!'}, 0o600))

	content, err := source.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(content, "ok"))
	assert.Contains(t, content, "�", "undecodable bytes are replaced, not fatal")
	assert.True(t, strings.HasSuffix(content, "!"))
}

func TestExtractLineRange(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		startLine int
		lineCount int
		want      string
		wantRange bool
	}{
		{"whole file fast path", "a\nb\nc\n", 1, 0, "a\nb\nc\n", false},
		{"start beyond end", "a\nb\n", 5, 0, "", true},
		{"empty content start 1", "", 1, 0, "", false},
		{"empty content start 2", "", 2, 0, "", true},
		{"middle slice", "a\nb\nc\nd\n", 2, 2, "b\nc\n", false},
		{"count past end", "a\nb\nc\n", 2, 10, "b\nc\n", false},
		{"from line to end", "a\nb\nc\n", 2, 0, "b\nc\n", false},
		{"no trailing newline", "a\nb", 2, 0, "b", false},
		{"count of one", "a\nb\nc\n", 1, 1, "a\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := source.ExtractLineRange(tt.content, tt.startLine, tt.lineCount)
			if tt.wantRange {
				var rangeErr *source.RangeError
				require.ErrorAs(t, err, &rangeErr)
				assert.Equal(t, tt.startLine, rangeErr.StartLine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
