// Package source acquires raw text from files and web pages.
//
// Acquisition is a thin collaborator around the reduction core: each
// function produces one string per call and maps OS/HTTP failures onto the
// error taxonomy in errors.go. The core never retries acquisition.
package source

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ReadFile reads the whole file and decodes it permissively: undecodable
// byte sequences are replaced with U+FFFD rather than failing the read.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return "", &NotFoundError{Identifier: path}
		case errors.Is(err, fs.ErrPermission):
			return "", &AccessDeniedError{Identifier: path}
		default:
			return "", &TransportError{Identifier: path, Err: err}
		}
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

// ExtractLineRange returns the concatenation of lines
// [startLine, startLine+lineCount) from content, counting 1-indexed line
// boundaries in a single forward pass. lineCount == 0 means "to end of
// content".
//
// startLine == 1 with no line count returns content byte-for-byte. An empty
// content with startLine == 1 yields ""; a startLine past the last line of
// non-empty content (or > 1 on empty content) is a RangeError.
func ExtractLineRange(content string, startLine, lineCount int) (string, error) {
	if startLine == 1 && lineCount == 0 {
		return content, nil
	}

	startIdx := max(startLine-1, 0)
	reader := bufio.NewReader(strings.NewReader(content))

	var buf strings.Builder
	collected := 0
	for i := 0; ; i++ {
		line, err := reader.ReadString('\n')
		if line != "" && i >= startIdx {
			if lineCount == 0 || collected < lineCount {
				buf.WriteString(line)
				collected++
			} else {
				break
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", &TransportError{Identifier: "", Err: err}
		}
	}

	if collected == 0 && startIdx > 0 {
		return "", &RangeError{StartLine: startLine}
	}
	return buf.String(), nil
}
