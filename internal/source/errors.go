// Acquisition error taxonomy. None of these are retried: a failed
// acquisition is terminal for the invocation.
package source

import "fmt"

// NotFoundError reports a missing file or unreachable resource.
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("File not found at path: %s", e.Identifier)
}

// AccessDeniedError reports insufficient permissions on the source.
type AccessDeniedError struct {
	Identifier string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("Permission denied for file: %s", e.Identifier)
}

// TransportError reports an I/O or HTTP failure while acquiring the source.
type TransportError struct {
	Identifier string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Error acquiring %s: %v", e.Identifier, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RangeError reports a line range outside the file's bounds.
type RangeError struct {
	StartLine int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("Start line %d exceeds the number of lines in the file.", e.StartLine)
}
