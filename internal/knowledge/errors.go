// ABOUTME: Typed load-time errors for the knowledge base
// ABOUTME: Distinguishes missing files from unrecognized document shapes
package knowledge

import "fmt"

// NotFoundError reports a missing corpus file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("knowledge base not found: %s", e.Path)
}

// FormatError reports a corpus document whose shape is not recognized.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized knowledge base format in %s: %s", e.Path, e.Reason)
}
