// Package ingestion extracts plain text from uploaded résumé documents.
package ingestion

import (
	"errors"
	"fmt"
)

// UnsupportedTypeMessage is the client-facing message for files of an unknown type.
const UnsupportedTypeMessage = "Unsupported file type. Please upload PDF or DOCX file."

// ErrNoText is returned when a document parsed cleanly but contained no text
var ErrNoText = errors.New("no text found in the document")

// UnsupportedTypeError indicates the file extension has no text extractor
type UnsupportedTypeError struct {
	Filename string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %q", e.Filename)
}

// ExtractionError represents a document that could not be parsed
type ExtractionError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction error: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction error: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
