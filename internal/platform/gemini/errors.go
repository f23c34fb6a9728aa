package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyDocumentText is returned when a document's text is empty.
	ErrEmptyDocumentText = errors.New("document text cannot be empty")
)
