package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DocumentStatus represents the processing state of a source document
type DocumentStatus string

// Possible document status values
const (
	DocumentStatusPending             DocumentStatus = "pending"
	DocumentStatusProcessing          DocumentStatus = "processing"
	DocumentStatusCompleted           DocumentStatus = "completed"
	DocumentStatusCompletedWithErrors DocumentStatus = "completed_with_errors"
	DocumentStatusFailed              DocumentStatus = "failed"
)

// Common validation errors for Document
var (
	ErrDocumentIDEmpty       = errors.New("document ID cannot be empty")
	ErrDocumentUserIDEmpty   = errors.New("document user ID cannot be empty")
	ErrDocumentTextEmpty     = errors.New("document text cannot be empty")
	ErrInvalidDocumentStatus = errors.New("invalid document status")
)

// Approximate words per printed page, used to derive a page count from raw
// text when the client does not supply one. Summary length rules are
// expressed in pages, so the estimate only needs to be ballpark.
const wordsPerPage = 400

// Document represents a source text submitted by a user to generate study
// materials from. It tracks both the original content and the processing
// state of the asynchronous generation pipeline.
type Document struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Text      string         `json:"text"`
	PageCount int            `json:"page_count"`
	Status    DocumentStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewDocument creates a new Document with the given user ID and text.
// It generates a new UUID for the document ID, sets the status to pending,
// and sets the creation/update timestamps. A non-positive pageCount is
// replaced with an estimate derived from the text length.
// Returns an error if validation fails.
func NewDocument(userID uuid.UUID, text string, pageCount int) (*Document, error) {
	if pageCount <= 0 {
		pageCount = EstimatePageCount(text)
	}

	doc := &Document{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		PageCount: pageCount,
		Status:    DocumentStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the Document has valid data.
// Returns an error if any field fails validation.
func (d *Document) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDocumentIDEmpty
	}

	if d.UserID == uuid.Nil {
		return ErrDocumentUserIDEmpty
	}

	if d.Text == "" {
		return ErrDocumentTextEmpty
	}

	if !isValidDocumentStatus(d.Status) {
		return ErrInvalidDocumentStatus
	}

	return nil
}

// UpdateStatus updates the document's status and the UpdatedAt timestamp.
// Returns an error if the new status is invalid.
func (d *Document) UpdateStatus(status DocumentStatus) error {
	if !isValidDocumentStatus(status) {
		return ErrInvalidDocumentStatus
	}

	d.Status = status
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// ValidateDocumentStatus checks a status value on its own, for callers
// updating status without a full Document in hand.
func ValidateDocumentStatus(status DocumentStatus) error {
	if !isValidDocumentStatus(status) {
		return ErrInvalidDocumentStatus
	}
	return nil
}

// EstimatePageCount derives an approximate printed page count from raw text.
// Always returns at least 1 for non-empty text.
func EstimatePageCount(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		switch r {
		case ' ', '\t', '\n', '\r':
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}

	if words == 0 {
		return 0
	}

	pages := words / wordsPerPage
	if words%wordsPerPage != 0 {
		pages++
	}
	return pages
}

// isValidDocumentStatus checks if the given status is a valid DocumentStatus.
func isValidDocumentStatus(status DocumentStatus) bool {
	switch status {
	case DocumentStatusPending, DocumentStatusProcessing, DocumentStatusCompleted,
		DocumentStatusCompletedWithErrors, DocumentStatusFailed:
		return true
	default:
		return false
	}
}
