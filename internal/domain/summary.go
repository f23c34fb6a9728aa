package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SummaryMethod distinguishes how a summary was produced.
type SummaryMethod string

// Possible summary methods
const (
	// SummaryMethodExtractive selects existing sentences verbatim.
	SummaryMethodExtractive SummaryMethod = "extractive"
	// SummaryMethodAbstractive generates new sentences that paraphrase
	// the source content.
	SummaryMethodAbstractive SummaryMethod = "abstractive"
)

// Summary-specific validation errors
var (
	ErrSummaryIDEmpty         = errors.New("summary ID cannot be empty")
	ErrSummaryUserIDEmpty     = errors.New("summary user ID cannot be empty")
	ErrSummaryDocumentIDEmpty = errors.New("summary document ID cannot be empty")
	ErrSummaryEmpty           = errors.New("summary must contain at least one paragraph")
	ErrInvalidSummaryMethod   = errors.New("invalid summary method")
)

// Summary represents a condensed rendition of a document, one or more
// paragraphs long depending on the source length.
type Summary struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	DocumentID uuid.UUID     `json:"document_id"`
	Method     SummaryMethod `json:"method"`
	Paragraphs []string      `json:"paragraphs"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// NewSummary creates a new Summary and validates it.
func NewSummary(
	userID, documentID uuid.UUID,
	method SummaryMethod,
	paragraphs []string,
) (*Summary, error) {
	s := &Summary{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Method:     method,
		Paragraphs: paragraphs,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the Summary has valid data.
// Returns an error if any field fails validation.
func (s *Summary) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSummaryIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSummaryUserIDEmpty
	}

	if s.DocumentID == uuid.Nil {
		return ErrSummaryDocumentIDEmpty
	}

	if !isValidSummaryMethod(s.Method) {
		return ErrInvalidSummaryMethod
	}

	if len(s.Paragraphs) == 0 {
		return ErrSummaryEmpty
	}

	for _, p := range s.Paragraphs {
		if p == "" {
			return ErrSummaryEmpty
		}
	}

	return nil
}

// isValidSummaryMethod checks if the given method is a valid SummaryMethod.
func isValidSummaryMethod(m SummaryMethod) bool {
	switch m {
	case SummaryMethodExtractive, SummaryMethodAbstractive:
		return true
	default:
		return false
	}
}
