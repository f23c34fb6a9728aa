package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Priority is the closed priority classification for flagged concepts.
type Priority string

// Possible priority values. The markers are the emoji used when notes are
// rendered to and parsed from Markdown.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"

	PriorityHighMarker   = "🔴"
	PriorityMediumMarker = "🟡"
)

// StudyNotes-specific validation errors
var (
	ErrNotesIDEmpty           = errors.New("study notes ID cannot be empty")
	ErrNotesUserIDEmpty       = errors.New("study notes user ID cannot be empty")
	ErrNotesDocumentIDEmpty   = errors.New("study notes document ID cannot be empty")
	ErrSectionHeadingEmpty    = errors.New("note section heading cannot be empty")
	ErrSectionDefinitionEmpty = errors.New("note section definition cannot be empty")
	ErrConceptNameEmpty       = errors.New("concept name cannot be empty")
	ErrInvalidPriority        = errors.New("invalid concept priority")
)

// NoteSection is one thematic section of a study-notes document.
type NoteSection struct {
	Heading    string   `json:"heading"`
	Definition string   `json:"definition"`
	KeyPoints  []string `json:"key_points"`
	Examples   []string `json:"examples"`
}

// Validate checks if the NoteSection has valid data.
func (s *NoteSection) Validate() error {
	if s.Heading == "" {
		return ErrSectionHeadingEmpty
	}
	if s.Definition == "" {
		return ErrSectionDefinitionEmpty
	}
	return nil
}

// Concept is a flagged study concept: a named idea marked with a priority,
// optionally carrying its definition and worked examples.
type Concept struct {
	Name       string   `json:"name"`
	Priority   Priority `json:"priority"`
	Definition string   `json:"definition,omitempty"`
	Examples   []string `json:"examples,omitempty"`
}

// Validate checks if the Concept has valid data.
func (c *Concept) Validate() error {
	if c.Name == "" {
		return ErrConceptNameEmpty
	}
	if !isValidPriority(c.Priority) {
		return ErrInvalidPriority
	}
	return nil
}

// Marker returns the emoji marker for the concept's priority.
func (c *Concept) Marker() string {
	if c.Priority == PriorityHigh {
		return PriorityHighMarker
	}
	return PriorityMediumMarker
}

// ParsePriorityMarker maps a priority emoji back to its Priority value.
func ParsePriorityMarker(marker string) (Priority, error) {
	switch marker {
	case PriorityHighMarker:
		return PriorityHigh, nil
	case PriorityMediumMarker:
		return PriorityMedium, nil
	default:
		return "", fmt.Errorf("%w: unknown marker %q", ErrInvalidPriority, marker)
	}
}

// StudyNotes represents the structured notes generated from a document:
// thematic sections followed by a flagged-concept study list.
type StudyNotes struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	DocumentID uuid.UUID     `json:"document_id"`
	Title      string        `json:"title"`
	Sections   []NoteSection `json:"sections"`
	Flagged    []Concept     `json:"flagged"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// NewStudyNotes creates a new StudyNotes document and validates it.
// Cardinality rules (section and concept counts) are enforced separately by
// the schema package; this validates only field-level integrity.
func NewStudyNotes(
	userID, documentID uuid.UUID,
	title string,
	sections []NoteSection,
	flagged []Concept,
) (*StudyNotes, error) {
	n := &StudyNotes{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Title:      title,
		Sections:   sections,
		Flagged:    flagged,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the StudyNotes has valid data.
// Returns an error if any field fails validation.
func (n *StudyNotes) Validate() error {
	if n.ID == uuid.Nil {
		return ErrNotesIDEmpty
	}

	if n.UserID == uuid.Nil {
		return ErrNotesUserIDEmpty
	}

	if n.DocumentID == uuid.Nil {
		return ErrNotesDocumentIDEmpty
	}

	for i := range n.Sections {
		if err := n.Sections[i].Validate(); err != nil {
			return fmt.Errorf("section %d: %w", i+1, err)
		}
	}

	for i := range n.Flagged {
		if err := n.Flagged[i].Validate(); err != nil {
			return fmt.Errorf("flagged concept %d: %w", i+1, err)
		}
	}

	return nil
}

// isValidPriority checks if the given priority is a valid Priority.
func isValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium:
		return true
	default:
		return false
	}
}
