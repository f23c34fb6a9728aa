package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the closed difficulty classification for flashcards.
type Difficulty string

// Possible difficulty values
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Flashcard-specific validation errors
var (
	ErrFlashcardIDEmpty         = errors.New("flashcard ID cannot be empty")
	ErrFlashcardUserIDEmpty     = errors.New("flashcard user ID cannot be empty")
	ErrFlashcardDocumentIDEmpty = errors.New("flashcard document ID cannot be empty")
	ErrFlashcardFrontEmpty      = errors.New("flashcard front cannot be empty")
	ErrFlashcardBackEmpty       = errors.New("flashcard back cannot be empty")
	ErrInvalidDifficulty        = errors.New("invalid flashcard difficulty")
)

// Flashcard represents a single study card generated from a document.
// The front carries the prompt, the back the answer, and the concept tag
// links the card back to the concept it was derived from.
type Flashcard struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	DocumentID uuid.UUID  `json:"document_id"`
	Difficulty Difficulty `json:"difficulty"`
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	ConceptTag string     `json:"concept_tag"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewFlashcard creates a new Flashcard with the given owner, source
// document, difficulty, and content. It generates a new UUID for the card
// ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewFlashcard(
	userID, documentID uuid.UUID,
	difficulty Difficulty,
	front, back, conceptTag string,
) (*Flashcard, error) {
	card := &Flashcard{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
		Difficulty: difficulty,
		Front:      front,
		Back:       back,
		ConceptTag: conceptTag,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (c *Flashcard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}

	if c.DocumentID == uuid.Nil {
		return ErrFlashcardDocumentIDEmpty
	}

	if !isValidDifficulty(c.Difficulty) {
		return ErrInvalidDifficulty
	}

	if c.Front == "" {
		return ErrFlashcardFrontEmpty
	}

	if c.Back == "" {
		return ErrFlashcardBackEmpty
	}

	return nil
}

// isValidDifficulty checks if the given difficulty is a valid Difficulty.
func isValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}
