package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// CreateMultiple saves a full deck in one operation. The cards must
	// already satisfy the deck quota; the store validates each card's
	// fields but not the deck cardinality.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// GetByID retrieves a flashcard by its unique ID.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// FindByDocument retrieves the deck generated for a document, in
	// insertion order. Returns an empty slice if none exist.
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]*domain.Flashcard, error)

	// DeleteByDocument removes every flashcard generated for a document.
	// Used when a generation is re-run.
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error

	// WithTx returns a new FlashcardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FlashcardStore
}

// QuizStore defines the interface for quiz persistence. A document has at
// most one quiz; regeneration replaces it.
type QuizStore interface {
	// Replace atomically swaps the document's quiz for the given questions.
	Replace(ctx context.Context, documentID uuid.UUID, questions []*domain.QuizQuestion) error

	// FindByDocument retrieves the quiz questions for a document in
	// ordinal order. Returns ErrQuizNotFound if no quiz exists.
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]*domain.QuizQuestion, error)

	// WithTx returns a new QuizStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) QuizStore
}

// NotesStore defines the interface for study-notes persistence. A document
// has at most one notes document; regeneration replaces it.
type NotesStore interface {
	// Save inserts or replaces the notes for the document they reference.
	Save(ctx context.Context, notes *domain.StudyNotes) error

	// GetByDocument retrieves the study notes for a document.
	// Returns ErrNotesNotFound if no notes exist.
	GetByDocument(ctx context.Context, documentID uuid.UUID) (*domain.StudyNotes, error)

	// WithTx returns a new NotesStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) NotesStore
}

// SummaryStore defines the interface for summary persistence. A document
// has at most one summary; regeneration replaces it.
type SummaryStore interface {
	// Save inserts or replaces the summary for the document it references.
	Save(ctx context.Context, summary *domain.Summary) error

	// GetByDocument retrieves the summary for a document.
	// Returns ErrSummaryNotFound if no summary exists.
	GetByDocument(ctx context.Context, documentID uuid.UUID) (*domain.Summary, error)

	// WithTx returns a new SummaryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SummaryStore
}
