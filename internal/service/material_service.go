package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/domain/schema"
	"github.com/studygen/studygen-api/internal/render"
	"github.com/studygen/studygen-api/internal/store"
	"github.com/studygen/studygen-api/internal/task"
)

// MaterialRepository defines the persistence interface the material service
// needs. It aggregates the per-kind stores so saves that touch several
// tables can share one transaction.
type MaterialRepository interface {
	// ReplaceQuiz atomically swaps the document's quiz for the given questions
	ReplaceQuiz(ctx context.Context, documentID uuid.UUID, questions []*domain.QuizQuestion) error

	// GetQuiz retrieves the quiz questions for a document in ordinal order
	GetQuiz(ctx context.Context, documentID uuid.UUID) ([]*domain.QuizQuestion, error)

	// ReplaceDeck removes any existing deck for the document and stores the new one
	ReplaceDeck(ctx context.Context, documentID uuid.UUID, cards []*domain.Flashcard) error

	// GetDeck retrieves the flashcard deck for a document in insertion order
	GetDeck(ctx context.Context, documentID uuid.UUID) ([]*domain.Flashcard, error)

	// SaveNotes inserts or replaces the notes for the document they reference
	SaveNotes(ctx context.Context, notes *domain.StudyNotes) error

	// GetNotes retrieves the study notes for a document
	GetNotes(ctx context.Context, documentID uuid.UUID) (*domain.StudyNotes, error)

	// SaveSummary inserts or replaces the summary for the document it references
	SaveSummary(ctx context.Context, summary *domain.Summary) error

	// GetSummary retrieves the summary for a document
	GetSummary(ctx context.Context, documentID uuid.UUID) (*domain.Summary, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) MaterialRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// MaterialService provides operations over generated study materials.
type MaterialService interface {
	// SaveQuiz validates the question mix and replaces the document's quiz
	SaveQuiz(ctx context.Context, documentID uuid.UUID, questions []*domain.QuizQuestion) error

	// SaveDeck validates the difficulty distribution and replaces the
	// document's flashcard deck
	SaveDeck(ctx context.Context, cards []*domain.Flashcard) error

	// SaveNotes validates cardinalities and stores the study notes
	SaveNotes(ctx context.Context, notes *domain.StudyNotes) error

	// SaveSummary stores a summary
	SaveSummary(ctx context.Context, summary *domain.Summary) error

	// GetQuiz retrieves a document's quiz
	GetQuiz(ctx context.Context, documentID uuid.UUID) ([]*domain.QuizQuestion, error)

	// GetDeck retrieves a document's flashcard deck
	GetDeck(ctx context.Context, documentID uuid.UUID) ([]*domain.Flashcard, error)

	// GetNotes retrieves a document's study notes
	GetNotes(ctx context.Context, documentID uuid.UUID) (*domain.StudyNotes, error)

	// GetSummary retrieves a document's summary
	GetSummary(ctx context.Context, documentID uuid.UUID) (*domain.Summary, error)

	// CreateFlashcardsFromNotes builds a five-card deck from the flagged
	// concepts of study notes and stores it as the document's deck. When
	// source holds a rendered notes Markdown document its flagged list is
	// parsed; otherwise the stored notes for the document are used. High
	// priority concepts are selected before medium ones.
	CreateFlashcardsFromNotes(
		ctx context.Context,
		userID, documentID uuid.UUID,
		source []byte,
	) ([]*domain.Flashcard, error)
}

// Common sentinel errors for MaterialService
var (
	// ErrMaterialNotFound indicates the requested material has not been
	// generated for the document
	ErrMaterialNotFound = errors.New("material not found")
)

// MaterialServiceError wraps errors from the material service with context.
type MaterialServiceError struct {
	// Operation is the operation that failed (e.g., "save_quiz")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for MaterialServiceError.
func (e *MaterialServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("material service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("material service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *MaterialServiceError) Unwrap() error {
	return e.Err
}

// NewMaterialServiceError creates a new MaterialServiceError.
// It returns known sentinel errors directly without wrapping.
func NewMaterialServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrMaterialNotFound) || errors.Is(err, ErrNotOwned) {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrMaterialNotFound
	}
	// Quota and selection errors keep their identity so the API layer can
	// map them to client-facing messages.
	if errors.Is(err, schema.ErrQuotaViolation) || errors.Is(err, schema.ErrInsufficientConcepts) {
		return err
	}

	return &MaterialServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// materialServiceImpl implements the MaterialService interface
type materialServiceImpl struct {
	materialRepo MaterialRepository
	schema       schema.Service
	logger       *slog.Logger
}

// Interface guard: the task layer consumes material services through its
// own narrower interface.
var _ task.MaterialService = (MaterialService)(nil)

// NewMaterialService creates a new MaterialService.
// It returns an error if the repository is nil.
func NewMaterialService(
	materialRepo MaterialRepository,
	logger *slog.Logger,
) (MaterialService, error) {
	if materialRepo == nil {
		return nil, &MaterialServiceError{
			Operation: "create_service",
			Message:   "materialRepo cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &materialServiceImpl{
		materialRepo: materialRepo,
		schema:       schema.NewDefaultService(),
		logger:       logger.With("component", "material_service"),
	}, nil
}

// SaveQuiz validates the quiz against the authored quotas and replaces the
// document's quiz inside a transaction.
func (s *materialServiceImpl) SaveQuiz(
	ctx context.Context,
	documentID uuid.UUID,
	questions []*domain.QuizQuestion,
) error {
	if err := s.schema.ValidateQuiz(questions); err != nil {
		s.logger.Error("quiz failed quota validation",
			"error", err,
			"document_id", documentID)
		return NewMaterialServiceError("save_quiz", "quiz failed validation", err)
	}

	err := store.RunInTransaction(ctx, s.materialRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		if err := s.materialRepo.WithTx(tx).ReplaceQuiz(ctx, documentID, questions); err != nil {
			return NewMaterialServiceError("save_quiz", "failed to save quiz", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("quiz saved",
		"document_id", documentID,
		"question_count", len(questions))
	return nil
}

// SaveDeck validates the deck's difficulty distribution and replaces the
// document's deck inside a transaction. The document is taken from the
// cards themselves.
func (s *materialServiceImpl) SaveDeck(ctx context.Context, cards []*domain.Flashcard) error {
	if err := s.schema.ValidateDeck(cards); err != nil {
		s.logger.Error("deck failed quota validation", "error", err)
		return NewMaterialServiceError("save_deck", "deck failed validation", err)
	}

	documentID := cards[0].DocumentID
	err := store.RunInTransaction(ctx, s.materialRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		if err := s.materialRepo.WithTx(tx).ReplaceDeck(ctx, documentID, cards); err != nil {
			return NewMaterialServiceError("save_deck", "failed to save deck", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("flashcard deck saved",
		"document_id", documentID,
		"card_count", len(cards))
	return nil
}

// SaveNotes validates section and flagged-concept cardinalities and stores
// the notes.
func (s *materialServiceImpl) SaveNotes(ctx context.Context, notes *domain.StudyNotes) error {
	if err := s.schema.ValidateNotes(notes); err != nil {
		s.logger.Error("notes failed quota validation", "error", err)
		return NewMaterialServiceError("save_notes", "notes failed validation", err)
	}

	if err := s.materialRepo.SaveNotes(ctx, notes); err != nil {
		s.logger.Error("failed to save notes",
			"error", err,
			"document_id", notes.DocumentID)
		return NewMaterialServiceError("save_notes", "failed to save notes", err)
	}

	s.logger.Info("study notes saved",
		"document_id", notes.DocumentID,
		"section_count", len(notes.Sections))
	return nil
}

// SaveSummary stores a summary. Length validation against the source page
// count happens at generation time; here only field integrity is checked.
func (s *materialServiceImpl) SaveSummary(ctx context.Context, summary *domain.Summary) error {
	if summary == nil {
		return NewMaterialServiceError("save_summary", "summary failed validation",
			errors.New("summary cannot be nil"))
	}
	if err := summary.Validate(); err != nil {
		s.logger.Error("summary failed validation", "error", err)
		return NewMaterialServiceError("save_summary", "summary failed validation", err)
	}

	if err := s.materialRepo.SaveSummary(ctx, summary); err != nil {
		s.logger.Error("failed to save summary",
			"error", err,
			"document_id", summary.DocumentID)
		return NewMaterialServiceError("save_summary", "failed to save summary", err)
	}

	s.logger.Info("summary saved",
		"document_id", summary.DocumentID,
		"paragraph_count", len(summary.Paragraphs))
	return nil
}

// GetQuiz retrieves a document's quiz.
func (s *materialServiceImpl) GetQuiz(
	ctx context.Context,
	documentID uuid.UUID,
) ([]*domain.QuizQuestion, error) {
	questions, err := s.materialRepo.GetQuiz(ctx, documentID)
	if err != nil {
		return nil, NewMaterialServiceError("get_quiz", "failed to retrieve quiz", err)
	}
	return questions, nil
}

// GetDeck retrieves a document's flashcard deck.
func (s *materialServiceImpl) GetDeck(
	ctx context.Context,
	documentID uuid.UUID,
) ([]*domain.Flashcard, error) {
	cards, err := s.materialRepo.GetDeck(ctx, documentID)
	if err != nil {
		return nil, NewMaterialServiceError("get_deck", "failed to retrieve deck", err)
	}
	if len(cards) == 0 {
		return nil, ErrMaterialNotFound
	}
	return cards, nil
}

// GetNotes retrieves a document's study notes.
func (s *materialServiceImpl) GetNotes(
	ctx context.Context,
	documentID uuid.UUID,
) (*domain.StudyNotes, error) {
	notes, err := s.materialRepo.GetNotes(ctx, documentID)
	if err != nil {
		return nil, NewMaterialServiceError("get_notes", "failed to retrieve notes", err)
	}
	return notes, nil
}

// GetSummary retrieves a document's summary.
func (s *materialServiceImpl) GetSummary(
	ctx context.Context,
	documentID uuid.UUID,
) (*domain.Summary, error) {
	summary, err := s.materialRepo.GetSummary(ctx, documentID)
	if err != nil {
		return nil, NewMaterialServiceError("get_summary", "failed to retrieve summary", err)
	}
	return summary, nil
}

// CreateFlashcardsFromNotes builds and stores a deck from flagged concepts.
func (s *materialServiceImpl) CreateFlashcardsFromNotes(
	ctx context.Context,
	userID, documentID uuid.UUID,
	source []byte,
) ([]*domain.Flashcard, error) {
	concepts, err := s.flaggedConcepts(ctx, userID, documentID, source)
	if err != nil {
		return nil, err
	}

	selected, err := s.schema.SelectConcepts(concepts)
	if err != nil {
		s.logger.Info("concept selection failed",
			"error", err,
			"document_id", documentID,
			"concept_count", len(concepts))
		return nil, NewMaterialServiceError("create_flashcards_from_notes", "concept selection failed", err)
	}

	cards, err := cardsFromConcepts(userID, documentID, selected)
	if err != nil {
		return nil, NewMaterialServiceError("create_flashcards_from_notes", "failed to build cards", err)
	}

	if err := s.SaveDeck(ctx, cards); err != nil {
		return nil, err
	}

	s.logger.Info("deck created from notes",
		"document_id", documentID,
		"card_count", len(cards))
	return cards, nil
}

// flaggedConcepts resolves the concept list for the cross-referencer:
// parsed from the submitted Markdown when present, otherwise read from the
// stored notes.
func (s *materialServiceImpl) flaggedConcepts(
	ctx context.Context,
	userID, documentID uuid.UUID,
	source []byte,
) ([]domain.Concept, error) {
	if len(source) > 0 {
		concepts, err := render.ParseFlaggedConcepts(source)
		if err != nil {
			s.logger.Info("failed to parse notes markdown",
				"error", err,
				"document_id", documentID)
			return nil, NewMaterialServiceError(
				"create_flashcards_from_notes", "failed to parse notes markdown", err)
		}
		return concepts, nil
	}

	notes, err := s.materialRepo.GetNotes(ctx, documentID)
	if err != nil {
		return nil, NewMaterialServiceError(
			"create_flashcards_from_notes", "failed to retrieve notes", err)
	}
	if notes.UserID != userID {
		return nil, ErrNotOwned
	}
	return notes.Flagged, nil
}

// deckDifficultyLadder maps selection rank to card difficulty: the
// highest-ranked concept becomes the hard card, the next two medium, the
// last two easy, matching the authored deck distribution.
var deckDifficultyLadder = []domain.Difficulty{
	domain.DifficultyHard,
	domain.DifficultyMedium,
	domain.DifficultyMedium,
	domain.DifficultyEasy,
	domain.DifficultyEasy,
}

// cardsFromConcepts turns selected concepts into flashcards.
func cardsFromConcepts(
	userID, documentID uuid.UUID,
	concepts []domain.Concept,
) ([]*domain.Flashcard, error) {
	if len(concepts) != len(deckDifficultyLadder) {
		return nil, fmt.Errorf("expected %d concepts, got %d", len(deckDifficultyLadder), len(concepts))
	}

	cards := make([]*domain.Flashcard, 0, len(concepts))
	for i, concept := range concepts {
		back := concept.Definition
		if back == "" && len(concept.Examples) > 0 {
			back = concept.Examples[0]
		}
		if back == "" {
			back = fmt.Sprintf("Review the study notes entry for %s.", concept.Name)
		}

		card, err := domain.NewFlashcard(
			userID, documentID,
			deckDifficultyLadder[i],
			fmt.Sprintf("What is %s?", concept.Name),
			back,
			concept.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("card for concept %q: %w", concept.Name, err)
		}
		cards = append(cards, card)
	}

	return cards, nil
}
