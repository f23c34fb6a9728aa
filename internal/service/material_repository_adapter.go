package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/store"
)

// NewMaterialRepositoryAdapter creates a new adapter that composes the
// per-kind material stores into a single MaterialRepository. The database
// handle is carried alongside the stores so the service layer can open
// transactions.
func NewMaterialRepositoryAdapter(
	quizStore store.QuizStore,
	flashcardStore store.FlashcardStore,
	notesStore store.NotesStore,
	summaryStore store.SummaryStore,
	db *sql.DB,
) MaterialRepository {
	return &materialRepositoryAdapter{
		quizStore:      quizStore,
		flashcardStore: flashcardStore,
		notesStore:     notesStore,
		summaryStore:   summaryStore,
		db:             db,
	}
}

// materialRepositoryAdapter adapts the material stores to the
// MaterialRepository interface
type materialRepositoryAdapter struct {
	quizStore      store.QuizStore
	flashcardStore store.FlashcardStore
	notesStore     store.NotesStore
	summaryStore   store.SummaryStore
	db             *sql.DB
}

// ReplaceQuiz implements MaterialRepository.ReplaceQuiz
func (a *materialRepositoryAdapter) ReplaceQuiz(
	ctx context.Context,
	documentID uuid.UUID,
	questions []*domain.QuizQuestion,
) error {
	return a.quizStore.Replace(ctx, documentID, questions)
}

// GetQuiz implements MaterialRepository.GetQuiz
func (a *materialRepositoryAdapter) GetQuiz(
	ctx context.Context,
	documentID uuid.UUID,
) ([]*domain.QuizQuestion, error) {
	return a.quizStore.FindByDocument(ctx, documentID)
}

// ReplaceDeck implements MaterialRepository.ReplaceDeck
func (a *materialRepositoryAdapter) ReplaceDeck(
	ctx context.Context,
	documentID uuid.UUID,
	cards []*domain.Flashcard,
) error {
	if err := a.flashcardStore.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	return a.flashcardStore.CreateMultiple(ctx, cards)
}

// GetDeck implements MaterialRepository.GetDeck
func (a *materialRepositoryAdapter) GetDeck(
	ctx context.Context,
	documentID uuid.UUID,
) ([]*domain.Flashcard, error) {
	return a.flashcardStore.FindByDocument(ctx, documentID)
}

// SaveNotes implements MaterialRepository.SaveNotes
func (a *materialRepositoryAdapter) SaveNotes(ctx context.Context, notes *domain.StudyNotes) error {
	return a.notesStore.Save(ctx, notes)
}

// GetNotes implements MaterialRepository.GetNotes
func (a *materialRepositoryAdapter) GetNotes(
	ctx context.Context,
	documentID uuid.UUID,
) (*domain.StudyNotes, error) {
	return a.notesStore.GetByDocument(ctx, documentID)
}

// SaveSummary implements MaterialRepository.SaveSummary
func (a *materialRepositoryAdapter) SaveSummary(ctx context.Context, summary *domain.Summary) error {
	return a.summaryStore.Save(ctx, summary)
}

// GetSummary implements MaterialRepository.GetSummary
func (a *materialRepositoryAdapter) GetSummary(
	ctx context.Context,
	documentID uuid.UUID,
) (*domain.Summary, error) {
	return a.summaryStore.GetByDocument(ctx, documentID)
}

// WithTx implements MaterialRepository.WithTx
func (a *materialRepositoryAdapter) WithTx(tx *sql.Tx) MaterialRepository {
	return &materialRepositoryAdapter{
		quizStore:      a.quizStore.WithTx(tx),
		flashcardStore: a.flashcardStore.WithTx(tx),
		notesStore:     a.notesStore.WithTx(tx),
		summaryStore:   a.summaryStore.WithTx(tx),
		db:             a.db,
	}
}

// DB implements MaterialRepository.DB
func (a *materialRepositoryAdapter) DB() *sql.DB {
	return a.db
}
