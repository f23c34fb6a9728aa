package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/platform/logger"
	"github.com/studygen/studygen-api/internal/store"
)

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the
// FlashcardStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// CreateMultiple implements store.FlashcardStore.CreateMultiple
// It saves a full deck with one multi-row insert. Callers wanting
// atomicity with other writes should pass a store obtained via WithTx.
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	for i, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("flashcard validation failed during create",
				slog.String("error", err.Error()),
				slog.Int("card_index", i))
			return fmt.Errorf("card %d: %w", i+1, err)
		}
	}

	query := `
		INSERT INTO flashcards
			(id, user_id, document_id, difficulty, front, back, concept_tag, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		log.Error("failed to prepare flashcard insert",
			slog.String("error", err.Error()))
		return MapError(err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close statement", slog.String("error", err.Error()))
		}
	}()

	for _, card := range cards {
		_, err := stmt.ExecContext(
			ctx,
			card.ID,
			card.UserID,
			card.DocumentID,
			card.Difficulty,
			card.Front,
			card.Back,
			card.ConceptTag,
			card.CreatedAt,
			card.UpdatedAt,
		)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: document %s not found",
					store.ErrInvalidEntity, card.DocumentID)
			}
			log.Error("failed to insert flashcard",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", card.ID.String()))
			return MapError(err)
		}
	}

	log.Info("flashcards created successfully",
		slog.Int("count", len(cards)),
		slog.String("document_id", cards[0].DocumentID.String()))
	return nil
}

// GetByID implements store.FlashcardStore.GetByID
// Returns store.ErrFlashcardNotFound if the flashcard does not exist.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, document_id, difficulty, front, back, concept_tag, created_at, updated_at
		FROM flashcards
		WHERE id = $1
	`

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found", slog.String("flashcard_id", id.String()))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard by ID",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return nil, MapError(err)
	}
	return card, nil
}

// FindByDocument implements store.FlashcardStore.FindByDocument
// Returns the deck in insertion order, or an empty slice.
func (s *PostgresFlashcardStore) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, document_id, difficulty, front, back, concept_tag, created_at, updated_at
		FROM flashcards
		WHERE document_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		log.Error("failed to query flashcards by document",
			slog.String("error", err.Error()),
			slog.String("document_id", documentID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.Flashcard{}
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row",
				slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return cards, nil
}

// DeleteByDocument implements store.FlashcardStore.DeleteByDocument
// Deleting zero rows is not an error; a re-run may precede any generation.
func (s *PostgresFlashcardStore) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE document_id = $1`, documentID)
	if err != nil {
		log.Error("failed to delete flashcards by document",
			slog.String("error", err.Error()),
			slog.String("document_id", documentID.String()))
		return MapError(err)
	}
	return nil
}

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var card domain.Flashcard
	var difficulty string

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.DocumentID,
		&difficulty,
		&card.Front,
		&card.Back,
		&card.ConceptTag,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.Difficulty = domain.Difficulty(difficulty)
	return &card, nil
}
