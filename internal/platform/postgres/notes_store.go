package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/platform/logger"
	"github.com/studygen/studygen-api/internal/store"
)

// PostgresNotesStore implements the store.NotesStore interface
// using a PostgreSQL database as the storage backend.
// Sections and the flagged-concept list are stored as JSONB.
type PostgresNotesStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotesStore creates a new PostgreSQL implementation of the
// NotesStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresNotesStore(db store.DBTX, logger *slog.Logger) *PostgresNotesStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNotesStore{
		db:     db,
		logger: logger.With(slog.String("component", "notes_store")),
	}
}

// Ensure PostgresNotesStore implements store.NotesStore interface
var _ store.NotesStore = (*PostgresNotesStore)(nil)

// Save implements store.NotesStore.Save
// It upserts on document_id: a document keeps at most one notes record.
func (s *PostgresNotesStore) Save(ctx context.Context, notes *domain.StudyNotes) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := notes.Validate(); err != nil {
		log.Warn("notes validation failed during save",
			slog.String("error", err.Error()),
			slog.String("notes_id", notes.ID.String()))
		return err
	}

	sections, err := json.Marshal(notes.Sections)
	if err != nil {
		return fmt.Errorf("failed to encode note sections: %w", err)
	}
	flagged, err := json.Marshal(notes.Flagged)
	if err != nil {
		return fmt.Errorf("failed to encode flagged concepts: %w", err)
	}

	query := `
		INSERT INTO study_notes (id, user_id, document_id, title, sections, flagged, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (document_id) DO UPDATE
		SET title = EXCLUDED.title,
		    sections = EXCLUDED.sections,
		    flagged = EXCLUDED.flagged,
		    updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		notes.ID,
		notes.UserID,
		notes.DocumentID,
		notes.Title,
		sections,
		flagged,
		notes.CreatedAt,
		notes.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: document %s not found",
				store.ErrInvalidEntity, notes.DocumentID)
		}
		log.Error("failed to save study notes",
			slog.String("error", err.Error()),
			slog.String("notes_id", notes.ID.String()))
		return MapError(err)
	}

	log.Info("study notes saved successfully",
		slog.String("notes_id", notes.ID.String()),
		slog.String("document_id", notes.DocumentID.String()),
		slog.Int("section_count", len(notes.Sections)),
		slog.Int("flagged_count", len(notes.Flagged)))
	return nil
}

// GetByDocument implements store.NotesStore.GetByDocument
// Returns store.ErrNotesNotFound if no notes exist for the document.
func (s *PostgresNotesStore) GetByDocument(ctx context.Context, documentID uuid.UUID) (*domain.StudyNotes, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, document_id, title, sections, flagged, created_at, updated_at
		FROM study_notes
		WHERE document_id = $1
	`

	var notes domain.StudyNotes
	var sections, flagged []byte

	err := s.db.QueryRowContext(ctx, query, documentID).Scan(
		&notes.ID,
		&notes.UserID,
		&notes.DocumentID,
		&notes.Title,
		&sections,
		&flagged,
		&notes.CreatedAt,
		&notes.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("study notes not found",
				slog.String("document_id", documentID.String()))
			return nil, store.ErrNotesNotFound
		}
		log.Error("failed to get study notes by document",
			slog.String("error", err.Error()),
			slog.String("document_id", documentID.String()))
		return nil, MapError(err)
	}

	if err := json.Unmarshal(sections, &notes.Sections); err != nil {
		return nil, fmt.Errorf("failed to decode note sections: %w", err)
	}
	if err := json.Unmarshal(flagged, &notes.Flagged); err != nil {
		return nil, fmt.Errorf("failed to decode flagged concepts: %w", err)
	}

	return &notes, nil
}

// WithTx implements store.NotesStore.WithTx
func (s *PostgresNotesStore) WithTx(tx *sql.Tx) store.NotesStore {
	return &PostgresNotesStore{
		db:     tx,
		logger: s.logger,
	}
}
