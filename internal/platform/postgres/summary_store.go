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

// PostgresSummaryStore implements the store.SummaryStore interface
// using a PostgreSQL database as the storage backend.
// Paragraphs are stored as a JSONB array.
type PostgresSummaryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSummaryStore creates a new PostgreSQL implementation of the
// SummaryStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresSummaryStore(db store.DBTX, logger *slog.Logger) *PostgresSummaryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSummaryStore{
		db:     db,
		logger: logger.With(slog.String("component", "summary_store")),
	}
}

// Ensure PostgresSummaryStore implements store.SummaryStore interface
var _ store.SummaryStore = (*PostgresSummaryStore)(nil)

// Save implements store.SummaryStore.Save
// It upserts on document_id: a document keeps at most one summary.
func (s *PostgresSummaryStore) Save(ctx context.Context, summary *domain.Summary) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := summary.Validate(); err != nil {
		log.Warn("summary validation failed during save",
			slog.String("error", err.Error()),
			slog.String("summary_id", summary.ID.String()))
		return err
	}

	paragraphs, err := json.Marshal(summary.Paragraphs)
	if err != nil {
		return fmt.Errorf("failed to encode summary paragraphs: %w", err)
	}

	query := `
		INSERT INTO summaries (id, user_id, document_id, method, paragraphs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (document_id) DO UPDATE
		SET method = EXCLUDED.method,
		    paragraphs = EXCLUDED.paragraphs,
		    updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		summary.ID,
		summary.UserID,
		summary.DocumentID,
		summary.Method,
		paragraphs,
		summary.CreatedAt,
		summary.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: document %s not found",
				store.ErrInvalidEntity, summary.DocumentID)
		}
		log.Error("failed to save summary",
			slog.String("error", err.Error()),
			slog.String("summary_id", summary.ID.String()))
		return MapError(err)
	}

	log.Info("summary saved successfully",
		slog.String("summary_id", summary.ID.String()),
		slog.String("document_id", summary.DocumentID.String()),
		slog.Int("paragraph_count", len(summary.Paragraphs)))
	return nil
}

// GetByDocument implements store.SummaryStore.GetByDocument
// Returns store.ErrSummaryNotFound if no summary exists for the document.
func (s *PostgresSummaryStore) GetByDocument(ctx context.Context, documentID uuid.UUID) (*domain.Summary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, document_id, method, paragraphs, created_at, updated_at
		FROM summaries
		WHERE document_id = $1
	`

	var summary domain.Summary
	var method string
	var paragraphs []byte

	err := s.db.QueryRowContext(ctx, query, documentID).Scan(
		&summary.ID,
		&summary.UserID,
		&summary.DocumentID,
		&method,
		&paragraphs,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("summary not found",
				slog.String("document_id", documentID.String()))
			return nil, store.ErrSummaryNotFound
		}
		log.Error("failed to get summary by document",
			slog.String("error", err.Error()),
			slog.String("document_id", documentID.String()))
		return nil, MapError(err)
	}

	summary.Method = domain.SummaryMethod(method)
	if err := json.Unmarshal(paragraphs, &summary.Paragraphs); err != nil {
		return nil, fmt.Errorf("failed to decode summary paragraphs: %w", err)
	}

	return &summary, nil
}

// WithTx implements store.SummaryStore.WithTx
func (s *PostgresSummaryStore) WithTx(tx *sql.Tx) store.SummaryStore {
	return &PostgresSummaryStore{
		db:     tx,
		logger: s.logger,
	}
}
