package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/platform/logger"
	"github.com/studygen/studygen-api/internal/store"
)

// PostgresDocumentStore implements the store.DocumentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDocumentStore creates a new PostgreSQL implementation of the
// DocumentStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresDocumentStore(db store.DBTX, logger *slog.Logger) *PostgresDocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure PostgresDocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*PostgresDocumentStore)(nil)

// Create implements store.DocumentStore.Create
// Returns store.ErrInvalidEntity if the user ID doesn't exist.
func (s *PostgresDocumentStore) Create(ctx context.Context, document *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := document.Validate(); err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()),
			slog.String("document_id", document.ID.String()))
		return err
	}

	query := `
		INSERT INTO documents (id, user_id, text, page_count, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		document.ID,
		document.UserID,
		document.Text,
		document.PageCount,
		document.Status,
		document.CreatedAt,
		document.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during document creation",
				slog.String("document_id", document.ID.String()),
				slog.String("user_id", document.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, document.UserID)
		}
		log.Error("failed to create document",
			slog.String("error", err.Error()),
			slog.String("document_id", document.ID.String()))
		return MapError(err)
	}

	log.Info("document created successfully",
		slog.String("document_id", document.ID.String()),
		slog.String("user_id", document.UserID.String()),
		slog.Int("page_count", document.PageCount),
		slog.String("status", string(document.Status)))
	return nil
}

// GetByID implements store.DocumentStore.GetByID
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *PostgresDocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, text, page_count, status, created_at, updated_at
		FROM documents
		WHERE id = $1
	`

	var document domain.Document
	var status string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&document.ID,
		&document.UserID,
		&document.Text,
		&document.PageCount,
		&status,
		&document.CreatedAt,
		&document.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("document not found", slog.String("document_id", id.String()))
			return nil, store.ErrDocumentNotFound
		}
		log.Error("failed to get document by ID",
			slog.String("error", err.Error()),
			slog.String("document_id", id.String()))
		return nil, MapError(err)
	}

	document.Status = domain.DocumentStatus(status)
	return &document, nil
}

// Update implements store.DocumentStore.Update
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *PostgresDocumentStore) Update(ctx context.Context, document *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := document.Validate(); err != nil {
		log.Warn("document validation failed during update",
			slog.String("error", err.Error()),
			slog.String("document_id", document.ID.String()))
		return err
	}

	document.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE documents
		SET text = $1, page_count = $2, status = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		document.Text,
		document.PageCount,
		document.Status,
		document.UpdatedAt,
		document.ID,
	)

	if err != nil {
		log.Error("failed to update document",
			slog.String("error", err.Error()),
			slog.String("document_id", document.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "document"); err != nil {
		return store.ErrDocumentNotFound
	}

	log.Info("document updated successfully",
		slog.String("document_id", document.ID.String()),
		slog.String("status", string(document.Status)))
	return nil
}

// UpdateStatus implements store.DocumentStore.UpdateStatus
// Returns store.ErrDocumentNotFound if the document does not exist.
// Returns domain.ErrInvalidDocumentStatus if the status is invalid.
func (s *PostgresDocumentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DocumentStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateDocumentStatus(status); err != nil {
		log.Warn("invalid status for document update",
			slog.String("document_id", id.String()),
			slog.String("status", string(status)))
		return err
	}

	query := `
		UPDATE documents
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update document status",
			slog.String("error", err.Error()),
			slog.String("document_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "document"); err != nil {
		return store.ErrDocumentNotFound
	}

	log.Info("document status updated",
		slog.String("document_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// FindByStatus implements store.DocumentStore.FindByStatus
// Returns an empty slice if no documents match the criteria.
func (s *PostgresDocumentStore) FindByStatus(
	ctx context.Context,
	status domain.DocumentStatus,
	limit, offset int,
) ([]*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, user_id, text, page_count, status, created_at, updated_at
		FROM documents
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		log.Error("failed to query documents by status",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	documents := []*domain.Document{}
	for rows.Next() {
		var document domain.Document
		var statusStr string

		err := rows.Scan(
			&document.ID,
			&document.UserID,
			&document.Text,
			&document.PageCount,
			&statusStr,
			&document.CreatedAt,
			&document.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan document row",
				slog.String("error", err.Error()))
			return nil, err
		}

		document.Status = domain.DocumentStatus(statusStr)
		documents = append(documents, &document)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("found documents by status",
		slog.String("status", string(status)),
		slog.Int("count", len(documents)))
	return documents, nil
}

// WithTx implements store.DocumentStore.WithTx
func (s *PostgresDocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return &PostgresDocumentStore{
		db:     tx,
		logger: s.logger,
	}
}
