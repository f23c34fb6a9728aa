package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
)

// DocumentStore defines the interface for document data persistence.
type DocumentStore interface {
	// Create saves a new document to the store.
	// It handles domain validation internally.
	Create(ctx context.Context, document *domain.Document) error

	// GetByID retrieves a document by its unique ID.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)

	// Update saves changes to an existing document.
	// Returns ErrDocumentNotFound if the document does not exist.
	Update(ctx context.Context, document *domain.Document) error

	// UpdateStatus updates the status of an existing document.
	// Returns ErrDocumentNotFound if the document does not exist.
	// Returns validation errors if the status is invalid.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DocumentStatus) error

	// FindByStatus retrieves all documents with the specified status,
	// newest first. Returns an empty slice if none match. Limit and offset
	// paginate the result.
	FindByStatus(ctx context.Context, status domain.DocumentStatus, limit, offset int) ([]*domain.Document, error)

	// WithTx returns a new DocumentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DocumentStore
}
