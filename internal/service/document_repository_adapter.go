package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/store"
)

// NewDocumentRepositoryAdapter creates a new adapter that allows a
// store.DocumentStore to be used where a DocumentRepository is expected.
// The database handle is carried alongside the store so the service layer
// can open transactions.
func NewDocumentRepositoryAdapter(documentStore store.DocumentStore, db *sql.DB) DocumentRepository {
	return &documentRepositoryAdapter{
		documentStore: documentStore,
		db:            db,
	}
}

// documentRepositoryAdapter adapts a store.DocumentStore to the
// DocumentRepository interface
type documentRepositoryAdapter struct {
	documentStore store.DocumentStore
	db            *sql.DB
}

// Create implements DocumentRepository.Create
func (a *documentRepositoryAdapter) Create(ctx context.Context, document *domain.Document) error {
	return a.documentStore.Create(ctx, document)
}

// GetByID implements DocumentRepository.GetByID
func (a *documentRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return a.documentStore.GetByID(ctx, id)
}

// Update implements DocumentRepository.Update
func (a *documentRepositoryAdapter) Update(ctx context.Context, document *domain.Document) error {
	return a.documentStore.Update(ctx, document)
}

// WithTx implements DocumentRepository.WithTx
func (a *documentRepositoryAdapter) WithTx(tx *sql.Tx) DocumentRepository {
	return &documentRepositoryAdapter{
		documentStore: a.documentStore.WithTx(tx),
		db:            a.db,
	}
}

// DB implements DocumentRepository.DB
func (a *documentRepositoryAdapter) DB() *sql.DB {
	return a.db
}
