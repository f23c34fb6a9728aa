package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/events"
	"github.com/studygen/studygen-api/internal/store"
	"github.com/studygen/studygen-api/internal/task"
)

// DocumentRepository defines the repository interface for the service layer.
// It is aligned with store.DocumentStore to keep the separation of concerns.
type DocumentRepository interface {
	// Create saves a new document to the store
	Create(ctx context.Context, document *domain.Document) error

	// GetByID retrieves a document by its unique ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)

	// Update saves changes to an existing document
	Update(ctx context.Context, document *domain.Document) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) DocumentRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// TaskRunner defines the interface for submitting background tasks
type TaskRunner interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, task task.Task) error
}

// DocumentService provides document-related operations
type DocumentService interface {
	// CreateDocumentAndEnqueueTask creates a new document and enqueues
	// material generation for it. The request selects which material kinds
	// to generate; a zero request asks for all of them.
	CreateDocumentAndEnqueueTask(
		ctx context.Context,
		userID uuid.UUID,
		text string,
		pageCount int,
		request task.GenerationRequest,
	) (*domain.Document, error)

	// GetDocument retrieves a document by its ID
	GetDocument(ctx context.Context, documentID uuid.UUID) (*domain.Document, error)

	// UpdateDocumentStatus updates a document's processing status
	UpdateDocumentStatus(ctx context.Context, documentID uuid.UUID, status domain.DocumentStatus) error
}

// Common sentinel errors for DocumentService
var (
	// ErrDocumentNotFound indicates that the document does not exist
	ErrDocumentNotFound = errors.New("document not found")
)

// DocumentServiceError wraps errors from the document service with context.
type DocumentServiceError struct {
	// Operation is the operation that failed (e.g., "create_document")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for DocumentServiceError.
func (e *DocumentServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("document service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *DocumentServiceError) Unwrap() error {
	return e.Err
}

// NewDocumentServiceError creates a new DocumentServiceError.
// It returns known sentinel errors directly without wrapping.
func NewDocumentServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrDocumentNotFound) {
		return ErrDocumentNotFound
	}

	// Map store-level sentinels to service-level ones
	if errors.Is(err, store.ErrDocumentNotFound) {
		return ErrDocumentNotFound
	}

	return &DocumentServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// documentServiceImpl implements the DocumentService interface
type documentServiceImpl struct {
	documentRepo DocumentRepository
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// Interface guard: the task layer consumes document services through its
// own narrower interface.
var _ task.DocumentService = (DocumentService)(nil)

// NewDocumentService creates a new DocumentService.
// It returns an error if any of the required dependencies are nil.
func NewDocumentService(
	documentRepo DocumentRepository,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (DocumentService, error) {
	if documentRepo == nil {
		return nil, &DocumentServiceError{
			Operation: "create_service",
			Message:   "documentRepo cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &DocumentServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &documentServiceImpl{
		documentRepo: documentRepo,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "document_service"),
	}, nil
}

// CreateDocumentAndEnqueueTask creates a new document with pending status and
// emits an event that the task layer turns into a material generation task.
// The document creation runs in a transaction so a failed save never leaves a
// half-created document behind.
func (s *documentServiceImpl) CreateDocumentAndEnqueueTask(
	ctx context.Context,
	userID uuid.UUID,
	text string,
	pageCount int,
	request task.GenerationRequest,
) (*domain.Document, error) {
	if pageCount <= 0 {
		pageCount = domain.EstimatePageCount(text)
	}

	doc, err := domain.NewDocument(userID, text, pageCount)
	if err != nil {
		s.logger.Error("failed to create document object",
			"error", err,
			"user_id", userID)
		return nil, NewDocumentServiceError("create_document", "failed to create document object", err)
	}

	request = request.Normalize()
	if err := request.Validate(); err != nil {
		s.logger.Error("invalid generation request",
			"error", err,
			"user_id", userID)
		return nil, NewDocumentServiceError("create_document", "invalid generation request", err)
	}

	err = store.RunInTransaction(ctx, s.documentRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.documentRepo.WithTx(tx)

		if err := txRepo.Create(ctx, doc); err != nil {
			s.logger.Error("failed to create document in transaction",
				"error", err,
				"user_id", userID,
				"document_id", doc.ID)
			return NewDocumentServiceError("create_document", "failed to save document to database", err)
		}
		return nil
	})

	if err != nil {
		// Error is already wrapped in the transaction
		return nil, err
	}

	s.logger.Info("document created successfully with pending status",
		"document_id", doc.ID,
		"user_id", userID,
		"page_count", doc.PageCount)

	payload := struct {
		DocumentID    uuid.UUID            `json:"document_id"`
		Kinds         []string             `json:"kinds"`
		SummaryMethod domain.SummaryMethod `json:"summary_method"`
	}{
		DocumentID:    doc.ID,
		Kinds:         request.Kinds,
		SummaryMethod: request.SummaryMethod,
	}

	event, err := events.NewTaskRequestEvent(task.TaskTypeMaterialGeneration, payload)
	if err != nil {
		s.logger.Error("failed to create material generation event",
			"error", err,
			"document_id", doc.ID,
			"user_id", userID)
		return nil, NewDocumentServiceError("create_document", "failed to create event", err)
	}

	err = s.eventEmitter.EmitEvent(ctx, event)
	if err != nil {
		s.logger.Error("failed to emit material generation event",
			"error", err,
			"document_id", doc.ID,
			"user_id", userID,
			"event_id", event.ID)
		return nil, NewDocumentServiceError("create_document", "failed to emit event", err)
	}

	s.logger.Info("material generation event emitted successfully",
		"document_id", doc.ID,
		"user_id", userID,
		"event_id", event.ID)

	return doc, nil
}

// GetDocument retrieves a document by its ID
func (s *documentServiceImpl) GetDocument(ctx context.Context, documentID uuid.UUID) (*domain.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		s.logger.Error("failed to retrieve document",
			"error", err,
			"document_id", documentID)

		if errors.Is(err, store.ErrDocumentNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, NewDocumentServiceError("get_document", "failed to retrieve document", err)
	}

	s.logger.Debug("retrieved document successfully",
		"document_id", documentID,
		"user_id", doc.UserID,
		"status", doc.Status)

	return doc, nil
}

// UpdateDocumentStatus updates a document's processing status. The
// read-modify-write runs in a transaction so concurrent updates cannot
// interleave, and the status value is validated by the domain before the
// write.
func (s *documentServiceImpl) UpdateDocumentStatus(
	ctx context.Context,
	documentID uuid.UUID,
	status domain.DocumentStatus,
) error {
	return store.RunInTransaction(
		ctx,
		s.documentRepo.DB(),
		func(ctx context.Context, tx *sql.Tx) error {
			txRepo := s.documentRepo.WithTx(tx)

			doc, err := txRepo.GetByID(ctx, documentID)
			if err != nil {
				s.logger.Error("failed to retrieve document for status update",
					"error", err,
					"document_id", documentID,
					"target_status", status)

				if errors.Is(err, store.ErrDocumentNotFound) {
					return ErrDocumentNotFound
				}
				return NewDocumentServiceError("update_document_status", "failed to retrieve document", err)
			}

			err = doc.UpdateStatus(status)
			if err != nil {
				s.logger.Error("failed to update document status",
					"error", err,
					"document_id", documentID,
					"current_status", doc.Status,
					"target_status", status)
				return NewDocumentServiceError(
					"update_document_status",
					fmt.Sprintf("failed to update document status to %s", status),
					err,
				)
			}

			err = txRepo.Update(ctx, doc)
			if err != nil {
				s.logger.Error("failed to save updated document status",
					"error", err,
					"document_id", documentID,
					"status", status)
				return NewDocumentServiceError(
					"update_document_status",
					fmt.Sprintf("failed to save document with status %s", status),
					err,
				)
			}

			s.logger.Info("document status updated successfully in transaction",
				"document_id", documentID,
				"status", status)
			return nil
		},
	)
}
