package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/api/shared"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/platform/logger"
	"github.com/studygen/studygen-api/internal/service"
	"github.com/studygen/studygen-api/internal/task"
)

// CreateDocumentRequest represents the request body for submitting a document
// for study material generation.
type CreateDocumentRequest struct {
	Text      string `json:"text" validate:"required,min=1"`
	PageCount int    `json:"page_count,omitempty" validate:"omitempty,gt=0"`

	// Kinds optionally restricts which materials are generated.
	// An empty list requests all of them.
	Kinds []string `json:"kinds,omitempty" validate:"omitempty,dive,oneof=quiz flashcards notes summary"`

	// SummaryMethod selects abstractive (default) or extractive summarization.
	SummaryMethod string `json:"summary_method,omitempty" validate:"omitempty,oneof=abstractive extractive"`
}

// DocumentResponse represents the response data for a document
type DocumentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PageCount int       `json:"page_count"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	documentService service.DocumentService
	validator       *validator.Validate
	logger          *slog.Logger
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService service.DocumentService, log *slog.Logger) *DocumentHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DocumentHandler{
		documentService: documentService,
		validator:       validator.New(),
		logger:          log.With(slog.String("component", "document_handler")),
	}
}

// CreateDocument handles POST /api/documents requests. The document is stored
// immediately and material generation runs asynchronously, so the response is
// 202 Accepted with the pending document.
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateDocumentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	genRequest := task.GenerationRequest{
		Kinds:         req.Kinds,
		SummaryMethod: domain.SummaryMethod(req.SummaryMethod),
	}

	doc, err := h.documentService.CreateDocumentAndEnqueueTask(
		r.Context(),
		userID,
		req.Text,
		req.PageCount,
		genRequest,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r,
			MapErrorToStatusCode(err),
			safeCreateDocumentMessage(err),
			err,
		)
		return
	}

	log.Debug("document accepted for generation",
		slog.String("user_id", userID.String()),
		slog.String("document_id", doc.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusAccepted, documentToResponse(doc))
}

// GetDocument handles GET /api/documents/{id} requests. It returns the
// document's processing status so clients can poll for completion.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, documentID, ok := requireUserAndDocumentID(w, r, log)
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocument(r.Context(), documentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if doc.UserID != userID {
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
			GetSafeErrorMessage(service.ErrNotOwned), service.ErrNotOwned)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, documentToResponse(doc))
}

// safeCreateDocumentMessage keeps the generic 500 message specific to the
// document submission flow.
func safeCreateDocumentMessage(err error) string {
	if MapErrorToStatusCode(err) == http.StatusInternalServerError {
		return "Failed to create document"
	}
	return GetSafeErrorMessage(err)
}

// requireUserAndDocumentID extracts the authenticated user from the context
// and the document UUID from the path. It writes an error response and
// returns false if either is missing or malformed.
func requireUserAndDocumentID(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, uuid.Nil, false
	}

	pathID := chi.URLParam(r, "id")
	if pathID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Document ID is required")
		return uuid.Nil, uuid.Nil, false
	}

	documentID, err := uuid.Parse(pathID)
	if err != nil {
		log.Warn("invalid document ID format", slog.String("document_id", pathID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid document ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, documentID, true
}

// documentToResponse converts a domain.Document to a DocumentResponse.
// The raw document text is deliberately omitted from the response.
func documentToResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID.String(),
		UserID:    doc.UserID.String(),
		PageCount: doc.PageCount,
		Status:    string(doc.Status),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
