package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/api/shared"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/platform/logger"
	"github.com/studygen/studygen-api/internal/render"
	"github.com/studygen/studygen-api/internal/service"
)

// formatQueryParam selects the material response encoding. The default is
// JSON; "markdown" returns a rendered text/markdown document.
const formatQueryParam = "format"

// QuizQuestionResponse represents one quiz question in API responses.
// The correct answer and explanation are included so clients can grade
// locally.
type QuizQuestionResponse struct {
	ID            string   `json:"id"`
	Ordinal       int      `json:"ordinal"`
	Kind          string   `json:"kind"`
	Stem          string   `json:"stem"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// FlashcardResponse represents one flashcard in API responses.
type FlashcardResponse struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Difficulty string    `json:"difficulty"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	ConceptTag string    `json:"concept_tag,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateFlashcardsFromNotesRequest represents the request body for building
// a flashcard deck from the flagged concepts of study notes.
type CreateFlashcardsFromNotesRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`

	// NotesMarkdown optionally carries a rendered study notes document.
	// When empty, the stored notes for the document are used instead.
	NotesMarkdown string `json:"notes_markdown,omitempty"`
}

// MaterialHandler serves generated study materials and the notes-to-deck
// cross reference endpoint.
type MaterialHandler struct {
	documentService service.DocumentService
	materialService service.MaterialService
	validator       *validator.Validate
	logger          *slog.Logger
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(
	documentService service.DocumentService,
	materialService service.MaterialService,
	log *slog.Logger,
) *MaterialHandler {
	if log == nil {
		log = slog.Default()
	}
	return &MaterialHandler{
		documentService: documentService,
		materialService: materialService,
		validator:       validator.New(),
		logger:          log.With(slog.String("component", "material_handler")),
	}
}

// GetQuiz handles GET /api/documents/{id}/quiz requests.
func (h *MaterialHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, documentID, ok := requireUserAndDocumentID(w, r, log)
	if !ok {
		return
	}

	questions, err := h.materialService.GetQuiz(r.Context(), documentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if len(questions) > 0 && questions[0].UserID != userID {
		h.respondNotOwned(w, r)
		return
	}

	if wantsMarkdown(r) {
		values := make([]domain.QuizQuestion, len(questions))
		for i, q := range questions {
			values[i] = *q
		}
		body, err := render.RenderQuiz("Quiz", values)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to render quiz", err)
			return
		}
		shared.RespondWithMarkdown(w, r, http.StatusOK, body)
		return
	}

	responses := make([]QuizQuestionResponse, len(questions))
	for i, q := range questions {
		responses[i] = QuizQuestionResponse{
			ID:            q.ID.String(),
			Ordinal:       q.Ordinal,
			Kind:          string(q.Kind),
			Stem:          q.Stem,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetFlashcards handles GET /api/documents/{id}/flashcards requests.
func (h *MaterialHandler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, documentID, ok := requireUserAndDocumentID(w, r, log)
	if !ok {
		return
	}

	cards, err := h.materialService.GetDeck(r.Context(), documentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if len(cards) > 0 && cards[0].UserID != userID {
		h.respondNotOwned(w, r)
		return
	}

	if wantsMarkdown(r) {
		values := make([]domain.Flashcard, len(cards))
		for i, c := range cards {
			values[i] = *c
		}
		body, err := render.RenderDeck("Flashcards", values)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to render flashcards", err)
			return
		}
		shared.RespondWithMarkdown(w, r, http.StatusOK, body)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardsToResponse(cards))
}

// GetNotes handles GET /api/documents/{id}/notes requests.
func (h *MaterialHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, documentID, ok := requireUserAndDocumentID(w, r, log)
	if !ok {
		return
	}

	notes, err := h.materialService.GetNotes(r.Context(), documentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if notes.UserID != userID {
		h.respondNotOwned(w, r)
		return
	}

	if wantsMarkdown(r) {
		body, err := render.RenderNotes(notes)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to render notes", err)
			return
		}
		shared.RespondWithMarkdown(w, r, http.StatusOK, body)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notes)
}

// GetSummary handles GET /api/documents/{id}/summary requests.
func (h *MaterialHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, documentID, ok := requireUserAndDocumentID(w, r, log)
	if !ok {
		return
	}

	summary, err := h.materialService.GetSummary(r.Context(), documentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if summary.UserID != userID {
		h.respondNotOwned(w, r)
		return
	}

	if wantsMarkdown(r) {
		body, err := render.RenderSummary("Summary", summary)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to render summary", err)
			return
		}
		shared.RespondWithMarkdown(w, r, http.StatusOK, body)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// CreateFlashcardsFromNotes handles POST /api/flashcards/from-notes requests.
// Unlike document submission this runs synchronously: the deck is built from
// already-generated notes without calling the LLM.
func (h *MaterialHandler) CreateFlashcardsFromNotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateFlashcardsFromNotesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	cards, err := h.materialService.CreateFlashcardsFromNotes(
		r.Context(),
		userID,
		documentID,
		[]byte(req.NotesMarkdown),
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to create flashcards from notes"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("flashcard deck created from notes",
		slog.String("user_id", userID.String()),
		slog.String("document_id", documentID.String()),
		slog.Int("cards", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, flashcardsToResponse(cards))
}

func (h *MaterialHandler) respondNotOwned(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
		GetSafeErrorMessage(service.ErrNotOwned), service.ErrNotOwned)
}

// wantsMarkdown reports whether the request asked for a Markdown rendition.
func wantsMarkdown(r *http.Request) bool {
	return r.URL.Query().Get(formatQueryParam) == "markdown"
}

// flashcardsToResponse converts domain flashcards to API responses.
func flashcardsToResponse(cards []*domain.Flashcard) []FlashcardResponse {
	responses := make([]FlashcardResponse, len(cards))
	for i, c := range cards {
		responses[i] = FlashcardResponse{
			ID:         c.ID.String(),
			DocumentID: c.DocumentID.String(),
			Difficulty: string(c.Difficulty),
			Front:      c.Front,
			Back:       c.Back,
			ConceptTag: c.ConceptTag,
			CreatedAt:  c.CreatedAt,
		}
	}
	return responses
}
