package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
)

// Status constants mirroring the TaskStatus values in task.go, kept as
// plain strings because the task tracks its own lifecycle internally.
const (
	statusPending    = "pending"
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusFailed     = "failed"
)

// Material kind identifiers used in generation requests and task payloads.
const (
	MaterialKindQuiz       = "quiz"
	MaterialKindFlashcards = "flashcards"
	MaterialKindNotes      = "notes"
	MaterialKindSummary    = "summary"
)

// AllMaterialKinds returns every supported material kind.
func AllMaterialKinds() []string {
	return []string{MaterialKindQuiz, MaterialKindFlashcards, MaterialKindNotes, MaterialKindSummary}
}

// Common errors
var (
	ErrNilDocumentService = errors.New("document service cannot be nil")
	ErrNilGenerator       = errors.New("generator cannot be nil")
	ErrNilSummarizer      = errors.New("summarizer cannot be nil")
	ErrNilMaterialService = errors.New("material service cannot be nil")
	ErrNilLogger          = errors.New("logger cannot be nil")
	ErrEmptyDocumentID    = errors.New("document ID cannot be empty")
	ErrUnknownKind        = errors.New("unknown material kind")
)

// GenerationRequest selects which material kinds to generate for a document
// and how the summary, if requested, should be produced. A zero value asks
// for every kind with an abstractive summary.
type GenerationRequest struct {
	Kinds         []string             `json:"kinds,omitempty"`
	SummaryMethod domain.SummaryMethod `json:"summary_method,omitempty"`
}

// Normalize fills in defaults and drops repeated kinds: empty kinds means
// all kinds, and an empty summary method means abstractive.
func (r GenerationRequest) Normalize() GenerationRequest {
	if len(r.Kinds) == 0 {
		r.Kinds = AllMaterialKinds()
	} else {
		seen := make(map[string]bool, len(r.Kinds))
		kinds := make([]string, 0, len(r.Kinds))
		for _, kind := range r.Kinds {
			if seen[kind] {
				continue
			}
			seen[kind] = true
			kinds = append(kinds, kind)
		}
		r.Kinds = kinds
	}
	if r.SummaryMethod == "" {
		r.SummaryMethod = domain.SummaryMethodAbstractive
	}
	return r
}

// Validate checks that every requested kind is supported and the summary
// method is recognized.
func (r GenerationRequest) Validate() error {
	known := map[string]bool{
		MaterialKindQuiz:       true,
		MaterialKindFlashcards: true,
		MaterialKindNotes:      true,
		MaterialKindSummary:    true,
	}
	for _, kind := range r.Kinds {
		if !known[kind] {
			return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
		}
	}
	if r.SummaryMethod != domain.SummaryMethodExtractive && r.SummaryMethod != domain.SummaryMethodAbstractive {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSummaryMethod, r.SummaryMethod)
	}
	return nil
}

func (r GenerationRequest) wants(kind string) bool {
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// DocumentService defines the document operations the task needs.
type DocumentService interface {
	// GetDocument retrieves a document by its ID
	GetDocument(ctx context.Context, documentID uuid.UUID) (*domain.Document, error)

	// UpdateDocumentStatus updates a document's processing status
	UpdateDocumentStatus(ctx context.Context, documentID uuid.UUID, status domain.DocumentStatus) error
}

// Generator defines the interface for study material generation services
type Generator interface {
	// GenerateQuiz creates the five-question quiz for a document
	GenerateQuiz(ctx context.Context, documentText string, userID, documentID uuid.UUID) ([]*domain.QuizQuestion, error)

	// GenerateDeck creates the five-card flashcard deck for a document
	GenerateDeck(ctx context.Context, documentText string, userID, documentID uuid.UUID) ([]*domain.Flashcard, error)

	// GenerateNotes creates structured study notes for a document
	GenerateNotes(ctx context.Context, documentText string, userID, documentID uuid.UUID) (*domain.StudyNotes, error)

	// GenerateSummary creates a summary sized to the document's page count
	GenerateSummary(ctx context.Context, documentText string, pageCount int, userID, documentID uuid.UUID) (*domain.Summary, error)
}

// Summarizer produces summaries without calling a language model. It backs
// the extractive summary method.
type Summarizer interface {
	Summarize(ctx context.Context, documentText string, pageCount int, userID, documentID uuid.UUID) (*domain.Summary, error)
}

// MaterialService defines the persistence operations for generated materials.
type MaterialService interface {
	// SaveQuiz replaces the document's quiz with the given questions
	SaveQuiz(ctx context.Context, documentID uuid.UUID, questions []*domain.QuizQuestion) error

	// SaveDeck stores a generated flashcard deck
	SaveDeck(ctx context.Context, cards []*domain.Flashcard) error

	// SaveNotes stores generated study notes
	SaveNotes(ctx context.Context, notes *domain.StudyNotes) error

	// SaveSummary stores a generated summary
	SaveSummary(ctx context.Context, summary *domain.Summary) error
}

// materialGenerationPayload represents the serialized data stored in the task
type materialGenerationPayload struct {
	DocumentID    uuid.UUID            `json:"document_id"`
	Kinds         []string             `json:"kinds,omitempty"`
	SummaryMethod domain.SummaryMethod `json:"summary_method,omitempty"`
}

// MaterialGenerationTask implements the Task interface for generating study
// materials (quiz, flashcards, notes, summary) from a document. The requested
// material kinds are generated independently: a failure in one does not abort
// the others, and the document's final status reflects how many succeeded.
type MaterialGenerationTask struct {
	id              uuid.UUID
	documentID      uuid.UUID
	request         GenerationRequest
	documentService DocumentService
	generator       Generator
	summarizer      Summarizer
	materialService MaterialService
	logger          *slog.Logger
	status          string
}

// NewMaterialGenerationTask creates a new material generation task. The
// summarizer may be nil unless the request asks for an extractive summary.
func NewMaterialGenerationTask(
	documentID uuid.UUID,
	request GenerationRequest,
	documentService DocumentService,
	generator Generator,
	summarizer Summarizer,
	materialService MaterialService,
	logger *slog.Logger,
) (*MaterialGenerationTask, error) {
	if documentService == nil {
		return nil, ErrNilDocumentService
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if materialService == nil {
		return nil, ErrNilMaterialService
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	if documentID == uuid.Nil {
		return nil, ErrEmptyDocumentID
	}

	request = request.Normalize()
	if err := request.Validate(); err != nil {
		return nil, err
	}
	if request.SummaryMethod == domain.SummaryMethodExtractive && request.wants(MaterialKindSummary) && summarizer == nil {
		return nil, ErrNilSummarizer
	}

	return &MaterialGenerationTask{
		id:              uuid.New(),
		documentID:      documentID,
		request:         request,
		documentService: documentService,
		generator:       generator,
		summarizer:      summarizer,
		materialService: materialService,
		logger:          logger.With("task_type", TaskTypeMaterialGeneration, "document_id", documentID),
		status:          statusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *MaterialGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *MaterialGenerationTask) Type() string {
	return TaskTypeMaterialGeneration
}

// Payload returns the task data as a byte slice
func (t *MaterialGenerationTask) Payload() []byte {
	payload := materialGenerationPayload{
		DocumentID:    t.documentID,
		Kinds:         t.request.Kinds,
		SummaryMethod: t.request.SummaryMethod,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}

	return data
}

// Status returns the current task status
func (t *MaterialGenerationTask) Status() TaskStatus {
	return TaskStatus(t.status)
}

// Execute runs the material generation pipeline: it fetches the document,
// marks it processing, generates and saves each requested material kind, and
// sets the document's final status. Partial results are kept: if some kinds
// fail the document ends as completed_with_errors, and only when every
// requested kind fails does it end as failed.
func (t *MaterialGenerationTask) Execute(ctx context.Context) error {
	t.status = statusProcessing
	t.logger.Info("starting material generation task", "kinds", t.request.Kinds)

	if err := ctx.Err(); err != nil {
		t.status = statusFailed
		t.logger.Error("task cancelled by context", "error", err)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	doc, err := t.documentService.GetDocument(ctx, t.documentID)
	if err != nil {
		t.status = statusFailed
		t.logger.Error("failed to retrieve document", "error", err)
		return fmt.Errorf("failed to retrieve document: %w", err)
	}

	t.logger.Info("retrieved document",
		"user_id", doc.UserID,
		"page_count", doc.PageCount,
		"document_status", doc.Status)

	err = t.documentService.UpdateDocumentStatus(ctx, t.documentID, domain.DocumentStatusProcessing)
	if err != nil {
		t.status = statusFailed
		t.logger.Error("failed to update document status to processing", "error", err)
		return fmt.Errorf("failed to update document status to processing: %w", err)
	}

	failures := t.generateMaterials(ctx, doc)

	finalStatus := domain.DocumentStatusCompleted
	switch {
	case len(failures) == len(t.request.Kinds):
		finalStatus = domain.DocumentStatusFailed
	case len(failures) > 0:
		finalStatus = domain.DocumentStatusCompletedWithErrors
	}

	if err := t.documentService.UpdateDocumentStatus(ctx, t.documentID, finalStatus); err != nil {
		// The generated materials are already saved, so log rather than
		// fail the task.
		t.logger.Error("failed to update document final status",
			"error", err,
			"final_status", finalStatus)
	}

	if finalStatus == domain.DocumentStatusFailed {
		t.status = statusFailed
		err := fmt.Errorf("all material kinds failed: %s", strings.Join(failures, "; "))
		t.logger.Error("material generation task failed", "error", err)
		return err
	}

	t.status = statusCompleted
	t.logger.Info("material generation task completed",
		"final_status", finalStatus,
		"failed_kinds", len(failures))
	return nil
}

// generateMaterials runs generation and persistence for each requested
// material kind and returns a description of each failure.
func (t *MaterialGenerationTask) generateMaterials(ctx context.Context, doc *domain.Document) []string {
	var failures []string

	record := func(kind string, err error) {
		t.logger.Error("material generation failed",
			"material_kind", kind,
			"error", err)
		failures = append(failures, fmt.Sprintf("%s: %v", kind, err))
	}

	if t.request.wants(MaterialKindQuiz) {
		if questions, err := t.generator.GenerateQuiz(ctx, doc.Text, doc.UserID, doc.ID); err != nil {
			record(MaterialKindQuiz, err)
		} else if err := t.materialService.SaveQuiz(ctx, doc.ID, questions); err != nil {
			record(MaterialKindQuiz, err)
		} else {
			t.logger.Info("quiz generated", "question_count", len(questions))
		}
	}

	if t.request.wants(MaterialKindFlashcards) {
		if cards, err := t.generator.GenerateDeck(ctx, doc.Text, doc.UserID, doc.ID); err != nil {
			record(MaterialKindFlashcards, err)
		} else if err := t.materialService.SaveDeck(ctx, cards); err != nil {
			record(MaterialKindFlashcards, err)
		} else {
			t.logger.Info("flashcard deck generated", "card_count", len(cards))
		}
	}

	if t.request.wants(MaterialKindNotes) {
		if notes, err := t.generator.GenerateNotes(ctx, doc.Text, doc.UserID, doc.ID); err != nil {
			record(MaterialKindNotes, err)
		} else if err := t.materialService.SaveNotes(ctx, notes); err != nil {
			record(MaterialKindNotes, err)
		} else {
			t.logger.Info("study notes generated",
				"section_count", len(notes.Sections),
				"flagged_count", len(notes.Flagged))
		}
	}

	if t.request.wants(MaterialKindSummary) {
		if summary, err := t.generateSummary(ctx, doc); err != nil {
			record(MaterialKindSummary, err)
		} else if err := t.materialService.SaveSummary(ctx, summary); err != nil {
			record(MaterialKindSummary, err)
		} else {
			t.logger.Info("summary generated",
				"method", summary.Method,
				"paragraph_count", len(summary.Paragraphs))
		}
	}

	return failures
}

// generateSummary dispatches on the requested summary method. Extractive
// summaries never touch the language model.
func (t *MaterialGenerationTask) generateSummary(ctx context.Context, doc *domain.Document) (*domain.Summary, error) {
	if t.request.SummaryMethod == domain.SummaryMethodExtractive {
		return t.summarizer.Summarize(ctx, doc.Text, doc.PageCount, doc.UserID, doc.ID)
	}
	return t.generator.GenerateSummary(ctx, doc.Text, doc.PageCount, doc.UserID, doc.ID)
}
