package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/config"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/domain/schema"
	"github.com/studygen/studygen-api/internal/generation"
	"google.golang.org/genai"
)

// StudyMaterialGenerator implements the generation.Generator interface using
// Google's Gemini API to generate study materials from document text.
type StudyMaterialGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string

	// schema validates generated materials against the authored quotas
	schema schema.Service
}

// Compile-time check that StudyMaterialGenerator satisfies the interface.
var _ generation.Generator = (*StudyMaterialGenerator)(nil)

// NewStudyMaterialGenerator creates a new instance of StudyMaterialGenerator
// with the provided dependencies.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name, and retry settings
//
// Returns:
//   - A properly initialized StudyMaterialGenerator or an error if initialization fails
func NewStudyMaterialGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*StudyMaterialGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &StudyMaterialGenerator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		config: cfg,
		client: client,
		model:  cfg.ModelName,
		schema: schema.NewDefaultService(),
	}, nil
}

// createPrompt executes a prompt template with the provided data.
func (g *StudyMaterialGenerator) createPrompt(
	ctx context.Context,
	tmpl *template.Template,
	data promptData,
) (string, error) {
	if data.DocumentText == "" {
		return "", ErrEmptyDocumentText
	}

	g.logger.DebugContext(ctx, "generating prompt from template",
		"template_name", tmpl.Name(),
		"document_length", len(data.DocumentText))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}

// callWithRetry makes a call to the Gemini API with exponential backoff
// retry logic and returns the raw response text.
//
// It attempts the call up to config.MaxRetries+1 times, using exponential
// backoff with jitter between retries for transient errors. Permanent errors
// (like content being blocked by safety filters) are returned immediately
// without retrying.
func (g *StudyMaterialGenerator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1,
			"model", g.model)

		text, transient, err := g.callOnce(ctx, prompt, genConfig)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful",
				"attempt", attemptNum,
				"response_length", len(text))
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return "", err
		}

		if attempt >= maxRetries {
			g.logger.WarnContext(ctx, "maximum retry attempts reached",
				"max_retries", maxRetries)
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			g.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce performs a single Gemini API call and classifies any failure as
// transient (worth retrying) or permanent.
func (g *StudyMaterialGenerator) callOnce(
	ctx context.Context,
	prompt string,
	genConfig *genai.GenerateContentConfig,
) (text string, transient bool, err error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genConfig)
	if err != nil {
		// Network and server-side errors are assumed transient.
		return "", true, fmt.Errorf("gemini API call: %w", err)
	}

	if resp == nil {
		return "", false, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if len(resp.Candidates) == 0 {
		return "", false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", false, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}

	if candidate.Content == nil {
		return "", false, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text = resp.Text()
	if text == "" {
		return "", false, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	return text, false, nil
}

// GenerateQuiz implements generation.Generator.GenerateQuiz.
func (g *StudyMaterialGenerator) GenerateQuiz(
	ctx context.Context,
	documentText string,
	userID, documentID uuid.UUID,
) ([]*domain.QuizQuestion, error) {
	prompt, err := g.createPrompt(ctx, quizPromptTemplate, promptData{DocumentText: documentText})
	if err != nil {
		return nil, err
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseQuiz(ctx, raw, userID, documentID)
}

// parseQuiz converts a raw API response into validated domain questions.
func (g *StudyMaterialGenerator) parseQuiz(
	ctx context.Context,
	raw string,
	userID, documentID uuid.UUID,
) ([]*domain.QuizQuestion, error) {
	var resp quizResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse quiz JSON: %v", generation.ErrInvalidResponse, err)
	}

	questions := make([]*domain.QuizQuestion, 0, len(resp.Questions))
	for i, qs := range resp.Questions {
		question, err := domain.NewQuizQuestion(
			userID,
			documentID,
			i+1,
			domain.QuestionKind(qs.Kind),
			qs.Stem,
			qs.Options,
			qs.CorrectAnswer,
			qs.Explanation,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", generation.ErrInvalidResponse, i+1, err)
		}
		questions = append(questions, question)
	}

	if err := g.schema.ValidateQuiz(questions); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	g.logger.InfoContext(ctx, "parsed quiz from API response",
		"question_count", len(questions),
		"document_id", documentID.String())
	return questions, nil
}

// GenerateDeck implements generation.Generator.GenerateDeck.
func (g *StudyMaterialGenerator) GenerateDeck(
	ctx context.Context,
	documentText string,
	userID, documentID uuid.UUID,
) ([]*domain.Flashcard, error) {
	prompt, err := g.createPrompt(ctx, deckPromptTemplate, promptData{DocumentText: documentText})
	if err != nil {
		return nil, err
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseDeck(ctx, raw, userID, documentID)
}

// parseDeck converts a raw API response into a validated flashcard deck.
func (g *StudyMaterialGenerator) parseDeck(
	ctx context.Context,
	raw string,
	userID, documentID uuid.UUID,
) ([]*domain.Flashcard, error) {
	var resp deckResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse deck JSON: %v", generation.ErrInvalidResponse, err)
	}

	cards := make([]*domain.Flashcard, 0, len(resp.Cards))
	for i, cs := range resp.Cards {
		card, err := domain.NewFlashcard(
			userID,
			documentID,
			domain.Difficulty(cs.Difficulty),
			cs.Front,
			cs.Back,
			cs.ConceptTag,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: card %d: %v", generation.ErrInvalidResponse, i+1, err)
		}
		cards = append(cards, card)
	}

	if err := g.schema.ValidateDeck(cards); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	g.logger.InfoContext(ctx, "parsed flashcard deck from API response",
		"card_count", len(cards),
		"document_id", documentID.String())
	return cards, nil
}

// GenerateNotes implements generation.Generator.GenerateNotes.
func (g *StudyMaterialGenerator) GenerateNotes(
	ctx context.Context,
	documentText string,
	userID, documentID uuid.UUID,
) (*domain.StudyNotes, error) {
	prompt, err := g.createPrompt(ctx, notesPromptTemplate, promptData{DocumentText: documentText})
	if err != nil {
		return nil, err
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseNotes(ctx, raw, userID, documentID)
}

// parseNotes converts a raw API response into validated study notes.
func (g *StudyMaterialGenerator) parseNotes(
	ctx context.Context,
	raw string,
	userID, documentID uuid.UUID,
) (*domain.StudyNotes, error) {
	var resp notesResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse notes JSON: %v", generation.ErrInvalidResponse, err)
	}

	sections := make([]domain.NoteSection, 0, len(resp.Sections))
	for _, ss := range resp.Sections {
		sections = append(sections, domain.NoteSection{
			Heading:    ss.Heading,
			Definition: ss.Definition,
			KeyPoints:  ss.KeyPoints,
			Examples:   ss.Examples,
		})
	}

	flagged := make([]domain.Concept, 0, len(resp.Flagged))
	for _, cs := range resp.Flagged {
		flagged = append(flagged, domain.Concept{
			Name:       cs.Name,
			Priority:   domain.Priority(cs.Priority),
			Definition: cs.Definition,
			Examples:   cs.Examples,
		})
	}

	notes, err := domain.NewStudyNotes(userID, documentID, resp.Title, sections, flagged)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	if err := g.schema.ValidateNotes(notes); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	g.logger.InfoContext(ctx, "parsed study notes from API response",
		"section_count", len(notes.Sections),
		"flagged_count", len(notes.Flagged),
		"document_id", documentID.String())
	return notes, nil
}

// GenerateSummary implements generation.Generator.GenerateSummary.
func (g *StudyMaterialGenerator) GenerateSummary(
	ctx context.Context,
	documentText string,
	pageCount int,
	userID, documentID uuid.UUID,
) (*domain.Summary, error) {
	minParas, maxParas := schema.SummaryParagraphRange(pageCount)
	prompt, err := g.createPrompt(ctx, summaryPromptTemplate, promptData{
		DocumentText:  documentText,
		MinParagraphs: minParas,
		MaxParagraphs: maxParas,
	})
	if err != nil {
		return nil, err
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseSummary(ctx, raw, pageCount, userID, documentID)
}

// parseSummary converts a raw API response into a validated summary.
func (g *StudyMaterialGenerator) parseSummary(
	ctx context.Context,
	raw string,
	pageCount int,
	userID, documentID uuid.UUID,
) (*domain.Summary, error) {
	var resp summaryResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse summary JSON: %v", generation.ErrInvalidResponse, err)
	}

	summary, err := domain.NewSummary(userID, documentID, domain.SummaryMethodAbstractive, resp.Paragraphs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	if err := g.schema.ValidateSummary(summary, pageCount); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	g.logger.InfoContext(ctx, "parsed summary from API response",
		"paragraph_count", len(summary.Paragraphs),
		"document_id", documentID.String())
	return summary, nil
}
