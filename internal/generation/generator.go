package generation

import (
	"context"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
)

// Generator defines the interface for generating study materials from
// document text. It serves as a boundary between the application core and
// external AI/LLM services: implementations are responsible for returning
// materials that already satisfy the authored cardinality rules, so callers
// can persist the results directly.
type Generator interface {
	// GenerateQuiz creates the five-question quiz for a document: two
	// multiple-choice, two short-answer, and one essay question, in that
	// order.
	GenerateQuiz(
		ctx context.Context,
		documentText string,
		userID, documentID uuid.UUID,
	) ([]*domain.QuizQuestion, error)

	// GenerateDeck creates the five-card flashcard deck for a document:
	// two easy, two medium, and one hard card.
	GenerateDeck(
		ctx context.Context,
		documentText string,
		userID, documentID uuid.UUID,
	) ([]*domain.Flashcard, error)

	// GenerateNotes creates structured study notes for a document: five to
	// seven thematic sections plus a flagged-concept study list.
	GenerateNotes(
		ctx context.Context,
		documentText string,
		userID, documentID uuid.UUID,
	) (*domain.StudyNotes, error)

	// GenerateSummary creates an abstractive summary for a document. The
	// page count of the source determines how many paragraphs the summary
	// may have.
	GenerateSummary(
		ctx context.Context,
		documentText string,
		pageCount int,
		userID, documentID uuid.UUID,
	) (*domain.Summary, error)
}
