package schema

import (
	"errors"
	"fmt"
	"sort"

	"github.com/studygen/studygen-api/internal/domain"
)

// Common errors
var (
	// ErrQuotaViolation is the base error for any cardinality failure.
	ErrQuotaViolation = errors.New("schema quota violation")

	// ErrInsufficientConcepts is returned when the source material yields
	// fewer usable concepts than a material kind requires. The caller is
	// expected to surface this to the user as a request for more material.
	ErrInsufficientConcepts = errors.New(
		"insufficient source material: please provide more content to study")
)

// Service validates generated materials against the authored quotas and
// selects concepts from flagged notes when building decks.
type Service interface {
	// ValidateQuiz checks the question mix, ordinal sequence, and option
	// shape of a generated quiz.
	ValidateQuiz(questions []*domain.QuizQuestion) error

	// ValidateDeck checks the difficulty distribution of a flashcard deck.
	ValidateDeck(cards []*domain.Flashcard) error

	// ValidateNotes checks section and flagged-concept cardinalities.
	ValidateNotes(notes *domain.StudyNotes) error

	// ValidateSummary checks summary length against the source page count.
	ValidateSummary(summary *domain.Summary, pageCount int) error

	// SelectConcepts picks the concepts to turn into flashcards from a
	// flagged list, honoring high-before-medium priority ordering and
	// preserving document order within each priority band.
	// Returns ErrInsufficientConcepts if fewer than the selection size are
	// available.
	SelectConcepts(flagged []domain.Concept) ([]domain.Concept, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	quotas Quotas
}

// NewDefaultService creates a schema service with the authored quotas.
func NewDefaultService() Service {
	return &defaultService{quotas: DefaultQuotas()}
}

// NewServiceWithQuotas creates a schema service with custom quotas.
// Intended for tests; production code uses the authored defaults.
func NewServiceWithQuotas(quotas Quotas) Service {
	return &defaultService{quotas: quotas}
}

// ValidateQuiz implements Service.ValidateQuiz.
func (s *defaultService) ValidateQuiz(questions []*domain.QuizQuestion) error {
	q := s.quotas.Quiz

	if len(questions) != q.Total {
		return fmt.Errorf("%w: quiz must contain exactly %d questions, got %d",
			ErrQuotaViolation, q.Total, len(questions))
	}

	counts := make(map[domain.QuestionKind]int)
	seenOrdinals := make(map[int]bool)
	for i, question := range questions {
		if question == nil {
			return fmt.Errorf("%w: question %d is nil", ErrQuotaViolation, i+1)
		}
		if err := question.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
		if seenOrdinals[question.Ordinal] {
			return fmt.Errorf("%w: duplicate ordinal %d", ErrQuotaViolation, question.Ordinal)
		}
		seenOrdinals[question.Ordinal] = true
		counts[question.Kind]++
	}

	for _, kind := range []domain.QuestionKind{
		domain.QuestionKindMultipleChoice,
		domain.QuestionKindShortAnswer,
		domain.QuestionKindEssay,
	} {
		if counts[kind] != q.KindCount(kind) {
			return fmt.Errorf("%w: quiz requires %d %s questions, got %d",
				ErrQuotaViolation, q.KindCount(kind), kind, counts[kind])
		}
	}

	return nil
}

// ValidateDeck implements Service.ValidateDeck.
func (s *defaultService) ValidateDeck(cards []*domain.Flashcard) error {
	q := s.quotas.Deck

	if len(cards) != q.Total {
		return fmt.Errorf("%w: deck must contain exactly %d cards, got %d",
			ErrQuotaViolation, q.Total, len(cards))
	}

	counts := make(map[domain.Difficulty]int)
	for i, card := range cards {
		if card == nil {
			return fmt.Errorf("%w: card %d is nil", ErrQuotaViolation, i+1)
		}
		if err := card.Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i+1, err)
		}
		counts[card.Difficulty]++
	}

	for _, d := range []domain.Difficulty{
		domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard,
	} {
		if counts[d] != q.DifficultyCount(d) {
			return fmt.Errorf("%w: deck requires %d %s cards, got %d",
				ErrQuotaViolation, q.DifficultyCount(d), d, counts[d])
		}
	}

	return nil
}

// ValidateNotes implements Service.ValidateNotes.
func (s *defaultService) ValidateNotes(notes *domain.StudyNotes) error {
	if notes == nil {
		return fmt.Errorf("%w: notes are nil", ErrQuotaViolation)
	}
	if err := notes.Validate(); err != nil {
		return err
	}

	q := s.quotas.Notes

	if len(notes.Sections) < q.MinSections || len(notes.Sections) > q.MaxSections {
		return fmt.Errorf("%w: notes require %d-%d sections, got %d",
			ErrQuotaViolation, q.MinSections, q.MaxSections, len(notes.Sections))
	}

	for _, section := range notes.Sections {
		if len(section.KeyPoints) < q.MinKeyPoints || len(section.KeyPoints) > q.MaxKeyPoints {
			return fmt.Errorf("%w: section %q requires %d-%d key points, got %d",
				ErrQuotaViolation, section.Heading, q.MinKeyPoints, q.MaxKeyPoints,
				len(section.KeyPoints))
		}
		if len(section.Examples) < q.MinExamples || len(section.Examples) > q.MaxExamples {
			return fmt.Errorf("%w: section %q requires %d-%d examples, got %d",
				ErrQuotaViolation, section.Heading, q.MinExamples, q.MaxExamples,
				len(section.Examples))
		}
	}

	if len(notes.Flagged) < q.MinFlagged || len(notes.Flagged) > q.MaxFlagged {
		if len(notes.Flagged) < q.MinFlagged {
			return fmt.Errorf("%w: only %d flagged concepts", ErrInsufficientConcepts, len(notes.Flagged))
		}
		return fmt.Errorf("%w: notes allow at most %d flagged concepts, got %d",
			ErrQuotaViolation, q.MaxFlagged, len(notes.Flagged))
	}

	return nil
}

// ValidateSummary implements Service.ValidateSummary.
// Length follows the authored page-ratio rule: under 5 pages one paragraph,
// 5-20 pages one paragraph, over 20 pages two to three paragraphs.
func (s *defaultService) ValidateSummary(summary *domain.Summary, pageCount int) error {
	if summary == nil {
		return fmt.Errorf("%w: summary is nil", ErrQuotaViolation)
	}
	if err := summary.Validate(); err != nil {
		return err
	}

	min, max := SummaryParagraphRange(pageCount)
	if len(summary.Paragraphs) < min || len(summary.Paragraphs) > max {
		return fmt.Errorf("%w: a %d-page document requires %d-%d summary paragraphs, got %d",
			ErrQuotaViolation, pageCount, min, max, len(summary.Paragraphs))
	}

	return nil
}

// SummaryParagraphRange returns the allowed paragraph count for a document
// of the given page count.
func SummaryParagraphRange(pageCount int) (min, max int) {
	if pageCount > 20 {
		return 2, 3
	}
	return 1, 1
}

// SelectConcepts implements Service.SelectConcepts.
func (s *defaultService) SelectConcepts(flagged []domain.Concept) ([]domain.Concept, error) {
	size := s.quotas.Notes.DeckSelectSize

	if len(flagged) < size {
		return nil, fmt.Errorf("%w: need %d concepts, got %d",
			ErrInsufficientConcepts, size, len(flagged))
	}

	// Stable sort: every high-priority concept precedes every medium one,
	// and document order is preserved within each band.
	selected := make([]domain.Concept, len(flagged))
	copy(selected, flagged)
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Priority == domain.PriorityHigh &&
			selected[j].Priority != domain.PriorityHigh
	})

	return selected[:size], nil
}
