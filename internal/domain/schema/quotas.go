// Package schema enforces the fixed-cardinality contracts that every
// generated study material must satisfy: question mixes for quizzes,
// difficulty distributions for flashcard decks, section and concept counts
// for study notes, and the page-ratio length rule for summaries. The quotas
// are authored constants, not computed values; generation output that does
// not meet them is rejected rather than repaired.
package schema

import "github.com/studygen/studygen-api/internal/domain"

// QuizQuota is the required question mix for a generated quiz.
type QuizQuota struct {
	Total          int
	MultipleChoice int
	ShortAnswer    int
	Essay          int
}

// DeckQuota is the required difficulty distribution for a flashcard deck.
type DeckQuota struct {
	Total  int
	Easy   int
	Medium int
	Hard   int
}

// NotesQuota bounds the shape of a study-notes document.
type NotesQuota struct {
	MinSections    int
	MaxSections    int
	MinKeyPoints   int
	MaxKeyPoints   int
	MinExamples    int
	MaxExamples    int
	MinFlagged     int
	MaxFlagged     int
	DeckSelectSize int // concepts selected when building a deck from notes
}

// Quotas bundles the authored quotas for all material kinds.
type Quotas struct {
	Quiz  QuizQuota
	Deck  DeckQuota
	Notes NotesQuota
}

// DefaultQuotas returns the authored cardinality constraints:
// 5 quiz questions (2 multiple-choice + 2 short-answer + 1 essay),
// 5 flashcards (2 easy + 2 medium + 1 hard), 5-7 note sections each with
// 3-4 key points and 1-2 examples, and 5-8 flagged concepts.
func DefaultQuotas() Quotas {
	return Quotas{
		Quiz: QuizQuota{
			Total:          5,
			MultipleChoice: 2,
			ShortAnswer:    2,
			Essay:          1,
		},
		Deck: DeckQuota{
			Total:  5,
			Easy:   2,
			Medium: 2,
			Hard:   1,
		},
		Notes: NotesQuota{
			MinSections:    5,
			MaxSections:    7,
			MinKeyPoints:   3,
			MaxKeyPoints:   4,
			MinExamples:    1,
			MaxExamples:    2,
			MinFlagged:     5,
			MaxFlagged:     8,
			DeckSelectSize: 5,
		},
	}
}

// DifficultyCount returns the quota for a single difficulty band.
func (q DeckQuota) DifficultyCount(d domain.Difficulty) int {
	switch d {
	case domain.DifficultyEasy:
		return q.Easy
	case domain.DifficultyMedium:
		return q.Medium
	case domain.DifficultyHard:
		return q.Hard
	default:
		return 0
	}
}

// KindCount returns the quota for a single question kind.
func (q QuizQuota) KindCount(k domain.QuestionKind) int {
	switch k {
	case domain.QuestionKindMultipleChoice:
		return q.MultipleChoice
	case domain.QuestionKindShortAnswer:
		return q.ShortAnswer
	case domain.QuestionKindEssay:
		return q.Essay
	default:
		return 0
	}
}
