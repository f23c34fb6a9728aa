package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuestionKind is the closed question-type classification for quizzes.
type QuestionKind string

// Possible question kinds
const (
	QuestionKindMultipleChoice QuestionKind = "multiple_choice"
	QuestionKindShortAnswer    QuestionKind = "short_answer"
	QuestionKindEssay          QuestionKind = "essay"
)

// MultipleChoiceOptionCount is the required number of lettered options
// (A through D) on every multiple-choice question.
const MultipleChoiceOptionCount = 4

// QuizQuestion-specific validation errors
var (
	ErrQuestionIDEmpty          = errors.New("question ID cannot be empty")
	ErrQuestionUserIDEmpty      = errors.New("question user ID cannot be empty")
	ErrQuestionDocumentIDEmpty  = errors.New("question document ID cannot be empty")
	ErrQuestionStemEmpty        = errors.New("question stem cannot be empty")
	ErrQuestionAnswerEmpty      = errors.New("question answer cannot be empty")
	ErrQuestionExplanationEmpty = errors.New("question explanation cannot be empty")
	ErrInvalidQuestionKind      = errors.New("invalid question kind")
	ErrInvalidQuestionOrdinal   = errors.New("question ordinal must be between 1 and 5")
	ErrInvalidOptionCount       = errors.New("multiple-choice question must have exactly 4 options")
	ErrUnexpectedOptions        = errors.New("only multiple-choice questions carry options")
	ErrAnswerNotAnOption        = errors.New("correct answer must reference an option letter A-D")
)

// OptionLetters are the labels assigned to multiple-choice options in order.
var OptionLetters = [MultipleChoiceOptionCount]string{"A", "B", "C", "D"}

// QuizQuestion represents one question of a generated five-question quiz.
// Multiple-choice questions carry exactly four lettered options and a
// correct answer referencing one of them by letter; short-answer and essay
// questions carry a free-text answer key instead.
type QuizQuestion struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"user_id"`
	DocumentID    uuid.UUID    `json:"document_id"`
	Ordinal       int          `json:"ordinal"`
	Kind          QuestionKind `json:"kind"`
	Stem          string       `json:"stem"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewQuizQuestion creates a new QuizQuestion and validates it.
// For multiple-choice questions, options must hold exactly four entries and
// correctAnswer must be one of the letters A-D.
func NewQuizQuestion(
	userID, documentID uuid.UUID,
	ordinal int,
	kind QuestionKind,
	stem string,
	options []string,
	correctAnswer, explanation string,
) (*QuizQuestion, error) {
	q := &QuizQuestion{
		ID:            uuid.New(),
		UserID:        userID,
		DocumentID:    documentID,
		Ordinal:       ordinal,
		Kind:          kind,
		Stem:          stem,
		Options:       options,
		CorrectAnswer: correctAnswer,
		Explanation:   explanation,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}

	return q, nil
}

// Validate checks if the QuizQuestion has valid data.
// Returns an error if any field fails validation.
func (q *QuizQuestion) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuestionIDEmpty
	}

	if q.UserID == uuid.Nil {
		return ErrQuestionUserIDEmpty
	}

	if q.DocumentID == uuid.Nil {
		return ErrQuestionDocumentIDEmpty
	}

	if q.Ordinal < 1 || q.Ordinal > 5 {
		return ErrInvalidQuestionOrdinal
	}

	if !isValidQuestionKind(q.Kind) {
		return ErrInvalidQuestionKind
	}

	if q.Stem == "" {
		return ErrQuestionStemEmpty
	}

	if q.CorrectAnswer == "" {
		return ErrQuestionAnswerEmpty
	}

	if q.Explanation == "" {
		return ErrQuestionExplanationEmpty
	}

	switch q.Kind {
	case QuestionKindMultipleChoice:
		if len(q.Options) != MultipleChoiceOptionCount {
			return ErrInvalidOptionCount
		}
		for i, opt := range q.Options {
			if opt == "" {
				return fmt.Errorf("%w: option %s is empty", ErrInvalidOptionCount, OptionLetters[i])
			}
		}
		if !isOptionLetter(q.CorrectAnswer) {
			return ErrAnswerNotAnOption
		}
	default:
		if len(q.Options) != 0 {
			return ErrUnexpectedOptions
		}
	}

	return nil
}

// AnswerText resolves the correct answer to its full text. For
// multiple-choice questions this is the option the answer letter points at;
// for all other kinds it is the answer key itself.
func (q *QuizQuestion) AnswerText() string {
	if q.Kind != QuestionKindMultipleChoice {
		return q.CorrectAnswer
	}
	for i, letter := range OptionLetters {
		if q.CorrectAnswer == letter {
			return q.Options[i]
		}
	}
	return q.CorrectAnswer
}

// isValidQuestionKind checks if the given kind is a valid QuestionKind.
func isValidQuestionKind(kind QuestionKind) bool {
	switch kind {
	case QuestionKindMultipleChoice, QuestionKindShortAnswer, QuestionKindEssay:
		return true
	default:
		return false
	}
}

// isOptionLetter reports whether s is one of the option letters A-D.
func isOptionLetter(s string) bool {
	for _, letter := range OptionLetters {
		if s == letter {
			return true
		}
	}
	return false
}
