package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/platform/logger"
	"github.com/studygen/studygen-api/internal/store"
)

// PostgresQuizStore implements the store.QuizStore interface
// using a PostgreSQL database as the storage backend.
// Multiple-choice options are stored as a JSONB array.
type PostgresQuizStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuizStore creates a new PostgreSQL implementation of the
// QuizStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresQuizStore(db store.DBTX, logger *slog.Logger) *PostgresQuizStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuizStore{
		db:     db,
		logger: logger.With(slog.String("component", "quiz_store")),
	}
}

// Ensure PostgresQuizStore implements store.QuizStore interface
var _ store.QuizStore = (*PostgresQuizStore)(nil)

// Replace implements store.QuizStore.Replace
// It deletes any existing quiz for the document and inserts the new
// questions. Callers wanting atomicity must run this inside a transaction
// via WithTx.
func (s *PostgresQuizStore) Replace(ctx context.Context, documentID uuid.UUID, questions []*domain.QuizQuestion) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i, q := range questions {
		if err := q.Validate(); err != nil {
			log.Warn("quiz question validation failed",
				slog.String("error", err.Error()),
				slog.Int("ordinal", q.Ordinal))
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM quiz_questions WHERE document_id = $1`, documentID); err != nil {
		log.Error("failed to clear existing quiz",
			slog.String("error", err.Error()),
			slog.String("document_id", documentID.String()))
		return MapError(err)
	}

	query := `
		INSERT INTO quiz_questions
			(id, user_id, document_id, ordinal, kind, stem, options, correct_answer, explanation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, q := range questions {
		options, err := marshalOptions(q.Options)
		if err != nil {
			return fmt.Errorf("failed to encode options for question %d: %w", q.Ordinal, err)
		}

		_, err = s.db.ExecContext(
			ctx,
			query,
			q.ID,
			q.UserID,
			q.DocumentID,
			q.Ordinal,
			q.Kind,
			q.Stem,
			options,
			q.CorrectAnswer,
			q.Explanation,
			q.CreatedAt,
			q.UpdatedAt,
		)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: document %s not found",
					store.ErrInvalidEntity, documentID)
			}
			log.Error("failed to insert quiz question",
				slog.String("error", err.Error()),
				slog.Int("ordinal", q.Ordinal))
			return MapError(err)
		}
	}

	log.Info("quiz replaced successfully",
		slog.String("document_id", documentID.String()),
		slog.Int("question_count", len(questions)))
	return nil
}

// FindByDocument implements store.QuizStore.FindByDocument
// Returns store.ErrQuizNotFound if no quiz exists for the document.
func (s *PostgresQuizStore) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]*domain.QuizQuestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, document_id, ordinal, kind, stem, options, correct_answer, explanation, created_at, updated_at
		FROM quiz_questions
		WHERE document_id = $1
		ORDER BY ordinal ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		log.Error("failed to query quiz by document",
			slog.String("error", err.Error()),
			slog.String("document_id", documentID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var questions []*domain.QuizQuestion
	for rows.Next() {
		var q domain.QuizQuestion
		var kind string
		var options []byte

		err := rows.Scan(
			&q.ID,
			&q.UserID,
			&q.DocumentID,
			&q.Ordinal,
			&kind,
			&q.Stem,
			&options,
			&q.CorrectAnswer,
			&q.Explanation,
			&q.CreatedAt,
			&q.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan quiz question row",
				slog.String("error", err.Error()))
			return nil, err
		}

		q.Kind = domain.QuestionKind(kind)
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, fmt.Errorf("failed to decode options for question %d: %w", q.Ordinal, err)
			}
		}
		questions = append(questions, &q)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if len(questions) == 0 {
		return nil, store.ErrQuizNotFound
	}
	return questions, nil
}

// WithTx implements store.QuizStore.WithTx
func (s *PostgresQuizStore) WithTx(tx *sql.Tx) store.QuizStore {
	return &PostgresQuizStore{
		db:     tx,
		logger: s.logger,
	}
}

// marshalOptions encodes the options slice as JSON, with NULL for
// questions that carry none.
func marshalOptions(options []string) (any, error) {
	if len(options) == 0 {
		return nil, nil
	}
	return json.Marshal(options)
}
