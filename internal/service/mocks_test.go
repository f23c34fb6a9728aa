package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/events"
)

// noopTxDriver is a database/sql driver whose connections support
// transactions but nothing else. It lets unit tests drive
// store.RunInTransaction without a database server; the repository mocks
// ignore the transaction handle anyway.
type noopTxDriver struct{}

func (noopTxDriver) Open(string) (driver.Conn, error) { return noopConn{}, nil }

type noopConn struct{}

func (noopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (noopConn) Close() error                        { return nil }
func (noopConn) Begin() (driver.Tx, error)           { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var registerNoopDriver sync.Once

// newTxDB returns a *sql.DB whose transactions always succeed.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	registerNoopDriver.Do(func() {
		sql.Register("nooptx", noopTxDriver{})
	})
	db, err := sql.Open("nooptx", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockDocumentRepository is a mock implementation of the DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
	db *sql.DB
}

func (m *MockDocumentRepository) Create(ctx context.Context, document *domain.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*domain.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, document *domain.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockDocumentRepository) WithTx(tx *sql.Tx) DocumentRepository {
	return m
}

func (m *MockDocumentRepository) DB() *sql.DB {
	return m.db
}

// MockEventEmitter implements the events.EventEmitter interface for testing
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockMaterialRepository is a mock implementation of the MaterialRepository
type MockMaterialRepository struct {
	mock.Mock
	db *sql.DB
}

func (m *MockMaterialRepository) ReplaceQuiz(
	ctx context.Context,
	documentID uuid.UUID,
	questions []*domain.QuizQuestion,
) error {
	args := m.Called(ctx, documentID, questions)
	return args.Error(0)
}

func (m *MockMaterialRepository) GetQuiz(
	ctx context.Context,
	documentID uuid.UUID,
) ([]*domain.QuizQuestion, error) {
	args := m.Called(ctx, documentID)
	questions, _ := args.Get(0).([]*domain.QuizQuestion)
	return questions, args.Error(1)
}

func (m *MockMaterialRepository) ReplaceDeck(
	ctx context.Context,
	documentID uuid.UUID,
	cards []*domain.Flashcard,
) error {
	args := m.Called(ctx, documentID, cards)
	return args.Error(0)
}

func (m *MockMaterialRepository) GetDeck(
	ctx context.Context,
	documentID uuid.UUID,
) ([]*domain.Flashcard, error) {
	args := m.Called(ctx, documentID)
	cards, _ := args.Get(0).([]*domain.Flashcard)
	return cards, args.Error(1)
}

func (m *MockMaterialRepository) SaveNotes(ctx context.Context, notes *domain.StudyNotes) error {
	args := m.Called(ctx, notes)
	return args.Error(0)
}

func (m *MockMaterialRepository) GetNotes(
	ctx context.Context,
	documentID uuid.UUID,
) (*domain.StudyNotes, error) {
	args := m.Called(ctx, documentID)
	notes, _ := args.Get(0).(*domain.StudyNotes)
	return notes, args.Error(1)
}

func (m *MockMaterialRepository) SaveSummary(ctx context.Context, summary *domain.Summary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockMaterialRepository) GetSummary(
	ctx context.Context,
	documentID uuid.UUID,
) (*domain.Summary, error) {
	args := m.Called(ctx, documentID)
	summary, _ := args.Get(0).(*domain.Summary)
	return summary, args.Error(1)
}

func (m *MockMaterialRepository) WithTx(tx *sql.Tx) MaterialRepository {
	return m
}

func (m *MockMaterialRepository) DB() *sql.DB {
	return m.db
}
