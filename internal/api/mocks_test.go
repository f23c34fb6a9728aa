package api

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/store"
	"github.com/studygen/studygen-api/internal/task"
)

// MockDocumentService is a mock implementation of service.DocumentService
type MockDocumentService struct {
	CreateDocumentAndEnqueueTaskFn func(ctx context.Context, userID uuid.UUID, text string, pageCount int, request task.GenerationRequest) (*domain.Document, error)
	GetDocumentFn                  func(ctx context.Context, documentID uuid.UUID) (*domain.Document, error)
	UpdateDocumentStatusFn         func(ctx context.Context, documentID uuid.UUID, status domain.DocumentStatus) error
}

func (m *MockDocumentService) CreateDocumentAndEnqueueTask(
	ctx context.Context,
	userID uuid.UUID,
	text string,
	pageCount int,
	request task.GenerationRequest,
) (*domain.Document, error) {
	if m.CreateDocumentAndEnqueueTaskFn != nil {
		return m.CreateDocumentAndEnqueueTaskFn(ctx, userID, text, pageCount, request)
	}
	return nil, nil
}

func (m *MockDocumentService) GetDocument(
	ctx context.Context,
	documentID uuid.UUID,
) (*domain.Document, error) {
	if m.GetDocumentFn != nil {
		return m.GetDocumentFn(ctx, documentID)
	}
	return nil, nil
}

func (m *MockDocumentService) UpdateDocumentStatus(
	ctx context.Context,
	documentID uuid.UUID,
	status domain.DocumentStatus,
) error {
	if m.UpdateDocumentStatusFn != nil {
		return m.UpdateDocumentStatusFn(ctx, documentID, status)
	}
	return nil
}

// MockMaterialService is a mock implementation of service.MaterialService
type MockMaterialService struct {
	SaveQuizFn                  func(ctx context.Context, documentID uuid.UUID, questions []*domain.QuizQuestion) error
	SaveDeckFn                  func(ctx context.Context, cards []*domain.Flashcard) error
	SaveNotesFn                 func(ctx context.Context, notes *domain.StudyNotes) error
	SaveSummaryFn               func(ctx context.Context, summary *domain.Summary) error
	GetQuizFn                   func(ctx context.Context, documentID uuid.UUID) ([]*domain.QuizQuestion, error)
	GetDeckFn                   func(ctx context.Context, documentID uuid.UUID) ([]*domain.Flashcard, error)
	GetNotesFn                  func(ctx context.Context, documentID uuid.UUID) (*domain.StudyNotes, error)
	GetSummaryFn                func(ctx context.Context, documentID uuid.UUID) (*domain.Summary, error)
	CreateFlashcardsFromNotesFn func(ctx context.Context, userID, documentID uuid.UUID, source []byte) ([]*domain.Flashcard, error)
}

func (m *MockMaterialService) SaveQuiz(
	ctx context.Context,
	documentID uuid.UUID,
	questions []*domain.QuizQuestion,
) error {
	if m.SaveQuizFn != nil {
		return m.SaveQuizFn(ctx, documentID, questions)
	}
	return nil
}

func (m *MockMaterialService) SaveDeck(ctx context.Context, cards []*domain.Flashcard) error {
	if m.SaveDeckFn != nil {
		return m.SaveDeckFn(ctx, cards)
	}
	return nil
}

func (m *MockMaterialService) SaveNotes(ctx context.Context, notes *domain.StudyNotes) error {
	if m.SaveNotesFn != nil {
		return m.SaveNotesFn(ctx, notes)
	}
	return nil
}

func (m *MockMaterialService) SaveSummary(ctx context.Context, summary *domain.Summary) error {
	if m.SaveSummaryFn != nil {
		return m.SaveSummaryFn(ctx, summary)
	}
	return nil
}

func (m *MockMaterialService) GetQuiz(
	ctx context.Context,
	documentID uuid.UUID,
) ([]*domain.QuizQuestion, error) {
	if m.GetQuizFn != nil {
		return m.GetQuizFn(ctx, documentID)
	}
	return nil, nil
}

func (m *MockMaterialService) GetDeck(
	ctx context.Context,
	documentID uuid.UUID,
) ([]*domain.Flashcard, error) {
	if m.GetDeckFn != nil {
		return m.GetDeckFn(ctx, documentID)
	}
	return nil, nil
}

func (m *MockMaterialService) GetNotes(
	ctx context.Context,
	documentID uuid.UUID,
) (*domain.StudyNotes, error) {
	if m.GetNotesFn != nil {
		return m.GetNotesFn(ctx, documentID)
	}
	return nil, nil
}

func (m *MockMaterialService) GetSummary(
	ctx context.Context,
	documentID uuid.UUID,
) (*domain.Summary, error) {
	if m.GetSummaryFn != nil {
		return m.GetSummaryFn(ctx, documentID)
	}
	return nil, nil
}

func (m *MockMaterialService) CreateFlashcardsFromNotes(
	ctx context.Context,
	userID, documentID uuid.UUID,
	source []byte,
) ([]*domain.Flashcard, error) {
	if m.CreateFlashcardsFromNotesFn != nil {
		return m.CreateFlashcardsFromNotesFn(ctx, userID, documentID, source)
	}
	return nil, nil
}

// MockUserStore is a mock implementation of store.UserStore
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn     func(ctx context.Context, user *domain.User) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// MockUserService is a mock implementation of service.UserService
type MockUserService struct {
	GetUserFn        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateEmailFn    func(ctx context.Context, userID uuid.UUID, newEmail string) error
	UpdatePasswordFn func(ctx context.Context, userID uuid.UUID, newPassword string) error
	DeleteUserFn     func(ctx context.Context, userID uuid.UUID) error
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *MockUserService) UpdateEmail(ctx context.Context, userID uuid.UUID, newEmail string) error {
	if m.UpdateEmailFn != nil {
		return m.UpdateEmailFn(ctx, userID, newEmail)
	}
	return nil
}

func (m *MockUserService) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if m.UpdatePasswordFn != nil {
		return m.UpdatePasswordFn(ctx, userID, newPassword)
	}
	return nil
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx, userID)
	}
	return nil
}
