package task

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studygen/studygen-api/internal/domain"
)

// mockDocumentService implements DocumentService for testing
type mockDocumentService struct {
	document      *domain.Document
	getErr        error
	updateErr     error
	statusUpdates []domain.DocumentStatus
}

func (m *mockDocumentService) GetDocument(ctx context.Context, documentID uuid.UUID) (*domain.Document, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.document, nil
}

func (m *mockDocumentService) UpdateDocumentStatus(
	ctx context.Context,
	documentID uuid.UUID,
	status domain.DocumentStatus,
) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

// mockGenerator implements Generator for testing. Each kind can be made to
// fail independently.
type mockGenerator struct {
	quizErr    error
	deckErr    error
	notesErr   error
	summaryErr error
}

func (m *mockGenerator) GenerateQuiz(
	ctx context.Context, documentText string, userID, documentID uuid.UUID,
) ([]*domain.QuizQuestion, error) {
	if m.quizErr != nil {
		return nil, m.quizErr
	}
	q, err := domain.NewQuizQuestion(userID, documentID, 1, domain.QuestionKindEssay,
		"Explain the material.", nil, "A model answer.", "It covers the core idea.")
	if err != nil {
		return nil, err
	}
	return []*domain.QuizQuestion{q}, nil
}

func (m *mockGenerator) GenerateDeck(
	ctx context.Context, documentText string, userID, documentID uuid.UUID,
) ([]*domain.Flashcard, error) {
	if m.deckErr != nil {
		return nil, m.deckErr
	}
	c, err := domain.NewFlashcard(userID, documentID, domain.DifficultyEasy,
		"Front", "Back", "Concept")
	if err != nil {
		return nil, err
	}
	return []*domain.Flashcard{c}, nil
}

func (m *mockGenerator) GenerateNotes(
	ctx context.Context, documentText string, userID, documentID uuid.UUID,
) (*domain.StudyNotes, error) {
	if m.notesErr != nil {
		return nil, m.notesErr
	}
	return domain.NewStudyNotes(userID, documentID, "Notes", nil, nil)
}

func (m *mockGenerator) GenerateSummary(
	ctx context.Context, documentText string, pageCount int, userID, documentID uuid.UUID,
) (*domain.Summary, error) {
	if m.summaryErr != nil {
		return nil, m.summaryErr
	}
	return domain.NewSummary(userID, documentID, domain.SummaryMethodAbstractive,
		[]string{"A summary paragraph."})
}

// mockMaterialService implements MaterialService for testing
type mockMaterialService struct {
	quizSaved    bool
	deckSaved    bool
	notesSaved   bool
	summarySaved bool
	saveErr      error
}

func (m *mockMaterialService) SaveQuiz(ctx context.Context, documentID uuid.UUID, questions []*domain.QuizQuestion) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.quizSaved = true
	return nil
}

func (m *mockMaterialService) SaveDeck(ctx context.Context, cards []*domain.Flashcard) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.deckSaved = true
	return nil
}

func (m *mockMaterialService) SaveNotes(ctx context.Context, notes *domain.StudyNotes) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.notesSaved = true
	return nil
}

func (m *mockMaterialService) SaveSummary(ctx context.Context, summary *domain.Summary) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.summarySaved = true
	return nil
}

// mockSummarizer implements Summarizer for testing
type mockSummarizer struct {
	called bool
	err    error
}

func (m *mockSummarizer) Summarize(
	ctx context.Context, documentText string, pageCount int, userID, documentID uuid.UUID,
) (*domain.Summary, error) {
	m.called = true
	if m.err != nil {
		return nil, m.err
	}
	return domain.NewSummary(userID, documentID, domain.SummaryMethodExtractive,
		[]string{"An extractive paragraph."})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDocument(t *testing.T) *domain.Document {
	t.Helper()
	doc, err := domain.NewDocument(uuid.New(), "Photosynthesis converts light into chemical energy.", 3)
	require.NoError(t, err)
	return doc
}

func TestNewMaterialGenerationTask_Validation(t *testing.T) {
	t.Parallel()

	docs := &mockDocumentService{}
	gen := &mockGenerator{}
	materials := &mockMaterialService{}
	logger := testLogger()

	tests := []struct {
		name      string
		documents DocumentService
		generator Generator
		materials MaterialService
		logger    *slog.Logger
		wantErr   error
	}{
		{"nil document service", nil, gen, materials, logger, ErrNilDocumentService},
		{"nil generator", docs, nil, materials, logger, ErrNilGenerator},
		{"nil material service", docs, gen, nil, logger, ErrNilMaterialService},
		{"nil logger", docs, gen, materials, nil, ErrNilLogger},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewMaterialGenerationTask(uuid.New(), GenerationRequest{},
				tt.documents, tt.generator, nil, tt.materials, tt.logger)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("empty document ID", func(t *testing.T) {
		t.Parallel()
		_, err := NewMaterialGenerationTask(uuid.Nil, GenerationRequest{}, docs, gen, nil, materials, logger)
		assert.ErrorIs(t, err, ErrEmptyDocumentID)
	})

	t.Run("unknown material kind", func(t *testing.T) {
		t.Parallel()
		req := GenerationRequest{Kinds: []string{"poster"}}
		_, err := NewMaterialGenerationTask(uuid.New(), req, docs, gen, nil, materials, logger)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("extractive summary requires summarizer", func(t *testing.T) {
		t.Parallel()
		req := GenerationRequest{SummaryMethod: domain.SummaryMethodExtractive}
		_, err := NewMaterialGenerationTask(uuid.New(), req, docs, gen, nil, materials, logger)
		assert.ErrorIs(t, err, ErrNilSummarizer)
	})
}

func TestGenerationRequest_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("empty request asks for everything", func(t *testing.T) {
		t.Parallel()
		req := GenerationRequest{}.Normalize()
		assert.Equal(t, AllMaterialKinds(), req.Kinds)
		assert.Equal(t, domain.SummaryMethodAbstractive, req.SummaryMethod)
	})

	t.Run("repeated kinds collapse to one", func(t *testing.T) {
		t.Parallel()
		req := GenerationRequest{
			Kinds: []string{MaterialKindQuiz, MaterialKindQuiz, MaterialKindNotes, MaterialKindQuiz},
		}.Normalize()
		assert.Equal(t, []string{MaterialKindQuiz, MaterialKindNotes}, req.Kinds)
	})
}

func TestMaterialGenerationTask_Execute_DuplicateKindFailureIsTotal(t *testing.T) {
	t.Parallel()

	doc := testDocument(t)
	docs := &mockDocumentService{document: doc}
	gen := &mockGenerator{quizErr: errors.New("generator down")}
	req := GenerationRequest{Kinds: []string{MaterialKindQuiz, MaterialKindQuiz}}

	task, err := NewMaterialGenerationTask(doc.ID, req, docs, gen, nil, &mockMaterialService{}, testLogger())
	require.NoError(t, err)

	// The single requested kind failed, so the document must end up
	// failed rather than completed with errors.
	err = task.Execute(context.Background())
	require.Error(t, err)
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Equal(t,
		[]domain.DocumentStatus{domain.DocumentStatusProcessing, domain.DocumentStatusFailed},
		docs.statusUpdates)
}

func TestMaterialGenerationTask_Payload(t *testing.T) {
	t.Parallel()

	doc := testDocument(t)
	task, err := NewMaterialGenerationTask(doc.ID, GenerationRequest{},
		&mockDocumentService{document: doc}, &mockGenerator{}, nil, &mockMaterialService{}, testLogger())
	require.NoError(t, err)

	var payload materialGenerationPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, doc.ID, payload.DocumentID)
	assert.Equal(t, AllMaterialKinds(), payload.Kinds)
	assert.Equal(t, domain.SummaryMethodAbstractive, payload.SummaryMethod)
	assert.Equal(t, TaskTypeMaterialGeneration, task.Type())
	assert.Equal(t, TaskStatusPending, task.Status())
}

func TestMaterialGenerationTask_Execute_AllKindsSucceed(t *testing.T) {
	t.Parallel()

	doc := testDocument(t)
	docs := &mockDocumentService{document: doc}
	materials := &mockMaterialService{}

	task, err := NewMaterialGenerationTask(doc.ID, GenerationRequest{}, docs, &mockGenerator{}, nil, materials, testLogger())
	require.NoError(t, err)

	require.NoError(t, task.Execute(context.Background()))

	assert.Equal(t, TaskStatusCompleted, task.Status())
	assert.Equal(t,
		[]domain.DocumentStatus{domain.DocumentStatusProcessing, domain.DocumentStatusCompleted},
		docs.statusUpdates)
	assert.True(t, materials.quizSaved)
	assert.True(t, materials.deckSaved)
	assert.True(t, materials.notesSaved)
	assert.True(t, materials.summarySaved)
}

func TestMaterialGenerationTask_Execute_PartialFailure(t *testing.T) {
	t.Parallel()

	doc := testDocument(t)
	docs := &mockDocumentService{document: doc}
	materials := &mockMaterialService{}
	gen := &mockGenerator{quizErr: errors.New("quiz generation blew up")}

	task, err := NewMaterialGenerationTask(doc.ID, GenerationRequest{}, docs, gen, nil, materials, testLogger())
	require.NoError(t, err)

	// A partial failure is not a task failure: the surviving materials
	// were generated and saved.
	require.NoError(t, task.Execute(context.Background()))

	assert.Equal(t, TaskStatusCompleted, task.Status())
	assert.Equal(t,
		[]domain.DocumentStatus{domain.DocumentStatusProcessing, domain.DocumentStatusCompletedWithErrors},
		docs.statusUpdates)
	assert.False(t, materials.quizSaved)
	assert.True(t, materials.deckSaved)
	assert.True(t, materials.notesSaved)
	assert.True(t, materials.summarySaved)
}

func TestMaterialGenerationTask_Execute_TotalFailure(t *testing.T) {
	t.Parallel()

	doc := testDocument(t)
	docs := &mockDocumentService{document: doc}
	boom := errors.New("generator down")
	gen := &mockGenerator{quizErr: boom, deckErr: boom, notesErr: boom, summaryErr: boom}

	task, err := NewMaterialGenerationTask(doc.ID, GenerationRequest{}, docs, gen, nil, &mockMaterialService{}, testLogger())
	require.NoError(t, err)

	err = task.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all material kinds failed")

	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Equal(t,
		[]domain.DocumentStatus{domain.DocumentStatusProcessing, domain.DocumentStatusFailed},
		docs.statusUpdates)
}

func TestMaterialGenerationTask_Execute_SaveFailureCountsAsKindFailure(t *testing.T) {
	t.Parallel()

	doc := testDocument(t)
	docs := &mockDocumentService{document: doc}
	materials := &mockMaterialService{saveErr: errors.New("database unavailable")}

	task, err := NewMaterialGenerationTask(doc.ID, GenerationRequest{}, docs, &mockGenerator{}, nil, materials, testLogger())
	require.NoError(t, err)

	// Every save fails, so the document ends as failed even though
	// generation itself succeeded.
	err = task.Execute(context.Background())
	require.Error(t, err)
	assert.Equal(t,
		[]domain.DocumentStatus{domain.DocumentStatusProcessing, domain.DocumentStatusFailed},
		docs.statusUpdates)
}

func TestMaterialGenerationTask_Execute_SubsetOfKinds(t *testing.T) {
	t.Parallel()

	doc := testDocument(t)
	docs := &mockDocumentService{document: doc}
	materials := &mockMaterialService{}
	req := GenerationRequest{Kinds: []string{MaterialKindQuiz, MaterialKindNotes}}

	task, err := NewMaterialGenerationTask(doc.ID, req, docs, &mockGenerator{}, nil, materials, testLogger())
	require.NoError(t, err)

	require.NoError(t, task.Execute(context.Background()))

	assert.Equal(t,
		[]domain.DocumentStatus{domain.DocumentStatusProcessing, domain.DocumentStatusCompleted},
		docs.statusUpdates)
	assert.True(t, materials.quizSaved)
	assert.True(t, materials.notesSaved)
	assert.False(t, materials.deckSaved)
	assert.False(t, materials.summarySaved)
}

func TestMaterialGenerationTask_Execute_ExtractiveSummary(t *testing.T) {
	t.Parallel()

	doc := testDocument(t)
	docs := &mockDocumentService{document: doc}
	materials := &mockMaterialService{}
	summarizer := &mockSummarizer{}
	// The generator fails for summaries so the test catches any fallthrough
	// to the model-backed path.
	gen := &mockGenerator{summaryErr: errors.New("should not be called")}
	req := GenerationRequest{
		Kinds:         []string{MaterialKindSummary},
		SummaryMethod: domain.SummaryMethodExtractive,
	}

	task, err := NewMaterialGenerationTask(doc.ID, req, docs, gen, summarizer, materials, testLogger())
	require.NoError(t, err)

	require.NoError(t, task.Execute(context.Background()))

	assert.True(t, summarizer.called)
	assert.True(t, materials.summarySaved)
	assert.Equal(t,
		[]domain.DocumentStatus{domain.DocumentStatusProcessing, domain.DocumentStatusCompleted},
		docs.statusUpdates)
}

func TestMaterialGenerationTask_Execute_DocumentFetchFails(t *testing.T) {
	t.Parallel()

	docs := &mockDocumentService{getErr: errors.New("document not found")}
	task, err := NewMaterialGenerationTask(uuid.New(), GenerationRequest{}, docs, &mockGenerator{}, nil, &mockMaterialService{}, testLogger())
	require.NoError(t, err)

	err = task.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to retrieve document")
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Empty(t, docs.statusUpdates)
}
