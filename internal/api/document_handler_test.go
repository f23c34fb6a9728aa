package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studygen/studygen-api/internal/api/shared"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/service"
	"github.com/studygen/studygen-api/internal/task"
)

// authedRequest builds a request carrying the given user ID and, optionally,
// a chi route parameter "id".
func authedRequest(
	method, path string,
	body []byte,
	userID uuid.UUID,
	pathID string,
) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)

	if pathID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", pathID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

func testDocument(userID uuid.UUID) *domain.Document {
	now := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Document{
		ID:        uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		UserID:    userID,
		Text:      "Photosynthesis converts light energy into chemical energy.",
		PageCount: 3,
		Status:    domain.DocumentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDocumentHandler_CreateDocument(t *testing.T) {
	t.Parallel()

	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	t.Run("accepted with generation options forwarded", func(t *testing.T) {
		t.Parallel()
		doc := testDocument(userID)
		var gotRequest task.GenerationRequest
		svc := &MockDocumentService{
			CreateDocumentAndEnqueueTaskFn: func(ctx context.Context, uid uuid.UUID, text string, pageCount int, request task.GenerationRequest) (*domain.Document, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, 3, pageCount)
				gotRequest = request
				return doc, nil
			},
		}
		handler := NewDocumentHandler(svc, nil)

		body, err := json.Marshal(CreateDocumentRequest{
			Text:          doc.Text,
			PageCount:     3,
			Kinds:         []string{"quiz", "summary"},
			SummaryMethod: "extractive",
		})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		handler.CreateDocument(rec, authedRequest(http.MethodPost, "/api/documents", body, userID, ""))

		require.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, []string{"quiz", "summary"}, gotRequest.Kinds)
		assert.Equal(t, domain.SummaryMethodExtractive, gotRequest.SummaryMethod)

		var resp DocumentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, doc.ID.String(), resp.ID)
		assert.Equal(t, string(domain.DocumentStatusPending), resp.Status)
	})

	t.Run("document text never echoed back", func(t *testing.T) {
		t.Parallel()
		doc := testDocument(userID)
		svc := &MockDocumentService{
			CreateDocumentAndEnqueueTaskFn: func(ctx context.Context, uid uuid.UUID, text string, pageCount int, request task.GenerationRequest) (*domain.Document, error) {
				return doc, nil
			},
		}
		handler := NewDocumentHandler(svc, nil)

		body, err := json.Marshal(CreateDocumentRequest{Text: doc.Text})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		handler.CreateDocument(rec, authedRequest(http.MethodPost, "/api/documents", body, userID, ""))

		require.Equal(t, http.StatusAccepted, rec.Code)
		assert.NotContains(t, rec.Body.String(), "Photosynthesis")
	})

	t.Run("missing text rejected", func(t *testing.T) {
		t.Parallel()
		called := false
		svc := &MockDocumentService{
			CreateDocumentAndEnqueueTaskFn: func(ctx context.Context, uid uuid.UUID, text string, pageCount int, request task.GenerationRequest) (*domain.Document, error) {
				called = true
				return nil, nil
			},
		}
		handler := NewDocumentHandler(svc, nil)

		rec := httptest.NewRecorder()
		handler.CreateDocument(rec, authedRequest(http.MethodPost, "/api/documents", []byte(`{}`), userID, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, called)
	})

	t.Run("unknown kind rejected by validation", func(t *testing.T) {
		t.Parallel()
		handler := NewDocumentHandler(&MockDocumentService{}, nil)

		body, err := json.Marshal(CreateDocumentRequest{
			Text:  "some text",
			Kinds: []string{"poster"},
		})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		handler.CreateDocument(rec, authedRequest(http.MethodPost, "/api/documents", body, userID, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		handler := NewDocumentHandler(&MockDocumentService{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader([]byte(`{"text":"x"}`)))
		rec := httptest.NewRecorder()
		handler.CreateDocument(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		t.Parallel()
		svc := &MockDocumentService{
			CreateDocumentAndEnqueueTaskFn: func(ctx context.Context, uid uuid.UUID, text string, pageCount int, request task.GenerationRequest) (*domain.Document, error) {
				return nil, errors.New("insert failed")
			},
		}
		handler := NewDocumentHandler(svc, nil)

		body, err := json.Marshal(CreateDocumentRequest{Text: "some text"})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		handler.CreateDocument(rec, authedRequest(http.MethodPost, "/api/documents", body, userID, ""))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "insert failed")
	})
}

func TestDocumentHandler_GetDocument(t *testing.T) {
	t.Parallel()

	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	doc := testDocument(userID)

	t.Run("returns document status", func(t *testing.T) {
		t.Parallel()
		svc := &MockDocumentService{
			GetDocumentFn: func(ctx context.Context, documentID uuid.UUID) (*domain.Document, error) {
				assert.Equal(t, doc.ID, documentID)
				return doc, nil
			},
		}
		handler := NewDocumentHandler(svc, nil)

		rec := httptest.NewRecorder()
		handler.GetDocument(rec, authedRequest(http.MethodGet, "/api/documents/"+doc.ID.String(), nil, userID, doc.ID.String()))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp DocumentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, string(domain.DocumentStatusPending), resp.Status)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		svc := &MockDocumentService{
			GetDocumentFn: func(ctx context.Context, documentID uuid.UUID) (*domain.Document, error) {
				return nil, service.ErrDocumentNotFound
			},
		}
		handler := NewDocumentHandler(svc, nil)

		rec := httptest.NewRecorder()
		handler.GetDocument(rec, authedRequest(http.MethodGet, "/api/documents/"+doc.ID.String(), nil, userID, doc.ID.String()))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("other user's document forbidden", func(t *testing.T) {
		t.Parallel()
		svc := &MockDocumentService{
			GetDocumentFn: func(ctx context.Context, documentID uuid.UUID) (*domain.Document, error) {
				return doc, nil
			},
		}
		handler := NewDocumentHandler(svc, nil)

		otherUser := uuid.MustParse("33333333-3333-3333-3333-333333333333")
		rec := httptest.NewRecorder()
		handler.GetDocument(rec, authedRequest(http.MethodGet, "/api/documents/"+doc.ID.String(), nil, otherUser, doc.ID.String()))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()
		handler := NewDocumentHandler(&MockDocumentService{}, nil)

		rec := httptest.NewRecorder()
		handler.GetDocument(rec, authedRequest(http.MethodGet, "/api/documents/not-a-uuid", nil, userID, "not-a-uuid"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
