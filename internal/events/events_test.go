package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskRequestEvent(t *testing.T) {
	type testPayload struct {
		DocumentID uuid.UUID `json:"document_id"`
		Action     string    `json:"action"`
	}

	payload := testPayload{
		DocumentID: uuid.New(),
		Action:     "generate",
	}

	event, err := NewTaskRequestEvent("material_generation", payload)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "material_generation", event.Type)
	assert.NotNil(t, event.Payload)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	// Verify payload round-trips through the event.
	var decoded testPayload
	err = json.Unmarshal(event.Payload, &decoded)
	require.NoError(t, err)
	assert.Equal(t, payload.DocumentID, decoded.DocumentID)
	assert.Equal(t, payload.Action, decoded.Action)
}

func TestUnmarshalPayload(t *testing.T) {
	documentID := uuid.New()
	event, err := NewTaskRequestEvent("material_generation", map[string]string{
		"document_id": documentID.String(),
	})
	require.NoError(t, err)

	var payload struct {
		DocumentID string `json:"document_id"`
	}
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, documentID.String(), payload.DocumentID)
}

// MockEventHandler records received events and can be primed to fail.
type MockEventHandler struct {
	LastEvent    *TaskRequestEvent
	HandlerError error
	HandledCount int
}

func (h *MockEventHandler) HandleEvent(ctx context.Context, event *TaskRequestEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}
