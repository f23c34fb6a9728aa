package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MockTask implements Task for tests, with a pluggable Execute.
type MockTask struct {
	TaskID      uuid.UUID
	TaskType    string
	TaskPayload []byte
	TaskStatus  TaskStatus
	ExecuteFn   func(ctx context.Context) error
}

// NewMockTask builds a pending MockTask whose Execute succeeds.
func NewMockTask(id uuid.UUID, taskType string, payload []byte) *MockTask {
	return &MockTask{
		TaskID:      id,
		TaskType:    taskType,
		TaskPayload: payload,
		TaskStatus:  TaskStatusPending,
		ExecuteFn:   func(ctx context.Context) error { return nil },
	}
}

func (t *MockTask) ID() uuid.UUID      { return t.TaskID }
func (t *MockTask) Type() string       { return t.TaskType }
func (t *MockTask) Payload() []byte    { return t.TaskPayload }
func (t *MockTask) Status() TaskStatus { return t.TaskStatus }

func (t *MockTask) Execute(ctx context.Context) error {
	return t.ExecuteFn(ctx)
}

// MockPayload is the payload shape the task tests round-trip.
type MockPayload struct {
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}

// CreateMockTaskWithPayload wraps message in a MockPayload and returns a
// MockTask carrying it.
func CreateMockTaskWithPayload(message string) *MockTask {
	data, _ := json.Marshal(MockPayload{
		Message: message,
		Created: time.Now().UTC(),
	})
	return NewMockTask(uuid.New(), "mock_task", data)
}
