package task

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeMaterialGeneration is the task type for generating the full
	// set of study materials from a document
	TaskTypeMaterialGeneration = "material_generation"
)

// Task is a unit of background work. Its payload must round-trip
// through the store so a recovered task can rebuild its executor.
type Task interface {
	ID() uuid.UUID
	Type() string
	Payload() []byte
	Status() TaskStatus
	Execute(ctx context.Context) error
}

// TaskStore persists tasks across restarts.
type TaskStore interface {
	SaveTask(ctx context.Context, task Task) error

	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks returns every task still waiting to run.
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks returns in-flight tasks. A non-zero olderThan
	// restricts the result to tasks stuck longer than that duration.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// WithTx returns a store bound to tx. The caller owns the
	// transaction lifecycle.
	WithTx(tx *sql.Tx) TaskStore
}
