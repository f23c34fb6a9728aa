package task

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockTaskStore is an in-memory TaskStore for tests. SaveFn and
// UpdateStatusFn default to map-backed implementations and can be
// swapped to inject failures.
type MockTaskStore struct {
	mutex       sync.RWMutex
	tasks       map[uuid.UUID]*MockTask
	statusTimes map[uuid.UUID]time.Time

	SaveFn         func(ctx context.Context, task Task) error
	UpdateStatusFn func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
}

// NewMockTaskStore creates a MockTaskStore with working defaults.
func NewMockTaskStore() *MockTaskStore {
	s := &MockTaskStore{
		tasks:       make(map[uuid.UUID]*MockTask),
		statusTimes: make(map[uuid.UUID]time.Time),
	}
	s.SaveFn = s.defaultSave
	s.UpdateStatusFn = s.defaultUpdateStatus
	return s
}

func (s *MockTaskStore) defaultSave(ctx context.Context, task Task) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	mt, ok := task.(*MockTask)
	if !ok {
		// Wrap foreign task types so their status can be tracked.
		mt = NewMockTask(task.ID(), task.Type(), task.Payload())
		mt.TaskStatus = task.Status()
	}

	s.tasks[task.ID()] = mt
	s.statusTimes[task.ID()] = time.Now()
	return nil
}

func (s *MockTaskStore) defaultUpdateStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	mt, ok := s.tasks[taskID]
	if !ok {
		// Not found is a no-op, matching the real store.
		return nil
	}
	mt.TaskStatus = status
	s.statusTimes[taskID] = time.Now()
	return nil
}

func (s *MockTaskStore) SaveTask(ctx context.Context, task Task) error {
	return s.SaveFn(ctx, task)
}

func (s *MockTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	return s.UpdateStatusFn(ctx, taskID, status, errorMsg)
}

// GetTaskStatus reports the stored status of a task, for assertions.
func (s *MockTaskStore) GetTaskStatus(taskID uuid.UUID) (TaskStatus, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	mt, ok := s.tasks[taskID]
	if !ok {
		return "", false
	}
	return mt.Status(), true
}

func (s *MockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var pending []Task
	for _, mt := range s.tasks {
		if mt.Status() == TaskStatusPending {
			pending = append(pending, mt)
		}
	}
	return pending, nil
}

func (s *MockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := time.Now()
	var processing []Task
	for _, mt := range s.tasks {
		if mt.Status() != TaskStatusProcessing {
			continue
		}
		at, tracked := s.statusTimes[mt.ID()]
		if olderThan == 0 || (tracked && now.Sub(at) > olderThan) {
			processing = append(processing, mt)
		}
	}
	return processing, nil
}

// WithTx returns the store itself; the mock has no transactions.
func (s *MockTaskStore) WithTx(tx *sql.Tx) TaskStore {
	return s
}
