package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractTaskIDs(tasks []Task) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID())
	}
	return ids
}

func newRunnerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestTaskRunner_Submit(t *testing.T) {
	t.Parallel()

	logger := newRunnerLogger()

	t.Run("successful submission", func(t *testing.T) {
		t.Parallel()

		store := NewMockTaskStore()
		runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), logger)

		task := CreateMockTaskWithPayload("test task")
		err := runner.Submit(context.Background(), task)
		assert.NoError(t, err)

		pendingTasks, _ := store.GetPendingTasks(context.Background())
		assert.Contains(t, extractTaskIDs(pendingTasks), task.ID())
	})

	t.Run("queue full", func(t *testing.T) {
		t.Parallel()

		store := NewMockTaskStore()
		config := DefaultTaskRunnerConfig()
		config.QueueSize = 1

		// No workers are started, so the first task stays queued.
		runner := NewTaskRunner(store, config, logger)

		err := runner.Submit(context.Background(), CreateMockTaskWithPayload("task 1"))
		require.NoError(t, err)

		err = runner.Submit(context.Background(), CreateMockTaskWithPayload("task 2"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "queue is full")
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()

		store := NewMockTaskStore()
		store.SaveFn = func(ctx context.Context, task Task) error {
			return errors.New("mock store error")
		}

		runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), logger)

		err := runner.Submit(context.Background(), CreateMockTaskWithPayload("error task"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save task")
	})
}

func TestTaskRunner_StartAndProcessing(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	config := DefaultTaskRunnerConfig()
	config.WorkerCount = 2
	config.QueueSize = 10

	runner := NewTaskRunner(store, config, newRunnerLogger())

	completed := make(chan uuid.UUID, 3)

	require.NoError(t, runner.Start())
	defer runner.Stop()

	var taskIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		task := CreateMockTaskWithPayload("test task")
		taskID := task.ID()
		taskIDs = append(taskIDs, taskID)
		task.ExecuteFn = func(ctx context.Context) error {
			completed <- taskID
			return nil
		}

		require.NoError(t, runner.Submit(context.Background(), task))
	}

	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 3; i++ {
		select {
		case id := <-completed:
			seen[id] = true
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for tasks to execute")
		}
	}

	for _, id := range taskIDs {
		assert.True(t, seen[id], "task %s was not executed", id)
	}

	// Workers write the final status asynchronously after Execute returns.
	assert.Eventually(t, func() bool {
		for _, id := range taskIDs {
			status, ok := store.GetTaskStatus(id)
			if !ok || status != TaskStatusCompleted {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTaskRunner_FailedTaskStatus(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	config := DefaultTaskRunnerConfig()
	config.WorkerCount = 1

	runner := NewTaskRunner(store, config, newRunnerLogger())

	var mu sync.Mutex
	var handledErr error
	runner.SetErrorHandler(func(task Task, err error) {
		mu.Lock()
		defer mu.Unlock()
		handledErr = err
	})

	require.NoError(t, runner.Start())
	defer runner.Stop()

	task := CreateMockTaskWithPayload("failing task")
	execErr := errors.New("execution failed")
	task.ExecuteFn = func(ctx context.Context) error {
		return execErr
	}

	require.NoError(t, runner.Submit(context.Background(), task))

	assert.Eventually(t, func() bool {
		status, ok := store.GetTaskStatus(task.ID())
		return ok && status == TaskStatusFailed
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, execErr, handledErr)
	mu.Unlock()
}

func TestTaskRunner_Recover(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()

	// Seed the store with one pending and one interrupted task before the
	// runner starts, as if a previous process crashed.
	pendingTask := CreateMockTaskWithPayload("pending task")
	require.NoError(t, store.SaveTask(context.Background(), pendingTask))

	interruptedTask := CreateMockTaskWithPayload("interrupted task")
	require.NoError(t, store.SaveTask(context.Background(), interruptedTask))
	require.NoError(t, store.UpdateTaskStatus(
		context.Background(), interruptedTask.ID(), TaskStatusProcessing, ""))

	config := DefaultTaskRunnerConfig()
	config.WorkerCount = 0 // keep recovered tasks in the queue for inspection

	runner := NewTaskRunner(store, config, newRunnerLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	// The interrupted task is reset to pending.
	status, ok := store.GetTaskStatus(interruptedTask.ID())
	require.True(t, ok)
	assert.Equal(t, TaskStatusPending, status)

	// Both tasks were requeued.
	assert.Len(t, runner.queue, 2)
}

func TestTaskRunner_StuckTaskMonitor(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	config := DefaultTaskRunnerConfig()
	config.WorkerCount = 0
	config.StuckTaskAge = 10 * time.Millisecond
	config.StuckTaskCheckInterval = 25 * time.Millisecond

	runner := NewTaskRunner(store, config, newRunnerLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	// Insert a task already in the processing state after startup so the
	// recovery pass does not see it.
	stuckTask := CreateMockTaskWithPayload("stuck task")
	stuckTask.TaskStatus = TaskStatusProcessing
	require.NoError(t, store.SaveTask(context.Background(), stuckTask))

	assert.Eventually(t, func() bool {
		status, ok := store.GetTaskStatus(stuckTask.ID())
		return ok && status == TaskStatusPending
	}, 5*time.Second, 10*time.Millisecond)
}
