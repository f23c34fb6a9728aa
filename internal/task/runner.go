package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can be in processing state
	// before it's considered stuck and reset
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks.
	// If zero, defaults to 5 minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner manages background task processing: it persists submitted
// tasks, fans them out to a worker pool, recovers unfinished tasks on
// startup, and resets tasks stuck in the processing state.
type TaskRunner struct {
	store      TaskStore
	queue      chan Task
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	log := logger.With(slog.String("component", "task_runner"))

	return &TaskRunner{
		store:  store,
		queue:  make(chan Task, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		config: config,
		logger: log,
		errHandler: func(task Task, err error) {
			log.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit adds a new task to the queue. The task is persisted before it is
// queued so that a crash between the two steps loses no work.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if !r.enqueue(task) {
		return fmt.Errorf("task queue is full, try again later")
	}
	return nil
}

// Start recovers unfinished tasks, then launches the workers and the
// stuck-task monitor.
func (r *TaskRunner) Start() error {
	if err := r.Recover(); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop gracefully shuts down the task runner
func (r *TaskRunner) Stop() {
	r.cancel()
	r.wg.Wait()
	close(r.queue)
}

// enqueue offers the task to the buffered queue without blocking.
func (r *TaskRunner) enqueue(task Task) bool {
	select {
	case r.queue <- task:
		return true
	default:
		return false
	}
}

// requeueOrLog enqueues a recovered task, logging when the queue has no
// room. A dropped task stays pending in the store and is picked up by a
// later recovery pass.
func (r *TaskRunner) requeueOrLog(task Task, reason string) {
	if r.enqueue(task) {
		return
	}
	r.logger.Error("queue full, leaving task for next recovery",
		"task_id", task.ID(),
		"task_type", task.Type(),
		"reason", reason)
}

// Recover loads any unfinished tasks from the database and requeues them.
// Tasks found in the processing state were interrupted by a crash; they are
// reset to pending first.
func (r *TaskRunner) Recover() error {
	ctx := context.Background()

	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	interrupted, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pending),
		"processing_count", len(interrupted))

	for _, t := range pending {
		r.requeueOrLog(t, "pending")
	}

	for _, t := range interrupted {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset interrupted task",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
			continue
		}
		r.requeueOrLog(t, "interrupted")
	}

	return nil
}

func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-r.queue:
			if !ok {
				return
			}
			r.processTask(task, id)
		}
	}
}

// processTask runs one task and records the outcome in the store.
func (r *TaskRunner) processTask(task Task, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("failed to mark task processing", "error", err)
		return
	}

	log.Info("processing task")

	if err := task.Execute(ctx); err != nil {
		log.Error("task execution failed", "error", err)
		if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to mark task failed", "error", updateErr)
		}
		r.errHandler(task, err)
		return
	}

	log.Info("task completed")
	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusCompleted, ""); err != nil {
		log.Error("failed to mark task completed", "error", err)
	}
}

// stuckTaskMonitor periodically resets tasks that have sat in the
// processing state longer than StuckTaskAge and puts them back on the
// queue.
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			r.resetStuckTasks()
		}
	}
}

func (r *TaskRunner) resetStuckTasks() {
	ctx := context.Background()

	stuck, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
	if err != nil {
		r.logger.Error("failed to check for stuck tasks", "error", err)
		return
	}
	if len(stuck) == 0 {
		return
	}

	r.logger.Info("found stuck tasks", "count", len(stuck))

	for _, t := range stuck {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending,
			"Reset after being stuck in processing state"); err != nil {
			r.logger.Error("failed to reset stuck task",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
			continue
		}
		r.requeueOrLog(t, "stuck")
	}
}
