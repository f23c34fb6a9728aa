package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/events"
)

// taskFactory creates tasks for a document. Satisfied by
// *MaterialGenerationTaskFactory.
type taskFactory interface {
	CreateTask(documentID uuid.UUID, request GenerationRequest) (Task, error)
}

// taskSubmitter accepts tasks for background execution. Satisfied by
// *TaskRunner.
type taskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// TaskFactoryEventHandler implements the events.EventHandler interface to
// turn task request events into background tasks and hand them to the
// runner.
type TaskFactoryEventHandler struct {
	factory   taskFactory
	submitter taskSubmitter
	logger    *slog.Logger
}

// NewTaskFactoryEventHandler creates a new event handler that uses the
// given task factory to create tasks and submits them to the provided
// runner.
func NewTaskFactoryEventHandler(
	factory taskFactory,
	submitter taskSubmitter,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	return &TaskFactoryEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With(slog.String("component", "task_factory_event_handler")),
	}
}

// HandleEvent processes events by creating and submitting tasks. It
// extracts the document ID from the event payload, creates the material
// generation task, and submits it to the runner for execution.
func (h *TaskFactoryEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != TaskTypeMaterialGeneration {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload struct {
		DocumentID    string               `json:"document_id"`
		Kinds         []string             `json:"kinds"`
		SummaryMethod domain.SummaryMethod `json:"summary_method"`
	}

	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	documentID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		h.logger.Error("invalid document ID",
			"error", err,
			"document_id", payload.DocumentID,
			"event_id", event.ID)
		return fmt.Errorf("invalid document ID: %w", err)
	}

	task, err := h.factory.CreateTask(documentID, GenerationRequest{
		Kinds:         payload.Kinds,
		SummaryMethod: payload.SummaryMethod,
	})
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"document_id", documentID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.submitter.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", task.ID(),
			"document_id", documentID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted",
		"task_id", task.ID(),
		"document_id", documentID,
		"event_id", event.ID)
	return nil
}

// Ensure TaskFactoryEventHandler implements events.EventHandler
var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)
