package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// MaterialGenerationTaskFactory creates MaterialGenerationTask instances
type MaterialGenerationTaskFactory struct {
	documentService DocumentService
	generator       Generator
	summarizer      Summarizer
	materialService MaterialService
	logger          *slog.Logger
}

// NewMaterialGenerationTaskFactory creates a new factory for MaterialGenerationTasks
func NewMaterialGenerationTaskFactory(
	documentService DocumentService,
	generator Generator,
	summarizer Summarizer,
	materialService MaterialService,
	logger *slog.Logger,
) *MaterialGenerationTaskFactory {
	return &MaterialGenerationTaskFactory{
		documentService: documentService,
		generator:       generator,
		summarizer:      summarizer,
		materialService: materialService,
		logger:          logger.With(slog.String("component", "material_generation_task_factory")),
	}
}

// CreateTask creates a new MaterialGenerationTask for the specified document
func (f *MaterialGenerationTaskFactory) CreateTask(documentID uuid.UUID, request GenerationRequest) (Task, error) {
	task, err := NewMaterialGenerationTask(
		documentID,
		request,
		f.documentService,
		f.generator,
		f.summarizer,
		f.materialService,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ExecutorFor rebuilds the execution logic for a task recovered from
// persistent storage. The recovered task keeps its stored identity; only
// the pipeline it runs is reconstructed from the payload.
func (f *MaterialGenerationTaskFactory) ExecutorFor(
	taskType string,
	payload []byte,
) (func(ctx context.Context) error, error) {
	if taskType != TaskTypeMaterialGeneration {
		return nil, fmt.Errorf("unsupported task type %q", taskType)
	}

	var p materialGenerationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	task, err := f.CreateTask(p.DocumentID, GenerationRequest{
		Kinds:         p.Kinds,
		SummaryMethod: p.SummaryMethod,
	})
	if err != nil {
		return nil, err
	}

	return task.Execute, nil
}
