package daemon

import (
	"context"

	"assetforge/internal/pipeline"
	"assetforge/internal/services/meshy"
)

// meshyConverter adapts the Meshy client to the orchestrator's task-status
// shape. Create and Download calls pass through; poll calls translate the
// provider's status vocabulary.
type meshyConverter struct {
	client *meshy.Client
}

func newMeshyConverter(client *meshy.Client) *meshyConverter {
	return &meshyConverter{client: client}
}

func (m *meshyConverter) CreateImageTo3D(ctx context.Context, imageURL, quality string) (string, error) {
	return m.client.CreateImageTo3D(ctx, imageURL, quality)
}

func (m *meshyConverter) ImageTo3DTask(ctx context.Context, taskID string) (pipeline.TaskStatus, error) {
	task, err := m.client.ImageTo3DTask(ctx, taskID)
	if err != nil {
		return pipeline.TaskStatus{}, err
	}
	return taskStatusFromMeshy(task), nil
}

func (m *meshyConverter) CreateRetexture(ctx context.Context, modelURL, stylePrompt string) (string, error) {
	return m.client.CreateRetexture(ctx, modelURL, stylePrompt)
}

func (m *meshyConverter) RetextureTask(ctx context.Context, taskID string) (pipeline.TaskStatus, error) {
	task, err := m.client.RetextureTask(ctx, taskID)
	if err != nil {
		return pipeline.TaskStatus{}, err
	}
	return taskStatusFromMeshy(task), nil
}

func (m *meshyConverter) CreateRigging(ctx context.Context, modelURL string, heightMeters float64) (string, error) {
	return m.client.CreateRigging(ctx, modelURL, heightMeters)
}

func (m *meshyConverter) RiggingTask(ctx context.Context, taskID string) (pipeline.TaskStatus, error) {
	task, err := m.client.RiggingTask(ctx, taskID)
	if err != nil {
		return pipeline.TaskStatus{}, err
	}
	return taskStatusFromMeshy(task), nil
}

func (m *meshyConverter) Download(ctx context.Context, modelURL, destDir string) (string, error) {
	return m.client.Download(ctx, modelURL, destDir)
}

func taskStatusFromMeshy(task meshy.Task) pipeline.TaskStatus {
	status := pipeline.TaskStatus{
		Progress: task.Progress,
		ModelURL: task.ModelURL(),
	}
	switch task.Status {
	case meshy.StatusSucceeded:
		status.State = pipeline.TaskSucceeded
	case meshy.StatusFailed, meshy.StatusCanceled:
		status.State = pipeline.TaskFailed
		status.Message = task.TaskError.Message
		if status.Message == "" {
			status.Message = "task " + task.Status
		}
	default:
		status.State = pipeline.TaskPending
	}
	return status
}
