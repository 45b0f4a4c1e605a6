package pipeline

import "context"

// TaskState is the tri-state the orchestrator distinguishes when polling an
// asynchronous provider task.
type TaskState string

const (
	TaskPending   TaskState = "pending"
	TaskSucceeded TaskState = "succeeded"
	TaskFailed    TaskState = "failed"
)

// TaskStatus is one observation of an asynchronous provider task.
type TaskStatus struct {
	State    TaskState
	Progress int
	ModelURL string
	// Message carries the provider's error text when State is TaskFailed.
	Message string
}

// PromptEnhancer rewrites asset descriptions into richer generation prompts.
type PromptEnhancer interface {
	EnhancePrompt(ctx context.Context, description, style string) (string, error)
}

// ImageGenerator renders a concept image and returns its URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, size string) (string, error)
}

// ModelConverter is the asynchronous 3D provider surface: each Create call
// submits a task; the matching *Task call reports its current state.
type ModelConverter interface {
	CreateImageTo3D(ctx context.Context, imageURL, quality string) (string, error)
	ImageTo3DTask(ctx context.Context, taskID string) (TaskStatus, error)

	CreateRetexture(ctx context.Context, modelURL, stylePrompt string) (string, error)
	RetextureTask(ctx context.Context, taskID string) (TaskStatus, error)

	CreateRigging(ctx context.Context, modelURL string, heightMeters float64) (string, error)
	RiggingTask(ctx context.Context, taskID string) (TaskStatus, error)

	Download(ctx context.Context, modelURL, destDir string) (string, error)
}

// SpriteRenderer derives 2D sprite renders from a finished asset. The returned
// URLs are parallel to the requested angles.
type SpriteRenderer interface {
	RenderSprites(ctx context.Context, prompt string, angles []string) ([]string, error)
}

// Clients bundles the provider collaborators the orchestrator calls into.
type Clients struct {
	Prompts PromptEnhancer
	Images  ImageGenerator
	Models  ModelConverter
	Sprites SpriteRenderer
}

// Recorder is notified once when a run completes successfully. The daemon uses
// it to write the asset catalog; the orchestrator does not own persistence.
type Recorder interface {
	RecordCompleted(ctx context.Context, run Run) error
}
