package testsupport

import (
	"context"
	"fmt"
	"sync"

	"assetforge/internal/pipeline"
)

// StubPrompts is a canned prompt enhancer.
type StubPrompts struct {
	Enhanced string
	Err      error
}

func (s *StubPrompts) EnhancePrompt(ctx context.Context, description, style string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if s.Enhanced != "" {
		return s.Enhanced, nil
	}
	return "enhanced: " + description, nil
}

// StubImages is a canned image generator.
type StubImages struct {
	URL string
	Err error

	mu      sync.Mutex
	prompts []string
}

func (s *StubImages) GenerateImage(ctx context.Context, prompt, size string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	if s.URL != "" {
		return s.URL, nil
	}
	return fmt.Sprintf("https://images.test/%d.png", len(s.prompts)), nil
}

// Prompts returns the prompts passed to GenerateImage so far.
func (s *StubImages) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// StubModels is a scriptable 3D conversion provider. Each submit returns a
// fresh task id; polls step through the configured status sequence, repeating
// the final entry once exhausted.
type StubModels struct {
	// Statuses played back by every task, in order. Empty means immediate
	// success with a generated model URL.
	Statuses []pipeline.TaskStatus

	// Per-operation submit errors.
	CreateErr    error
	RetextureErr error
	RiggingErr   error

	// DownloadPath, when set, is returned by Download instead of a path
	// derived from destDir.
	DownloadPath string
	DownloadErr  error

	mu    sync.Mutex
	seq   int
	polls map[string]int
}

func (s *StubModels) nextTask(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *StubModels) poll(taskID string) pipeline.TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.polls == nil {
		s.polls = make(map[string]int)
	}
	statuses := s.Statuses
	if len(statuses) == 0 {
		statuses = []pipeline.TaskStatus{{
			State:    pipeline.TaskSucceeded,
			Progress: 100,
			ModelURL: "https://models.test/" + taskID + ".glb",
		}}
	}
	idx := s.polls[taskID]
	if idx >= len(statuses) {
		idx = len(statuses) - 1
	} else {
		s.polls[taskID]++
	}
	status := statuses[idx]
	if status.State == pipeline.TaskSucceeded && status.ModelURL == "" {
		status.ModelURL = "https://models.test/" + taskID + ".glb"
	}
	return status
}

func (s *StubModels) CreateImageTo3D(ctx context.Context, imageURL, quality string) (string, error) {
	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	return s.nextTask("task-3d"), nil
}

func (s *StubModels) ImageTo3DTask(ctx context.Context, taskID string) (pipeline.TaskStatus, error) {
	return s.poll(taskID), nil
}

func (s *StubModels) CreateRetexture(ctx context.Context, modelURL, stylePrompt string) (string, error) {
	if s.RetextureErr != nil {
		return "", s.RetextureErr
	}
	return s.nextTask("task-retex"), nil
}

func (s *StubModels) RetextureTask(ctx context.Context, taskID string) (pipeline.TaskStatus, error) {
	return s.poll(taskID), nil
}

func (s *StubModels) CreateRigging(ctx context.Context, modelURL string, heightMeters float64) (string, error) {
	if s.RiggingErr != nil {
		return "", s.RiggingErr
	}
	return s.nextTask("task-rig"), nil
}

func (s *StubModels) RiggingTask(ctx context.Context, taskID string) (pipeline.TaskStatus, error) {
	return s.poll(taskID), nil
}

func (s *StubModels) Download(ctx context.Context, modelURL, destDir string) (string, error) {
	if s.DownloadErr != nil {
		return "", s.DownloadErr
	}
	if s.DownloadPath != "" {
		return s.DownloadPath, nil
	}
	return destDir + "/model.glb", nil
}

// StubSprites is a canned sprite renderer.
type StubSprites struct {
	Err error
}

func (s *StubSprites) RenderSprites(ctx context.Context, prompt string, angles []string) ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	urls := make([]string, len(angles))
	for i, angle := range angles {
		urls[i] = "https://sprites.test/" + angle + ".png"
	}
	return urls, nil
}

// StubClients bundles the default stub providers.
func StubClients() pipeline.Clients {
	return pipeline.Clients{
		Prompts: &StubPrompts{},
		Images:  &StubImages{},
		Models:  &StubModels{},
		Sprites: &StubSprites{},
	}
}
