package pipeline

import (
	"time"
)

// PromptResult is the output of the prompt optimization stage.
type PromptResult struct {
	Original string `json:"original"`
	Enhanced string `json:"enhanced"`
	// Source is "model" when the language model produced the prompt and
	// "fallback" when enhancement failed and the raw description was reused.
	Source string `json:"source"`
}

// ImageResult is the output of the image generation stage.
type ImageResult struct {
	URL string `json:"url"`
	// Source is "generated" or "user-provided" (reference image supplied).
	Source string `json:"source"`
	Prompt string `json:"prompt,omitempty"`
}

// ModelResult is the output of the 3D conversion stage.
type ModelResult struct {
	TaskID    string `json:"taskId"`
	ModelURL  string `json:"modelUrl"`
	LocalPath string `json:"localPath,omitempty"`
}

// TextureVariant records one material preset retexture attempt.
type TextureVariant struct {
	Preset   string `json:"preset"`
	TaskID   string `json:"taskId,omitempty"`
	ModelURL string `json:"modelUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Succeeded reports whether the variant produced a model.
func (v TextureVariant) Succeeded() bool {
	return v.Error == "" && v.ModelURL != ""
}

// TextureResult is the output of the texture variant stage.
type TextureResult struct {
	Variants []TextureVariant `json:"variants"`
}

// RiggingResult is the output of the auto-rigging stage.
type RiggingResult struct {
	TaskID       string  `json:"taskId"`
	ModelURL     string  `json:"modelUrl"`
	HeightMeters float64 `json:"heightMeters,omitempty"`
}

// SpriteImage is one rendered sprite angle.
type SpriteImage struct {
	Angle string `json:"angle"`
	URL   string `json:"url"`
}

// SpriteResult is the output of the sprite generation stage.
type SpriteResult struct {
	Sprites []SpriteImage `json:"sprites"`
}

// Results collects per-stage output payloads. A field is nil until its stage
// produced output.
type Results struct {
	PromptOptimization *PromptResult  `json:"promptOptimization,omitempty"`
	ImageGeneration    *ImageResult   `json:"imageGeneration,omitempty"`
	Image3D            *ModelResult   `json:"image3D,omitempty"`
	TextureGeneration  *TextureResult `json:"textureGeneration,omitempty"`
	Rigging            *RiggingResult `json:"rigging,omitempty"`
	SpriteGeneration   *SpriteResult  `json:"spriteGeneration,omitempty"`
}

// Run is the mutable record for one generation run. Callers outside this
// package only ever see deep-copied snapshots.
type Run struct {
	ID        string                     `json:"id"`
	Status    State                      `json:"status"`
	Progress  int                        `json:"progress"`
	Stages    map[StageName]*StageStatus `json:"stages"`
	Results   Results                    `json:"results"`
	Config    Config                     `json:"config"`
	Error     string                     `json:"error,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// Stage returns the named stage record, or nil when the stage is not part of
// this run's plan.
func (r *Run) Stage(name StageName) *StageStatus {
	return r.Stages[name]
}

// snapshot deep-copies the run so readers never observe in-place mutation.
func (r *Run) snapshot() Run {
	cp := *r
	cp.Stages = make(map[StageName]*StageStatus, len(r.Stages))
	for name, status := range r.Stages {
		statusCopy := *status
		cp.Stages[name] = &statusCopy
	}
	cp.Results = r.Results.clone()
	cp.Config.MaterialPresets = append([]string(nil), r.Config.MaterialPresets...)
	if r.Config.Metadata.UseEnhancement != nil {
		flag := *r.Config.Metadata.UseEnhancement
		cp.Config.Metadata.UseEnhancement = &flag
	}
	return cp
}

func (res Results) clone() Results {
	cp := res
	if res.PromptOptimization != nil {
		v := *res.PromptOptimization
		cp.PromptOptimization = &v
	}
	if res.ImageGeneration != nil {
		v := *res.ImageGeneration
		cp.ImageGeneration = &v
	}
	if res.Image3D != nil {
		v := *res.Image3D
		cp.Image3D = &v
	}
	if res.TextureGeneration != nil {
		v := TextureResult{Variants: append([]TextureVariant(nil), res.TextureGeneration.Variants...)}
		cp.TextureGeneration = &v
	}
	if res.Rigging != nil {
		v := *res.Rigging
		cp.Rigging = &v
	}
	if res.SpriteGeneration != nil {
		v := SpriteResult{Sprites: append([]SpriteImage(nil), res.SpriteGeneration.Sprites...)}
		cp.SpriteGeneration = &v
	}
	return cp
}

// setStageState advances a stage, never reverting a terminal state.
func (r *Run) setStageState(name StageName, state StageState) {
	status := r.Stages[name]
	if status == nil || status.Status.IsTerminal() {
		return
	}
	status.Status = state
	if state == StageCompleted || state == StageSkipped {
		status.Progress = 100
	}
}

// setStageProgress raises a stage's progress, keeping it monotonic.
func (r *Run) setStageProgress(name StageName, progress int) {
	status := r.Stages[name]
	if status == nil {
		return
	}
	if progress > 100 {
		progress = 100
	}
	if progress > status.Progress {
		status.Progress = progress
	}
}

// setProgress raises the overall progress, keeping it monotonic.
func (r *Run) setProgress(progress int) {
	if progress > 100 {
		progress = 100
	}
	if progress > r.Progress {
		r.Progress = progress
	}
}
