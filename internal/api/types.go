package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// StageView describes one pipeline stage in a transport-friendly format.
type StageView struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// PipelineView describes a generation run for API consumers.
type PipelineView struct {
	ID        string               `json:"id"`
	Status    string               `json:"status"`
	Progress  int                  `json:"progress"`
	Stages    map[string]StageView `json:"stages"`
	Results   ResultsView          `json:"results"`
	AssetID   string               `json:"assetId"`
	Name      string               `json:"name"`
	Type      string               `json:"type"`
	Subtype   string               `json:"subtype"`
	Error     string               `json:"error,omitempty"`
	CreatedAt string               `json:"createdAt,omitempty"`
	UpdatedAt string               `json:"updatedAt,omitempty"`
}

// ResultsView collects per-stage output payloads. Fields are omitted until the
// corresponding stage produced output.
type ResultsView struct {
	PromptOptimization *PromptView  `json:"promptOptimization,omitempty"`
	ImageGeneration    *ImageView   `json:"imageGeneration,omitempty"`
	Image3D            *ModelView   `json:"image3D,omitempty"`
	TextureGeneration  *TextureView `json:"textureGeneration,omitempty"`
	Rigging            *RiggingView `json:"rigging,omitempty"`
	SpriteGeneration   *SpriteView  `json:"spriteGeneration,omitempty"`
}

// PromptView is the prompt optimization payload.
type PromptView struct {
	Original string `json:"original"`
	Enhanced string `json:"enhanced"`
	Source   string `json:"source"`
}

// ImageView is the image generation payload.
type ImageView struct {
	URL    string `json:"url"`
	Source string `json:"source"`
	Prompt string `json:"prompt,omitempty"`
}

// ModelView is the 3D conversion payload.
type ModelView struct {
	TaskID    string `json:"taskId"`
	ModelURL  string `json:"modelUrl"`
	LocalPath string `json:"localPath,omitempty"`
}

// TextureVariantView is one material preset retexture attempt.
type TextureVariantView struct {
	Preset   string `json:"preset"`
	TaskID   string `json:"taskId,omitempty"`
	ModelURL string `json:"modelUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// TextureView is the texture variant payload.
type TextureView struct {
	Variants []TextureVariantView `json:"variants"`
}

// RiggingView is the auto-rigging payload.
type RiggingView struct {
	TaskID       string  `json:"taskId"`
	ModelURL     string  `json:"modelUrl"`
	HeightMeters float64 `json:"heightMeters,omitempty"`
}

// SpriteAngleView is one rendered sprite angle.
type SpriteAngleView struct {
	Angle string `json:"angle"`
	URL   string `json:"url"`
}

// SpriteView is the sprite generation payload.
type SpriteView struct {
	Sprites []SpriteAngleView `json:"sprites"`
}

// GenerateResponse acknowledges an accepted generation request.
type GenerateResponse struct {
	PipelineID string `json:"pipelineId"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// PipelineListResponse wraps a collection of runs for API responses.
type PipelineListResponse struct {
	Pipelines []PipelineView `json:"pipelines"`
}

// AssetView describes a catalog entry in a transport-friendly format.
type AssetView struct {
	ID             int64  `json:"id"`
	PipelineID     string `json:"pipelineId"`
	AssetID        string `json:"assetId"`
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	Type           string `json:"type"`
	Subtype        string `json:"subtype"`
	ImageURL       string `json:"imageUrl,omitempty"`
	ModelURL       string `json:"modelUrl,omitempty"`
	ModelPath      string `json:"modelPath,omitempty"`
	RiggedModelURL string `json:"riggedModelUrl,omitempty"`
	SpriteCount    int    `json:"spriteCount"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// AssetListResponse wraps catalog entries for API responses.
type AssetListResponse struct {
	Assets []AssetView `json:"assets"`
}

// AssetResponse wraps a single catalog entry.
type AssetResponse struct {
	Asset AssetView `json:"asset"`
}

// SoundEffectRequest asks for a generated sound effect.
type SoundEffectRequest struct {
	Text            string  `json:"text"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
	PromptInfluence float64 `json:"promptInfluence,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	CatalogPath  string         `json:"catalogPath"`
	LockFilePath string         `json:"lockFilePath"`
	Pipelines    map[string]int `json:"pipelines"`
	AssetCount   int            `json:"assetCount"`
}
