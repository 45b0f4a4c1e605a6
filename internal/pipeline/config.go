package pipeline

import (
	"strings"

	"assetforge/internal/services"
)

// ReferenceImage is a caller-supplied concept image that replaces the image
// generation stage.
type ReferenceImage struct {
	URL     string `json:"url,omitempty"`
	DataURL string `json:"dataUrl,omitempty"`
}

// Present reports whether a usable reference was supplied.
func (r ReferenceImage) Present() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.DataURL) != ""
}

// Location returns whichever reference form was supplied, preferring the URL.
func (r ReferenceImage) Location() string {
	if url := strings.TrimSpace(r.URL); url != "" {
		return url
	}
	return strings.TrimSpace(r.DataURL)
}

// RiggingOptions tunes the optional auto-rigging stage.
type RiggingOptions struct {
	HeightMeters float64 `json:"heightMeters,omitempty"`
}

// Metadata carries per-run tuning flags.
type Metadata struct {
	// UseEnhancement gates the prompt optimization stage. Nil means enabled.
	UseEnhancement *bool  `json:"useEnhancement,omitempty"`
	CustomPrompt   string `json:"customPrompt,omitempty"`
}

// EnhancementEnabled resolves the optimization toggle with its default.
func (m Metadata) EnhancementEnabled() bool {
	return m.UseEnhancement == nil || *m.UseEnhancement
}

// Config is the immutable input for one generation run.
type Config struct {
	Description    string         `json:"description"`
	AssetID        string         `json:"assetId"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Subtype        string         `json:"subtype"`
	GenerationType string         `json:"generationType,omitempty"`
	Quality        string         `json:"quality,omitempty"`
	Style          string         `json:"style,omitempty"`
	ReferenceImage ReferenceImage `json:"referenceImage,omitempty"`

	EnableRigging     bool `json:"enableRigging,omitempty"`
	EnableRetexturing bool `json:"enableRetexturing,omitempty"`
	EnableSprites     bool `json:"enableSprites,omitempty"`

	MaterialPresets []string       `json:"materialPresets,omitempty"`
	Rigging         RiggingOptions `json:"rigging,omitempty"`
	Metadata        Metadata       `json:"metadata,omitempty"`
}

// IsAvatar reports whether the run produces a riggable character.
func (c Config) IsAvatar() bool {
	return strings.EqualFold(strings.TrimSpace(c.GenerationType), "avatar")
}

// Validate checks the required fields. Validation failures surface
// synchronously to the caller before any run record is created.
func (c Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"description", c.Description},
		{"assetId", c.AssetID},
		{"name", c.Name},
		{"type", c.Type},
		{"subtype", c.Subtype},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return services.Wrap(services.ErrValidation, "pipeline", "validate config", field.name+" is required", nil)
		}
	}
	return nil
}

// materialPresets returns the trimmed, non-empty presets.
func (c Config) materialPresets() []string {
	presets := make([]string, 0, len(c.MaterialPresets))
	for _, preset := range c.MaterialPresets {
		if trimmed := strings.TrimSpace(preset); trimmed != "" {
			presets = append(presets, trimmed)
		}
	}
	return presets
}
