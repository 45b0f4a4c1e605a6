package pipeline

import (
	"errors"
	"testing"

	"assetforge/internal/services"
)

func validConfig() Config {
	return Config{
		Description: "bronze sword",
		AssetID:     "bronze-sword",
		Name:        "Bronze Sword",
		Type:        "weapon",
		Subtype:     "sword",
	}
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	fields := []func(*Config){
		func(c *Config) { c.Description = "" },
		func(c *Config) { c.AssetID = "   " },
		func(c *Config) { c.Name = "" },
		func(c *Config) { c.Type = "" },
		func(c *Config) { c.Subtype = "" },
	}
	for i, clear := range fields {
		cfg := validConfig()
		clear(&cfg)
		if err := cfg.Validate(); !errors.Is(err, services.ErrValidation) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestConfigIsAvatar(t *testing.T) {
	cfg := validConfig()
	if cfg.IsAvatar() {
		t.Error("default config is not an avatar")
	}
	cfg.GenerationType = "Avatar"
	if !cfg.IsAvatar() {
		t.Error("generation type comparison should be case-insensitive")
	}
}

func TestMetadataEnhancementEnabled(t *testing.T) {
	var meta Metadata
	if !meta.EnhancementEnabled() {
		t.Error("enhancement defaults to enabled")
	}
	disabled := false
	meta.UseEnhancement = &disabled
	if meta.EnhancementEnabled() {
		t.Error("explicit false disables enhancement")
	}
}

func TestReferenceImage(t *testing.T) {
	var ref ReferenceImage
	if ref.Present() {
		t.Error("empty reference should not be present")
	}
	ref.DataURL = "data:image/png;base64,abc"
	if !ref.Present() || ref.Location() != "data:image/png;base64,abc" {
		t.Errorf("data url reference: present=%v location=%q", ref.Present(), ref.Location())
	}
	ref.URL = "https://cdn.example/sword.png"
	if ref.Location() != "https://cdn.example/sword.png" {
		t.Error("url should be preferred over data url")
	}
}
