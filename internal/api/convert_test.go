package api

import (
	"testing"
	"time"

	"assetforge/internal/catalog"
	"assetforge/internal/pipeline"
)

func TestFromRun(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	run := pipeline.Run{
		ID:       "run-1",
		Status:   pipeline.StateCompleted,
		Progress: 100,
		Stages: map[pipeline.StageName]*pipeline.StageStatus{
			pipeline.StageTextInput: {Status: pipeline.StageCompleted, Progress: 100},
			pipeline.StageImage3D:   {Status: pipeline.StageFailed, Progress: 40, Error: "mesh reconstruction failed"},
		},
		Results: pipeline.Results{
			PromptOptimization: &pipeline.PromptResult{Original: "bronze sword", Enhanced: "a detailed bronze sword", Source: "model"},
			Image3D:            &pipeline.ModelResult{TaskID: "t-1", ModelURL: "https://m/x.glb"},
			SpriteGeneration: &pipeline.SpriteResult{Sprites: []pipeline.SpriteImage{
				{Angle: "front", URL: "https://i/front.png"},
			}},
		},
		Config: pipeline.Config{
			AssetID:     "bronze-sword",
			Name:        "bronze sword",
			Type:        "weapon",
			Subtype:     "sword",
			Description: "a bronze sword",
		},
		CreatedAt: created,
		UpdatedAt: created.Add(2 * time.Minute),
	}

	view := FromRun(run)
	if view.ID != "run-1" || view.Status != "completed" || view.Progress != 100 {
		t.Errorf("view = %+v", view)
	}
	if view.AssetID != "bronze-sword" || view.Type != "weapon" || view.Subtype != "sword" {
		t.Errorf("config fields not flattened: %+v", view)
	}
	if view.CreatedAt != "2025-06-01T12:00:00.000Z" {
		t.Errorf("created at = %q", view.CreatedAt)
	}
	stage, ok := view.Stages["image3D"]
	if !ok {
		t.Fatal("image3D stage missing")
	}
	if stage.Status != "failed" || stage.Progress != 40 || stage.Error != "mesh reconstruction failed" {
		t.Errorf("stage = %+v", stage)
	}
	if view.Results.PromptOptimization == nil || view.Results.PromptOptimization.Source != "model" {
		t.Errorf("prompt result = %+v", view.Results.PromptOptimization)
	}
	if view.Results.Image3D == nil || view.Results.Image3D.ModelURL != "https://m/x.glb" {
		t.Errorf("model result = %+v", view.Results.Image3D)
	}
	if view.Results.SpriteGeneration == nil || len(view.Results.SpriteGeneration.Sprites) != 1 {
		t.Errorf("sprite result = %+v", view.Results.SpriteGeneration)
	}
	if view.Results.TextureGeneration != nil || view.Results.Rigging != nil {
		t.Error("absent results should stay nil")
	}
}

func TestFromRunZeroTimestamps(t *testing.T) {
	view := FromRun(pipeline.Run{ID: "run-2"})
	if view.CreatedAt != "" || view.UpdatedAt != "" {
		t.Errorf("zero times should render empty, got %q / %q", view.CreatedAt, view.UpdatedAt)
	}
}

func TestFromRunsEmpty(t *testing.T) {
	if got := FromRuns(nil); got != nil {
		t.Errorf("FromRuns(nil) = %v", got)
	}
}

func TestFromAsset(t *testing.T) {
	asset := catalog.Asset{
		ID:          7,
		PipelineID:  "run-1",
		AssetID:     "bronze-sword",
		Name:        "bronze sword",
		DisplayName: "Bronze Sword",
		Type:        "weapon",
		ModelURL:    "https://m/x.glb",
		SpriteCount: 4,
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	view := FromAsset(asset)
	if view.ID != 7 || view.AssetID != "bronze-sword" || view.DisplayName != "Bronze Sword" {
		t.Errorf("view = %+v", view)
	}
	if view.SpriteCount != 4 {
		t.Errorf("sprite count = %d", view.SpriteCount)
	}
	if view.CreatedAt != "2025-06-01T12:00:00.000Z" {
		t.Errorf("created at = %q", view.CreatedAt)
	}
}
