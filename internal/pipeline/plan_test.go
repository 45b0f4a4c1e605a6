package pipeline

import (
	"testing"
	"time"
)

func planFor(t *testing.T, cfg Config) map[StageName]plannedStage {
	t.Helper()
	out := make(map[StageName]plannedStage)
	for _, stage := range planStages(cfg) {
		out[stage.name] = stage
	}
	return out
}

func TestPlanDefaultConfig(t *testing.T) {
	plan := planFor(t, Config{Description: "sword"})

	if stage, ok := plan[StagePromptOptimization]; !ok || stage.skip {
		t.Errorf("promptOptimization = %+v, want planned and enabled", stage)
	}
	if stage, ok := plan[StageImageGeneration]; !ok || stage.skip || stage.policy != PolicyRequired {
		t.Errorf("imageGeneration = %+v, want required and enabled", stage)
	}
	if stage, ok := plan[StageImage3D]; !ok || stage.policy != PolicyRequired {
		t.Errorf("image3D = %+v, want required", stage)
	}
	if stage, ok := plan[StageTextureGeneration]; !ok || !stage.skip {
		t.Errorf("textureGeneration = %+v, want planned but skipped by default", stage)
	}
	if _, ok := plan[StageRigging]; ok {
		t.Error("rigging must be absent for non-avatar configs")
	}
	if stage, ok := plan[StageSpriteGeneration]; !ok || !stage.skip {
		t.Errorf("spriteGeneration = %+v, want planned but skipped by default", stage)
	}
}

func TestPlanAvatarRigging(t *testing.T) {
	cfg := Config{GenerationType: "avatar", EnableRigging: true}
	plan := planFor(t, cfg)
	if stage, ok := plan[StageRigging]; !ok || stage.skip || stage.policy != PolicyBestEffort {
		t.Errorf("rigging = %+v, want planned best-effort", stage)
	}

	cfg.EnableRigging = false
	plan = planFor(t, cfg)
	if stage, ok := plan[StageRigging]; !ok || !stage.skip {
		t.Errorf("rigging = %+v, want planned but skipped when disabled", stage)
	}
}

func TestPlanTexturesNeedPresets(t *testing.T) {
	cfg := Config{EnableRetexturing: true}
	if stage := planFor(t, cfg)[StageTextureGeneration]; !stage.skip {
		t.Error("retexturing without presets should be skipped")
	}

	cfg.MaterialPresets = []string{"  ", ""}
	if stage := planFor(t, cfg)[StageTextureGeneration]; !stage.skip {
		t.Error("blank presets do not count")
	}

	cfg.MaterialPresets = []string{"gold"}
	if stage := planFor(t, cfg)[StageTextureGeneration]; stage.skip {
		t.Error("retexturing with a preset should execute")
	}
}

func TestPlanReferenceImageSkipsGeneration(t *testing.T) {
	cfg := Config{ReferenceImage: ReferenceImage{DataURL: "data:image/png;base64,xyz"}}
	if stage := planFor(t, cfg)[StageImageGeneration]; !stage.skip {
		t.Error("a supplied reference image should skip generation")
	}
}

func TestNewRunInitialState(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	run := newRun("p1", Config{Description: "sword"}, created)

	if run.Status != StateInitializing {
		t.Errorf("status = %s, want initializing", run.Status)
	}
	if !run.CreatedAt.Equal(created) {
		t.Errorf("created at = %v", run.CreatedAt)
	}
	if stage := run.Stage(StageTextInput); stage == nil || stage.Status != StageCompleted {
		t.Errorf("textInput = %+v, want completed", stage)
	}
	for _, name := range []StageName{StagePromptOptimization, StageImageGeneration, StageImage3D} {
		if stage := run.Stage(name); stage == nil || stage.Status != StagePending {
			t.Errorf("%s = %+v, want pending", name, stage)
		}
	}
}
