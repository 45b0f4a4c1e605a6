package pipeline

import "time"

// plannedStage is one executable entry in a run's stage sequence.
type plannedStage struct {
	name   StageName
	policy Policy
	// skip marks a stage that is applicable to the configuration but was
	// explicitly disabled; it is recorded as skipped instead of executing.
	skip bool
}

// planStages derives the executable stage sequence for a configuration.
// textInput is not part of the result: it represents the validated input and
// completes synchronously at run creation. Stages that can never apply to the
// configuration (rigging for non-avatar assets) are omitted entirely.
func planStages(cfg Config) []plannedStage {
	plan := []plannedStage{
		{
			name:   StagePromptOptimization,
			policy: PolicyBestEffort,
			skip:   !cfg.Metadata.EnhancementEnabled(),
		},
		{
			name:   StageImageGeneration,
			policy: PolicyRequired,
			skip:   cfg.ReferenceImage.Present(),
		},
		{
			name:   StageImage3D,
			policy: PolicyRequired,
		},
		{
			name:   StageTextureGeneration,
			policy: PolicyBestEffort,
			skip:   !cfg.EnableRetexturing || len(cfg.materialPresets()) == 0,
		},
	}
	if cfg.IsAvatar() {
		plan = append(plan, plannedStage{
			name:   StageRigging,
			policy: PolicyBestEffort,
			skip:   !cfg.EnableRigging,
		})
	}
	plan = append(plan, plannedStage{
		name:   StageSpriteGeneration,
		policy: PolicyBestEffort,
		skip:   !cfg.EnableSprites,
	})
	return plan
}

// newRun builds the initial run record: textInput completed, every planned
// stage pending.
func newRun(id string, cfg Config, created time.Time) *Run {
	run := &Run{
		ID:        id,
		Status:    StateInitializing,
		Stages:    make(map[StageName]*StageStatus),
		Config:    cfg,
		CreatedAt: created,
		UpdatedAt: created,
	}
	run.Stages[StageTextInput] = &StageStatus{Status: StageCompleted, Progress: 100}
	for _, stage := range planStages(cfg) {
		run.Stages[stage.name] = &StageStatus{Status: StagePending}
	}
	return run
}
