package pipeline

import (
	"context"
	"log/slog"
	"time"

	"assetforge/internal/logging"
	"assetforge/internal/services"
)

// execution carries intermediate artifacts between stages of one run.
type execution struct {
	id  string
	cfg Config

	// prompt is the current generation prompt: the raw description until
	// prompt optimization replaces it.
	prompt   string
	imageURL string
	modelURL string

	// progress accounting: textInput plus every planned stage weigh equally.
	totalStages int
	doneStages  int
}

// stageSpan returns the overall progress consumed by one stage.
func (x *execution) stageSpan() int {
	if x.totalStages == 0 {
		return 0
	}
	return 100 / x.totalStages
}

// overallProgress is the progress floor after doneStages terminal stages.
func (x *execution) overallProgress() int {
	if x.totalStages == 0 {
		return 0
	}
	return 100 * x.doneStages / x.totalStages
}

// execute drives the planned stage sequence for one run. It never returns an
// error: failures are captured on the run record for later retrieval.
func (s *Service) execute(ctx context.Context, id string) {
	snap, err := s.store.Snapshot(id)
	if err != nil {
		s.logger.Error("run vanished before execution", logging.String(logging.FieldPipelineID, id))
		return
	}
	cfg := snap.Config
	plan := planStages(cfg)

	ctx = services.WithPipelineID(ctx, id)
	runLogger := logging.WithContext(ctx, s.logger)

	x := &execution{
		id:          id,
		cfg:         cfg,
		prompt:      cfg.Description,
		totalStages: len(plan) + 1, // textInput already completed
		doneStages:  1,
	}

	s.store.Update(id, func(run *Run) {
		run.Status = StateProcessing
		run.setProgress(x.overallProgress())
	})

	start := time.Now()
	for _, stage := range plan {
		if stage.skip {
			s.skipStage(x, stage.name)
			x.doneStages++
			s.store.Update(id, func(run *Run) { run.setProgress(x.overallProgress()) })
			continue
		}

		stageCtx := services.WithStage(ctx, string(stage.name))
		stageLogger := logging.WithContext(stageCtx, s.logger)
		stageStart := time.Now()
		stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

		s.store.Update(id, func(run *Run) { run.setStageState(stage.name, StageProcessing) })

		err := s.runStage(stageCtx, x, stage.name)
		if err != nil {
			details := services.Details(err)
			s.store.Update(id, func(run *Run) {
				status := run.Stage(stage.name)
				if status != nil {
					status.Status = StageFailed
					status.Error = details.Message
				}
			})
			if stage.policy == PolicyRequired {
				stageLogger.Error("stage failed",
					logging.String(logging.FieldEventType, "stage_failure"),
					logging.Error(err),
				)
				s.failRun(ctx, runLogger, id, details.Message)
				return
			}
			stageLogger.Warn("best-effort stage failed; continuing",
				logging.String(logging.FieldEventType, "stage_failure"),
				logging.Error(err),
			)
		} else {
			s.store.Update(id, func(run *Run) { run.setStageState(stage.name, StageCompleted) })
			stageLogger.Info("stage completed",
				logging.String(logging.FieldEventType, "stage_complete"),
				logging.Duration("stage_duration", time.Since(stageStart)),
			)
		}

		x.doneStages++
		s.store.Update(id, func(run *Run) { run.setProgress(x.overallProgress()) })
	}

	s.store.Update(id, func(run *Run) {
		run.Status = StateCompleted
		run.setProgress(100)
	})
	runLogger.Info("pipeline completed",
		logging.String(logging.FieldEventType, "pipeline_complete"),
		logging.Duration("duration", time.Since(start)),
	)

	s.recordCompletion(ctx, runLogger, id)
}

// runStage dispatches to the executor for the named stage.
func (s *Service) runStage(ctx context.Context, x *execution, name StageName) error {
	switch name {
	case StagePromptOptimization:
		return s.runPromptStage(ctx, x)
	case StageImageGeneration:
		return s.runImageStage(ctx, x)
	case StageImage3D:
		return s.runModelStage(ctx, x)
	case StageTextureGeneration:
		return s.runTextureStage(ctx, x)
	case StageRigging:
		return s.runRiggingStage(ctx, x)
	case StageSpriteGeneration:
		return s.runSpriteStage(ctx, x)
	default:
		return services.Wrap(services.ErrConfiguration, string(name), "dispatch", "no executor for stage", nil)
	}
}

// skipStage records a skipped stage, including the stage-specific result a
// skip still produces (a user-provided reference image replaces generation).
func (s *Service) skipStage(x *execution, name StageName) {
	s.store.Update(x.id, func(run *Run) {
		run.setStageState(name, StageSkipped)
		if name == StageImageGeneration && x.cfg.ReferenceImage.Present() {
			location := x.cfg.ReferenceImage.Location()
			run.Results.ImageGeneration = &ImageResult{URL: location, Source: "user-provided"}
		}
	})
	if name == StageImageGeneration && x.cfg.ReferenceImage.Present() {
		x.imageURL = x.cfg.ReferenceImage.Location()
	}
}

func (s *Service) failRun(ctx context.Context, logger *slog.Logger, id, message string) {
	s.store.Update(id, func(run *Run) {
		run.Status = StateFailed
		run.Error = message
	})
	logger.Error("pipeline failed",
		logging.String(logging.FieldEventType, "pipeline_failure"),
		logging.String("error_message", message),
	)
}

func (s *Service) recordCompletion(ctx context.Context, logger *slog.Logger, id string) {
	if s.recorder == nil {
		return
	}
	snap, err := s.store.Snapshot(id)
	if err != nil {
		return
	}
	if err := s.recorder.RecordCompleted(ctx, snap); err != nil {
		logger.Warn("asset catalog record failed", logging.Error(err))
	}
}
