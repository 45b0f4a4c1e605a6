package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"assetforge/internal/logging"
	"assetforge/internal/services"
)

const defaultRiggingHeightMeters = 1.7

// runPromptStage rewrites the description into a richer prompt. Enhancement is
// never a hard failure: on error the raw description is kept and the stage
// still completes.
func (s *Service) runPromptStage(ctx context.Context, x *execution) error {
	if custom := strings.TrimSpace(x.cfg.Metadata.CustomPrompt); custom != "" {
		x.prompt = custom
		s.store.Update(x.id, func(run *Run) {
			run.Results.PromptOptimization = &PromptResult{
				Original: x.cfg.Description,
				Enhanced: custom,
				Source:   "user",
			}
		})
		return nil
	}

	enhanced, err := s.clients.Prompts.EnhancePrompt(ctx, x.cfg.Description, x.cfg.Style)
	if err != nil {
		logging.WithContext(ctx, s.logger).Warn("prompt enhancement failed; using raw description",
			logging.Error(err),
		)
		s.store.Update(x.id, func(run *Run) {
			run.Results.PromptOptimization = &PromptResult{
				Original: x.cfg.Description,
				Enhanced: x.cfg.Description,
				Source:   "fallback",
			}
		})
		return nil
	}

	x.prompt = enhanced
	s.store.Update(x.id, func(run *Run) {
		run.Results.PromptOptimization = &PromptResult{
			Original: x.cfg.Description,
			Enhanced: enhanced,
			Source:   "model",
		}
	})
	return nil
}

// runImageStage renders the concept image used as 3D conversion input.
func (s *Service) runImageStage(ctx context.Context, x *execution) error {
	url, err := s.clients.Images.GenerateImage(ctx, x.prompt, "")
	if err != nil {
		return services.Wrap(services.ErrProvider, string(StageImageGeneration), "generate image", "", err)
	}
	x.imageURL = url
	s.store.Update(x.id, func(run *Run) {
		run.Results.ImageGeneration = &ImageResult{URL: url, Source: "generated", Prompt: x.prompt}
	})
	return nil
}

// runModelStage converts the concept image into a 3D model: submit, poll until
// the provider reports success or failure (or the timeout elapses), then
// download the finished binary into the staging directory.
func (s *Service) runModelStage(ctx context.Context, x *execution) error {
	taskID, err := s.clients.Models.CreateImageTo3D(ctx, x.imageURL, x.cfg.Quality)
	if err != nil {
		return services.Wrap(services.ErrProvider, string(StageImage3D), "submit task", "", err)
	}

	base := x.overallProgress()
	span := x.stageSpan()
	poller := newTaskPoller(s.pollInterval, s.conversionTimeout, s.clock)
	status, err := poller.await(ctx, StageImage3D,
		func(ctx context.Context) (TaskStatus, error) {
			return s.clients.Models.ImageTo3DTask(ctx, taskID)
		},
		func(progress int) {
			s.store.Update(x.id, func(run *Run) {
				run.setStageProgress(StageImage3D, progress)
				run.setProgress(base + span*progress/100)
			})
		},
	)
	if err != nil {
		return err
	}
	if status.ModelURL == "" {
		return services.Wrap(services.ErrProvider, string(StageImage3D), "poll task", "task succeeded without a model url", nil)
	}

	x.modelURL = status.ModelURL
	localPath, err := s.clients.Models.Download(ctx, status.ModelURL, filepath.Join(s.stagingDir, x.id))
	if err != nil {
		return services.Wrap(services.ErrProvider, string(StageImage3D), "download model", "", err)
	}
	s.store.Update(x.id, func(run *Run) {
		run.Results.Image3D = &ModelResult{TaskID: taskID, ModelURL: status.ModelURL, LocalPath: localPath}
	})
	return nil
}

// runTextureStage retextures the base model once per material preset with
// bounded parallelism. Individual variant failures are recorded per-variant;
// the stage only fails when every variant fails.
func (s *Service) runTextureStage(ctx context.Context, x *execution) error {
	presets := x.cfg.materialPresets()
	variants := make([]TextureVariant, len(presets))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.textureLimit)
	for i, preset := range presets {
		i, preset := i, preset
		g.Go(func() error {
			variants[i] = s.textureVariant(groupCtx, x, preset)
			return nil
		})
	}
	// Variant errors are captured in the slice, never returned to the group.
	_ = g.Wait()

	succeeded := 0
	for _, variant := range variants {
		if variant.Succeeded() {
			succeeded++
		}
	}
	s.store.Update(x.id, func(run *Run) {
		run.Results.TextureGeneration = &TextureResult{Variants: variants}
	})
	if succeeded == 0 {
		return services.Wrap(services.ErrProvider, string(StageTextureGeneration), "retexture", "all texture variants failed", nil)
	}
	return nil
}

func (s *Service) textureVariant(ctx context.Context, x *execution, preset string) TextureVariant {
	variant := TextureVariant{Preset: preset}
	taskID, err := s.clients.Models.CreateRetexture(ctx, x.modelURL, texturePrompt(preset, x.cfg.Style))
	if err != nil {
		variant.Error = services.Details(err).Message
		return variant
	}
	variant.TaskID = taskID

	poller := newTaskPoller(s.pollInterval, s.conversionTimeout, s.clock)
	status, err := poller.await(ctx, StageTextureGeneration,
		func(ctx context.Context) (TaskStatus, error) {
			return s.clients.Models.RetextureTask(ctx, taskID)
		},
		nil,
	)
	if err != nil {
		variant.Error = services.Details(err).Message
		return variant
	}
	variant.ModelURL = status.ModelURL
	if variant.ModelURL == "" {
		variant.Error = "task succeeded without a model url"
	}
	return variant
}

func texturePrompt(preset, style string) string {
	prompt := preset + " material finish"
	if style = strings.TrimSpace(style); style != "" {
		prompt += ", " + style + " style"
	}
	return prompt
}

// runRiggingStage submits the model for auto-rigging. Best effort: a failure
// leaves the run completable with the unrigged model.
func (s *Service) runRiggingStage(ctx context.Context, x *execution) error {
	height := x.cfg.Rigging.HeightMeters
	if height <= 0 {
		height = defaultRiggingHeightMeters
	}
	taskID, err := s.clients.Models.CreateRigging(ctx, x.modelURL, height)
	if err != nil {
		return services.Wrap(services.ErrProvider, string(StageRigging), "submit task", "", err)
	}

	poller := newTaskPoller(s.pollInterval, s.conversionTimeout, s.clock)
	status, err := poller.await(ctx, StageRigging,
		func(ctx context.Context) (TaskStatus, error) {
			return s.clients.Models.RiggingTask(ctx, taskID)
		},
		func(progress int) {
			s.store.Update(x.id, func(run *Run) { run.setStageProgress(StageRigging, progress) })
		},
	)
	if err != nil {
		return err
	}
	if status.ModelURL == "" {
		return services.Wrap(services.ErrProvider, string(StageRigging), "poll task", "task succeeded without a model url", nil)
	}
	s.store.Update(x.id, func(run *Run) {
		run.Results.Rigging = &RiggingResult{TaskID: taskID, ModelURL: status.ModelURL, HeightMeters: height}
	})
	return nil
}

// runSpriteStage derives 2D sprite renders from the finished asset.
func (s *Service) runSpriteStage(ctx context.Context, x *execution) error {
	urls, err := s.clients.Sprites.RenderSprites(ctx, x.prompt, s.spriteAngles)
	if err != nil {
		return services.Wrap(services.ErrProvider, string(StageSpriteGeneration), "render sprites", "", err)
	}
	sprites := make([]SpriteImage, 0, len(urls))
	for i, url := range urls {
		angle := ""
		if i < len(s.spriteAngles) {
			angle = s.spriteAngles[i]
		}
		sprites = append(sprites, SpriteImage{Angle: angle, URL: url})
	}
	s.store.Update(x.id, func(run *Run) {
		run.Results.SpriteGeneration = &SpriteResult{Sprites: sprites}
	})
	return nil
}
