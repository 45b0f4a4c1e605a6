package api

import (
	"assetforge/internal/catalog"
	"assetforge/internal/pipeline"
)

// FromRun converts a run snapshot to its API representation.
func FromRun(run pipeline.Run) PipelineView {
	view := PipelineView{
		ID:       run.ID,
		Status:   string(run.Status),
		Progress: run.Progress,
		Stages:   make(map[string]StageView, len(run.Stages)),
		Results:  fromResults(run.Results),
		AssetID:  run.Config.AssetID,
		Name:     run.Config.Name,
		Type:     run.Config.Type,
		Subtype:  run.Config.Subtype,
		Error:    run.Error,
	}
	for name, status := range run.Stages {
		view.Stages[string(name)] = StageView{
			Status:   string(status.Status),
			Progress: status.Progress,
			Error:    status.Error,
		}
	}
	if !run.CreatedAt.IsZero() {
		view.CreatedAt = run.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !run.UpdatedAt.IsZero() {
		view.UpdatedAt = run.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return view
}

// FromRuns converts run snapshots preserving order.
func FromRuns(runs []pipeline.Run) []PipelineView {
	if len(runs) == 0 {
		return nil
	}
	views := make([]PipelineView, 0, len(runs))
	for _, run := range runs {
		views = append(views, FromRun(run))
	}
	return views
}

func fromResults(results pipeline.Results) ResultsView {
	var view ResultsView
	if r := results.PromptOptimization; r != nil {
		view.PromptOptimization = &PromptView{Original: r.Original, Enhanced: r.Enhanced, Source: r.Source}
	}
	if r := results.ImageGeneration; r != nil {
		view.ImageGeneration = &ImageView{URL: r.URL, Source: r.Source, Prompt: r.Prompt}
	}
	if r := results.Image3D; r != nil {
		view.Image3D = &ModelView{TaskID: r.TaskID, ModelURL: r.ModelURL, LocalPath: r.LocalPath}
	}
	if r := results.TextureGeneration; r != nil {
		variants := make([]TextureVariantView, 0, len(r.Variants))
		for _, v := range r.Variants {
			variants = append(variants, TextureVariantView{
				Preset:   v.Preset,
				TaskID:   v.TaskID,
				ModelURL: v.ModelURL,
				Error:    v.Error,
			})
		}
		view.TextureGeneration = &TextureView{Variants: variants}
	}
	if r := results.Rigging; r != nil {
		view.Rigging = &RiggingView{TaskID: r.TaskID, ModelURL: r.ModelURL, HeightMeters: r.HeightMeters}
	}
	if r := results.SpriteGeneration; r != nil {
		sprites := make([]SpriteAngleView, 0, len(r.Sprites))
		for _, s := range r.Sprites {
			sprites = append(sprites, SpriteAngleView{Angle: s.Angle, URL: s.URL})
		}
		view.SpriteGeneration = &SpriteView{Sprites: sprites}
	}
	return view
}

// FromAsset converts a catalog record to its API representation.
func FromAsset(asset catalog.Asset) AssetView {
	view := AssetView{
		ID:             asset.ID,
		PipelineID:     asset.PipelineID,
		AssetID:        asset.AssetID,
		Name:           asset.Name,
		DisplayName:    asset.DisplayName,
		Type:           asset.Type,
		Subtype:        asset.Subtype,
		ImageURL:       asset.ImageURL,
		ModelURL:       asset.ModelURL,
		ModelPath:      asset.ModelPath,
		RiggedModelURL: asset.RiggedModelURL,
		SpriteCount:    asset.SpriteCount,
	}
	if !asset.CreatedAt.IsZero() {
		view.CreatedAt = asset.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return view
}

// FromAssets converts catalog records preserving order.
func FromAssets(assets []catalog.Asset) []AssetView {
	if len(assets) == 0 {
		return nil
	}
	views := make([]AssetView, 0, len(assets))
	for _, asset := range assets {
		views = append(views, FromAsset(asset))
	}
	return views
}
