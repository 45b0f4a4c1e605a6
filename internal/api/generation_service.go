package api

import (
	"context"

	"assetforge/internal/catalog"
	"assetforge/internal/pipeline"
)

// PipelineRunner abstracts the orchestrator operations needed for API queries.
type PipelineRunner interface {
	Start(ctx context.Context, cfg pipeline.Config) (pipeline.StartResult, error)
	Status(id string) (pipeline.Run, error)
	List() []pipeline.Run
	Stats() map[pipeline.State]int
}

// GenerationService exposes orchestrator operations returning API DTOs.
type GenerationService struct {
	runner PipelineRunner
}

// NewGenerationService constructs a GenerationService around the provided runner.
func NewGenerationService(runner PipelineRunner) *GenerationService {
	if runner == nil {
		return nil
	}
	return &GenerationService{runner: runner}
}

// Start begins a generation run and returns the acknowledgement payload.
func (s *GenerationService) Start(ctx context.Context, cfg pipeline.Config) (GenerateResponse, error) {
	result, err := s.runner.Start(ctx, cfg)
	if err != nil {
		return GenerateResponse{}, err
	}
	return GenerateResponse{
		PipelineID: result.PipelineID,
		Status:     result.Status,
		Message:    result.Message,
	}, nil
}

// Describe fetches a single run snapshot.
func (s *GenerationService) Describe(id string) (PipelineView, error) {
	run, err := s.runner.Status(id)
	if err != nil {
		return PipelineView{}, err
	}
	return FromRun(run), nil
}

// List returns all stored runs, newest first.
func (s *GenerationService) List() []PipelineView {
	return FromRuns(s.runner.List())
}

// Stats returns run counts keyed by status string.
func (s *GenerationService) Stats() map[string]int {
	stats := s.runner.Stats()
	out := make(map[string]int, len(stats))
	for state, count := range stats {
		out[string(state)] = count
	}
	return out
}

// AssetReader abstracts catalog reads needed for API queries.
type AssetReader interface {
	List(ctx context.Context) ([]catalog.Asset, error)
	GetByAssetID(ctx context.Context, assetID string) (catalog.Asset, error)
	Count(ctx context.Context) (int, error)
}

// AssetService exposes read-only catalog operations returning API DTOs.
type AssetService struct {
	store AssetReader
}

// NewAssetService constructs an AssetService around the provided reader.
func NewAssetService(store AssetReader) *AssetService {
	if store == nil {
		return nil
	}
	return &AssetService{store: store}
}

// List returns catalog entries, newest first.
func (s *AssetService) List(ctx context.Context) ([]AssetView, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	assets, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return FromAssets(assets), nil
}

// Describe fetches the most recent catalog entry for an asset identifier.
func (s *AssetService) Describe(ctx context.Context, assetID string) (AssetView, error) {
	if s == nil || s.store == nil {
		return AssetView{}, nil
	}
	asset, err := s.store.GetByAssetID(ctx, assetID)
	if err != nil {
		return AssetView{}, err
	}
	return FromAsset(asset), nil
}

// Count returns the number of catalog entries.
func (s *AssetService) Count(ctx context.Context) (int, error) {
	if s == nil || s.store == nil {
		return 0, nil
	}
	return s.store.Count(ctx)
}
