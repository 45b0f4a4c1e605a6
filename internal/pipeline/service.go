package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"assetforge/internal/config"
	"assetforge/internal/logging"
)

// StartResult is returned synchronously by Start while stage execution
// continues in the background.
type StartResult struct {
	PipelineID string `json:"pipelineId"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// Service orchestrates generation runs: it validates configs, drives the
// stage sequence asynchronously, answers status lookups, and sweeps expired
// runs.
type Service struct {
	store   *Store
	clients Clients
	logger  *slog.Logger
	clock   Clock

	recorder Recorder

	stagingDir        string
	pollInterval      time.Duration
	conversionTimeout time.Duration
	retention         time.Duration
	textureLimit      int
	spriteAngles      []string
}

// Option configures optional Service behavior.
type Option func(*Service)

// WithClock overrides the clock used for polling and retention (used in tests).
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRecorder registers a collaborator notified when runs complete.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// NewService constructs the pipeline orchestrator.
func NewService(cfg *config.Config, clients Clients, logger *slog.Logger, opts ...Option) *Service {
	textureLimit := cfg.Pipeline.TextureParallelism
	if textureLimit < 1 {
		// SetLimit(0) would deadlock the texture fan-out.
		textureLimit = 1
	}
	svc := &Service{
		clients:           clients,
		logger:            logging.NewComponentLogger(logger, "pipeline"),
		clock:             NewRealClock(),
		stagingDir:        cfg.Paths.StagingDir,
		pollInterval:      time.Duration(cfg.Pipeline.PollIntervalSeconds) * time.Second,
		conversionTimeout: time.Duration(cfg.Pipeline.ConversionTimeoutSeconds) * time.Second,
		retention:         time.Duration(cfg.Pipeline.RetentionHours) * time.Hour,
		textureLimit:      textureLimit,
		spriteAngles:      append([]string(nil), cfg.Pipeline.SpriteAngles...),
	}
	for _, opt := range opts {
		opt(svc)
	}
	// The store shares the service clock so UpdatedAt stamps line up with
	// CreatedAt and the retention cutoff.
	svc.store = NewStore(svc.clock)
	return svc
}

// Start validates the config, registers a new run with textInput already
// completed, and begins asynchronous stage execution. It returns immediately;
// errors inside stage execution never propagate to the caller and are instead
// captured on the run record.
func (s *Service) Start(ctx context.Context, cfg Config) (StartResult, error) {
	if err := cfg.Validate(); err != nil {
		return StartResult{}, err
	}

	id := uuid.NewString()
	run := newRun(id, cfg, s.clock.Now().UTC())
	s.store.Insert(run)

	s.logger.Info("pipeline started",
		logging.String(logging.FieldPipelineID, id),
		logging.String("asset_id", cfg.AssetID),
		logging.String("asset_type", cfg.Type),
		logging.String("asset_subtype", cfg.Subtype),
		logging.Bool("has_reference_image", cfg.ReferenceImage.Present()),
	)

	// Runs are not cancellable once started: detach from the caller's
	// cancellation while keeping its values for log correlation.
	go s.execute(context.WithoutCancel(ctx), id)

	return StartResult{
		PipelineID: id,
		Status:     string(StateInitializing),
		Message:    fmt.Sprintf("Generation started for %s", cfg.Name),
	}, nil
}

// Status returns a read-only snapshot of the run. Unknown ids (including runs
// already removed by cleanup) yield services.ErrNotFound.
func (s *Service) Status(id string) (Run, error) {
	return s.store.Snapshot(id)
}

// List returns snapshots of all stored runs, newest first.
func (s *Service) List() []Run {
	return s.store.List()
}

// Stats counts stored runs by overall state.
func (s *Service) Stats() map[State]int {
	stats := make(map[State]int)
	for _, run := range s.store.List() {
		stats[run.Status]++
	}
	return stats
}

// CleanupOldPipelines removes terminal runs older than the retention
// threshold and returns how many were removed. In-flight runs are retained
// regardless of age: an abandoned run needs manual attention, not silent
// deletion.
func (s *Service) CleanupOldPipelines() int {
	cutoff := s.clock.Now().UTC().Add(-s.retention)
	removed := s.store.CleanupOlderThan(cutoff)
	if removed > 0 {
		s.logger.Info("cleaned up expired pipelines",
			logging.Int("removed", removed),
			logging.Duration("retention", s.retention),
		)
	}
	return removed
}
