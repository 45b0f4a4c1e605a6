package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"assetforge/internal/catalog"
	"assetforge/internal/config"
	"assetforge/internal/logging"
	"assetforge/internal/pipeline"
	"assetforge/internal/services/elevenlabs"
	"assetforge/internal/services/meshy"
	"assetforge/internal/services/openai"
	"assetforge/internal/sprites"
)

// Daemon coordinates the generation orchestrator, the asset catalog, the HTTP
// API, and the retention sweeper, and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *pipeline.Service
	catalog *catalog.Store
	sounds  *elevenlabs.Client

	apiServer *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	swept   chan struct{}
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	CatalogPath  string
	LockFilePath string
	Pipelines    map[pipeline.State]int
	AssetCount   int
}

// New constructs a daemon with initialized provider clients, catalog store,
// and orchestrator.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	store, err := catalog.Open(cfg.Paths.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	openaiClient := openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		ChatModel:      cfg.OpenAI.ChatModel,
		ImageModel:     cfg.OpenAI.ImageModel,
		ImageSize:      cfg.OpenAI.ImageSize,
		TimeoutSeconds: cfg.OpenAI.TimeoutSeconds,
	})
	meshyClient := meshy.NewClient(meshy.Config{
		APIKey:         cfg.Meshy.APIKey,
		BaseURL:        cfg.Meshy.BaseURL,
		TimeoutSeconds: cfg.Meshy.TimeoutSeconds,
	})

	clients := pipeline.Clients{
		Prompts: openaiClient,
		Images:  openaiClient,
		Models:  newMeshyConverter(meshyClient),
		Sprites: sprites.NewRenderer(openaiClient, cfg.OpenAI.ImageSize),
	}

	var sounds *elevenlabs.Client
	if cfg.ElevenLabs.Enabled {
		sounds = elevenlabs.NewClient(elevenlabs.Config{
			APIKey:         cfg.ElevenLabs.APIKey,
			BaseURL:        cfg.ElevenLabs.BaseURL,
			TimeoutSeconds: cfg.ElevenLabs.TimeoutSeconds,
		})
	}

	service := pipeline.NewService(cfg, clients, logger, pipeline.WithRecorder(store))

	lockPath := filepath.Join(cfg.Paths.LogDir, "forged.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		service:  service,
		catalog:  store,
		sounds:   sounds,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	d.apiServer = srv
	return d, nil
}

// Start acquires the daemon lock, launches the retention sweeper, and begins
// serving the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another forge daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.swept = make(chan struct{})
	go d.sweepLoop(d.ctx)

	if d.apiServer != nil {
		if err := d.apiServer.start(d.ctx); err != nil {
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			_ = d.lock.Unlock()
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("forge daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts the sweeper and API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.apiServer != nil {
		d.apiServer.stop()
	}
	if d.swept != nil {
		<-d.swept
		d.swept = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("forge daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.catalog != nil {
		return d.catalog.Close()
	}
	return nil
}

// Service exposes the generation orchestrator.
func (d *Daemon) Service() *pipeline.Service {
	return d.service
}

// Catalog exposes the asset catalog store.
func (d *Daemon) Catalog() *catalog.Store {
	return d.catalog
}

// APIAddress returns the bound API listen address, or "" before Start. With a
// port-0 bind this is the only way to learn the chosen port.
func (d *Daemon) APIAddress() string {
	if d.apiServer == nil {
		return ""
	}
	return d.apiServer.addr()
}

// sweepLoop runs the retention sweeper on a fixed interval until the daemon
// context is cancelled.
func (d *Daemon) sweepLoop(ctx context.Context) {
	defer close(d.swept)

	interval := time.Duration(d.cfg.Pipeline.CleanupIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.service.CleanupOldPipelines()
		}
	}
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		CatalogPath:  d.cfg.Paths.CatalogPath,
		LockFilePath: d.lockPath,
		Pipelines:    d.service.Stats(),
	}
	if count, err := d.catalog.Count(ctx); err == nil {
		status.AssetCount = count
	}
	return status
}
