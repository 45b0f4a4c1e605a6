package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"assetforge/internal/pipeline"
	"assetforge/internal/services"
)

// Asset is a completed generation recorded in the catalog.
type Asset struct {
	ID             int64
	PipelineID     string
	AssetID        string
	Name           string
	DisplayName    string
	Type           string
	Subtype        string
	ImageURL       string
	ModelURL       string
	ModelPath      string
	RiggedModelURL string
	SpriteCount    int
	CreatedAt      time.Time
}

// Store persists completed asset metadata in SQLite. It is written by the
// daemon's completion hook, not by the orchestrator itself.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

var titleCaser = cases.Title(language.English)

// RecordCompleted writes a catalog row for a completed run. It implements
// pipeline.Recorder.
func (s *Store) RecordCompleted(ctx context.Context, run pipeline.Run) error {
	if run.Status != pipeline.StateCompleted {
		return fmt.Errorf("catalog record: run %s is %s, not completed", run.ID, run.Status)
	}

	asset := Asset{
		PipelineID:  run.ID,
		AssetID:     run.Config.AssetID,
		Name:        run.Config.Name,
		DisplayName: titleCaser.String(strings.TrimSpace(run.Config.Name)),
		Type:        run.Config.Type,
		Subtype:     run.Config.Subtype,
	}
	if result := run.Results.ImageGeneration; result != nil {
		asset.ImageURL = result.URL
	}
	if result := run.Results.Image3D; result != nil {
		asset.ModelURL = result.ModelURL
		asset.ModelPath = result.LocalPath
	}
	if result := run.Results.Rigging; result != nil {
		asset.RiggedModelURL = result.ModelURL
	}
	if result := run.Results.SpriteGeneration; result != nil {
		asset.SpriteCount = len(result.Sprites)
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO assets (
            pipeline_id, asset_id, name, display_name, type, subtype,
            image_url, model_url, model_path, rigged_model_url, sprite_count, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.PipelineID,
		asset.AssetID,
		asset.Name,
		asset.DisplayName,
		asset.Type,
		asset.Subtype,
		nullableString(asset.ImageURL),
		nullableString(asset.ModelURL),
		nullableString(asset.ModelPath),
		nullableString(asset.RiggedModelURL),
		asset.SpriteCount,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

const assetColumns = `id, pipeline_id, asset_id, name, display_name, type, subtype,
    image_url, model_url, model_path, rigged_model_url, sprite_count, created_at`

// List returns catalog entries, newest first.
func (s *Store) List(ctx context.Context) ([]Asset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// GetByAssetID returns the most recent catalog entry for an asset identifier.
func (s *Store) GetByAssetID(ctx context.Context, assetID string) (Asset, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+assetColumns+` FROM assets WHERE asset_id = ? ORDER BY created_at DESC LIMIT 1`,
		assetID,
	)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Asset{}, services.Wrap(services.ErrNotFound, "catalog", "lookup", "unknown asset id "+assetID, nil)
	}
	if err != nil {
		return Asset{}, fmt.Errorf("get asset: %w", err)
	}
	return asset, nil
}

// Count returns the number of catalog entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM assets`)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(row scanner) (Asset, error) {
	var (
		asset     Asset
		imageURL  sql.NullString
		modelURL  sql.NullString
		modelPath sql.NullString
		riggedURL sql.NullString
		createdAt string
	)
	err := row.Scan(
		&asset.ID,
		&asset.PipelineID,
		&asset.AssetID,
		&asset.Name,
		&asset.DisplayName,
		&asset.Type,
		&asset.Subtype,
		&imageURL,
		&modelURL,
		&modelPath,
		&riggedURL,
		&asset.SpriteCount,
		&createdAt,
	)
	if err != nil {
		return Asset{}, err
	}
	asset.ImageURL = imageURL.String
	asset.ModelURL = modelURL.String
	asset.ModelPath = modelPath.String
	asset.RiggedModelURL = riggedURL.String
	if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		asset.CreatedAt = parsed
	}
	return asset, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
