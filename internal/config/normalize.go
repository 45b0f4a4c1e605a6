package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOpenAI()
	c.normalizeMeshy()
	c.normalizeElevenLabs()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeOpenAI() {
	if c.OpenAI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.OpenAI.APIKey = value
		}
	}
	c.OpenAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenAI.BaseURL), "/")
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	if strings.TrimSpace(c.OpenAI.ChatModel) == "" {
		c.OpenAI.ChatModel = defaultChatModel
	}
	if strings.TrimSpace(c.OpenAI.ImageModel) == "" {
		c.OpenAI.ImageModel = defaultImageModel
	}
	if strings.TrimSpace(c.OpenAI.ImageSize) == "" {
		c.OpenAI.ImageSize = defaultImageSize
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeout
	}
}

func (c *Config) normalizeMeshy() {
	if c.Meshy.APIKey == "" {
		if value, ok := os.LookupEnv("MESHY_API_KEY"); ok {
			c.Meshy.APIKey = value
		}
	}
	c.Meshy.BaseURL = strings.TrimRight(strings.TrimSpace(c.Meshy.BaseURL), "/")
	if c.Meshy.BaseURL == "" {
		c.Meshy.BaseURL = defaultMeshyBaseURL
	}
	if c.Meshy.TimeoutSeconds <= 0 {
		c.Meshy.TimeoutSeconds = defaultMeshyTimeout
	}
}

func (c *Config) normalizeElevenLabs() {
	if c.ElevenLabs.APIKey == "" {
		if value, ok := os.LookupEnv("ELEVENLABS_API_KEY"); ok {
			c.ElevenLabs.APIKey = value
		}
	}
	c.ElevenLabs.BaseURL = strings.TrimRight(strings.TrimSpace(c.ElevenLabs.BaseURL), "/")
	if c.ElevenLabs.BaseURL == "" {
		c.ElevenLabs.BaseURL = defaultElevenBaseURL
	}
	if c.ElevenLabs.TimeoutSeconds <= 0 {
		c.ElevenLabs.TimeoutSeconds = defaultElevenTimeout
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.PollIntervalSeconds <= 0 {
		c.Pipeline.PollIntervalSeconds = defaultPollInterval
	}
	if c.Pipeline.ConversionTimeoutSeconds <= 0 {
		c.Pipeline.ConversionTimeoutSeconds = defaultConvTimeout
	}
	if c.Pipeline.RetentionHours <= 0 {
		c.Pipeline.RetentionHours = defaultRetentionHours
	}
	if c.Pipeline.CleanupIntervalMinutes <= 0 {
		c.Pipeline.CleanupIntervalMinutes = defaultCleanupMinutes
	}
	if c.Pipeline.TextureParallelism <= 0 {
		c.Pipeline.TextureParallelism = defaultTextureWorkers
	}
	if len(c.Pipeline.SpriteAngles) == 0 {
		c.Pipeline.SpriteAngles = defaultSpriteAngles()
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}
