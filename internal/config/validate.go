package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	if err := c.validateMeshy(); err != nil {
		return err
	}
	if err := c.validateElevenLabs(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	if c.OpenAI.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/assetforge/config.toml"
		}
		return fmt.Errorf("openai.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'forge config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateMeshy() error {
	if c.Meshy.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/assetforge/config.toml"
		}
		return fmt.Errorf("meshy.api_key is required. Set MESHY_API_KEY env var or edit %s (create with 'forge config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateElevenLabs() error {
	if !c.ElevenLabs.Enabled {
		return nil
	}
	if c.ElevenLabs.APIKey == "" {
		return errors.New("elevenlabs.api_key is required when elevenlabs.enabled is true")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.ConversionTimeoutSeconds < c.Pipeline.PollIntervalSeconds {
		return errors.New("pipeline.conversion_timeout_seconds must be at least pipeline.poll_interval_seconds")
	}
	for _, angle := range c.Pipeline.SpriteAngles {
		if strings.TrimSpace(angle) == "" {
			return errors.New("pipeline.sprite_angles must not contain empty entries")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
