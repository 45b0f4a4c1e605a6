package config

const (
	defaultStagingDir     = "~/.local/share/assetforge/staging"
	defaultLogDir         = "~/.local/share/assetforge/logs"
	defaultCatalogPath    = "~/.local/share/assetforge/catalog.db"
	defaultAPIBind        = "127.0.0.1:7610"
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultChatModel      = "gpt-4o"
	defaultImageModel     = "dall-e-3"
	defaultImageSize      = "1024x1024"
	defaultOpenAITimeout  = 60
	defaultMeshyBaseURL   = "https://api.meshy.ai"
	defaultMeshyTimeout   = 30
	defaultElevenBaseURL  = "https://api.elevenlabs.io"
	defaultElevenTimeout  = 60
	defaultPollInterval   = 10
	defaultConvTimeout    = 300
	defaultRetentionHours = 24
	defaultCleanupMinutes = 60
	defaultTextureWorkers = 2
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultSpriteAngles() []string {
	return []string{"front", "side", "back", "isometric"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:  defaultStagingDir,
			LogDir:      defaultLogDir,
			CatalogPath: defaultCatalogPath,
			APIBind:     defaultAPIBind,
		},
		OpenAI: OpenAI{
			BaseURL:        defaultOpenAIBaseURL,
			ChatModel:      defaultChatModel,
			ImageModel:     defaultImageModel,
			ImageSize:      defaultImageSize,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		Meshy: Meshy{
			BaseURL:        defaultMeshyBaseURL,
			TimeoutSeconds: defaultMeshyTimeout,
		},
		ElevenLabs: ElevenLabs{
			BaseURL:        defaultElevenBaseURL,
			TimeoutSeconds: defaultElevenTimeout,
		},
		Pipeline: Pipeline{
			PollIntervalSeconds:      defaultPollInterval,
			ConversionTimeoutSeconds: defaultConvTimeout,
			RetentionHours:           defaultRetentionHours,
			CleanupIntervalMinutes:   defaultCleanupMinutes,
			TextureParallelism:       defaultTextureWorkers,
			SpriteAngles:             defaultSpriteAngles(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
