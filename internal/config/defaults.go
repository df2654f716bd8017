package config

const (
	defaultDataDir   = "~/.local/share/ttabscan"
	defaultLogDir    = "~/.local/share/ttabscan/logs"
	defaultOutputDir = "~/ttabscan-output"

	defaultTTABBaseURL        = "https://ttabvue.uspto.gov/ttabvue"
	defaultTTABTimeoutSeconds = 30
	defaultTTABMaxAttempts    = 3

	defaultTSDRBaseURL        = "https://tsdrapi.uspto.gov/ts/cd"
	defaultTSDRImageBaseURL   = "https://tsdrapi.uspto.gov/ts/cd/rawImage"
	defaultTSDRTimeoutSeconds = 60
	defaultTSDRMaxAttempts    = 3

	defaultVisionBaseURL        = "https://api.anthropic.com/v1/messages"
	defaultVisionModel          = "claude-3-5-haiku-latest"
	defaultVisionTimeoutSeconds = 60
	defaultVisionMaxAttempts    = 5
	defaultVisionMaxTokens      = 1024

	defaultOCRBinary   = "tesseract"
	defaultOCRLanguage = "eng"

	defaultCacheTTLDays = 30

	defaultMarkDelayMS    = 750
	defaultPageDelayMS    = 500
	defaultMaxSearchPages = 20

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			OutputDir: defaultOutputDir,
		},
		TTAB: TTAB{
			BaseURL:        defaultTTABBaseURL,
			TimeoutSeconds: defaultTTABTimeoutSeconds,
			MaxAttempts:    defaultTTABMaxAttempts,
		},
		TSDR: TSDR{
			BaseURL:        defaultTSDRBaseURL,
			ImageBaseURL:   defaultTSDRImageBaseURL,
			TimeoutSeconds: defaultTSDRTimeoutSeconds,
			MaxAttempts:    defaultTSDRMaxAttempts,
		},
		Vision: Vision{
			Enabled:        true,
			BaseURL:        defaultVisionBaseURL,
			Model:          defaultVisionModel,
			TimeoutSeconds: defaultVisionTimeoutSeconds,
			MaxAttempts:    defaultVisionMaxAttempts,
			MaxTokens:      defaultVisionMaxTokens,
		},
		OCR: OCR{
			Enabled:  true,
			Binary:   defaultOCRBinary,
			Language: defaultOCRLanguage,
		},
		Cache: Cache{
			Path:    defaultCachePath(),
			TTLDays: defaultCacheTTLDays,
		},
		Pipeline: Pipeline{
			MarkDelayMS:    defaultMarkDelayMS,
			PageDelayMS:    defaultPageDelayMS,
			MaxSearchPages: defaultMaxSearchPages,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
