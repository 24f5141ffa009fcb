package config

import (
	"strings"
	"time"

	"github.com/SeakMengs/BizCard/internal/env"
	"github.com/SeakMengs/BizCard/pkg/bizcard"
)

type Config struct {
	Port        string
	ENV         string
	RateLimiter RateLimiterConfig
	Card        CardConfig
	Minio       MinioConfig
	Cleanup     CleanupConfig
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type CardConfig struct {
	TEMPLATE_PATH      string
	FONT_METADATA_PATH string
	OUTPUT_DIR         string
	TMP_DIR            string
	OUT_FILE_NAME      string
	WIDTH_MM           float64
	HEIGHT_MM          float64
	CAPTURE_SCALE      float64
	BACKGROUND_COLOR   string
	RATIO_TOLERANCE    float64
	MIN_HIGH_DPI_WIDTH float64
	EMBED_QR_CODE      bool
	// Max rows accepted by the batch endpoint
	MAX_BATCH_SIZE int
}

type MinioConfig struct {
	ENABLED    bool
	ENDPOINT   string
	ACCESS_KEY string
	SECRET_KEY string
	USE_SSL    bool
	BUCKET     string
	URL_EXPIRY time.Duration
}

type CleanupConfig struct {
	Enabled bool
	// Standard cron expression, e.g. "@every 30m"
	Schedule string
	// Generated cards older than this are removed
	TTL time.Duration
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

// BizCardConfig converts the card settings to the library config.
func (c CardConfig) BizCardConfig() *bizcard.Config {
	cfg := bizcard.NewDefaultConfig()
	cfg.TemplatePath = c.TEMPLATE_PATH
	cfg.FontMetadataPath = c.FONT_METADATA_PATH
	cfg.OutputDir = c.OUTPUT_DIR
	cfg.TmpDir = c.TMP_DIR
	cfg.OutFileName = c.OUT_FILE_NAME
	cfg.CardWidthMM = c.WIDTH_MM
	cfg.CardHeightMM = c.HEIGHT_MM
	cfg.CaptureScale = c.CAPTURE_SCALE
	cfg.BackgroundColor = c.BACKGROUND_COLOR
	cfg.Thresholds = bizcard.Thresholds{
		RatioTolerance:  c.RATIO_TOLERANCE,
		MinHighDPIWidth: c.MIN_HIGH_DPI_WIDTH,
	}
	return cfg
}

func (c CardConfig) Settings() bizcard.Settings {
	return bizcard.Settings{EmbedQRCode: c.EMBED_QR_CODE}
}

func parseDuration(key, fallback string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(env.GetString(key, fallback))
	if err != nil {
		return def
	}
	return d
}

func GetConfig() Config {
	defaults := bizcard.NewDefaultConfig()
	thresholds := bizcard.DefaultThresholds()

	return Config{
		Port: env.GetString("PORT", "8080"),
		ENV:  env.GetString("ENV", "development"),
		// By default if not specified, we allow 300 requests per minute on all routes, rendering is not cheap
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 300),
			TimeFrame:            parseDuration("RATE_LIMIT_TIME_FRAME", "1m", 60*time.Second),
			Enabled:              env.GetBool("RATE_LIMIT_ENABLED", true),
		},
		Card: CardConfig{
			TEMPLATE_PATH:      env.GetString("CARD_TEMPLATE_PATH", defaults.TemplatePath),
			FONT_METADATA_PATH: env.GetString("CARD_FONT_METADATA_PATH", defaults.FontMetadataPath),
			OUTPUT_DIR:         env.GetString("CARD_OUTPUT_DIR", defaults.OutputDir),
			TMP_DIR:            env.GetString("CARD_TMP_DIR", defaults.TmpDir),
			OUT_FILE_NAME:      env.GetString("CARD_OUT_FILE_NAME", defaults.OutFileName),
			WIDTH_MM:           env.GetFloat("CARD_WIDTH_MM", defaults.CardWidthMM),
			HEIGHT_MM:          env.GetFloat("CARD_HEIGHT_MM", defaults.CardHeightMM),
			CAPTURE_SCALE:      env.GetFloat("CARD_CAPTURE_SCALE", defaults.CaptureScale),
			BACKGROUND_COLOR:   env.GetString("CARD_BACKGROUND_COLOR", defaults.BackgroundColor),
			RATIO_TOLERANCE:    env.GetFloat("CARD_RATIO_TOLERANCE", thresholds.RatioTolerance),
			MIN_HIGH_DPI_WIDTH: env.GetFloat("CARD_MIN_HIGH_DPI_WIDTH", thresholds.MinHighDPIWidth),
			EMBED_QR_CODE:      env.GetBool("CARD_EMBED_QR_CODE", false),
			MAX_BATCH_SIZE:     env.GetInt("CARD_MAX_BATCH_SIZE", 500),
		},
		Minio: MinioConfig{
			ENABLED:    env.GetBool("MINIO_ENABLED", false),
			ENDPOINT:   env.GetString("MINIO_ENDPOINT", "localhost:9000"),
			ACCESS_KEY: env.GetString("MINIO_ACCESS_KEY", ""),
			SECRET_KEY: env.GetString("MINIO_SECRET_KEY", ""),
			USE_SSL:    env.GetBool("MINIO_USE_SSL", false),
			BUCKET:     env.GetString("MINIO_BUCKET", "bizcard"),
			URL_EXPIRY: parseDuration("MINIO_URL_EXPIRY", "24h", 24*time.Hour),
		},
		Cleanup: CleanupConfig{
			Enabled:  env.GetBool("CLEANUP_ENABLED", true),
			Schedule: env.GetString("CLEANUP_SCHEDULE", "@every 30m"),
			TTL:      parseDuration("CLEANUP_TTL", "1h", time.Hour),
		},
	}
}
