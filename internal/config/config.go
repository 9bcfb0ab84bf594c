package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	LogLevel    slog.Level
	Gateway     GatewayConfig
	Redis       *RedisConfig
	Queue       *QueueConfig
	Bundle      *BundleConfig
	Classifier  *ClassifierConfig
	Filter      *FilterConfig
	Dispatch    *DispatchConfig
	Preferences *PreferencesConfig
	Schedule    *ScheduleConfig
}

type GatewayConfig struct {
	DeliveryURL string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	MaxRetries int
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	maxRetries := 3
	if v := os.Getenv("GATEWAY_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	scheduleConfig, err := LoadScheduleConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: parseLogLevel(os.Getenv("LOG_LEVEL")),
		Gateway: GatewayConfig{
			DeliveryURL: os.Getenv("DELIVERY_GATEWAY_URL"),

			GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
			GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),

			MaxRetries: maxRetries,
		},
		Redis:       redisConfig,
		Queue:       LoadQueueConfig(),
		Bundle:      LoadBundleConfig(),
		Classifier:  LoadClassifierConfig(),
		Filter:      LoadFilterConfig(),
		Dispatch:    LoadDispatchConfig(),
		Preferences: LoadPreferencesConfig(),
		Schedule:    scheduleConfig,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
