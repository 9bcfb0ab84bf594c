package config

import (
	"os"
	"strconv"
	"time"
)

const (
	classifierModelURLEnv        = "CLASSIFIER_MODEL_URL"
	classifierTimeoutMillisEnv   = "CLASSIFIER_TIMEOUT_MILLIS"
	classifierCacheSizeEnv       = "CLASSIFIER_CACHE_SIZE"
	classifierCacheTTLMinutesEnv = "CLASSIFIER_CACHE_TTL_MINUTES"

	defaultClassifierTimeoutMillis   = 100
	defaultClassifierCacheSize       = 1024
	defaultClassifierCacheTTLMinutes = 10
)

type ClassifierConfig struct {
	// ModelURL points at the remote scoring service. Empty means the
	// heuristic path runs alone.
	ModelURL string
	// Timeout bounds a remote scoring call; on expiry the heuristic
	// result is used instead.
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

func LoadClassifierConfig() *ClassifierConfig {
	timeoutMillis := defaultClassifierTimeoutMillis
	if v := os.Getenv(classifierTimeoutMillisEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			timeoutMillis = parsed
		}
	}

	cacheSize := defaultClassifierCacheSize
	if v := os.Getenv(classifierCacheSizeEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cacheSize = parsed
		}
	}

	cacheTTLMinutes := defaultClassifierCacheTTLMinutes
	if v := os.Getenv(classifierCacheTTLMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cacheTTLMinutes = parsed
		}
	}

	return &ClassifierConfig{
		ModelURL:  os.Getenv(classifierModelURLEnv),
		Timeout:   time.Duration(timeoutMillis) * time.Millisecond,
		CacheSize: cacheSize,
		CacheTTL:  time.Duration(cacheTTLMinutes) * time.Minute,
	}
}
