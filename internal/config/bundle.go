package config

import (
	"os"
	"strconv"
	"time"
)

const (
	bundleWindowMinutesEnv = "BUNDLE_WINDOW_MINUTES"
	bundleMaxAgeMinutesEnv = "BUNDLE_MAX_AGE_MINUTES"
	bundleSizeThresholdEnv = "BUNDLE_SIZE_THRESHOLD"

	defaultBundleWindowMinutes = 15
	defaultBundleMaxAgeMinutes = 30
	defaultBundleSizeThreshold = 5
)

type BundleConfig struct {
	// Window buckets bundle keys so the same sender an hour apart does
	// not land in one endless bundle.
	Window time.Duration
	// MaxAge releases a bundle this long after its first member even
	// if it never reaches the size threshold.
	MaxAge time.Duration
	// SizeThreshold releases a bundle the moment it reaches this many
	// members.
	SizeThreshold int
}

func LoadBundleConfig() *BundleConfig {
	windowMinutes := defaultBundleWindowMinutes
	if v := os.Getenv(bundleWindowMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			windowMinutes = parsed
		}
	}

	maxAgeMinutes := defaultBundleMaxAgeMinutes
	if v := os.Getenv(bundleMaxAgeMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxAgeMinutes = parsed
		}
	}

	sizeThreshold := defaultBundleSizeThreshold
	if v := os.Getenv(bundleSizeThresholdEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			sizeThreshold = parsed
		}
	}

	return &BundleConfig{
		Window:        time.Duration(windowMinutes) * time.Minute,
		MaxAge:        time.Duration(maxAgeMinutes) * time.Minute,
		SizeThreshold: sizeThreshold,
	}
}
