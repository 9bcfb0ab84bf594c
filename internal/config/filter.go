package config

import (
	"os"
	"strconv"
)

const (
	filterConfidenceThresholdEnv = "FILTER_CONFIDENCE_THRESHOLD"

	defaultFilterConfidenceThreshold = 0.8
)

type FilterConfig struct {
	// ConfidenceThreshold is the classifier confidence above which an
	// urgent notification is delivered immediately.
	ConfidenceThreshold float64
}

func LoadFilterConfig() *FilterConfig {
	threshold := defaultFilterConfidenceThreshold
	if v := os.Getenv(filterConfidenceThresholdEnv); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed <= 1 {
			threshold = parsed
		}
	}

	return &FilterConfig{
		ConfidenceThreshold: threshold,
	}
}
