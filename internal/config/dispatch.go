package config

import (
	"os"
	"strconv"
	"time"
)

const (
	dispatchIntervalSecondsEnv = "DISPATCH_INTERVAL_SECONDS"
	dispatchLoopDisabledEnv    = "DISPATCH_LOOP_DISABLED"

	defaultDispatchIntervalSeconds = 30
)

type DispatchConfig struct {
	// Interval is the drain tick period.
	Interval time.Duration
	// LoopDisabled turns the background drain loop off; dispatch then
	// only runs when triggered through the API.
	LoopDisabled bool
}

func LoadDispatchConfig() *DispatchConfig {
	intervalSeconds := defaultDispatchIntervalSeconds
	if v := os.Getenv(dispatchIntervalSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			intervalSeconds = parsed
		}
	}

	return &DispatchConfig{
		Interval:     time.Duration(intervalSeconds) * time.Second,
		LoopDisabled: os.Getenv(dispatchLoopDisabledEnv) == "true",
	}
}
