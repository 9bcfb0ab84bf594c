package config

import (
	"os"
	"strconv"
	"time"
)

const (
	queueMaxSizeEnv           = "QUEUE_MAX_SIZE"
	queueStaleAfterMinutesEnv = "QUEUE_STALE_AFTER_MINUTES"
	queueDrainBatchMaxEnv     = "QUEUE_DRAIN_BATCH_MAX"

	defaultQueueMaxSize           = 100
	defaultQueueStaleAfterMinutes = 30
	defaultQueueDrainBatchMax     = 10
)

type QueueConfig struct {
	// MaxSize bounds each per-user queue. Enqueueing past the bound
	// evicts the lowest-priority oldest entry.
	MaxSize int
	// StaleAfter is the age at which a queued entry is promoted one
	// priority tier.
	StaleAfter time.Duration
	// DrainBatchMax caps how many batched/digest entries leave the
	// queue in a single drain tick.
	DrainBatchMax int
}

func LoadQueueConfig() *QueueConfig {
	maxSize := defaultQueueMaxSize
	if v := os.Getenv(queueMaxSizeEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxSize = parsed
		}
	}

	staleMinutes := defaultQueueStaleAfterMinutes
	if v := os.Getenv(queueStaleAfterMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			staleMinutes = parsed
		}
	}

	drainBatchMax := defaultQueueDrainBatchMax
	if v := os.Getenv(queueDrainBatchMaxEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			drainBatchMax = parsed
		}
	}

	return &QueueConfig{
		MaxSize:       maxSize,
		StaleAfter:    time.Duration(staleMinutes) * time.Minute,
		DrainBatchMax: drainBatchMax,
	}
}
