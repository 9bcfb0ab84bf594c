package domain

import (
	"context"
	"time"
)

type DecisionRecord struct {
	NotificationID string
	UserID         string
	AppID          string
	Activity       string
	Urgency        string
	Confidence     float64
	Action         string
	Priority       string
	Rule           string
	DecidedAt      time.Time
}

type DecisionRecorder interface {
	RecordDecisions(ctx context.Context, records []DecisionRecord) error
	Flush(ctx context.Context) error
	Close() error
}
