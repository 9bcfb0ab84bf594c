package decisionrecorder

import (
	"context"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.DecisionRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordDecisions(_ context.Context, _ []domain.DecisionRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
