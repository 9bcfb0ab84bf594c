package triage

import (
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

// Result reports what happened to one ingested notification. Exactly
// one of QueueEntryID and BundleKey is set, and only for hold and
// bundle outcomes respectively.
type Result struct {
	NotificationID string            `json:"notification_id"`
	Duplicate      bool              `json:"duplicate,omitempty"`
	Action         domain.ActionKind `json:"action,omitempty"`
	Rule           string            `json:"rule,omitempty"`
	Priority       string            `json:"priority,omitempty"`
	QueueEntryID   string            `json:"queue_entry_id,omitempty"`
	BundleKey      string            `json:"bundle_key,omitempty"`
	Urgency        domain.Urgency    `json:"urgency,omitempty"`
	Confidence     float64           `json:"confidence,omitempty"`
	Activity       domain.Activity   `json:"activity,omitempty"`
	Source         string            `json:"classifier_source,omitempty"`
}
