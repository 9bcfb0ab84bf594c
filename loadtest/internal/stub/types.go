package stub

import "time"

// DeliveryRequest mirrors the payload the triage service pushes to the
// delivery gateway.
type DeliveryRequest struct {
	Kind   string `json:"kind"`
	Action string `json:"action"`
	UserID string `json:"user_id"`

	NotificationID string `json:"notification_id,omitempty"`
	Title          string `json:"title,omitempty"`
	Body           string `json:"body,omitempty"`
	Sender         string `json:"sender,omitempty"`
	AppID          string `json:"app_id,omitempty"`
	Urgency        string `json:"urgency,omitempty"`

	BundleKey   string   `json:"bundle_key,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	MemberCount int      `json:"member_count,omitempty"`
	MemberIDs   []string `json:"member_ids,omitempty"`

	DecidedAt time.Time `json:"decided_at"`
}

// DeliveryRecord is a stored delivery plus receipt metadata.
type DeliveryRecord struct {
	DeliveryRequest
	ReceivedAt time.Time `json:"received_at"`
}

type DeliveriesResponse struct {
	Deliveries []DeliveryRecord `json:"deliveries"`
	Count      int              `json:"count"`
}

// ScoreRequest mirrors the urgency scorer API.
type ScoreRequest struct {
	Text       string    `json:"text"`
	Sender     string    `json:"sender,omitempty"`
	AppName    string    `json:"app_name,omitempty"`
	ReceivedAt time.Time `json:"received_at,omitempty"`
}

type ScoreResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
