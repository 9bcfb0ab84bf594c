package domain

import (
	"time"
)

type Notification struct {
	ID          string
	UserID      string
	AppID       string
	Sender      string
	Title       string
	Body        string
	Category    string
	UrgencyHint Urgency
	CreatedAt   time.Time
}

func (n *Notification) Validate() error {
	if n.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if n.UserID == "" {
		return &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if n.CreatedAt.IsZero() {
		return &ValidationError{Field: "created_at", Reason: "must be a valid timestamp"}
	}
	if n.UrgencyHint != "" && n.UrgencyHint != UrgencyNormal && n.UrgencyHint != UrgencyUrgent {
		return &ValidationError{Field: "urgency_hint", Reason: "must be normal or urgent"}
	}
	return nil
}

// Normalize fills the optional identity fields. Sender and app default
// to "unknown"; body text may legitimately be empty.
func (n *Notification) Normalize() {
	if n.Sender == "" {
		n.Sender = "unknown"
	}
	if n.AppID == "" {
		n.AppID = "unknown"
	}
}

// Text is the classifier input derived from title and body.
func (n *Notification) Text() string {
	switch {
	case n.Title == "":
		return n.Body
	case n.Body == "":
		return n.Title
	}
	return n.Title + " " + n.Body
}
