package gateway

import (
	"context"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

//go:generate mockgen -source=gateway.go -destination=gateway_mock.go -package=gateway

// DeliveryKind separates single notifications from bundle digests on
// the wire.
type DeliveryKind string

const (
	KindNotification DeliveryKind = "notification"
	KindDigest       DeliveryKind = "digest"
)

// Delivery is the payload handed to the delivery gateway. The gateway
// owns rendering and push mechanics; the pipeline only decides what
// goes out and when.
type Delivery struct {
	Kind   DeliveryKind `json:"kind"`
	Action string       `json:"action"`
	UserID string       `json:"user_id"`

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

type Gateway interface {
	Deliver(ctx context.Context, delivery *Delivery) error
}

// FromNotification builds the delivery payload for a single
// notification leaving the pipeline.
func FromNotification(n domain.Notification, urgency domain.Urgency, action domain.ActionKind, decidedAt time.Time) *Delivery {
	return &Delivery{
		Kind:           KindNotification,
		Action:         action.String(),
		UserID:         n.UserID,
		NotificationID: n.ID,
		Title:          n.Title,
		Body:           n.Body,
		Sender:         n.Sender,
		AppID:          n.AppID,
		Urgency:        urgency.String(),
		DecidedAt:      decidedAt,
	}
}

// FromDigest builds the delivery payload for a released bundle. Only
// the synthesized summary travels; members stay retrievable by bundle
// key.
func FromDigest(d domain.Digest, decidedAt time.Time) *Delivery {
	memberIDs := make([]string, 0, len(d.Members))
	for _, m := range d.Members {
		memberIDs = append(memberIDs, m.ID)
	}
	return &Delivery{
		Kind:        KindDigest,
		Action:      domain.ActionBundle.String(),
		UserID:      d.UserID,
		Urgency:     d.Urgency.String(),
		BundleKey:   d.BundleKey,
		Summary:     d.Summary,
		MemberCount: d.MemberCount,
		MemberIDs:   memberIDs,
		DecidedAt:   decidedAt,
	}
}
