package domain

import (
	"fmt"
	"time"
)

type BundleMember struct {
	Notification Notification `json:"notification"`
	Urgency      Urgency      `json:"urgency"`
}

type Bundle struct {
	Key       string         `json:"key"`
	UserID    string         `json:"user_id"`
	Strategy  BundleStrategy `json:"strategy"`
	Group     string         `json:"group"`
	CreatedAt time.Time      `json:"created_at"`
	ReadyAt   time.Time      `json:"ready_at"`
	Members   []BundleMember `json:"members"`
}

func NewBundle(key, userID string, strategy BundleStrategy, group string, createdAt, readyAt time.Time) *Bundle {
	return &Bundle{
		Key:       key,
		UserID:    userID,
		Strategy:  strategy,
		Group:     group,
		CreatedAt: createdAt.UTC(),
		ReadyAt:   readyAt.UTC(),
		Members:   make([]BundleMember, 0),
	}
}

func (b *Bundle) AddMember(m BundleMember) {
	b.Members = append(b.Members, m)
}

func (b *Bundle) Size() int {
	return len(b.Members)
}

func (b *Bundle) HasUrgent() bool {
	for _, m := range b.Members {
		if m.Urgency.IsUrgent() {
			return true
		}
	}
	return false
}

// Ready reports whether the bundle should be released: either it has
// reached the size threshold or its oldest member has waited out the
// maximum age.
func (b *Bundle) Ready(now time.Time, sizeThreshold int) bool {
	return len(b.Members) >= sizeThreshold || !now.Before(b.ReadyAt)
}

// Digest is the single summary notification a released bundle turns
// into.
type Digest struct {
	BundleKey   string
	UserID      string
	Summary     string
	MemberCount int
	Urgency     Urgency
	Members     []Notification
}

// WindowKey buckets a time into the bundle window grid.
func WindowKey(t time.Time, window time.Duration) string {
	return t.UTC().Truncate(window).Format("2006-01-02-15-04")
}

func BundleKey(userID string, strategy BundleStrategy, group, windowKey string) string {
	return fmt.Sprintf("%s:%s:%s:%s", userID, strategy, group, windowKey)
}
