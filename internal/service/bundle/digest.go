package bundle

import (
	"fmt"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

// Digest turns a released bundle into the single summary notification
// that reaches the gateway. The summary text is deterministic: member
// count plus the dominant sender or category.
func Digest(b domain.Bundle) domain.Digest {
	members := make([]domain.Notification, 0, len(b.Members))
	for _, m := range b.Members {
		members = append(members, m.Notification)
	}

	urgency := domain.UrgencyNormal
	if b.HasUrgent() {
		urgency = domain.UrgencyUrgent
	}

	return domain.Digest{
		BundleKey:   b.Key,
		UserID:      b.UserID,
		Summary:     summarize(b),
		MemberCount: len(b.Members),
		Urgency:     urgency,
		Members:     members,
	}
}

func summarize(b domain.Bundle) string {
	source := dominantSource(b)
	if len(b.Members) == 1 {
		return fmt.Sprintf("1 notification from %s", source)
	}
	return fmt.Sprintf("%d notifications from %s", len(b.Members), source)
}

// dominantSource is the most frequent sender (or app, for app-grouped
// bundles) among the members. Ties resolve to the earliest member so
// the summary is stable across reorderings of equal counts.
func dominantSource(b domain.Bundle) string {
	pick := func(n domain.Notification) string {
		if b.Strategy == domain.BundleByApp {
			return n.AppID
		}
		return n.Sender
	}

	counts := make(map[string]int, len(b.Members))
	best := ""
	for _, m := range b.Members {
		source := pick(m.Notification)
		counts[source]++
		if best == "" || counts[source] > counts[best] {
			best = source
		}
	}
	if best == "" {
		return b.Group
	}
	return best
}
