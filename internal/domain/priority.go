package domain

import "fmt"

// Priority orders queued notifications for delivery.
// Lower values dequeue first.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
	PriorityBatched
)

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	case PriorityBatched:
		return "batched"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

func ParsePriority(s string) (Priority, error) {
	switch s {
	case "critical":
		return PriorityCritical, nil
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	case "batched":
		return PriorityBatched, nil
	}
	return 0, fmt.Errorf("unknown priority: %q", s)
}

// Promote raises the priority by one level. Critical does not promote
// further.
func (p Priority) Promote() Priority {
	if p <= PriorityCritical {
		return PriorityCritical
	}
	return p - 1
}

func (p Priority) Before(other Priority) bool {
	return p < other
}
