package domain

// Urgency is the classifier label attached to a notification.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyUrgent Urgency = "urgent"
)

func (u Urgency) String() string {
	return string(u)
}

func (u Urgency) IsUrgent() bool {
	return u == UrgencyUrgent
}

// ClassifierSource records which path produced a classification.
type ClassifierSource string

const (
	SourceModel     ClassifierSource = "model"
	SourceHeuristic ClassifierSource = "heuristic"
	SourceCache     ClassifierSource = "cache"
	SourceHint      ClassifierSource = "hint"
)

func (s ClassifierSource) String() string {
	return string(s)
}

type Classification struct {
	Urgency    Urgency
	Confidence float64
	Source     ClassifierSource
}
