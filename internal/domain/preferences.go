package domain

import (
	"time"
)

// ContextWindow is a recurring daily window during which the user is
// assumed to be in the given activity.
type ContextWindow struct {
	Activity Activity `json:"activity"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
}

// ContextOverride pins the resolved activity until an expiry instant.
type ContextOverride struct {
	Activity Activity  `json:"activity"`
	Until    time.Time `json:"until"`
}

func (o *ContextOverride) Active(now time.Time) bool {
	return o != nil && now.Before(o.Until)
}

type Preferences struct {
	UserID     string
	VIPSenders []string
	QuietStart string
	QuietEnd   string
	Timezone   string
	Windows    []ContextWindow
	Override   *ContextOverride
}

func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:     userID,
		QuietStart: "22:00",
		QuietEnd:   "07:00",
		Timezone:   "UTC",
	}
}
