package domain

import (
	"fmt"
	"strings"
	"time"
)

// Activity is the resolved user state used to gate delivery.
type Activity string

const (
	ActivityWorking  Activity = "working"
	ActivitySleeping Activity = "sleeping"
	ActivityMeeting  Activity = "meeting"
	ActivityRelaxing Activity = "relaxing"
	ActivityDriving  Activity = "driving"
	ActivityUnknown  Activity = "unknown"
)

func (a Activity) String() string {
	return string(a)
}

func (a Activity) IsSleeping() bool {
	return a == ActivitySleeping
}

// IsBusy reports whether the user should not be interrupted right now
// but is expected to return shortly.
func (a Activity) IsBusy() bool {
	return a == ActivityMeeting || a == ActivityDriving
}

func ParseActivity(s string) (Activity, error) {
	switch Activity(s) {
	case ActivityWorking, ActivitySleeping, ActivityMeeting, ActivityRelaxing, ActivityDriving, ActivityUnknown:
		return Activity(s), nil
	}
	return "", fmt.Errorf("unknown activity: %q", s)
}

// UserContext is the resolver output attached to a notification while
// it moves through triage. It is recomputed per evaluation and never
// persisted.
type UserContext struct {
	UserID     string
	Activity   Activity
	VIPSenders []string
	NextWake   time.Time
	ResolvedAt time.Time
}

func (c *UserContext) IsVIP(sender string) bool {
	for _, s := range c.VIPSenders {
		if strings.EqualFold(s, sender) {
			return true
		}
	}
	return false
}
