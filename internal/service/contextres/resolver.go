package contextres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

// Resolver derives the user's current activity from stored preferences
// and the evaluation timestamp. Resolution is total: every call yields
// exactly one activity, with unknown reserved for users that have no
// schedule at all.
type Resolver struct {
	preferences domain.PreferenceStore
	defaults    *config.ScheduleConfig
}

func NewResolver(preferences domain.PreferenceStore, defaults *config.ScheduleConfig) *Resolver {
	return &Resolver{
		preferences: preferences,
		defaults:    defaults,
	}
}

// Resolve computes the context at t. A manual override wins over every
// schedule window and expires on its own once its end time passes.
func (r *Resolver) Resolve(ctx context.Context, userID string, t time.Time) (*domain.UserContext, error) {
	prefs, err := r.preferences.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrPreferencesNotFound) {
			return &domain.UserContext{
				UserID:     userID,
				Activity:   domain.ActivityUnknown,
				ResolvedAt: t,
			}, nil
		}
		return nil, fmt.Errorf("resolve context for %s: %w", userID, err)
	}

	loc := r.location(ctx, prefs.Timezone)
	local := t.In(loc)

	uctx := &domain.UserContext{
		UserID:     userID,
		VIPSenders: prefs.VIPSenders,
		ResolvedAt: t,
	}

	if prefs.Override.Active(t) {
		uctx.Activity = prefs.Override.Activity
		uctx.NextWake = prefs.Override.Until
		return uctx, nil
	}

	windows := prefs.Windows
	if len(windows) == 0 {
		windows = r.defaults.Windows
	}
	for _, w := range windows {
		if windowContains(w, local) {
			uctx.Activity = w.Activity
			return uctx, nil
		}
	}

	quietStart, quietEnd := prefs.QuietStart, prefs.QuietEnd
	if quietStart == "" || quietEnd == "" {
		quietStart, quietEnd = r.defaults.QuietStart, r.defaults.QuietEnd
	}
	if quietStart != "" && quietEnd != "" {
		start, startOK := parseClock(quietStart)
		end, endOK := parseClock(quietEnd)
		if startOK && endOK && clockBetween(minuteOfDay(local), start, end) {
			uctx.Activity = domain.ActivitySleeping
			uctx.NextWake = nextInstant(local, end).In(time.UTC)
			return uctx, nil
		}
	}

	if len(windows) == 0 && (quietStart == "" || quietEnd == "") {
		uctx.Activity = domain.ActivityUnknown
		return uctx, nil
	}

	// A schedule exists but no window covers t.
	uctx.Activity = domain.ActivityRelaxing
	return uctx, nil
}

func (r *Resolver) location(ctx context.Context, name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.WarnContext(ctx, "unknown timezone in preferences, using UTC",
			slog.String("event", "context.timezone.invalid"),
			slog.String("timezone", name),
		)
		return time.UTC
	}
	return loc
}

func windowContains(w domain.ContextWindow, local time.Time) bool {
	start, startOK := parseClock(w.Start)
	end, endOK := parseClock(w.End)
	if !startOK || !endOK {
		return false
	}
	return clockBetween(minuteOfDay(local), start, end)
}

// parseClock reads "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// clockBetween handles windows that wrap midnight, e.g. 22:00-07:00.
// Start is inclusive, end exclusive.
func clockBetween(m, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return m >= start && m < end
	}
	return m >= start || m < end
}

// nextInstant finds the next occurrence of the clock minute at or
// after local.
func nextInstant(local time.Time, clockMinute int) time.Time {
	candidate := time.Date(local.Year(), local.Month(), local.Day(),
		clockMinute/60, clockMinute%60, 0, 0, local.Location())
	if !candidate.After(local) {
		candidate = candidate.Add(24 * time.Hour)
	}
	return candidate
}
