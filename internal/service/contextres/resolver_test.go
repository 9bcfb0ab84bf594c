package contextres

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

func defaultSchedule() *config.ScheduleConfig {
	return &config.ScheduleConfig{
		QuietStart: "22:00",
		QuietEnd:   "07:00",
	}
}

func storeWith(t *testing.T, prefs *domain.Preferences) domain.PreferenceStore {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := domain.NewMockPreferenceStore(ctrl)
	if prefs == nil {
		store.EXPECT().GetPreferences(gomock.Any(), gomock.Any()).Return(nil, domain.ErrPreferencesNotFound).AnyTimes()
	} else {
		store.EXPECT().GetPreferences(gomock.Any(), prefs.UserID).Return(prefs, nil).AnyTimes()
	}
	return store
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestResolveUnknownUser(t *testing.T) {
	r := NewResolver(storeWith(t, nil), defaultSchedule())

	uctx, err := r.Resolve(context.Background(), "stranger", at(14, 0))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if uctx.Activity != domain.ActivityUnknown {
		t.Errorf("Activity = %s, want unknown", uctx.Activity)
	}
}

func TestResolveScheduleWindows(t *testing.T) {
	prefs := &domain.Preferences{
		UserID:     "u-1",
		QuietStart: "22:00",
		QuietEnd:   "07:00",
		Timezone:   "UTC",
		Windows: []domain.ContextWindow{
			{Activity: domain.ActivityWorking, Start: "09:00", End: "17:00"},
			{Activity: domain.ActivityMeeting, Start: "17:00", End: "18:00"},
		},
	}
	r := NewResolver(storeWith(t, prefs), defaultSchedule())

	tests := []struct {
		name string
		t    time.Time
		want domain.Activity
	}{
		{"mid workday", at(14, 0), domain.ActivityWorking},
		{"window start inclusive", at(9, 0), domain.ActivityWorking},
		{"window end exclusive rolls to next", at(17, 0), domain.ActivityMeeting},
		{"quiet hours", at(23, 30), domain.ActivitySleeping},
		{"quiet hours past midnight", at(3, 0), domain.ActivitySleeping},
		{"evening gap falls back to relaxing", at(20, 0), domain.ActivityRelaxing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uctx, err := r.Resolve(context.Background(), "u-1", tt.t)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if uctx.Activity != tt.want {
				t.Errorf("Activity = %s, want %s", uctx.Activity, tt.want)
			}
		})
	}
}

func TestResolveOverrideWins(t *testing.T) {
	prefs := &domain.Preferences{
		UserID:     "u-1",
		QuietStart: "22:00",
		QuietEnd:   "07:00",
		Timezone:   "UTC",
		Override: &domain.ContextOverride{
			Activity: domain.ActivityMeeting,
			Until:    at(23, 45),
		},
	}
	r := NewResolver(storeWith(t, prefs), defaultSchedule())

	// Override holds even inside quiet hours.
	uctx, err := r.Resolve(context.Background(), "u-1", at(23, 0))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if uctx.Activity != domain.ActivityMeeting {
		t.Errorf("Activity = %s, want meeting while override is active", uctx.Activity)
	}

	// Past its end the override expires on its own.
	uctx, err = r.Resolve(context.Background(), "u-1", at(23, 50))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if uctx.Activity != domain.ActivitySleeping {
		t.Errorf("Activity = %s, want sleeping after override expiry", uctx.Activity)
	}
}

func TestResolveNextWake(t *testing.T) {
	prefs := domain.DefaultPreferences("u-1")
	r := NewResolver(storeWith(t, prefs), defaultSchedule())

	uctx, err := r.Resolve(context.Background(), "u-1", at(23, 0))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if uctx.Activity != domain.ActivitySleeping {
		t.Fatalf("Activity = %s, want sleeping", uctx.Activity)
	}
	want := time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC)
	if !uctx.NextWake.Equal(want) {
		t.Errorf("NextWake = %v, want %v", uctx.NextWake, want)
	}
}

func TestResolveVIPSendersCarried(t *testing.T) {
	prefs := domain.DefaultPreferences("u-1")
	prefs.VIPSenders = []string{"boss", "daycare"}
	r := NewResolver(storeWith(t, prefs), defaultSchedule())

	uctx, err := r.Resolve(context.Background(), "u-1", at(12, 0))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !uctx.IsVIP("Boss") {
		t.Error("IsVIP should match case-insensitively")
	}
	if uctx.IsVIP("stranger") {
		t.Error("IsVIP matched a sender not on the list")
	}
}

func TestResolveDefaultsApplyWithoutUserWindows(t *testing.T) {
	defaults := defaultSchedule()
	defaults.Windows = []domain.ContextWindow{
		{Activity: domain.ActivityWorking, Start: "08:00", End: "16:00"},
	}
	prefs := &domain.Preferences{UserID: "u-1", Timezone: "UTC", QuietStart: "22:00", QuietEnd: "07:00"}
	r := NewResolver(storeWith(t, prefs), defaults)

	uctx, err := r.Resolve(context.Background(), "u-1", at(10, 0))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if uctx.Activity != domain.ActivityWorking {
		t.Errorf("Activity = %s, want working from fleet default window", uctx.Activity)
	}
}
