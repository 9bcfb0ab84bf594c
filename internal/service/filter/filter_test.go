package filter

import (
	"testing"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

func testFilter() *Filter {
	return New(&config.FilterConfig{ConfidenceThreshold: 0.8})
}

func ctxWith(activity domain.Activity, vips ...string) *domain.UserContext {
	return &domain.UserContext{
		UserID:     "u-1",
		Activity:   activity,
		VIPSenders: vips,
	}
}

func note(sender string) *domain.Notification {
	return &domain.Notification{
		ID:        "n-1",
		UserID:    "u-1",
		Sender:    sender,
		Body:      "hello",
		CreatedAt: time.Now(),
	}
}

func TestDecideTable(t *testing.T) {
	f := testFilter()

	tests := []struct {
		name       string
		sender     string
		activity   domain.Activity
		cls        domain.Classification
		wantKind   domain.ActionKind
		wantRule   string
		wantPrefix domain.Priority
	}{
		{
			name:     "urgent confident while working delivers now",
			sender:   "ops",
			activity: domain.ActivityWorking,
			cls:      domain.Classification{Urgency: domain.UrgencyUrgent, Confidence: 0.95},
			wantKind: domain.ActionDeliverNow,
			wantRule: RuleUrgentConfident,
		},
		{
			name:     "urgent while sleeping escalates",
			sender:   "ops",
			activity: domain.ActivitySleeping,
			cls:      domain.Classification{Urgency: domain.UrgencyUrgent, Confidence: 0.95},
			wantKind: domain.ActionEscalate,
			wantRule: RuleSleepEscalate,
		},
		{
			name:     "normal while sleeping is suppressed",
			sender:   "friend",
			activity: domain.ActivitySleeping,
			cls:      domain.Classification{Urgency: domain.UrgencyNormal, Confidence: 0.3},
			wantKind: domain.ActionSuppress,
			wantRule: RuleSleepSuppress,
		},
		{
			name:       "normal during meeting holds at medium",
			sender:     "friend",
			activity:   domain.ActivityMeeting,
			cls:        domain.Classification{Urgency: domain.UrgencyNormal, Confidence: 0.3},
			wantKind:   domain.ActionHold,
			wantRule:   RuleBusyHold,
			wantPrefix: domain.PriorityMedium,
		},
		{
			name:       "urgent low-confidence while driving holds at high",
			sender:     "ops",
			activity:   domain.ActivityDriving,
			cls:        domain.Classification{Urgency: domain.UrgencyUrgent, Confidence: 0.6},
			wantKind:   domain.ActionHold,
			wantRule:   RuleBusyHold,
			wantPrefix: domain.PriorityHigh,
		},
		{
			name:     "normal while relaxing bundles",
			sender:   "newsletter@x.com",
			activity: domain.ActivityRelaxing,
			cls:      domain.Classification{Urgency: domain.UrgencyNormal, Confidence: 0.4},
			wantKind: domain.ActionBundle,
			wantRule: RuleDefaultBundle,
		},
		{
			name:     "unknown context bundles rather than suppresses",
			sender:   "friend",
			activity: domain.ActivityUnknown,
			cls:      domain.Classification{Urgency: domain.UrgencyNormal, Confidence: 0.3},
			wantKind: domain.ActionBundle,
			wantRule: RuleDefaultBundle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := f.Decide(note(tt.sender), tt.cls, ctxWith(tt.activity))
			if decision.Action.Kind() != tt.wantKind {
				t.Errorf("Kind = %s, want %s", decision.Action.Kind(), tt.wantKind)
			}
			if decision.Rule != tt.wantRule {
				t.Errorf("Rule = %s, want %s", decision.Rule, tt.wantRule)
			}
			if hold, ok := decision.Action.(domain.HoldAction); ok && hold.Priority != tt.wantPrefix {
				t.Errorf("Priority = %s, want %s", hold.Priority, tt.wantPrefix)
			}
		})
	}
}

// The VIP check is first and short-circuits: even a normal-urgency
// notification during quiet hours is delivered immediately.
func TestDecideVIPShortCircuits(t *testing.T) {
	f := testFilter()

	for _, activity := range []domain.Activity{
		domain.ActivityWorking,
		domain.ActivitySleeping,
		domain.ActivityMeeting,
		domain.ActivityRelaxing,
		domain.ActivityDriving,
		domain.ActivityUnknown,
	} {
		cls := domain.Classification{Urgency: domain.UrgencyNormal, Confidence: 0.2}
		decision := f.Decide(note("boss"), cls, ctxWith(activity, "boss"))
		if decision.Action.Kind() != domain.ActionDeliverNow {
			t.Errorf("activity %s: Kind = %s, want deliver_now for VIP", activity, decision.Action.Kind())
		}
		if decision.Rule != RuleVIP {
			t.Errorf("activity %s: Rule = %s, want vip", activity, decision.Rule)
		}
	}
}

// Every (activity, urgency, vip) combination must map to one of the
// five defined actions.
func TestDecideTotal(t *testing.T) {
	f := testFilter()

	activities := []domain.Activity{
		domain.ActivityWorking, domain.ActivitySleeping, domain.ActivityMeeting,
		domain.ActivityRelaxing, domain.ActivityDriving, domain.ActivityUnknown,
	}
	classifications := []domain.Classification{
		{Urgency: domain.UrgencyUrgent, Confidence: 0.95},
		{Urgency: domain.UrgencyUrgent, Confidence: 0.5},
		{Urgency: domain.UrgencyNormal, Confidence: 0.9},
		{Urgency: domain.UrgencyNormal, Confidence: 0.0},
	}

	valid := map[domain.ActionKind]bool{
		domain.ActionDeliverNow: true,
		domain.ActionHold:       true,
		domain.ActionBundle:     true,
		domain.ActionSuppress:   true,
		domain.ActionEscalate:   true,
	}

	for _, activity := range activities {
		for _, cls := range classifications {
			for _, vip := range []bool{true, false} {
				uctx := ctxWith(activity)
				if vip {
					uctx.VIPSenders = []string{"sender"}
				}
				decision := f.Decide(note("sender"), cls, uctx)
				if decision.Action == nil {
					t.Fatalf("Decide returned nil action for (%s, %+v, vip=%v)", activity, cls, vip)
				}
				if !valid[decision.Action.Kind()] {
					t.Errorf("Decide returned unknown kind %s", decision.Action.Kind())
				}
			}
		}
	}
}

func TestFallbackHoldsAtMedium(t *testing.T) {
	decision := Fallback()

	hold, ok := decision.Action.(domain.HoldAction)
	if !ok {
		t.Fatalf("Fallback action = %T, want HoldAction", decision.Action)
	}
	if hold.Priority != domain.PriorityMedium {
		t.Errorf("Priority = %s, want medium", hold.Priority)
	}
	if decision.Rule != RuleFallback {
		t.Errorf("Rule = %s, want fallback", decision.Rule)
	}
}

// Held entries pick up a deliver-after point when the resolver knows
// when the busy period ends.
func TestDecideBusyHoldScheduledWithKnownEnd(t *testing.T) {
	f := testFilter()

	uctx := ctxWith(domain.ActivityMeeting)
	uctx.NextWake = time.Now().Add(30 * time.Minute)

	cls := domain.Classification{Urgency: domain.UrgencyNormal, Confidence: 0.3}
	decision := f.Decide(note("friend"), cls, uctx)

	hold, ok := decision.Action.(domain.HoldAction)
	if !ok {
		t.Fatalf("action = %T, want HoldAction", decision.Action)
	}
	if hold.Strategy != domain.DeliveryScheduled {
		t.Errorf("Strategy = %s, want scheduled", hold.Strategy)
	}
}
