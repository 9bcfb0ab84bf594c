package filter

import (
	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

// Rule names identify which branch of the decision table fired. They
// are recorded with every decision for audit and metrics.
const (
	RuleVIP             = "vip"
	RuleSleepSuppress   = "sleep_suppress"
	RuleSleepEscalate   = "sleep_escalate"
	RuleUrgentConfident = "urgent_confident"
	RuleBusyHold        = "busy_hold"
	RuleDefaultBundle   = "default_bundle"

	// RuleFallback marks decisions produced by error recovery rather
	// than the table.
	RuleFallback = "fallback"
)

type Decision struct {
	Action domain.Action
	Rule   string
}

// Filter maps a classified notification and its user context to
// exactly one action. The table is evaluated top to bottom and the
// first matching rule wins; there is no unhandled combination.
type Filter struct {
	confidenceThreshold float64
}

func New(cfg *config.FilterConfig) *Filter {
	return &Filter{
		confidenceThreshold: cfg.ConfidenceThreshold,
	}
}

func (f *Filter) Decide(n *domain.Notification, cls domain.Classification, uctx *domain.UserContext) Decision {
	if uctx.IsVIP(n.Sender) {
		return Decision{Action: domain.DeliverNowAction{}, Rule: RuleVIP}
	}

	if uctx.Activity.IsSleeping() {
		if cls.Urgency.IsUrgent() {
			return Decision{Action: domain.EscalateAction{}, Rule: RuleSleepEscalate}
		}
		return Decision{
			Action: domain.SuppressAction{Reason: "quiet hours"},
			Rule:   RuleSleepSuppress,
		}
	}

	if cls.Urgency.IsUrgent() && cls.Confidence >= f.confidenceThreshold {
		return Decision{Action: domain.DeliverNowAction{}, Rule: RuleUrgentConfident}
	}

	if uctx.Activity.IsBusy() {
		priority := domain.PriorityMedium
		if cls.Urgency.IsUrgent() {
			priority = domain.PriorityHigh
		}
		return Decision{
			Action: domain.HoldAction{Priority: priority, Strategy: holdStrategy(uctx)},
			Rule:   RuleBusyHold,
		}
	}

	return Decision{
		Action: domain.BundleAction{Strategy: domain.BundleSmart},
		Rule:   RuleDefaultBundle,
	}
}

// Fallback is the universal recovery action: when any pipeline
// component fails mid-decision the notification is queued at medium
// priority instead of being dropped.
func Fallback() Decision {
	return Decision{
		Action: domain.HoldAction{
			Priority: domain.PriorityMedium,
			Strategy: domain.DeliveryImmediate,
		},
		Rule: RuleFallback,
	}
}

// holdStrategy picks immediate drain unless an active override tells
// us when the busy period ends.
func holdStrategy(uctx *domain.UserContext) domain.DeliveryStrategy {
	if !uctx.NextWake.IsZero() {
		return domain.DeliveryScheduled
	}
	return domain.DeliveryImmediate
}
