package classify

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

// Keyword weights for the logistic urgency score. Strong operational
// words dominate; softer scheduling words contribute less.
var urgencyKeywords = map[string]float64{
	"urgent":      2.4,
	"emergency":   2.6,
	"critical":    2.2,
	"asap":        2.0,
	"immediately": 1.8,
	"now":         0.9,
	"down":        1.4,
	"failed":      1.3,
	"failure":     1.3,
	"alert":       1.5,
	"outage":      1.8,
	"deadline":    1.2,
	"overdue":     1.1,
	"reminder":    0.4,
	"expiring":    0.8,
	"important":   1.0,
}

// Senders whose traffic skews urgent or unimportant independent of
// text. Every matching entry contributes to the score, so a sender
// matching several entries scores the same on every call.
var senderBias = []struct {
	name   string
	weight float64
}{
	{"ops", 0.8},
	{"oncall", 1.0},
	{"pagerduty", 1.2},
	{"security", 0.8},
	{"newsletter", -1.2},
	{"noreply", -0.8},
	{"marketing", -1.4},
}

const heuristicBias = -2.0

// Heuristic is the keyword-weighted logistic classifier. It is the
// always-available path; the remote model only ever overrides it when
// it answers within its time budget.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Classify scores text and sender lexically. Empty text yields a
// low-confidence normal; invalid UTF-8 is treated as malformed input
// and yields the zero-confidence default.
func (h *Heuristic) Classify(text, sender string) domain.Classification {
	if !utf8.ValidString(text) {
		return domain.Classification{Urgency: domain.UrgencyNormal, Confidence: 0.0, Source: domain.SourceHeuristic}
	}
	if strings.TrimSpace(text) == "" {
		return domain.Classification{Urgency: domain.UrgencyNormal, Confidence: 0.5, Source: domain.SourceHeuristic}
	}

	score := heuristicBias
	score += keywordSignal(text)
	score += punctuationSignal(text)
	score += capsSignal(text)
	score += senderSignal(sender)

	p := sigmoid(score)
	if p >= 0.5 {
		return domain.Classification{Urgency: domain.UrgencyUrgent, Confidence: p, Source: domain.SourceHeuristic}
	}
	return domain.Classification{Urgency: domain.UrgencyNormal, Confidence: 1 - p, Source: domain.SourceHeuristic}
}

func keywordSignal(text string) float64 {
	signal := 0.0
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if w, ok := urgencyKeywords[word]; ok {
			signal += w
		}
	}
	return signal
}

// punctuationSignal counts exclamation and question marks, capped so
// "!!!!!!!!" does not run away.
func punctuationSignal(text string) float64 {
	count := strings.Count(text, "!") + strings.Count(text, "?")
	if count > 5 {
		count = 5
	}
	return float64(count) * 0.3
}

// capsSignal measures the share of upper-case letters among all
// letters. Short texts are exempt; two-word shouting is common and
// harmless.
func capsSignal(text string) float64 {
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters < 8 {
		return 0
	}
	ratio := float64(upper) / float64(letters)
	if ratio < 0.3 {
		return 0
	}
	return ratio * 1.2
}

func senderSignal(sender string) float64 {
	s := strings.ToLower(sender)
	signal := 0.0
	for _, b := range senderBias {
		if strings.Contains(s, b.name) {
			signal += b.weight
		}
	}
	return signal
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
