package classify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
	"github.com/lumenwell/lumen-notification-triage/internal/infra/scorer"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/metrics"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/tracing"
)

const hintConfidence = 0.9

// Classifier produces the urgency label for a notification. The remote
// model answers when it is configured and responds within the time
// budget; in every other case the heuristic answers, so classification
// can never block the pipeline.
type Classifier struct {
	heuristic     *Heuristic
	cache         *resultCache
	remote        scorer.Scorer
	remoteURL     string
	remoteTimeout time.Duration
	triageMetrics *metrics.TriageMetrics
}

func NewClassifier(cfg *config.ClassifierConfig, remote scorer.Scorer, triageMetrics *metrics.TriageMetrics) *Classifier {
	return &Classifier{
		heuristic:     NewHeuristic(),
		cache:         newResultCache(cfg.CacheSize, cfg.CacheTTL),
		remote:        remote,
		remoteURL:     cfg.ModelURL,
		remoteTimeout: cfg.Timeout,
		triageMetrics: triageMetrics,
	}
}

func (c *Classifier) Classify(ctx context.Context, n *domain.Notification) domain.Classification {
	if n.UrgencyHint != "" {
		result := domain.Classification{
			Urgency:    n.UrgencyHint,
			Confidence: hintConfidence,
			Source:     domain.SourceHint,
		}
		c.recordClassification(ctx, result)
		return result
	}

	text := n.Text()
	now := time.Now()

	cacheKey := text + "\x00" + n.Sender
	if urgency, confidence, ok := c.cache.get(cacheKey, now); ok {
		result := domain.Classification{
			Urgency:    urgency,
			Confidence: confidence,
			Source:     domain.SourceCache,
		}
		c.recordClassification(ctx, result)
		return result
	}

	result := c.classifyFresh(ctx, text, n)
	c.cache.put(cacheKey, result.Urgency, result.Confidence, now)
	c.recordClassification(ctx, result)
	return result
}

func (c *Classifier) classifyFresh(ctx context.Context, text string, n *domain.Notification) domain.Classification {
	if c.remote == nil {
		return c.heuristic.Classify(text, n.Sender)
	}

	result, err := c.classifyRemote(ctx, text, n)
	if err == nil {
		return result
	}

	reason := "error"
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "timeout"
	}
	if c.triageMetrics != nil {
		c.triageMetrics.RecordClassifierFallback(ctx, reason)
	}
	slog.WarnContext(ctx, "remote scorer unavailable, using heuristic",
		slog.String("event", "classify.fallback"),
		slog.String("notification_id", n.ID),
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)

	return c.heuristic.Classify(text, n.Sender)
}

func (c *Classifier) classifyRemote(ctx context.Context, text string, n *domain.Notification) (domain.Classification, error) {
	scoreCtx, cancel := context.WithTimeout(ctx, c.remoteTimeout)
	defer cancel()

	scoreCtx, span := tracing.StartScorerSpan(scoreCtx, c.remoteURL)
	defer span.End()

	resp, err := c.remote.Score(scoreCtx, &scorer.ScoreRequest{
		Text:       text,
		Sender:     n.Sender,
		AppName:    n.AppID,
		ReceivedAt: n.CreatedAt,
	})
	if err != nil {
		span.RecordError(err)
		return domain.Classification{}, err
	}

	urgency := domain.UrgencyNormal
	if resp.Label == domain.UrgencyUrgent.String() {
		urgency = domain.UrgencyUrgent
	}

	confidence := resp.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return domain.Classification{
		Urgency:    urgency,
		Confidence: confidence,
		Source:     domain.SourceModel,
	}, nil
}

func (c *Classifier) recordClassification(ctx context.Context, result domain.Classification) {
	if c.triageMetrics != nil {
		c.triageMetrics.RecordClassification(ctx, result.Source.String(), result.Urgency.String())
	}
}
