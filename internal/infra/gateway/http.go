package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/observability/tracing"
)

// HTTPGateway posts deliveries to an external delivery service.
// Transient failures retry with exponential backoff; 4xx responses do
// not retry because resending the same payload cannot succeed.
type HTTPGateway struct {
	baseURL    string
	maxRetries int
	httpClient *http.Client
}

func NewHTTPGateway(baseURL string, maxRetries int) *HTTPGateway {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &HTTPGateway{
		baseURL:    baseURL,
		maxRetries: maxRetries,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (g *HTTPGateway) Deliver(ctx context.Context, delivery *Delivery) error {
	ctx, span := tracing.StartDeliverySpan(ctx, delivery.Action, delivery.NotificationID)
	defer span.End()

	payload, err := json.Marshal(delivery)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery: %w", err)
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.DebugContext(ctx, "retrying delivery",
				slog.String("notification_id", delivery.NotificationID),
				slog.String("user_id", delivery.UserID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				tracing.RecordDeliveryResult(span, attempts, ctx.Err())
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		attempts++
		lastErr = g.post(ctx, payload)
		if lastErr == nil {
			tracing.RecordDeliveryResult(span, attempts, nil)
			return nil
		}
		if permanent, ok := lastErr.(*permanentError); ok {
			tracing.RecordDeliveryResult(span, attempts, permanent)
			return permanent
		}
	}

	tracing.RecordDeliveryResult(span, attempts, lastErr)
	return fmt.Errorf("delivery failed after %d attempts: %w", attempts, lastErr)
}

func (g *HTTPGateway) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/deliver", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivery request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &permanentError{status: resp.StatusCode, body: string(body)}
	}
	return fmt.Errorf("delivery returned status %d: %s", resp.StatusCode, string(body))
}

type permanentError struct {
	status int
	body   string
}

func (e *permanentError) Error() string {
	return fmt.Sprintf("delivery rejected with status %d: %s", e.status, e.body)
}
