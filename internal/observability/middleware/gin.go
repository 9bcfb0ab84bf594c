package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumenwell/lumen-notification-triage/internal/observability/logging"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/metrics"
)

type GinConfig struct {
	// SkipPaths are served without tracing, logging, or metrics.
	SkipPaths []string
	Module    logging.Module
	// Worker marks endpoints driven by queue pushes rather than users;
	// spans are then named after the job instead of the route.
	Worker          bool
	TracerName      string
	JobNameResolver func(c *gin.Context) string
	HTTPMetrics     *metrics.HTTPMetrics
}

// Gin returns the request middleware: trace propagation and a server
// span, a completion log line, and HTTP metrics.
func Gin(cfg GinConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	tracer := otel.Tracer(cfg.TracerName)
	propagator := otel.GetTextMapPropagator()

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()

		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		requestID := logging.ValidateAndExtractRequestID(c.Request.Header.Get("x-request-id"))
		ctx = logging.WithRequestID(ctx, requestID)
		c.Writer.Header().Set("x-request-id", requestID)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		spanName := c.Request.Method + " " + route
		if cfg.Worker && cfg.JobNameResolver != nil {
			if jobName := cfg.JobNameResolver(c); jobName != "" {
				spanName = jobName
			}
		}

		ctx, span := tracer.Start(ctx, spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", c.Request.URL.Path),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)

		if cfg.HTTPMetrics != nil {
			cfg.HTTPMetrics.AddInFlight(ctx, 1)
			defer cfg.HTTPMetrics.AddInFlight(ctx, -1)
		}

		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)

		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}

		logAttrs := []any{
			slog.String("module", string(cfg.Module)),
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.String("request_id", requestID),
		}
		if len(c.Errors) > 0 {
			logAttrs = append(logAttrs, slog.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			slog.ErrorContext(ctx, "request failed", logAttrs...)
		case status >= 400:
			slog.WarnContext(ctx, "request rejected", logAttrs...)
		default:
			slog.InfoContext(ctx, "request completed", logAttrs...)
		}

		if cfg.HTTPMetrics != nil {
			cfg.HTTPMetrics.RecordRequest(ctx, c.Request.Method, route, status, duration)
		}
	}
}
