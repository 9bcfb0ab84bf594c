package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Environment selects the log output format: dev gets human-readable
// text, everything else gets JSON.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module labels log records with the subsystem that produced them.
type Module string

func (m Module) String() string {
	return string(m)
}

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type Options struct {
	Level        slog.Level
	Env          Environment
	Service      ServiceInfo
	GCPProjectID string
	Module       Module
}

func NewLogger(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var inner slog.Handler
	if opts.Env == EnvDev {
		inner = slog.NewTextHandler(os.Stdout, handlerOpts)
	} else {
		inner = slog.NewJSONHandler(os.Stdout, handlerOpts)
	}

	handler := &contextHandler{inner: inner, projectID: opts.GCPProjectID}

	logger := slog.New(handler).With(
		slog.String("service", opts.Service.Name),
		slog.String("version", opts.Service.Version),
		slog.String("module", string(opts.Module)),
	)
	if opts.Service.Revision != "" {
		logger = logger.With(slog.String("revision", opts.Service.Revision))
	}

	return logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler decorates records with platform trace correlation
// attributes pulled from the request context.
type contextHandler struct {
	inner     slog.Handler
	projectID string
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if attrs := gcpTraceAttrs(ctx, h.projectID); len(attrs) > 0 {
		rec.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{inner: h.inner.WithAttrs(attrs), projectID: h.projectID}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{inner: h.inner.WithGroup(name), projectID: h.projectID}
}
