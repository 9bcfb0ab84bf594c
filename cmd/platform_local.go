//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/infra/gateway"
	"github.com/lumenwell/lumen-notification-triage/internal/observability"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/logging"
)

func initGateway(_ context.Context, cfg *config.Config) (gateway.Gateway, func() error, error) {
	if cfg.Gateway.DeliveryURL == "" {
		slog.Warn("DELIVERY_GATEWAY_URL not set, deliveries are logged only")

		return gateway.NewLogGateway(), nil, nil
	}

	gw := gateway.NewHTTPGateway(cfg.Gateway.DeliveryURL, cfg.Gateway.MaxRetries)

	slog.Info("delivery gateway initialized",
		slog.String("type", "http"),
		slog.String("url", cfg.Gateway.DeliveryURL),
	)

	return gw, nil, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "notification-triage"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: logging.Module("notification-triage"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
