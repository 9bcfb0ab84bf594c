//go:build gcloud

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

func initGateway(ctx context.Context, cfg *config.Config) (gateway.Gateway, func() error, error) {
	cloudTasksGateway, err := gateway.NewCloudTasksGateway(ctx, gateway.CloudTasksConfig{
		ProjectID:  cfg.Gateway.GCloudProjectID,
		LocationID: cfg.Gateway.GCloudLocationID,
		QueueID:    cfg.Gateway.GCloudQueueID,
		TargetURL:  cfg.Gateway.GCloudTargetURL,
		MaxRetries: cfg.Gateway.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("delivery gateway initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.Gateway.GCloudProjectID),
		slog.String("location", cfg.Gateway.GCloudLocationID),
		slog.String("queue", cfg.Gateway.GCloudQueueID),
	)

	cleanup := func() error {
		if err := cloudTasksGateway.Close(); err != nil {
			slog.Warn("failed to close cloud tasks gateway", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return cloudTasksGateway, cleanup, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "notification-triage"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("notification-triage"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
