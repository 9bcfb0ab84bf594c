//go:build gcloud

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CloudTasksGateway enqueues deliveries as Cloud Tasks targeting the
// push service. Task names derive from the notification or bundle key,
// so a retried enqueue of the same delivery is deduplicated by the
// queue.
type CloudTasksGateway struct {
	client     *cloudtasks.Client
	projectID  string
	locationID string
	queueID    string
	targetURL  string
	maxRetries int
}

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
}

func NewCloudTasksGateway(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksGateway, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &CloudTasksGateway{
		client:     client,
		projectID:  cfg.ProjectID,
		locationID: cfg.LocationID,
		queueID:    cfg.QueueID,
		targetURL:  cfg.TargetURL,
		maxRetries: maxRetries,
	}, nil
}

func (g *CloudTasksGateway) Close() error {
	return g.client.Close()
}

func (g *CloudTasksGateway) Deliver(ctx context.Context, delivery *Delivery) error {
	payload, err := json.Marshal(delivery)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery: %w", err)
	}

	queuePath := fmt.Sprintf("projects/%s/locations/%s/queues/%s",
		g.projectID, g.locationID, g.queueID)

	taskID := delivery.NotificationID
	if delivery.Kind == KindDigest {
		taskID = delivery.BundleKey
	}

	task := &taskspb.Task{
		Name: fmt.Sprintf("%s/tasks/%s", queuePath, taskID),
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        g.targetURL,
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
				Body: payload,
			},
		},
	}
	if !delivery.DecidedAt.IsZero() {
		task.ScheduleTime = timestamppb.New(delivery.DecidedAt)
	}

	req := &taskspb.CreateTaskRequest{
		Parent: queuePath,
		Task:   task,
	}

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.DebugContext(ctx, "retrying delivery task",
				slog.String("task_id", taskID),
				slog.String("user_id", delivery.UserID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		_, err := g.client.CreateTask(ctx, req)
		if err == nil {
			return nil
		}
		if status.Code(err) == codes.AlreadyExists {
			slog.DebugContext(ctx, "delivery task already exists",
				slog.String("task_id", taskID),
			)
			return nil
		}
		lastErr = err
	}

	slog.ErrorContext(ctx, "all retries exhausted for delivery task",
		slog.String("task_id", taskID),
		slog.String("user_id", delivery.UserID),
		slog.Int("max_retries", g.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to enqueue delivery task: %w", lastErr)
}
