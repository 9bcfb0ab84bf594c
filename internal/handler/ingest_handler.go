package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
	"github.com/lumenwell/lumen-notification-triage/internal/service/triage"
)

const maxBatchSize = 100

// IngestHandler accepts notifications and runs them through triage.
// Both endpoints take an optional at query parameter carrying an
// RFC3339 virtual evaluation time, so load tests and backfills can
// replay traffic at any instant.
type IngestHandler struct {
	triageService *triage.Service
}

func NewIngestHandler(triageService *triage.Service) *IngestHandler {
	return &IngestHandler{triageService: triageService}
}

type notificationRequest struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	AppID       string `json:"app_id"`
	Sender      string `json:"sender"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Category    string `json:"category"`
	UrgencyHint string `json:"urgency_hint"`
	ReceivedAt  string `json:"received_at"`
}

type batchRequest struct {
	Notifications []notificationRequest `json:"notifications"`
}

func (h *IngestHandler) HandleIngest(c *gin.Context) {
	ctx := c.Request.Context()

	now, ok := virtualNow(c)
	if !ok {
		return
	}

	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "request body must be a JSON notification")
		return
	}

	n, err := req.toDomain()
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.triageService.Process(ctx, n, now)
	if err != nil {
		slog.ErrorContext(ctx, "triage failed",
			slog.String("event", "handler.ingest.fail"),
			slog.String("notification_id", n.ID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "triage_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *IngestHandler) HandleIngestBatch(c *gin.Context) {
	ctx := c.Request.Context()

	now, ok := virtualNow(c)
	if !ok {
		return
	}

	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "request body must be a JSON notification batch")
		return
	}
	if len(req.Notifications) == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "notifications must not be empty")
		return
	}
	if len(req.Notifications) > maxBatchSize {
		respondError(c, http.StatusBadRequest, "validation_error", "batch exceeds maximum size")
		return
	}

	notifications := make([]domain.Notification, 0, len(req.Notifications))
	for i := range req.Notifications {
		n, err := req.Notifications[i].toDomain()
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		notifications = append(notifications, n)
	}

	results, err := h.triageService.ProcessBatch(ctx, notifications, now)
	if err != nil {
		slog.WarnContext(ctx, "batch triage partially failed",
			slog.String("event", "handler.ingest.batch.partial"),
			slog.Int("count", len(notifications)),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (r *notificationRequest) toDomain() (domain.Notification, error) {
	n := domain.Notification{
		ID:       r.ID,
		UserID:   r.UserID,
		AppID:    r.AppID,
		Sender:   r.Sender,
		Title:    r.Title,
		Body:     r.Body,
		Category: r.Category,
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	if r.ReceivedAt != "" {
		createdAt, err := time.Parse(time.RFC3339, r.ReceivedAt)
		if err != nil {
			return domain.Notification{}, &domain.ValidationError{
				Field: "received_at", Reason: "must be an RFC3339 timestamp",
			}
		}
		n.CreatedAt = createdAt.UTC()
	} else {
		n.CreatedAt = time.Now().UTC()
	}

	if r.UrgencyHint != "" {
		n.UrgencyHint = domain.Urgency(r.UrgencyHint)
	}

	if err := n.Validate(); err != nil {
		return domain.Notification{}, err
	}
	n.Normalize()
	return n, nil
}

// virtualNow reads the optional at query parameter. A missing parameter
// means the wall clock; a malformed one answers the request with a 400.
func virtualNow(c *gin.Context) (time.Time, bool) {
	atStr := c.Query("at")
	if atStr == "" {
		return time.Now().UTC(), true
	}
	parsed, err := time.Parse(time.RFC3339, atStr)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid at time format, expected RFC3339")
		return time.Time{}, false
	}
	slog.InfoContext(c.Request.Context(), "using virtual time",
		slog.Time("virtual_now", parsed),
	)
	return parsed.UTC(), true
}
