package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
	"github.com/lumenwell/lumen-notification-triage/internal/service/bundle"
	"github.com/lumenwell/lumen-notification-triage/internal/service/queue"
)

// QueueHandler exposes read and cancel access to per-user queue and
// bundle state.
type QueueHandler struct {
	queues  *queue.Manager
	bundler *bundle.Bundler
}

func NewQueueHandler(queues *queue.Manager, bundler *bundle.Bundler) *QueueHandler {
	return &QueueHandler{queues: queues, bundler: bundler}
}

type queueEntryResponse struct {
	ID             string `json:"id"`
	NotificationID string `json:"notification_id"`
	Title          string `json:"title"`
	Sender         string `json:"sender"`
	AppID          string `json:"app_id"`
	Priority       string `json:"priority"`
	Strategy       string `json:"strategy"`
	EnqueuedAt     string `json:"enqueued_at"`
	DeliverAfter   string `json:"deliver_after,omitempty"`
	PromotedAt     string `json:"promoted_at,omitempty"`
}

type bundleResponse struct {
	Key       string   `json:"key"`
	Strategy  string   `json:"strategy"`
	Group     string   `json:"group"`
	Size      int      `json:"size"`
	CreatedAt string   `json:"created_at"`
	ReadyAt   string   `json:"ready_at"`
	MemberIDs []string `json:"member_ids"`
}

func (h *QueueHandler) HandleQueueSnapshot(c *gin.Context) {
	userID := c.Param("user_id")

	now, ok := virtualNow(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			respondError(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	var entries []domain.QueueEntry
	var err error
	if limit > 0 {
		entries, err = h.queues.Peek(c.Request.Context(), userID, limit, now)
	} else {
		entries, err = h.queues.Snapshot(c.Request.Context(), userID, now)
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "queue_error", err.Error())
		return
	}

	responses := make([]queueEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, toQueueEntryResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "entries": responses})
}

func (h *QueueHandler) HandleQueueEntry(c *gin.Context) {
	userID := c.Param("user_id")
	entryID := c.Param("entry_id")

	now, ok := virtualNow(c)
	if !ok {
		return
	}

	entry, err := h.queues.Entry(c.Request.Context(), userID, entryID, now)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "queue entry not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "queue_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, toQueueEntryResponse(&entry))
}

func (h *QueueHandler) HandleCancel(c *gin.Context) {
	userID := c.Param("user_id")
	entryID := c.Param("entry_id")

	now, ok := virtualNow(c)
	if !ok {
		return
	}

	cancelled, err := h.queues.Cancel(c.Request.Context(), userID, entryID, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "queue_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}

func (h *QueueHandler) HandleBundles(c *gin.Context) {
	userID := c.Param("user_id")

	bundles, err := h.bundler.Pending(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "bundle_error", err.Error())
		return
	}

	responses := make([]bundleResponse, 0, len(bundles))
	for i := range bundles {
		responses = append(responses, toBundleResponse(&bundles[i]))
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "bundles": responses})
}

func (h *QueueHandler) HandleBundleByKey(c *gin.Context) {
	userID := c.Param("user_id")
	key := c.Param("key")

	found, err := h.bundler.Peek(c.Request.Context(), userID, key)
	if err != nil {
		if errors.Is(err, domain.ErrBundleNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "bundle not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "bundle_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, toBundleResponse(found))
}

func toQueueEntryResponse(e *domain.QueueEntry) queueEntryResponse {
	resp := queueEntryResponse{
		ID:             e.ID,
		NotificationID: e.Notification.ID,
		Title:          e.Notification.Title,
		Sender:         e.Notification.Sender,
		AppID:          e.Notification.AppID,
		Priority:       e.Priority.String(),
		Strategy:       e.Strategy.String(),
		EnqueuedAt:     formatRFC3339(e.EnqueuedAt),
	}
	if !e.DeliverAfter.IsZero() {
		resp.DeliverAfter = formatRFC3339(e.DeliverAfter)
	}
	if !e.PromotedAt.IsZero() {
		resp.PromotedAt = formatRFC3339(e.PromotedAt)
	}
	return resp
}

func toBundleResponse(b *domain.Bundle) bundleResponse {
	memberIDs := make([]string, 0, len(b.Members))
	for _, m := range b.Members {
		memberIDs = append(memberIDs, m.Notification.ID)
	}
	return bundleResponse{
		Key:       b.Key,
		Strategy:  b.Strategy.String(),
		Group:     b.Group,
		Size:      b.Size(),
		CreatedAt: formatRFC3339(b.CreatedAt),
		ReadyAt:   formatRFC3339(b.ReadyAt),
		MemberIDs: memberIDs,
	}
}
