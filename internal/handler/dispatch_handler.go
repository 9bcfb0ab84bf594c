package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenwell/lumen-notification-triage/internal/service/dispatch"
)

// DispatchHandler triggers a drain tick on demand, mainly for tests
// and operational replays. The at query parameter sets the virtual
// evaluation time.
type DispatchHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewDispatchHandler(dispatcher *dispatch.Dispatcher) *DispatchHandler {
	return &DispatchHandler{dispatcher: dispatcher}
}

func (h *DispatchHandler) HandleRun(c *gin.Context) {
	ctx := c.Request.Context()

	now, ok := virtualNow(c)
	if !ok {
		return
	}

	report, err := h.dispatcher.RunOnce(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "manual drain tick failed",
			slog.String("event", "handler.dispatch.fail"),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "dispatch_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, report)
}
