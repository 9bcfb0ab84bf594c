package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

// PreferencesHandler manages stored user preferences and the manual
// context override.
type PreferencesHandler struct {
	store domain.PreferenceStore
}

func NewPreferencesHandler(store domain.PreferenceStore) *PreferencesHandler {
	return &PreferencesHandler{store: store}
}

type contextWindowRequest struct {
	Activity string `json:"activity"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

type preferencesRequest struct {
	VIPSenders []string               `json:"vip_senders"`
	QuietStart string                 `json:"quiet_start"`
	QuietEnd   string                 `json:"quiet_end"`
	Timezone   string                 `json:"timezone"`
	Windows    []contextWindowRequest `json:"windows"`
}

type overrideRequest struct {
	Activity string `json:"activity"`
	Until    string `json:"until"`
}

type preferencesResponse struct {
	UserID     string                  `json:"user_id"`
	VIPSenders []string                `json:"vip_senders"`
	QuietStart string                  `json:"quiet_start,omitempty"`
	QuietEnd   string                  `json:"quiet_end,omitempty"`
	Timezone   string                  `json:"timezone,omitempty"`
	Windows    []domain.ContextWindow  `json:"windows,omitempty"`
	Override   *domain.ContextOverride `json:"override,omitempty"`
}

func (h *PreferencesHandler) HandleGet(c *gin.Context) {
	userID := c.Param("user_id")

	prefs, err := h.store.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrPreferencesNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "preferences not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "preferences_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, toPreferencesResponse(prefs))
}

func (h *PreferencesHandler) HandlePut(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "request body must be a JSON preferences document")
		return
	}

	prefs, err := req.toDomain(userID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	// Replacing preferences keeps any active override in place; the
	// override has its own endpoint and lifecycle.
	if existing, getErr := h.store.GetPreferences(ctx, userID); getErr == nil {
		prefs.Override = existing.Override
	}

	if err := h.store.PutPreferences(ctx, prefs); err != nil {
		respondError(c, http.StatusInternalServerError, "preferences_error", err.Error())
		return
	}

	slog.InfoContext(ctx, "preferences updated",
		slog.String("event", "handler.preferences.put"),
		slog.String("user_id", userID),
	)
	c.JSON(http.StatusOK, toPreferencesResponse(prefs))
}

// HandleOverride pins the user's activity until an expiry instant. An
// empty activity clears any existing override.
func (h *PreferencesHandler) HandleOverride(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "request body must be a JSON override")
		return
	}

	prefs, err := h.store.GetPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrPreferencesNotFound) {
			respondError(c, http.StatusInternalServerError, "preferences_error", err.Error())
			return
		}
		prefs = &domain.Preferences{UserID: userID}
	}

	if req.Activity == "" {
		prefs.Override = nil
	} else {
		activity, parseErr := domain.ParseActivity(req.Activity)
		if parseErr != nil {
			respondError(c, http.StatusBadRequest, "validation_error", parseErr.Error())
			return
		}
		until, parseErr := time.Parse(time.RFC3339, req.Until)
		if parseErr != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "until must be an RFC3339 timestamp")
			return
		}
		prefs.Override = &domain.ContextOverride{Activity: activity, Until: until.UTC()}
	}

	if err := h.store.PutPreferences(ctx, prefs); err != nil {
		respondError(c, http.StatusInternalServerError, "preferences_error", err.Error())
		return
	}

	slog.InfoContext(ctx, "context override updated",
		slog.String("event", "handler.override.put"),
		slog.String("user_id", userID),
		slog.String("activity", req.Activity),
	)
	c.JSON(http.StatusOK, toPreferencesResponse(prefs))
}

func (r *preferencesRequest) toDomain(userID string) (*domain.Preferences, error) {
	prefs := &domain.Preferences{
		UserID:     userID,
		VIPSenders: r.VIPSenders,
		QuietStart: r.QuietStart,
		QuietEnd:   r.QuietEnd,
		Timezone:   r.Timezone,
	}

	for _, w := range r.Windows {
		activity, err := domain.ParseActivity(w.Activity)
		if err != nil {
			return nil, err
		}
		prefs.Windows = append(prefs.Windows, domain.ContextWindow{
			Activity: activity,
			Start:    w.Start,
			End:      w.End,
		})
	}
	return prefs, nil
}

func toPreferencesResponse(prefs *domain.Preferences) preferencesResponse {
	vipSenders := prefs.VIPSenders
	if vipSenders == nil {
		vipSenders = []string{}
	}
	return preferencesResponse{
		UserID:     prefs.UserID,
		VIPSenders: vipSenders,
		QuietStart: prefs.QuietStart,
		QuietEnd:   prefs.QuietEnd,
		Timezone:   prefs.Timezone,
		Windows:    prefs.Windows,
		Override:   prefs.Override,
	}
}
