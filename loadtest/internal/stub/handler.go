package stub

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// Handler stubs both external dependencies of the triage service: the
// delivery gateway and the urgency scorer. Deliveries are stored for
// later assertion; scoring is a deterministic keyword check so load
// test outcomes are reproducible.
type Handler struct {
	storage *DeliveryStorage

	// failEveryN makes every Nth delivery fail with a 503 to exercise
	// the retry and requeue paths. Zero disables failure injection.
	failEveryN int64
	delivered  atomic.Int64
}

func NewHandler(storage *DeliveryStorage, failEveryN int64) *Handler {
	return &Handler{storage: storage, failEveryN: failEveryN}
}

// POST /deliver?run_id=...
func (h *Handler) HandleDeliver(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	var req DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n := h.delivered.Add(1)
	if h.failEveryN > 0 && n%h.failEveryN == 0 {
		slog.Debug("injected delivery failure",
			slog.String("run_id", runID),
			slog.String("notification_id", req.NotificationID),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "injected failure"})
		return
	}

	h.storage.Add(runID, req)

	slog.Debug("delivery received",
		slog.String("run_id", runID),
		slog.String("kind", req.Kind),
		slog.String("user_id", req.UserID),
		slog.String("notification_id", req.NotificationID),
		slog.String("bundle_key", req.BundleKey),
	)

	c.JSON(http.StatusOK, gin.H{"status": "delivered"})
}

// POST /score
func (h *Handler) HandleScore(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label := "normal"
	confidence := 0.7
	text := strings.ToLower(req.Text)
	for _, keyword := range []string{"urgent", "emergency", "asap", "critical"} {
		if strings.Contains(text, keyword) {
			label = "urgent"
			confidence = 0.95
			break
		}
	}

	c.JSON(http.StatusOK, ScoreResponse{Label: label, Confidence: confidence})
}

// GET /deliveries?run_id=...&user_id=...&kind=...
func (h *Handler) HandleGetDeliveries(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")
	userID := c.Query("user_id")
	kind := c.Query("kind")

	records := h.storage.List(runID, userID, kind)

	c.JSON(http.StatusOK, DeliveriesResponse{
		Deliveries: records,
		Count:      len(records),
	})
}

// POST /reset?run_id=...
func (h *Handler) HandleReset(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	h.storage.Reset(runID)
	h.delivered.Store(0)

	slog.Info("reset data", slog.String("run_id", runID))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"run_id": runID,
	})
}

// Router assembles the stub endpoints.
func Router(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/deliver", h.HandleDeliver)
	r.POST("/score", h.HandleScore)
	r.GET("/deliveries", h.HandleGetDeliveries)
	r.POST("/reset", h.HandleReset)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// ParseFailEveryN reads the failure injection setting from an
// environment-style string value.
func ParseFailEveryN(v string) int64 {
	if v == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
