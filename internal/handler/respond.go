package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Error: code, Message: message})
}

func formatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
