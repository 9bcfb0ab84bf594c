package main

import (
	"log/slog"
	"os"

	"github.com/lumenwell/lumen-notification-triage/loadtest/internal/stub"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	failEveryN := stub.ParseFailEveryN(os.Getenv("FAIL_EVERY_N"))

	storage := stub.NewDeliveryStorage()
	handler := stub.NewHandler(storage, failEveryN)
	router := stub.Router(handler)

	slog.Info("starting stub server",
		slog.String("port", port),
		slog.Int64("fail_every_n", failEveryN),
	)

	if err := router.Run(":" + port); err != nil {
		slog.Error("stub server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
