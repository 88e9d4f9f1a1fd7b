package api

import (
	"net/http"

	"driver-dispatch-service/internal/api/handlers"
	"driver-dispatch-service/internal/engine"

	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root; handlers only ever see
// the engine through its Runner, never the concrete adapters.
func NewRouter(runner *engine.Runner, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Log: log}
	driverHandler := &handlers.DriverHandler{Runner: runner, Log: log}
	loadHandler := &handlers.LoadHandler{Runner: runner, Log: log}

	mux.HandleFunc("/health", healthHandler.Health)

	mux.HandleFunc("/drivers/statuses", driverHandler.Statuses)
	mux.HandleFunc("/drivers/available", driverHandler.Available)
	mux.HandleFunc("/drivers/returning", driverHandler.Returning)
	mux.HandleFunc("/drivers/status", driverHandler.Status)

	mux.HandleFunc("/loads/active", loadHandler.Active)
	mux.HandleFunc("/loads/unassigned", loadHandler.Unassigned)

	mux.HandleFunc("/assignments", loadHandler.Assign)
	mux.HandleFunc("/assignments/release", loadHandler.Release)

	mux.HandleFunc("/statistics", driverHandler.Statistics)
	mux.HandleFunc("/refresh", driverHandler.Refresh)

	return loggingMiddleware(log, mux)
}
