package handlers

import (
	"log/slog"
	"net/http"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	CountTables int    `json:"countTables"`
}

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, MessageResponse{Message: "Hello, this the API for my blog."}, http.StatusOK)
}

// HealthHandler pings the database and reports how many tables the schema
// holds.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		slog.Error("database health check failed", "error", err)
		writeSuccess(w, HealthResponse{Status: "unavailable", Database: "down"}, http.StatusServiceUnavailable)
		return
	}

	count, err := h.TablesService.CountTables(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	writeSuccess(w, HealthResponse{Status: "ok", Database: "up", CountTables: count}, http.StatusOK)
}
