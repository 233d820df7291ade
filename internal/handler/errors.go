package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"blogapi/internal/apperror"
)

// WriteError renders err as {kind, message}. Infrastructure causes are
// logged and never sent to the client.
func WriteError(w http.ResponseWriter, err error) {
	appErr := apperror.From(err)
	if appErr.Internal() {
		slog.Error("request failed", "kind", appErr.Kind, "error", appErr.Err)
	}

	writeSuccess(w, apperror.ToResponse(appErr), apperror.HTTPStatus(appErr))
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("write response", "error", err)
	}
}
