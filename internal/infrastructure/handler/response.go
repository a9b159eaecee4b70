package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, body any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeDetail renders a non-field error the way the console parses it.
func writeDetail(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int) {
	writeJSON(w, logger, map[string]string{"detail": message}, statusCode)
}

func writeFieldErrors(w http.ResponseWriter, logger *slog.Logger, fields map[string][]string) {
	writeJSON(w, logger, fields, http.StatusBadRequest)
}

// HealthCheck reports liveness; it is served outside /v1 and needs no token.
func HealthCheck(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		health := map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "devapi",
			"version":   "1.0.0",
		}
		writeJSON(w, logger, health, http.StatusOK)
	}
}

func notFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, logger, "Not found.", http.StatusNotFound)
	}
}

func methodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, logger, `Method "`+r.Method+`" not allowed.`, http.StatusMethodNotAllowed)
	}
}
