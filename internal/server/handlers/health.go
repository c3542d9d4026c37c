package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/usersauth/pkg/api"
)

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger *slog.Logger
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
	}
}

// Ping обрабатывает GET /ping
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	sendMessage(w, h.logger, api.StatusSuccess, "pong!", http.StatusOK)
}
