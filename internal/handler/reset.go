package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/reset"
)

// Resetter wipes all application data.
type Resetter interface {
	Reset(ctx context.Context) error
}

// ResetHandler serves the data reset endpoint.
type ResetHandler struct {
	resetter Resetter
	logger   *slog.Logger
}

// NewResetHandler returns a ResetHandler.
func NewResetHandler(rs Resetter, logger *slog.Logger) *ResetHandler {
	return &ResetHandler{resetter: rs, logger: logger}
}

// Reset handles POST /api/reset
func (h *ResetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	err := h.resetter.Reset(r.Context())
	if errors.Is(err, reset.ErrInProgress) {
		writeError(w, http.StatusConflict, "reset already in progress")
		return
	}
	if err != nil {
		h.logger.Error("reset data", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
