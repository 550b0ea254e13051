package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/model"
	"github.com/habibpatelhabib78-png/dailymate-app/internal/store"
)

// invalidSettings is a client error found while applying an update.
type invalidSettings string

func (e invalidSettings) Error() string { return string(e) }

// SettingsHandler serves the settings API.
type SettingsHandler struct {
	settingsStore *store.SettingsStore
	logger        *slog.Logger
}

// NewSettingsHandler returns a SettingsHandler.
func NewSettingsHandler(ss *store.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, logger: logger}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settingsStore.Settings())
}

// Update handles PUT /api/settings. Fields missing from the body keep
// their current value.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch json.RawMessage
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	settings, err := h.settingsStore.Update(func(s *model.Settings) error {
		if err := json.Unmarshal(patch, s); err != nil {
			return invalidSettings("invalid JSON")
		}
		if msg := validateSettings(*s); msg != "" {
			return invalidSettings(msg)
		}
		return nil
	})
	var invalid invalidSettings
	if errors.As(err, &invalid) {
		writeError(w, http.StatusBadRequest, string(invalid))
		return
	}
	if err != nil {
		h.logger.Error("save settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func validateSettings(s model.Settings) string {
	switch s.Language {
	case model.LanguageEnglish, model.LanguageHindi:
	default:
		return "language must be English or Hindi"
	}
	if !s.DefaultAlarmSound.Valid() {
		return "defaultAlarmSound must be classic, zen, or digital"
	}
	if !model.ValidDuration(s.DefaultAlarmDuration) {
		return "defaultAlarmDuration must be 30, 60, 120, 300, or 0"
	}
	return ""
}
