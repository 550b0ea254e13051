package handler

import (
	"log/slog"
	"net/http"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/model"
)

// AlarmController is the part of the alarm engine the HTTP API drives.
type AlarmController interface {
	Active() (model.Reminder, bool)
	Dismiss() (bool, error)
	Snooze() (bool, error)
}

// AlarmHandler exposes the ringing alarm over HTTP.
type AlarmHandler struct {
	alarm  AlarmController
	logger *slog.Logger
}

// NewAlarmHandler returns an AlarmHandler.
func NewAlarmHandler(ac AlarmController, logger *slog.Logger) *AlarmHandler {
	return &AlarmHandler{alarm: ac, logger: logger}
}

type alarmState struct {
	Ringing  bool            `json:"ringing"`
	Reminder *model.Reminder `json:"reminder,omitempty"`
}

// Get handles GET /api/alarm
func (h *AlarmHandler) Get(w http.ResponseWriter, r *http.Request) {
	rem, ok := h.alarm.Active()
	if !ok {
		writeJSON(w, http.StatusOK, alarmState{})
		return
	}
	writeJSON(w, http.StatusOK, alarmState{Ringing: true, Reminder: &rem})
}

// Dismiss handles POST /api/alarm/dismiss
func (h *AlarmHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, "dismissed", h.alarm.Dismiss)
}

// Snooze handles POST /api/alarm/snooze
func (h *AlarmHandler) Snooze(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, "snoozed", h.alarm.Snooze)
}

func (h *AlarmHandler) resolve(w http.ResponseWriter, status string, action func() (bool, error)) {
	ok, err := action()
	if !ok {
		writeError(w, http.StatusConflict, "no alarm is ringing")
		return
	}
	if err != nil {
		h.logger.Error("resolve alarm", "action", status, "error", err)
		writeError(w, http.StatusInternalServerError, "alarm stopped but could not be saved")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}
