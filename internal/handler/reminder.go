package handler

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/model"
	"github.com/habibpatelhabib78-png/dailymate-app/internal/store"
)

var (
	dateFormatRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeFormatRegexp = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ReminderHandler serves the reminder API.
type ReminderHandler struct {
	reminders *store.ReminderStore
	settings  *store.SettingsStore
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

// NewReminderHandler returns a ReminderHandler reading times in loc.
func NewReminderHandler(rs *store.ReminderStore, ss *store.SettingsStore, loc *time.Location, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{reminders: rs, settings: ss, loc: loc, now: time.Now, logger: logger}
}

type reminderRequest struct {
	Title    string       `json:"title"`
	Date     string       `json:"date"`
	Time     string       `json:"time"`
	Repeat   model.Repeat `json:"repeat"`
	Sound    model.Sound  `json:"sound"`
	Duration *int         `json:"duration"`
}

// reminderView is a stored reminder plus its status for list screens.
type reminderView struct {
	model.Reminder
	Status model.ReminderStatus `json:"status"`
}

// List handles GET /api/reminders
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminders.List()
	if err != nil {
		h.logger.Error("list reminders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reminders")
		return
	}

	now := h.now().In(h.loc)
	views := make([]reminderView, 0, len(reminders))
	for _, rem := range reminders {
		views = append(views, reminderView{Reminder: rem, Status: rem.Status(now)})
	}
	writeJSON(w, http.StatusOK, views)
}

// Create handles POST /api/reminders
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	rem, msg := h.buildReminder(req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.reminders.Add(rem)
	if err != nil {
		h.logger.Error("create reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create reminder")
		return
	}

	h.logger.Info("reminder created", "id", created.ID, "date", created.Date, "time", created.Time)
	writeJSON(w, http.StatusCreated, created)
}

// buildReminder validates req and fills unset alarm options from the
// saved settings. A non-empty message describes the first invalid field.
func (h *ReminderHandler) buildReminder(req reminderRequest) (model.Reminder, string) {
	rem := model.Reminder{
		Title:    strings.TrimSpace(req.Title),
		Date:     strings.TrimSpace(req.Date),
		Time:     strings.TrimSpace(req.Time),
		Repeat:   req.Repeat,
		Sound:    req.Sound,
		Duration: req.Duration,
	}

	if rem.Title == "" {
		return rem, "title is required"
	}
	if !dateFormatRegexp.MatchString(rem.Date) {
		return rem, "date must be YYYY-MM-DD format"
	}
	if _, err := time.Parse(model.DateLayout, rem.Date); err != nil {
		return rem, "date is not a valid calendar date"
	}
	if !timeFormatRegexp.MatchString(rem.Time) {
		return rem, "time must be HH:MM format"
	}

	if rem.Repeat == "" {
		rem.Repeat = model.RepeatNone
	}
	if !rem.Repeat.Valid() {
		return rem, "repeat must be none, daily, or weekly"
	}

	defaults := h.settings.Settings()
	if rem.Sound == "" {
		rem.Sound = defaults.DefaultAlarmSound
	}
	if !rem.Sound.Valid() {
		return rem, "sound must be classic, zen, or digital"
	}
	if rem.Duration == nil {
		rem.Duration = model.IntPtr(defaults.DefaultAlarmDuration)
	}
	if !model.ValidDuration(*rem.Duration) {
		return rem, "duration must be 30, 60, 120, 300, or 0"
	}

	return rem, ""
}

// Get handles GET /api/reminders/{id}
func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	rem, err := h.reminders.Get(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get reminder")
		return
	}
	if rem == nil {
		writeError(w, http.StatusNotFound, "reminder not found")
		return
	}
	writeJSON(w, http.StatusOK, reminderView{Reminder: *rem, Status: rem.Status(h.now().In(h.loc))})
}

// Delete handles DELETE /api/reminders/{id}
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	found, err := h.reminders.Delete(id)
	if err != nil {
		h.logger.Error("delete reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete reminder")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "reminder not found")
		return
	}

	h.logger.Info("reminder deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
