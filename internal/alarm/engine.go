package alarm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/model"
)

// ErrPlaybackBlocked is returned by a Player when audio cannot start until
// the user interacts with the page.
var ErrPlaybackBlocked = errors.New("audio playback blocked")

const snoozeMinutes = 5

// Reminders is the full-list storage the engine polls and updates. Update
// must run fn and store its non-nil result atomically with respect to
// other writers.
type Reminders interface {
	List() ([]model.Reminder, error)
	Update(fn func([]model.Reminder) ([]model.Reminder, error)) error
}

// SettingsSource supplies the alarm defaults and display language.
type SettingsSource interface {
	Settings() model.Settings
}

// Player plays the alarm sound on a loop until stopped.
type Player interface {
	Play(sound model.Sound) error
	Stop()
}

// Notifier is told when an alarm starts and stops ringing. Calls are made
// while the engine is locked, so implementations must not block or call
// back into the engine.
type Notifier interface {
	AlarmRinging(r model.Reminder)
	AlarmCleared(id string)
}

// Toaster shows short messages to the user.
type Toaster interface {
	Toast(msg string, kind model.ToastKind)
}

// ResetState reports whether a full data wipe is in progress.
type ResetState interface {
	Resetting() bool
}

// Notifiers fans a notification out to several notifiers in order.
type Notifiers []Notifier

// AlarmRinging forwards to every notifier.
func (ns Notifiers) AlarmRinging(r model.Reminder) {
	for _, n := range ns {
		n.AlarmRinging(r)
	}
}

// AlarmCleared forwards to every notifier.
func (ns Notifiers) AlarmCleared(id string) {
	for _, n := range ns {
		n.AlarmCleared(id)
	}
}

type nopToaster struct{}

func (nopToaster) Toast(string, model.ToastKind) {}

// Engine detects due reminders, keeps at most one alarm ringing and
// applies dismiss and snooze back to storage. All state transitions are
// serialized by mu.
type Engine struct {
	mu        sync.Mutex
	reminders Reminders
	settings  SettingsSource
	player    Player
	notifier  Notifier
	toaster   Toaster
	reset     ResetState
	clock     Clock
	loc       *time.Location
	interval  time.Duration
	logger    *slog.Logger
	poller    *poller

	active *model.Reminder
	timer  Timer
	// gen identifies the current ringing alarm so a stale auto-dismiss
	// timer cannot act on a later one.
	gen uint64
	// unsaved is a dismissed reminder whose stamp failed to persist. It
	// must not ring again for the same date and time.
	unsaved *model.Reminder
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the system clock, for tests.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLocation sets the zone used to read reminder dates and times.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithPollInterval sets how often storage is polled. Non-positive values keep the default.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithResetState suppresses triggering while rs reports a reset.
func WithResetState(rs ResetState) Option {
	return func(e *Engine) { e.reset = rs }
}

// WithToaster sets where toasts go. Without it toasts are dropped.
func WithToaster(t Toaster) Option {
	return func(e *Engine) { e.toaster = t }
}

// NewEngine builds an engine; call Start to begin polling.
func NewEngine(reminders Reminders, settings SettingsSource, player Player, notifier Notifier, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		reminders: reminders,
		settings:  settings,
		player:    player,
		notifier:  notifier,
		toaster:   nopToaster{},
		clock:     systemClock{},
		loc:       time.Local,
		interval:  DefaultPollInterval,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.poller = newPoller(e.interval, e.Tick)
	return e
}

// Start begins polling storage every poll interval.
func (e *Engine) Start(ctx context.Context) {
	e.poller.Start(ctx)
	e.logger.Info("alarm engine started", "interval", e.interval)
}

// Stop ends polling and silences a ringing alarm without resolving it.
func (e *Engine) Stop() {
	e.poller.Stop()
	e.Interrupt()
}

// Tick runs one polling check: the first pending reminder due this minute
// starts ringing. Unreadable storage skips the tick.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil || e.resetting() {
		return
	}

	reminders, err := e.reminders.List()
	if err != nil {
		e.logger.Debug("poll reminders", "error", err)
		return
	}

	now := e.now()
	for _, r := range reminders {
		if r.DueAt(now) && !e.dismissedUnsaved(r) {
			e.trigger(r)
			return
		}
	}
}

// Trigger starts ringing r. It reports false and does nothing when an
// alarm is already ringing or a reset is in progress.
func (e *Engine) Trigger(r model.Reminder) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trigger(r)
}

func (e *Engine) trigger(r model.Reminder) bool {
	if e.active != nil || e.resetting() {
		return false
	}

	e.active = &r
	e.gen++
	e.notifier.AlarmRinging(r)

	settings := e.settings.Settings()
	sound := r.SoundOr(settings.DefaultAlarmSound)
	if err := e.player.Play(sound); err != nil {
		e.logger.Warn("alarm playback failed", "reminder", r.ID, "error", err)
		e.toaster.Toast(msgAudioBlocked, model.ToastError)
	}

	if secs := r.DurationOr(settings.DefaultAlarmDuration); secs > 0 {
		gen := e.gen
		e.timer = e.clock.AfterFunc(time.Duration(secs)*time.Second, func() {
			e.expire(gen)
		})
	}

	e.logger.Info("alarm ringing", "reminder", r.ID, "title", r.Title, "sound", sound)
	return true
}

// Active returns the ringing reminder, if any.
func (e *Engine) Active() (model.Reminder, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return model.Reminder{}, false
	}
	return *e.active, true
}

// Dismiss resolves the ringing alarm and marks its reminder as notified.
// It reports false when nothing is ringing. A storage error is returned
// after the alarm has been cleared anyway.
func (e *Engine) Dismiss() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return false, nil
	}
	return true, e.dismiss()
}

func (e *Engine) dismiss() error {
	r := *e.active
	e.silence()

	stamp := e.clock.Now().UTC()
	err := e.update(r.ID, func(rem *model.Reminder) {
		rem.LastNotified = &stamp
	})
	e.clear(r.ID)
	if err != nil {
		e.unsaved = &r
		e.logger.Error("alarm dismissed but not saved", "reminder", r.ID, "error", err)
		return fmt.Errorf("dismiss alarm: %w", err)
	}
	e.logger.Info("alarm dismissed", "reminder", r.ID)
	return nil
}

// Snooze moves the ringing reminder five minutes past its scheduled
// instant and makes it pending again. It reports false when nothing is
// ringing.
func (e *Engine) Snooze() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return false, nil
	}

	r := *e.active
	e.silence()
	defer e.clear(r.ID)

	date, clock, err := SnoozeTime(r.Date, r.Time, e.loc)
	if err != nil {
		return true, fmt.Errorf("snooze alarm: %w", err)
	}

	err = e.update(r.ID, func(rem *model.Reminder) {
		rem.Date = date
		rem.Time = clock
		rem.LastNotified = nil
	})
	if err != nil {
		return true, fmt.Errorf("snooze alarm: %w", err)
	}

	e.toaster.Toast(snoozedMessage(e.settings.Settings().Language), model.ToastSuccess)
	e.logger.Info("alarm snoozed", "reminder", r.ID, "date", date, "time", clock)
	return true, nil
}

// Interrupt silences and forgets the ringing alarm without touching
// storage.
func (e *Engine) Interrupt() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return
	}
	id := e.active.ID
	e.silence()
	e.clear(id)
}

func (e *Engine) expire(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil || e.gen != gen {
		return
	}
	e.timer = nil
	if err := e.dismiss(); err != nil {
		e.logger.Error("auto-dismiss alarm", "error", err)
	}
}

// silence stops the sound and cancels the auto-dismiss timer.
func (e *Engine) silence() {
	e.player.Stop()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) clear(id string) {
	e.active = nil
	e.notifier.AlarmCleared(id)
}

// update applies fn to the stored reminder with the given id and writes the
// full list back. A reminder deleted while ringing is left alone.
func (e *Engine) update(id string, fn func(*model.Reminder)) error {
	return e.reminders.Update(func(reminders []model.Reminder) ([]model.Reminder, error) {
		found := false
		for i := range reminders {
			if reminders[i].ID == id {
				fn(&reminders[i])
				found = true
			}
		}
		if !found {
			return nil, nil
		}
		return reminders, nil
	})
}

func (e *Engine) dismissedUnsaved(r model.Reminder) bool {
	u := e.unsaved
	return u != nil && u.ID == r.ID && u.Date == r.Date && u.Time == r.Time
}

func (e *Engine) resetting() bool {
	return e.reset != nil && e.reset.Resetting()
}

func (e *Engine) now() time.Time {
	return e.clock.Now().In(e.loc)
}

// SnoozeTime returns the date and time five minutes after the given
// wall-clock instant, carrying into the next hour, day, month or year.
func SnoozeTime(date, clock string, loc *time.Location) (string, string, error) {
	at, err := model.Reminder{Date: date, Time: clock}.Instant(loc)
	if err != nil {
		return "", "", err
	}
	y, m, d := at.Date()
	hh, mm, _ := at.Clock()
	next := time.Date(y, m, d, hh, mm+snoozeMinutes, 0, 0, loc)
	return next.Format(model.DateLayout), next.Format(model.ClockLayout), nil
}
