package model

import (
	"fmt"
	"time"
)

// Layouts of the reminder date and time fields. Both are local wall-clock
// values with no zone attached.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Sound names one of the built-in alarm sounds.
type Sound string

const (
	SoundClassic Sound = "classic"
	SoundZen     Sound = "zen"
	SoundDigital Sound = "digital"
)

// Valid reports whether s is one of the known alarm sounds.
func (s Sound) Valid() bool {
	switch s {
	case SoundClassic, SoundZen, SoundDigital:
		return true
	}
	return false
}

// Repeat is the recurrence chosen for a reminder.
type Repeat string

const (
	RepeatNone   Repeat = "none"
	RepeatDaily  Repeat = "daily"
	RepeatWeekly Repeat = "weekly"
)

// Valid reports whether r is a known recurrence.
func (r Repeat) Valid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly:
		return true
	}
	return false
}

// DurationUntilStopped rings the alarm until the user dismisses or snoozes it.
const DurationUntilStopped = 0

// ValidDuration reports whether seconds is one of the offered ring times.
func ValidDuration(seconds int) bool {
	switch seconds {
	case 30, 60, 120, 300, DurationUntilStopped:
		return true
	}
	return false
}

// Reminder is one scheduled alarm as stored in the reminder list.
type Reminder struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Date         string     `json:"date"`
	Time         string     `json:"time"`
	Repeat       Repeat     `json:"repeat"`
	Sound        Sound      `json:"sound,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	LastNotified *time.Time `json:"lastNotified,omitempty"`
}

// Instant returns the trigger instant of the reminder in loc.
func (r Reminder) Instant(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, r.Date+" "+r.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse trigger instant: %w", err)
	}
	return t, nil
}

// DueAt reports whether the reminder has not fired yet and its trigger
// instant is the same calendar minute as now.
func (r Reminder) DueAt(now time.Time) bool {
	if r.LastNotified != nil {
		return false
	}
	return r.Date == now.Format(DateLayout) && r.Time == now.Format(ClockLayout)
}

// SoundOr returns the reminder's sound, or def when none was chosen.
func (r Reminder) SoundOr(def Sound) Sound {
	if r.Sound != "" {
		return r.Sound
	}
	return def
}

// DurationOr returns the reminder's ring time in seconds, or def when unset.
func (r Reminder) DurationOr(def int) int {
	if r.Duration != nil {
		return *r.Duration
	}
	return def
}

// ReminderStatus is the derived state shown in list views.
type ReminderStatus string

const (
	StatusScheduled ReminderStatus = "scheduled"
	StatusTriggered ReminderStatus = "triggered"
	StatusMissed    ReminderStatus = "missed"
)

// Status classifies the reminder relative to now for list views.
func (r Reminder) Status(now time.Time) ReminderStatus {
	if r.LastNotified != nil {
		return StatusTriggered
	}
	at, err := r.Instant(now.Location())
	if err == nil && at.Before(now) {
		return StatusMissed
	}
	return StatusScheduled
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
