package websocket

import (
	"sync"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/alarm"
	"github.com/habibpatelhabib78-png/dailymate-app/internal/model"
)

const (
	EntityAlarm      = "alarm"
	EntityAlarmSound = "alarm_sound"
	EntityToast      = "toast"
	EntityStorage    = "storage"
)

// Presenter relays alarm state to connected pages. It serves as the
// engine's Player, Notifier and Toaster, and remembers the ringing alarm
// so pages opened mid-alarm start ringing too.
type Presenter struct {
	hub *Hub

	mu      sync.Mutex
	ringing *model.Reminder
	sound   model.Sound
}

// NewPresenter returns a Presenter and installs its greeting on hub.
func NewPresenter(hub *Hub) *Presenter {
	p := &Presenter{hub: hub}
	hub.SetGreeter(p.greeting)
	return p
}

// Play asks every page to loop the sound. When no page accepted the
// message nothing can play it, which is reported as ErrPlaybackBlocked.
func (p *Presenter) Play(sound model.Sound) error {
	p.mu.Lock()
	p.sound = sound
	p.mu.Unlock()

	if p.hub.Broadcast(playMessage(sound)) == 0 {
		return alarm.ErrPlaybackBlocked
	}
	return nil
}

// Stop asks every page to stop the alarm sound.
func (p *Presenter) Stop() {
	p.mu.Lock()
	p.sound = ""
	p.mu.Unlock()

	p.hub.Broadcast(NewMessage(EntityAlarmSound, "stop", "", nil))
}

// AlarmRinging announces r as the ringing alarm.
func (p *Presenter) AlarmRinging(r model.Reminder) {
	p.mu.Lock()
	p.ringing = &r
	p.mu.Unlock()

	p.hub.Broadcast(ringingMessage(r))
}

// AlarmCleared announces that the alarm for id stopped.
func (p *Presenter) AlarmCleared(id string) {
	p.mu.Lock()
	if p.ringing != nil && p.ringing.ID == id {
		p.ringing = nil
	}
	p.mu.Unlock()

	p.hub.Broadcast(NewMessage(EntityAlarm, "cleared", id, nil))
}

// Toast shows msg on every page.
func (p *Presenter) Toast(msg string, kind model.ToastKind) {
	p.hub.Broadcast(NewMessage(EntityToast, string(kind), "", map[string]any{
		"msg": msg,
	}))
}

// StorageChanged tells pages that key was written. An empty key means the
// whole store was cleared.
func (p *Presenter) StorageChanged(key string) {
	p.hub.Broadcast(NewMessage(EntityStorage, "changed", "", map[string]any{
		"key": key,
	}))
}

// greeting replays the ringing alarm and its sound for a page that just
// connected.
func (p *Presenter) greeting() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	var msgs []Message
	if p.ringing != nil {
		msgs = append(msgs, ringingMessage(*p.ringing))
	}
	if p.sound != "" {
		msgs = append(msgs, playMessage(p.sound))
	}
	return msgs
}

func ringingMessage(r model.Reminder) Message {
	return NewMessage(EntityAlarm, "ringing", r.ID, map[string]any{"reminder": r})
}

func playMessage(sound model.Sound) Message {
	return NewMessage(EntityAlarmSound, "play", "", map[string]any{
		"sound": string(sound),
		"url":   alarm.SoundURL(sound),
		"loop":  true,
	})
}

var (
	_ alarm.Player   = (*Presenter)(nil)
	_ alarm.Notifier = (*Presenter)(nil)
	_ alarm.Toaster  = (*Presenter)(nil)
)
