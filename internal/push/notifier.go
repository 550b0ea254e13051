package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/model"
)

// sendTimeout bounds one background fan-out of a ringing alarm.
const sendTimeout = 30 * time.Second

// Sender delivers one payload to one subscription.
type Sender interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload Payload) error
}

// Subscriptions is the registry of devices to notify.
type Subscriptions interface {
	List() ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
}

// AlarmNotifier pushes ringing alarms to every subscribed device so they
// reach users whose page is in the background.
type AlarmNotifier struct {
	sender Sender
	subs   Subscriptions
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewAlarmNotifier returns an AlarmNotifier.
func NewAlarmNotifier(sender Sender, subs Subscriptions, logger *slog.Logger) *AlarmNotifier {
	return &AlarmNotifier{sender: sender, subs: subs, logger: logger}
}

// AlarmRinging sends in the background; the engine holds its lock while
// notifying and must not wait on the network.
func (n *AlarmNotifier) AlarmRinging(r model.Reminder) {
	payload := AlarmPayload(r)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if _, err := n.SendAll(ctx, payload); err != nil {
			n.logger.Error("push alarm", "reminder", r.ID, "error", err)
		}
	}()
}

// AlarmCleared is a no-op: a delivered notification is replaced by the
// next one with the same tag.
func (n *AlarmNotifier) AlarmCleared(string) {}

// Wait blocks until background sends have finished.
func (n *AlarmNotifier) Wait() {
	n.wg.Wait()
}

// SendAll delivers payload to every subscription and returns how many
// accepted it. Expired subscriptions are removed. It stops early when ctx
// is done.
func (n *AlarmNotifier) SendAll(ctx context.Context, payload Payload) (int, error) {
	subs, err := n.subs.List()
	if err != nil {
		return 0, fmt.Errorf("list subscriptions: %w", err)
	}

	sent := 0
	for i := range subs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		sub := &subs[i]
		err := n.sender.Send(ctx, sub, payload)
		switch {
		case err == nil:
			sent++
		case errors.Is(err, ErrExpired):
			n.logger.Info("removing expired push subscription", "id", sub.ID)
			if err := n.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
				n.logger.Error("delete expired subscription", "id", sub.ID, "error", err)
			}
		default:
			n.logger.Warn("push send failed", "id", sub.ID, "error", err)
		}
	}
	return sent, nil
}

// AlarmPayload builds the notification shown for a ringing reminder.
func AlarmPayload(r model.Reminder) Payload {
	return Payload{
		Title: "Alarm",
		Body:  r.Title,
		URL:   "/reminders",
		Tag:   "reminder-" + r.ID,
	}
}
