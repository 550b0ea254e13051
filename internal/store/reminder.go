package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/model"
)

// RemindersKey is the storage key holding the JSON reminder list.
const RemindersKey = "reminders-list"

// ReminderStore keeps the reminder list as one JSON document. Every
// operation reads or replaces the whole list; changes made through Update,
// Add and Delete are atomic with respect to every other write.
type ReminderStore struct {
	kv KeyValue
}

// NewReminderStore returns a ReminderStore backed by kv.
func NewReminderStore(kv KeyValue) *ReminderStore {
	return &ReminderStore{kv: kv}
}

// List returns the stored reminders in stored order. A missing key is an
// empty list; a malformed document is an error.
func (s *ReminderStore) List() ([]model.Reminder, error) {
	raw, ok, err := s.kv.Get(RemindersKey)
	if err != nil {
		return nil, fmt.Errorf("read reminders: %w", err)
	}
	return decodeReminders(raw, ok)
}

// Save replaces the stored list.
func (s *ReminderStore) Save(reminders []model.Reminder) error {
	data, err := encodeReminders(reminders)
	if err != nil {
		return err
	}
	if err := s.kv.Set(RemindersKey, data); err != nil {
		return fmt.Errorf("write reminders: %w", err)
	}
	return nil
}

// Update passes the current list to fn and stores what it returns, with no
// other write in between. A nil result leaves storage untouched.
func (s *ReminderStore) Update(fn func([]model.Reminder) ([]model.Reminder, error)) error {
	err := s.kv.Update(RemindersKey, func(raw string, ok bool) (string, bool, error) {
		reminders, err := decodeReminders(raw, ok)
		if err != nil {
			return "", false, err
		}
		updated, err := fn(reminders)
		if err != nil || updated == nil {
			return "", false, err
		}
		data, err := encodeReminders(updated)
		if err != nil {
			return "", false, err
		}
		return data, true, nil
	})
	if err != nil {
		return fmt.Errorf("update reminders: %w", err)
	}
	return nil
}

// Get returns the reminder with the given id, or nil when there is none.
func (s *ReminderStore) Get(id string) (*model.Reminder, error) {
	reminders, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range reminders {
		if reminders[i].ID == id {
			return &reminders[i], nil
		}
	}
	return nil, nil
}

// Add assigns a new id to r and stores it at the head of the list.
func (s *ReminderStore) Add(r model.Reminder) (*model.Reminder, error) {
	r.ID = uuid.NewString()
	r.LastNotified = nil

	err := s.Update(func(reminders []model.Reminder) ([]model.Reminder, error) {
		updated := make([]model.Reminder, 0, len(reminders)+1)
		updated = append(updated, r)
		return append(updated, reminders...), nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes the reminder with the given id and reports whether it
// existed.
func (s *ReminderStore) Delete(id string) (bool, error) {
	found := false
	err := s.Update(func(reminders []model.Reminder) ([]model.Reminder, error) {
		kept := make([]model.Reminder, 0, len(reminders))
		for _, r := range reminders {
			if r.ID == id {
				found = true
				continue
			}
			kept = append(kept, r)
		}
		if !found {
			return nil, nil
		}
		return kept, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func decodeReminders(raw string, ok bool) ([]model.Reminder, error) {
	if !ok {
		return []model.Reminder{}, nil
	}
	var reminders []model.Reminder
	if err := json.Unmarshal([]byte(raw), &reminders); err != nil {
		return nil, fmt.Errorf("decode reminders: %w", err)
	}
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	return reminders, nil
}

func encodeReminders(reminders []model.Reminder) (string, error) {
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	data, err := json.Marshal(reminders)
	if err != nil {
		return "", fmt.Errorf("encode reminders: %w", err)
	}
	return string(data), nil
}
