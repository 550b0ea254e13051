package store

import (
	"encoding/json"
	"fmt"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/model"
)

// SettingsKey is the storage key holding the JSON settings record.
const SettingsKey = "app-settings"

// SettingsStore reads and writes the settings record.
type SettingsStore struct {
	kv KeyValue
}

// NewSettingsStore returns a SettingsStore backed by kv.
func NewSettingsStore(kv KeyValue) *SettingsStore {
	return &SettingsStore{kv: kv}
}

// Load returns the stored settings merged over the defaults. Fields absent
// from the stored record keep their default value.
func (s *SettingsStore) Load() (model.Settings, error) {
	settings := model.DefaultSettings()

	raw, ok, err := s.kv.Get(SettingsKey)
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}
	if !ok {
		return settings, nil
	}

	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return model.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// Settings is Load without the error: unreadable settings fall back to
// the defaults.
func (s *SettingsStore) Settings() model.Settings {
	settings, err := s.Load()
	if err != nil {
		return model.DefaultSettings()
	}
	return settings
}

// Update applies fn to the current settings and stores the result with no
// other write in between. Unreadable stored settings start from the
// defaults. An error from fn aborts the write and is returned as is.
func (s *SettingsStore) Update(fn func(*model.Settings) error) (model.Settings, error) {
	var result model.Settings
	var fnErr error
	err := s.kv.Update(SettingsKey, func(raw string, ok bool) (string, bool, error) {
		settings := model.DefaultSettings()
		if ok {
			if err := json.Unmarshal([]byte(raw), &settings); err != nil {
				settings = model.DefaultSettings()
			}
		}
		if fnErr = fn(&settings); fnErr != nil {
			return "", false, fnErr
		}
		data, err := json.Marshal(settings)
		if err != nil {
			return "", false, fmt.Errorf("encode settings: %w", err)
		}
		result = settings
		return string(data), true, nil
	})
	if fnErr != nil {
		return model.Settings{}, fnErr
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("write settings: %w", err)
	}
	return result, nil
}

// Save replaces the stored settings.
func (s *SettingsStore) Save(settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.kv.Set(SettingsKey, string(data)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
