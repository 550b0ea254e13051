package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

// DefaultConfig returns the built-in configuration values.
func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"port": 8080,
		},
		"database": map[string]interface{}{
			"path": "dailymate.db",
		},
		"log": map[string]interface{}{
			"level":  "info",
			"format": "text",
		},
		"alarm": map[string]interface{}{
			"poll_interval": "15s",
			"timezone":      "", // empty means the host's local zone
		},
		"push": map[string]interface{}{
			"vapid_public_key":  "",
			"vapid_private_key": "",
			"subscriber":        "",
		},
	}
}

// NewDefaultProvider returns a koanf provider serving DefaultConfig.
func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}
