package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"storage": map[string]interface{}{
			"backend": BackendJSON,
			"path":    "", // empty means GetDefaultStatePath(backend)
		},
		"log": map[string]interface{}{
			"level":  "info",
			"format": "console",
		},
		// Win+Shift+L opens the quick note prompt.
		"hotkey": map[string]interface{}{
			"win":   true,
			"shift": true,
			"ctrl":  false,
			"alt":   false,
			"key":   "L",
		},
		"quicknote": map[string]interface{}{
			"default_minutes": 5,
			"snooze_minutes":  10,
		},
		"notify": map[string]interface{}{
			"console": true,
			"bell":    true,
			"telegram": map[string]interface{}{
				"bot_token": "",
				"chat_id":   "",
				"base_url":  "https://api.telegram.org",
			},
		},
		"ui": map[string]interface{}{
			"colored_output": true,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.quick-remind/config.yaml"
}

// GetDefaultStatePath returns where the reminder set lives for a backend.
func GetDefaultStatePath(backend string) string {
	if backend == BackendSQLite {
		return "~/.quick-remind/reminders.db"
	}
	return "~/.quick-remind/reminders.json"
}
