package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix namespaces environment overrides. A double underscore separates
// nesting levels: QUICK_REMIND_STORAGE__BACKEND sets storage.backend.
const EnvPrefix = "QUICK_REMIND_"

type Config struct {
	Storage   StorageConfig   `koanf:"storage"`
	Log       LogConfig       `koanf:"log"`
	Hotkey    HotkeyConfig    `koanf:"hotkey"`
	QuickNote QuickNoteConfig `koanf:"quicknote"`
	Notify    NotifyConfig    `koanf:"notify"`
	UI        UIConfig        `koanf:"ui"`
}

type StorageConfig struct {
	Backend string `koanf:"backend"` // json or sqlite
	Path    string `koanf:"path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // console or json
}

// HotkeyConfig describes the global shortcut the desktop host registers to
// open the quick note prompt.
type HotkeyConfig struct {
	Win   bool   `koanf:"win"`
	Shift bool   `koanf:"shift"`
	Ctrl  bool   `koanf:"ctrl"`
	Alt   bool   `koanf:"alt"`
	Key   string `koanf:"key"`
}

type QuickNoteConfig struct {
	DefaultMinutes int `koanf:"default_minutes"`
	SnoozeMinutes  int `koanf:"snooze_minutes"`
}

type NotifyConfig struct {
	Console  bool           `koanf:"console"`
	Bell     bool           `koanf:"bell"`
	Telegram TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
	BaseURL  string `koanf:"base_url"`
}

// Enabled reports whether both the token and the chat are set.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type UIConfig struct {
	ColoredOutput bool `koanf:"colored_output"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = GetDefaultStatePath(cfg.Storage.Backend)
	}
	cfg.Storage.Path = expandPath(cfg.Storage.Path)

	return &cfg, nil
}

// envKey maps QUICK_REMIND_NOTIFY__TELEGRAM__CHAT_ID to notify.telegram.chat_id.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend: %s (supported: %s, %s)",
			c.Storage.Backend, BackendJSON, BackendSQLite)
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format: %s (supported: console, json)", c.Log.Format)
	}

	if c.QuickNote.DefaultMinutes <= 0 {
		return fmt.Errorf("quicknote.default_minutes must be positive")
	}

	if c.QuickNote.SnoozeMinutes <= 0 {
		return fmt.Errorf("quicknote.snooze_minutes must be positive")
	}

	if c.Hotkey.Key == "" {
		return fmt.Errorf("hotkey key is required")
	}

	tg := c.Notify.Telegram
	if (tg.BotToken == "") != (tg.ChatID == "") {
		return fmt.Errorf("telegram needs both bot_token and chat_id")
	}

	return nil
}

// DisplayString renders the hotkey as the tray tooltip shows it, e.g.
// "Win+Shift+L".
func (h HotkeyConfig) DisplayString() string {
	var parts []string
	if h.Win {
		parts = append(parts, "Win")
	}
	if h.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if h.Alt {
		parts = append(parts, "Alt")
	}
	if h.Shift {
		parts = append(parts, "Shift")
	}
	parts = append(parts, strings.ToUpper(h.Key))
	return strings.Join(parts, "+")
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
