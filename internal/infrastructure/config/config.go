package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/shared/paths"
)

// Config holds all daemon configuration. Daemon-level options come from the
// environment; the engine settings come from the settings file.
type Config struct {
	Server    ServerConfig
	Bus       BusConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Watcher   WatcherConfig
	Settings  Settings `ignored:"true"`
}

// ServerConfig holds the status API listen address. Loopback by default;
// the API is an operator surface, not a public one.
type ServerConfig struct {
	Host string `envconfig:"LAUNCHER_HOST" default:"127.0.0.1"`
	Port string `envconfig:"LAUNCHER_PORT" default:"8576"`
}

// BusConfig holds the host message bus connection.
type BusConfig struct {
	URL     string `envconfig:"LAUNCHER_BUS_URL" default:"ws://127.0.0.1:8181/core"`
	Enabled bool   `envconfig:"LAUNCHER_BUS_ENABLED" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LAUNCHER_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LAUNCHER_LOG_DEV" default:"false"`
}

// RateLimitConfig holds status API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"LAUNCHER_RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"LAUNCHER_RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"LAUNCHER_RATE_LIMIT_ENABLED" default:"true"`
}

// WatcherConfig holds the manifest directory watcher configuration.
type WatcherConfig struct {
	Enabled    bool `envconfig:"LAUNCHER_WATCHER_ENABLED" default:"true"`
	DebounceMS int  `envconfig:"LAUNCHER_WATCHER_DEBOUNCE_MS" default:"2000"`
}

// Settings is the engine option surface, loaded from the settings file.
// Unknown keys are ignored; missing keys resolve to defaults.
type Settings struct {
	// Aliases maps a discovered application name to speech-friendly synonyms.
	Aliases map[string][]string `json:"aliases" yaml:"aliases" toml:"aliases"`

	// UserCommands maps an explicit name to a launch command. Highest
	// precedence on alias collisions.
	UserCommands map[string]string `json:"user_commands" yaml:"user_commands" toml:"user_commands"`

	// Blocklist holds manifest filenames or display names to skip.
	// Entries may be glob patterns.
	Blocklist []string `json:"blocklist" yaml:"blocklist" toml:"blocklist"`

	SkipCategories   []string `json:"skip_categories" yaml:"skip_categories" toml:"skip_categories"`
	TargetCategories []string `json:"target_categories" yaml:"target_categories" toml:"target_categories"`
	SkipKeywords     []string `json:"skip_keywords" yaml:"skip_keywords" toml:"skip_keywords"`
	TargetKeywords   []string `json:"target_keywords" yaml:"target_keywords" toml:"target_keywords"`

	RequireIcon       bool `json:"require_icon" yaml:"require_icon" toml:"require_icon"`
	RequireCategories bool `json:"require_categories" yaml:"require_categories" toml:"require_categories"`

	// Thresh is the alias acceptance threshold; matches scoring strictly
	// below it are treated as "no match".
	Thresh float64 `json:"thresh" yaml:"thresh" toml:"thresh"`

	// TerminateAll terminates every matching process instead of the most
	// recently launched one.
	TerminateAll bool `json:"terminate_all" yaml:"terminate_all" toml:"terminate_all"`

	// DisableWindowManager forces the process-level fallback even when the
	// platform window tool is present.
	DisableWindowManager bool `json:"disable_window_manager" yaml:"disable_window_manager" toml:"disable_window_manager"`

	// ExtraLangs lists BCP-47 tags whose localized manifest names are kept.
	ExtraLangs []string `json:"extra_langs" yaml:"extra_langs" toml:"extra_langs"`
}

// DefaultThresh is the default alias acceptance threshold.
const DefaultThresh = 0.85

// DefaultSettings returns engine settings with defaults applied.
func DefaultSettings() Settings {
	return Settings{
		// some applications can't be easily triggered by voice; map
		// alternative names for them here
		Aliases: map[string][]string{
			"kcalc": {"calculator"},
		},
		UserCommands: map[string]string{},
		Thresh:       DefaultThresh,
	}
}

// Load reads daemon options from the environment and engine settings from
// settingsPath. An empty settingsPath probes the standard locations; a
// missing file yields defaults rather than an error.
func Load(settingsPath string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return &cfg, nil
}

// LoadSettings reads the settings file, applying defaults for missing keys.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	if path == "" {
		for _, candidate := range paths.SettingsCandidates() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return settings, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &settings)
	case ".toml":
		err = toml.Unmarshal(data, &settings)
	case ".json":
		err = json.Unmarshal(data, &settings)
	default:
		err = fmt.Errorf("unsupported settings format %q", filepath.Ext(path))
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if settings.Thresh <= 0 || settings.Thresh > 1 {
		settings.Thresh = DefaultThresh
	}
	if settings.Aliases == nil {
		settings.Aliases = map[string][]string{}
	}
	if settings.UserCommands == nil {
		settings.UserCommands = map[string]string{}
	}
	return settings, nil
}
