// Package config centralizes daemon configuration.
//
// Two layers:
//   - Daemon options (listen address, bus URL, logging, rate limits,
//     watcher) come from environment variables via envconfig.
//   - Engine settings (aliases, user commands, filters, thresholds) come
//     from a settings file in YAML, TOML, or JSON.
//
// Every option has an explicit default; an absent settings file is not an
// error.
package config
