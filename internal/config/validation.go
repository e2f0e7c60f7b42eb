// Package config provides validation utilities for configuration values.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// validateConfig performs comprehensive validation of configuration values.
// Every problem is reported, not just the first one.
func validateConfig(config *Config) error {
	var validationErrors []string

	u, err := url.Parse(config.Server.BaseURL)
	switch {
	case config.Server.BaseURL == "":
		validationErrors = append(validationErrors, "server.base_url cannot be empty")
	case err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "":
		validationErrors = append(validationErrors, fmt.Sprintf("server.base_url must be an http(s) URL (got: %s)", config.Server.BaseURL))
	}
	if config.Server.Timeout <= 0 {
		validationErrors = append(validationErrors, "server.timeout must be positive")
	}

	if config.Polling.Interval <= 0 {
		validationErrors = append(validationErrors, "polling.interval must be positive")
	}
	if config.Polling.Timeout <= 0 {
		validationErrors = append(validationErrors, "polling.timeout must be positive")
	} else if config.Polling.Timeout < config.Polling.Interval {
		validationErrors = append(validationErrors, "polling.timeout must not be shorter than polling.interval")
	}
	if config.Polling.FetchCooldown < 0 {
		validationErrors = append(validationErrors, "polling.fetch_cooldown must be non-negative")
	}

	if config.Console.PageSize < 1 || config.Console.PageSize > 1000 {
		validationErrors = append(validationErrors, "console.page_size must be between 1 and 1000")
	}
	if config.Console.SearchDebounce < 0 {
		validationErrors = append(validationErrors, "console.search_debounce must be non-negative")
	}
	if config.Console.ToastDuration <= 0 {
		validationErrors = append(validationErrors, "console.toast_duration must be positive")
	}
	if config.Console.OpenDelay < 0 {
		validationErrors = append(validationErrors, "console.open_delay must be non-negative")
	}

	switch strings.ToLower(config.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format must be one of: console, json (got: %s)", config.Logging.Format))
	}
	if config.Logging.MaxSize < 0 || config.Logging.MaxBackups < 0 || config.Logging.MaxAge < 0 {
		validationErrors = append(validationErrors, "logging.max_size, logging.max_backups and logging.max_age must be non-negative")
	}

	if config.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(config.Metrics.ListenAddr); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("metrics.listen_addr must be host:port (got: %s)", config.Metrics.ListenAddr))
		}
	}

	switch config.Appearance.ColorScheme {
	case "auto", "dark", "light":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("appearance.color_scheme must be one of: auto, dark, light (got: %s)", config.Appearance.ColorScheme))
	}
	if strings.TrimSpace(config.Appearance.DateFormat) == "" {
		validationErrors = append(validationErrors, "appearance.date_format cannot be empty")
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}
