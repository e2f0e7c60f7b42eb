// Package config provides default configuration values for buildsel.
package config

import (
	"time"
)

// Default configuration constants
const (
	defaultBaseURL        = "http://localhost:8080"
	defaultRequestTimeout = 30 * time.Second

	defaultPollInterval  = 3 * time.Second
	defaultPollTimeout   = 300 * time.Second
	defaultFetchCooldown = 5 * time.Second

	defaultPageSize       = 50
	defaultSearchDebounce = 200 * time.Millisecond
	defaultToastDuration  = 4 * time.Second
	defaultOpenDelay      = 500 * time.Millisecond

	// Logging defaults
	defaultMaxLogSizeMB  = 10 // MB
	defaultMaxBackups    = 3  // backup files
	defaultMaxLogAgeDays = 7  // days

	defaultMetricsAddr = "127.0.0.1:9464"
	defaultDateFormat  = "2006-01-02"
)

// getDefaultLogDir returns the default log directory, falls back to empty string on error
func getDefaultLogDir() string {
	logDir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return logDir
}

// DefaultConfig returns the default configuration values for buildsel.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:    defaultBaseURL,
			Timeout:    defaultRequestTimeout,
			ClientPath: "/",
		},
		Polling: PollingConfig{
			Interval:      defaultPollInterval,
			Timeout:       defaultPollTimeout,
			FetchCooldown: defaultFetchCooldown,
		},
		Console: ConsoleConfig{
			PageSize:       defaultPageSize,
			SearchDebounce: defaultSearchDebounce,
			ToastDuration:  defaultToastDuration,
			OpenClient:     true,
			OpenDelay:      defaultOpenDelay,
		},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console",
			LogDir:        getDefaultLogDir(),
			EnableFileLog: true,
			MaxSize:       defaultMaxLogSizeMB,
			MaxBackups:    defaultMaxBackups,
			MaxAge:        defaultMaxLogAgeDays,
			Compress:      true,
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: defaultMetricsAddr,
		},
		Appearance: AppearanceConfig{
			ColorScheme: "auto",
			DateFormat:  defaultDateFormat,
		},
	}
}
