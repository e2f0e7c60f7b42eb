// Package config provides configuration management for buildsel with Viper integration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// File permission constants
const (
	dirPerm  = 0o755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0o644 // Standard file permissions (rw-r--r--)
)

// EnvPrefix prefixes every environment override, e.g. BUILDSEL_SERVER_BASE_URL.
const EnvPrefix = "BUILDSEL"

// Config represents the complete configuration for buildsel.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" json:"server"`
	Polling    PollingConfig    `mapstructure:"polling" json:"polling"`
	Console    ConsoleConfig    `mapstructure:"console" json:"console"`
	Logging    LoggingConfig    `mapstructure:"logging" json:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics" json:"metrics"`
	Appearance AppearanceConfig `mapstructure:"appearance" json:"appearance"`
}

// ServerConfig locates the build server.
type ServerConfig struct {
	// BaseURL is the server root, e.g. http://localhost:8080.
	BaseURL string `mapstructure:"base_url" json:"base_url" jsonschema:"format=uri"`
	// Timeout bounds every API request.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" jsonschema:"type=string"`
	// ClientPath is the path of the client view opened after activation.
	ClientPath string `mapstructure:"client_path" json:"client_path"`
}

// PollingConfig holds reconciliation timings.
type PollingConfig struct {
	Interval      time.Duration `mapstructure:"interval" json:"interval" jsonschema:"type=string"`
	Timeout       time.Duration `mapstructure:"timeout" json:"timeout" jsonschema:"type=string"`
	FetchCooldown time.Duration `mapstructure:"fetch_cooldown" json:"fetch_cooldown" jsonschema:"type=string"`
}

// ConsoleConfig holds interactive console behavior.
type ConsoleConfig struct {
	PageSize       int           `mapstructure:"page_size" json:"page_size" jsonschema:"minimum=1"`
	SearchDebounce time.Duration `mapstructure:"search_debounce" json:"search_debounce" jsonschema:"type=string"`
	ToastDuration  time.Duration `mapstructure:"toast_duration" json:"toast_duration" jsonschema:"type=string"`
	// OpenClient opens the client view in the desktop browser after activation.
	OpenClient bool          `mapstructure:"open_client" json:"open_client"`
	OpenDelay  time.Duration `mapstructure:"open_delay" json:"open_delay" jsonschema:"type=string"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" json:"format" jsonschema:"enum=console,enum=json"`

	// File output configuration
	LogDir        string `mapstructure:"log_dir" json:"log_dir"`
	EnableFileLog bool   `mapstructure:"enable_file_log" json:"enable_file_log"`
	MaxSize       int    `mapstructure:"max_size" json:"max_size"`
	MaxBackups    int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAge        int    `mapstructure:"max_age" json:"max_age"`
	Compress      bool   `mapstructure:"compress" json:"compress"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled" json:"enabled"`
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
}

// AppearanceConfig holds console rendering preferences.
type AppearanceConfig struct {
	// ColorScheme is "auto", "dark" or "light".
	ColorScheme string `mapstructure:"color_scheme" json:"color_scheme" jsonschema:"enum=auto,enum=dark,enum=light"`
	// DateFormat is a Go time layout used for build dates.
	DateFormat string `mapstructure:"date_format" json:"date_format"`
}

// ClientURL joins the server base URL and the client path.
func (c *Config) ClientURL() string {
	base := strings.TrimRight(c.Server.BaseURL, "/")
	path := c.Server.ClientPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
// A .env file in the working directory is loaded first; it never overrides
// variables already set in the environment.
func NewManager() (*Manager, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A missing config file is created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := m.createDefaultConfig(); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	}

	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

// decode unmarshals and validates the current viper state.
func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.Logging.LogDir == "" {
		config.Logging.LogDir = getDefaultLogDir()
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// Watch starts watching the config file for changes and reloads automatically.
// An invalid edit keeps the previous configuration.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to reload config: %v\n", err)
			return
		}

		m.mu.RLock()
		config := *m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			c := config
			callback(&c)
		}
	})
	m.viper.WatchConfig()

	m.watching = true
	return nil
}

// OnConfigChange registers a callback function to be called when config changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

func (m *Manager) reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}
	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

// setDefaults sets default configuration values in Viper.
// Durations are given as strings so the written file stays readable.
func (m *Manager) setDefaults() {
	d := DefaultConfig()

	m.viper.SetDefault("server.base_url", d.Server.BaseURL)
	m.viper.SetDefault("server.timeout", d.Server.Timeout.String())
	m.viper.SetDefault("server.client_path", d.Server.ClientPath)

	m.viper.SetDefault("polling.interval", d.Polling.Interval.String())
	m.viper.SetDefault("polling.timeout", d.Polling.Timeout.String())
	m.viper.SetDefault("polling.fetch_cooldown", d.Polling.FetchCooldown.String())

	m.viper.SetDefault("console.page_size", d.Console.PageSize)
	m.viper.SetDefault("console.search_debounce", d.Console.SearchDebounce.String())
	m.viper.SetDefault("console.toast_duration", d.Console.ToastDuration.String())
	m.viper.SetDefault("console.open_client", d.Console.OpenClient)
	m.viper.SetDefault("console.open_delay", d.Console.OpenDelay.String())

	m.viper.SetDefault("logging.level", d.Logging.Level)
	m.viper.SetDefault("logging.format", d.Logging.Format)
	m.viper.SetDefault("logging.log_dir", d.Logging.LogDir)
	m.viper.SetDefault("logging.enable_file_log", d.Logging.EnableFileLog)
	m.viper.SetDefault("logging.max_size", d.Logging.MaxSize)
	m.viper.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age", d.Logging.MaxAge)
	m.viper.SetDefault("logging.compress", d.Logging.Compress)

	m.viper.SetDefault("metrics.enabled", d.Metrics.Enabled)
	m.viper.SetDefault("metrics.listen_addr", d.Metrics.ListenAddr)

	m.viper.SetDefault("appearance.color_scheme", d.Appearance.ColorScheme)
	m.viper.SetDefault("appearance.date_format", d.Appearance.DateFormat)
}

// createDefaultConfig writes the defaults to the config file, with its JSON schema next to it.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := GenerateSchemaFile(); err != nil {
		return err
	}
	m.viper.SetConfigFile(configFile)
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}
