package config

import (
	"os"
	"path/filepath"
)

const appName = "buildsel"

// XDGDirs holds the XDG Base Directory paths for the application.
type XDGDirs struct {
	ConfigHome string
	StateHome  string
}

// DevModeEnv points every directory at ./.dev/buildsel when set to "1",
// so a development build never touches the operator's real config.
const DevModeEnv = "BUILDSEL_DEV"

// xdgHome returns $env, or $HOME joined with fallback when it is unset.
func xdgHome(env string, fallback ...string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{homeDir}, fallback...)...), nil
}

// GetXDGDirs returns the buildsel directories:
// - $XDG_CONFIG_HOME/buildsel (default: ~/.config/buildsel)
// - $XDG_STATE_HOME/buildsel (default: ~/.local/state/buildsel)
func GetXDGDirs() (*XDGDirs, error) {
	if os.Getenv(DevModeEnv) == "1" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		devDir := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{ConfigHome: devDir, StateHome: devDir}, nil
	}

	configHome, err := xdgHome("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return nil, err
	}
	stateHome, err := xdgHome("XDG_STATE_HOME", ".local", "state")
	if err != nil {
		return nil, err
	}
	return &XDGDirs{
		ConfigHome: filepath.Join(configHome, appName),
		StateHome:  filepath.Join(stateHome, appName),
	}, nil
}

// GetConfigDir returns the XDG config directory for buildsel.
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetStateDir returns the XDG state directory for buildsel.
func GetStateDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.StateHome, nil
}

// GetLogDir returns the directory of the console log file and its backups.
func GetLogDir() (string, error) {
	stateDir, err := GetStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, "logs"), nil
}

// GetConfigFile returns the path to the main configuration file.
func GetConfigFile() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// EnsureDirectories creates the config and state directories.
func EnsureDirectories() error {
	dirs, err := GetXDGDirs()
	if err != nil {
		return err
	}

	for _, dir := range []string{dirs.ConfigHome, dirs.StateHome} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return err
		}
	}
	return nil
}

// GetManDir returns the per-user man page directory for section 1.
// It honors $XDG_DATA_HOME (default: ~/.local/share).
func GetManDir() (string, error) {
	dataHome, err := xdgHome("XDG_DATA_HOME", ".local", "share")
	if err != nil {
		return "", err
	}
	return filepath.Join(dataHome, "man", "man1"), nil
}
