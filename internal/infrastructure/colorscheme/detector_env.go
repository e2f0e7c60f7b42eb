package colorscheme

import (
	"os"
	"strconv"
	"strings"
)

const (
	detectorNameEnv = "env"
	priorityEnv     = 20
)

// EnvDetector detects the color scheme from COLORFGBG or GTK_THEME.
type EnvDetector struct {
	getenv func(string) string
}

// NewEnvDetector creates a new environment variable-based detector.
func NewEnvDetector() *EnvDetector {
	return &EnvDetector{getenv: os.Getenv}
}

// Name implements port.ColorSchemeDetector.
func (*EnvDetector) Name() string {
	return detectorNameEnv
}

// Priority implements port.ColorSchemeDetector.
func (*EnvDetector) Priority() int {
	return priorityEnv
}

// Available implements port.ColorSchemeDetector.
func (d *EnvDetector) Available() bool {
	return d.getenv("COLORFGBG") != "" || d.getenv("GTK_THEME") != ""
}

// Detect implements port.ColorSchemeDetector.
// COLORFGBG is "fg;bg" (sometimes "fg;default;bg"); ANSI backgrounds 0-6 and 8 are dark.
func (d *EnvDetector) Detect() (prefersDark, ok bool) {
	if v := d.getenv("COLORFGBG"); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			return bg < 7 || bg == 8, true
		}
	}

	if theme := d.getenv("GTK_THEME"); theme != "" {
		return strings.Contains(strings.ToLower(theme), "dark"), true
	}
	return false, false
}
