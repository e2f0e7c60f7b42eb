package colorscheme

import (
	"github.com/bnema/buildsel/internal/config"
)

// ConfigAdapter reads the color scheme from the live configuration,
// so a reload followed by Refresh picks up the new setting.
type ConfigAdapter struct {
	mgr *config.Manager
}

// NewConfigAdapter creates a new config adapter.
func NewConfigAdapter(mgr *config.Manager) *ConfigAdapter {
	return &ConfigAdapter{mgr: mgr}
}

// GetColorScheme implements ConfigProvider.
func (a *ConfigAdapter) GetColorScheme() string {
	if a == nil || a.mgr == nil {
		return ""
	}
	return a.mgr.Get().Appearance.ColorScheme
}

// StaticScheme is a fixed ConfigProvider.
type StaticScheme string

// GetColorScheme implements ConfigProvider.
func (s StaticScheme) GetColorScheme() string {
	return string(s)
}
