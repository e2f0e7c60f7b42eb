package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfigRenderer renders config status messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// ConfigEntry is one key/value line of the config summary.
type ConfigEntry struct {
	Key   string
	Value string
}

// RenderConfigInfo renders the config file path and the effective settings.
func (r *ConfigRenderer) RenderConfigInfo(path string, entries []ConfigEntry) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	keyStyle := r.theme.Subtle
	valueStyle := lipgloss.NewStyle().Foreground(r.theme.Text)

	width := 0
	for _, e := range entries {
		if len(e.Key) > width {
			width = len(e.Key)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  %s Config %s\n\n", iconStyle.Render(IconConfig), r.theme.Subtle.Render(path))
	for _, e := range entries {
		fmt.Fprintf(&sb, "    %s  %s\n",
			keyStyle.Render(e.Key+strings.Repeat(" ", width-len(e.Key))),
			valueStyle.Render(e.Value),
		)
	}
	return sb.String()
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Config error: %v\n",
		iconStyle.Render(IconX),
		err,
	)
}

// RenderNoConfigFile renders message when config file doesn't exist yet.
func (r *ConfigRenderer) RenderNoConfigFile(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	return fmt.Sprintf(
		"\n  %s Config %s\n  %s\n",
		iconStyle.Render(IconConfig),
		r.theme.Subtle.Render(path),
		r.theme.Subtle.Render("Config file will be created on first run with all defaults."),
	)
}
