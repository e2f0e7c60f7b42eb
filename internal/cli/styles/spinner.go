package styles

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// NewDefaultSpinner creates the spinner shown while builds load.
func NewDefaultSpinner(theme *Theme) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	ApplySpinnerTheme(&s, theme)
	return s
}

// ApplySpinnerTheme recolors a running spinner.
func ApplySpinnerTheme(s *spinner.Model, theme *Theme) {
	s.Style = lipgloss.NewStyle().Foreground(theme.Accent)
}

// RenderLoading renders the spinner frame followed by message.
func (t *Theme) RenderLoading(s spinner.Model, message string) string {
	return lipgloss.JoinHorizontal(lipgloss.Center, s.View(), " ", t.Subtle.Render(message))
}
