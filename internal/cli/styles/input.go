package styles

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// searchCharLimit fits a full 40-character hash with room to spare.
const searchCharLimit = 64

// NewSearchInput creates the build hash search input.
func NewSearchInput(theme *Theme) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search by build hash..."
	ti.Prompt = "/ "
	ti.CharLimit = searchCharLimit
	ApplyInputTheme(&ti, theme)
	return ti
}

// ApplyInputTheme recolors the search input after a color scheme change.
func ApplyInputTheme(ti *textinput.Model, theme *Theme) {
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	ti.TextStyle = lipgloss.NewStyle().Foreground(theme.Text)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Accent)
}

// InputBox wraps the rendered input in a box, highlighted while it has focus.
func (t *Theme) InputBox(input string, focused bool) string {
	if focused {
		return t.InputFocused.Render(input)
	}
	return t.Input.Render(input)
}
