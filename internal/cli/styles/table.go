package styles

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)
	ApplyTableTheme(&t, theme)
	return t
}

// ApplyTableTheme restyles an existing table, e.g. after the color scheme changed.
func ApplyTableTheme(t *table.Model, theme *Theme) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.Text).
		Background(theme.SurfaceVariant).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
}

// BuildTableColumns returns columns for the build list.
func BuildTableColumns() []table.Column {
	return []table.Column{
		{Title: "Build", Width: 16},
		{Title: "Channel", Width: 10},
		{Title: "Date", Width: 17},
		{Title: "Status", Width: 18},
		{Title: "Actions", Width: 28},
	}
}
