package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// TabsModel represents a horizontal tab bar.
type TabsModel struct {
	Tabs   []string
	Active int
	theme  *Theme
}

// NewTabs creates a new tab bar with the given labels.
func NewTabs(theme *Theme, tabs ...string) TabsModel {
	return TabsModel{
		Tabs:  tabs,
		theme: theme,
	}
}

// FilterTabs creates the status filter tabs, in cycle order.
func FilterTabs(theme *Theme) TabsModel {
	return NewTabs(theme, "All", "Patched", "Pending")
}

// SetActive sets the active tab index.
func (m *TabsModel) SetActive(index int) {
	if index >= 0 && index < len(m.Tabs) {
		m.Active = index
	}
}

// SetTheme swaps the theme used for rendering.
func (m *TabsModel) SetTheme(theme *Theme) {
	m.theme = theme
}

// ViewWithCounts renders tabs with item counts.
func (m TabsModel) ViewWithCounts(counts []int) string {
	tabs := make([]string, 0, len(m.Tabs))

	for i, tab := range m.Tabs {
		label := tab
		if i < len(counts) {
			label = lipgloss.JoinHorizontal(
				lipgloss.Center,
				tab,
				" ",
				m.theme.BadgeMuted.Render(formatCount(counts[i])),
			)
		}

		style := m.theme.InactiveTab
		if i == m.Active {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(label))
	}

	gap := lipgloss.NewStyle().
		Foreground(m.theme.Border).
		Render(" ")

	return lipgloss.JoinHorizontal(lipgloss.Top, join(tabs, gap)...)
}

// join inserts a separator between items.
func join(items []string, sep string) []string {
	if len(items) == 0 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// formatCount formats a count for display.
func formatCount(n int) string {
	if n >= 1000 {
		return "999+"
	}
	return fmt.Sprintf("%d", n)
}
