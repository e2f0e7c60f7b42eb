package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/buildsel/internal/application/port"
)

// RenderToast renders one notification line; fading toasts are dimmed.
func (t *Theme) RenderToast(message string, nt port.NotificationType, fading bool) string {
	icon := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.NotificationColor(nt))).
		Render(NotificationIcon(nt))

	style := t.Toast
	if fading {
		style = t.ToastFading
	}
	return style.Render(icon + " " + message)
}
