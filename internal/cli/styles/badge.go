package styles

import (
	"strings"

	"github.com/bnema/buildsel/internal/application/port"
)

// Badge labels shown in build rows.
const (
	BadgeLabelActive  = "active"
	BadgeLabelPatched = "patched"
	BadgeLabelPending = "pending"
)

// BuildBadge renders a build status badge by label.
func (t *Theme) BuildBadge(label string) string {
	switch label {
	case BadgeLabelActive:
		return t.BadgeActive.Render(label)
	case BadgeLabelPatched:
		return t.BadgePatched.Render(label)
	case BadgeLabelPending:
		return t.BadgePending.Render(label)
	default:
		return t.BadgeMuted.Render(label)
	}
}

// BuildBadges renders badges separated by a space.
func (t *Theme) BuildBadges(labels []string) string {
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, t.BuildBadge(l))
	}
	return strings.Join(parts, " ")
}

// Channel renders a channel tag.
func (t *Theme) Channel(channel string) string {
	if channel == "" {
		return t.Subtle.Render("-")
	}
	return t.ChannelTag.Render(channel)
}

// ActionButton renders an action button, dimmed while disabled.
func (t *Theme) ActionButton(label string, disabled bool) string {
	if disabled {
		return t.ButtonDisabled.Render("[" + label + "]")
	}
	return t.Button.Render("[" + label + "]")
}

// NotificationColor returns the color used for a notification type.
func (t *Theme) NotificationColor(nt port.NotificationType) string {
	switch nt {
	case port.NotificationSuccess:
		return string(t.Success)
	case port.NotificationError:
		return string(t.Error)
	case port.NotificationWarning:
		return string(t.Warning)
	default:
		return string(t.Info)
	}
}

// NotificationIcon returns the icon used for a notification type.
func NotificationIcon(nt port.NotificationType) string {
	switch nt {
	case port.NotificationSuccess:
		return IconCheck
	case port.NotificationError:
		return IconX
	case port.NotificationWarning:
		return IconWarning
	default:
		return IconInfo
	}
}
