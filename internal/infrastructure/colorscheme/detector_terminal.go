package colorscheme

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

const (
	detectorNameTerminal = "terminal"
	priorityTerminal     = 100
)

// TerminalDetector asks the terminal for its background color.
type TerminalDetector struct {
	isTerminal func() bool
	hasDarkBG  func() bool
}

// NewTerminalDetector creates a detector backed by lipgloss' background query.
func NewTerminalDetector() *TerminalDetector {
	return &TerminalDetector{
		isTerminal: stdoutIsTerminal,
		hasDarkBG:  lipgloss.HasDarkBackground,
	}
}

// Name implements port.ColorSchemeDetector.
func (*TerminalDetector) Name() string {
	return detectorNameTerminal
}

// Priority implements port.ColorSchemeDetector.
func (*TerminalDetector) Priority() int {
	return priorityTerminal
}

// Available implements port.ColorSchemeDetector.
// Querying a pipe would only report lipgloss' default.
func (d *TerminalDetector) Available() bool {
	return d.isTerminal()
}

// Detect implements port.ColorSchemeDetector.
func (d *TerminalDetector) Detect() (prefersDark, ok bool) {
	return d.hasDarkBG(), true
}

func stdoutIsTerminal() bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
