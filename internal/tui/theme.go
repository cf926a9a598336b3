package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The board must remain readable on both light and dark terminal
// backgrounds, so everything routes through lipgloss.AdaptiveColor.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted    = ac("240", "243")
	colorAccent   = ac("27", "62")   // blue
	colorOverdue  = ac("124", "203") // red
	colorToday    = ac("28", "114")  // green
	colorHighPri  = ac("124", "203")
	colorLowPri   = ac("240", "245")
	colorDropHint = ac("94", "179")  // amber

	styleTitle = lipgloss.NewStyle().Bold(true)

	styleHeader        = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleHeaderToday   = lipgloss.NewStyle().Bold(true).Foreground(colorToday)
	styleHeaderOverdue = lipgloss.NewStyle().Bold(true).Foreground(colorOverdue)

	styleItem          = lipgloss.NewStyle()
	styleItemSelected  = lipgloss.NewStyle().Reverse(true)
	styleItemCompleted = lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)
	styleItemDragged   = lipgloss.NewStyle().Faint(true)

	// Highlight for the current drop candidate while dragging.
	styleDropTarget = lipgloss.NewStyle().Bold(true).Foreground(colorDropHint).Underline(true)

	styleCustomZone       = lipgloss.NewStyle().Foreground(colorMuted)
	styleCustomZoneActive = lipgloss.NewStyle().Bold(true).Foreground(colorDropHint)

	styleNotice = lipgloss.NewStyle().Bold(true).Foreground(colorOverdue)
	styleStatus = lipgloss.NewStyle().Foreground(colorMuted)

	styleIdeaMark = lipgloss.NewStyle().Foreground(colorAccent)
	stylePriHigh  = lipgloss.NewStyle().Foreground(colorHighPri)
	stylePriLow   = lipgloss.NewStyle().Foreground(colorLowPri)
)

// applyColorProfilePreference sets Lip Gloss's color profile for the
// interactive TUI. termenv.EnvColorProfile also honors CLICOLOR, which can
// accidentally disable colors in a TUI; here only NO_COLOR is honored and
// COLORTERM may upgrade an under-reporting detector.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	}
	lipgloss.SetColorProfile(profile)
}

func headerStyleFor(isToday, isOverdue bool) lipgloss.Style {
	switch {
	case isOverdue:
		return styleHeaderOverdue
	case isToday:
		return styleHeaderToday
	default:
		return styleHeader
	}
}
