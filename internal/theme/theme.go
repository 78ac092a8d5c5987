package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// GroupHeaderStyle is used for repository group headings in the inbox.
var GroupHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	PaddingLeft(1)

// ListItemStyle is the base style for rows in the inbox list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused row.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// ReadItemStyle dims rows whose items are read.
var ReadItemStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// DetailPanelStyle wraps the item detail content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ParticipantStyle renders participant usernames next to a row.
var ParticipantStyle = lipgloss.NewStyle().
	Foreground(ColorMagenta)

// StateStyle returns a color-coded style for the given item state.
func StateStyle(state string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch state {
	case "open":
		return base.Foreground(ColorGreen)
	case "closed":
		return base.Foreground(ColorRed)
	case "merged":
		return base.Foreground(ColorMagenta)
	case "draft":
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorGray)
	}
}

// StateIcon returns the glyph drawn before a row for an item type and state.
func StateIcon(itemType, state string) string {
	if itemType == "pull-request" {
		switch state {
		case "merged":
			return "⇌"
		case "draft":
			return "◌"
		case "closed":
			return "⊝"
		default:
			return "⇄"
		}
	}
	if state == "closed" {
		return "⊘"
	}
	return "⊙"
}
