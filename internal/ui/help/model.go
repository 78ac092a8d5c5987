package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/unread-tracker/internal/keys"
	"github.com/nhle/unread-tracker/internal/theme"
)

// Model is the help overlay: the full keymap plus a short reminder of
// how local unread tracking behaves.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	title := titleStyle.Render("Unread Tracker — Keys")

	intro := theme.HelpStyle.Render(
		"Items marked unread from their detail view (u) stay in the\n" +
			"inbox until you open them or mark them read, even after the\n" +
			"server considers them read.",
	)

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	keymap := m.help.View(m.keys)

	legend := theme.ParticipantStyle.Render("● unread") + "   " +
		theme.StateStyle("open").Render(theme.StateIcon("issue", "open")+" open") + "   " +
		theme.StateStyle("merged").Render(theme.StateIcon("pull-request", "merged")+" merged") + "   " +
		theme.StateStyle("draft").Render(theme.StateIcon("pull-request", "draft")+" draft")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		intro,
		"",
		keymap,
		"",
		legend,
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
