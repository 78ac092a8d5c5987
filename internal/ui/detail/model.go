package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/unread-tracker/internal/keys"
	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/theme"
)

// BackMsg signals the parent to navigate back to the inbox.
type BackMsg struct{}

// SnapshotLoadedMsg carries the captured item snapshot.
type SnapshotLoadedMsg struct {
	Record *model.NotificationRecord
	Err    error
}

// MarkUnreadMsg asks the app to persist the displayed snapshot as an
// unread record.
type MarkUnreadMsg struct {
	Record model.NotificationRecord
}

// MarkedUnreadMsg reports the outcome of a mark-unread request. On
// success the control disables itself; on failure the item stays
// markable and the error is shown.
type MarkedUnreadMsg struct {
	Err error
}

// Model is the item detail view component.
type Model struct {
	record   *model.NotificationRecord
	viewport viewport.Model
	keys     *keys.KeyMap

	loading bool
	loadErr error

	// marked disables the mark-unread control after a successful
	// transition; pending guards against double submission.
	marked  bool
	pending bool
	markErr error

	width  int
	height int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotLoadedMsg:
		m.loading = false
		m.loadErr = msg.Err
		m.record = msg.Record
		m.marked = false
		m.pending = false
		m.markErr = nil
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case MarkedUnreadMsg:
		m.pending = false
		m.markErr = msg.Err
		if msg.Err == nil {
			m.marked = true
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.MarkUnread):
			if m.record == nil || m.marked || m.pending {
				return m, nil
			}
			m.pending = true
			rec := *m.record
			return m, func() tea.Msg {
				return MarkUnreadMsg{Record: rec}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return m.centered("Loading item...")
	}
	if m.loadErr != nil {
		return m.centered(fmt.Sprintf("Could not load item:\n%v", m.loadErr))
	}
	if m.record == nil {
		return m.centered("No item selected")
	}
	return m.viewport.View()
}

func (m Model) centered(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.record == nil {
		return ""
	}

	rec := m.record
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(rec.Title))

	stateBadge := theme.StateStyle(string(rec.State)).Render(
		theme.StateIcon(string(rec.Type), string(rec.State)) +
			" " + string(rec.State),
	)
	sections = append(sections, stateBadge)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Repository:"),
		valStyle.Render(rec.RepoFullName),
	))
	if rec.DateTitle != "" {
		sections = append(sections, fmt.Sprintf(
			"%s     %s",
			metaStyle.Render("Updated:"),
			valStyle.Render(rec.DateTitle),
		))
	}
	sections = append(sections, fmt.Sprintf(
		"%s         %s",
		metaStyle.Render("URL:"),
		valStyle.Render(rec.URL),
	))

	if len(rec.Participants) > 0 {
		names := make([]string, len(rec.Participants))
		for i, p := range rec.Participants {
			names[i] = "@" + p.Username
		}
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			metaStyle.Render("Participants:"),
			valStyle.Render(strings.Join(names, " ")),
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")
	sections = append(sections, m.renderMarkControl())

	if m.markErr != nil {
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Render(fmt.Sprintf("Mark as unread failed: %v", m.markErr)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMarkControl renders the mark-as-unread action line. Once the
// item has been marked the control is disabled and relabeled.
func (m Model) renderMarkControl() string {
	if m.marked {
		return lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("✓ Marked as unread")
	}
	if m.pending {
		return lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("Marking as unread...")
	}
	return lipgloss.NewStyle().
		Foreground(theme.ColorBlue).
		Render("[u] Mark as unread")
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
