package inbox

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/unread-tracker/internal/indicator"
	"github.com/nhle/unread-tracker/internal/keys"
	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/theme"
)

// Mode identifies the inbox interaction mode.
type Mode int

const (
	ModeList       Mode = iota // Normal row navigation
	ModeConfirmAll             // Confirm mark-all-as-read
)

// SelectedItemMsg is sent when the user opens a notification row.
type SelectedItemMsg struct {
	URL  string
	Repo string
}

// FilterChangedMsg is sent when the user switches the inbox filter.
type FilterChangedMsg struct {
	Page model.PageContext
}

// MarkReadMsg asks the app to mark specific URLs as read.
type MarkReadMsg struct {
	URLs []string
}

// MarkRepoReadMsg asks the app to clear every visible row of one repository.
type MarkRepoReadMsg struct {
	Repo string
}

// MarkAllReadMsg asks the app to clear every visible row.
type MarkAllReadMsg struct{}

// RefreshMsg asks the app to reload the inbox from the server.
type RefreshMsg struct{}

// Model is the inbox view component: a grouped notification list with
// a cursor over the flattened rows.
type Model struct {
	list   *List
	page   model.PageContext
	keys   *keys.KeyMap
	cursor int
	mode   Mode

	confirmAll *huh.Form
	allConfirm bool

	statusMsg string

	width  int
	height int
}

// New creates a new inbox model over the given list.
func New(l *List, k *keys.KeyMap, width, height int) Model {
	return Model{
		list:   l,
		page:   model.InboxAll(),
		keys:   k,
		width:  width,
		height: height,
	}
}

// Page returns the current page context driving the merge pass.
func (m Model) Page() model.PageContext {
	return m.page
}

// SetStatus sets a transient status line shown under the counts row.
func (m *Model) SetStatus(msg string) {
	m.statusMsg = msg
}

// ClampCursor keeps the cursor valid after the row set changed.
func (m *Model) ClampCursor() {
	n := len(m.list.FlatRows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeConfirmAll {
			return m.updateConfirmAll(msg)
		}
		return m.handleListKeys(msg)
	}

	if m.mode == ModeConfirmAll {
		return m.updateConfirmAll(msg)
	}
	return m, nil
}

// handleListKeys processes key events in normal navigation mode.
func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	rows := m.list.FlatRows()

	switch {
	case key.Matches(msg, m.keys.Down):
		if len(rows) > 0 {
			m.cursor = (m.cursor + 1) % len(rows)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(rows) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(rows) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.cursor >= len(rows) {
			return m, nil
		}
		row := rows[m.cursor]
		m.list.Visit(row.URL)
		return m, func() tea.Msg {
			return SelectedItemMsg{URL: row.URL, Repo: row.RepoFullName}
		}

	case key.Matches(msg, m.keys.MarkRead):
		if m.cursor >= len(rows) {
			return m, nil
		}
		url := rows[m.cursor].URL
		return m, func() tea.Msg {
			return MarkReadMsg{URLs: []string{url}}
		}

	case key.Matches(msg, m.keys.MarkRepoRead):
		if m.cursor >= len(rows) {
			return m, nil
		}
		repo := rows[m.cursor].RepoFullName
		return m, func() tea.Msg {
			return MarkRepoReadMsg{Repo: repo}
		}

	case key.Matches(msg, m.keys.MarkAllRead):
		if len(rows) == 0 {
			return m, nil
		}
		m.allConfirm = false
		m.confirmAll = m.buildConfirmAllForm()
		m.mode = ModeConfirmAll
		return m, m.confirmAll.Init()

	case key.Matches(msg, m.keys.FilterAll):
		m.page = model.InboxAll()
		return m, m.filterChanged()

	case key.Matches(msg, m.keys.FilterParticipating):
		m.page = model.InboxParticipating()
		return m, m.filterChanged()

	case key.Matches(msg, m.keys.FilterRepo):
		if m.cursor >= len(rows) {
			return m, nil
		}
		m.page = model.InboxRepo(rows[m.cursor].RepoFullName)
		return m, m.filterChanged()

	case key.Matches(msg, m.keys.Refresh):
		return m, func() tea.Msg { return RefreshMsg{} }
	}

	return m, nil
}

func (m Model) filterChanged() tea.Cmd {
	page := m.page
	return func() tea.Msg {
		return FilterChangedMsg{Page: page}
	}
}

func (m *Model) buildConfirmAllForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Mark all notifications as read?").
				Description(
					"This clears every visible row, including items " +
						"you marked unread yourself.",
				).
				Affirmative("Yes, clear all").
				Negative("Cancel").
				Value(&m.allConfirm),
		),
	).WithWidth(m.width - 4)
}

func (m Model) updateConfirmAll(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmAll == nil {
		m.mode = ModeList
		return m, nil
	}

	mdl, cmd := m.confirmAll.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmAll = f
	}

	if m.confirmAll.State == huh.StateCompleted {
		m.mode = ModeList
		if m.allConfirm {
			return m, func() tea.Msg { return MarkAllReadMsg{} }
		}
		return m, nil
	}
	if m.confirmAll.State == huh.StateAborted {
		m.mode = ModeList
		return m, nil
	}

	return m, cmd
}

// View renders the grouped notification list.
func (m Model) View() string {
	if m.mode == ModeConfirmAll && m.confirmAll != nil {
		return m.confirmAll.View()
	}

	var b strings.Builder
	b.WriteString(m.renderCounts())
	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(theme.StatusBarStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	rows := m.list.FlatRows()
	if len(rows) == 0 {
		return b.String() + m.renderEmptyState()
	}

	idx := 0
	for _, g := range m.list.Groups() {
		b.WriteString(theme.GroupHeaderStyle.Render(g.Repo))
		b.WriteString("\n")
		for _, row := range g.Rows {
			b.WriteString(m.renderRow(row, idx == m.cursor))
			b.WriteString("\n")
			idx++
		}
	}
	return b.String()
}

// renderCounts shows the aggregate badge label and the per-view numbers.
// Locally tracked items are added on top of the server-reported counts.
func (m Model) renderCounts() string {
	label := m.list.Label()
	counts := fmt.Sprintf(
		"all %d · participating %d",
		m.list.DisplayCount(indicator.CountGlobal),
		m.list.DisplayCount(indicator.CountParticipating),
	)
	if n, ok := m.list.LocalCount(); ok {
		counts += fmt.Sprintf(" · %d kept unread", n)
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		theme.HeaderStyle.Render(label),
		"  ",
		counts,
	)
}

// renderRow renders a single notification line: state icon, title,
// date and participants.
func (m Model) renderRow(row *Row, selected bool) string {
	icon := theme.StateStyle(string(row.State)).
		Render(theme.StateIcon(string(row.Type), string(row.State)))

	title := row.Title
	if !row.Unread {
		title = theme.ReadItemStyle.Render(title)
	}

	var participants string
	if len(row.Participants) > 0 {
		names := make([]string, len(row.Participants))
		for i, p := range row.Participants {
			names[i] = "@" + p.Username
		}
		participants = theme.ParticipantStyle.Render(strings.Join(names, " "))
	}

	marker := "  "
	if row.Unread {
		marker = "● "
	}

	line := marker + icon + " " + title
	if row.DateTitle != "" {
		line += "  " + theme.ParticipantStyle.Render(row.DateTitle)
	}
	if participants != "" {
		line += "  " + participants
	}
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return "  " + line
}

// renderEmptyState shows guidance text when the inbox has no rows.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.page.Kind == model.PageInbox && m.page.Filter != model.FilterAll {
		return style.Render("No matching notifications.\nPress 1 to show all.")
	}
	return style.Render("Inbox zero.\n\nPress r to refresh from the server.")
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
