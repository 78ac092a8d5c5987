package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/unread-tracker/internal/actions"
	"github.com/nhle/unread-tracker/internal/indicator"
	"github.com/nhle/unread-tracker/internal/keys"
	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/reconcile"
	"github.com/nhle/unread-tracker/internal/session"
	"github.com/nhle/unread-tracker/internal/source"
	"github.com/nhle/unread-tracker/internal/store"
	"github.com/nhle/unread-tracker/internal/ui"
	"github.com/nhle/unread-tracker/internal/ui/detail"
	helpview "github.com/nhle/unread-tracker/internal/ui/help"
	"github.com/nhle/unread-tracker/internal/ui/inbox"
	"github.com/nhle/unread-tracker/internal/urlnorm"
)

// inboxLoadedMsg carries the server's current notification rows.
type inboxLoadedMsg struct {
	rows []source.ServerNotification
	err  error
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewInbox ViewState = iota
	ViewDetail
	ViewHelp
)

// Source is the server collaborator the app needs: the inbox listing
// plus identity and snapshot capture.
type Source interface {
	source.InboxSource
	source.SnapshotSource
}

// Model is the root Bubble Tea model. It manages view routing and owns
// the merge machinery: on every inbox load it prunes visited records,
// merges the record set into the server rows, and refreshes the unread
// indicator.
//
// Only server fetches run as background commands. Everything that
// touches the shared row list (merge passes, read-state actions) runs
// on the Update goroutine, the same one View reads from, so the list
// needs no locking.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	store      store.Store
	src        Source
	list       *inbox.List
	reconciler *reconcile.Reconciler
	updater    *indicator.Updater
	handler    *actions.Handler
	session    *session.Session

	inboxView  inbox.Model
	detailView detail.Model
	helpView   helpview.Model

	ready            bool
	authErrorMessage string
}

// New creates a new root application model wired over the given store
// and server source.
func New(s store.Store, src Source) Model {
	k := keys.DefaultKeyMap()
	list := inbox.NewList()
	updater := indicator.New(s, list)

	return Model{
		currentView: ViewInbox,
		keys:        k,
		store:       s,
		src:         src,
		list:        list,
		reconciler:  reconcile.New(s, list),
		updater:     updater,
		handler:     actions.New(s, list, updater),
		session:     session.New(),
		inboxView:   inbox.New(list, k, 80, 24),
		detailView:  detail.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
}

// Init activates the inbox page and loads it from the server.
func (m Model) Init() tea.Cmd {
	m.activateInbox()
	return m.loadInbox()
}

// activateInbox acquires the inbox page's subscriptions, tearing down
// whatever the previous page held. Re-activation is safe: the old
// handles are always released before new ones are acquired.
func (m *Model) activateInbox() {
	m.session.Activate(func() session.Handle {
		return m.reconciler.Subscribe(func(page model.PageContext, shown int) {
			log.Debugf("merge pass on %s: %d tracked rows shown", page.Kind, shown)
		})
	})
}

// activateDetail releases the inbox subscriptions; the item detail page
// holds none of its own.
func (m *Model) activateDetail() {
	m.session.Activate()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.inboxView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		return m.updateActiveView(msg)

	case inboxLoadedMsg:
		if msg.err != nil {
			if source.IsAuthError(msg.err) {
				m.authErrorMessage = "Authentication failed. Check your token."
			} else {
				m.inboxView.SetStatus(fmt.Sprintf("Refresh failed: %v", msg.err))
			}
			return m, nil
		}
		m.authErrorMessage = ""
		m.inboxView.SetStatus("")
		m.list.SetServerRows(msg.rows)
		if err := m.runMergePass(); err != nil {
			log.Warnf("merge pass failed: %v", err)
		}
		m.inboxView.ClampCursor()
		return m, nil

	case inbox.SelectedItemMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.activateDetail()
		m.detailView.SetLoading(true)
		m.pruneVisited()
		return m, m.loadSnapshot(msg.URL)

	case inbox.FilterChangedMsg:
		return m, m.loadInboxFor(msg.Page)

	case inbox.MarkReadMsg:
		m.runAction(m.handler.MarkRead(context.Background(), msg.URLs...))
		return m, nil

	case inbox.MarkRepoReadMsg:
		m.runAction(m.handler.MarkRepoVisibleRead(context.Background(), msg.Repo))
		return m, nil

	case inbox.MarkAllReadMsg:
		m.runAction(m.handler.MarkAllRead(context.Background()))
		return m, nil

	case inbox.RefreshMsg:
		return m, m.loadInbox()

	case detail.SnapshotLoadedMsg:
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd

	case detail.MarkUnreadMsg:
		err := m.handler.MarkUnread(context.Background(), msg.Record)
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(detail.MarkedUnreadMsg{Err: err})
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewInbox
		m.activateInbox()
		return m, m.loadInbox()

	case tea.KeyMsg:
		// Global keys that work regardless of current view
		switch msg.String() {
		case "ctrl+c":
			m.session.Deactivate()
			return m, tea.Quit

		case "q":
			if m.currentView == ViewInbox {
				m.session.Deactivate()
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil
		}
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewInbox:
		m.inboxView, cmd = m.inboxView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Unread Tracker", m.list.Label())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewInbox:
		return m.inboxView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	// Show auth error prominently when present.
	if m.authErrorMessage != "" && m.currentView == ViewInbox {
		return m.authErrorMessage
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "esc back | u mark unread | j/k scroll"
	default:
		return "q quit | ? help | d read | D repo read | A all read | 1/2/3 filter | r refresh"
	}
}

// loadInbox returns a command that fetches the server's notification
// rows for the current inbox filter.
func (m Model) loadInbox() tea.Cmd {
	return m.loadInboxFor(m.inboxView.Page())
}

// loadInboxFor fetches the rows the given page context may show: the
// repo filter fetches only that repository's notifications, so the
// scoped view never receives rows it must not display.
func (m Model) loadInboxFor(page model.PageContext) tea.Cmd {
	src := m.src
	return func() tea.Msg {
		ctx := context.Background()
		var (
			rows []source.ServerNotification
			err  error
		)
		switch page.Filter {
		case model.FilterRepo:
			rows, err = src.ListRepoInbox(ctx, page.Repo)
		case model.FilterParticipating:
			rows, err = src.ListInbox(ctx, true)
		default:
			rows, err = src.ListInbox(ctx, false)
		}
		return inboxLoadedMsg{rows: rows, err: err}
	}
}

// runMergePass runs one merge pass in place: destroy records for visited
// items, merge the record set into the current rows, and refresh the
// unread indicator.
func (m *Model) runMergePass() error {
	ctx := context.Background()
	if visited := m.list.DrainVisited(); len(visited) > 0 {
		if err := m.handler.MarkRead(ctx, visited...); err != nil {
			return err
		}
	}
	if err := m.reconciler.Render(ctx, m.inboxView.Page()); err != nil {
		return err
	}
	return m.updater.Refresh(ctx)
}

// runAction records the outcome of a read-state action on the inbox view.
func (m *Model) runAction(err error) {
	if err != nil {
		m.inboxView.SetStatus(fmt.Sprintf("Action failed: %v", err))
	}
	m.inboxView.ClampCursor()
}

// pruneVisited destroys records for items the user just opened.
func (m *Model) pruneVisited() {
	visited := m.list.DrainVisited()
	if len(visited) == 0 {
		return
	}
	if err := m.handler.MarkRead(context.Background(), visited...); err != nil {
		log.Warnf("pruning visited records: %v", err)
	}
}

// loadSnapshot captures the opened item's current state for the detail
// view and for a possible mark-unread transition.
func (m Model) loadSnapshot(url string) tea.Cmd {
	src := m.src
	return func() tea.Msg {
		owner, repo, number, err := urlnorm.ItemRef(url)
		if err != nil {
			return detail.SnapshotLoadedMsg{Err: err}
		}
		rec, err := src.FetchSnapshot(context.Background(), owner, repo, number)
		return detail.SnapshotLoadedMsg{Record: rec, Err: err}
	}
}
