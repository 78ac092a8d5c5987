package inbox

import (
	"github.com/nhle/unread-tracker/internal/indicator"
	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/source"
	"github.com/nhle/unread-tracker/internal/urlnorm"
	"github.com/nhle/unread-tracker/internal/view"
)

// Row is one displayed notification row. Server-rendered rows and rows
// synthesized from local records share this shape; Local distinguishes
// them for rendering only.
type Row struct {
	URL          string
	Title        string
	RepoFullName string
	Type         model.ItemType
	State        model.ItemState
	DateTitle    string
	Participants []model.Participant
	Unread       bool
	Local        bool
}

// Group is one repository's rows, in display order.
type Group struct {
	Repo string
	Rows []*Row
}

// HasUnread reports whether the group currently holds any unread row.
func (g *Group) HasUnread() bool {
	for _, row := range g.Rows {
		if row.Unread {
			return true
		}
	}
	return false
}

// List is the mutable grouped notification list the reconciler merges
// records into. It owns the rows; the store owns the records. It
// implements view.View and indicator.Badge.
type List struct {
	groups  []*Group
	mounted bool
	visited []string

	// Server-reported signals, replaced wholesale on every refresh.
	live               bool
	serverCount        int
	serverParticipants int

	// Indicator state written by the updater.
	label         string
	localCount    int
	hasLocalCount bool
	extra         map[indicator.ViewCount]int
}

// NewList creates an empty, unmounted list.
func NewList() *List {
	return &List{extra: make(map[indicator.ViewCount]int)}
}

// SetServerRows replaces the list contents with the server's current
// rows, grouped by repository in server order, and refreshes the
// server-side signals the indicator reads.
func (l *List) SetServerRows(rows []source.ServerNotification) {
	l.groups = nil
	l.mounted = true
	l.live = false
	l.serverCount = 0
	l.serverParticipants = 0

	for _, sn := range rows {
		if sn.Unread {
			l.live = true
			l.serverCount++
			if sn.Participating {
				l.serverParticipants++
			}
		}
		g := l.group(sn.RepoFullName, false)
		g.Rows = append(g.Rows, &Row{
			URL:          urlnorm.Normalize(sn.URL),
			Title:        sn.Title,
			RepoFullName: sn.RepoFullName,
			Type:         sn.Type,
			State:        model.ItemStateOpen,
			DateTitle:    sn.UpdatedAt.Format("Jan 2, 3:04 PM"),
			Unread:       sn.Unread,
		})
	}
}

// group finds or creates the group for a repository. New groups go to
// the top when prepend is set, matching row synthesis; server loading
// appends in encounter order.
func (l *List) group(repo string, prepend bool) *Group {
	for _, g := range l.groups {
		if g.Repo == repo {
			return g
		}
	}
	g := &Group{Repo: repo}
	if prepend {
		l.groups = append([]*Group{g}, l.groups...)
	} else {
		l.groups = append(l.groups, g)
	}
	return g
}

// EnsureList implements view.View. The list container exists once server
// content has been loaded (even an empty inbox mounts an empty list).
func (l *List) EnsureList() error {
	if !l.mounted {
		return view.ErrMissingAnchor
	}
	return nil
}

// FindRow implements view.View.
func (l *List) FindRow(url string) (view.RowHandle, bool) {
	url = urlnorm.Normalize(url)
	for _, g := range l.groups {
		for _, row := range g.Rows {
			if row.URL == url {
				return row, true
			}
		}
	}
	return nil, false
}

// CreateRow implements view.View: a synthesized row is prepended to the
// top of its repository group; a missing group is created at the top.
func (l *List) CreateRow(rec model.NotificationRecord) (view.RowHandle, error) {
	g := l.group(rec.RepoFullName, true)
	row := &Row{
		URL:          urlnorm.Normalize(rec.URL),
		Title:        rec.Title,
		RepoFullName: rec.RepoFullName,
		Type:         rec.Type,
		State:        rec.State,
		DateTitle:    rec.DateTitle,
		Participants: rec.Participants,
		Local:        true,
	}
	g.Rows = append([]*Row{row}, g.Rows...)
	return row, nil
}

// SetRowUnread implements view.View.
func (l *List) SetRowUnread(h view.RowHandle, unread bool) {
	h.(*Row).Unread = unread
}

// PromoteUnreadGroups implements view.View with a stable partition.
func (l *List) PromoteUnreadGroups() {
	var unread, read []*Group
	for _, g := range l.groups {
		if g.HasUnread() {
			unread = append(unread, g)
		} else {
			read = append(read, g)
		}
	}
	l.groups = append(unread, read...)
}

// Visit records that the user opened an item, so its URL is reported as
// visited and its record destroyed on the next pass.
func (l *List) Visit(url string) {
	l.visited = append(l.visited, urlnorm.Normalize(url))
}

// VisitedURLs implements view.View.
func (l *List) VisitedURLs() []string {
	return l.visited
}

// DrainVisited returns the visited URLs and clears the accumulator.
func (l *List) DrainVisited() []string {
	v := l.visited
	l.visited = nil
	return v
}

// Groups returns the display groups, top-most first.
func (l *List) Groups() []*Group {
	return l.groups
}

// FlatRows returns every row in display order.
func (l *List) FlatRows() []*Row {
	var rows []*Row
	for _, g := range l.groups {
		rows = append(rows, g.Rows...)
	}
	return rows
}

// LiveUnread implements indicator.Badge.
func (l *List) LiveUnread() bool { return l.live }

// SetLabel implements indicator.Badge.
func (l *List) SetLabel(label string) { l.label = label }

// Label returns the current aggregate badge label.
func (l *List) Label() string { return l.label }

// SetLocalCount implements indicator.Badge; zero removes the attribute.
func (l *List) SetLocalCount(n int) {
	if n == 0 {
		l.localCount = 0
		l.hasLocalCount = false
		return
	}
	l.localCount = n
	l.hasLocalCount = true
}

// LocalCount returns the auxiliary locally-tracked count and whether the
// attribute is present at all.
func (l *List) LocalCount() (int, bool) {
	return l.localCount, l.hasLocalCount
}

// SetExtraCount implements indicator.Badge.
func (l *List) SetExtraCount(vc indicator.ViewCount, n int) {
	l.extra[vc] = n
}

// DisplayCount returns the augmented number shown for a view counter:
// the server-reported count plus the local overlay, never replacing the
// server's contribution.
func (l *List) DisplayCount(vc indicator.ViewCount) int {
	switch vc {
	case indicator.CountParticipating:
		return l.serverParticipants + l.extra[vc]
	default:
		return l.serverCount + l.extra[vc]
	}
}
