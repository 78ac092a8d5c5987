package testutil

import (
	"github.com/nhle/unread-tracker/internal/indicator"
	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/view"
)

// FakeRow is one rendered row in a FakeView.
type FakeRow struct {
	URL    string
	Record model.NotificationRecord
	Unread bool
}

// FakeGroup is one repository group in a FakeView.
type FakeGroup struct {
	Repo string
	Rows []*FakeRow
}

// FakeView is an in-memory implementation of view.View and
// indicator.Badge for exercising the core without any rendering layer.
type FakeView struct {
	Groups      []*FakeGroup
	Visited     []string
	ListMissing bool
	EnsureCalls int

	Live          bool
	Label         string
	LocalCount    int
	HasLocalCount bool
	Extra         map[indicator.ViewCount]int
}

// NewFakeView creates an empty fake view with no live unread signal.
func NewFakeView() *FakeView {
	return &FakeView{Extra: make(map[indicator.ViewCount]int)}
}

// AddServerRow simulates a row the server already rendered (read state),
// appended to the bottom of its group like server ordering would.
func (v *FakeView) AddServerRow(repo, url string) *FakeRow {
	g := v.group(repo, false)
	row := &FakeRow{URL: url}
	g.Rows = append(g.Rows, row)
	return row
}

func (v *FakeView) group(repo string, prepend bool) *FakeGroup {
	for _, g := range v.Groups {
		if g.Repo == repo {
			return g
		}
	}
	g := &FakeGroup{Repo: repo}
	if prepend {
		v.Groups = append([]*FakeGroup{g}, v.Groups...)
	} else {
		v.Groups = append(v.Groups, g)
	}
	return g
}

// EnsureList implements view.View.
func (v *FakeView) EnsureList() error {
	v.EnsureCalls++
	if v.ListMissing {
		return view.ErrMissingAnchor
	}
	return nil
}

// FindRow implements view.View.
func (v *FakeView) FindRow(url string) (view.RowHandle, bool) {
	for _, g := range v.Groups {
		for _, row := range g.Rows {
			if row.URL == url {
				return row, true
			}
		}
	}
	return nil, false
}

// CreateRow implements view.View: the row is prepended to the top of its
// repository group, and a new group is created at the top of the list.
func (v *FakeView) CreateRow(rec model.NotificationRecord) (view.RowHandle, error) {
	g := v.group(rec.RepoFullName, true)
	row := &FakeRow{URL: rec.URL, Record: rec}
	g.Rows = append([]*FakeRow{row}, g.Rows...)
	return row, nil
}

// SetRowUnread implements view.View.
func (v *FakeView) SetRowUnread(h view.RowHandle, unread bool) {
	h.(*FakeRow).Unread = unread
}

// PromoteUnreadGroups implements view.View with a stable partition:
// groups holding at least one unread row move to the front, keeping
// their relative order.
func (v *FakeView) PromoteUnreadGroups() {
	var unread, read []*FakeGroup
	for _, g := range v.Groups {
		if g.hasUnread() {
			unread = append(unread, g)
		} else {
			read = append(read, g)
		}
	}
	v.Groups = append(unread, read...)
}

func (g *FakeGroup) hasUnread() bool {
	for _, row := range g.Rows {
		if row.Unread {
			return true
		}
	}
	return false
}

// VisitedURLs implements view.View.
func (v *FakeView) VisitedURLs() []string {
	return v.Visited
}

// RowURLs returns all row URLs in display order, top-most first.
func (v *FakeView) RowURLs() []string {
	var urls []string
	for _, g := range v.Groups {
		for _, row := range g.Rows {
			urls = append(urls, row.URL)
		}
	}
	return urls
}

// LiveUnread implements indicator.Badge.
func (v *FakeView) LiveUnread() bool { return v.Live }

// SetLabel implements indicator.Badge.
func (v *FakeView) SetLabel(label string) { v.Label = label }

// SetLocalCount implements indicator.Badge; zero removes the attribute.
func (v *FakeView) SetLocalCount(n int) {
	if n == 0 {
		v.LocalCount = 0
		v.HasLocalCount = false
		return
	}
	v.LocalCount = n
	v.HasLocalCount = true
}

// SetExtraCount implements indicator.Badge.
func (v *FakeView) SetExtraCount(vc indicator.ViewCount, n int) {
	v.Extra[vc] = n
}
