package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/source"
	"github.com/nhle/unread-tracker/internal/ui/inbox"
	"github.com/nhle/unread-tracker/tests/testutil"
)

// fakeSource records which listing was requested and serves canned rows.
type fakeSource struct {
	rows []source.ServerNotification

	listedGlobal        bool
	listedParticipating bool
	listedRepo          string
}

func (f *fakeSource) ListInbox(
	_ context.Context, participating bool,
) ([]source.ServerNotification, error) {
	f.listedGlobal = true
	f.listedParticipating = participating
	return f.rows, nil
}

func (f *fakeSource) ListRepoInbox(
	_ context.Context, repoFullName string,
) ([]source.ServerNotification, error) {
	f.listedRepo = repoFullName
	var scoped []source.ServerNotification
	for _, r := range f.rows {
		if r.RepoFullName == repoFullName {
			scoped = append(scoped, r)
		}
	}
	return scoped, nil
}

func (f *fakeSource) Viewer(context.Context) (string, error) {
	return "viewer", nil
}

func (f *fakeSource) FetchSnapshot(
	_ context.Context, owner, repo string, number int,
) (*model.NotificationRecord, error) {
	return &model.NotificationRecord{
		URL:          "https://github.com/" + owner + "/" + repo + "/issues/1",
		Type:         model.ItemTypeIssue,
		State:        model.ItemStateOpen,
		RepoFullName: owner + "/" + repo,
	}, nil
}

func row(url, repo string, unread bool) source.ServerNotification {
	return source.ServerNotification{
		URL:          url,
		Title:        url,
		RepoFullName: repo,
		Type:         model.ItemTypeIssue,
		Unread:       unread,
		UpdatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestFilterRepo_FetchesOnlyThatRepo(t *testing.T) {
	s := testutil.NewTestStore(t)
	src := &fakeSource{rows: []source.ServerNotification{
		row("https://github.com/a/b/issues/1", "a/b", true),
		row("https://github.com/c/d/issues/2", "c/d", true),
	}}
	m := New(s, src)

	_, cmd := update(t, m, inbox.FilterChangedMsg{Page: model.InboxRepo("a/b")})
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}

	raw := cmd()
	msg, ok := raw.(inboxLoadedMsg)
	if !ok {
		t.Fatalf("fetch produced %T", raw)
	}
	if src.listedRepo != "a/b" {
		t.Fatalf("repo filter listed %q, want a/b", src.listedRepo)
	}
	if src.listedGlobal {
		t.Fatal("repo filter must not fall back to the global listing")
	}
	for _, r := range msg.rows {
		if r.RepoFullName != "a/b" {
			t.Errorf("repo-scoped fetch returned row from %s", r.RepoFullName)
		}
	}
}

func TestFilterParticipating_PassedToListing(t *testing.T) {
	s := testutil.NewTestStore(t)
	src := &fakeSource{}
	m := New(s, src)

	_, cmd := update(t, m, inbox.FilterChangedMsg{Page: model.InboxParticipating()})
	cmd()
	if !src.listedParticipating {
		t.Fatal("participating filter not passed to the server listing")
	}
}

// The merge must complete within the Update call that delivered the
// server rows: the shared list is read by View on the same goroutine,
// so no mutation may be deferred to a background command.
func TestInboxLoaded_MergesSynchronously(t *testing.T) {
	s := testutil.NewTestStore(t)
	seedRecord := model.NotificationRecord{
		URL:          "https://github.com/a/b/issues/9",
		Type:         model.ItemTypeIssue,
		State:        model.ItemStateOpen,
		Title:        "tracked",
		RepoFullName: "a/b",
	}
	if err := s.Replace(context.Background(), []model.NotificationRecord{seedRecord}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	src := &fakeSource{}
	m := New(s, src)

	loaded := inboxLoadedMsg{rows: []source.ServerNotification{
		row("https://github.com/a/b/issues/1", "a/b", false),
	}}
	m, cmd := update(t, m, loaded)
	if cmd != nil {
		t.Fatal("inbox load must not schedule further list mutations")
	}

	h, ok := m.list.FindRow("https://github.com/a/b/issues/9")
	if !ok {
		t.Fatal("tracked record not merged during the Update call")
	}
	if row := h.(*inbox.Row); !row.Unread {
		t.Fatal("merged row not flipped unread")
	}
	if m.list.Label() == "" {
		t.Fatal("indicator not refreshed during the Update call")
	}
}

func TestMarkRead_AppliedSynchronously(t *testing.T) {
	s := testutil.NewTestStore(t)
	src := &fakeSource{}
	m := New(s, src)

	m, _ = update(t, m, inboxLoadedMsg{rows: []source.ServerNotification{
		row("https://github.com/a/b/issues/1", "a/b", true),
	}})

	m, cmd := update(t, m, inbox.MarkReadMsg{
		URLs: []string{"https://github.com/a/b/issues/1"},
	})
	if cmd != nil {
		t.Fatal("mark read must not schedule further list mutations")
	}

	h, _ := m.list.FindRow("https://github.com/a/b/issues/1")
	if row := h.(*inbox.Row); row.Unread {
		t.Fatal("row still unread after the Update call returned")
	}
}
