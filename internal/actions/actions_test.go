package actions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nhle/unread-tracker/internal/actions"
	"github.com/nhle/unread-tracker/internal/indicator"
	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/store"
	"github.com/nhle/unread-tracker/tests/testutil"
)

type fixture struct {
	store   *store.SQLiteStore
	view    *testutil.FakeView
	handler *actions.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := testutil.NewTestStore(t)
	v := testutil.NewFakeView()
	u := indicator.New(s, v)
	return &fixture{
		store:   s,
		view:    v,
		handler: actions.New(s, v, u),
	}
}

func snapshot(url, repo string, participating bool) model.NotificationRecord {
	return model.NotificationRecord{
		URL:             url,
		Type:            model.ItemTypeIssue,
		State:           model.ItemStateOpen,
		Title:           "t",
		RepoFullName:    repo,
		IsParticipating: participating,
	}
}

func mustList(t *testing.T, s store.Store) []model.NotificationRecord {
	t.Helper()
	records, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("listing records: %v", err)
	}
	return records
}

func TestMarkUnreadThenRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.handler.MarkUnread(ctx, snapshot("https://example/issues/1", "a/b", true)); err != nil {
		t.Fatalf("marking unread: %v", err)
	}
	if got := mustList(t, f.store); len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}

	if err := f.handler.MarkRead(ctx, "https://example/issues/1"); err != nil {
		t.Fatalf("marking read: %v", err)
	}
	if got := mustList(t, f.store); len(got) != 0 {
		t.Fatalf("expected empty store, got %d records", len(got))
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.handler.MarkUnread(ctx, snapshot("https://example/issues/1", "a/b", false)); err != nil {
		t.Fatalf("marking unread: %v", err)
	}

	if err := f.handler.MarkRead(ctx, "https://example/issues/1"); err != nil {
		t.Fatalf("first mark read: %v", err)
	}
	// Second call: the URL is no longer tracked, still no error.
	if err := f.handler.MarkRead(ctx, "https://example/issues/1"); err != nil {
		t.Fatalf("second mark read should be a no-op, got: %v", err)
	}
	if got := mustList(t, f.store); len(got) != 0 {
		t.Fatalf("expected empty store, got %d records", len(got))
	}
}

func TestMarkUnread_ReplacesDuplicateURL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := snapshot("https://example/issues/1", "a/b", false)
	first.Title = "old title"
	if err := f.handler.MarkUnread(ctx, first); err != nil {
		t.Fatalf("first mark unread: %v", err)
	}
	if err := f.handler.MarkUnread(ctx, snapshot("https://example/issues/2", "a/b", false)); err != nil {
		t.Fatalf("second mark unread: %v", err)
	}

	// Same item again, via a fragment variant: replaces, never appends.
	again := snapshot("https://example/issues/1#issuecomment-9", "a/b", false)
	again.Title = "new title"
	if err := f.handler.MarkUnread(ctx, again); err != nil {
		t.Fatalf("repeated mark unread: %v", err)
	}

	got := mustList(t, f.store)
	if len(got) != 2 {
		t.Fatalf("expected 2 records after replacement, got %d", len(got))
	}
	// The re-marked item moved to the newest slot with the new snapshot.
	if got[1].URL != "https://example/issues/1" || got[1].Title != "new title" {
		t.Errorf("expected replaced record last, got %+v", got[1])
	}
}

func TestMarkUnread_UnknownStateAbortsTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := snapshot("https://example/issues/1", "a/b", false)
	bad.State = model.ItemState("archived")

	err := f.handler.MarkUnread(ctx, bad)
	var stateErr *model.UnknownStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected UnknownStateError, got %v", err)
	}
	if got := mustList(t, f.store); len(got) != 0 {
		t.Fatal("store must be left unmodified on an unknown state")
	}
}

func TestMarkRepoVisibleRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, rec := range []model.NotificationRecord{
		snapshot("https://example/a/b/issues/1", "a/b", false),
		snapshot("https://example/a/b/issues/2", "a/b", false),
		snapshot("https://example/c/d/issues/3", "c/d", false),
	} {
		if err := f.handler.MarkUnread(ctx, rec); err != nil {
			t.Fatalf("marking unread: %v", err)
		}
	}

	if err := f.handler.MarkRepoVisibleRead(ctx, "a/b"); err != nil {
		t.Fatalf("marking repo read: %v", err)
	}

	got := mustList(t, f.store)
	if len(got) != 1 || got[0].RepoFullName != "c/d" {
		t.Fatalf("expected exactly the c/d record to remain, got %+v", got)
	}
}

func TestMarkAllRead_ClearsStoreAndCountAttribute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	urls := []string{
		"https://example/a/b/issues/1",
		"https://example/a/b/issues/2",
		"https://example/c/d/issues/3",
		"https://example/c/d/pull/4",
		"https://example/e/f/issues/5",
	}
	repos := []string{"a/b", "a/b", "c/d", "c/d", "e/f"}
	for i, u := range urls {
		if err := f.handler.MarkUnread(ctx, snapshot(u, repos[i], false)); err != nil {
			t.Fatalf("marking unread: %v", err)
		}
	}
	if !f.view.HasLocalCount || f.view.LocalCount != 5 {
		t.Fatalf("expected local count 5 before clearing, got %d (present=%v)",
			f.view.LocalCount, f.view.HasLocalCount)
	}

	if err := f.handler.MarkAllRead(ctx); err != nil {
		t.Fatalf("marking all read: %v", err)
	}

	if got := mustList(t, f.store); len(got) != 0 {
		t.Fatalf("expected empty store, got %d records", len(got))
	}
	if f.view.HasLocalCount {
		t.Error("auxiliary count attribute must be absent after a global clear")
	}
}

func TestMarkRead_FlipsLiveRowWithoutStoredRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A row that is visually unread but was never tracked locally.
	row := f.view.AddServerRow("a/b", "https://example/a/b/issues/7")
	row.Unread = true

	if err := f.handler.MarkRead(ctx, "https://example/a/b/issues/7"); err != nil {
		t.Fatalf("marking read: %v", err)
	}
	if row.Unread {
		t.Error("live row should be flipped read even with no stored record")
	}
}

func TestMarkUnread_RefreshesIndicator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.handler.MarkUnread(ctx, snapshot("https://example/issues/1", "a/b", true)); err != nil {
		t.Fatalf("marking unread: %v", err)
	}

	if f.view.Label != indicator.LabelUnread {
		t.Errorf("expected label %q after write, got %q", indicator.LabelUnread, f.view.Label)
	}
	if f.view.Extra[indicator.CountGlobal] != 1 {
		t.Errorf("expected global overlay 1, got %d", f.view.Extra[indicator.CountGlobal])
	}
	if f.view.Extra[indicator.CountParticipating] != 1 {
		t.Errorf("expected participating overlay 1, got %d", f.view.Extra[indicator.CountParticipating])
	}
}

func TestMarkUnread_TruncatesParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := snapshot("https://example/issues/1", "a/b", false)
	rec.Participants = []model.Participant{
		{Username: "a"}, {Username: "b"}, {Username: "c"}, {Username: "d"},
	}
	if err := f.handler.MarkUnread(ctx, rec); err != nil {
		t.Fatalf("marking unread: %v", err)
	}

	got := mustList(t, f.store)
	if len(got[0].Participants) != model.MaxParticipants {
		t.Fatalf("expected %d participants, got %d",
			model.MaxParticipants, len(got[0].Participants))
	}
}
