package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/reconcile"
	"github.com/nhle/unread-tracker/internal/view"
	"github.com/nhle/unread-tracker/tests/testutil"
)

func seed(t *testing.T, s interface {
	Replace(ctx context.Context, records []model.NotificationRecord) error
}, records ...model.NotificationRecord) {
	t.Helper()
	if err := s.Replace(context.Background(), records); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
}

func record(url, repo string) model.NotificationRecord {
	return model.NotificationRecord{
		URL:          url,
		Type:         model.ItemTypeIssue,
		State:        model.ItemStateOpen,
		Title:        "t",
		RepoFullName: repo,
	}
}

func TestRender_OrderingInvariant(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := testutil.NewFakeView()
	seed(t, s,
		record("https://github.com/a/b/issues/1", "a/b"),
		record("https://github.com/a/b/issues/2", "a/b"),
		record("https://github.com/a/b/issues/3", "a/b"),
	)

	r := reconcile.New(s, v)
	if err := r.Render(context.Background(), model.InboxAll()); err != nil {
		t.Fatalf("rendering: %v", err)
	}

	// Reverse-of-storage prepend: the most recently marked item is first.
	urls := v.RowURLs()
	want := []string{
		"https://github.com/a/b/issues/3",
		"https://github.com/a/b/issues/2",
		"https://github.com/a/b/issues/1",
	}
	if len(urls) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(urls))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], urls[i])
		}
	}
}

func TestRender_NothingApplicable_NoViewWork(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := testutil.NewFakeView()
	seed(t, s, record("https://github.com/a/c/issues/1", "a/c"))

	r := reconcile.New(s, v)
	if err := r.Render(context.Background(), model.InboxRepo("a/b")); err != nil {
		t.Fatalf("rendering: %v", err)
	}

	if v.EnsureCalls != 0 {
		t.Error("no applicable records: the list container must not be touched")
	}
	if len(v.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(v.Groups))
	}
}

func TestRender_FlipsExistingRowInPlace(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := testutil.NewFakeView()
	// Server already rendered this item as a read row.
	serverRow := v.AddServerRow("a/b", "https://github.com/a/b/issues/1")
	seed(t, s, record("https://github.com/a/b/issues/1", "a/b"))

	r := reconcile.New(s, v)
	if err := r.Render(context.Background(), model.InboxAll()); err != nil {
		t.Fatalf("rendering: %v", err)
	}

	if !serverRow.Unread {
		t.Error("existing row should be flipped unread in place")
	}
	if got := len(v.RowURLs()); got != 1 {
		t.Fatalf("expected no duplicate row, got %d rows", got)
	}
}

func TestRender_PromotesUnreadGroups(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := testutil.NewFakeView()
	// Server ordering: all-read groups x/y then a/b.
	v.AddServerRow("x/y", "https://github.com/x/y/issues/5")
	v.AddServerRow("a/b", "https://github.com/a/b/issues/9")
	seed(t, s, record("https://github.com/a/b/issues/1", "a/b"))

	r := reconcile.New(s, v)
	if err := r.Render(context.Background(), model.InboxAll()); err != nil {
		t.Fatalf("rendering: %v", err)
	}

	if v.Groups[0].Repo != "a/b" {
		t.Errorf("group with unread rows should be promoted to the top, got %s", v.Groups[0].Repo)
	}
	if v.Groups[1].Repo != "x/y" {
		t.Errorf("all-read group should keep its slot below, got %s", v.Groups[1].Repo)
	}
}

func TestRender_MissingAnchorIsRenderPassError(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := testutil.NewFakeView()
	v.ListMissing = true
	seed(t, s, record("https://github.com/a/b/issues/1", "a/b"))

	r := reconcile.New(s, v)
	err := r.Render(context.Background(), model.InboxAll())
	if !errors.Is(err, view.ErrMissingAnchor) {
		t.Fatalf("expected ErrMissingAnchor, got %v", err)
	}

	// The store is untouched; a later pass succeeds.
	v.ListMissing = false
	if err := r.Render(context.Background(), model.InboxAll()); err != nil {
		t.Fatalf("second render should succeed: %v", err)
	}
	if got := len(v.RowURLs()); got != 1 {
		t.Fatalf("expected 1 row after recovery, got %d", got)
	}
}

func TestRender_NormalizesFragmentsBeforeMatching(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := testutil.NewFakeView()
	v.AddServerRow("a/b", "https://github.com/a/b/issues/1")
	// Stored with a comment anchor; must still match the server row.
	seed(t, s, record("https://github.com/a/b/issues/1#issuecomment-3", "a/b"))

	r := reconcile.New(s, v)
	if err := r.Render(context.Background(), model.InboxAll()); err != nil {
		t.Fatalf("rendering: %v", err)
	}
	if got := len(v.RowURLs()); got != 1 {
		t.Fatalf("fragment variant must not create a duplicate row, got %d rows", got)
	}
}

func TestRender_NotifiesSubscribers(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := testutil.NewFakeView()
	seed(t, s,
		record("https://github.com/a/b/issues/1", "a/b"),
		record("https://github.com/c/d/issues/2", "c/d"),
	)

	r := reconcile.New(s, v)
	var gotPage model.PageContext
	gotShown := -1
	release := r.Subscribe(func(page model.PageContext, shown int) {
		gotPage = page
		gotShown = shown
	})

	if err := r.Render(context.Background(), model.InboxAll()); err != nil {
		t.Fatalf("rendering: %v", err)
	}
	if gotShown != 2 || gotPage.Kind != model.PageInbox {
		t.Errorf("expected signal with 2 shown records, got %d (%+v)", gotShown, gotPage)
	}

	// After release the listener must not fire again.
	release()
	gotShown = -1
	if err := r.Render(context.Background(), model.InboxAll()); err != nil {
		t.Fatalf("rendering: %v", err)
	}
	if gotShown != -1 {
		t.Error("released listener should not be notified")
	}
}

// Render passes can run on a background goroutine while page navigation
// subscribes and releases listeners; the registry must tolerate that
// churn concurrently (run with -race).
func TestSubscribe_ConcurrentWithRender(t *testing.T) {
	s := testutil.NewTestStore(t)
	v := testutil.NewFakeView()
	seed(t, s, record("https://github.com/a/b/issues/1", "a/b"))

	r := reconcile.New(s, v)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if err := r.Render(context.Background(), model.InboxAll()); err != nil {
				t.Errorf("rendering: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		release := r.Subscribe(func(model.PageContext, int) {})
		release()
	}
	<-done
}
