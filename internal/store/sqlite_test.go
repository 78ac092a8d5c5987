package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/tests/testutil"
)

func rec(url, repo string, participating bool) model.NotificationRecord {
	return model.NotificationRecord{
		URL:             url,
		Type:            model.ItemTypeIssue,
		State:           model.ItemStateOpen,
		Title:           "a title",
		RepoFullName:    repo,
		Date:            time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		DateTitle:       "Aug 30, 2026",
		IsParticipating: participating,
	}
}

func TestList_EmptyStore(t *testing.T) {
	s := testutil.NewTestStore(t)

	records, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("listing empty store: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty slice, got %d records", len(records))
	}
}

func TestReplace_RoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	in := []model.NotificationRecord{
		rec("https://github.com/a/b/issues/1", "a/b", true),
		rec("https://github.com/a/b/issues/2", "a/b", false),
		rec("https://github.com/c/d/pull/3", "c/d", true),
	}
	in[2].Type = model.ItemTypePullRequest
	in[2].State = model.ItemStateMerged
	in[2].Participants = []model.Participant{
		{Username: "alice", AvatarURL: "https://avatars.example/alice"},
		{Username: "bob", AvatarURL: "https://avatars.example/bob"},
	}

	if err := s.Replace(ctx, in); err != nil {
		t.Fatalf("replacing records: %v", err)
	}

	out, err := s.List(ctx)
	if err != nil {
		t.Fatalf("listing records: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}

	// Insertion order must survive the round-trip.
	for i, want := range in {
		if out[i].URL != want.URL {
			t.Errorf("position %d: expected %s, got %s", i, want.URL, out[i].URL)
		}
	}

	got := out[2]
	if got.ID == "" {
		t.Error("expected an ID to be assigned on write")
	}
	if got.Type != model.ItemTypePullRequest || got.State != model.ItemStateMerged {
		t.Errorf("unexpected type/state: %s/%s", got.Type, got.State)
	}
	if !got.IsParticipating {
		t.Error("expected participating flag to survive round-trip")
	}
	if len(got.Participants) != 2 || got.Participants[0].Username != "alice" {
		t.Errorf("unexpected participants: %+v", got.Participants)
	}
	if !got.Date.Equal(in[2].Date) {
		t.Errorf("expected date %v, got %v", in[2].Date, got.Date)
	}
}

func TestReplace_OverwritesWholeSet(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := []model.NotificationRecord{
		rec("https://github.com/a/b/issues/1", "a/b", false),
		rec("https://github.com/a/b/issues/2", "a/b", false),
	}
	if err := s.Replace(ctx, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := []model.NotificationRecord{
		rec("https://github.com/c/d/issues/9", "c/d", false),
	}
	if err := s.Replace(ctx, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	out, err := s.List(ctx)
	if err != nil {
		t.Fatalf("listing records: %v", err)
	}
	if len(out) != 1 || out[0].URL != "https://github.com/c/d/issues/9" {
		t.Fatalf("expected only the second set to remain, got %+v", out)
	}
}

func TestReplace_Empty(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.Replace(ctx, []model.NotificationRecord{
		rec("https://github.com/a/b/issues/1", "a/b", false),
	}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	if err := s.Replace(ctx, nil); err != nil {
		t.Fatalf("clearing store: %v", err)
	}

	out, err := s.List(ctx)
	if err != nil {
		t.Fatalf("listing records: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty store, got %d records", len(out))
	}
}

func TestReplace_KeepsAssignedIDs(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.Replace(ctx, []model.NotificationRecord{
		rec("https://github.com/a/b/issues/1", "a/b", false),
	}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	out, err := s.List(ctx)
	if err != nil {
		t.Fatalf("listing records: %v", err)
	}
	id := out[0].ID

	// Read-modify-write the same set; the ID must be stable.
	if err := s.Replace(ctx, out); err != nil {
		t.Fatalf("rewriting store: %v", err)
	}
	out, err = s.List(ctx)
	if err != nil {
		t.Fatalf("listing records: %v", err)
	}
	if out[0].ID != id {
		t.Errorf("expected stable ID %s, got %s", id, out[0].ID)
	}
}
