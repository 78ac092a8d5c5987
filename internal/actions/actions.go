package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/unread-tracker/internal/indicator"
	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/store"
	"github.com/nhle/unread-tracker/internal/urlnorm"
	"github.com/nhle/unread-tracker/internal/view"
)

// Handler implements the user-triggered transitions over tracked records.
// Each record is in one of two states, tracked-unread or not-tracked;
// every transition that mutates the store immediately refreshes the
// unread indicator before returning.
type Handler struct {
	store     store.Store
	view      view.View
	indicator *indicator.Updater
}

// New creates a Handler. The view may be nil for surfaces that have no
// live list to keep consistent (row flips are then skipped).
func New(s store.Store, v view.View, u *indicator.Updater) *Handler {
	return &Handler{store: s, view: v, indicator: u}
}

// MarkUnread transitions an item from not-tracked to tracked-unread.
// The record is a full snapshot captured at this instant and is never
// refreshed later, even if the item changes state server-side.
//
// An unrecognized item state aborts the transition with an
// UnknownStateError and leaves the store unmodified. A record with the
// same normalized URL already in the store is replaced, not duplicated.
func (h *Handler) MarkUnread(ctx context.Context, rec model.NotificationRecord) error {
	if _, err := model.ParseItemState(string(rec.State)); err != nil {
		return fmt.Errorf("marking %s unread: %w", rec.URL, err)
	}

	rec.URL = urlnorm.Normalize(rec.URL)
	if rec.RepoFullName == "" {
		rec.RepoFullName = urlnorm.RepoFullName(rec.URL)
	}
	if len(rec.Participants) > model.MaxParticipants {
		rec.Participants = rec.Participants[:model.MaxParticipants]
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	records, err := h.store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	// Enforce URL uniqueness on write: marking the same item unread
	// again replaces the old snapshot and moves it to the newest slot.
	kept := records[:0:0]
	for _, existing := range records {
		if urlnorm.Same(existing.URL, rec.URL) {
			continue
		}
		kept = append(kept, existing)
	}
	kept = append(kept, rec)

	if err := h.store.Replace(ctx, kept); err != nil {
		return fmt.Errorf("storing record for %s: %w", rec.URL, err)
	}

	return h.indicator.Refresh(ctx)
}

// MarkRead transitions every record whose normalized URL is in urls from
// tracked-unread to not-tracked. It also flips any matching live rows to
// the read state, whether or not a stored record existed, so a row the
// server itself reports read stays consistent. Calling it again with the
// same URLs is a no-op, not an error.
func (h *Handler) MarkRead(ctx context.Context, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}

	targets := make(map[string]bool, len(urls))
	for _, u := range urls {
		targets[urlnorm.Normalize(u)] = true
	}

	h.setRowsRead(targets)

	records, err := h.store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	kept := records[:0:0]
	for _, rec := range records {
		if targets[urlnorm.Normalize(rec.URL)] {
			continue
		}
		kept = append(kept, rec)
	}

	if err := h.store.Replace(ctx, kept); err != nil {
		return fmt.Errorf("removing read records: %w", err)
	}

	return h.indicator.Refresh(ctx)
}

// MarkAllRead clears the entire store unconditionally. Used by the global
// "mark all as read" confirmation and when the user runs the server's own
// native mark-all-read action.
func (h *Handler) MarkAllRead(ctx context.Context) error {
	records, err := h.store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	targets := make(map[string]bool, len(records))
	for _, rec := range records {
		targets[urlnorm.Normalize(rec.URL)] = true
	}
	h.setRowsRead(targets)

	if err := h.store.Replace(ctx, nil); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	return h.indicator.Refresh(ctx)
}

// MarkRepoVisibleRead removes all stored records for one repository,
// leaving rows outside that group untouched. Used when the user
// dismisses or bulk-processes a single repository's visible
// notifications.
func (h *Handler) MarkRepoVisibleRead(ctx context.Context, repoFullName string) error {
	records, err := h.store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	targets := make(map[string]bool)
	kept := records[:0:0]
	for _, rec := range records {
		if rec.RepoFullName == repoFullName {
			targets[urlnorm.Normalize(rec.URL)] = true
			continue
		}
		kept = append(kept, rec)
	}
	h.setRowsRead(targets)

	if err := h.store.Replace(ctx, kept); err != nil {
		return fmt.Errorf("removing records for %s: %w", repoFullName, err)
	}

	return h.indicator.Refresh(ctx)
}

// setRowsRead flips any live rows matching the target URLs to read.
func (h *Handler) setRowsRead(targets map[string]bool) {
	if h.view == nil {
		return
	}
	for url := range targets {
		if handle, ok := h.view.FindRow(url); ok {
			h.view.SetRowUnread(handle, false)
		}
	}
}
