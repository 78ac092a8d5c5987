package indicator

import (
	"context"
	"fmt"

	"github.com/nhle/unread-tracker/internal/store"
)

// Aggregate badge labels.
const (
	LabelUnread = "You have unread notifications"
	LabelRead   = "All caught up"
)

// ViewCount identifies a per-view counter that locally tracked records
// are added onto.
type ViewCount string

const (
	CountGlobal        ViewCount = "global"
	CountParticipating ViewCount = "participating"
)

// Badge is the surface the updater writes the aggregate unread state to.
// It is implemented by the view adapter; on layouts without an indicator
// element no Badge exists and the updater is a no-op.
type Badge interface {
	// LiveUnread reports whether the live view's own indicator already
	// shows unread items, independent of local tracking.
	LiveUnread() bool

	// SetLabel sets the human-readable badge label.
	SetLabel(label string)

	// SetLocalCount exposes the number of locally tracked records as an
	// auxiliary attribute for other consumers. A count of zero removes
	// the attribute entirely; absence, not zero, signals "no local
	// tracking".
	SetLocalCount(n int)

	// SetExtraCount sets the additive overlay for a per-view counter.
	// The overlay is added on top of whatever number the server
	// reported for that view; it never replaces it.
	SetExtraCount(v ViewCount, n int)
}

// Updater recomputes the aggregate unread badge from the store and the
// live view's own signal. Every action handler runs Refresh immediately
// after a store write; a stale indicator after a write is a correctness
// bug.
type Updater struct {
	store store.Store
	badge Badge
}

// New creates an Updater. A nil badge is allowed and makes Refresh a
// no-op, for layouts that have no indicator element.
func New(s store.Store, b Badge) *Updater {
	return &Updater{store: s, badge: b}
}

// Refresh recomputes the badge state:
// hasUnread = live signal OR stored count > 0.
func (u *Updater) Refresh(ctx context.Context) error {
	if u.badge == nil {
		return nil
	}

	records, err := u.store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading records for indicator: %w", err)
	}

	stored := len(records)
	participating := 0
	for _, rec := range records {
		if rec.IsParticipating {
			participating++
		}
	}

	if u.badge.LiveUnread() || stored > 0 {
		u.badge.SetLabel(LabelUnread)
	} else {
		u.badge.SetLabel(LabelRead)
	}

	u.badge.SetLocalCount(stored)
	u.badge.SetExtraCount(CountGlobal, stored)
	u.badge.SetExtraCount(CountParticipating, participating)

	return nil
}
