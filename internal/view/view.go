package view

import (
	"errors"

	"github.com/nhle/unread-tracker/internal/model"
)

// ErrMissingAnchor indicates that a structural element the view expected
// (e.g., the container a new row should attach to) is absent. It is fatal
// to the current render pass only; persisted state is never touched, and
// the next navigation gets a fresh attempt.
var ErrMissingAnchor = errors.New("view: expected container element is missing")

// RowHandle is an opaque reference to one rendered item row. Callers hold
// it only to flip the row's visual read state; its concrete type belongs
// to the view adapter.
type RowHandle interface{}

// View is the capability interface the reconciler and the action handlers
// use to read and mutate the currently displayed list. It is the only
// coupling between the core and a concrete rendering layer: the live list
// is owned by the view, the record set by the store, and the reconciler
// merges one into the other through this contract.
type View interface {
	// EnsureList guarantees a list container exists, creating an empty
	// one only when the view otherwise shows a "nothing to see"
	// placeholder. Returns ErrMissingAnchor when the expected mount
	// point is absent.
	EnsureList() error

	// FindRow locates an existing row by normalized URL, whether it was
	// server-rendered or locally synthesized.
	FindRow(url string) (RowHandle, bool)

	// CreateRow synthesizes a row from the record's fields and prepends
	// it to the top of its repository group, creating the group at the
	// top of the list if it does not exist yet.
	CreateRow(rec model.NotificationRecord) (RowHandle, error)

	// SetRowUnread flips a row's visual read state in place.
	SetRowUnread(h RowHandle, unread bool)

	// PromoteUnreadGroups moves every repository group that currently
	// contains at least one unread row to the top of the list,
	// preserving relative order among the promoted groups.
	PromoteUnreadGroups()

	// VisitedURLs returns the normalized URLs the live view itself
	// reports as read/visited since the last render. Stored records for
	// these are destroyed on the next reconcile pass.
	VisitedURLs() []string
}
