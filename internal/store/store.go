package store

import (
	"context"

	"github.com/nhle/unread-tracker/internal/model"
)

// Store defines the persistence contract for the tracked unread-record
// set. The set is logically unordered, but List returns records in
// insertion order and Replace preserves the order it is given; display
// ordering (most-recently-marked first) is derived from it, so it must
// survive persistence round-trips.
//
// There is no partial-update primitive. Callers read-modify-write the
// full list and accept last-writer-wins semantics: all writes originate
// from the single active session's user actions, and actions run
// serially.
type Store interface {
	// List returns the full current record set in insertion order.
	// A store that was never written to yields an empty slice, not an
	// error.
	List(ctx context.Context) ([]model.NotificationRecord, error)

	// Replace atomically overwrites the whole record set.
	Replace(ctx context.Context, records []model.NotificationRecord) error
}
