package model

import (
	"fmt"
	"time"
)

// ItemType identifies the kind of GitHub item a record tracks.
type ItemType string

const (
	ItemTypeIssue       ItemType = "issue"
	ItemTypePullRequest ItemType = "pull-request"
)

// ItemState is the lifecycle state of an item at the moment it was
// marked unread. It is captured once and never refreshed.
type ItemState string

const (
	ItemStateOpen   ItemState = "open"
	ItemStateClosed ItemState = "closed"
	ItemStateMerged ItemState = "merged"
	ItemStateDraft  ItemState = "draft"
)

// UnknownStateError indicates that an item reported a state variant this
// system does not recognize. The mark-unread transition that encountered
// it is aborted; the store is left unmodified.
type UnknownStateError struct {
	State string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("unknown item state %q", e.State)
}

// ParseItemState validates a raw state string against the known variants.
func ParseItemState(raw string) (ItemState, error) {
	switch ItemState(raw) {
	case ItemStateOpen, ItemStateClosed, ItemStateMerged, ItemStateDraft:
		return ItemState(raw), nil
	}
	return "", &UnknownStateError{State: raw}
}

// MaxParticipants caps how many participants are kept on a record.
// Participants are display-only; anything beyond this is dropped.
const MaxParticipants = 3

// Participant is a user associated with an item, shown as an avatar.
type Participant struct {
	Username  string `json:"username" db:"username"`
	AvatarURL string `json:"avatar_url" db:"avatar_url"`
}

// NotificationRecord is the locally persisted description of one item the
// user marked unread. Records are immutable once created except for
// deletion; no field is ever patched in place.
type NotificationRecord struct {
	// ID is the internal unique identifier for this record.
	ID string `json:"id"`

	// URL is the canonical item identifier, normalized and
	// fragment-stripped. Unique within the store at any instant.
	URL string `json:"url"`

	// Type identifies whether the item is an issue or a pull request.
	Type ItemType `json:"type"`

	// State is the item state snapshot taken at mark-unread time.
	State ItemState `json:"state"`

	// Title is the display string for the item.
	Title string `json:"title"`

	// RepoFullName is the "<owner>/<repo>" pair the item belongs to.
	RepoFullName string `json:"repo_full_name"`

	// Date is the machine-readable timestamp of the most recent
	// relevant event on the item.
	Date time.Time `json:"date"`

	// DateTitle is the human-readable form of Date.
	DateTitle string `json:"date_title"`

	// IsParticipating reports whether the acting user is an author,
	// commenter, or assignee on the item. Computed once at creation.
	IsParticipating bool `json:"is_participating"`

	// Participants holds up to MaxParticipants display users, in the
	// order the item page provided them.
	Participants []Participant `json:"participants,omitempty"`

	// CreatedAt is when the record was created locally.
	CreatedAt time.Time `json:"created_at"`
}
