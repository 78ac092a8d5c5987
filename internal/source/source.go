package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/unread-tracker/internal/model"
)

// AuthError indicates that authentication has failed or expired.
// It is returned by clients when a 401 response is received.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ServerNotification is one row of the server-rendered notification
// inbox, as the live service reports it. The local record set is merged
// into these rows; they are replaced wholesale on every refresh.
type ServerNotification struct {
	// URL is the item's public URL, already normalized.
	URL string

	// Title is the item's display title.
	Title string

	// RepoFullName is the "<owner>/<repo>" pair.
	RepoFullName string

	// Type is the item kind; only issues and pull requests appear.
	Type model.ItemType

	// Unread is the server's own read state for the row.
	Unread bool

	// Participating reports whether the server attributes the
	// notification to the user's direct involvement.
	Participating bool

	// UpdatedAt is the server timestamp of the latest activity.
	UpdatedAt time.Time
}

// InboxSource lists the server's notification inbox.
type InboxSource interface {
	// ListInbox returns the current server notification rows, in server
	// order. When participating is true only direct-involvement rows
	// are returned.
	ListInbox(ctx context.Context, participating bool) ([]ServerNotification, error)

	// ListRepoInbox returns the notification rows for a single
	// repository, so a repo-scoped view never shows rows from anywhere
	// else.
	ListRepoInbox(ctx context.Context, repoFullName string) ([]ServerNotification, error)
}

// SnapshotSource is the identity and item-context collaborator. It
// supplies the acting username and captures the full record snapshot the
// mark-unread transition stores. The snapshot is taken once; it is never
// refreshed afterwards.
type SnapshotSource interface {
	// Viewer returns the acting user's login.
	Viewer(ctx context.Context) (string, error)

	// FetchSnapshot captures a NotificationRecord for the given item at
	// this instant.
	FetchSnapshot(
		ctx context.Context,
		owner, repo string,
		number int,
	) (*model.NotificationRecord, error)
}
