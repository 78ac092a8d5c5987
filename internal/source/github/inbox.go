package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	gogithub "github.com/google/go-github/v82/github"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/source"
	"github.com/nhle/unread-tracker/internal/urlnorm"
)

// inboxPageSize is how many notification rows are fetched per refresh.
const inboxPageSize = 50

// ListInbox returns the server's current notification rows in server
// order, restricted to issues and pull requests.
func (c *Client) ListInbox(
	ctx context.Context,
	participating bool,
) ([]source.ServerNotification, error) {
	opts := &gogithub.NotificationListOptions{
		All:           true,
		Participating: participating,
		ListOptions:   gogithub.ListOptions{PerPage: inboxPageSize},
	}

	notifications, resp, err := c.gh.Activity.ListNotifications(ctx, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, &source.AuthError{Message: "token rejected listing notifications"}
		}
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	rows := notificationRows(notifications)
	log.Debugf("github: listed %d inbox rows (participating=%v)", len(rows), participating)
	return rows, nil
}

// ListRepoInbox returns the notification rows of one repository, so the
// repo-scoped inbox never shows rows from other repositories.
func (c *Client) ListRepoInbox(
	ctx context.Context,
	repoFullName string,
) ([]source.ServerNotification, error) {
	owner, repo, ok := strings.Cut(repoFullName, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("malformed repository name %q", repoFullName)
	}

	opts := &gogithub.NotificationListOptions{
		All:         true,
		ListOptions: gogithub.ListOptions{PerPage: inboxPageSize},
	}

	notifications, resp, err := c.gh.Activity.ListRepositoryNotifications(
		ctx, owner, repo, opts,
	)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, &source.AuthError{Message: "token rejected listing notifications"}
		}
		return nil, fmt.Errorf("listing notifications for %s: %w", repoFullName, err)
	}

	rows := notificationRows(notifications)
	log.Debugf("github: listed %d inbox rows for %s", len(rows), repoFullName)
	return rows, nil
}

// notificationRows converts API notifications into inbox rows, keeping
// only issues and pull requests.
func notificationRows(notifications []*gogithub.Notification) []source.ServerNotification {
	var rows []source.ServerNotification
	for _, n := range notifications {
		var itemType model.ItemType
		switch n.GetSubject().GetType() {
		case "Issue":
			itemType = model.ItemTypeIssue
		case "PullRequest":
			itemType = model.ItemTypePullRequest
		default:
			// Releases, discussions, CI runs: not tracked here.
			continue
		}

		rows = append(rows, source.ServerNotification{
			URL:           urlnorm.Normalize(subjectHTMLURL(n.GetSubject().GetURL())),
			Title:         n.GetSubject().GetTitle(),
			RepoFullName:  n.GetRepository().GetFullName(),
			Type:          itemType,
			Unread:        n.GetUnread(),
			Participating: n.GetReason() != "subscribed",
			UpdatedAt:     n.GetUpdatedAt().Time,
		})
	}
	return rows
}

// subjectHTMLURL converts a notification subject's API URL into the
// public item URL, e.g.
// https://api.github.com/repos/o/r/pulls/7 -> https://github.com/o/r/pull/7.
func subjectHTMLURL(apiURL string) string {
	u := strings.Replace(apiURL, "//api.github.com/repos/", "//github.com/", 1)
	u = strings.Replace(u, "/api/v3/repos/", "/", 1)
	u = strings.Replace(u, "/pulls/", "/pull/", 1)
	return u
}
