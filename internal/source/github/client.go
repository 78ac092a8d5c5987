package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gogithub "github.com/google/go-github/v82/github"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/source"
	"github.com/nhle/unread-tracker/internal/urlnorm"
)

// dateTitleFormat renders the human-readable timestamp shown next to a row.
const dateTitleFormat = "Jan 2, 2006, 3:04 PM MST"

// Client captures item snapshots and resolves the acting user through the
// GitHub REST API.
type Client struct {
	gh       *gogithub.Client
	username string
}

// NewClient creates a GitHub client. An empty baseURL targets
// api.github.com; otherwise baseURL is treated as a GitHub Enterprise
// root. The token may be empty for anonymous access to public items.
func NewClient(token, baseURL string) (*Client, error) {
	gh := gogithub.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	if baseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URL %s: %w", baseURL, err)
		}
	}
	return &Client{gh: gh}, nil
}

// SetViewer seeds the viewer login from configuration so Viewer never
// needs the API round trip.
func (c *Client) SetViewer(username string) {
	c.username = username
}

// Viewer returns the acting user's login, caching it after the first call.
func (c *Client) Viewer(ctx context.Context) (string, error) {
	if c.username != "" {
		return c.username, nil
	}

	user, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return "", &source.AuthError{Message: "token rejected while resolving viewer"}
		}
		return "", fmt.Errorf("resolving viewer: %w", err)
	}

	c.username = user.GetLogin()
	log.Debugf("github: resolved viewer %s", c.username)
	return c.username, nil
}

// FetchSnapshot captures a full NotificationRecord for one issue or pull
// request at this instant. The issues endpoint covers both kinds; pull
// requests need a second call to distinguish merged and draft states.
func (c *Client) FetchSnapshot(
	ctx context.Context,
	owner, repo string,
	number int,
) (*model.NotificationRecord, error) {
	issue, resp, err := c.gh.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, &source.AuthError{
				Message: fmt.Sprintf("token rejected fetching %s/%s#%d", owner, repo, number),
			}
		}
		return nil, fmt.Errorf("fetching %s/%s#%d: %w", owner, repo, number, err)
	}

	itemType := model.ItemTypeIssue
	rawState := issue.GetState()
	if issue.IsPullRequest() {
		itemType = model.ItemTypePullRequest
		rawState, err = c.pullRequestState(ctx, owner, repo, number, rawState)
		if err != nil {
			return nil, err
		}
	}

	state, err := model.ParseItemState(rawState)
	if err != nil {
		return nil, fmt.Errorf("snapshotting %s/%s#%d: %w", owner, repo, number, err)
	}

	viewer, err := c.Viewer(ctx)
	if err != nil && !source.IsAuthError(err) {
		return nil, err
	}

	updated := issue.GetUpdatedAt().Time
	rec := &model.NotificationRecord{
		URL:             urlnorm.Normalize(issue.GetHTMLURL()),
		Type:            itemType,
		State:           state,
		Title:           issue.GetTitle(),
		RepoFullName:    owner + "/" + repo,
		Date:            updated,
		DateTitle:       updated.Format(dateTitleFormat),
		Participants:    participants(issue),
		IsParticipating: isParticipating(issue, viewer),
		CreatedAt:       time.Now().UTC(),
	}

	log.Debugf("github: captured snapshot for %s (%s, %s)", rec.URL, rec.Type, rec.State)
	return rec, nil
}

// pullRequestState refines an issue-endpoint state into the PR-specific
// merged and draft variants.
func (c *Client) pullRequestState(
	ctx context.Context,
	owner, repo string,
	number int,
	fallback string,
) (string, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return "", fmt.Errorf("fetching PR %s/%s#%d: %w", owner, repo, number, err)
	}

	switch {
	case pr.GetMerged():
		return string(model.ItemStateMerged), nil
	case pr.GetDraft():
		return string(model.ItemStateDraft), nil
	default:
		return fallback, nil
	}
}

// participants collects up to MaxParticipants display users: the author
// first, then assignees, in the order the API provided them.
func participants(issue *gogithub.Issue) []model.Participant {
	var out []model.Participant

	add := func(u *gogithub.User) {
		if u == nil || len(out) >= model.MaxParticipants {
			return
		}
		for _, p := range out {
			if p.Username == u.GetLogin() {
				return
			}
		}
		out = append(out, model.Participant{
			Username:  u.GetLogin(),
			AvatarURL: u.GetAvatarURL(),
		})
	}

	add(issue.GetUser())
	for _, assignee := range issue.Assignees {
		add(assignee)
	}
	return out
}

// isParticipating reports whether the viewer authored or is assigned to
// the item. Computed once at snapshot time and never recomputed.
func isParticipating(issue *gogithub.Issue, viewer string) bool {
	if viewer == "" {
		return false
	}
	if issue.GetUser().GetLogin() == viewer {
		return true
	}
	for _, assignee := range issue.Assignees {
		if assignee.GetLogin() == viewer {
			return true
		}
	}
	return false
}
