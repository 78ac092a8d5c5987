package model

// PageKind classifies which kind of view is currently active.
type PageKind string

const (
	// PageInbox is the notifications inbox (possibly sub-filtered).
	PageInbox PageKind = "inbox"

	// PageItemDetail is a single issue or pull request view. The
	// mark-unread action is only reachable from here.
	PageItemDetail PageKind = "item-detail"

	// PageDiscussionList is a repository's issue/PR listing.
	PageDiscussionList PageKind = "discussion-list"
)

// InboxFilter is the active sub-filter of the notifications inbox.
type InboxFilter string

const (
	FilterAll           InboxFilter = "all"
	FilterParticipating InboxFilter = "participating"
	FilterRepo          InboxFilter = "repo"
)

// PageContext is the explicit classification of the current view,
// produced once per navigation and passed into the reconciler and the
// page-context filter. It replaces ambient location inspection.
type PageContext struct {
	// Kind is the coarse page classification.
	Kind PageKind

	// Filter is the inbox sub-filter; meaningful only when Kind is
	// PageInbox.
	Filter InboxFilter

	// Repo is the "<owner>/<repo>" the view is scoped to when Filter
	// is FilterRepo, or when Kind is PageItemDetail.
	Repo string
}

// InboxAll returns the context for the unfiltered notifications inbox.
func InboxAll() PageContext {
	return PageContext{Kind: PageInbox, Filter: FilterAll}
}

// InboxParticipating returns the context for the participating-only inbox.
func InboxParticipating() PageContext {
	return PageContext{Kind: PageInbox, Filter: FilterParticipating}
}

// InboxRepo returns the context for a single-repository inbox view.
func InboxRepo(repoFullName string) PageContext {
	return PageContext{Kind: PageInbox, Filter: FilterRepo, Repo: repoFullName}
}

// ItemDetail returns the context for a single item's own page.
func ItemDetail(repoFullName string) PageContext {
	return PageContext{Kind: PageItemDetail, Repo: repoFullName}
}
