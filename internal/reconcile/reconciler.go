package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/store"
	"github.com/nhle/unread-tracker/internal/urlnorm"
	"github.com/nhle/unread-tracker/internal/view"
)

// Listener is notified after the reconciler finishes populating a view,
// so unrelated augmentation code can react to the now-final list.
type Listener func(page model.PageContext, shown int)

// Reconciler folds stored unread records into the currently displayed
// list without ever duplicating a row. It reads the store and drives the
// view capability interface; it never mutates the store.
type Reconciler struct {
	store store.Store
	view  view.View

	// mu guards the listener registry: subscriptions churn on every
	// page activation while render passes may run on other goroutines.
	mu             sync.Mutex
	nextListenerID int
	listeners      map[int]Listener
}

// New creates a Reconciler over the given store and view adapter.
func New(s store.Store, v view.View) *Reconciler {
	return &Reconciler{
		store:     s,
		view:      v,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers a listener for the post-render signal and returns
// a release function that unregisters exactly that listener.
func (r *Reconciler) Subscribe(l Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextListenerID
	r.nextListenerID++
	r.listeners[id] = l
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// notify calls every registered listener with a snapshot of the registry,
// so releases during the callbacks cannot invalidate the iteration.
func (r *Reconciler) notify(page model.PageContext, shown int) {
	r.mu.Lock()
	snapshot := make([]Listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		snapshot = append(snapshot, l)
	}
	r.mu.Unlock()

	for _, l := range snapshot {
		l(page, shown)
	}
}

// Render merges the stored records relevant to the given page context
// into the live list:
//
//  1. Records that do not apply to the context are skipped entirely; if
//     nothing applies, the view is not touched at all.
//  2. Records are processed oldest-marked first, each prepended to the
//     top of its repository group, so the most recently marked-unread
//     item ends up first overall.
//  3. A record whose URL the view already shows is flipped to unread in
//     place rather than inserted again.
//  4. Repository groups containing unread rows are promoted to the top,
//     stable among themselves.
//
// A missing container is fatal for this render pass only and leaves the
// store untouched.
func (r *Reconciler) Render(ctx context.Context, page model.PageContext) error {
	records, err := r.store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	applicable := ApplicableRecords(records, page)
	if len(applicable) == 0 {
		return nil
	}

	if err := r.view.EnsureList(); err != nil {
		return fmt.Errorf("preparing list container: %w", err)
	}

	for _, rec := range applicable {
		url := urlnorm.Normalize(rec.URL)

		if h, ok := r.view.FindRow(url); ok {
			r.view.SetRowUnread(h, true)
			continue
		}

		h, err := r.view.CreateRow(rec)
		if err != nil {
			return fmt.Errorf("creating row for %s: %w", url, err)
		}
		r.view.SetRowUnread(h, true)
	}

	r.view.PromoteUnreadGroups()

	r.notify(page, len(applicable))

	return nil
}
