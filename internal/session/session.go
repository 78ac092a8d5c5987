package session

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handle releases one registered subscription. Handles are owned by the
// Session that collected them and are released exactly once.
type Handle func()

// Subscription registers a handler with some event source and returns
// the Handle that unregisters it.
type Subscription func() Handle

// Session owns the set of live event subscriptions for one activation of
// the feature. Re-activation on navigation must be idempotent: Activate
// unconditionally tears down the previous set first, so the same gesture
// can never fire duplicate handlers.
type Session struct {
	mu      sync.Mutex
	handles []Handle
}

// New creates an empty, inactive session.
func New() *Session {
	return &Session{}
}

// Activate tears down any prior subscription set, then acquires the given
// subscriptions and retains their handles as the new owned set.
func (s *Session) Activate(subs ...Subscription) {
	s.Deactivate()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range subs {
		s.handles = append(s.handles, sub())
	}
	log.Debugf("session: activated %d subscriptions", len(s.handles))
}

// Deactivate releases exactly the set of handles acquired by the last
// Activate call. Calling it on an inactive session is a no-op.
func (s *Session) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.handles) == 0 {
		return
	}
	for _, release := range s.handles {
		release()
	}
	log.Debugf("session: released %d subscriptions", len(s.handles))
	s.handles = nil
}

// ActiveCount returns the number of currently held subscription handles.
func (s *Session) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}
