package usecase

import (
	"errors"
	"sync"
)

// ErrInFlight signals that the same article is already being worked on.
// Callers treat it as "try again later", not as a failure.
var ErrInFlight = errors.New("operation already in flight for article")

// inflightSet enforces at-most-one-in-flight per article id so idempotent
// per-article operations never duplicate their external calls.
type inflightSet struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

func newInflightSet() *inflightSet {
	return &inflightSet{ids: map[int64]struct{}{}}
}

// acquire reserves an id; the release func must be called when done.
func (s *inflightSet) acquire(id int64) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return nil, ErrInFlight
	}
	s.ids[id] = struct{}{}

	return func() {
		s.mu.Lock()
		delete(s.ids, id)
		s.mu.Unlock()
	}, nil
}
