package compose

import (
	"sync"
	"time"
)

// Store keeps one draft per wallet address, in process memory only. Drafts
// expire after the TTL; navigation away and back within it restores the
// draft, matching the ephemeral lifecycle of the composer form.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[string]*entry
	now    func() time.Time
}

type entry struct {
	draft   *Draft
	touched time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		ttl:    ttl,
		drafts: make(map[string]*entry),
		now:    time.Now,
	}
}

// With runs fn against the live draft for an address, creating an empty one
// if none exists or the previous one expired. The lock is held for the
// duration, so concurrent requests for the same wallet serialize instead of
// racing on the draft's fields.
func (s *Store) With(address string, fn func(*Draft)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()

	e, ok := s.drafts[address]
	if !ok {
		e = &entry{draft: &Draft{}}
		s.drafts[address] = e
	}
	e.touched = s.now()
	fn(e.draft)
}

// Clear discards the draft after a successful mint.
func (s *Store) Clear(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, address)
}

// sweep drops expired drafts. Called under the lock.
func (s *Store) sweep() {
	cutoff := s.now().Add(-s.ttl)
	for address, e := range s.drafts {
		if e.touched.Before(cutoff) {
			delete(s.drafts, address)
		}
	}
}
