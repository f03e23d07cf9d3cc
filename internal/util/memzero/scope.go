package memzero

import "sync"

// Scope collects buffers that must be wiped when an invocation ends.
// Wipe is safe to call more than once; later calls are no-ops.
type Scope struct {
	mu     sync.Mutex
	bufs   [][]byte
	locked [][]byte
	done   bool
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Track registers b for wiping. When lock is set the pages backing b are
// pinned in memory until Wipe; a failed lock is not fatal.
func (s *Scope) Track(b []byte, lock bool) {
	if len(b) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		Zero(b)
		return
	}
	s.bufs = append(s.bufs, b)
	if lock && Lock(b) == nil {
		s.locked = append(s.locked, b)
	}
}

// Len returns the number of tracked buffers.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bufs)
}

// Wipe zeroes every tracked buffer, then unlocks any pinned pages.
func (s *Scope) Wipe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	for _, b := range s.bufs {
		Zero(b)
	}
	for _, b := range s.locked {
		_ = Unlock(b)
	}
	s.bufs = nil
	s.locked = nil
}
