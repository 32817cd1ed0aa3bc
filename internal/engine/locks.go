package engine

import "sync"

// sessionLocks hands out one mutex per session date. The store offers no
// transactions, so every mutating engine operation runs under its session's
// mutex; that turns the store's read-then-write sequences into critical
// sections observed atomically by all other callers in this process.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// forSession returns the mutex guarding the given session date, creating it
// on first use. Lock entries are never evicted; the set of dates a process
// sees is small.
func (s *sessionLocks) forSession(date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[date]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[date] = lock
	}
	return lock
}
