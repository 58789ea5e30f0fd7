package store

import "sync"

// userLocks serializes writers per user. SQLite already serializes at
// the database level; this lock makes the read-modify-write span in
// CommitAttempt atomic without relying on immediate transactions.
type userLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: make(map[string]*sync.Mutex)}
}

// acquire locks the named user's mutex and returns it for unlocking.
func (l *userLocks) acquire(userID string) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.m[userID]
	if !ok {
		m = &sync.Mutex{}
		l.m[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m
}
