package services

import "sync"

// UserLocks hands out one reader-writer lock per user, created lazily.
// Writers (ingest, remove, clear, reconcile) exclude each other and all
// readers on the same user; queries run concurrently with each other.
// Different users never share a lock, so cross-user operations are
// fully independent.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewUserLocks creates an empty lock registry.
func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.RWMutex)}
}

// Get returns the lock for a user, creating it on first use.
func (l *UserLocks) Get(userID string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.RWMutex{}
		l.locks[userID] = lock
	}
	return lock
}
