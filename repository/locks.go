package repository

import "sync"

// accountLocks hands out one RWMutex per account so that fills for the same
// user serialize while different users proceed independently. Locks are
// created lazily and never removed; the set of active users is small
// relative to the cost of eviction bookkeeping.
type accountLocks struct {
	locks sync.Map // userID -> *sync.RWMutex
}

func (l *accountLocks) get(userID string) *sync.RWMutex {
	if mu, ok := l.locks.Load(userID); ok {
		return mu.(*sync.RWMutex)
	}
	mu, _ := l.locks.LoadOrStore(userID, &sync.RWMutex{})
	return mu.(*sync.RWMutex)
}
