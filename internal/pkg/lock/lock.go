// Package lock provides per-account mutual exclusion. A settlement or
// reconciliation transaction holds the account's lock for its whole
// duration, including the wait for the animated draw, so two operations on
// the same account never interleave at balance granularity. Operations on
// different accounts do not contend.
package lock

import "sync"

// AccountLock keys one mutex per account id.
type AccountLock struct {
	locks sync.Map // map[int64]*sync.Mutex
}

// New creates an AccountLock.
func New() *AccountLock {
	return &AccountLock{}
}

func (al *AccountLock) get(id int64) *sync.Mutex {
	if v, ok := al.locks.Load(id); ok {
		return v.(*sync.Mutex)
	}
	v, _ := al.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Lock acquires the lock for an account.
func (al *AccountLock) Lock(id int64) {
	al.get(id).Lock()
}

// Unlock releases the lock for an account.
func (al *AccountLock) Unlock(id int64) {
	if v, ok := al.locks.Load(id); ok {
		v.(*sync.Mutex).Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
func (al *AccountLock) TryLock(id int64) bool {
	return al.get(id).TryLock()
}

// WithLock runs fn while holding the account's lock.
func (al *AccountLock) WithLock(id int64, fn func() error) error {
	al.Lock(id)
	defer al.Unlock(id)
	return fn()
}
