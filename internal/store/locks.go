package store

import "sync"

// keyedLocks hands out one mutex per key so that check-then-act admission
// decisions for the same space, subject or check-in are serialized within
// the process. The storage constraints installed by internal/db remain the
// second line of defense across processes.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*keyLock)}
}

// lock acquires the mutex for key and returns the release func. Entries
// are reference-counted and removed once the last holder releases, so the
// map does not grow with the keyspace.
func (k *keyedLocks) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
