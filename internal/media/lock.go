package media

import "sync"

// entryLocks serializes work per entry ID.
// Mutexes are never removed. Callers only lock IDs that have been registered,
// so the set grows with the registry and not with request traffic.
type entryLocks struct {
	m sync.Map // map[string]*sync.Mutex
}

// lock acquires the mutex for id and returns its unlock function.
func (l *entryLocks) lock(id string) (unlock func()) {
	v, _ := l.m.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
