package platform

import (
	"sync"
	"sync/atomic"
)

// Mutex is an opaque handle for single-process, multi-thread mutual
// exclusion. It makes no reentrancy guarantee: a thread that grabs a mutex
// it already holds deadlocks. The owning collaborator guarantees Destroy is
// called exactly once, and only when no thread holds or awaits the lock.
type Mutex struct {
	mu        sync.Mutex
	destroyed atomic.Bool
}

// NewMutex creates a new mutex handle.
func NewMutex() *Mutex {
	return &Mutex{}
}

// Grab blocks the calling thread indefinitely until the lock is obtained;
// there is no timeout. It reports false only on a wait-object failure, which
// for this primitive means grabbing a destroyed handle.
func (m *Mutex) Grab() bool {
	if m.destroyed.Load() {
		return false
	}

	m.mu.Lock()

	return true
}

// Release unlocks the mutex. Release by a thread that does not hold the
// lock is undefined per the native primitive; here it frees the lock out
// from under the holder, and releasing a mutex nobody holds aborts the
// program with an unrecoverable runtime error.
func (m *Mutex) Release() {
	m.mu.Unlock()
}

// Destroy invalidates the handle. Any later Grab fails.
func (m *Mutex) Destroy() {
	m.destroyed.Store(true)
}
