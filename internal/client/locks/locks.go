// Package locks provides the advisory-lock capability used to keep multiple
// local contexts from starting the same expensive task (a per-book batch
// translation). The lock is scoped to one replica; it never coordinates
// across machines. Platforms without a usable coordination primitive degrade
// to the always-succeed implementation rather than failing.
package locks

import "sync"

// Locker hands out named advisory locks. TryAcquire never blocks: it returns
// a release function and true, or nil and false when the name is held.
type Locker interface {
	TryAcquire(name string) (release func(), ok bool)
}

// Registry is an in-process Locker.
type Registry struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{held: make(map[string]struct{})}
}

func (r *Registry) TryAcquire(name string) (func(), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.held[name]; taken {
		return nil, false
	}
	r.held[name] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.held, name)
			r.mu.Unlock()
		})
	}
	return release, true
}

// Noop always grants the lock. Used where no coordination primitive exists.
type Noop struct{}

func (Noop) TryAcquire(string) (func(), bool) {
	return func() {}, true
}
