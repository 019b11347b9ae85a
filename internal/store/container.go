// Package store holds the client-side domain state: three containers
// (auth, projects, tickets) whose operations call the gateway and
// reconcile results into local collections. Containers are constructed
// once at process start and handed to the presentation layer
// explicitly; there are no package-level singletons.
//
// Operations are plain blocking methods; callers dispatch them from
// their own goroutines. State mutation is serialized internally, so
// two in-flight operations on the same record resolve last-write-wins
// in completion order. That race is part of the contract, not a bug.
package store

import "sync"

type cloneable[S any] interface {
	// Clone returns a snapshot safe to hand to readers.
	Clone() S
}

// container serializes mutations of a state value and fans snapshots
// out to subscribers.
type container[S cloneable[S]] struct {
	mu      sync.Mutex
	state   S
	subs    map[int]func(S)
	nextSub int
}

func newContainer[S cloneable[S]](initial S) *container[S] {
	return &container[S]{state: initial, subs: map[int]func(S){}}
}

// State returns a snapshot of the current state.
func (c *container[S]) State() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe registers a listener invoked with a snapshot after every
// change. The returned handle unsubscribes.
func (c *container[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// update runs fn under the state lock. When fn reports a mutation,
// subscribers are notified outside the lock with a fresh snapshot.
func (c *container[S]) update(fn func(*S) bool) {
	c.mu.Lock()
	if !fn(&c.state) {
		c.mu.Unlock()
		return
	}
	snap := c.state.Clone()
	fns := make([]func(S), 0, len(c.subs))
	for _, f := range c.subs {
		fns = append(fns, f)
	}
	c.mu.Unlock()

	for _, f := range fns {
		f(snap)
	}
}

// set is update for mutations that always apply.
func (c *container[S]) set(fn func(*S)) {
	c.update(func(s *S) bool {
		fn(s)
		return true
	})
}
