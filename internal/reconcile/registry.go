package reconcile

import (
	"context"
	"sync"
)

// entry tracks one running poller: its cancel function and the channel
// closed when its goroutine returns.
type entry struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Registry maps target filenames to their running pollers. The watcher
// goroutine mutates it on add/remove events while the supervisor iterates it
// during shutdown, so every access takes the mutex.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Add records a running poller under name. Any poller already registered
// there is cancelled and joined first — the initial scan and the directory
// watcher both start pollers, and when a filesystem event races the scan the
// earlier instance must not be orphaned by an overwrite. The loop re-checks
// after each join so two concurrent Adds cannot slip past each other either.
func (r *Registry) Add(name string, cancel context.CancelFunc, done chan struct{}) {
	for {
		r.mu.Lock()
		prev, ok := r.entries[name]
		if !ok {
			r.entries[name] = &entry{cancel: cancel, done: done}
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()

		prev.cancel()
		<-prev.done

		r.mu.Lock()
		if r.entries[name] == prev {
			delete(r.entries, name)
		}
		r.mu.Unlock()
	}
}

// Stop cancels the poller registered under name, waits for it to finish,
// then removes the entry. Returns false when nothing was registered.
// Stopping the same name twice is harmless: cancel is idempotent and done
// stays closed.
func (r *Registry) Stop(name string) bool {
	r.mu.Lock()
	e, ok := r.entries[name]
	r.mu.Unlock()
	if !ok {
		return false
	}

	e.cancel()
	<-e.done

	r.mu.Lock()
	delete(r.entries, name)
	r.mu.Unlock()
	return true
}

// StopAll cancels every registered poller, then waits for each to finish.
// Cancelling first lets all pollers wind down in parallel.
func (r *Registry) StopAll() {
	r.mu.Lock()
	stopping := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		stopping = append(stopping, e)
	}
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range stopping {
		e.cancel()
	}
	for _, e := range stopping {
		<-e.done
	}
}

// Len returns the number of registered pollers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
