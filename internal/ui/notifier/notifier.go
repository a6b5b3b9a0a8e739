// Package notifier fans out content change signals to live page views.
package notifier

import "sync"

// Change describes why content changed, e.g. "fixtures".
type Change struct {
	Source string
}

// Notifier broadcasts content changes to every subscriber. Subscribers only
// learn that something changed and re-render from the store themselves, so a
// slow subscriber that misses a change loses nothing.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Change]struct{}
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Change]struct{}),
	}
}

// Subscribe returns a channel that receives changes.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Change {
	ch := make(chan Change, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel. Unknown channels
// are ignored.
func (n *Notifier) Unsubscribe(ch chan Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Broadcast sends a change to all listeners without blocking. A listener
// that still has an undelivered change keeps that one.
func (n *Notifier) Broadcast(source string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- Change{Source: source}:
		default:
		}
	}
}

// Subscribers returns the number of active listeners.
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
