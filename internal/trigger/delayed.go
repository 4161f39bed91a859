package trigger

import (
	"sync"

	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
)

// Delayed is a future effect bound to a future event (spec §4.3
// "Delayed triggers"), e.g. "exile that token at the beginning of the next
// end step" (supplemented feature from original_source's
// exile_tagged_when_source_leaves.rs — spec §8.4 scenario 3, Geist of
// Saint Traft).
type Delayed struct {
	ID             string
	Match          func(event.Event) bool
	Controller     string
	TargetObjects  []ids.ObjectId
	OneShot        bool
	NotBeforeTurn  int
	ExpiresAtTurn  int // 0 means never expires
	Build          func(event.Event) Pending
}

// DelayedQueue holds the delayed triggers scheduled in a game.
type DelayedQueue struct {
	mu    sync.Mutex
	items map[string]Delayed
}

// NewDelayedQueue creates an empty delayed-trigger queue.
func NewDelayedQueue() *DelayedQueue {
	return &DelayedQueue{items: make(map[string]Delayed)}
}

// Schedule registers a delayed trigger.
func (q *DelayedQueue) Schedule(d Delayed) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items[d.ID] = d
}

// Check evaluates ev (occurring on the given turn number) against every
// scheduled delayed trigger still in its active turn window, removing
// one-shot triggers that fire.
func (q *DelayedQueue) Check(ev event.Event, currentTurn int) []Pending {
	q.mu.Lock()
	defer q.mu.Unlock()

	var fired []Pending
	var toRemove []string
	for id, d := range q.items {
		if currentTurn < d.NotBeforeTurn {
			continue
		}
		if d.ExpiresAtTurn != 0 && currentTurn > d.ExpiresAtTurn {
			toRemove = append(toRemove, id)
			continue
		}
		if d.Match == nil || !d.Match(ev) {
			continue
		}
		if d.Build != nil {
			fired = append(fired, d.Build(ev))
		}
		if d.OneShot {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		delete(q.items, id)
	}
	return fired
}

// Active returns how many delayed triggers are still scheduled (used by
// tests/diagnostics — not required by the priority loop itself).
func (q *DelayedQueue) Active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clone returns an independent copy sufficient for snapshot/restore (spec
// §5, §6.3).
func (q *DelayedQueue) Clone() *DelayedQueue {
	q.mu.Lock()
	defer q.mu.Unlock()
	cp := &DelayedQueue{items: make(map[string]Delayed, len(q.items))}
	for id, d := range q.items {
		d.TargetObjects = append([]ids.ObjectId(nil), d.TargetObjects...)
		cp.items[id] = d
	}
	return cp
}
