// Package trigger implements triggered-ability matching, the pending-
// trigger queue (APNAP order), and delayed triggers (spec §4.3), adapted
// from the teacher's internal/game/rules/trigger.go.
package trigger

import (
	"sort"
	"sync"

	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
)

// Definition matches against the event stream: Observe queues a Pending
// for it when an event matches EventType and Condition.
type Definition struct {
	ID         string
	SourceID   ids.ObjectId
	Controller string
	EventType  event.Type
	Condition  func(event.Event) bool

	// InterveningIf is checked when Flush puts the trigger on the stack; it
	// is not checked again on resolution. nil means no intervening-if
	// clause.
	InterveningIf func() bool

	Once bool
}

// Pending is the result of a Definition matching an event: a trigger
// waiting to be put on the stack at the next priority checkpoint.
type Pending struct {
	ID               string
	AbilitySnapshot  object.Ability
	Controller       string
	TriggeringEvent  event.Event
	InterveningIf    func() bool
}

// Manager stores and evaluates trigger definitions, and accumulates
// pending triggers between priority checkpoints. Mirrors the teacher's
// TriggerManager, extended with the pending-queue accumulation spec §4.3
// requires (the teacher instead returns stack items directly from Handle).
type Manager struct {
	mu       sync.Mutex
	triggers map[string]Definition
	pending  []Pending
}

// NewManager creates an empty trigger manager.
func NewManager() *Manager {
	return &Manager{triggers: make(map[string]Definition)}
}

// Register adds a trigger definition.
func (m *Manager) Register(d Definition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers[d.ID] = d
}

// Unregister removes a trigger definition by id (e.g. its source left the
// battlefield and the ability no longer exists).
func (m *Manager) Unregister(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.triggers, id)
}

// Observe matches ev against every registered definition, queuing a Pending
// trigger for each match. Matching does not itself check InterveningIf:
// Flush checks it once, when the pending trigger is put on the stack, and
// nothing in the engine checks it again on resolution.
func (m *Manager) Observe(ev event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var toRemove []string
	for id, def := range m.triggers {
		if def.EventType != ev.Type {
			continue
		}
		if def.Condition != nil && !def.Condition(ev) {
			continue
		}
		m.pending = append(m.pending, Pending{
			ID:              id,
			Controller:      def.Controller,
			TriggeringEvent: ev,
			InterveningIf:   def.InterveningIf,
		})
		if def.Once {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		delete(m.triggers, id)
	}
}

// Flush drains the pending-trigger queue, dropping any whose
// intervening-if clause is now false (spec §4.3 "if false at either point
// the trigger fizzles") and returns the rest ordered APNAP: the active
// player's triggers first (in the order queued), then each other player's
// in turn order, as supplied by activeFirst.
func (m *Manager) Flush(activeFirst func(a, b Pending) bool) []Pending {
	m.mu.Lock()
	queued := m.pending
	m.pending = nil
	m.mu.Unlock()

	live := queued[:0]
	for _, p := range queued {
		if p.InterveningIf != nil && !p.InterveningIf() {
			continue
		}
		live = append(live, p)
	}

	if activeFirst != nil {
		sort.SliceStable(live, func(i, j int) bool { return activeFirst(live[i], live[j]) })
	}
	return live
}

// HasPending reports whether any triggers are queued awaiting a flush.
func (m *Manager) HasPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending) > 0
}

// Clone returns an independent copy sufficient for snapshot/restore (spec
// §5, §6.3).
func (m *Manager) Clone() *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := &Manager{triggers: make(map[string]Definition, len(m.triggers))}
	for id, d := range m.triggers {
		cp.triggers[id] = d
	}
	cp.pending = append([]Pending(nil), m.pending...)
	return cp
}
