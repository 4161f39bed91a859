// Package stack implements the ordered spell/ability stack and its
// resolution protocol (spec §3.5, §4.5), adapted from the teacher's
// internal/game/rules/stack.go StackManager — same LIFO push/pop/remove
// shape, generalized from a single StackItemKind string field into the
// captured-context StackEntry spec §3.5 describes, since resolution here
// must consult the entry's frozen snapshot rather than re-deriving it from
// the live object.
package stack

import (
	"errors"
	"sync"

	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/executor"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
)

// Kind distinguishes the three things that can occupy the stack.
type Kind string

const (
	KindSpell     Kind = "SPELL"
	KindActivated Kind = "ACTIVATED"
	KindTriggered Kind = "TRIGGERED"
)

// Entry is one item on the stack, capturing the full context needed to
// resolve as it was when the spell or ability went on the stack (spec
// §3.5) — resolution consults the entry, never the live object, which is
// why every targeting-relevant field is copied in rather than referenced.
type Entry struct {
	ObjectID   ids.ObjectId
	Controller string
	Kind       Kind

	Targets       []ids.ObjectId
	ChosenModes   []int
	XValue        int

	CastingMethod     string
	OptionalCostsPaid []string
	ManaSpentToCast   map[string]int

	SourceStableID  ids.StableId
	SourceSnapshot  *object.Snapshot
	TriggeringEvent *event.Event

	// Executors are run in order at resolution, spec §4.5 step 3. A
	// permanent spell's Executors is typically empty — its "effect" is
	// simply entering the battlefield, handled by IsPermanentSpell.
	Executors []executor.Executor

	// IsPermanentSpell marks a spell resolution that puts a permanent on
	// the battlefield rather than sending its source to the graveyard
	// (spec §4.5 step 5).
	IsPermanentSpell bool

	// Tagged carries forward any tags assigned during target selection, so
	// executors in Executors can reference each other's resolved targets
	// (spec §4.4 "Tagging").
	Tagged map[string][]ids.ObjectId
}

// Stack is the ordered sequence of pending spells and abilities.
type Stack struct {
	mu    sync.Mutex
	items []Entry
}

// New creates an empty stack.
func New() *Stack {
	return &Stack{}
}

// Push puts entry on top of the stack.
func (s *Stack) Push(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, entry)
}

// Pop removes and returns the top entry.
func (s *Stack) Pop() (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return Entry{}, errors.New("stack: pop of empty stack")
	}
	idx := len(s.items) - 1
	item := s.items[idx]
	s.items = s.items[:idx]
	return item, nil
}

// Peek returns the top entry without removing it.
func (s *Stack) Peek() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return Entry{}, false
	}
	return s.items[len(s.items)-1], true
}

// Remove deletes the entry with the given object id from anywhere in the
// stack (countering a spell, bouncing an ability off the stack), returning
// it and whether it was found.
func (s *Stack) Remove(id ids.ObjectId) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := len(s.items) - 1; idx >= 0; idx-- {
		if s.items[idx].ObjectID == id {
			item := s.items[idx]
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			return item, true
		}
	}
	return Entry{}, false
}

// List returns a copy of the stack, bottom first.
func (s *Stack) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.items))
	copy(out, s.items)
	return out
}

// IsEmpty reports whether the stack has no entries.
func (s *Stack) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// Len reports the current stack depth.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clone returns an independent deep-enough copy sufficient for snapshot/
// restore (spec §5).
func (s *Stack) Clone() *Stack {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := &Stack{items: make([]Entry, len(s.items))}
	for i, e := range s.items {
		ce := e
		ce.Targets = append([]ids.ObjectId(nil), e.Targets...)
		ce.ChosenModes = append([]int(nil), e.ChosenModes...)
		ce.OptionalCostsPaid = append([]string(nil), e.OptionalCostsPaid...)
		mana := make(map[string]int, len(e.ManaSpentToCast))
		for k, v := range e.ManaSpentToCast {
			mana[k] = v
		}
		ce.ManaSpentToCast = mana
		cp.items[i] = ce
	}
	return cp
}
