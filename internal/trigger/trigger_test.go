package trigger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvid-games/cardengine/internal/event"
)

func TestObserveMatchesRegisteredDefinition(t *testing.T) {
	m := NewManager()
	m.Register(Definition{
		ID:         "whenever-damage",
		SourceID:   "bear",
		Controller: "alice",
		EventType:  event.TypeDamage,
	})

	m.Observe(event.Event{Type: event.TypeDamage, SourceID: "bear"})
	require.True(t, m.HasPending())

	flushed := m.Flush(nil)
	require.Len(t, flushed, 1)
	require.Equal(t, "alice", flushed[0].Controller)
	require.False(t, m.HasPending())
}

func TestObserveIgnoresNonMatchingEventType(t *testing.T) {
	m := NewManager()
	m.Register(Definition{ID: "t1", EventType: event.TypeDamage})
	m.Observe(event.Event{Type: event.TypeDraw})
	require.False(t, m.HasPending())
}

func TestObserveHonorsCondition(t *testing.T) {
	m := NewManager()
	m.Register(Definition{
		ID:        "big-damage-only",
		EventType: event.TypeDamage,
		Condition: func(ev event.Event) bool { return ev.Amount >= 5 },
	})

	m.Observe(event.Event{Type: event.TypeDamage, Amount: 2})
	require.False(t, m.HasPending())

	m.Observe(event.Event{Type: event.TypeDamage, Amount: 7})
	require.True(t, m.HasPending())
}

func TestOnceTriggerUnregistersAfterFiring(t *testing.T) {
	m := NewManager()
	m.Register(Definition{ID: "one-time", EventType: event.TypeDraw, Once: true})

	m.Observe(event.Event{Type: event.TypeDraw})
	require.Len(t, m.Flush(nil), 1)

	m.Observe(event.Event{Type: event.TypeDraw})
	require.False(t, m.HasPending())
}

func TestFlushDropsFalseInterveningIf(t *testing.T) {
	m := NewManager()
	alive := true
	m.Register(Definition{
		ID:            "intervening",
		EventType:     event.TypeDamage,
		InterveningIf: func() bool { return alive },
	})

	m.Observe(event.Event{Type: event.TypeDamage})
	alive = false
	require.Empty(t, m.Flush(nil))
}

func TestFlushOrdersByActiveFirstComparator(t *testing.T) {
	m := NewManager()
	m.Register(Definition{ID: "p2-trigger", Controller: "bob", EventType: event.TypeDamage})
	m.Register(Definition{ID: "p1-trigger", Controller: "alice", EventType: event.TypeDamage})

	m.Observe(event.Event{Type: event.TypeDamage})

	activePlayer := "alice"
	flushed := m.Flush(func(a, b Pending) bool {
		if a.Controller == activePlayer {
			return true
		}
		if b.Controller == activePlayer {
			return false
		}
		return false
	})

	require.Len(t, flushed, 2)
	require.Equal(t, "alice", flushed[0].Controller)
	require.Equal(t, "bob", flushed[1].Controller)
}

func TestUnregisterRemovesDefinition(t *testing.T) {
	m := NewManager()
	m.Register(Definition{ID: "gone-soon", EventType: event.TypeDamage})
	m.Unregister("gone-soon")

	m.Observe(event.Event{Type: event.TypeDamage})
	require.False(t, m.HasPending())
}

func TestDelayedQueueFiresWithinTurnWindow(t *testing.T) {
	q := NewDelayedQueue()
	q.Schedule(Delayed{
		ID:            "exile-at-end-step",
		OneShot:       true,
		NotBeforeTurn: 3,
		ExpiresAtTurn: 4,
		Match:         func(ev event.Event) bool { return ev.Type == event.TypeStepChanged },
		Build: func(ev event.Event) Pending {
			return Pending{ID: "exile-at-end-step", Controller: "alice"}
		},
	})

	require.Empty(t, q.Check(event.Event{Type: event.TypeStepChanged}, 2))
	fired := q.Check(event.Event{Type: event.TypeStepChanged}, 3)
	require.Len(t, fired, 1)
	require.Equal(t, 0, q.Active())
}

func TestDelayedQueueExpiresWithoutFiring(t *testing.T) {
	q := NewDelayedQueue()
	q.Schedule(Delayed{
		ID:            "expires-unused",
		NotBeforeTurn: 1,
		ExpiresAtTurn: 2,
		Match:         func(ev event.Event) bool { return ev.Type == event.TypeDamage },
	})

	require.Empty(t, q.Check(event.Event{Type: event.TypeDraw}, 5))
	require.Equal(t, 0, q.Active())
}
