// Package player models a single seat at the table (spec §3.4).
package player

import (
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/mana"
)

// Player holds the per-seat state the rules care about. Zone contents
// themselves (library/hand/graveyard ordering) live here as ordered id
// slices; the objects they reference live in the engine's shared object
// table, the same split the teacher draws between internalPlayer (ids and
// counts) and engineGameState.cards (the backing objects).
type Player struct {
	ID   string
	Name string

	Life           int
	PoisonCounters int
	Energy         int

	Library   []ids.ObjectId // ordered, index 0 is the top
	Hand      []ids.ObjectId
	Graveyard []ids.ObjectId // ordered, most recently added last

	ManaPool *mana.Pool

	HasLost bool
	HasLeft bool

	LandsPlayedThisTurn int
	DrawsPrevented      int
}

// New creates a fresh player at the given starting life.
func New(id, name string, startingLife int) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Life:     startingLife,
		ManaPool: mana.NewPool(),
	}
}

// TopOfLibrary returns the top card's ObjectId and whether the library is
// non-empty.
func (p *Player) TopOfLibrary() (ids.ObjectId, bool) {
	if len(p.Library) == 0 {
		return "", false
	}
	return p.Library[0], true
}

// RemoveFromLibrary, RemoveFromHand and RemoveFromGraveyard each remove id
// from one ordered slice, returning whether it was found. There is one
// method per zone to keep this allocation-free and explicit,
// matching the teacher's preference for small single-purpose mutators over
// one generic "remove from any zone" helper.
func (p *Player) RemoveFromLibrary(id ids.ObjectId) bool {
	return removeID(&p.Library, id)
}

func (p *Player) RemoveFromHand(id ids.ObjectId) bool {
	return removeID(&p.Hand, id)
}

func (p *Player) RemoveFromGraveyard(id ids.ObjectId) bool {
	return removeID(&p.Graveyard, id)
}

func removeID(list *[]ids.ObjectId, id ids.ObjectId) bool {
	for i, existing := range *list {
		if existing == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep, independent copy sufficient for snapshot/restore
// (spec §5 "all state types must be cheaply cloneable").
func (p *Player) Clone() *Player {
	cp := *p
	cp.Library = append([]ids.ObjectId(nil), p.Library...)
	cp.Hand = append([]ids.ObjectId(nil), p.Hand...)
	cp.Graveyard = append([]ids.ObjectId(nil), p.Graveyard...)
	cp.ManaPool = p.ManaPool.Clone()
	return &cp
}
