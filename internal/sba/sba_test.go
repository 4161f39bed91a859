package sba

import (
	"testing"

	"github.com/corvid-games/cardengine/internal/continuous"
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
	"github.com/corvid-games/cardengine/internal/player"
	"github.com/corvid-games/cardengine/internal/zone"
	"github.com/stretchr/testify/require"
)

// fakeView is a minimal sba.View backing a handful of objects/players
// directly in maps, enough to drive Check/Apply without pulling in the
// engine package (which itself imports sba, so a real engine.State can't be
// used here without a cycle).
type fakeView struct {
	objects map[ids.ObjectId]*object.Object
	players map[string]*player.Player
	layers  *continuous.System
	reg     *event.Registry
	turn    int
	moved   map[ids.ObjectId]string
	removed map[ids.ObjectId]bool
}

func newFakeView() *fakeView {
	return &fakeView{
		objects: map[ids.ObjectId]*object.Object{},
		players: map[string]*player.Player{},
		layers:  continuous.NewSystem(),
		reg:     event.NewRegistry(),
		moved:   map[ids.ObjectId]string{},
		removed: map[ids.ObjectId]bool{},
	}
}

func (v *fakeView) addCreature(id string, controller string, power, toughness int) *object.Object {
	o := &object.Object{
		ID:            ids.ObjectId(id),
		Kind:          object.KindCard,
		Zone:          zone.Battlefield,
		Owner:         controller,
		Controller:    controller,
		Name:          id,
		CardTypes:     []string{"Creature"},
		BasePower:     power,
		HasBasePower:  true,
		BaseToughness: toughness,
		HasBaseTough:  true,
		Counters:      make(object.Counters),
	}
	v.objects[o.ID] = o
	return o
}

func (v *fakeView) BattlefieldObjects() []*object.Object {
	var out []*object.Object
	for _, o := range v.objects {
		if o.Zone == zone.Battlefield {
			out = append(out, o)
		}
	}
	return out
}

func (v *fakeView) Object(id ids.ObjectId) (*object.Object, bool) {
	o, ok := v.objects[id]
	return o, ok
}

func (v *fakeView) Players() []*player.Player {
	var out []*player.Player
	for _, p := range v.players {
		out = append(out, p)
	}
	return out
}

func (v *fakeView) Player(id string) (*player.Player, bool) {
	p, ok := v.players[id]
	return p, ok
}

func (v *fakeView) Calculate(o *object.Object) *continuous.Snapshot {
	return v.layers.Calculate(o)
}

func (v *fakeView) MoveZone(id ids.ObjectId, to string) (ids.ObjectId, error) {
	v.moved[id] = to
	if o, ok := v.objects[id]; ok {
		o.Zone = zone.Parse(to)
	}
	return id, nil
}

func (v *fakeView) RemoveFromGame(id ids.ObjectId) {
	v.removed[id] = true
	delete(v.objects, id)
}

func (v *fakeView) DispatchEvent(ev event.Event) event.Result {
	return v.reg.Dispatch(ev, ev.PlayerID, nil)
}

func (v *fakeView) CurrentTurn() int { return v.turn }

// TestLethalDamagePreventedByRegenerationShield exercises spec §8.3's
// regeneration boundary case end to end: a creature dealt exactly lethal
// damage with a one-shot regeneration shield installed must be kept off the
// graveyard-bound MoveZone, tapped, and have its damage cleared by the
// shield's OnApply, rather than moving to the graveyard regardless.
func TestLethalDamagePreventedByRegenerationShield(t *testing.T) {
	v := newFakeView()
	bear := v.addCreature("bear", "alice", 2, 2)
	bear.DamageMarked = 2 // exactly lethal

	v.reg.Install(&event.Replacement{
		ID:      "regen-bear",
		Kind:    event.ReplacementDestroy,
		Action:  event.ActionPrevent,
		OneShot: true,
		AppliesTo: func(ev event.Event) bool {
			return ev.Type == event.TypeDestroy && ev.TargetID == bear.ID
		},
		OnApply: func(event.Event) {
			bear.Tapped = true
			bear.DamageMarked = 0
			bear.DeathtouchMarked = false
		},
	})

	actions := Check(v)
	require.Len(t, actions, 1)
	require.Equal(t, KindCreatureDies, actions[0].Kind)

	changed := Apply(v, actions, nil)
	require.False(t, changed, "the shield should have absorbed the only action, so nothing else changed")

	require.Equal(t, zone.Battlefield, bear.Zone, "regenerated creature must stay on the battlefield")
	require.True(t, bear.Tapped)
	require.Zero(t, bear.DamageMarked)
	require.Empty(t, v.moved, "MoveZone must never be called for a prevented destroy")

	// The shield is one-shot: a second lethal hit with no shield left dies.
	bear.DamageMarked = 5
	actions = Check(v)
	require.Len(t, actions, 1)
	Apply(v, actions, nil)
	require.Equal(t, zone.Graveyard, bear.Zone)
}

// TestCreatureDiesWithoutReplacement confirms the ordinary path (no
// replacement registered) still sends a lethally damaged creature to the
// graveyard, guarding against the fix above over-suppressing the move.
func TestCreatureDiesWithoutReplacement(t *testing.T) {
	v := newFakeView()
	bear := v.addCreature("bear", "alice", 2, 2)
	bear.DamageMarked = 2

	actions := Check(v)
	require.Len(t, actions, 1)
	require.True(t, Apply(v, actions, nil))
	require.Equal(t, zone.Graveyard, bear.Zone)
	require.Equal(t, zone.Graveyard.String(), v.moved[bear.ID])
}

// TestCounterAnnihilationThenDeath runs RunToFixpoint on a 1/1 carrying one
// +1/+1 and one -1/-1 counter and 1 damage. The paired counters cancel, so
// toughness is 1 and the damage is already lethal: the first pass both
// annihilates the counters and moves the creature to the graveyard
// (spec §8.4 scenario 4).
func TestCounterAnnihilationThenDeath(t *testing.T) {
	v := newFakeView()
	c := v.addCreature("squire", "alice", 1, 1)
	c.Counters.Add(object.CounterPlusOnePlusOne, 1)
	c.Counters.Add(object.CounterMinusOneMinusOne, 1)
	// Net toughness stays 1 before annihilation (+1-1=0 adjustment), but
	// once the paired counters annihilate there is nothing left to offset a
	// lethal hit applied in the same turn.
	c.DamageMarked = 1

	passes := RunToFixpoint(v, nil)
	require.GreaterOrEqual(t, passes, 1)
	require.Zero(t, c.Counters.Count(object.CounterPlusOnePlusOne))
	require.Zero(t, c.Counters.Count(object.CounterMinusOneMinusOne))
	require.Equal(t, zone.Graveyard, c.Zone)
}

// TestLegendRuleAsksChooserAndKeepsOneCopy models rule 201.5b: two
// same-name legendary permanents under the same controller collapse into
// one, with the LegendChooser deciding which survives.
func TestLegendRuleAsksChooserAndKeepsOneCopy(t *testing.T) {
	v := newFakeView()
	a := v.addCreature("Geralf", "alice", 2, 2)
	a.Supertypes = []string{"Legendary"}
	b := v.addCreature("geralf-2", "alice", 2, 2)
	b.ID = "geralf-2"
	b.Name = "Geralf"
	b.Supertypes = []string{"Legendary"}
	v.objects[b.ID] = b

	actions := Check(v)
	var legendAction *Action
	for i := range actions {
		if actions[i].Kind == KindLegendRule {
			legendAction = &actions[i]
		}
	}
	require.NotNil(t, legendAction)
	require.ElementsMatch(t, []ids.ObjectId{a.ID, b.ID}, legendAction.Group)

	chooser := chooseLegendFunc(func(controller string, group []ids.ObjectId) ids.ObjectId {
		require.Equal(t, "alice", controller)
		return b.ID
	})

	require.True(t, Apply(v, actions, chooser))
	require.Equal(t, zone.Battlefield, b.Zone, "the kept copy stays on the battlefield")
	require.Equal(t, zone.Graveyard, a.Zone, "the non-kept copy is put into the graveyard")
}

type chooseLegendFunc func(controller string, group []ids.ObjectId) ids.ObjectId

func (f chooseLegendFunc) ChooseLegendToKeep(controller string, group []ids.ObjectId) ids.ObjectId {
	return f(controller, group)
}

// TestPlayerLosesFromZeroLife covers the player-scoped SBA branch.
func TestPlayerLosesFromZeroLife(t *testing.T) {
	v := newFakeView()
	v.players["alice"] = &player.Player{ID: "alice", Life: 0}

	actions := Check(v)
	require.Len(t, actions, 1)
	require.Equal(t, KindPlayerLoses, actions[0].Kind)

	require.True(t, Apply(v, actions, nil))
	require.True(t, v.players["alice"].HasLost)
}
