package combat

import (
	"testing"

	"github.com/corvid-games/cardengine/internal/continuous"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
	"github.com/stretchr/testify/require"
)

// fakeView is a minimal combat.View backed by an in-memory object table and
// a real continuous.System, standing in for engine.State (which can't be
// imported here: engine imports combat).
type fakeView struct {
	objects     map[ids.ObjectId]*object.Object
	layers      *continuous.System
	planeswalkers map[ids.ObjectId]string
	life        map[string]int
	damageLog   []damageEvent
}

type damageEvent struct {
	source, target ids.ObjectId
	player         string
	amount         int
	deathtouch     bool
	lifelink       bool
}

func newFakeView() *fakeView {
	return &fakeView{
		objects:       map[ids.ObjectId]*object.Object{},
		layers:        continuous.NewSystem(),
		planeswalkers: map[ids.ObjectId]string{},
		life:          map[string]int{},
	}
}

func (v *fakeView) add(o *object.Object) *object.Object {
	if o.Counters == nil {
		o.Counters = make(object.Counters)
	}
	v.objects[o.ID] = o
	return o
}

func (v *fakeView) creature(id, controller string, power, toughness int, keywords ...object.KeywordAbility) *object.Object {
	var abilities []object.Ability
	for _, k := range keywords {
		abilities = append(abilities, object.Ability{Kind: object.AbilityStatic, Keyword: k})
	}
	return v.add(&object.Object{
		ID:            ids.ObjectId(id),
		Kind:          object.KindCard,
		Owner:         controller,
		Controller:    controller,
		Name:          id,
		CardTypes:     []string{"Creature"},
		BasePower:     power,
		HasBasePower:  true,
		BaseToughness: toughness,
		HasBaseTough:  true,
		Abilities:     abilities,
	})
}

func (v *fakeView) Object(id ids.ObjectId) (*object.Object, bool) {
	o, ok := v.objects[id]
	return o, ok
}

func (v *fakeView) Calculate(o *object.Object) *continuous.Snapshot {
	return v.layers.Calculate(o)
}

func (v *fakeView) ControllerOf(id ids.ObjectId) string {
	if o, ok := v.objects[id]; ok {
		return o.Controller
	}
	return string(id)
}

func (v *fakeView) IsPlaneswalker(id ids.ObjectId) bool {
	_, ok := v.planeswalkers[id]
	return ok
}

func (v *fakeView) ControllerOfPlaneswalker(id ids.ObjectId) string {
	return v.planeswalkers[id]
}

func (v *fakeView) DealDamage(source, target ids.ObjectId, amount int, combat, hasDeathtouch, hasLifelink bool) error {
	v.damageLog = append(v.damageLog, damageEvent{source: source, target: target, amount: amount, deathtouch: hasDeathtouch, lifelink: hasLifelink})
	if obj, ok := v.objects[target]; ok {
		obj.DamageMarked += amount
		if hasDeathtouch {
			obj.DeathtouchMarked = true
		}
	}
	if hasLifelink {
		if srcObj, ok := v.objects[source]; ok {
			v.life[srcObj.Controller] += amount
		}
	}
	return nil
}

func (v *fakeView) DamagePlayer(source ids.ObjectId, player string, amount int, hasLifelink bool) error {
	v.damageLog = append(v.damageLog, damageEvent{source: source, player: player, amount: amount, lifelink: hasLifelink})
	v.life[player] -= amount
	if hasLifelink {
		if srcObj, ok := v.objects[source]; ok {
			v.life[srcObj.Controller] += amount
		}
	}
	return nil
}

func (v *fakeView) Tap(id ids.ObjectId) {
	if o, ok := v.objects[id]; ok {
		o.Tapped = true
	}
}

func TestCanAttackRejectsTappedAndSummoningSick(t *testing.T) {
	v := newFakeView()
	bear := v.creature("bear", "alice", 2, 2)

	require.True(t, CanAttack(v, bear.ID, "alice", 5))

	bear.Tapped = true
	require.False(t, CanAttack(v, bear.ID, "alice", 5))
	bear.Tapped = false

	bear.SummonedTurn = 5
	require.False(t, CanAttack(v, bear.ID, "alice", 5), "summoning sick without haste can't attack")

	haste := v.creature("haste-bear", "alice", 2, 2, object.KeywordHaste)
	haste.SummonedTurn = 5
	require.True(t, CanAttack(v, haste.ID, "alice", 5))
}

func TestCanAttackRejectsDefenderAndOpponentControl(t *testing.T) {
	v := newFakeView()
	wall := v.creature("wall", "alice", 0, 4, object.KeywordDefender)
	require.False(t, CanAttack(v, wall.ID, "alice", 1))

	bob := v.creature("bobs-bear", "bob", 2, 2)
	require.False(t, CanAttack(v, bob.ID, "alice", 1))
}

func TestLegalBlockersRequiresFlyingOrReachAgainstFlyer(t *testing.T) {
	v := newFakeView()
	flyer := v.creature("drake", "bob", 3, 2, object.KeywordFlying)
	grounded := v.creature("bear", "alice", 2, 2)
	reacher := v.creature("spider", "alice", 1, 3, object.KeywordReach)
	flyerBlocker := v.creature("hippogriff", "alice", 1, 1, object.KeywordFlying)

	legal := LegalBlockers(v, flyer.ID, []ids.ObjectId{grounded.ID, reacher.ID, flyerBlocker.ID})
	require.ElementsMatch(t, []ids.ObjectId{reacher.ID, flyerBlocker.ID}, legal)
}

func TestLegalBlockersExcludesTappedAndCantBlock(t *testing.T) {
	v := newFakeView()
	attacker := v.creature("bear", "bob", 2, 2)
	tapped := v.creature("tapped", "alice", 2, 2)
	tapped.Tapped = true
	cantBlock := v.creature("frozen", "alice", 2, 2, object.KeywordCantBlock)
	fine := v.creature("fine", "alice", 2, 2)

	legal := LegalBlockers(v, attacker.ID, []ids.ObjectId{tapped.ID, cantBlock.ID, fine.ID})
	require.Equal(t, []ids.ObjectId{fine.ID}, legal)
}

func TestDeclareBlocksRejectsMenaceWithSingleBlocker(t *testing.T) {
	v := newFakeView()
	attacker := v.creature("menacing", "bob", 3, 3, object.KeywordMenace)
	blocker := v.creature("chump", "alice", 1, 1)

	s := New("bob")
	s.Declare(v, map[ids.ObjectId]ids.ObjectId{attacker.ID: "alice"})
	require.Len(t, s.Groups, 1)

	s.DeclareBlocks(v, map[ids.ObjectId][]ids.ObjectId{attacker.ID: {blocker.ID}})
	require.False(t, s.Groups[0].Blocked, "a single blocker can't satisfy menace")

	blocker2 := v.creature("chump2", "alice", 1, 1)
	s.DeclareBlocks(v, map[ids.ObjectId][]ids.ObjectId{attacker.ID: {blocker.ID, blocker2.ID}})
	require.True(t, s.Groups[0].Blocked)
	require.ElementsMatch(t, []ids.ObjectId{blocker.ID, blocker2.ID}, s.Groups[0].Blockers)
}

func TestDeclareTapsNonVigilantAttackers(t *testing.T) {
	v := newFakeView()
	attacker := v.creature("bear", "alice", 2, 2)
	vigilant := v.creature("watcher", "alice", 2, 2, object.KeywordVigilance)

	s := New("alice")
	s.Declare(v, map[ids.ObjectId]ids.ObjectId{
		attacker.ID: "bob",
		vigilant.ID: "bob",
	})

	require.True(t, attacker.Tapped)
	require.False(t, vigilant.Tapped)
}

func TestAssignAndDealDamageUnblockedHitsPlayer(t *testing.T) {
	v := newFakeView()
	attacker := v.creature("bear", "alice", 3, 3)
	s := New("alice")
	s.Declare(v, map[ids.ObjectId]ids.ObjectId{attacker.ID: "bob"})

	require.NoError(t, AssignAndDealDamage(v, s.Groups[0], false))
	require.Equal(t, -3, v.life["bob"])
}

func TestAssignAndDealDamageTrampleOverflowsToPlayer(t *testing.T) {
	v := newFakeView()
	attacker := v.creature("behemoth", "alice", 5, 5, object.KeywordTrample)
	blocker := v.creature("chump", "bob", 1, 1)

	s := New("alice")
	s.Declare(v, map[ids.ObjectId]ids.ObjectId{attacker.ID: "bob"})
	s.Groups[0].Blocked = true
	s.Groups[0].Blockers = []ids.ObjectId{blocker.ID}

	require.NoError(t, AssignAndDealDamage(v, s.Groups[0], false))
	require.Equal(t, 1, blocker.DamageMarked, "blocker takes exactly lethal")
	require.Equal(t, -4, v.life["bob"], "the remaining 4 tramples over")
}

func TestAssignAndDealDamageDeathtouchNeedsOnlyOneDamage(t *testing.T) {
	v := newFakeView()
	attacker := v.creature("viper", "alice", 4, 4, object.KeywordDeathtouch, object.KeywordTrample)
	blocker1 := v.creature("wall1", "bob", 0, 5)
	blocker2 := v.creature("wall2", "bob", 0, 5)

	s := New("alice")
	s.Declare(v, map[ids.ObjectId]ids.ObjectId{attacker.ID: "bob"})
	s.Groups[0].Blocked = true
	s.Groups[0].Blockers = []ids.ObjectId{blocker1.ID, blocker2.ID}
	s.Groups[0].SetDamageOrder([]ids.ObjectId{blocker1.ID, blocker2.ID})

	require.NoError(t, AssignAndDealDamage(v, s.Groups[0], false))
	require.Equal(t, 1, blocker1.DamageMarked, "deathtouch needs only 1 to be lethal")
	require.Equal(t, 1, blocker2.DamageMarked, "deathtouch needs only 1 to be lethal")
	require.Equal(t, -2, v.life["bob"], "the remaining 2 power tramples over once both blockers have their lethal deathtouch hit")
}

func TestAssignAndDealDamageLifelinkGainsControllerLife(t *testing.T) {
	v := newFakeView()
	attacker := v.creature("vampire", "alice", 3, 3, object.KeywordLifelink)
	s := New("alice")
	s.Declare(v, map[ids.ObjectId]ids.ObjectId{attacker.ID: "bob"})

	require.NoError(t, AssignAndDealDamage(v, s.Groups[0], false))
	require.Equal(t, 3, v.life["alice"])
	require.Equal(t, -3, v.life["bob"])
}

func TestFirstStrikeStepFiltersParticipants(t *testing.T) {
	v := newFakeView()
	fs := v.creature("knight", "alice", 2, 2, object.KeywordFirstStrike)
	normal := v.creature("squire", "alice", 2, 2)

	s := New("alice")
	s.Declare(v, map[ids.ObjectId]ids.ObjectId{fs.ID: "bob", normal.ID: "bob"})
	require.True(t, s.HasFirstStrikeParticipant(v))

	group := &Group{DefenderID: "", DefendingPlayer: "bob", Attackers: []ids.ObjectId{fs.ID, normal.ID}, BlockerOrder: map[ids.ObjectId]int{}, AttackerOrder: map[ids.ObjectId]int{}}
	require.NoError(t, AssignAndDealDamage(v, group, true))
	require.Equal(t, -2, v.life["bob"], "only the first striker deals damage in the first-strike step")
}
