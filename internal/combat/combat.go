// Package combat implements the turn-phase-aware attacker/blocker
// declaration and damage sub-protocol (spec §4.8), grounded on the
// teacher's combatState/combatGroup types and combat_*_test.go suite in
// internal/game/mage_engine.go — field names (attackerOrder, blockerOrder,
// firstStrikers) are kept, generalized from string ids to ids.ObjectId and
// from ad hoc inline checks to an explicit evasion check covering
// flying/reach, shadow and horsemanship, with menace enforced when blocks
// are declared. Landwalk and protection are not checked.
package combat

import (
	"sort"

	"github.com/corvid-games/cardengine/internal/continuous"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
)

// Group is one attacking creature-set vs. one defender (player or
// planeswalker) plus whichever creatures block it, mirroring the
// teacher's combatGroup.
type Group struct {
	DefenderID        ids.ObjectId // zero when the defender is a player
	DefendingPlayer   string
	Attackers         []ids.ObjectId
	Blockers          []ids.ObjectId
	Blocked           bool
	AttackerOrder     map[ids.ObjectId]int // damage assignment order, multi-blocked attacker
	BlockerOrder      map[ids.ObjectId]int // damage assignment order, multiple blockers on one attacker
}

func newGroup(defenderID ids.ObjectId, defendingPlayer string) *Group {
	return &Group{
		DefenderID:      defenderID,
		DefendingPlayer: defendingPlayer,
		AttackerOrder:   make(map[ids.ObjectId]int),
		BlockerOrder:    make(map[ids.ObjectId]int),
	}
}

// State tracks all combat-related state for one combat phase, mirroring
// the teacher's combatState.
type State struct {
	AttackingPlayer string
	Groups          []*Group
	FormerGroups    []*Group
	AttackersTapped map[ids.ObjectId]bool
	FirstStrikers   map[ids.ObjectId]bool
}

// New creates an empty combat state for attackingPlayer's combat phase.
func New(attackingPlayer string) *State {
	return &State{
		AttackingPlayer: attackingPlayer,
		AttackersTapped: make(map[ids.ObjectId]bool),
		FirstStrikers:   make(map[ids.ObjectId]bool),
	}
}

// View is the slice of game state combat needs to validate and resolve
// attacks/blocks.
type View interface {
	Object(id ids.ObjectId) (*object.Object, bool)
	Calculate(o *object.Object) *continuous.Snapshot
	ControllerOf(id ids.ObjectId) string
	IsPlaneswalker(id ids.ObjectId) bool
	ControllerOfPlaneswalker(id ids.ObjectId) string
	DealDamage(source, target ids.ObjectId, amount int, combat, hasDeathtouch, hasLifelink bool) error
	DamagePlayer(source ids.ObjectId, player string, amount int, hasLifelink bool) error
	Tap(id ids.ObjectId)
}

// CanAttack reports whether creature is able to attack at all right now
// (spec §4.8 "creature is untapped, controlled by active player, not
// summoning-sick unless it has haste, no defender, not otherwise
// restricted").
func CanAttack(v View, creature ids.ObjectId, activePlayer string, currentTurn int) bool {
	obj, ok := v.Object(creature)
	if !ok || obj.Controller != activePlayer {
		return false
	}
	if obj.Tapped {
		return false
	}
	snap := v.Calculate(obj)
	if snap.HasKeyword(object.KeywordDefender) {
		return false
	}
	if snap.HasKeyword(object.KeywordCantAttack) {
		return false
	}
	if obj.SummonedTurn == currentTurn && !snap.HasKeyword(object.KeywordHaste) {
		return false
	}
	return true
}

// Declare records declared attacks from a map of attacker -> defender,
// building Groups and tapping non-vigilant attackers (spec §4.8 "On
// success, attackers without vigilance tap").
func (s *State) Declare(v View, attacks map[ids.ObjectId]ids.ObjectId) {
	byDefender := map[string]*Group{}
	for attacker, defender := range attacks {
		obj, ok := v.Object(attacker)
		if !ok {
			continue
		}
		key := string(defender)
		group, found := byDefender[key]
		if !found {
			defendingPlayer := v.ControllerOf(defender)
			if v.IsPlaneswalker(defender) {
				defendingPlayer = v.ControllerOfPlaneswalker(defender)
			} else {
				defendingPlayer = string(defender) // defender is itself a player id in this call convention when not a permanent
			}
			group = newGroup(defender, defendingPlayer)
			byDefender[key] = group
			s.Groups = append(s.Groups, group)
		}
		group.Attackers = append(group.Attackers, attacker)

		snap := v.Calculate(obj)
		if !snap.HasKeyword(object.KeywordVigilance) {
			v.Tap(attacker)
			s.AttackersTapped[attacker] = true
		}
	}
}

// evasionSatisfied reports whether blocker is permitted to block attacker
// given attacker's evasion keywords: flying (blocker needs flying or
// reach), shadow and horsemanship. Menace is checked by DeclareBlocks;
// landwalk is not checked.
func evasionSatisfied(attackerSnap, blockerSnap *continuous.Snapshot) bool {
	if attackerSnap.HasKeyword(object.KeywordFlying) {
		if !blockerSnap.HasKeyword(object.KeywordFlying) && !blockerSnap.HasKeyword(object.KeywordReach) {
			return false
		}
	}
	if attackerSnap.HasKeyword(object.KeywordShadow) && !blockerSnap.HasKeyword(object.KeywordShadow) {
		return false
	}
	if attackerSnap.HasKeyword(object.KeywordHorsemanship) && !blockerSnap.HasKeyword(object.KeywordHorsemanship) {
		return false
	}
	return true
}

// LegalBlockers returns the subset of candidateBlockers that may legally
// block attacker right now (spec §4.8 "Declare Blockers decision
// surface ... Validation").
func LegalBlockers(v View, attacker ids.ObjectId, candidateBlockers []ids.ObjectId) []ids.ObjectId {
	attackerObj, ok := v.Object(attacker)
	if !ok {
		return nil
	}
	attackerSnap := v.Calculate(attackerObj)
	if attackerSnap.HasKeyword(object.KeywordCantBeBlocked) {
		return nil
	}

	var legal []ids.ObjectId
	for _, b := range candidateBlockers {
		blockerObj, ok := v.Object(b)
		if !ok || blockerObj.Tapped {
			continue
		}
		blockerSnap := v.Calculate(blockerObj)
		if blockerSnap.HasKeyword(object.KeywordCantBlock) {
			continue
		}
		if !evasionSatisfied(attackerSnap, blockerSnap) {
			continue
		}
		legal = append(legal, b)
	}
	return legal
}

// DeclareBlocks records defender's chosen blocks (attacker -> blockers),
// validating menace's minimum-two-blockers requirement; callers are
// expected to have already restricted each attacker's candidate list
// through LegalBlockers.
func (s *State) DeclareBlocks(v View, blocks map[ids.ObjectId][]ids.ObjectId) {
	for _, group := range s.Groups {
		if len(group.Attackers) != 1 {
			continue
		}
		attacker := group.Attackers[0]
		assigned := blocks[attacker]
		if attackerObj, ok := v.Object(attacker); ok {
			snap := v.Calculate(attackerObj)
			if snap.HasKeyword(object.KeywordMenace) && len(assigned) < 2 {
				continue // menace requires >=2 blockers; an under-assignment is simply not a legal block
			}
		}
		if len(assigned) > 0 {
			group.Blocked = true
			group.Blockers = append(group.Blockers, assigned...)
		}
	}
}

// SetDamageOrder records the attacker's chosen damage-assignment order for
// a multi-blocked attacker's blockers (spec §4.8 "the attacker's controller
// sets a damage-assignment order"). It sets BlockerOrder only;
// AttackerOrder is not written here.
func (g *Group) SetDamageOrder(order []ids.ObjectId) {
	for i, id := range order {
		g.BlockerOrder[id] = i
	}
}

// lethalDamage returns the amount of damage needed to be lethal to obj
// given its calculated toughness and damage already marked, honoring
// deathtouch (any nonzero amount is lethal) if dealtByDeathtouch.
func lethalDamage(toughness, alreadyMarked int, dealtByDeathtouch bool) int {
	if dealtByDeathtouch {
		if alreadyMarked > 0 {
			return 0
		}
		return 1
	}
	need := toughness - alreadyMarked
	if need < 0 {
		need = 0
	}
	return need
}

// AssignAndDealDamage computes and applies combat damage for one group at
// one damage step (first-strike or regular), in attacker-then-blocker
// order, respecting damage-assignment order, trample, deathtouch, and
// lifelink (spec §4.8 "Damage assignment"). firstStrikeStep selects which
// creatures participate: only those with first-strike/double-strike in
// the first-strike step, and those without first-strike (plus
// double-strikers again) in the regular step.
func AssignAndDealDamage(v View, group *Group, firstStrikeStep bool) error {
	participates := func(id ids.ObjectId) bool {
		obj, ok := v.Object(id)
		if !ok {
			return false
		}
		snap := v.Calculate(obj)
		fs := snap.HasKeyword(object.KeywordFirstStrike) || snap.HasKeyword(object.KeywordDoubleStrike)
		if firstStrikeStep {
			return fs
		}
		return !snap.HasKeyword(object.KeywordFirstStrike) || snap.HasKeyword(object.KeywordDoubleStrike)
	}

	for _, attacker := range group.Attackers {
		if !participates(attacker) {
			continue
		}
		if err := dealAttackerDamage(v, group, attacker, group.Blockers); err != nil {
			return err
		}
	}
	for _, blocker := range group.Blockers {
		if !participates(blocker) {
			continue
		}
		if err := dealBlockerDamage(v, blocker, group.Attackers); err != nil {
			return err
		}
	}
	return nil
}

func dealAttackerDamage(v View, group *Group, attacker ids.ObjectId, blockers []ids.ObjectId) error {
	obj, ok := v.Object(attacker)
	if !ok {
		return nil
	}
	snap := v.Calculate(obj)
	power := snap.Power
	if power <= 0 || !snap.HasPower {
		return nil
	}
	deathtouch := snap.HasKeyword(object.KeywordDeathtouch)
	lifelink := snap.HasKeyword(object.KeywordLifelink)
	trample := snap.HasKeyword(object.KeywordTrample)

	if !group.Blocked || len(blockers) == 0 {
		if v.IsPlaneswalker(group.DefenderID) {
			return v.DealDamage(attacker, group.DefenderID, power, true, deathtouch, lifelink)
		}
		return v.DamagePlayer(attacker, group.DefendingPlayer, power, lifelink)
	}

	ordered := orderedBlockers(group, blockers)
	remaining := power
	for i, b := range ordered {
		bObj, ok := v.Object(b)
		if !ok {
			continue
		}
		bSnap := v.Calculate(bObj)
		assign := remaining
		isLast := i == len(ordered)-1
		if !isLast || trample {
			lethal := lethalDamage(bSnap.Toughness, bObj.DamageMarked, deathtouch)
			if assign > lethal {
				assign = lethal
			}
		}
		if assign < 0 {
			assign = 0
		}
		if assign > remaining {
			assign = remaining
		}
		if assign > 0 {
			if err := v.DealDamage(attacker, b, assign, true, deathtouch, lifelink); err != nil {
				return err
			}
		}
		remaining -= assign
	}
	if remaining > 0 && trample {
		if v.IsPlaneswalker(group.DefenderID) {
			return v.DealDamage(attacker, group.DefenderID, remaining, true, deathtouch, lifelink)
		}
		return v.DamagePlayer(attacker, group.DefendingPlayer, remaining, lifelink)
	}
	return nil
}

func dealBlockerDamage(v View, blocker ids.ObjectId, attackers []ids.ObjectId) error {
	obj, ok := v.Object(blocker)
	if !ok {
		return nil
	}
	snap := v.Calculate(obj)
	if !snap.HasPower || snap.Power <= 0 {
		return nil
	}
	deathtouch := snap.HasKeyword(object.KeywordDeathtouch)
	lifelink := snap.HasKeyword(object.KeywordLifelink)
	// A single blocker normally faces one attacker; multi-attacker
	// scenarios (banding) split evenly across attackers in order.
	if len(attackers) == 0 {
		return nil
	}
	share, extra := snap.Power/len(attackers), snap.Power%len(attackers)
	for i, a := range attackers {
		amount := share
		if i < extra {
			amount++
		}
		if amount == 0 {
			continue
		}
		if err := v.DealDamage(blocker, a, amount, true, deathtouch, lifelink); err != nil {
			return err
		}
	}
	return nil
}

func orderedBlockers(group *Group, blockers []ids.ObjectId) []ids.ObjectId {
	out := append([]ids.ObjectId(nil), blockers...)
	sort.SliceStable(out, func(i, j int) bool {
		oi, iok := group.BlockerOrder[out[i]]
		oj, jok := group.BlockerOrder[out[j]]
		if !iok {
			oi = 1 << 30
		}
		if !jok {
			oj = 1 << 30
		}
		return oi < oj
	})
	return out
}

// HasFirstStrikeParticipant reports whether any creature in this combat
// has first strike or double strike, determining whether the
// first-strike damage step is skipped (spec §4.8, §4.9).
func (s *State) HasFirstStrikeParticipant(v View) bool {
	for _, g := range s.Groups {
		all := append(append([]ids.ObjectId(nil), g.Attackers...), g.Blockers...)
		for _, id := range all {
			obj, ok := v.Object(id)
			if !ok {
				continue
			}
			snap := v.Calculate(obj)
			if snap.HasKeyword(object.KeywordFirstStrike) || snap.HasKeyword(object.KeywordDoubleStrike) {
				return true
			}
		}
	}
	return false
}

// EndCombat archives this combat's groups as FormerGroups and resets for
// the next combat phase (a turn may have multiple combat phases via
// extra-combat effects).
func (s *State) EndCombat() {
	s.FormerGroups = append([]*Group(nil), s.Groups...)
	s.Groups = nil
}

// RemoveFromCombat removes creature from all combat groups it participates
// in (e.g. it was bounced or exiled mid-combat), per rule 506.4.
func (s *State) RemoveFromCombat(creature ids.ObjectId) {
	for _, g := range s.Groups {
		g.Attackers = removeID(g.Attackers, creature)
		g.Blockers = removeID(g.Blockers, creature)
		if len(g.Blockers) == 0 {
			g.Blocked = false
		}
	}
}

// Clone returns an independent deep copy of g.
func (g *Group) Clone() *Group {
	cp := *g
	cp.Attackers = append([]ids.ObjectId(nil), g.Attackers...)
	cp.Blockers = append([]ids.ObjectId(nil), g.Blockers...)
	cp.AttackerOrder = make(map[ids.ObjectId]int, len(g.AttackerOrder))
	for k, v := range g.AttackerOrder {
		cp.AttackerOrder[k] = v
	}
	cp.BlockerOrder = make(map[ids.ObjectId]int, len(g.BlockerOrder))
	for k, v := range g.BlockerOrder {
		cp.BlockerOrder[k] = v
	}
	return &cp
}

// Clone returns an independent deep copy sufficient for snapshot/restore
// (spec §5, §6.3), or nil if s is nil (no combat in progress).
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	cp := &State{AttackingPlayer: s.AttackingPlayer}
	for _, g := range s.Groups {
		cp.Groups = append(cp.Groups, g.Clone())
	}
	for _, g := range s.FormerGroups {
		cp.FormerGroups = append(cp.FormerGroups, g.Clone())
	}
	cp.AttackersTapped = make(map[ids.ObjectId]bool, len(s.AttackersTapped))
	for k, v := range s.AttackersTapped {
		cp.AttackersTapped[k] = v
	}
	cp.FirstStrikers = make(map[ids.ObjectId]bool, len(s.FirstStrikers))
	for k, v := range s.FirstStrikers {
		cp.FirstStrikers[k] = v
	}
	return cp
}

func removeID(list []ids.ObjectId, id ids.ObjectId) []ids.ObjectId {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
