// Package sba implements the state-based-action pass (spec §4.6), a pure
// function from game state to a list of actions followed by an apply
// phase. The teacher has no dedicated SBA pass — mage_engine.go checks a
// handful of death conditions inline inside its resolution loop — so this
// package is built fresh, grounded on original_source/rules/state_based.rs
// for the rule-704.7-compliant batched-snapshot protocol, in the idiom the
// teacher uses for its other manager types: a pure Check(state) []Action
// query followed by a small Apply step, the same split
// effects.LayerSystem.Apply draws between computing and mutating.
package sba

import (
	"sort"

	"github.com/corvid-games/cardengine/internal/continuous"
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
	"github.com/corvid-games/cardengine/internal/player"
	"github.com/corvid-games/cardengine/internal/zone"
)

// Kind classifies one detected state-based action (spec §4.6's list).
type Kind string

const (
	KindCreatureDies        Kind = "CREATURE_DIES"
	KindPlaneswalkerDies    Kind = "PLANESWALKER_DIES"
	KindPlayerLoses         Kind = "PLAYER_LOSES"
	KindLegendRule          Kind = "LEGEND_RULE"
	KindAuraFallsOff        Kind = "AURA_FALLS_OFF"
	KindEquipmentFallsOff   Kind = "EQUIPMENT_FALLS_OFF"
	KindCounterAnnihilation Kind = "COUNTER_ANNIHILATION"
	KindTokenCeasesToExist  Kind = "TOKEN_CEASES_TO_EXIST"
	KindCopyCeasesToExist   Kind = "COPY_CEASES_TO_EXIST"
	KindSagaSacrifice       Kind = "SAGA_SACRIFICE"
)

// Action is one state-based action detected by Check.
type Action struct {
	Kind    Kind
	Object  ids.ObjectId // zero for player-scoped actions
	Player  string       // zero for object-scoped actions
	Group   []ids.ObjectId // legend-rule collision group
}

// View is the slice of game state the SBA pass needs. A subset of
// executor.View plus the one extra thing SBA needs that ordinary effect
// resolution doesn't: enumerating every battlefield object (kept as its
// own small interface, the same reasoning executor.View documents for its
// own cross-package seam).
type View interface {
	BattlefieldObjects() []*object.Object
	Object(id ids.ObjectId) (*object.Object, bool)
	Players() []*player.Player
	Player(id string) (*player.Player, bool)
	Calculate(o *object.Object) *continuous.Snapshot
	MoveZone(id ids.ObjectId, to string) (ids.ObjectId, error)
	RemoveFromGame(id ids.ObjectId)
	DispatchEvent(ev event.Event) event.Result
	CurrentTurn() int
}

// LegendChooser resolves rule 201.5b's legend-rule decision: which of a
// same-name, same-controller group of legendary permanents its controller
// keeps.
type LegendChooser interface {
	ChooseLegendToKeep(controller string, group []ids.ObjectId) ids.ObjectId
}

// Check runs one SBA-detection pass and returns every action that applies
// right now, without mutating anything (spec §4.6 "a pure function from
// GameState to a list of actions"). Rule 704.7 is honored by the caller
// (Apply), not here: Check only decides WHAT dies; Apply captures LKI for
// every dying object before any of them actually leave the battlefield.
func Check(v View) []Action {
	var actions []Action

	objs := v.BattlefieldObjects()
	byNameController := map[string][]ids.ObjectId{}

	for _, o := range objs {
		snap := v.Calculate(o)

		if hasCardType(snap.CardTypes, "Creature") {
			pairs := o.Counters.Clone().AnnihilatePlusMinus()
			_ = pairs // detection only notes the need; Apply performs the mutation
			if o.Counters.Count(object.CounterPlusOnePlusOne) > 0 && o.Counters.Count(object.CounterMinusOneMinusOne) > 0 {
				actions = append(actions, Action{Kind: KindCounterAnnihilation, Object: o.ID})
			}
			indestructible := snap.HasKeyword(object.KeywordIndestructible)
			if snap.HasTough && snap.Toughness <= 0 {
				actions = append(actions, Action{Kind: KindCreatureDies, Object: o.ID})
			} else if !indestructible && snap.HasTough && o.DamageMarked > 0 &&
				(o.DamageMarked >= snap.Toughness || o.DeathtouchMarked) {
				actions = append(actions, Action{Kind: KindCreatureDies, Object: o.ID})
			}
		}

		if hasCardType(snap.CardTypes, "Planeswalker") && o.Counters.Count(object.CounterLoyalty) <= 0 {
			actions = append(actions, Action{Kind: KindPlaneswalkerDies, Object: o.ID})
		}

		if hasCardType(snap.CardTypes, "Saga") && o.MaxSagaChapter > 0 && o.Counters.Count(object.CounterLore) >= o.MaxSagaChapter {
			actions = append(actions, Action{Kind: KindSagaSacrifice, Object: o.ID})
		}

		if o.Kind == object.KindToken && o.Zone != zone.Battlefield {
			actions = append(actions, Action{Kind: KindTokenCeasesToExist, Object: o.ID})
		}
		if o.Kind == object.KindCopy && o.Zone != zone.Battlefield && o.Zone != zone.Stack {
			actions = append(actions, Action{Kind: KindCopyCeasesToExist, Object: o.ID})
		}

		if o.IsAttached() {
			target, ok := v.Object(o.AttachedTo)
			validAttachment := ok && target.Zone == zone.Battlefield
			if validAttachment && hasCardType(snap.CardTypes, "Aura") && validAttachment {
				// only presence is checked; the object's AuraAttachFilter
				// is not checked here or anywhere else in the engine.
			}
			if !validAttachment {
				kind := KindAuraFallsOff
				if hasCardType(snap.CardTypes, "Equipment") || hasCardType(snap.CardTypes, "Fortification") {
					kind = KindEquipmentFallsOff
				}
				actions = append(actions, Action{Kind: kind, Object: o.ID})
			}
		}

		if hasSupertype(snap.Supertypes, "Legendary") && hasCardType(snap.CardTypes, "Creature") || hasSupertype(snap.Supertypes, "Legendary") {
			key := snap.Controller + "\x00" + o.Name
			byNameController[key] = append(byNameController[key], o.ID)
		}
	}

	for _, group := range byNameController {
		if len(group) > 1 {
			sort.Slice(group, func(i, j int) bool { return group[i] < group[j] })
			actions = append(actions, Action{Kind: KindLegendRule, Group: group})
		}
	}

	for _, p := range v.Players() {
		if p.HasLost {
			continue
		}
		lost := p.Life <= 0
		if !lost && len(p.Library) == 0 {
			lost = p.DrawsPrevented > 0 // a draw was attempted from an empty library this check
		}
		if !lost && p.PoisonCounters >= 10 {
			lost = true
		}
		if lost {
			actions = append(actions, Action{Kind: KindPlayerLoses, Player: p.ID})
		}
	}

	return actions
}

func hasCardType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

func hasSupertype(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

// Apply performs every detected Action against v, honoring rule 704.7: it
// first captures LKI for every object scheduled to die in this pass (via
// DispatchEvent, which stamps the event's TargetSnapshot before the move),
// THEN moves any of them off the battlefield — so a creature that dies
// simultaneously with another still sees it present for LKI purposes.
// Legend-rule groups request a decision via chooser; every other action
// applies unconditionally. Returns whether anything changed, since the SBA
// pass must run repeatedly until a pass produces none (spec §4.6).
func Apply(v View, actions []Action, chooser LegendChooser) bool {
	if len(actions) == 0 {
		return false
	}

	// Pre-capture LKI for every object that's about to leave the
	// battlefield this pass, atomically, before any of them actually move.
	dying := map[ids.ObjectId]Kind{}
	for _, a := range actions {
		switch a.Kind {
		case KindCreatureDies, KindPlaneswalkerDies, KindSagaSacrifice, KindAuraFallsOff, KindEquipmentFallsOff, KindTokenCeasesToExist, KindCopyCeasesToExist:
			dying[a.Object] = a.Kind
		}
	}
	// destResults records, per object, the outcome of running its destroy
	// event through the replacement registry — a regeneration shield (or
	// any other destroy-replacement, e.g. totem armor) may prevent or
	// redirect the move that follows, the same check
	// executor.Destroy.Execute makes before calling MoveZone.
	destResults := map[ids.ObjectId]event.Result{}
	for id := range dying {
		obj, ok := v.Object(id)
		if !ok {
			continue
		}
		snap := v.Calculate(obj)
		lki := object.Capture(obj, snap.Power, snap.Toughness, snap.HasPower, snap.HasTough)
		destResults[id] = v.DispatchEvent(event.Event{
			Type:           event.TypeDestroy,
			TargetID:       id,
			PlayerID:       obj.Controller,
			FromZone:       obj.Zone.String(),
			ToZone:         zone.Graveyard.String(),
			TargetSnapshot: &lki,
		})
	}

	changed := false
	for _, a := range actions {
		switch a.Kind {
		case KindCounterAnnihilation:
			if obj, ok := v.Object(a.Object); ok {
				if obj.Counters.AnnihilatePlusMinus() > 0 {
					changed = true
				}
			}
		case KindCreatureDies, KindPlaneswalkerDies, KindSagaSacrifice, KindAuraFallsOff, KindEquipmentFallsOff:
			result, dispatched := destResults[a.Object]
			if dispatched && result.Outcome == event.OutcomePrevented {
				// A regeneration shield (or similar) intervened: OnApply
				// already tapped the permanent and cleared its damage; it
				// stays on the battlefield instead of moving to the
				// graveyard.
				continue
			}
			destZone := zone.Graveyard.String()
			if dispatched && result.Outcome == event.OutcomeReplaced {
				destZone = result.Event.ToZone
			}
			if _, err := v.MoveZone(a.Object, destZone); err == nil {
				changed = true
			}
		case KindTokenCeasesToExist, KindCopyCeasesToExist:
			v.RemoveFromGame(a.Object)
			changed = true
		case KindLegendRule:
			if len(a.Group) < 2 {
				continue
			}
			controllerObj, ok := v.Object(a.Group[0])
			if !ok {
				continue
			}
			var keep ids.ObjectId
			if chooser != nil {
				keep = chooser.ChooseLegendToKeep(controllerObj.Controller, a.Group)
			}
			if keep == "" {
				keep = a.Group[0]
			}
			for _, id := range a.Group {
				if id == keep {
					continue
				}
				if _, err := v.MoveZone(id, zone.Graveyard.String()); err == nil {
					changed = true
				}
			}
		case KindPlayerLoses:
			if p, ok := v.Player(a.Player); ok {
				p.HasLost = true
				changed = true
			}
		}
	}
	return changed
}

// RunToFixpoint repeatedly checks and applies SBAs until a pass detects
// nothing, the idempotence property spec §8.1 requires
// (apply_sbas(apply_sbas(s)) = apply_sbas(s)). Returns the total number of
// passes that made a change, for diagnostics.
func RunToFixpoint(v View, chooser LegendChooser) int {
	passes := 0
	for {
		actions := Check(v)
		if len(actions) == 0 {
			return passes
		}
		if !Apply(v, actions, chooser) {
			return passes
		}
		passes++
	}
}
