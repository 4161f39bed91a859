// Package event implements the event model and replacement/prevention
// dispatch protocol (spec §4.2), adapted from the teacher's
// internal/game/rules/events.go and internal/game/effects/replacement*.go.
package event

import (
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
)

// Type enumerates the events the engine cares about. Pruned from the
// teacher's exhaustive Java-derived EventType enum down to the subset
// spec.md names explicitly (damage, zone-change, destroy, draw, life,
// sacrifice, keyword-action) plus the handful combat/casting need to fire
// triggers on.
type Type string

const (
	TypeDamage           Type = "DAMAGE"
	TypeZoneChange       Type = "ZONE_CHANGE"
	TypeDestroy          Type = "DESTROY"
	TypeDraw             Type = "DRAW"
	TypeDiscard          Type = "DISCARD"
	TypeLifeGain         Type = "LIFE_GAIN"
	TypeLifeLoss         Type = "LIFE_LOSS"
	TypeSacrifice        Type = "SACRIFICE"
	TypeKeywordAction    Type = "KEYWORD_ACTION" // explore/investigate/surveil/...
	TypeSpellCast        Type = "SPELL_CAST"
	TypeAbilityActivated Type = "ABILITY_ACTIVATED"
	TypeCreatureAttacks  Type = "CREATURE_ATTACKS"
	TypeCreatureBlocks   Type = "CREATURE_BLOCKS"
	TypeCombatDamage     Type = "COMBAT_DAMAGE"
	TypeCounterAdded     Type = "COUNTER_ADDED"
	TypeCounterRemoved   Type = "COUNTER_REMOVED"
	TypePhaseChanged     Type = "PHASE_CHANGED"
	TypeStepChanged      Type = "STEP_CHANGED"
	TypeTap              Type = "TAP"
	TypeUntap             Type = "UNTAP"
)

// Event is one state mutation the rules care about (spec §4.2). An event
// can carry pre-mutation snapshots (SourceSnapshot/TargetSnapshot) to answer
// "what was this object at the moment the event began"; most events in this
// engine are built without them and leave both nil.
type Event struct {
	Type Type

	SourceID   ids.ObjectId
	TargetID   ids.ObjectId
	PlayerID   string
	Controller string

	Amount int // damage/life/counter amount, as applicable

	FromZone string
	ToZone   string

	// SourceSnapshot/TargetSnapshot freeze the relevant object's calculated
	// characteristics as of just before this event, for LKI-dependent
	// resolution (spec §3.8).
	SourceSnapshot *object.Snapshot
	TargetSnapshot *object.Snapshot

	// Prevented marks an event that a replacement effect removed entirely.
	Prevented bool

	Metadata map[string]string
}

// Outcome is the result of running an event through Dispatch.
type Outcome string

const (
	OutcomeProceed   Outcome = "PROCEED"
	OutcomePrevented Outcome = "PREVENTED"
	OutcomeReplaced  Outcome = "REPLACED"
	OutcomeNotApplicable Outcome = "NOT_APPLICABLE"
)

// Result is what Dispatch returns: the final event (possibly replaced) and
// how it got there.
type Result struct {
	Event   Event
	Outcome Outcome
}
