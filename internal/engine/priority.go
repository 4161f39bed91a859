// priority.go implements the resumable priority loop (spec §5, §9
// "Coroutine-like control flow"). Per spec §9's preference, this is an
// explicit state machine (LoopState) rather than a goroutine/channel
// coroutine: Advance/Respond step the machine one decision at a time and it
// serializes cleanly into a checkpoint.
package engine

import (
	"github.com/corvid-games/cardengine/internal/casting"
	"github.com/corvid-games/cardengine/internal/decision"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
)

// pendingKind names what decision LoopState.ctx is currently waiting on a
// Response for.
type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingPriority
	pendingCastDecision
	pendingLegend
	pendingAttackers
	pendingBlockers
	pendingDiscard
)

// LoopState is the engine's resumable position within the priority loop.
// Everything Advance/Respond needs to pick back up after a player's
// response lives here, so it can be captured whole by a checkpoint (spec
// §6.3) rather than relying on a call stack.
type LoopState struct {
	kind pendingKind
	ctx  *decision.Context

	// pendingPriority
	passed map[string]bool

	// pendingCastDecision
	cast       *casting.Pending
	castSource ids.ObjectId // the hand/battlefield object being cast/activated, pre-finalize

	// pendingLegend
	legendGroup []ids.ObjectId

	// pendingAttackers / pendingBlockers
	attackerCandidates map[ids.ObjectId][]ids.ObjectId // creature -> legal defenders
	blockerAttacker    []ids.ObjectId                  // attackers needing blocks assigned, in decision order
	defendingPlayer    string
}

// Clone returns an independent copy of the loop state, sufficient for
// checkpointing mid-decision (spec §6.3 "A checkpoint captures ... any
// currently pending decision").
func (l LoopState) Clone() LoopState {
	cp := l
	if l.passed != nil {
		cp.passed = make(map[string]bool, len(l.passed))
		for k, v := range l.passed {
			cp.passed[k] = v
		}
	}
	if l.cast != nil {
		cast := *l.cast
		cast.Targets = append([][]ids.ObjectId(nil), l.cast.Targets...)
		cast.ChosenModes = append([]int(nil), l.cast.ChosenModes...)
		cast.OptionalsPaid = append([]string(nil), l.cast.OptionalsPaid...)
		cast.AdditionalCostsPaid = append([]int(nil), l.cast.AdditionalCostsPaid...)
		cast.ManaSpent = make(map[string]int, len(l.cast.ManaSpent))
		for k, v := range l.cast.ManaSpent {
			cast.ManaSpent[k] = v
		}
		cp.cast = &cast
	}
	cp.legendGroup = append([]ids.ObjectId(nil), l.legendGroup...)
	cp.blockerAttacker = append([]ids.ObjectId(nil), l.blockerAttacker...)
	if l.attackerCandidates != nil {
		cp.attackerCandidates = make(map[ids.ObjectId][]ids.ObjectId, len(l.attackerCandidates))
		for k, v := range l.attackerCandidates {
			cp.attackerCandidates[k] = append([]ids.ObjectId(nil), v...)
		}
	}
	return cp
}

// ProgressKind classifies what Advance/Respond just did (spec §6.1
// "advance returns a Progress value").
type ProgressKind string

const (
	ProgressContinue      ProgressKind = "CONTINUE"
	ProgressNeedsDecision ProgressKind = "NEEDS_DECISION"
	ProgressGameOver      ProgressKind = "GAME_OVER"
)

// Progress is what Advance and Respond return: either the engine made
// headway and may be advanced again, it needs a decision before it can
// proceed, or the game has ended.
type Progress struct {
	Kind     ProgressKind
	Decision *decision.Context
	Winner   string
}

func continueProgress() Progress { return Progress{Kind: ProgressContinue} }

func needsDecision(ctx *decision.Context) Progress {
	return Progress{Kind: ProgressNeedsDecision, Decision: ctx}
}

func gameOverProgress(winner string) Progress {
	return Progress{Kind: ProgressGameOver, Winner: winner}
}

// candidatesFromIDs renders a plain id list as decision.Candidates, naming
// each from the live object table when possible.
func candidatesFromIDs(st *State, list []ids.ObjectId) []decision.Candidate {
	out := make([]decision.Candidate, 0, len(list))
	for _, id := range list {
		name := string(id)
		if o, ok := st.Object(id); ok {
			name = o.Name
		}
		out = append(out, decision.Candidate{ID: id, Name: name, Legal: true})
	}
	return out
}

// legalActionsFor builds playerID's priority-window legal action list (spec
// §6.2 Priority payload): pass always, plus casting hand cards and
// activating battlefield abilities this engine has a registered builder
// for, speed-gated by sorcery/instant timing (rule 307.1/602.1 — an
// activated ability is assumed any-time-speed absent an explicit Instant
// restriction, since object.Ability carries no separate timing field).
func (e *Engine) legalActionsFor(playerID string) []decision.Action {
	st := e.state
	actions := []decision.Action{{Kind: decision.ActionPass, Description: "Pass priority"}}

	sorceryOK := st.stackMgr.IsEmpty() && st.CurrentStep().IsMain() && st.ActivePlayer() == playerID

	for _, id := range st.Hand(playerID) {
		o, ok := st.Object(id)
		if !ok {
			continue
		}
		if _, known := e.castSpecs[o.Name]; !known {
			continue
		}
		snap := st.Calculate(o)
		isInstant := snap.HasType("Instant") || hasFlashKeyword(o)
		if !isInstant && !sorceryOK {
			continue
		}
		actions = append(actions, decision.Action{Kind: decision.ActionCast, SourceID: id, Description: "Cast " + o.Name})
	}

	for _, o := range st.BattlefieldObjects() {
		if o.Controller != playerID {
			continue
		}
		for _, a := range o.Abilities {
			if a.Kind != object.AbilityActivated {
				continue
			}
			if _, known := e.castSpecs[abilityKey(o, a)]; !known {
				continue
			}
			actions = append(actions, decision.Action{Kind: decision.ActionActivate, SourceID: o.ID, Description: "Activate " + o.Name})
		}
	}

	return actions
}

func hasFlashKeyword(o *object.Object) bool {
	for _, a := range o.Abilities {
		if a.Kind == object.AbilityStatic && a.Text == "Flash" {
			return true
		}
	}
	return false
}

// abilityKey names one of an object's activated abilities for the
// castSpecs registry, combining the object's name with the ability's id so
// a creature with two different activated abilities registers distinctly.
func abilityKey(o *object.Object, a object.Ability) string {
	return o.Name + "#" + a.ID
}
