// Package casting implements the multi-phase cast/activation protocol
// (spec §4.7): method selection, modes, targets, X, optional costs,
// additional costs, mana payment, and finalize. Grounded on the teacher's
// internal/game/rules/payment_window.go (PaymentState's step-gated "what
// can happen right now" windowing idiom) and special_action.go, generalized
// into the explicit PendingCast state machine spec §9 asks for
// ("Coroutine-like control flow ... State machine form is preferred").
package casting

import (
	"github.com/corvid-games/cardengine/internal/decision"
	"github.com/corvid-games/cardengine/internal/executor"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/mana"
	"github.com/corvid-games/cardengine/internal/stack"
)

// Phase names the current stage of a cast/activation, in spec §4.7's
// order. Inapplicable phases are skipped by Advance.
type Phase int

const (
	PhaseMethodSelection Phase = iota
	PhaseModeSelection
	PhaseTargetSelection
	PhaseXValue
	PhaseOptionalCosts
	PhaseAdditionalCosts
	PhaseExileFromHand
	PhaseManaPayment
	PhaseFinalize
	PhaseDone
)

// EffectSpec describes one of the spell/ability's resolution effects as
// far as casting needs to know: whether it wants targets and how many.
type EffectSpec struct {
	Executor    executor.Executor
	TargetsMin  int
	TargetsMax  int
	Description string
	LegalTargets func() []ids.ObjectId
}

// ModeSpec describes one selectable mode of a modal spell.
type ModeSpec struct {
	Description string
	Effects     []EffectSpec
}

// CostSpec describes one additional/alternative cost as a cost-capable
// executor plus the legal candidate objects for it, if it needs targets
// (sacrifice, discard, exile-from-hand).
type CostSpec struct {
	Executor     executor.CostCapable
	Description  string
	LegalTargets []ids.ObjectId
	Min, Max     int
}

// OptionalCostSpec is one kicker-family option: paying it is optional and,
// per spec §4.7 phase 5, may be repeatable.
type OptionalCostSpec struct {
	Name       string
	ManaCost   string
	Repeatable bool
}

// Spec is everything the casting pipeline needs to know about the
// spell/ability being cast, assembled by the engine from the source
// object's CardDefinition/Ability before the PendingCast begins.
type Spec struct {
	SourceID        ids.ObjectId
	Controller      string
	Kind            stack.Kind
	CastingMethods  []string // normal, flashback, escape, play-from-exile, ...
	Modes           []ModeSpec
	MinModes        int
	MaxModes        int
	ManaCost        *mana.Cost
	XUsedIn         bool // true when the cost or an effect references X
	OptionalCosts   []OptionalCostSpec
	AdditionalCosts []CostSpec
	IsPermanent     bool
	TriggeringEvent *stack.Entry // carried through for triggered abilities
}

// Pending is the re-enterable state of one in-progress cast or activation
// (spec §4.7 "strictly re-enterable ... a subsequent apply step resumes
// from exactly the captured PendingCast state").
type Pending struct {
	Spec  Spec
	Phase Phase

	ChosenMethod string
	ChosenModes  []int
	Targets      [][]ids.ObjectId // parallel to the effects selected by ChosenModes (or Spec's single implicit mode)
	XValue       int
	OptionalsPaid []string
	AdditionalCostsPaid []int // indices into Spec.AdditionalCosts already satisfied
	ExileFromHandChoice ids.ObjectId
	ManaSpent    map[string]int

	effectCursor int // which EffectSpec's targets are currently being gathered
}

// NewPending starts a fresh cast/activation for spec.
func NewPending(spec Spec) *Pending {
	return &Pending{Spec: spec, ManaSpent: make(map[string]int)}
}

// activeEffects returns the effect list the pending cast is currently
// working against: the chosen modes' effects, or all of Spec.Modes[0]'s
// effects when the spell isn't modal.
func (p *Pending) activeEffects() []EffectSpec {
	if len(p.Spec.Modes) == 0 {
		return nil
	}
	if len(p.Spec.Modes) == 1 {
		return p.Spec.Modes[0].Effects
	}
	var out []EffectSpec
	for _, m := range p.ChosenModes {
		if m >= 0 && m < len(p.Spec.Modes) {
			out = append(out, p.Spec.Modes[m].Effects...)
		}
	}
	return out
}

// NextDecision returns the DecisionContext the engine should surface for
// the pending cast's current phase, or nil if the current phase needs no
// decision and Advance should just be called again (e.g. a single
// unconditional casting method, or a spell with no additional costs).
func (p *Pending) NextDecision() *decision.Context {
	switch p.Phase {
	case PhaseMethodSelection:
		if len(p.Spec.CastingMethods) <= 1 {
			return nil
		}
		opts := make([]decision.Option, len(p.Spec.CastingMethods))
		for i, m := range p.Spec.CastingMethods {
			opts[i] = decision.Option{Label: m, Legal: true}
		}
		return &decision.Context{Tag: decision.TagSelectOptions, Player: p.Spec.Controller, Description: "Choose casting method", Options: opts, Min: 1, Max: 1}

	case PhaseModeSelection:
		if len(p.Spec.Modes) <= 1 {
			return nil
		}
		modes := make([]decision.Mode, len(p.Spec.Modes))
		for i, m := range p.Spec.Modes {
			modes[i] = decision.Mode{Index: i, Description: m.Description}
		}
		return &decision.Context{Tag: decision.TagModes, Player: p.Spec.Controller, SpellName: string(p.Spec.SourceID), Modes: modes, Min: p.Spec.MinModes, Max: p.Spec.MaxModes}

	case PhaseTargetSelection:
		effects := p.activeEffects()
		for p.effectCursor < len(effects) {
			eff := effects[p.effectCursor]
			if eff.TargetsMax == 0 {
				p.effectCursor++
				continue
			}
			var legal []ids.ObjectId
			if eff.LegalTargets != nil {
				legal = eff.LegalTargets()
			}
			return &decision.Context{
				Tag:    decision.TagTargets,
				Player: p.Spec.Controller,
				TargetRequirements: []decision.TargetRequirement{{
					Description:  eff.Description,
					Min:          eff.TargetsMin,
					Max:          eff.TargetsMax,
					LegalTargets: legal,
				}},
			}
		}
		return nil

	case PhaseXValue:
		if !p.Spec.XUsedIn {
			return nil
		}
		return &decision.Context{Tag: decision.TagNumber, Player: p.Spec.Controller, Description: "Choose a value for X", Min: 0, Max: 99, IsX: true}

	case PhaseOptionalCosts:
		if len(p.Spec.OptionalCosts) == 0 {
			return nil
		}
		opts := make([]decision.Option, len(p.Spec.OptionalCosts))
		for i, o := range p.Spec.OptionalCosts {
			opts[i] = decision.Option{Label: o.Name, Legal: true}
		}
		return &decision.Context{Tag: decision.TagSelectOptions, Player: p.Spec.Controller, Description: "Choose optional costs to pay", Options: opts, Min: 0, Max: len(opts)}

	case PhaseAdditionalCosts:
		idx := len(p.AdditionalCostsPaid)
		if idx >= len(p.Spec.AdditionalCosts) {
			return nil
		}
		cost := p.Spec.AdditionalCosts[idx]
		if len(cost.LegalTargets) == 0 {
			return nil // e.g. "pay 2 life", no object selection needed
		}
		return &decision.Context{Tag: decision.TagSelectObjects, Player: p.Spec.Controller, Description: cost.Description, Candidates: toCandidates(cost.LegalTargets), Min: cost.Min, Max: cost.Max}

	case PhaseExileFromHand:
		return nil // handled as one of Spec.AdditionalCosts in this model

	case PhaseManaPayment:
		if p.Spec.ManaCost == nil {
			return nil
		}
		return &decision.Context{Tag: decision.TagHybridChoice, Player: p.Spec.Controller, Description: "Pay mana cost", PipNumber: len(p.Spec.ManaCost.Hybrid)}
	}
	return nil
}

func toCandidates(list []ids.ObjectId) []decision.Candidate {
	out := make([]decision.Candidate, len(list))
	for i, id := range list {
		out[i] = decision.Candidate{ID: id, Legal: true}
	}
	return out
}

// Apply consumes a DecisionResponse for the pending cast's current phase
// and advances it. It does not validate the response; legality is the
// caller's job via LegalTargets/LegalActions.
func (p *Pending) Apply(resp decision.Response) {
	switch p.Phase {
	case PhaseMethodSelection:
		if len(resp.ChosenOpts) == 1 {
			p.ChosenMethod = p.Spec.CastingMethods[resp.ChosenOpts[0]]
		}
	case PhaseModeSelection:
		p.ChosenModes = append([]int(nil), resp.ChosenModes...)
	case PhaseTargetSelection:
		chosen := resp.ChosenIDs
		if len(resp.TargetChoices) > 0 {
			chosen = resp.TargetChoices[0]
		}
		p.Targets = append(p.Targets, chosen)
		p.effectCursor++
	case PhaseXValue:
		p.XValue = resp.Number
	case PhaseOptionalCosts:
		for _, idx := range resp.ChosenOpts {
			if idx >= 0 && idx < len(p.Spec.OptionalCosts) {
				p.OptionalsPaid = append(p.OptionalsPaid, p.Spec.OptionalCosts[idx].Name)
			}
		}
	case PhaseAdditionalCosts:
		p.AdditionalCostsPaid = append(p.AdditionalCostsPaid, len(p.AdditionalCostsPaid))
		_ = resp.ChosenIDs // consumed by the cost executor when Finalize runs it
	case PhaseManaPayment:
		for c, amt := range manaFromResponse(resp) {
			p.ManaSpent[c] += amt
		}
	}
	// Phases that ask a single question are finished once answered; target
	// and additional-cost phases move on through their own cursors instead.
	switch p.Phase {
	case PhaseMethodSelection, PhaseModeSelection, PhaseXValue, PhaseOptionalCosts, PhaseManaPayment:
		p.advanceOne()
	}
}

func manaFromResponse(resp decision.Response) map[string]int {
	out := map[string]int{}
	if resp.ChosenCounter != "" {
		out[resp.ChosenCounter] = resp.CounterAmount
	}
	return out
}

// Advance moves Phase forward past any phase that needs no decision,
// stopping at the next phase that does (or PhaseDone). The caller should
// call NextDecision after Advance to see if the engine must suspend.
func (p *Pending) Advance() {
	for p.Phase != PhaseDone {
		if p.NextDecision() != nil {
			return
		}
		p.advanceOne()
	}
}

func (p *Pending) advanceOne() {
	switch p.Phase {
	case PhaseMethodSelection:
		if p.ChosenMethod == "" && len(p.Spec.CastingMethods) == 1 {
			p.ChosenMethod = p.Spec.CastingMethods[0]
		}
		p.Phase = PhaseModeSelection
	case PhaseModeSelection:
		if len(p.Spec.Modes) == 1 {
			p.ChosenModes = []int{0}
		}
		p.Phase = PhaseTargetSelection
	case PhaseTargetSelection:
		p.Phase = PhaseXValue
	case PhaseXValue:
		p.Phase = PhaseOptionalCosts
	case PhaseOptionalCosts:
		p.Phase = PhaseAdditionalCosts
	case PhaseAdditionalCosts:
		p.Phase = PhaseExileFromHand
	case PhaseExileFromHand:
		p.Phase = PhaseManaPayment
	case PhaseManaPayment:
		p.Phase = PhaseFinalize
	case PhaseFinalize:
		p.Phase = PhaseDone
	}
}

// Finalize builds the stack.Entry to push once every phase has completed,
// spec §4.7 phase 9: mint nothing here (the caller mints the new
// ObjectId), just assemble the captured casting context.
func (p *Pending) Finalize(newObjectID ids.ObjectId, sourceStableID ids.StableId) stack.Entry {
	effects := p.activeEffects()
	executors := make([]executor.Executor, 0, len(effects))
	for _, e := range effects {
		executors = append(executors, e.Executor)
	}
	var flatTargets []ids.ObjectId
	for _, t := range p.Targets {
		flatTargets = append(flatTargets, t...)
	}
	return stack.Entry{
		ObjectID:          newObjectID,
		Controller:        p.Spec.Controller,
		Kind:              p.Spec.Kind,
		Targets:           flatTargets,
		ChosenModes:       p.ChosenModes,
		XValue:            p.XValue,
		CastingMethod:     p.ChosenMethod,
		OptionalCostsPaid: p.OptionalsPaid,
		ManaSpentToCast:   p.ManaSpent,
		SourceStableID:    sourceStableID,
		Executors:         executors,
		IsPermanentSpell:  p.Spec.IsPermanent,
	}
}

// IsDone reports whether every phase has been resolved and Finalize may be
// called.
func (p *Pending) IsDone() bool { return p.Phase == PhaseDone }
