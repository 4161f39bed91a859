package event

import "sync"

// ReplacementKind mirrors spec §3.7: the kinds of event a replacement can
// intercept.
type ReplacementKind string

const (
	ReplacementDestroy     ReplacementKind = "DESTROY"
	ReplacementZoneChange  ReplacementKind = "ZONE_CHANGE"
	ReplacementDamage      ReplacementKind = "DAMAGE"
	ReplacementDraw        ReplacementKind = "DRAW"
)

// ReplacementAction mirrors spec §3.7's action vocabulary.
type ReplacementAction string

const (
	ActionPrevent      ReplacementAction = "PREVENT"
	ActionReplaceWith  ReplacementAction = "REPLACE_WITH_EFFECT"
	ActionModifyTarget ReplacementAction = "MODIFY_TARGET"
)

// Replacement is one registered replacement/prevention effect (spec §3.7).
// OneShot effects (a regeneration shield) are removed from the registry
// after they apply once; persistent effects (Yawgmoth's Will) stay
// registered.
type Replacement struct {
	ID       string
	SourceID string
	Kind     ReplacementKind
	Action   ReplacementAction
	OneShot  bool

	// AppliesTo reports whether this replacement is a candidate for the
	// given event; Transform performs the replacement, returning the
	// modified event and whether the original event is fully replaced
	// (true) or merely altered and still open to further replacements
	// (false) — mirrors the teacher's ReplaceEvent contract.
	AppliesTo func(Event) bool
	Transform func(Event) (Event, bool)

	// OnApply, if set, runs once the replacement is chosen and committed
	// (regardless of Action) — used for replacements with a side effect
	// beyond altering the event itself, e.g. a regeneration shield tapping
	// and clearing damage on the permanent it saves.
	OnApply func(Event)
}

// Registry holds the replacement/prevention effects currently active in a
// game and implements the dispatch protocol of spec §4.2.
type Registry struct {
	mu      sync.Mutex
	effects map[string]*Replacement
}

// NewRegistry creates an empty replacement registry.
func NewRegistry() *Registry {
	return &Registry{effects: make(map[string]*Replacement)}
}

// Clone returns an independent copy of the registry sufficient for
// snapshot/restore (spec §5, §6.3). Replacement values themselves are
// immutable describers installed once and never mutated in place, so the
// clone only needs its own copy of the id->*Replacement map.
func (r *Registry) Clone() *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := &Registry{effects: make(map[string]*Replacement, len(r.effects))}
	for id, rep := range r.effects {
		cp.effects[id] = rep
	}
	return cp
}

// Install registers a new replacement effect.
func (r *Registry) Install(rep *Replacement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects[rep.ID] = rep
}

// Remove unregisters a replacement effect by id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.effects, id)
}

// Active returns the replacement effects currently registered for sourceID,
// for UI display (e.g. "this creature has a regeneration shield").
func (r *Registry) Active(sourceID string) []*Replacement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Replacement
	for _, e := range r.effects {
		if e.SourceID == sourceID {
			out = append(out, e)
		}
	}
	return out
}

// ChoiceRequester asks the affected player which of several applicable
// replacements to apply first, when more than one matches the same event
// (rule 616.1). Supplied by the engine layer so this package stays free of
// a dependency on the decision-context vocabulary.
type ChoiceRequester interface {
	ChooseReplacement(playerID string, candidates []*Replacement) *Replacement
}

// maxRecursionDepth guards against pathological replace-with-effect cycles
// (spec §9 "Replacement-effect choice ... guard with a hard cap").
const maxRecursionDepth = 32

// Dispatch runs ev through the registry following spec §4.2's five-step
// protocol: collect applicable replacements, drop ones that have already
// applied to this event instance, ask the affected player to choose among
// several, apply the choice (recursing if it produced a new event), and
// otherwise commit.
func (r *Registry) Dispatch(ev Event, affectedPlayer string, chooser ChoiceRequester) Result {
	return r.dispatch(ev, affectedPlayer, chooser, make(map[string]bool), 0)
}

func (r *Registry) dispatch(ev Event, affectedPlayer string, chooser ChoiceRequester, applied map[string]bool, depth int) Result {
	if depth > maxRecursionDepth {
		return Result{Event: ev, Outcome: OutcomeNotApplicable}
	}

	candidates := r.collect(ev, applied)
	if len(candidates) == 0 {
		return Result{Event: ev, Outcome: OutcomeProceed}
	}

	var chosen *Replacement
	if len(candidates) == 1 {
		chosen = candidates[0]
	} else if chooser != nil {
		chosen = chooser.ChooseReplacement(affectedPlayer, candidates)
	} else {
		chosen = candidates[0]
	}
	if chosen == nil {
		return Result{Event: ev, Outcome: OutcomeProceed}
	}

	applied[chosen.ID] = true
	if chosen.OneShot {
		r.Remove(chosen.ID)
	}
	if chosen.OnApply != nil {
		chosen.OnApply(ev)
	}

	if chosen.Action == ActionPrevent {
		ev.Prevented = true
		return Result{Event: ev, Outcome: OutcomePrevented}
	}

	newEvent, fullyReplaced := chosen.Transform(ev)
	if fullyReplaced {
		return Result{Event: newEvent, Outcome: OutcomeReplaced}
	}
	return r.dispatch(newEvent, affectedPlayer, chooser, applied, depth+1)
}

func (r *Registry) collect(ev Event, applied map[string]bool) []*Replacement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Replacement
	for _, e := range r.effects {
		if applied[e.ID] {
			continue
		}
		if e.AppliesTo != nil && e.AppliesTo(ev) {
			out = append(out, e)
		}
	}
	return out
}
