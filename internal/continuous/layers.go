// Package continuous implements the layered continuous-effects system
// (spec §4.1), adapted from the teacher's internal/game/effects/layers.go.
package continuous

import (
	"sort"
	"sync"

	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
)

// Layer is one of the comprehensive-rules layers, applied in order.
type Layer int

const (
	LayerCopy Layer = 1 + iota
	LayerControl
	LayerText
	LayerType
	LayerColor
	LayerAbility
	// LayerPTSetBase sets base P/T, replacing the printed value (spec
	// §4.1 "Effects that set base P/T are distinct from those that
	// adjust P/T").
	LayerPTSetBase
	// LayerPTCounters is the sublayer where +1/+1 and -1/-1 counters
	// contribute, strictly after base-setting (spec §4.1, relied on by
	// the counter-annihilation SBA ordering).
	LayerPTCounters
	// LayerPTAdjust is the sublayer for other P/T adjustments (static
	// boosts, auras, "gets +X/+X").
	LayerPTAdjust
)

var layerOrder = []Layer{
	LayerCopy, LayerControl, LayerText, LayerType, LayerColor, LayerAbility,
	LayerPTSetBase, LayerPTCounters, LayerPTAdjust,
}

// Snapshot is the mutable working characteristics of one object as layers
// are applied to it, seeded from printed values and the object's current
// counters.
type Snapshot struct {
	ObjectID     ids.ObjectId
	Controller   string
	CardTypes    []string
	Supertypes   []string
	Subtypes     []string
	Abilities    []object.Ability

	Power     int
	HasPower  bool
	Toughness int
	HasTough  bool
}

// seed builds the starting Snapshot for o from its printed characteristics
// only. The P/T contribution of +1/+1 and -1/-1 counters is added later by
// Calculate, in LayerPTCounters (modeled as an always-present implicit
// effect so user-registered effects never need to special-case counters).
func seed(o *object.Object) *Snapshot {
	s := &Snapshot{
		ObjectID:   o.ID,
		Controller: o.Controller,
		CardTypes:  append([]string(nil), o.CardTypes...),
		Supertypes: append([]string(nil), o.Supertypes...),
		Subtypes:   append([]string(nil), o.Subtypes...),
		Abilities:  append([]object.Ability(nil), o.Abilities...),
		Power:      o.BasePower,
		HasPower:   o.HasBasePower,
		Toughness:  o.BaseToughness,
		HasTough:   o.HasBaseTough,
	}
	return s
}

// HasType reports whether t is one of the snapshot's current card types.
func (s *Snapshot) HasType(t string) bool {
	for _, v := range s.CardTypes {
		if v == t {
			return true
		}
	}
	return false
}

// HasKeyword reports whether k is among the snapshot's currently calculated
// abilities, i.e. including any keywords granted by continuous effects —
// the query object.Object.HasKeyword cannot answer on its own.
func (s *Snapshot) HasKeyword(k object.KeywordAbility) bool {
	for _, a := range s.Abilities {
		if a.Kind == object.AbilityStatic && a.Keyword == k {
			return true
		}
	}
	return false
}

// Effect is one registered continuous effect (spec §3.6
// ContinuousEffect). Implementations are provided by package executor for
// "grant ability"/"set P/T"/"change control" style effects; the layer
// system only needs Layer/AppliesTo/Apply/timestamp ordering.
type Effect interface {
	ID() string
	Layer() Layer
	AppliesTo(o *object.Object, s *Snapshot) bool
	Apply(s *Snapshot)
}

type registered struct {
	effect    Effect
	timestamp int64
	until     Until
}

// System manages registration and evaluation of continuous effects. It is
// mutex-guarded the way the teacher's LayerSystem is, even though the
// engine is single-threaded, so UI-rendering snapshots can be read
// concurrently with the engine's owning goroutine (spec §5).
type System struct {
	mu      sync.RWMutex
	byLayer map[Layer][]registered
	clock   int64
}

// NewSystem constructs an empty continuous-effects layer system.
func NewSystem() *System {
	return &System{byLayer: make(map[Layer][]registered)}
}

// Clone returns an independent copy of the layer system sufficient for
// snapshot/restore (spec §5, §6.3). Registered Effect values are immutable
// match/apply describers (closures over fixed predicates, never over live
// game-state pointers), so sharing them across the clone boundary is safe;
// only the per-layer slices themselves need to be decoupled so later
// AddEffect/RemoveEffect calls on one copy don't mutate the other's.
func (s *System) Clone() *System {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := &System{byLayer: make(map[Layer][]registered, len(s.byLayer)), clock: s.clock}
	for layer, effects := range s.byLayer {
		cp.byLayer[layer] = append([]registered(nil), effects...)
	}
	return cp
}

// AddEffect registers a continuous effect, timestamping it at the moment of
// registration (spec §4.1 "Timestamps are assigned at registration"). The
// effect lasts until explicitly removed via RemoveEffect.
func (s *System) AddEffect(e Effect) {
	s.AddEffectUntil(e, UntilForever)
}

// AddEffectUntil registers a continuous effect along with the duration
// after which ExpireAtCleanup should remove it. Duration bookkeeping lives
// here rather than on the Effect interface so executor implementations
// don't each need to answer "when do I expire" themselves.
func (s *System) AddEffectUntil(e Effect, until Until) {
	if e == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock++
	layer := e.Layer()
	s.byLayer[layer] = append(s.byLayer[layer], registered{effect: e, timestamp: s.clock, until: until})
}

// ExpireAtCleanup removes every registered effect whose duration has
// elapsed, called by the engine's cleanup step (spec §4.9). endOfTurn
// and endOfCombat report which boundary just passed; controllerUntapped
// reports whether the effect's owning player's untap step just happened
// (for "until your next untap step" durations).
func (s *System) ExpireAtCleanup(endOfTurn, endOfCombat, controllerUntapped func(id string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for layer, effects := range s.byLayer {
		out := effects[:0]
		for _, r := range effects {
			expired := false
			switch r.until {
			case UntilEndOfTurn:
				expired = endOfTurn != nil && endOfTurn(r.effect.ID())
			case UntilEndOfCombat:
				expired = endOfCombat != nil && endOfCombat(r.effect.ID())
			case UntilNextUntap, UntilYourNextTurn:
				expired = controllerUntapped != nil && controllerUntapped(r.effect.ID())
			}
			if !expired {
				out = append(out, r)
			}
		}
		s.byLayer[layer] = out
	}
}

// RemoveEffect unregisters a continuous effect by id, e.g. because its
// source left the battlefield and its `until` condition says so.
func (s *System) RemoveEffect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for layer, effects := range s.byLayer {
		out := effects[:0]
		for _, r := range effects {
			if r.effect.ID() != id {
				out = append(out, r)
			}
		}
		s.byLayer[layer] = out
	}
}

// Calculate runs o through every applicable effect, layer by layer, in
// timestamp order within a layer, and returns the resulting Snapshot —
// the "calculated characteristics" spec §4.1 requires.
func (s *System) Calculate(o *object.Object) *Snapshot {
	snap := seed(o)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, layer := range layerOrder {
		effects := append([]registered(nil), s.byLayer[layer]...)
		sort.SliceStable(effects, func(i, j int) bool { return effects[i].timestamp < effects[j].timestamp })
		for _, r := range effects {
			if r.effect.AppliesTo(o, snap) {
				r.effect.Apply(snap)
			}
		}
		if layer == LayerPTCounters {
			applyCounterContribution(o, snap)
		}
	}
	return snap
}

// applyCounterContribution adds +1/+1 and -1/-1 counters' net effect on
// power/toughness. It runs inside LayerPTCounters so static P/T-adjusting
// effects registered at LayerPTAdjust still see the counter-adjusted value,
// per spec §4.1's sublayer ordering.
func applyCounterContribution(o *object.Object, snap *Snapshot) {
	if !snap.HasPower && !snap.HasTough {
		return
	}
	net := o.Counters.Count(object.CounterPlusOnePlusOne) - o.Counters.Count(object.CounterMinusOneMinusOne)
	if net == 0 {
		return
	}
	if snap.HasPower {
		snap.Power += net
	}
	if snap.HasTough {
		snap.Toughness += net
	}
}

// Power returns the object's calculated power, if it has one.
func (s *System) Power(o *object.Object) (int, bool) {
	snap := s.Calculate(o)
	return snap.Power, snap.HasPower
}

// Toughness returns the object's calculated toughness, if it has one.
func (s *System) Toughness(o *object.Object) (int, bool) {
	snap := s.Calculate(o)
	return snap.Toughness, snap.HasTough
}

// StaticAbilities returns the object's calculated ability list — printed
// abilities plus anything continuous effects have granted, minus anything
// removed (spec §4.1 "calculated_static_abilities").
func (s *System) StaticAbilities(o *object.Object) []object.Ability {
	return s.Calculate(o).Abilities
}
