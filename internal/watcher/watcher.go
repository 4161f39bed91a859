// Package watcher implements ambient per-game watchers that accumulate
// facts across events for SBA/trigger conditions to query later (e.g.
// "has a creature died this turn", "how much damage has this player
// dealt"). Adapted from the teacher's internal/game/watchers/common.go
// (BaseWatcher, SpellsCastWatcher, CreaturesDiedWatcher), retargeted at
// this engine's event.Event type instead of the teacher's rules.Event.
package watcher

import "github.com/corvid-games/cardengine/internal/event"

// Watcher observes every dispatched event and accumulates whatever it
// tracks. The engine calls Reset at the cleanup step and again when a new
// turn begins.
type Watcher interface {
	Key() string
	Watch(ev event.Event)
	Reset()
	Clone() Watcher
}

// Registry holds every active watcher for a game, grounded on the
// teacher's ad hoc watcher-slice-on-gameState pattern, promoted to its own
// small manager the way TriggerManager/LayerSystem are their own managers.
type Registry struct {
	watchers map[string]Watcher
}

// NewRegistry creates an empty watcher registry.
func NewRegistry() *Registry {
	return &Registry{watchers: make(map[string]Watcher)}
}

// Install registers a watcher, keyed by its own Key().
func (r *Registry) Install(w Watcher) {
	r.watchers[w.Key()] = w
}

// Observe fans ev out to every installed watcher.
func (r *Registry) Observe(ev event.Event) {
	for _, w := range r.watchers {
		w.Watch(ev)
	}
}

// ResetTurnScoped clears every watcher at the start of a new turn (spec
// §4.9 turn advancement "then generate step-triggers"; most watchers are
// the "this turn" family, e.g. SpellsCastWatcher).
func (r *Registry) ResetTurnScoped() {
	for _, w := range r.watchers {
		w.Reset()
	}
}

// Get returns the watcher registered under key, for type-asserting callers
// (mirrors the teacher's pattern of looking a named watcher up out of a
// game's watcher collection).
func (r *Registry) Get(key string) (Watcher, bool) {
	w, ok := r.watchers[key]
	return w, ok
}

// Clone returns an independent copy of the registry, deep-cloning every
// installed watcher, sufficient for snapshot/restore (spec §5, §6.3).
func (r *Registry) Clone() *Registry {
	cp := &Registry{watchers: make(map[string]Watcher, len(r.watchers))}
	for key, w := range r.watchers {
		cp.watchers[key] = w.Clone()
	}
	return cp
}

// SpellsCast tracks spells cast by each player this turn, grounded on the
// teacher's SpellsCastWatcher.
type SpellsCast struct {
	byPlayer map[string][]string
}

// NewSpellsCast creates a fresh spells-cast-this-turn watcher.
func NewSpellsCast() *SpellsCast { return &SpellsCast{byPlayer: make(map[string][]string)} }

func (w *SpellsCast) Key() string { return "SpellsCastWatcher" }

func (w *SpellsCast) Watch(ev event.Event) {
	if ev.Type != event.TypeSpellCast {
		return
	}
	playerID := ev.Controller
	if playerID == "" {
		playerID = ev.PlayerID
	}
	if playerID == "" {
		return
	}
	spellID := string(ev.SourceID)
	if spellID == "" {
		spellID = string(ev.TargetID)
	}
	w.byPlayer[playerID] = append(w.byPlayer[playerID], spellID)
}

func (w *SpellsCast) Reset() { w.byPlayer = make(map[string][]string) }

func (w *SpellsCast) Clone() Watcher {
	cp := &SpellsCast{byPlayer: make(map[string][]string, len(w.byPlayer))}
	for k, v := range w.byPlayer {
		cp.byPlayer[k] = append([]string(nil), v...)
	}
	return cp
}

// Count returns how many spells playerID has cast this turn.
func (w *SpellsCast) Count(playerID string) int { return len(w.byPlayer[playerID]) }

// CreaturesDied tracks creature deaths this turn, grounded on the
// teacher's CreaturesDiedWatcher.
type CreaturesDied struct {
	byController map[string]int
}

// NewCreaturesDied creates a fresh creatures-died-this-turn watcher.
func NewCreaturesDied() *CreaturesDied { return &CreaturesDied{byController: make(map[string]int)} }

func (w *CreaturesDied) Key() string { return "CreaturesDiedWatcher" }

func (w *CreaturesDied) Watch(ev event.Event) {
	if ev.Type != event.TypeDestroy && ev.Type != event.TypeSacrifice {
		return
	}
	if ev.FromZone != "BATTLEFIELD" && ev.Type != event.TypeSacrifice {
		return
	}
	w.byController[ev.Controller]++
}

func (w *CreaturesDied) Reset() { w.byController = make(map[string]int) }

func (w *CreaturesDied) Clone() Watcher {
	cp := &CreaturesDied{byController: make(map[string]int, len(w.byController))}
	for k, v := range w.byController {
		cp.byController[k] = v
	}
	return cp
}

// Count returns how many creatures controllerID has had die this turn.
func (w *CreaturesDied) Count(controllerID string) int { return w.byController[controllerID] }

// DamageThisTurn tracks total damage dealt by each source this turn, used
// by "whenever ~ deals damage" triggers that need a cumulative total
// rather than a single event (supplemented feature, grounded on the
// teacher's DamageDoneWatcher-equivalent inline tracking in
// mage_engine.go's combat damage application).
type DamageThisTurn struct {
	bySource map[string]int
}

// NewDamageThisTurn creates a fresh damage-this-turn watcher.
func NewDamageThisTurn() *DamageThisTurn { return &DamageThisTurn{bySource: make(map[string]int)} }

func (w *DamageThisTurn) Key() string { return "DamageThisTurnWatcher" }

func (w *DamageThisTurn) Watch(ev event.Event) {
	if ev.Type != event.TypeDamage && ev.Type != event.TypeCombatDamage {
		return
	}
	w.bySource[string(ev.SourceID)] += ev.Amount
}

func (w *DamageThisTurn) Reset() { w.bySource = make(map[string]int) }

func (w *DamageThisTurn) Clone() Watcher {
	cp := &DamageThisTurn{bySource: make(map[string]int, len(w.bySource))}
	for k, v := range w.bySource {
		cp.bySource[k] = v
	}
	return cp
}

// Total returns the cumulative damage sourceID has dealt this turn.
func (w *DamageThisTurn) Total(sourceID string) int { return w.bySource[sourceID] }
