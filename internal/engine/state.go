// Package engine implements Engine/GameState and the advance/respond
// driver loop (spec §6.1, §6.3, §5), adapted from the teacher's MageEngine
// (games map, bookmarks, turnSnapshots, NewMageEngine(logger *zap.Logger))
// reshaped from a notification-push multi-game server object into the
// spec's single-game, pull-based Progress state machine — see DESIGN.md's
// "Decision protocol vs. teacher's notification-push model" entry.
package engine

import (
	"go.uber.org/zap"

	"github.com/corvid-games/cardengine/internal/combat"
	"github.com/corvid-games/cardengine/internal/continuous"
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/mana"
	"github.com/corvid-games/cardengine/internal/object"
	"github.com/corvid-games/cardengine/internal/player"
	"github.com/corvid-games/cardengine/internal/stack"
	"github.com/corvid-games/cardengine/internal/trigger"
	"github.com/corvid-games/cardengine/internal/turn"
	"github.com/corvid-games/cardengine/internal/watcher"
	"github.com/corvid-games/cardengine/internal/zone"
)

// Config configures a new game (spec §6.1 new_game): player names,
// starting life and the RNG seed. StartingHand is stored but nothing in the
// engine reads it. There are no mulligan or variant settings.
type Config struct {
	PlayerNames  []string
	StartingLife int
	StartingHand int
	RandomSeed   int64
}

// State is the authoritative, mutable game state one Engine drives.
// Holds every subsystem manager the spec's components describe, the same
// split the teacher draws between engineGameState's manager fields
// (combat, turnManager, stackManager, layerSystem, ...) and the cards map.
type State struct {
	arena *ids.Arena

	objects     map[ids.ObjectId]*object.Object
	players     map[string]*player.Player
	playerOrder []string

	continuous   *continuous.System
	replacements *event.Registry
	triggers     *trigger.Manager
	delayed      *trigger.DelayedQueue
	watchers     *watcher.Registry
	stackMgr     *stack.Stack
	turnMgr      *turn.Manager
	combatState  *combat.State

	rng *ids.RNG

	logger *zap.Logger

	gameOver  bool
	winner    string
	loopState LoopState

	// firedDelayed buffers delayed triggers that fired mid-resolution (spec
	// §4.6 "delayed triggered abilities"), so the next trigger flush can
	// queue them instead of them being silently dropped by whichever
	// DealDamage/DamagePlayer/DrawCard/Resolve call fired them.
	firedDelayed []trigger.Pending
}

// RecordFiredDelayed buffers a delayed trigger that just fired, for the next
// flushTriggers pass to pick up. Satisfies the duck-typed delayedRecorder
// interface stack.Resolve uses, so package stack never needs to import
// engine.
func (s *State) RecordFiredDelayed(p trigger.Pending) {
	s.firedDelayed = append(s.firedDelayed, p)
}

// DrainFiredDelayed returns and clears every delayed trigger buffered since
// the last drain.
func (s *State) DrainFiredDelayed() []trigger.Pending {
	if len(s.firedDelayed) == 0 {
		return nil
	}
	out := s.firedDelayed
	s.firedDelayed = nil
	return out
}

// newState builds the subsystem wiring for a fresh game; cfg.RandomSeed
// seeds the deterministic shuffle source (spec §5 "Determinism ... drawn
// from a seeded generator whose state is part of GameState").
func newState(cfg Config, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &State{
		arena:        ids.NewArena(),
		objects:      make(map[ids.ObjectId]*object.Object),
		players:      make(map[string]*player.Player),
		continuous:   continuous.NewSystem(),
		replacements: event.NewRegistry(),
		triggers:     trigger.NewManager(),
		delayed:      trigger.NewDelayedQueue(),
		watchers:     watcher.NewRegistry(),
		stackMgr:     stack.New(),
		rng:          ids.NewRNG(cfg.RandomSeed),
		logger:       logger,
	}
	s.watchers.Install(watcher.NewSpellsCast())
	s.watchers.Install(watcher.NewCreaturesDied())
	s.watchers.Install(watcher.NewDamageThisTurn())

	life := cfg.StartingLife
	if life == 0 {
		life = 20
	}
	for i, name := range cfg.PlayerNames {
		id := name
		if id == "" {
			id = playerIDFromIndex(i)
		}
		p := player.New(id, name, life)
		s.players[id] = p
		s.playerOrder = append(s.playerOrder, id)
	}
	if len(s.playerOrder) > 0 {
		s.turnMgr = turn.New(s.playerOrder[0])
	}
	return s
}

// --- executor.View ---

// Object returns the live object for id.
func (s *State) Object(id ids.ObjectId) (*object.Object, bool) {
	o, ok := s.objects[id]
	return o, ok
}

// Player returns the player record for id.
func (s *State) Player(id string) (*player.Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// Players returns every player in seat order.
func (s *State) Players() []*player.Player {
	out := make([]*player.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		out = append(out, s.players[id])
	}
	return out
}

// ManaPool returns playerID's mana pool.
func (s *State) ManaPool(playerID string) *mana.Pool {
	if p, ok := s.players[playerID]; ok {
		return p.ManaPool
	}
	return nil
}

// Continuous returns the continuous-effects layer system.
func (s *State) Continuous() *continuous.System { return s.continuous }

// Replacements returns the replacement/prevention registry.
func (s *State) Replacements() *event.Registry { return s.replacements }

// Triggers returns the trigger manager.
func (s *State) Triggers() *trigger.Manager { return s.triggers }

// Delayed returns the delayed-trigger queue.
func (s *State) Delayed() *trigger.DelayedQueue { return s.delayed }

// CurrentTurn returns the current turn number.
func (s *State) CurrentTurn() int {
	if s.turnMgr == nil {
		return 0
	}
	return s.turnMgr.TurnNumber()
}

// ActivePlayer returns the player whose turn it is.
func (s *State) ActivePlayer() string {
	if s.turnMgr == nil {
		return ""
	}
	return s.turnMgr.ActivePlayer()
}

// Calculate returns o's calculated characteristics.
func (s *State) Calculate(o *object.Object) *continuous.Snapshot {
	return s.continuous.Calculate(o)
}

// Mint installs a fresh object from def into zone z under owner, minting
// new Object/Stable ids (spec §6.1 create_object_from_definition).
func (s *State) Mint(def object.CardDefinition, owner string, z string) *object.Object {
	zv := zone.Parse(z)
	objID := s.arena.NextObjectId()
	stableID := s.arena.NextStableId()
	o := object.NewFromDefinition(def, objID, stableID, owner, zv)
	s.objects[objID] = o
	s.placeInZone(o, zv)
	return o
}

// MoveZone moves id to the named zone, minting a fresh ObjectId per rule
// 400.7 and preserving StableId. Returns the object's new id.
func (s *State) MoveZone(id ids.ObjectId, to string) (ids.ObjectId, error) {
	obj, ok := s.objects[id]
	if !ok {
		return "", errObjectNotFound(id)
	}
	s.removeFromZone(obj)

	toZone := zone.Parse(to)
	newID := s.arena.NextObjectId()

	moved := *obj
	moved.ID = newID
	moved.Zone = toZone
	moved.AttachedTo = ""
	moved.Attachments = nil
	moved.DamageMarked = 0
	moved.DeathtouchMarked = false
	moved.DamageSources = make(map[ids.ObjectId]int)
	moved.Tapped = false
	if toZone == zone.Battlefield {
		moved.SummonedTurn = s.CurrentTurn()
		moved.Controller = moved.Owner
	}

	delete(s.objects, id)
	s.objects[newID] = &moved
	s.placeInZone(&moved, toZone)
	return newID, nil
}

// RemoveFromGame deletes id entirely (token/copy SBA cleanup, spec §3.2
// "destroyed when removed from the game").
func (s *State) RemoveFromGame(id ids.ObjectId) {
	if obj, ok := s.objects[id]; ok {
		s.removeFromZone(obj)
		delete(s.objects, id)
	}
}

// BattlefieldObjects returns every object currently on the battlefield.
func (s *State) BattlefieldObjects() []*object.Object {
	var out []*object.Object
	for _, o := range s.objects {
		if o.Zone == zone.Battlefield {
			out = append(out, o)
		}
	}
	return out
}

// DispatchEvent runs ev through the replacement registry.
func (s *State) DispatchEvent(ev event.Event) event.Result {
	return s.replacements.Dispatch(ev, ev.PlayerID, nil)
}

// --- stack.View ---

// Stack returns the spell/ability stack.
func (s *State) Stack() *stack.Stack { return s.stackMgr }

// --- combat.View ---

// ControllerOf returns id's controlling player, whether id names a
// permanent or (degenerate case, used for "defender is a player") the
// player id itself.
func (s *State) ControllerOf(id ids.ObjectId) string {
	if obj, ok := s.objects[id]; ok {
		return obj.Controller
	}
	if _, ok := s.players[string(id)]; ok {
		return string(id)
	}
	return ""
}

// IsPlaneswalker reports whether id is a planeswalker permanent (as
// opposed to a player), distinguishing combat's two defender kinds.
func (s *State) IsPlaneswalker(id ids.ObjectId) bool {
	obj, ok := s.objects[id]
	if !ok {
		return false
	}
	return s.continuous.Calculate(obj).HasType("Planeswalker")
}

// ControllerOfPlaneswalker returns the controlling player of a planeswalker
// defender.
func (s *State) ControllerOfPlaneswalker(id ids.ObjectId) string {
	return s.ControllerOf(id)
}

// Tap marks id as tapped.
func (s *State) Tap(id ids.ObjectId) {
	if obj, ok := s.objects[id]; ok {
		obj.Tapped = true
	}
}

// DealDamage deals amount combat damage from source to a permanent target,
// honoring deathtouch (marking the permanent lethally regardless of
// amount) and lifelink (the source's controller gains life equal to
// amount), and fans the resulting event through triggers (spec §4.8
// "Combat damage events batch into a single processing step so that
// lifelink and deathtouch interact correctly").
func (s *State) DealDamage(source, target ids.ObjectId, amount int, isCombat, deathtouch, lifelink bool) error {
	if amount <= 0 {
		return nil
	}
	obj, ok := s.objects[target]
	if !ok {
		return nil
	}
	ev := event.Event{Type: event.TypeCombatDamage, SourceID: source, TargetID: target, Amount: amount}
	result := s.replacements.Dispatch(ev, obj.Controller, nil)
	if result.Outcome == event.OutcomePrevented {
		return nil
	}
	obj.DamageMarked += result.Event.Amount
	if deathtouch {
		obj.DeathtouchMarked = true
	}
	if obj.DamageSources == nil {
		obj.DamageSources = make(map[ids.ObjectId]int)
	}
	obj.DamageSources[source] += result.Event.Amount
	s.watchers.Observe(result.Event)
	s.triggers.Observe(result.Event)
	s.firedDelayed = append(s.firedDelayed, s.delayed.Check(result.Event, s.CurrentTurn())...)
	if lifelink {
		if srcObj, ok := s.objects[source]; ok {
			if p, ok := s.players[srcObj.Controller]; ok {
				p.Life += result.Event.Amount
			}
		}
	}
	return nil
}

// DamagePlayer deals amount combat damage to a player, applying lifelink
// the same way DealDamage does for permanents.
func (s *State) DamagePlayer(source ids.ObjectId, playerID string, amount int, lifelink bool) error {
	if amount <= 0 {
		return nil
	}
	p, ok := s.players[playerID]
	if !ok {
		return nil
	}
	ev := event.Event{Type: event.TypeCombatDamage, SourceID: source, PlayerID: playerID, Amount: amount}
	result := s.replacements.Dispatch(ev, playerID, nil)
	if result.Outcome == event.OutcomePrevented {
		return nil
	}
	p.Life -= result.Event.Amount
	s.watchers.Observe(result.Event)
	s.triggers.Observe(result.Event)
	s.firedDelayed = append(s.firedDelayed, s.delayed.Check(result.Event, s.CurrentTurn())...)
	if lifelink {
		if srcObj, ok := s.objects[source]; ok {
			if controller, ok := s.players[srcObj.Controller]; ok {
				controller.Life += result.Event.Amount
			}
		}
	}
	return nil
}

// --- accessors the priority loop needs beyond executor/stack/combat.View ---

// PlayerOrder returns the seating order used for APNAP-style iteration.
func (s *State) PlayerOrder() []string { return s.playerOrder }

// CurrentPhase returns the phase in progress.
func (s *State) CurrentPhase() turn.Phase { return s.turnMgr.CurrentPhase() }

// CurrentStep returns the step in progress.
func (s *State) CurrentStep() turn.Step { return s.turnMgr.CurrentStep() }

// CombatState returns the combat state for the turn's combat phase, or nil
// outside of combat.
func (s *State) CombatState() *combat.State { return s.combatState }

// Logger returns the game's structured logger.
func (s *State) Logger() *zap.Logger { return s.logger }

// Hand returns playerID's current hand contents.
func (s *State) Hand(playerID string) []ids.ObjectId {
	if p, ok := s.players[playerID]; ok {
		return p.Hand
	}
	return nil
}

// UntapAll untaps every permanent controlled by playerID (spec §4.9 untap
// step).
func (s *State) UntapAll(playerID string) {
	for _, o := range s.objects {
		if o.Zone == zone.Battlefield && o.Controller == playerID {
			o.Tapped = false
		}
	}
}

// DrawCard moves the top of playerID's library to their hand, returning the
// drawn object's new id and whether a card was available (an empty library
// is a loss condition the SBA pass detects, not an error here).
func (s *State) DrawCard(playerID string) (ids.ObjectId, bool) {
	p, ok := s.players[playerID]
	if !ok {
		return "", false
	}
	top, ok := p.TopOfLibrary()
	if !ok {
		p.DrawsPrevented++
		return "", false
	}
	ev := event.Event{Type: event.TypeDraw, TargetID: top, PlayerID: playerID}
	result := s.replacements.Dispatch(ev, playerID, nil)
	if result.Outcome == event.OutcomePrevented {
		p.DrawsPrevented++
		return "", false
	}
	newID, err := s.MoveZone(top, "HAND")
	if err != nil {
		return "", false
	}
	s.watchers.Observe(result.Event)
	s.triggers.Observe(result.Event)
	s.firedDelayed = append(s.firedDelayed, s.delayed.Check(result.Event, s.CurrentTurn())...)
	return newID, true
}

// ShuffleLibrary randomizes playerID's library using the game's seeded
// source, keeping replay deterministic (spec §5).
func (s *State) ShuffleLibrary(playerID string) {
	p, ok := s.players[playerID]
	if !ok {
		return
	}
	s.rng.Shuffle(len(p.Library), func(i, j int) {
		p.Library[i], p.Library[j] = p.Library[j], p.Library[i]
	})
}

// --- sba.LegendChooser bridging is in priority.go (needs decision queue) ---

func (s *State) placeInZone(o *object.Object, z zone.Zone) {
	switch z {
	case zone.Library:
		if p, ok := s.players[o.Owner]; ok {
			p.Library = append([]ids.ObjectId{o.ID}, p.Library...)
		}
	case zone.Hand:
		if p, ok := s.players[o.Owner]; ok {
			p.Hand = append(p.Hand, o.ID)
		}
	case zone.Graveyard:
		if p, ok := s.players[o.Owner]; ok {
			p.Graveyard = append(p.Graveyard, o.ID)
		}
	default:
		// Battlefield, Exile, Stack, Command: shared zones, membership is
		// just o.Zone plus the objects map.
	}
}

func (s *State) removeFromZone(o *object.Object) {
	switch o.Zone {
	case zone.Library:
		if p, ok := s.players[o.Owner]; ok {
			p.RemoveFromLibrary(o.ID)
		}
	case zone.Hand:
		if p, ok := s.players[o.Owner]; ok {
			p.RemoveFromHand(o.ID)
		}
	case zone.Graveyard:
		if p, ok := s.players[o.Owner]; ok {
			p.RemoveFromGraveyard(o.ID)
		}
	case zone.Battlefield:
		for _, attID := range o.Attachments {
			if att, ok := s.objects[attID]; ok {
				att.AttachedTo = ""
			}
		}
		if o.AttachedTo != "" {
			if former, ok := s.objects[o.AttachedTo]; ok {
				o.Detach(former)
			}
		}
	}
}
