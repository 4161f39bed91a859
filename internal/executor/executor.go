// Package executor implements the resolvable operations of the game (spec
// §4.4): damage, life, counters, zone movement, tokens, mana, permanents,
// cards, combat, control, player, restrictions, composition, continuous
// application, replacement installation, stack manipulation, and delayed
// trigger scheduling.
//
// The family is grounded on original_source/src/effects/** (the
// EffectExecutor trait and its per-family modules), adapted into the Go
// idiom the teacher uses throughout internal/game/effects: one small
// struct per operation, an interface the engine dispatches through, and a
// constructor that fills in anything derivable at construction time.
package executor

import (
	"github.com/corvid-games/cardengine/internal/continuous"
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/mana"
	"github.com/corvid-games/cardengine/internal/object"
	"github.com/corvid-games/cardengine/internal/player"
	"github.com/corvid-games/cardengine/internal/trigger"
)

// Result classifies how an executor's resolution went (spec §4.4's
// "resolved, counted, produced-objects, prevented, target-invalid,
// impossible").
type Result string

const (
	ResultResolved       Result = "RESOLVED"
	ResultCounted        Result = "COUNTERED"
	ResultProducedObject Result = "PRODUCED_OBJECTS"
	ResultPrevented      Result = "PREVENTED"
	ResultTargetInvalid  Result = "TARGET_INVALID"
	ResultImpossible     Result = "IMPOSSIBLE"
)

// Outcome is what Execute returns: the classification, any objects minted
// (e.g. tokens, clues), and the trigger-eligible events the execution
// produced, which the caller feeds to the trigger manager and delayed
// queue.
type Outcome struct {
	Result         Result
	ProducedIDs    []ids.ObjectId
	Events         []event.Event
	Message        string
}

// Resolved builds the common success outcome.
func Resolved(events ...event.Event) Outcome {
	return Outcome{Result: ResultResolved, Events: events}
}

// Impossible reports an executor that could not do anything useful (its
// target left the battlefield, its source is gone, etc.) — this is not an
// error, just a fizzle (spec §4.7 "illegal targets fizzle the spell").
func Impossible(reason string) Outcome {
	return Outcome{Result: ResultImpossible, Message: reason}
}

// TargetInvalid reports that the executor's chosen target no longer meets
// its filter at resolution time.
func TargetInvalid() Outcome {
	return Outcome{Result: ResultTargetInvalid}
}

// captureLKI freezes obj's calculated characteristics into the object
// package's LKI-oriented Snapshot type, for attaching to events (spec
// §3.8). continuous.Snapshot (the working state layers are applied to) and
// object.Snapshot (the frozen, event-carried record) are deliberately
// distinct types; this is the seam between them.
func captureLKI(obj *object.Object, calc *continuous.Snapshot) *object.Snapshot {
	snap := object.Capture(obj, calc.Power, calc.Toughness, calc.HasPower, calc.HasTough)
	return &snap
}

// View is the slice of game state an executor needs to run. It is an
// interface (rather than a concrete *engine.State) so this package never
// imports the engine package, mirroring how object.Ability.InterveningIf
// takes object.ExecutionView instead of a concrete engine type.
type View interface {
	Object(id ids.ObjectId) (*object.Object, bool)
	Player(id string) (*player.Player, bool)
	Players() []*player.Player
	ManaPool(playerID string) *mana.Pool
	Continuous() *continuous.System
	Replacements() *event.Registry
	Triggers() *trigger.Manager
	Delayed() *trigger.DelayedQueue
	MoveZone(id ids.ObjectId, to string) (ids.ObjectId, error)
	Mint(def object.CardDefinition, owner string, z string) *object.Object
	CurrentTurn() int
	ActivePlayer() string
	Calculate(o *object.Object) *continuous.Snapshot
}

// Context carries everything an executor needs about the particular
// resolution it is part of: the source/controller, the pre-resolved and
// snapshotted targets, a tagged-object map, iterated values, and the
// decision maker used for any choices the executor itself must ask for
// (e.g. "choose a mode", "distribute damage").
//
// Tags let one executor reference another's targets or results in the
// same resolution, and survive the target's departure from its zone
// (spec §4.4 "tagged snapshots survive the target's departure").
type Context struct {
	SourceID   ids.ObjectId
	Controller string

	Targets  []ids.ObjectId
	XValue   int

	Tagged    map[string][]ids.ObjectId
	TaggedObj map[string]*continuous.Snapshot

	Iterated []ids.ObjectId

	Chooser Chooser
}

// Tag records ids under name, for later executors in the same resolution
// to reference via Context.Tagged.
func (c *Context) Tag(name string, snapshot func(ids.ObjectId) *continuous.Snapshot, idsToTag ...ids.ObjectId) {
	if c.Tagged == nil {
		c.Tagged = make(map[string][]ids.ObjectId)
	}
	if c.TaggedObj == nil {
		c.TaggedObj = make(map[string]*continuous.Snapshot)
	}
	c.Tagged[name] = append(c.Tagged[name], idsToTag...)
	if snapshot != nil {
		for _, id := range idsToTag {
			if s := snapshot(id); s != nil {
				c.TaggedObj[name] = s
			}
		}
	}
}

// Chooser is the decision-making surface an executor uses for choices it
// needs mid-resolution (mode selection, damage distribution, optional
// "may" prompts). Supplied by the engine/decision layer; kept as an
// interface here for the same import-cycle reason as View.
type Chooser interface {
	ChooseYesNo(playerID, prompt string) bool
	ChooseNumber(playerID, prompt string, min, max int) int
	ChooseObjects(playerID, prompt string, candidates []ids.ObjectId, min, max int) []ids.ObjectId
	ChooseOrder(playerID, prompt string, items []ids.ObjectId) []ids.ObjectId
	ChooseMode(playerID, prompt string, modes []string, min, max int) []int
}

// Executor is the common contract every resolvable operation implements
// (spec §4.4). Executors that can also serve as an additional/alternative
// cost (e.g. "exile a card from your hand"; "sacrifice a creature")
// implement CostCapable below; most do not.
type Executor interface {
	Execute(view View, ctx *Context) (Outcome, error)
}

// CostCapable is implemented by executors that can also serve as
// additional or alternative costs, mirroring EffectExecutor's optional
// can_execute_as_cost/is_sacrifice_source_cost/pay_life_amount methods.
type CostCapable interface {
	Executor
	CanExecuteAsCost(view View, ctx *Context) bool
}

// TargetDescriber is implemented by executors whose target requirement
// should be surfaced to the decision layer for prompt text.
type TargetDescriber interface {
	TargetDescription() string
}
