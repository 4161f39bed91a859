package executor

import (
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
)

// ExtraTurn schedules an extra turn for a player immediately after their
// current turn (grounded on original_source's effects/player ->
// ExtraTurnEffect). It only emits an "extra_turn" keyword-action event;
// nothing in the engine reads that event or calls turn.Manager's
// extra-turn queue, so the turn order does not change.
type ExtraTurn struct{}

func NewExtraTurn() *ExtraTurn { return &ExtraTurn{} }

func (e *ExtraTurn) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		events = append(events, event.Event{
			Type:     event.TypeKeywordAction,
			PlayerID: string(target),
			Metadata: map[string]string{"keyword_action": "extra_turn"},
		})
	}
	return Resolved(events...), nil
}

// SkipTurn marks a player's next turn (or current turn's remaining steps,
// depending on Phase) to be skipped (grounded on effects/player ->
// SkipTurnEffect). Like ExtraTurn, it only emits a keyword-action event;
// nothing in the engine reads it, so no turn or step is skipped.
type SkipTurn struct {
	Phase string // "" means skip the whole turn
}

func NewSkipTurn(phase string) *SkipTurn { return &SkipTurn{Phase: phase} }

func (e *SkipTurn) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		events = append(events, event.Event{
			Type:     event.TypeKeywordAction,
			PlayerID: string(target),
			Metadata: map[string]string{"keyword_action": "skip_turn", "phase": e.Phase},
		})
	}
	return Resolved(events...), nil
}

// CreateEmblem mints an emblem object for the controller, an object kind
// that exists only to carry static/triggered abilities and never occupies
// a zone a card can be moved through (grounded on original_source's
// effects/player -> CreateEmblemEffect and spec §3.2's Kind=EMBLEM).
type CreateEmblem struct {
	Name      string
	Abilities []object.Ability
}

func NewCreateEmblem(name string, abilities ...object.Ability) *CreateEmblem {
	return &CreateEmblem{Name: name, Abilities: abilities}
}

func (e *CreateEmblem) Execute(view View, ctx *Context) (Outcome, error) {
	def := object.CardDefinition{
		Name:      e.Name,
		CardTypes: []string{"Emblem"},
		Abilities: e.Abilities,
	}
	obj := view.Mint(def, ctx.Controller, "COMMAND")
	obj.Kind = object.KindEmblem
	return Outcome{Result: ResultProducedObject, ProducedIDs: []ids.ObjectId{obj.ID}}, nil
}

// AddPoisonCounters gives each target player poison counters, a player
// reaching 10 being a loss condition checked by the state-based-actions
// pass rather than here (grounded on effects/player -> PoisonEffect; spec
// §4.6 lists "player has >= 10 poison counters" among its SBAs).
type AddPoisonCounters struct {
	Amount int
}

func NewAddPoisonCounters(amount int) *AddPoisonCounters { return &AddPoisonCounters{Amount: amount} }

func (e *AddPoisonCounters) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		p, ok := view.Player(string(target))
		if !ok {
			continue
		}
		p.PoisonCounters += e.Amount
		events = append(events, event.Event{Type: event.TypeCounterAdded, PlayerID: p.ID, Amount: e.Amount, Metadata: map[string]string{"counter_kind": string(object.CounterPoison)}})
	}
	return Resolved(events...), nil
}
