package executor

import (
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/object"
	"github.com/corvid-games/cardengine/internal/zone"
)

// CreateToken mints Count tokens from Definition under the controller's
// control directly onto the battlefield (grounded on original_source's
// effects/tokens/create_token.rs).
type CreateToken struct {
	Definition object.CardDefinition
	Count      int
	UseX       bool
}

func NewCreateToken(def object.CardDefinition, count int) *CreateToken {
	return &CreateToken{Definition: def, Count: count}
}

func (e *CreateToken) Execute(view View, ctx *Context) (Outcome, error) {
	count := e.Count
	if e.UseX {
		count = ctx.XValue
	}
	if count <= 0 {
		return Resolved(), nil
	}

	out := Outcome{Result: ResultProducedObject}
	for i := 0; i < count; i++ {
		obj := view.Mint(e.Definition, ctx.Controller, zone.Battlefield.String())
		obj.Kind = object.KindToken
		out.ProducedIDs = append(out.ProducedIDs, obj.ID)
		out.Events = append(out.Events, event.Event{Type: event.TypeZoneChange, TargetID: obj.ID, ToZone: zone.Battlefield.String()})
	}
	return out, nil
}

// Investigate performs the investigate keyword action Count times, each
// instance creating its own Clue token and firing its own keyword-action
// event — grounded on original_source's effects/tokens/investigate.rs,
// which deliberately treats each investigation as a separate action rather
// than one batched token-creation call (supplemented feature, spec §8.4
// scenario 6).
type Investigate struct {
	Count   int
	CardDef object.CardDefinition // the clue token's printed characteristics
}

func NewInvestigate(count int, clueDefinition object.CardDefinition) *Investigate {
	return &Investigate{Count: count, CardDef: clueDefinition}
}

func (e *Investigate) Execute(view View, ctx *Context) (Outcome, error) {
	if e.Count <= 0 {
		return Resolved(), nil
	}

	out := Outcome{Result: ResultProducedObject}
	for i := 0; i < e.Count; i++ {
		obj := view.Mint(e.CardDef, ctx.Controller, zone.Battlefield.String())
		obj.Kind = object.KindToken
		out.ProducedIDs = append(out.ProducedIDs, obj.ID)
		out.Events = append(out.Events, event.Event{
			Type:       event.TypeKeywordAction,
			SourceID:   ctx.SourceID,
			Controller: ctx.Controller,
			Amount:     1,
			Metadata:   map[string]string{"keyword_action": "investigate"},
		})
	}
	return out, nil
}
