package executor

import (
	"github.com/corvid-games/cardengine/internal/continuous"
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/object"
)

// GainControl changes an object's controller for the duration, installing
// a LayerControl continuous effect rather than mutating Controller
// directly so the change reverts cleanly when it expires (grounded on
// original_source's effects/control -> GainControlEffect).
type GainControl struct {
	NewController string
	Until         continuous.Until
}

func NewGainControl(newController string, until continuous.Until) *GainControl {
	return &GainControl{NewController: newController, Until: until}
}

func (e *GainControl) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		matchID := target
		effect := continuous.NewChangeControl(string(ctx.SourceID)+":"+string(target), func(o *object.Object) bool { return o.ID == matchID }, e.NewController)
		view.Continuous().AddEffectUntil(effect, e.Until)
		events = append(events, event.Event{Type: event.TypeKeywordAction, TargetID: target, Controller: e.NewController, Metadata: map[string]string{"keyword_action": "gain_control"}})
	}
	return Resolved(events...), nil
}

// ExchangeControl swaps the controllers of ctx.Targets[0] and
// ctx.Targets[1] for the duration (grounded on effects/control ->
// ExchangeControlEffect).
type ExchangeControl struct {
	Until continuous.Until
}

func NewExchangeControl(until continuous.Until) *ExchangeControl {
	return &ExchangeControl{Until: until}
}

func (e *ExchangeControl) Execute(view View, ctx *Context) (Outcome, error) {
	if len(ctx.Targets) != 2 {
		return Impossible("exchange control requires two objects"), nil
	}
	a, okA := view.Object(ctx.Targets[0])
	b, okB := view.Object(ctx.Targets[1])
	if !okA || !okB {
		return TargetInvalid(), nil
	}
	aID, bID := a.ID, b.ID
	view.Continuous().AddEffectUntil(continuous.NewChangeControl(string(ctx.SourceID)+":exch:a", func(o *object.Object) bool { return o.ID == aID }, b.Controller), e.Until)
	view.Continuous().AddEffectUntil(continuous.NewChangeControl(string(ctx.SourceID)+":exch:b", func(o *object.Object) bool { return o.ID == bID }, a.Controller), e.Until)
	return Resolved(), nil
}
