package executor

import (
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/object"
)

// PutCounters adds counters of a given kind to each target (grounded on
// original_source's effects/counters -> PutCountersEffect).
type PutCounters struct {
	Kind   object.CounterKind
	Amount int
	UseX   bool
}

func NewPutCounters(kind object.CounterKind, amount int) *PutCounters {
	return &PutCounters{Kind: kind, Amount: amount}
}

func (e *PutCounters) Execute(view View, ctx *Context) (Outcome, error) {
	amount := e.Amount
	if e.UseX {
		amount = ctx.XValue
	}
	if amount <= 0 {
		return Resolved(), nil
	}
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok {
			continue
		}
		if obj.Counters == nil {
			obj.Counters = make(object.Counters)
		}
		obj.Counters.Add(e.Kind, amount)
		obj.Counters.AnnihilatePlusMinus()
		events = append(events, event.Event{Type: event.TypeCounterAdded, TargetID: target, Amount: amount})
	}
	return Resolved(events...), nil
}

// RemoveCounters removes up to Amount counters of a kind from each target
// (grounded on RemoveCountersEffect/RemoveUpToCountersEffect).
type RemoveCounters struct {
	Kind   object.CounterKind
	Amount int
}

func NewRemoveCounters(kind object.CounterKind, amount int) *RemoveCounters {
	return &RemoveCounters{Kind: kind, Amount: amount}
}

func (e *RemoveCounters) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok {
			continue
		}
		removed := obj.Counters.Remove(e.Kind, e.Amount)
		if removed > 0 {
			events = append(events, event.Event{Type: event.TypeCounterRemoved, TargetID: target, Amount: removed})
		}
	}
	return Resolved(events...), nil
}

// MoveCounters relocates counters of a kind from one permanent to another
// (grounded on MoveCountersEffect, e.g. "move a +1/+1 counter onto
// another creature you control").
type MoveCounters struct {
	Kind   object.CounterKind
	Amount int
	From   int // index into ctx.Targets
	To     int
}

func NewMoveCounters(kind object.CounterKind, amount int) *MoveCounters {
	return &MoveCounters{Kind: kind, Amount: amount, From: 0, To: 1}
}

func (e *MoveCounters) Execute(view View, ctx *Context) (Outcome, error) {
	if len(ctx.Targets) <= e.To {
		return Impossible("move-counters needs source and destination targets"), nil
	}
	from, okFrom := view.Object(ctx.Targets[e.From])
	to, okTo := view.Object(ctx.Targets[e.To])
	if !okFrom || !okTo {
		return TargetInvalid(), nil
	}
	removed := from.Counters.Remove(e.Kind, e.Amount)
	if removed == 0 {
		return Resolved(), nil
	}
	if to.Counters == nil {
		to.Counters = make(object.Counters)
	}
	to.Counters.Add(e.Kind, removed)
	return Resolved(
		event.Event{Type: event.TypeCounterRemoved, TargetID: from.ID, Amount: removed},
		event.Event{Type: event.TypeCounterAdded, TargetID: to.ID, Amount: removed},
	), nil
}

// Proliferate adds one more counter of each kind a permanent or player
// already has, for each chosen permanent/player (grounded on
// ProliferateEffect).
type Proliferate struct{}

func NewProliferate() *Proliferate { return &Proliferate{} }

func (e *Proliferate) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		if obj, ok := view.Object(target); ok {
			for kind, count := range obj.Counters {
				if count > 0 {
					obj.Counters.Add(kind, 1)
					events = append(events, event.Event{Type: event.TypeCounterAdded, TargetID: target, Amount: 1})
				}
			}
			obj.Counters.AnnihilatePlusMinus()
			continue
		}
		if p, ok := view.Player(string(target)); ok {
			if p.PoisonCounters > 0 {
				p.PoisonCounters++
			}
			if p.Energy > 0 {
				p.Energy++
			}
		}
	}
	return Resolved(events...), nil
}
