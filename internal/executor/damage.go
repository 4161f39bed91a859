package executor

import (
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
)

// DealDamage deals a fixed or X-based amount of damage to its targets
// (grounded on original_source's effects/damage/mod.rs DealDamageEffect).
// Combat damage is handled by internal/combat, not this executor — this
// one is for spell/ability damage ("deal 3 damage to any target").
type DealDamage struct {
	SourceID ids.ObjectId
	Amount   int
	UseX     bool
}

func NewDealDamage(source ids.ObjectId, amount int) *DealDamage {
	return &DealDamage{SourceID: source, Amount: amount}
}

func NewDealDamageX(source ids.ObjectId) *DealDamage {
	return &DealDamage{SourceID: source, UseX: true}
}

func (e *DealDamage) Execute(view View, ctx *Context) (Outcome, error) {
	amount := e.Amount
	if e.UseX {
		amount = ctx.XValue
	}
	if amount <= 0 || len(ctx.Targets) == 0 {
		return Impossible("no damage to deal"), nil
	}

	var events []event.Event
	for _, target := range ctx.Targets {
		obj, okObj := view.Object(target)
		if okObj {
			snap := view.Calculate(obj)
			ev := event.Event{
				Type:           event.TypeDamage,
				SourceID:       e.SourceID,
				TargetID:       target,
				Amount:         amount,
				TargetSnapshot: captureLKI(obj, snap),
			}
			result := view.Replacements().Dispatch(ev, obj.Controller, nil)
			if result.Outcome == event.OutcomePrevented {
				continue
			}
			obj.DamageMarked += result.Event.Amount
			if obj.DamageSources == nil {
				obj.DamageSources = make(map[ids.ObjectId]int)
			}
			obj.DamageSources[e.SourceID] += result.Event.Amount
			events = append(events, result.Event)
			continue
		}
		if p, okPlayer := view.Player(string(target)); okPlayer {
			ev := event.Event{Type: event.TypeDamage, SourceID: e.SourceID, PlayerID: p.ID, Amount: amount}
			result := view.Replacements().Dispatch(ev, p.ID, nil)
			if result.Outcome == event.OutcomePrevented {
				continue
			}
			p.Life -= result.Event.Amount
			events = append(events, result.Event)
		}
	}
	return Resolved(events...), nil
}

// ClearDamage removes all marked damage from a permanent, as cleanup step
// end-of-turn processing and a handful of effects ("remove all damage from
// target creature") both need.
type ClearDamage struct{}

func NewClearDamage() *ClearDamage { return &ClearDamage{} }

func (e *ClearDamage) Execute(view View, ctx *Context) (Outcome, error) {
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok {
			continue
		}
		obj.DamageMarked = 0
		obj.DeathtouchMarked = false
		obj.DamageSources = make(map[ids.ObjectId]int)
	}
	return Resolved(), nil
}

// Fight has two creatures deal damage equal to their power to each other
// simultaneously (combat-family executor, spec §4.4 "fight").
type Fight struct {
	SourceID ids.ObjectId
}

func NewFight(source ids.ObjectId) *Fight {
	return &Fight{SourceID: source}
}

func (e *Fight) Execute(view View, ctx *Context) (Outcome, error) {
	if len(ctx.Targets) != 2 {
		return Impossible("fight requires exactly two combatants"), nil
	}
	a, okA := view.Object(ctx.Targets[0])
	b, okB := view.Object(ctx.Targets[1])
	if !okA || !okB {
		return TargetInvalid(), nil
	}

	snapA := view.Calculate(a)
	snapB := view.Calculate(b)

	var events []event.Event
	if snapB.HasPower {
		a.DamageMarked += snapB.Power
		events = append(events, event.Event{Type: event.TypeDamage, SourceID: b.ID, TargetID: a.ID, Amount: snapB.Power})
	}
	if snapA.HasPower {
		b.DamageMarked += snapA.Power
		events = append(events, event.Event{Type: event.TypeDamage, SourceID: a.ID, TargetID: b.ID, Amount: snapA.Power})
	}
	return Resolved(events...), nil
}
