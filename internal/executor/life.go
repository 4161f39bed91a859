package executor

import (
	"github.com/corvid-games/cardengine/internal/event"
)

// GainLife increases a player's life total (grounded on original_source's
// effects/life/gain_life.rs). The amount can reference ctx.XValue via UseX.
type GainLife struct {
	Amount int
	UseX   bool
}

func NewGainLife(amount int) *GainLife { return &GainLife{Amount: amount} }

func (e *GainLife) Execute(view View, ctx *Context) (Outcome, error) {
	amount := e.Amount
	if e.UseX {
		amount = ctx.XValue
	}
	if amount <= 0 {
		return Resolved(), nil
	}
	var events []event.Event
	for _, target := range ctx.Targets {
		p, ok := view.Player(string(target))
		if !ok {
			continue
		}
		ev := event.Event{Type: event.TypeLifeGain, PlayerID: p.ID, Amount: amount}
		result := view.Replacements().Dispatch(ev, p.ID, nil)
		if result.Outcome == event.OutcomePrevented {
			continue
		}
		p.Life += result.Event.Amount
		events = append(events, result.Event)
	}
	return Resolved(events...), nil
}

// LoseLife reduces a player's life total directly (not combat/spell
// damage — "each opponent loses 2 life" uses this, not DealDamage, since
// it isn't damage and can't be prevented by damage-prevention shields;
// grounded on effects/life/lose_life.rs).
type LoseLife struct {
	Amount int
}

func NewLoseLife(amount int) *LoseLife { return &LoseLife{Amount: amount} }

func (e *LoseLife) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		p, ok := view.Player(string(target))
		if !ok {
			continue
		}
		ev := event.Event{Type: event.TypeLifeLoss, PlayerID: p.ID, Amount: e.Amount}
		result := view.Replacements().Dispatch(ev, p.ID, nil)
		if result.Outcome == event.OutcomePrevented {
			continue
		}
		p.Life -= result.Event.Amount
		events = append(events, result.Event)
	}
	return Resolved(events...), nil
}

// SetLifeTotal sets a player's life to an exact value (grounded on
// effects/life/set_life_total.rs).
type SetLifeTotal struct {
	Value int
}

func NewSetLifeTotal(value int) *SetLifeTotal { return &SetLifeTotal{Value: value} }

func (e *SetLifeTotal) Execute(view View, ctx *Context) (Outcome, error) {
	for _, target := range ctx.Targets {
		p, ok := view.Player(string(target))
		if !ok {
			continue
		}
		p.Life = e.Value
	}
	return Resolved(), nil
}

// ExchangeLifeTotals swaps two players' life totals (grounded on
// effects/life/exchange_life_totals.rs).
type ExchangeLifeTotals struct{}

func NewExchangeLifeTotals() *ExchangeLifeTotals { return &ExchangeLifeTotals{} }

func (e *ExchangeLifeTotals) Execute(view View, ctx *Context) (Outcome, error) {
	if len(ctx.Targets) != 2 {
		return Impossible("life exchange requires two players"), nil
	}
	a, okA := view.Player(string(ctx.Targets[0]))
	b, okB := view.Player(string(ctx.Targets[1]))
	if !okA || !okB {
		return TargetInvalid(), nil
	}
	a.Life, b.Life = b.Life, a.Life
	return Resolved(), nil
}
