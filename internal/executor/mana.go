package executor

import (
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/mana"
)

// AddMana adds the given colors/amounts to the controller's mana pool
// (grounded on original_source's effects/mana -> AddManaEffect /
// AddColorlessManaEffect).
type AddMana struct {
	Amounts map[mana.Color]int
}

func NewAddMana(amounts map[mana.Color]int) *AddMana {
	return &AddMana{Amounts: amounts}
}

func (e *AddMana) Execute(view View, ctx *Context) (Outcome, error) {
	pool := view.ManaPool(ctx.Controller)
	if pool == nil {
		return Impossible("no mana pool for controller"), nil
	}
	for color, amount := range e.Amounts {
		pool.Add(color, amount)
	}
	return Resolved(), nil
}

// AddManaOfAnyColor lets the controller choose a color for each of Count
// mana produced (grounded on AddManaOfAnyColorEffect).
type AddManaOfAnyColor struct {
	Count int
}

func NewAddManaOfAnyColor(count int) *AddManaOfAnyColor {
	return &AddManaOfAnyColor{Count: count}
}

func (e *AddManaOfAnyColor) Execute(view View, ctx *Context) (Outcome, error) {
	pool := view.ManaPool(ctx.Controller)
	if pool == nil {
		return Impossible("no mana pool for controller"), nil
	}
	choices := []mana.Color{mana.White, mana.Blue, mana.Black, mana.Red, mana.Green}
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = string(c)
	}

	for i := 0; i < e.Count; i++ {
		color := mana.White
		if ctx.Chooser != nil {
			picked := ctx.Chooser.ChooseMode(ctx.Controller, "Choose a color of mana to add", names, 1, 1)
			if len(picked) == 1 && picked[0] >= 0 && picked[0] < len(choices) {
				color = choices[picked[0]]
			}
		}
		pool.Add(color, 1)
	}
	return Resolved(), nil
}

// PayMana spends mana from the controller's pool as a cost, failing if the
// pool cannot cover it (grounded on effects/mana -> PayManaEffect).
type PayMana struct {
	Cost *mana.Cost
}

func NewPayMana(cost *mana.Cost) *PayMana {
	return &PayMana{Cost: cost}
}

func (e *PayMana) CanExecuteAsCost(view View, ctx *Context) bool {
	pool := view.ManaPool(ctx.Controller)
	if pool == nil {
		return false
	}
	return mana.CanPay(e.Cost, pool, ctx.XValue)
}

func (e *PayMana) Execute(view View, ctx *Context) (Outcome, error) {
	pool := view.ManaPool(ctx.Controller)
	if pool == nil {
		return Impossible("no mana pool for controller"), nil
	}
	result := mana.Pay(e.Cost, pool, ctx.XValue)
	if !result.Success {
		return TargetInvalid(), nil
	}
	return Resolved(event.Event{Type: event.TypeKeywordAction, Controller: ctx.Controller, Amount: e.Cost.ConvertedManaValue()}), nil
}
