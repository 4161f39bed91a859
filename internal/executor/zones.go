package executor

import (
	"strings"

	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/object"
	"github.com/corvid-games/cardengine/internal/zone"
)

// Destroy moves each target to its owner's graveyard unless a replacement
// (regeneration shield, totem armor, indestructible) intervenes (grounded
// on original_source's effects/zones/destroy.rs).
type Destroy struct{}

func NewDestroy() *Destroy { return &Destroy{} }

func (e *Destroy) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok {
			continue
		}
		snap := view.Calculate(obj)
		if snap.HasKeyword(object.KeywordIndestructible) {
			continue
		}
		ev := event.Event{
			Type:           event.TypeDestroy,
			SourceID:       ctx.SourceID,
			TargetID:       target,
			TargetSnapshot: captureLKI(obj, snap),
			FromZone:       obj.Zone.String(),
			ToZone:         zone.Graveyard.String(),
		}
		result := view.Replacements().Dispatch(ev, obj.Controller, nil)
		if result.Outcome == event.OutcomePrevented {
			continue
		}
		if _, err := view.MoveZone(target, result.Event.ToZone); err != nil {
			continue
		}
		events = append(events, result.Event)
	}
	return Resolved(events...), nil
}

// Exile moves each target to the exile zone (grounded on
// effects/zones/exile.rs). Unlike Destroy, indestructible does not prevent
// exile.
type Exile struct{}

func NewExile() *Exile { return &Exile{} }

func (e *Exile) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok {
			continue
		}
		ev := event.Event{
			Type:     event.TypeZoneChange,
			SourceID: ctx.SourceID,
			TargetID: target,
			FromZone: obj.Zone.String(),
			ToZone:   zone.Exile.String(),
		}
		result := view.Replacements().Dispatch(ev, obj.Controller, nil)
		if result.Outcome == event.OutcomePrevented {
			continue
		}
		if _, err := view.MoveZone(target, result.Event.ToZone); err != nil {
			continue
		}
		events = append(events, result.Event)
	}
	return Resolved(events...), nil
}

// ExileFromHandAsCost exiles a card the controller selects from their own
// hand — used as an additional cost, e.g. Bloodghast-style "exile a red
// card from your hand" (grounded on original_source's
// effects/zones/exile_from_hand_as_cost.rs; supplemented feature, spec
// §8.4). CanExecuteAsCost matches ColorFilter against the card's mana cost
// text; there is no type filter, and Execute does not check the filter.
type ExileFromHandAsCost struct {
	ColorFilter string // empty means any color
}

func NewExileFromHandAsCost(colorFilter string) *ExileFromHandAsCost {
	return &ExileFromHandAsCost{ColorFilter: colorFilter}
}

func (e *ExileFromHandAsCost) CanExecuteAsCost(view View, ctx *Context) bool {
	for _, id := range ctx.Targets {
		obj, ok := view.Object(id)
		if !ok || obj.Zone != zone.Hand {
			continue
		}
		if e.ColorFilter == "" || strings.Contains(strings.ToLower(obj.ManaCost), strings.ToLower(e.ColorFilter)) {
			return true
		}
	}
	return false
}

func (e *ExileFromHandAsCost) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok || obj.Zone != zone.Hand {
			continue
		}
		if _, err := view.MoveZone(target, zone.Exile.String()); err != nil {
			continue
		}
		events = append(events, event.Event{Type: event.TypeZoneChange, TargetID: target, FromZone: zone.Hand.String(), ToZone: zone.Exile.String()})
	}
	return Resolved(events...), nil
}

// Sacrifice moves a permanent the controller chooses to its owner's
// graveyard; unlike Destroy it cannot be regenerated or prevented by
// indestructible (grounded on effects/zones/sacrifice.rs).
type Sacrifice struct{}

func NewSacrifice() *Sacrifice { return &Sacrifice{} }

func (e *Sacrifice) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok {
			continue
		}
		ev := event.Event{Type: event.TypeSacrifice, SourceID: ctx.SourceID, TargetID: target}
		events = append(events, ev)
		if _, err := view.MoveZone(target, zone.Graveyard.String()); err != nil {
			continue
		}
	}
	return Resolved(events...), nil
}

// ReturnToHand moves each target to its owner's hand (grounded on
// effects/zones/return_to_hand.rs).
type ReturnToHand struct{}

func NewReturnToHand() *ReturnToHand { return &ReturnToHand{} }

func (e *ReturnToHand) Execute(view View, ctx *Context) (Outcome, error) {
	return moveEach(view, ctx, zone.Hand)
}

// ReturnFromGraveyardToBattlefield returns a card from a graveyard directly
// onto the battlefield (grounded on
// effects/zones/return_from_graveyard_to_battlefield.rs).
type ReturnFromGraveyardToBattlefield struct{}

func NewReturnFromGraveyardToBattlefield() *ReturnFromGraveyardToBattlefield {
	return &ReturnFromGraveyardToBattlefield{}
}

func (e *ReturnFromGraveyardToBattlefield) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok || obj.Zone != zone.Graveyard {
			continue
		}
		if _, err := view.MoveZone(target, zone.Battlefield.String()); err != nil {
			continue
		}
		events = append(events, event.Event{Type: event.TypeZoneChange, TargetID: target, FromZone: zone.Graveyard.String(), ToZone: zone.Battlefield.String()})
	}
	return Resolved(events...), nil
}

// MoveToZone is the general-purpose zone-change executor backing the more
// specific ones above, used directly when the destination zone is chosen
// dynamically (grounded on effects/zones/move_to_zone.rs).
type MoveToZone struct {
	Destination zone.Zone
}

func NewMoveToZone(dest zone.Zone) *MoveToZone { return &MoveToZone{Destination: dest} }

func (e *MoveToZone) Execute(view View, ctx *Context) (Outcome, error) {
	return moveEach(view, ctx, e.Destination)
}

func moveEach(view View, ctx *Context, dest zone.Zone) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok {
			continue
		}
		from := obj.Zone
		if _, err := view.MoveZone(target, dest.String()); err != nil {
			continue
		}
		events = append(events, event.Event{Type: event.TypeZoneChange, TargetID: target, FromZone: from.String(), ToZone: dest.String()})
	}
	return Resolved(events...), nil
}
