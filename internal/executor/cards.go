package executor

import (
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
)

// Draw draws Count cards for each player in ctx.Targets, one at a time so
// each draw can be independently replaced/prevented (grounded on
// original_source's effects/cards -> DrawCardsEffect).
type Draw struct {
	Count int
	UseX  bool
}

func NewDraw(count int) *Draw { return &Draw{Count: count} }

func (e *Draw) Execute(view View, ctx *Context) (Outcome, error) {
	count := e.Count
	if e.UseX {
		count = ctx.XValue
	}
	var events []event.Event
	for _, target := range ctx.Targets {
		p, ok := view.Player(string(target))
		if !ok {
			continue
		}
		for i := 0; i < count; i++ {
			ev, drew := drawOne(view, p.ID)
			if drew {
				events = append(events, ev)
			}
		}
	}
	return Resolved(events...), nil
}

func drawOne(view View, playerID string) (event.Event, bool) {
	p, ok := view.Player(playerID)
	if !ok {
		return event.Event{}, false
	}
	top, hasCard := p.TopOfLibrary()
	if !hasCard {
		p.DrawsPrevented++
		return event.Event{}, false
	}
	ev := event.Event{Type: event.TypeDraw, PlayerID: p.ID, TargetID: top, Amount: 1}
	result := view.Replacements().Dispatch(ev, p.ID, nil)
	if result.Outcome == event.OutcomePrevented {
		p.DrawsPrevented++
		return event.Event{}, false
	}
	p.RemoveFromLibrary(top)
	if _, err := view.MoveZone(top, "HAND"); err != nil {
		return event.Event{}, false
	}
	return result.Event, true
}

// Discard moves each of ctx.Targets (cards already chosen by the caller)
// from its owner's hand to their graveyard (grounded on effects/cards ->
// DiscardEffect).
type Discard struct{}

func NewDiscard() *Discard { return &Discard{} }

func (e *Discard) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok {
			continue
		}
		ev := event.Event{Type: event.TypeDiscard, TargetID: target, PlayerID: obj.Owner}
		result := view.Replacements().Dispatch(ev, obj.Owner, nil)
		if result.Outcome == event.OutcomePrevented {
			continue
		}
		if p, ok := view.Player(obj.Owner); ok {
			p.RemoveFromHand(target)
		}
		if _, err := view.MoveZone(target, "GRAVEYARD"); err != nil {
			continue
		}
		events = append(events, result.Event)
	}
	return Resolved(events...), nil
}

// DiscardHand discards every card in the controller's hand (grounded on
// effects/cards -> DiscardHandEffect).
type DiscardHand struct{}

func NewDiscardHand() *DiscardHand { return &DiscardHand{} }

func (e *DiscardHand) Execute(view View, ctx *Context) (Outcome, error) {
	p, ok := view.Player(ctx.Controller)
	if !ok {
		return Impossible("no such player"), nil
	}
	hand := append([]ids.ObjectId(nil), p.Hand...)
	return NewDiscard().Execute(view, &Context{Targets: hand, Controller: ctx.Controller, SourceID: ctx.SourceID})
}

// Mill moves the top Count cards of a player's library to their graveyard
// without revealing them (grounded on effects/cards -> MillEffect).
type Mill struct {
	Count int
}

func NewMill(count int) *Mill { return &Mill{Count: count} }

func (e *Mill) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		p, ok := view.Player(string(target))
		if !ok {
			continue
		}
		for i := 0; i < e.Count; i++ {
			top, hasCard := p.TopOfLibrary()
			if !hasCard {
				break
			}
			p.RemoveFromLibrary(top)
			if _, err := view.MoveZone(top, "GRAVEYARD"); err != nil {
				continue
			}
			events = append(events, event.Event{Type: event.TypeZoneChange, TargetID: top, FromZone: "LIBRARY", ToZone: "GRAVEYARD"})
		}
	}
	return Resolved(events...), nil
}

// Surveil looks at the top Count cards and lets the controller put any
// number into the graveyard, the rest staying on top in their current
// order (grounded on effects/cards -> SurveilEffect; Scry is the same
// shape minus the graveyard option, so it is built from this one with
// AllowGraveyard false).
type Surveil struct {
	Count          int
	AllowGraveyard bool
}

func NewSurveil(count int) *Surveil { return &Surveil{Count: count, AllowGraveyard: true} }

func NewScry(count int) *Surveil { return &Surveil{Count: count, AllowGraveyard: false} }

func (e *Surveil) Execute(view View, ctx *Context) (Outcome, error) {
	p, ok := view.Player(ctx.Controller)
	if !ok {
		return Impossible("no such player"), nil
	}
	n := e.Count
	if n > len(p.Library) {
		n = len(p.Library)
	}
	if n == 0 || ctx.Chooser == nil {
		return Resolved(), nil
	}

	seen := append([]ids.ObjectId(nil), p.Library[:n]...)
	kind := "scry"

	var toBin []ids.ObjectId
	if e.AllowGraveyard {
		kind = "surveil"
		toBin = ctx.Chooser.ChooseObjects(p.ID, "Put any number into your graveyard", seen, 0, n)
	}

	var events []event.Event
	for _, id := range toBin {
		p.RemoveFromLibrary(id)
		if _, err := view.MoveZone(id, "GRAVEYARD"); err != nil {
			continue
		}
		events = append(events, event.Event{Type: event.TypeZoneChange, TargetID: id, FromZone: "LIBRARY", ToZone: "GRAVEYARD"})
	}
	events = append(events, event.Event{Type: event.TypeKeywordAction, PlayerID: p.ID, Amount: n, Metadata: map[string]string{"keyword_action": kind}})
	return Resolved(events...), nil
}

// SearchLibrary lets the controller search a player's library for a card
// matching a filter and move it to a destination zone, then shuffles the
// library regardless of whether a card was found (grounded on
// original_source's effects/cards/search_library.rs; supplemented feature,
// spec §8.4 scenario 5, since spec.md itself only sketches "search").
type SearchLibrary struct {
	Destination string
	Filter      func(*object.Object) bool
	Reveal      bool
}

func NewSearchLibrary(destination string, filter func(*object.Object) bool) *SearchLibrary {
	return &SearchLibrary{Destination: destination, Filter: filter}
}

func (e *SearchLibrary) Execute(view View, ctx *Context) (Outcome, error) {
	p, ok := view.Player(ctx.Controller)
	if !ok {
		return Impossible("no such player"), nil
	}

	var matches []ids.ObjectId
	for _, id := range p.Library {
		obj, ok := view.Object(id)
		if !ok {
			continue
		}
		if e.Filter != nil && !e.Filter(obj) {
			continue
		}
		matches = append(matches, id)
	}

	var found ids.ObjectId
	var hasMatch bool
	if len(matches) > 0 {
		chosen := matches[:1]
		if ctx.Chooser != nil {
			chosen = ctx.Chooser.ChooseObjects(p.ID, "Search your library", matches, 0, 1)
		}
		if len(chosen) == 1 {
			found, hasMatch = chosen[0], true
		}
	}

	var events []event.Event
	if hasMatch {
		p.RemoveFromLibrary(found)
		if _, err := view.MoveZone(found, e.Destination); err == nil {
			events = append(events, event.Event{Type: event.TypeZoneChange, TargetID: found, FromZone: "LIBRARY", ToZone: e.Destination})
		}
	}

	if _, err := (ShuffleLibrary{}).Execute(view, ctx); err != nil {
		return Outcome{}, err
	}
	return Resolved(events...), nil
}

// ShuffleLibrary randomizes a player's library order (grounded on
// effects/cards -> ShuffleLibraryEffect). The actual permutation is
// supplied by ctx.Chooser.ChooseOrder rather than a package-level RNG, so
// replays stay deterministic (spec §5, §8.2) off the same seeded decision
// source the rest of the engine uses.
type ShuffleLibrary struct{}

func NewShuffleLibrary() *ShuffleLibrary { return &ShuffleLibrary{} }

func (e ShuffleLibrary) Execute(view View, ctx *Context) (Outcome, error) {
	p, ok := view.Player(ctx.Controller)
	if !ok {
		return Impossible("no such player"), nil
	}
	if ctx.Chooser == nil || len(p.Library) == 0 {
		return Resolved(), nil
	}
	p.Library = ctx.Chooser.ChooseOrder(p.ID, "Shuffle", p.Library)
	return Resolved(), nil
}

// RevealTop reveals the top card of a player's library without moving it
// (grounded on effects/cards -> RevealTopEffect).
type RevealTop struct{}

func NewRevealTop() *RevealTop { return &RevealTop{} }

func (e *RevealTop) Execute(view View, ctx *Context) (Outcome, error) {
	p, ok := view.Player(ctx.Controller)
	if !ok {
		return Impossible("no such player"), nil
	}
	top, hasCard := p.TopOfLibrary()
	if !hasCard {
		return Resolved(), nil
	}
	return Resolved(event.Event{Type: event.TypeKeywordAction, PlayerID: p.ID, TargetID: top, Metadata: map[string]string{"keyword_action": "reveal"}}), nil
}

// Connive draws a card, then discards a card, putting a +1/+1 counter on
// the connived creature if the discard was nonland (grounded on
// original_source's effects/cards/connive.rs; supplemented feature, spec
// §8.4 scenario 4, demonstrating executor composition on a real keyword
// action rather than only in the abstract).
type Connive struct{}

func NewConnive() *Connive { return &Connive{} }

func (e *Connive) Execute(view View, ctx *Context) (Outcome, error) {
	var allEvents []event.Event
	for _, target := range ctx.Targets {
		creature, ok := view.Object(target)
		if !ok {
			continue
		}
		snap := view.Calculate(creature)
		if !snap.HasType("Creature") {
			continue
		}

		if ev, drew := drawOne(view, creature.Controller); drew {
			allEvents = append(allEvents, ev)
		}

		p, ok := view.Player(creature.Controller)
		if !ok || len(p.Hand) == 0 || ctx.Chooser == nil {
			continue
		}
		chosen := ctx.Chooser.ChooseObjects(p.ID, "Choose a card to discard for connive", p.Hand, 1, 1)
		if len(chosen) != 1 {
			continue
		}
		discardedObj, okDiscard := view.Object(chosen[0])
		nonland := okDiscard && !discardedObj.HasCardType("land")

		discardOutcome, err := NewDiscard().Execute(view, &Context{Targets: chosen})
		if err != nil {
			return Outcome{}, err
		}
		allEvents = append(allEvents, discardOutcome.Events...)

		if nonland {
			putOutcome, err := NewPutCounters(object.CounterPlusOnePlusOne, 1).Execute(view, &Context{Targets: []ids.ObjectId{target}})
			if err != nil {
				return Outcome{}, err
			}
			allEvents = append(allEvents, putOutcome.Events...)
		}
	}
	return Resolved(allEvents...), nil
}
