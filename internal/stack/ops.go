package stack

import (
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/executor"
	"github.com/corvid-games/cardengine/internal/ids"
)

// View is executor.View plus the one extra thing stack-manipulation
// executors need that ordinary effect resolution doesn't: the stack
// itself. Kept as its own small interface (rather than adding Stack() to
// executor.View) so package executor never has to import package stack —
// only the reverse, which this package already does for Entry/Executors.
type View interface {
	executor.View
	Stack() *Stack
}

// CounterSpell removes a stack entry by object id without resolving it,
// the family spec §4.4 calls "stack (counter/...)" (grounded on the
// teacher's MageEngine.counterSpell / StackManager.Remove). SourceFilter,
// if set, restricts which stack entries this counter can target (e.g.
// "counter target creature spell").
type CounterSpell struct {
	SourceFilter func(Entry) bool
}

func NewCounterSpell(filter func(Entry) bool) *CounterSpell {
	return &CounterSpell{SourceFilter: filter}
}

func (e *CounterSpell) Execute(view executor.View, ctx *executor.Context) (executor.Outcome, error) {
	sv, ok := view.(View)
	if !ok {
		return executor.Impossible("stack not available"), nil
	}
	var events []event.Event
	for _, target := range ctx.Targets {
		entry, found := sv.Stack().Remove(target)
		if !found {
			continue
		}
		if e.SourceFilter != nil && !e.SourceFilter(entry) {
			// put it back; this counter can't legally hit this entry
			sv.Stack().Push(entry)
			continue
		}
		events = append(events, event.Event{Type: event.TypeKeywordAction, SourceID: entry.ObjectID, Controller: entry.Controller, Metadata: map[string]string{"keyword_action": "countered"}})
	}
	return executor.Outcome{Result: executor.ResultCounted, Events: events}, nil
}

// CopySpell duplicates the top-matching stack entry under a freshly minted
// object id, the controller's choice of new targets optionally applied
// (grounded on original_source's effects/stack -> CopySpellEffect).
// NewTargets, when non-nil, replaces the copy's Targets outright; leave
// nil to copy the original targets unchanged.
type CopySpell struct {
	MintID     func() ids.ObjectId
	NewTargets func(executor.View, *executor.Context, Entry) []ids.ObjectId
}

func NewCopySpell(mintID func() ids.ObjectId) *CopySpell {
	return &CopySpell{MintID: mintID}
}

func (e *CopySpell) Execute(view executor.View, ctx *executor.Context) (executor.Outcome, error) {
	sv, ok := view.(View)
	if !ok {
		return executor.Impossible("stack not available"), nil
	}
	var produced []ids.ObjectId
	for _, target := range ctx.Targets {
		entries := sv.Stack().List()
		var original *Entry
		for i := range entries {
			if entries[i].ObjectID == target {
				original = &entries[i]
				break
			}
		}
		if original == nil {
			continue
		}
		cp := *original
		if e.MintID != nil {
			cp.ObjectID = e.MintID()
		}
		if e.NewTargets != nil {
			cp.Targets = e.NewTargets(view, ctx, *original)
		} else {
			cp.Targets = append([]ids.ObjectId(nil), original.Targets...)
		}
		sv.Stack().Push(cp)
		produced = append(produced, cp.ObjectID)
	}
	return executor.Outcome{Result: executor.ResultProducedObject, ProducedIDs: produced}, nil
}

// ChooseNewTargets lets the controller of a stack entry re-choose its
// targets, for rule 115.10b-style "change the target(s) of" effects
// (grounded on effects/stack -> ChooseNewTargetsEffect). The candidates
// are only the entry's current targets that Legal accepts; no other object
// is offered.
type ChooseNewTargets struct {
	Legal func(ids.ObjectId) bool
	Min   int
	Max   int
}

func NewChooseNewTargets(legal func(ids.ObjectId) bool, min, max int) *ChooseNewTargets {
	return &ChooseNewTargets{Legal: legal, Min: min, Max: max}
}

func (e *ChooseNewTargets) Execute(view executor.View, ctx *executor.Context) (executor.Outcome, error) {
	sv, ok := view.(View)
	if !ok {
		return executor.Impossible("stack not available"), nil
	}
	if len(ctx.Targets) != 1 || ctx.Chooser == nil {
		return executor.Impossible("choose-new-targets needs exactly one stack entry"), nil
	}
	entry, found := sv.Stack().Remove(ctx.Targets[0])
	if !found {
		return executor.TargetInvalid(), nil
	}

	var candidates []ids.ObjectId
	for _, id := range entry.Targets {
		if e.Legal == nil || e.Legal(id) {
			candidates = append(candidates, id)
		}
	}
	chosen := ctx.Chooser.ChooseObjects(entry.Controller, "Choose new targets", candidates, e.Min, e.Max)
	entry.Targets = chosen
	sv.Stack().Push(entry)
	return executor.Resolved(), nil
}
