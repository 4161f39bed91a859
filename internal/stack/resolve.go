package stack

import (
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/executor"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/trigger"
)

// TargetValidator reports whether id is still a legal target for entry at
// resolution time (spec §4.5 step 2: "any whose chosen target is illegal
// fizzles the corresponding effect"). Supplied by the casting package,
// which owns the ChooseSpec vocabulary the original targeting decision was
// made against.
type TargetValidator func(entry Entry, id ids.ObjectId) bool

// delayedRecorder is an optional capability a View may implement to collect
// delayed triggers fired mid-resolution (mirrors ops.go's View-narrowing
// type-assertion idiom, so stack never needs to import the engine package
// that actually owns the pending-trigger queue).
type delayedRecorder interface {
	RecordFiredDelayed(trigger.Pending)
}

// ResolveOne pops the top stack entry and resolves it per spec §4.5's five
// remaining steps (reading the captured context is step 1; this is
// steps 2-6 minus the final SBA/trigger-flush/priority handoff, which is
// the priority loop's job, not this package's).
//
// Grounded on the teacher's MageEngine.resolveStack loop body, generalized
// from "call the card's single Resolve closure" to "validate targets, then
// run every captured executor in order, fanning out events after each."
func ResolveOne(view View, validate TargetValidator, chooser executor.Chooser) (executor.Outcome, error) {
	entry, err := view.Stack().Pop()
	if err != nil {
		return executor.Outcome{}, err
	}
	return Resolve(view, entry, validate, chooser)
}

// Resolve runs entry's full resolution protocol without requiring it to
// still be on the stack (useful for triggered abilities that were queued
// separately, and for tests).
func Resolve(view View, entry Entry, validate TargetValidator, chooser executor.Chooser) (executor.Outcome, error) {
	legalTargets := entry.Targets
	if validate != nil {
		legalTargets = legalTargets[:0]
		for _, id := range entry.Targets {
			if validate(entry, id) {
				legalTargets = append(legalTargets, id)
			}
		}
		if len(entry.Targets) > 0 && len(legalTargets) == 0 {
			// All targets illegal: spell/ability fizzles entirely (spec
			// §4.5 step 2).
			return executor.Outcome{Result: executor.ResultTargetInvalid}, nil
		}
	}

	ctx := &executor.Context{
		SourceID:   entry.ObjectID,
		Controller: entry.Controller,
		Targets:    legalTargets,
		XValue:     entry.XValue,
		Tagged:     entry.Tagged,
		Chooser:    chooser,
	}

	var allEvents []event.Event
	var produced []ids.ObjectId
	result := executor.ResultResolved
	for _, ex := range entry.Executors {
		out, err := ex.Execute(view, ctx)
		if err != nil {
			return executor.Outcome{}, err
		}
		allEvents = append(allEvents, out.Events...)
		produced = append(produced, out.ProducedIDs...)
		if out.Result == executor.ResultCounted || out.Result == executor.ResultTargetInvalid {
			result = out.Result
		}
		for _, ev := range out.Events {
			dispatched := view.Replacements().Dispatch(ev, ev.PlayerID, nil)
			if dispatched.Outcome != event.OutcomePrevented {
				view.Triggers().Observe(dispatched.Event)
				fired := view.Delayed().Check(dispatched.Event, view.CurrentTurn())
				if recorder, ok := view.(delayedRecorder); ok {
					for _, p := range fired {
						recorder.RecordFiredDelayed(p)
					}
				}
			}
		}
	}

	if !entry.IsPermanentSpell {
		if _, ok := view.Object(entry.ObjectID); ok {
			if _, err := view.MoveZone(entry.ObjectID, "GRAVEYARD"); err != nil {
				return executor.Outcome{}, err
			}
		}
	} else {
		if _, err := view.MoveZone(entry.ObjectID, "BATTLEFIELD"); err != nil {
			return executor.Outcome{}, err
		}
		view.Triggers().Observe(event.Event{Type: event.TypeZoneChange, TargetID: entry.ObjectID, FromZone: "STACK", ToZone: "BATTLEFIELD"})
	}

	return executor.Outcome{Result: result, Events: allEvents, ProducedIDs: produced}, nil
}
