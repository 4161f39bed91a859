package executor

import (
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
)

// Sequence runs each of its child executors in order against the same
// Context, concatenating their events (grounded on original_source's
// effects/composition -> SequenceEffect; this is how a multi-clause
// resolution like "Draw a card, then discard a card" is assembled from
// individually testable pieces rather than one monolithic executor).
type Sequence struct {
	Steps []Executor
}

func NewSequence(steps ...Executor) *Sequence { return &Sequence{Steps: steps} }

func (e *Sequence) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	var produced []ids.ObjectId
	for _, step := range e.Steps {
		out, err := step.Execute(view, ctx)
		if err != nil {
			return Outcome{}, err
		}
		events = append(events, out.Events...)
		produced = append(produced, out.ProducedIDs...)
		if out.Result == ResultCounted {
			return Outcome{Result: ResultCounted, Events: events, ProducedIDs: produced}, nil
		}
	}
	return Outcome{Result: ResultResolved, Events: events, ProducedIDs: produced}, nil
}

// If runs Then only when Cond holds, and Else otherwise, for effects like
// "if a creature died this way, ..." (grounded on effects/composition ->
// ConditionalEffect).
type If struct {
	Cond func(View, *Context) bool
	Then Executor
	Else Executor
}

func NewIf(cond func(View, *Context) bool, then, otherwise Executor) *If {
	return &If{Cond: cond, Then: then, Else: otherwise}
}

func (e *If) Execute(view View, ctx *Context) (Outcome, error) {
	if e.Cond != nil && e.Cond(view, ctx) {
		if e.Then != nil {
			return e.Then.Execute(view, ctx)
		}
	} else if e.Else != nil {
		return e.Else.Execute(view, ctx)
	}
	return Resolved(), nil
}

// May asks the controller whether to perform Inner at all (grounded on
// effects/composition -> MayEffect, spec §4.4 "optional effects").
type May struct {
	Prompt string
	Inner  Executor
}

func NewMay(prompt string, inner Executor) *May { return &May{Prompt: prompt, Inner: inner} }

func (e *May) Execute(view View, ctx *Context) (Outcome, error) {
	if ctx.Chooser == nil || !ctx.Chooser.ChooseYesNo(ctx.Controller, e.Prompt) {
		return Resolved(), nil
	}
	return e.Inner.Execute(view, ctx)
}

// ForEach runs Inner once per id in Over, with ctx.Targets narrowed to
// that single id for the duration of the call (grounded on effects/
// composition -> ForEachEffect, e.g. "for each creature, ...").
type ForEach struct {
	Over  func(View, *Context) []ids.ObjectId
	Inner Executor
}

func NewForEach(over func(View, *Context) []ids.ObjectId, inner Executor) *ForEach {
	return &ForEach{Over: over, Inner: inner}
}

func (e *ForEach) Execute(view View, ctx *Context) (Outcome, error) {
	items := e.Over(view, ctx)
	var events []event.Event
	var produced []ids.ObjectId
	for _, item := range items {
		sub := *ctx
		sub.Targets = []ids.ObjectId{item}
		out, err := e.Inner.Execute(view, &sub)
		if err != nil {
			return Outcome{}, err
		}
		events = append(events, out.Events...)
		produced = append(produced, out.ProducedIDs...)
	}
	return Outcome{Result: ResultResolved, Events: events, ProducedIDs: produced}, nil
}

// ChooseMode asks the controller to choose Min..Max of Options, then runs
// the corresponding executors, for modal spells ("choose one or more —
// ...") (grounded on effects/composition -> ModalEffect, spec §4.4).
type ChooseMode struct {
	Prompt  string
	Labels  []string
	Options []Executor
	Min     int
	Max     int
}

func NewChooseMode(prompt string, min, max int, labels []string, options ...Executor) *ChooseMode {
	return &ChooseMode{Prompt: prompt, Labels: labels, Options: options, Min: min, Max: max}
}

func (e *ChooseMode) Execute(view View, ctx *Context) (Outcome, error) {
	if ctx.Chooser == nil {
		return Impossible("no chooser available for modal spell"), nil
	}
	chosen := ctx.Chooser.ChooseMode(ctx.Controller, e.Prompt, e.Labels, e.Min, e.Max)
	var events []event.Event
	var produced []ids.ObjectId
	for _, idx := range chosen {
		if idx < 0 || idx >= len(e.Options) {
			continue
		}
		out, err := e.Options[idx].Execute(view, ctx)
		if err != nil {
			return Outcome{}, err
		}
		events = append(events, out.Events...)
		produced = append(produced, out.ProducedIDs...)
	}
	return Outcome{Result: ResultResolved, Events: events, ProducedIDs: produced}, nil
}

// Vote lets every player named in Voters pick one of Options by label, the
// tally resolved by Tally into the winning index(es) fed to OnResult
// (grounded on effects/composition -> VoteEffect, e.g. "will of the
// council").
type Vote struct {
	Prompt   string
	Labels   []string
	Voters   func(View, *Context) []string
	OnResult func(view View, ctx *Context, tally map[int]int) (Outcome, error)
}

func NewVote(prompt string, labels []string, voters func(View, *Context) []string, onResult func(View, *Context, map[int]int) (Outcome, error)) *Vote {
	return &Vote{Prompt: prompt, Labels: labels, Voters: voters, OnResult: onResult}
}

func (e *Vote) Execute(view View, ctx *Context) (Outcome, error) {
	if ctx.Chooser == nil || e.Voters == nil {
		return Impossible("no chooser available for vote"), nil
	}
	tally := make(map[int]int)
	for _, voter := range e.Voters(view, ctx) {
		picked := ctx.Chooser.ChooseMode(voter, e.Prompt, e.Labels, 1, 1)
		if len(picked) == 1 {
			tally[picked[0]]++
		}
	}
	if e.OnResult == nil {
		return Resolved(), nil
	}
	return e.OnResult(view, ctx, tally)
}
