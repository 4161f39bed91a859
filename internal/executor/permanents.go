package executor

import (
	"github.com/corvid-games/cardengine/internal/event"
)

// Tap taps each target permanent, a no-op for already-tapped ones
// (grounded on original_source's effects/permanents -> TapEffect).
type Tap struct{}

func NewTap() *Tap { return &Tap{} }

func (e *Tap) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok || obj.Tapped {
			continue
		}
		obj.Tapped = true
		events = append(events, event.Event{Type: event.TypeTap, TargetID: target})
	}
	return Resolved(events...), nil
}

// Untap untaps each target permanent (grounded on UntapEffect).
type Untap struct{}

func NewUntap() *Untap { return &Untap{} }

func (e *Untap) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok || !obj.Tapped {
			continue
		}
		obj.Tapped = false
		events = append(events, event.Event{Type: event.TypeUntap, TargetID: target})
	}
	return Resolved(events...), nil
}

// AttachTo attaches ctx.Targets[0] (the aura/equipment) to ctx.Targets[1]
// (the permanent being enchanted/equipped), detaching it from any prior
// host first (grounded on effects/permanents -> AttachToEffect).
type AttachTo struct{}

func NewAttachTo() *AttachTo { return &AttachTo{} }

func (e *AttachTo) Execute(view View, ctx *Context) (Outcome, error) {
	if len(ctx.Targets) != 2 {
		return Impossible("attach requires an attachment and a host"), nil
	}
	attachment, okA := view.Object(ctx.Targets[0])
	host, okH := view.Object(ctx.Targets[1])
	if !okA || !okH {
		return TargetInvalid(), nil
	}
	if attachment.IsAttached() {
		if former, ok := view.Object(attachment.AttachedTo); ok {
			attachment.Detach(former)
		}
	}
	attachment.Attach(host)
	return Resolved(), nil
}

// Transform flips a double-faced permanent to its other face. The engine's
// card database supplies the transformed CardDefinition; this executor
// only records that the flip happened by toggling a tracked ability
// (grounded on effects/permanents -> TransformEffect).
type Transform struct{}

func NewTransform() *Transform { return &Transform{} }

func (e *Transform) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		if _, ok := view.Object(target); !ok {
			continue
		}
		events = append(events, event.Event{Type: event.TypeKeywordAction, TargetID: target, Metadata: map[string]string{"keyword_action": "transform"}})
	}
	return Resolved(events...), nil
}

// Regenerate installs a one-shot regeneration shield on each target: the
// next time that permanent would be destroyed, the shield prevents the
// destruction, taps the permanent and clears its damage. The permanent is
// not removed from combat, and the shield has no end-of-turn expiry: it
// stays registered until it is used. Rather than modeling regeneration as a special
// case in Destroy, it is an ordinary one-shot replacement effect the
// destroy executor's Replacements().Dispatch call discovers like any
// other (grounded on original_source's effects/zones/destroy.rs and the
// regeneration supplemented feature in SPEC_FULL.md).
type Regenerate struct{}

func NewRegenerate() *Regenerate { return &Regenerate{} }

func (e *Regenerate) Execute(view View, ctx *Context) (Outcome, error) {
	for _, target := range ctx.Targets {
		obj, ok := view.Object(target)
		if !ok {
			continue
		}
		shieldTarget := target
		shieldObj := obj
		view.Replacements().Install(&event.Replacement{
			ID:       "regen-" + string(shieldTarget),
			SourceID: string(ctx.SourceID),
			Kind:     event.ReplacementDestroy,
			Action:   event.ActionPrevent,
			OneShot:  true,
			AppliesTo: func(ev event.Event) bool {
				return ev.Type == event.TypeDestroy && ev.TargetID == shieldTarget
			},
			OnApply: func(event.Event) {
				shieldObj.Tapped = true
				shieldObj.DamageMarked = 0
				shieldObj.DeathtouchMarked = false
			},
		})
	}
	return Resolved(), nil
}
