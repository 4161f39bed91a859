package executor

import (
	"github.com/corvid-games/cardengine/internal/continuous"
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/object"
)

// ModifyPowerToughness installs a temporary P/T adjustment on each target
// (grounded on original_source's effects/combat -> ModifyPowerToughnessEffect),
// by registering a continuous.PTBoost through the layer system rather than
// mutating the object directly.
type ModifyPowerToughness struct {
	PowerDelta int
	ToughDelta int
	Until      continuous.Until
}

func NewModifyPowerToughness(powerDelta, toughDelta int, until continuous.Until) *ModifyPowerToughness {
	return &ModifyPowerToughness{PowerDelta: powerDelta, ToughDelta: toughDelta, Until: until}
}

func (e *ModifyPowerToughness) Execute(view View, ctx *Context) (Outcome, error) {
	for _, target := range ctx.Targets {
		matchID := target
		boost := continuous.NewPTBoost(string(ctx.SourceID)+":"+string(target), func(o *object.Object) bool { return o.ID == matchID }, e.PowerDelta, e.ToughDelta)
		view.Continuous().AddEffectUntil(boost, e.Until)
	}
	return Resolved(), nil
}

// GrantAbilitiesTarget grants a keyword ability to each target for the
// duration (grounded on effects/combat -> GrantAbilitiesTargetEffect).
type GrantAbilitiesTarget struct {
	Keywords []object.KeywordAbility
	Until    continuous.Until
}

func NewGrantAbilitiesTarget(until continuous.Until, keywords ...object.KeywordAbility) *GrantAbilitiesTarget {
	return &GrantAbilitiesTarget{Keywords: keywords, Until: until}
}

func (e *GrantAbilitiesTarget) Execute(view View, ctx *Context) (Outcome, error) {
	for _, target := range ctx.Targets {
		matchID := target
		for _, kw := range e.Keywords {
			grant := continuous.NewGrantAbility(string(ctx.SourceID)+":"+string(target)+":"+string(kw), func(o *object.Object) bool { return o.ID == matchID }, object.Ability{Kind: object.AbilityStatic, Keyword: kw})
			view.Continuous().AddEffectUntil(grant, e.Until)
		}
	}
	return Resolved(), nil
}

// PreventDamage installs a one-shot damage-prevention shield on each target
// (grounded on effects/combat -> PreventDamageEffect). Unlike regeneration,
// this prevents the damage event outright rather than tapping/clearing.
type PreventDamage struct {
	Amount int // 0 means prevent all
}

func NewPreventDamage(amount int) *PreventDamage { return &PreventDamage{Amount: amount} }

func (e *PreventDamage) Execute(view View, ctx *Context) (Outcome, error) {
	for _, target := range ctx.Targets {
		shieldTarget := target
		amount := e.Amount
		view.Replacements().Install(&event.Replacement{
			ID:      "prevent-damage-" + string(target),
			OneShot: true,
			Action:  event.ActionModifyTarget,
			AppliesTo: func(ev event.Event) bool {
				return ev.Type == event.TypeDamage && ev.TargetID == shieldTarget
			},
			Transform: func(ev event.Event) (event.Event, bool) {
				if amount <= 0 || ev.Amount <= amount {
					ev.Amount = 0
					return ev, true
				}
				ev.Amount -= amount
				return ev, true
			},
		})
	}
	return Resolved(), nil
}

// EnterAttacking puts a creature directly into the attacking state without
// going through the normal declare-attackers step, for effects like
// "creatures you control attack this combat if able" resolvers that hand
// off to internal/combat (grounded on effects/combat ->
// EnterAttackingEffect). It only emits a creature-attacks event; it does
// not add the creature to the combat package's attacker state, and nothing
// in the engine turns the event into an attack.
type EnterAttacking struct {
	DefendingPlayer string
}

func NewEnterAttacking(defendingPlayer string) *EnterAttacking {
	return &EnterAttacking{DefendingPlayer: defendingPlayer}
}

func (e *EnterAttacking) Execute(view View, ctx *Context) (Outcome, error) {
	var events []event.Event
	for _, target := range ctx.Targets {
		events = append(events, event.Event{
			Type:     event.TypeCreatureAttacks,
			TargetID: target,
			Metadata: map[string]string{"defending_player": e.DefendingPlayer},
		})
	}
	return Resolved(events...), nil
}
