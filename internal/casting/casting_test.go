package casting

import (
	"testing"

	"github.com/corvid-games/cardengine/internal/decision"
	"github.com/corvid-games/cardengine/internal/executor"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/stack"
	"github.com/stretchr/testify/require"
)

// TestSingleTargetSpellSkipsUncontestedPhases drives a one-method,
// non-modal, no-X, no-additional-cost spell (a Lightning Bolt shape) through
// the full Advance/Apply/Finalize cycle, confirming every phase that has
// only one legal answer is skipped without asking for a decision and the
// pipeline only ever suspends for the single real choice: the target.
func TestSingleTargetSpellSkipsUncontestedPhases(t *testing.T) {
	dmg := executor.NewDealDamage("bolt", 3)
	spec := Spec{
		SourceID:       "bolt",
		Controller:     "alice",
		Kind:           stack.KindSpell,
		CastingMethods: []string{"normal"},
		Modes: []ModeSpec{{
			Effects: []EffectSpec{{
				Executor:     dmg,
				TargetsMin:   1,
				TargetsMax:   1,
				Description:  "any target",
				LegalTargets: func() []ids.ObjectId { return []ids.ObjectId{"bear"} },
			}},
		}},
	}

	p := NewPending(spec)
	p.Advance()

	require.Equal(t, PhaseTargetSelection, p.Phase, "method/mode selection should both be auto-resolved")
	ctx := p.NextDecision()
	require.NotNil(t, ctx)
	require.Equal(t, decision.TagTargets, ctx.Tag)
	require.Len(t, ctx.TargetRequirements, 1)
	require.Equal(t, []ids.ObjectId{"bear"}, ctx.TargetRequirements[0].LegalTargets)

	p.Apply(decision.Response{Tag: decision.TagTargets, ChosenIDs: []ids.ObjectId{"bear"}})
	p.Advance()

	require.True(t, p.IsDone())
	require.Nil(t, p.NextDecision())

	entry := p.Finalize("bolt-stack-1", "bolt-stable")
	require.Equal(t, []ids.ObjectId{"bear"}, entry.Targets)
	require.Equal(t, []int{0}, entry.ChosenModes, "the only mode is auto-chosen")
	require.Len(t, entry.Executors, 1)
	require.Equal(t, "normal", entry.CastingMethod)
}

// TestModalSpellAsksForModeSelection confirms a spell with more than one
// mode suspends for a TagModes decision, and that only the chosen mode's
// effects end up in the finalized stack entry.
func TestModalSpellAsksForModeSelection(t *testing.T) {
	drawEff := executor.NewDraw(1)
	dmgEff := executor.NewDealDamage("charm", 2)
	spec := Spec{
		SourceID:       "charm",
		Controller:     "alice",
		Kind:           stack.KindSpell,
		CastingMethods: []string{"normal"},
		MinModes:       1,
		MaxModes:       1,
		Modes: []ModeSpec{
			{Description: "draw a card", Effects: []EffectSpec{{Executor: drawEff}}},
			{Description: "deal 2 damage", Effects: []EffectSpec{{
				Executor:     dmgEff,
				TargetsMin:   1,
				TargetsMax:   1,
				LegalTargets: func() []ids.ObjectId { return []ids.ObjectId{"goblin"} },
			}}},
		},
	}

	p := NewPending(spec)
	p.Advance()

	require.Equal(t, PhaseModeSelection, p.Phase)
	ctx := p.NextDecision()
	require.NotNil(t, ctx)
	require.Equal(t, decision.TagModes, ctx.Tag)
	require.Len(t, ctx.Modes, 2)

	p.Apply(decision.Response{Tag: decision.TagModes, ChosenModes: []int{1}})
	p.Advance()

	require.Equal(t, PhaseTargetSelection, p.Phase)
	ctx = p.NextDecision()
	require.NotNil(t, ctx)
	require.Equal(t, []ids.ObjectId{"goblin"}, ctx.TargetRequirements[0].LegalTargets)

	p.Apply(decision.Response{Tag: decision.TagTargets, ChosenIDs: []ids.ObjectId{"goblin"}})
	p.Advance()
	require.True(t, p.IsDone())

	entry := p.Finalize("charm-stack-1", "charm-stable")
	require.Equal(t, []int{1}, entry.ChosenModes)
	require.Equal(t, []ids.ObjectId{"goblin"}, entry.Targets)
	require.Len(t, entry.Executors, 1, "only the chosen mode's effect is finalized")
}

// TestXSpellAsksForXValueWhenNoTargetsNeeded covers a target-less X spell
// (e.g. a Fireball-at-a-player-life-total shape modeled as no object
// targets), confirming the X-value decision surfaces and flows through to
// the finalized entry.
func TestXSpellAsksForXValueWhenNoTargetsNeeded(t *testing.T) {
	dmg := executor.NewDealDamageX("hail")
	spec := Spec{
		SourceID:       "hail",
		Controller:     "alice",
		Kind:           stack.KindSpell,
		CastingMethods: []string{"normal"},
		XUsedIn:        true,
		Modes: []ModeSpec{{
			Effects: []EffectSpec{{Executor: dmg}},
		}},
	}

	p := NewPending(spec)
	p.Advance()

	require.Equal(t, PhaseXValue, p.Phase)
	ctx := p.NextDecision()
	require.NotNil(t, ctx)
	require.Equal(t, decision.TagNumber, ctx.Tag)
	require.True(t, ctx.IsX)

	p.Apply(decision.Response{Tag: decision.TagNumber, Number: 5})
	p.Advance()
	require.True(t, p.IsDone())

	entry := p.Finalize("hail-stack-1", "hail-stable")
	require.Equal(t, 5, entry.XValue)
}
