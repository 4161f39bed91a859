package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatchProceedsWithNoReplacements(t *testing.T) {
	r := NewRegistry()
	result := r.Dispatch(Event{Type: TypeDamage, Amount: 3}, "alice", nil)
	require.Equal(t, OutcomeProceed, result.Outcome)
	require.Equal(t, 3, result.Event.Amount)
}

func TestDispatchPreventConsumesOneShotShield(t *testing.T) {
	r := NewRegistry()
	r.Install(&Replacement{
		ID:       "regen-shield",
		SourceID: "bear",
		Kind:     ReplacementDestroy,
		Action:   ActionPrevent,
		OneShot:  true,
		AppliesTo: func(ev Event) bool {
			return ev.Type == TypeDestroy && ev.TargetID == "bear"
		},
	})

	result := r.Dispatch(Event{Type: TypeDestroy, TargetID: "bear"}, "alice", nil)
	require.Equal(t, OutcomePrevented, result.Outcome)
	require.Empty(t, r.Active("bear"))
}

func TestDispatchReplaceWithReturnsTransformedEvent(t *testing.T) {
	r := NewRegistry()
	r.Install(&Replacement{
		ID:       "redirect",
		SourceID: "src",
		Kind:     ReplacementDamage,
		Action:   ActionReplaceWith,
		AppliesTo: func(ev Event) bool {
			return ev.Type == TypeDamage && ev.TargetID == "playerA"
		},
		Transform: func(ev Event) (Event, bool) {
			ev.TargetID = "playerB"
			return ev, true
		},
	})

	result := r.Dispatch(Event{Type: TypeDamage, TargetID: "playerA", Amount: 5}, "playerA", nil)
	require.Equal(t, OutcomeReplaced, result.Outcome)
	require.Equal(t, "playerB", string(result.Event.TargetID))
}

type firstChooser struct{}

func (firstChooser) ChooseReplacement(playerID string, candidates []*Replacement) *Replacement {
	return candidates[0]
}

func TestDispatchAsksChoiceWhenMultipleApply(t *testing.T) {
	r := NewRegistry()
	r.Install(&Replacement{ID: "a", Kind: ReplacementDamage, Action: ActionPrevent, OneShot: true,
		AppliesTo: func(ev Event) bool { return ev.Type == TypeDamage }})
	r.Install(&Replacement{ID: "b", Kind: ReplacementDamage, Action: ActionPrevent, OneShot: true,
		AppliesTo: func(ev Event) bool { return ev.Type == TypeDamage }})

	result := r.Dispatch(Event{Type: TypeDamage}, "alice", firstChooser{})
	require.Equal(t, OutcomePrevented, result.Outcome)
	// Exactly one shield should have been consumed; the other stays active.
	require.Len(t, r.Active(""), 1)
}
