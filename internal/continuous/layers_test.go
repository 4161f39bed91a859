package continuous

import (
	"testing"

	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
	"github.com/stretchr/testify/require"
)

func newCreature(id string, power, toughness int) *object.Object {
	return &object.Object{
		ID:            ids.ObjectId(id),
		CardTypes:     []string{"Creature"},
		BasePower:     power,
		HasBasePower:  true,
		BaseToughness: toughness,
		HasBaseTough:  true,
		Counters:      make(object.Counters),
	}
}

func TestCalculateAppliesBoostAfterCounters(t *testing.T) {
	sys := NewSystem()
	c := newCreature("bear", 2, 2)
	c.Counters.Add(object.CounterPlusOnePlusOne, 1)

	sys.AddEffect(NewPTBoost("boost", func(o *object.Object) bool { return o.ID == c.ID }, 1, 0))

	power, ok := sys.Power(c)
	require.True(t, ok)
	require.Equal(t, 4, power) // 2 base + 1 counter + 1 boost
}

func TestSetBasePTAppliesBeforeCounters(t *testing.T) {
	sys := NewSystem()
	c := newCreature("shifted", 2, 2)
	c.Counters.Add(object.CounterPlusOnePlusOne, 2)

	sys.AddEffect(NewSetBasePT("become01", func(o *object.Object) bool { return o.ID == c.ID }, 0, 1))

	power, _ := sys.Power(c)
	toughness, _ := sys.Toughness(c)
	require.Equal(t, 2, power)     // 0 base + 2 counters
	require.Equal(t, 3, toughness) // 1 base + 2 counters
}

func TestGrantAbilityAppearsInCalculatedAbilities(t *testing.T) {
	sys := NewSystem()
	c := newCreature("grounded", 2, 2)
	sys.AddEffect(NewGrantAbility("fly", func(o *object.Object) bool { return o.ID == c.ID }, object.Ability{Kind: object.AbilityStatic, Keyword: object.KeywordFlying}))

	abilities := sys.StaticAbilities(c)
	found := false
	for _, a := range abilities {
		if a.Keyword == object.KeywordFlying {
			found = true
		}
	}
	require.True(t, found)
}

func TestRemoveEffectStopsApplying(t *testing.T) {
	sys := NewSystem()
	c := newCreature("temp", 1, 1)
	sys.AddEffect(NewPTBoost("temp-boost", func(o *object.Object) bool { return o.ID == c.ID }, 3, 3))

	power, _ := sys.Power(c)
	require.Equal(t, 4, power)

	sys.RemoveEffect("temp-boost")
	power, _ = sys.Power(c)
	require.Equal(t, 1, power)
}
