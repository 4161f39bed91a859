package object

import (
	"testing"

	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/zone"
	"github.com/stretchr/testify/require"
)

func TestNewFromDefinitionCopiesPrintedCharacteristics(t *testing.T) {
	def := CardDefinition{
		Name:          "Typhoid Rats",
		CardTypes:     []string{"Creature"},
		Subtypes:      []string{"Rat"},
		BasePower:     1,
		HasPower:      true,
		BaseToughness: 1,
		HasToughness:  true,
		Abilities:     []Ability{{Kind: AbilityStatic, Keyword: KeywordDeathtouch}},
	}

	o := NewFromDefinition(def, ids.ObjectId("o1"), ids.StableId("s1"), "alice", zone.Battlefield)

	require.Equal(t, "Typhoid Rats", o.Name)
	require.True(t, o.HasCardType("creature"))
	require.True(t, o.HasKeyword(KeywordDeathtouch))
	require.Equal(t, "alice", o.Controller)
	require.NotNil(t, o.Counters)
}

func TestAttachDetachMaintainsInvariant(t *testing.T) {
	aura := &Object{ID: "aura"}
	creature := &Object{ID: "creature"}

	aura.Attach(creature)
	require.Equal(t, creature.ID, aura.AttachedTo)
	require.Contains(t, creature.Attachments, aura.ID)

	aura.Detach(creature)
	require.Empty(t, aura.AttachedTo)
	require.NotContains(t, creature.Attachments, aura.ID)
}

func TestCountersAnnihilatePlusMinus(t *testing.T) {
	c := Counters{CounterPlusOnePlusOne: 3, CounterMinusOneMinusOne: 5}
	pairs := c.AnnihilatePlusMinus()
	require.Equal(t, 3, pairs)
	require.Equal(t, 0, c.Count(CounterPlusOnePlusOne))
	require.Equal(t, 2, c.Count(CounterMinusOneMinusOne))
}
