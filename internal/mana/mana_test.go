package mana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSimpleCost(t *testing.T) {
	cost, err := Parse("{2}{R}{R}")
	require.NoError(t, err)
	require.Equal(t, 2, cost.Generic)
	require.Equal(t, 2, cost.Colors[Red])
	require.Equal(t, 4, cost.ConvertedManaValue())
}

func TestParseXCost(t *testing.T) {
	cost, err := Parse("{X}{R}")
	require.NoError(t, err)
	require.True(t, cost.X)
	require.Equal(t, 1, cost.Colors[Red])
}

func TestParseHybridCost(t *testing.T) {
	cost, err := Parse("{W/U}{W/U}")
	require.NoError(t, err)
	require.Len(t, cost.Hybrid, 2)
	require.ElementsMatch(t, []Color{White, Blue}, cost.Hybrid[0].Options)
}

func TestPaySucceedsAndSpendsPool(t *testing.T) {
	pool := NewPool()
	pool.Add(Red, 2)
	pool.Add(Colorless, 2)

	cost, err := Parse("{2}{R}{R}")
	require.NoError(t, err)

	result := Pay(cost, pool, 0)
	require.True(t, result.Success)
	require.Equal(t, 0, pool.Total())
}

func TestPayFailsLeavesPoolUntouched(t *testing.T) {
	pool := NewPool()
	pool.Add(Red, 1)

	cost, err := Parse("{R}{R}")
	require.NoError(t, err)

	result := Pay(cost, pool, 0)
	require.False(t, result.Success)
	require.Equal(t, 1, pool.Count(Red))
}

func TestPayWithXDrainsGenericForXValue(t *testing.T) {
	pool := NewPool()
	pool.Add(Colorless, 5)
	pool.Add(Red, 1)

	cost, err := Parse("{X}{R}")
	require.NoError(t, err)

	result := Pay(cost, pool, 3)
	require.True(t, result.Success)
	require.Equal(t, 2, pool.Count(Colorless))
}

func TestMaxAffordableX(t *testing.T) {
	pool := NewPool()
	pool.Add(Colorless, 4)
	pool.Add(Red, 1)

	cost, err := Parse("{X}{R}")
	require.NoError(t, err)

	require.Equal(t, 4, MaxAffordableX(cost, pool))
}
