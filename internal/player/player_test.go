package player

import (
	"testing"

	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/mana"
	"github.com/stretchr/testify/require"
)

func TestRemoveFromLibraryPreservesOrder(t *testing.T) {
	p := New("p1", "Alice", 20)
	p.Library = []ids.ObjectId{"a", "b", "c"}

	require.True(t, p.RemoveFromLibrary("b"))
	require.Equal(t, []ids.ObjectId{"a", "c"}, p.Library)
	require.False(t, p.RemoveFromLibrary("b"))
}

func TestCloneIsIndependent(t *testing.T) {
	p := New("p1", "Alice", 20)
	p.Hand = []ids.ObjectId{"x"}
	p.ManaPool.Add(mana.Red, 2)

	clone := p.Clone()
	clone.Hand[0] = "y"
	clone.ManaPool.Spend(mana.Red, 1)

	require.Equal(t, ids.ObjectId("x"), p.Hand[0])
	require.Equal(t, 2, p.ManaPool.Count(mana.Red))
}

func TestTopOfLibrary(t *testing.T) {
	p := New("p1", "Alice", 20)
	_, ok := p.TopOfLibrary()
	require.False(t, ok)

	p.Library = []ids.ObjectId{"top"}
	top, ok := p.TopOfLibrary()
	require.True(t, ok)
	require.Equal(t, ids.ObjectId("top"), top)
}
