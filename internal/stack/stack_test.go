package stack

import (
	"testing"

	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/stretchr/testify/require"
)

func TestPushPopIsLIFO(t *testing.T) {
	s := New()
	s.Push(Entry{ObjectID: "a"})
	s.Push(Entry{ObjectID: "b"})

	top, err := s.Pop()
	require.NoError(t, err)
	require.Equal(t, ids.ObjectId("b"), top.ObjectID)

	top, err = s.Pop()
	require.NoError(t, err)
	require.Equal(t, ids.ObjectId("a"), top.ObjectID)

	require.True(t, s.IsEmpty())
}

func TestPopEmptyReturnsError(t *testing.T) {
	s := New()
	_, err := s.Pop()
	require.Error(t, err)
}

func TestRemoveFindsEntryAnywhere(t *testing.T) {
	s := New()
	s.Push(Entry{ObjectID: "a"})
	s.Push(Entry{ObjectID: "b"})
	s.Push(Entry{ObjectID: "c"})

	removed, found := s.Remove("b")
	require.True(t, found)
	require.Equal(t, ids.ObjectId("b"), removed.ObjectID)
	require.Equal(t, 2, s.Len())

	_, found = s.Remove("nonexistent")
	require.False(t, found)
}

func TestPeekDoesNotMutate(t *testing.T) {
	s := New()
	s.Push(Entry{ObjectID: "a"})
	top, ok := s.Peek()
	require.True(t, ok)
	require.Equal(t, ids.ObjectId("a"), top.ObjectID)
	require.Equal(t, 1, s.Len())
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	s.Push(Entry{ObjectID: "a", Targets: []ids.ObjectId{"t1"}})
	clone := s.Clone()
	clone.Pop()
	require.Equal(t, 1, s.Len())
	require.Equal(t, 0, clone.Len())
}
