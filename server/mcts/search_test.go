package mcts

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"holdem-mcts/server/engine"
)

func newTestSearch(t *testing.T, seed int64, labels ...string) *search {
	t.Helper()
	return newSearch(mustCards(t, labels...), NewRand(seed), 0, zerolog.Nop())
}

func TestSearch_InvariantsAfterIterations(t *testing.T) {
	s := newTestSearch(t, 11, "KH", "KC")
	const iters = 600
	for i := 0; i < iters; i++ {
		require.NoError(t, s.iterate())
	}
	root := s.tree.Node(s.tree.Root())
	require.Equal(t, iters, root.Visits)
	require.LessOrEqual(t, root.Wins, root.Visits)

	for id := 0; id < s.tree.Len(); id++ {
		n := s.tree.Node(NodeID(id))
		require.Len(t, n.Known, n.Street.Known())
		require.True(t, engine.Cards(n.Known).Distinct())
		require.LessOrEqual(t, n.Wins, n.Visits)

		siblings := map[uint64]bool{}
		childVisits := 0
		for _, ch := range n.Children {
			c := s.tree.Node(ch)
			require.Equal(t, NodeID(id), c.Parent)
			require.Equal(t, n.Street+1, c.Street)
			require.Equal(t, n.Known, c.Known[:len(n.Known)])
			require.Len(t, c.Revealed(), n.Street.NewCards())
			m := engine.Cards(c.Revealed()).Mask()
			require.False(t, siblings[m], "duplicate sibling %v", engine.Cards(c.Revealed()))
			siblings[m] = true
			childVisits += c.Visits
		}
		// Every visit that did not stop here passed into exactly one child.
		require.LessOrEqual(t, childVisits, n.Visits)
	}
}

func TestSearch_ExpandExhaustsThenFails(t *testing.T) {
	s := newTestSearch(t, 5, "AH", "AC")
	id := s.tree.AddChild(s.tree.Root(), mustCards(t, "KD", "QS"))
	id = s.tree.AddChild(id, mustCards(t, "2C", "5D", "9H"))
	turn := s.tree.AddChild(id, mustCards(t, "JC"))
	require.Equal(t, engine.Turn, s.tree.Node(turn).Street)

	seen := map[uint64]bool{}
	for i := 0; i < 44; i++ {
		ch, ok := s.Expand(turn)
		require.True(t, ok, "expansion %d", i)
		m := engine.Cards(s.tree.Node(ch).Revealed()).Mask()
		require.False(t, seen[m])
		seen[m] = true
	}
	_, ok := s.Expand(turn)
	require.False(t, ok)

	// Fully expanded: Select descends past it to a river leaf.
	leaf := s.Select(turn)
	require.True(t, s.tree.Node(leaf).Street.Terminal())
	_, ok = s.Expand(leaf)
	require.False(t, ok)
}

func TestSearch_BestChildFirstMaxWins(t *testing.T) {
	s := newTestSearch(t, 1, "AH", "AC")
	root := s.tree.Root()
	a := s.tree.AddChild(root, mustCards(t, "KD", "QS"))
	b := s.tree.AddChild(root, mustCards(t, "KH", "QH"))
	c := s.tree.AddChild(root, mustCards(t, "2D", "2S"))
	s.tree.Node(root).Visits = 9
	for _, id := range []NodeID{a, b, c} {
		s.tree.Node(id).Visits, s.tree.Node(id).Wins = 3, 1
	}
	require.Equal(t, a, s.bestChild(root))

	s.tree.Node(b).Wins = 2
	require.Equal(t, b, s.bestChild(root))

	s.tree.Node(c).Visits, s.tree.Node(c).Wins = 0, 0
	require.Equal(t, c, s.bestChild(root))
}

func TestSearch_SimulateTerminalIsFixed(t *testing.T) {
	s := newTestSearch(t, 9, "AH", "AC")
	id := s.tree.AddChild(s.tree.Root(), mustCards(t, "7D", "2S"))
	id = s.tree.AddChild(id, mustCards(t, "AD", "KC", "9H"))
	id = s.tree.AddChild(id, mustCards(t, "4C"))
	river := s.tree.AddChild(id, mustCards(t, "JS"))

	// Trips against high card on a fixed board: no randomness involved.
	for i := 0; i < 20; i++ {
		o, err := s.Simulate(river)
		require.NoError(t, err)
		require.Equal(t, Win, o)
	}

	s.Backpropagate(river, Win)
	for id := river; id != NoParent; id = s.tree.Node(id).Parent {
		require.Equal(t, 1, s.tree.Node(id).Visits)
		require.Equal(t, 1, s.tree.Node(id).Wins)
	}
}

func TestSearch_SimulateTiesSplitByCoin(t *testing.T) {
	s := newTestSearch(t, 21, "2H", "3C")
	id := s.tree.AddChild(s.tree.Root(), mustCards(t, "2D", "3S"))
	id = s.tree.AddChild(id, mustCards(t, "AH", "AC", "AD"))
	id = s.tree.AddChild(id, mustCards(t, "AS"))
	river := s.tree.AddChild(id, mustCards(t, "KC"))

	// Quads on the board: both players hold the same category every time.
	wins := 0
	const n = 400
	for i := 0; i < n; i++ {
		o, err := s.Simulate(river)
		require.NoError(t, err)
		wins += int(o)
	}
	require.Greater(t, wins, n/4)
	require.Less(t, wins, 3*n/4)
}
