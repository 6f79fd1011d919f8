package mcts

import (
	"math"

	"holdem-mcts/server/engine"
)

// NodeID indexes Tree's arena.
type NodeID int32

const NoParent NodeID = -1

// Exploration is the UCB1 constant c.
const Exploration = math.Sqrt2

// Node is one game state. Known is the player's hole cards, then the
// opponent's, then the board, as far as Street has revealed.
type Node struct {
	Known    []engine.Card
	Street   engine.Street
	Visits   int
	Wins     int
	Parent   NodeID
	Children []NodeID

	explored map[uint64]struct{} // masks of combinations already expanded
}

// Revealed is the combination that produced this node from its parent.
func (n *Node) Revealed() []engine.Card {
	if n.Street == engine.Preflop {
		return nil
	}
	prev := n.Street - 1
	return n.Known[prev.Known():]
}

func (n *Node) WinRate() float64 {
	if n.Visits == 0 {
		return 0
	}
	return float64(n.Wins) / float64(n.Visits)
}

// Tree owns every node; parent and child links are indices, never pointers.
type Tree struct {
	nodes []Node
}

func NewTree(player []engine.Card) *Tree {
	t := &Tree{nodes: make([]Node, 0, 64)}
	t.nodes = append(t.nodes, Node{
		Known:  append([]engine.Card(nil), player...),
		Street: engine.Preflop,
		Parent: NoParent,
	})
	return t
}

func (t *Tree) Root() NodeID { return 0 }

// Node returns a pointer into the arena. It is invalidated by the next AddChild.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

func (t *Tree) Len() int { return len(t.nodes) }

// AddChild appends parent.Known ++ combo one street deeper and records the
// combination as explored under parent.
func (t *Tree) AddChild(parent NodeID, combo []engine.Card) NodeID {
	p := &t.nodes[parent]
	known := make([]engine.Card, 0, len(p.Known)+len(combo))
	known = append(known, p.Known...)
	known = append(known, combo...)
	if p.explored == nil {
		p.explored = make(map[uint64]struct{})
	}
	p.explored[engine.Cards(combo).Mask()] = struct{}{}
	street := p.Street.Next()

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Known: known, Street: street, Parent: parent})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id
}

// Explored reports whether the combination with this card mask already has a child under id.
func (t *Tree) Explored(id NodeID, mask uint64) bool {
	_, ok := t.nodes[id].explored[mask]
	return ok
}

func (t *Tree) UCB1(id NodeID) float64 {
	n := &t.nodes[id]
	if n.Visits == 0 {
		return math.Inf(1)
	}
	exploit := float64(n.Wins) / float64(n.Visits)
	if n.Parent == NoParent {
		return exploit
	}
	pv := float64(t.nodes[n.Parent].Visits)
	return exploit + Exploration*math.Sqrt(math.Log(pv)/float64(n.Visits))
}
