// Package scene is the visual-side mirror of the simulation: a flat graph of
// nodes, each drawing a shared template at its own transform.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownNode is returned for node IDs not in the graph.
var ErrUnknownNode = errors.New("unknown scene node")

// NodeID identifies a node within its graph.
type NodeID uint32

// Node is one drawable instance of a template.
type Node struct {
	ID       NodeID
	Template *Template
	Scale    mgl32.Vec3
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Graph owns the nodes currently in the scene.
type Graph struct {
	nodes  map[NodeID]*Node
	order  []NodeID
	nextID NodeID

	added   int
	removed int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node)}
}

// Add inserts a node drawing t, scaled per axis, at pos.
func (g *Graph) Add(t *Template, scale, pos mgl32.Vec3) NodeID {
	g.nextID++
	n := &Node{
		ID:       g.nextID,
		Template: t,
		Scale:    scale,
		Position: pos,
		Rotation: mgl32.QuatIdent(),
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	g.added++
	return n.ID
}

// Remove detaches a node from the graph.
func (g *Graph) Remove(id NodeID) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	delete(g.nodes, id)
	for i, other := range g.order {
		if other == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.removed++
	return nil
}

// SetTransform moves and orients a node.
func (g *Graph) SetTransform(id NodeID, pos mgl32.Vec3, rot mgl32.Quat) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	n.Position = pos
	n.Rotation = rot
	return nil
}

// Node returns a copy of the node with the given ID.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Each calls fn for every node in insertion order.
func (g *Graph) Each(fn func(n *Node)) {
	for _, id := range g.order {
		fn(g.nodes[id])
	}
}

// Counts returns how many nodes were ever added and removed.
func (g *Graph) Counts() (added, removed int) {
	return g.added, g.removed
}
