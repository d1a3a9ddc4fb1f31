// Package quadtree implements the coverage quad-tree behind package tile masks:
// building it from a tile set, its bitstream encoding and tile lookups.
package quadtree

import (
	"iter"

	"github.com/eak1mov/go-tilemask/tile"
)

// Node is a tree node anchored at the tile implied by its position in the tree.
type Node struct {
	// Inside is the coverage flag of a leaf. For a branch it is set
	// when any leaf below is inside.
	Inside bool
	// First is the arena index of the first of four children, 0 for leaves.
	First int32
}

func (n Node) IsLeaf() bool {
	return n.First == 0
}

// Child returns the arena index of quadrant q.
func (n Node) Child(q int) int32 {
	return n.First + int32(q)
}

// Tree is an immutable quad-tree stored in a flat arena, root at index 0.
type Tree struct {
	nodes   []Node
	maxZoom uint32
}

func (t *Tree) Root() Node {
	return t.nodes[0]
}

func (t *Tree) Node(idx int32) Node {
	return t.nodes[idx]
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// MaxZoom returns the deepest zoom level the tree may branch to.
func (t *Tree) MaxZoom() uint32 {
	return t.maxZoom
}

// Find descends towards tileID and returns the node anchored at tileID,
// or its deepest ancestor node when a leaf is reached first, along with
// that node's anchor tile.
func (t *Tree) Find(tileID tile.ID) (Node, tile.ID) {
	node := t.nodes[0]
	z := uint32(0)
	for ; z < tileID.Z && !node.IsLeaf(); z++ {
		node = t.nodes[node.Child(tileID.QuadrantAt(z))]
	}
	return node, tileID.Ancestor(z)
}

// Leaves returns an iterator over all leaves in pre-order, yielding
// each leaf's anchor tile and coverage flag.
func (t *Tree) Leaves() iter.Seq2[tile.ID, bool] {
	return func(yield func(tile.ID, bool) bool) {
		var walk func(idx int32, anchor tile.ID) bool
		walk = func(idx int32, anchor tile.ID) bool {
			node := t.nodes[idx]
			if node.IsLeaf() {
				return yield(anchor, node.Inside)
			}
			for q, child := range anchor.Children() {
				if !walk(node.Child(q), child) {
					return false
				}
			}
			return true
		}
		walk(0, tile.ID{})
	}
}

// Equal reports whether both trees have the same shape and leaf flags.
func (t *Tree) Equal(o *Tree) bool {
	var equal func(a, b int32) bool
	equal = func(a, b int32) bool {
		na, nb := t.nodes[a], o.nodes[b]
		if na.IsLeaf() != nb.IsLeaf() || na.Inside != nb.Inside {
			return false
		}
		if na.IsLeaf() {
			return true
		}
		for q := range 4 {
			if !equal(na.Child(q), nb.Child(q)) {
				return false
			}
		}
		return true
	}
	return equal(0, 0)
}
