package quadtree

import "github.com/eak1mov/go-tilemask/tile"

// ClampZoom limits a requested zoom level to the addressable range.
func ClampZoom(zoom int) uint32 {
	return uint32(min(max(zoom, 0), tile.MaxZoom))
}

// Build constructs a pruned coverage tree from a set of covered tiles.
// Invalid tiles are ignored, tiles deeper than clipZoom are replaced by
// their ancestor at clipZoom. A tile covers its whole subtree.
func Build(tiles []tile.ID, clipZoom int) *Tree {
	maxZoom := ClampZoom(clipZoom)

	clipped := make([]tile.ID, 0, len(tiles))
	for _, tileID := range tiles {
		if !tileID.Valid() {
			continue
		}
		if tileID.Z > maxZoom {
			tileID = tileID.Ancestor(maxZoom)
		}
		clipped = append(clipped, tileID)
	}

	b := builder{nodes: make([]Node, 1, 1+len(clipped))}
	b.nodes[0] = b.build(tile.ID{}, clipped)
	return &Tree{nodes: b.nodes, maxZoom: maxZoom}
}

type builder struct {
	nodes []Node
}

// build returns the node anchored at anchor; tiles are the input tiles
// at or below anchor.
func (b *builder) build(anchor tile.ID, tiles []tile.ID) Node {
	if len(tiles) == 0 {
		return Node{Inside: false}
	}

	var quadrants [4][]tile.ID
	for _, tileID := range tiles {
		if tileID.Z == anchor.Z {
			return Node{Inside: true}
		}
		q := tileID.QuadrantAt(anchor.Z)
		quadrants[q] = append(quadrants[q], tileID)
	}

	first := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{}, Node{}, Node{}, Node{})

	uniform := true
	inside := false
	for q, childID := range anchor.Children() {
		child := b.build(childID, quadrants[q])
		b.nodes[first+int32(q)] = child
		inside = inside || child.Inside
		uniform = uniform && child.IsLeaf() && child.Inside == b.nodes[first].Inside
	}

	if uniform {
		// collapse four equal leaves into their parent
		b.nodes = b.nodes[:first]
		return Node{Inside: inside}
	}
	return Node{Inside: inside, First: first}
}
