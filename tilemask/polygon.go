package tilemask

import (
	"errors"

	"github.com/eak1mov/go-tilemask/tile"
	"github.com/eak1mov/go-tilemask/tilemask/quadtree"
	"github.com/paulmach/orb"
)

var ErrNoProjection = errors.New("tilemask: projection is required")

// Projection maps normalized tile space, where the world spans [0,1]x[0,1]
// with y growing southwards, to map coordinates.
type Projection interface {
	FromTileSpace(p orb.Point) orb.Point
}

// BoundingPolygon returns the area covered by the mask at its encoded
// resolution, one ring per covered rectangle.
func (m *Mask) BoundingPolygon(proj Projection) (orb.MultiPolygon, error) {
	if proj == nil {
		return nil, ErrNoProjection
	}
	tree, err := m.tree()
	if err != nil {
		return nil, err
	}

	polygon := orb.MultiPolygon{}
	for _, ring := range boundingRings(tree, 0, tile.ID{}, proj) {
		polygon = append(polygon, orb.Polygon{ring})
	}
	return polygon, nil
}

func boundingRings(tree *quadtree.Tree, idx int32, anchor tile.ID, proj Projection) []orb.Ring {
	node := tree.Node(idx)
	if node.IsLeaf() {
		if !node.Inside {
			return nil
		}
		return []orb.Ring{tileRing(anchor, 1, proj)}
	}

	var rings []orb.Ring
	for _, row := range [2][2]int{{0, 1}, {2, 3}} {
		left, right := tree.Node(node.Child(row[0])), tree.Node(node.Child(row[1]))
		if left.IsLeaf() && right.IsLeaf() && left.Inside && right.Inside {
			rings = append(rings, tileRing(anchor.Child(row[0]), 2, proj))
			continue
		}
		for _, q := range row {
			rings = append(rings, boundingRings(tree, node.Child(q), anchor.Child(q), proj)...)
		}
	}
	return rings
}

// tileRing returns the closed ring of a rectangle, counter-clockwise with north up,
// starting at tileID and spanning width tiles eastwards.
func tileRing(tileID tile.ID, width uint32, proj Projection) orb.Ring {
	scale := float64(uint64(1) << tileID.Z)
	x0 := float64(tileID.X) / scale
	x1 := float64(tileID.X+width) / scale
	y0 := float64(tileID.Y) / scale
	y1 := float64(tileID.Y+1) / scale

	return orb.Ring{
		proj.FromTileSpace(orb.Point{x0, y1}),
		proj.FromTileSpace(orb.Point{x1, y1}),
		proj.FromTileSpace(orb.Point{x1, y0}),
		proj.FromTileSpace(orb.Point{x0, y0}),
		proj.FromTileSpace(orb.Point{x0, y1}),
	}
}
