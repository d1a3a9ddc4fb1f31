// Package tile provides the tile coordinate model shared by masks and tile sources.
package tile

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// MaxZoom is the deepest zoom level an ID can address.
const MaxZoom = 31

// ID represents tile coordinates in the XYZ scheme (Tiled web map).
type ID struct {
	X uint32
	Y uint32
	Z uint32
}

func (t ID) Valid() bool {
	return t.Z <= MaxZoom && t.X < (1<<t.Z) && t.Y < (1<<t.Z)
}

// Parent returns the tile one zoom level up. The root is its own parent.
func (t ID) Parent() ID {
	if t.Z == 0 {
		return t
	}
	return ID{X: t.X >> 1, Y: t.Y >> 1, Z: t.Z - 1}
}

// Ancestor returns the tile at zoom z covering t. z must not exceed t.Z.
func (t ID) Ancestor(z uint32) ID {
	shift := t.Z - z
	return ID{X: t.X >> shift, Y: t.Y >> shift, Z: z}
}

// Child returns quadrant q of t: 0 top-left, 1 top-right, 2 bottom-left, 3 bottom-right.
func (t ID) Child(q int) ID {
	return ID{
		X: t.X<<1 | uint32(q&1),
		Y: t.Y<<1 | uint32(q>>1),
		Z: t.Z + 1,
	}
}

func (t ID) Children() [4]ID {
	return [4]ID{t.Child(0), t.Child(1), t.Child(2), t.Child(3)}
}

// QuadrantAt returns the quadrant, within t's ancestor at zoom z,
// of the child tile that contains t. z must be below t.Z.
func (t ID) QuadrantAt(z uint32) int {
	shift := t.Z - z - 1
	return int((t.Y>>shift)&1)<<1 | int((t.X>>shift)&1)
}

// Contains reports whether o is t or one of its descendants.
func (t ID) Contains(o ID) bool {
	return o.Z >= t.Z && o.Ancestor(t.Z) == t
}

// Bound returns the lon/lat bounds of the tile.
func (t ID) Bound() orb.Bound {
	return t.MapTile().Bound()
}

func (t ID) MapTile() maptile.Tile {
	return maptile.New(t.X, t.Y, maptile.Zoom(t.Z))
}

// IDVisitor is implemented by tilesets able to enumerate their tile coordinates.
type IDVisitor interface {
	// VisitTileIDs calls visitor for every tile of the tileset.
	// Order of tiles is implementation-defined.
	VisitTileIDs(visitor func(ID) error) error
}
