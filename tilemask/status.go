package tilemask

import "github.com/eak1mov/go-tilemask/tile"

// Status is the coverage status of a tile.
type Status int

const (
	// StatusMissing means the tile is not part of the package.
	StatusMissing Status = iota
	// StatusPartial means the tile is part of the package, but the package
	// does not fully cover it.
	//
	// Deprecated: masks never report it; partially covered tiles are StatusFull.
	StatusPartial
	// StatusFull means the tile is part of the package.
	StatusFull
)

func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusPartial:
		return "partial"
	case StatusFull:
		return "full"
	}
	return "unknown"
}

// TileStatus reports whether tileID is part of the package. Tiles deeper
// than the mask's max zoom inherit the status of their ancestor at max zoom.
// An error is returned only when the mask string cannot be decoded.
func (m *Mask) TileStatus(tileID tile.ID) (Status, error) {
	tree, err := m.tree()
	if err != nil {
		return StatusMissing, err
	}
	if !tileID.Valid() {
		return StatusMissing, nil
	}
	if node, _ := tree.Find(tileID); node.Inside {
		return StatusFull, nil
	}
	return StatusMissing, nil
}
