package source

import (
	"github.com/eak1mov/go-tilemask/tile"
	"github.com/google/hilbert"
)

var DecodeTileCode = decodeTileCode

// EncodeTileCode is the inverse of decodeTileCode, used to build fixtures.
func EncodeTileCode(tileID tile.ID) uint64 {
	h, _ := hilbert.NewHilbert(1 << tileID.Z)
	tileCode, _ := h.MapInverse(int(tileID.X), int(tileID.Y))

	tilesCount := (1<<(tileID.Z*2) - 1) / 3
	return uint64(tileCode + tilesCount)
}
