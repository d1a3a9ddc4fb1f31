package source

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/eak1mov/go-tilemask/tile"
)

// IndexItem is a record of the binary tile index format: tile coordinates
// followed by the tile location in a separate data file.
type IndexItem struct {
	X      uint32
	Y      uint32
	Z      uint32
	Length uint32
	Offset uint64
}

func (i IndexItem) TileID() tile.ID {
	return tile.ID{X: i.X, Y: i.Y, Z: i.Z}
}

func WriteIndex(items []IndexItem, writer io.Writer) error {
	return binary.Write(writer, binary.LittleEndian, items)
}

func ReadIndex(indexData []byte) ([]IndexItem, error) {
	count := len(indexData) / binary.Size(IndexItem{})
	items := make([]IndexItem, count)

	err := binary.Read(bytes.NewReader(indexData), binary.LittleEndian, items)
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Index enumerates tiles of a binary index file.
type Index struct {
	items   []IndexItem
	maxZoom int
}

func OpenIndex(filePath string, opts ...Option) (*Index, error) {
	c := newConfig(opts)

	indexData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	items, err := ReadIndex(indexData)
	if err != nil {
		return nil, err
	}

	maxZoom := -1
	for _, item := range items {
		maxZoom = max(maxZoom, int(item.Z))
	}
	c.Logger.Debug("tilemask: opened index", "path", filePath, "tiles", len(items))

	return &Index{items: items, maxZoom: maxZoom}, nil
}

func (s *Index) Close() error {
	return nil
}

func (s *Index) MaxZoom() int {
	return s.maxZoom
}

func (s *Index) VisitTileIDs(visitor func(tile.ID) error) error {
	for _, item := range s.items {
		if err := visitor(item.TileID()); err != nil {
			return err
		}
	}
	return nil
}
