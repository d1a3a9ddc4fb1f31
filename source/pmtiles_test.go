package source_test

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/eak1mov/go-tilemask/source"
	"github.com/eak1mov/go-tilemask/tile"
	gcmp "github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

type pmEntry struct {
	TileCode  uint64
	Offset    uint64
	Length    uint32
	RunLength uint32
}

func serializeDirectory(entries []pmEntry) []byte {
	buffer := binary.AppendUvarint(nil, uint64(len(entries)))
	lastCode := uint64(0)
	for _, entry := range entries {
		buffer = binary.AppendUvarint(buffer, entry.TileCode-lastCode)
		lastCode = entry.TileCode
	}
	for _, entry := range entries {
		buffer = binary.AppendUvarint(buffer, uint64(entry.RunLength))
	}
	for _, entry := range entries {
		buffer = binary.AppendUvarint(buffer, uint64(entry.Length))
	}
	for _, entry := range entries {
		buffer = binary.AppendUvarint(buffer, entry.Offset+1)
	}
	return buffer
}

func compress(t *testing.T, data []byte, compression uint8) []byte {
	t.Helper()
	switch compression {
	case 2:
		var buffer bytes.Buffer
		writer := gzip.NewWriter(&buffer)
		if _, err := writer.Write(data); err != nil {
			t.Fatal(err)
		}
		if err := writer.Close(); err != nil {
			t.Fatal(err)
		}
		return buffer.Bytes()
	case 4:
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			t.Fatal(err)
		}
		defer encoder.Close()
		return encoder.EncodeAll(data, nil)
	}
	return data
}

// writePMTiles writes an archive without tile data: the first tiles are
// addressed from a leaf directory, the rest from the root directory.
func writePMTiles(t *testing.T, filePath string, compression uint8) {
	t.Helper()

	entries := make([]pmEntry, 0)
	for _, tileID := range testTiles {
		entries = append(entries, pmEntry{TileCode: source.EncodeTileCode(tileID), Length: 1, RunLength: 1})
	}
	slices.SortFunc(entries, func(a, b pmEntry) int { return cmp.Compare(a.TileCode, b.TileCode) })

	// merge entries 1 and 2 into a run when consecutive on the curve
	if entries[1].TileCode+1 == entries[2].TileCode {
		entries[1].RunLength = 2
		entries = slices.Delete(entries, 2, 3)
	}

	leaf := compress(t, serializeDirectory(entries[:3]), compression)
	rootEntries := append([]pmEntry{{TileCode: entries[0].TileCode, Offset: 0, Length: uint32(len(leaf))}}, entries[3:]...)
	root := compress(t, serializeDirectory(rootEntries), compression)
	writeArchive(t, filePath, root, leaf, compression)
}

// writeArchive writes a header followed by the given root and leaf
// directory sections.
func writeArchive(t *testing.T, filePath string, root, leaf []byte, compression uint8) {
	t.Helper()

	const headerLength = 127
	header := struct {
		Magic               uint64
		RootOffset          uint64
		RootLength          uint64
		MetadataOffset      uint64
		MetadataLength      uint64
		LeafDirectoryOffset uint64
		LeafDirectoryLength uint64
		TileDataOffset      uint64
		TileDataLength      uint64
		AddressedTilesCount uint64
		TileEntriesCount    uint64
		TileContentsCount   uint64
		Clustered           bool
		InternalCompression uint8
		TileCompression     uint8
		TileType            uint8
		MinZoom             uint8
		MaxZoom             uint8
		Rest                [headerLength - 102]byte
	}{
		Magic:               0x73656C69544D50 | (0x03 << 56),
		RootOffset:          headerLength,
		RootLength:          uint64(len(root)),
		LeafDirectoryOffset: headerLength + uint64(len(root)),
		LeafDirectoryLength: uint64(len(leaf)),
		TileEntriesCount:    uint64(len(testTiles)),
		InternalCompression: compression,
		MaxZoom:             6,
	}

	var buffer bytes.Buffer
	if err := binary.Write(&buffer, binary.LittleEndian, header); err != nil {
		t.Fatal(err)
	}
	buffer.Write(root)
	buffer.Write(leaf)
	if err := os.WriteFile(filePath, buffer.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPMTiles(t *testing.T) {
	for _, tc := range []struct {
		name        string
		compression uint8
	}{
		{name: "None", compression: 1},
		{name: "Gzip", compression: 2},
		{name: "Zstd", compression: 4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			filePath := filepath.Join(t.TempDir(), "tiles.pmtiles")
			writePMTiles(t, filePath, tc.compression)

			s, err := source.Open("", filePath)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			checkSource(t, s, 6)
		})
	}
}

func TestPMTilesUnsupportedCompression(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tiles.pmtiles")
	writePMTiles(t, filePath, 3)

	s, err := source.OpenPMTiles(filePath)
	if err != nil {
		t.Fatalf("OpenPMTiles failed: %v", err)
	}
	defer s.Close()

	_, err = tile.CollectIDs(s)
	if !errors.Is(err, source.ErrUnsupportedCompression) {
		t.Errorf("VisitTileIDs error = %v, want = %v", err, source.ErrUnsupportedCompression)
	}
}

func TestPMTilesCyclicLeafDirectory(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tiles.pmtiles")

	// the leaf directory points at itself: offset 0 within the leaf section
	leafEntries := []pmEntry{{TileCode: 0, Offset: 0, Length: 0}}
	leaf := serializeDirectory(leafEntries)
	leafEntries[0].Length = uint32(len(leaf))
	leaf = serializeDirectory(leafEntries)
	root := serializeDirectory([]pmEntry{{TileCode: 0, Offset: 0, Length: uint32(len(leaf))}})
	writeArchive(t, filePath, root, leaf, 1)

	s, err := source.OpenPMTiles(filePath)
	if err != nil {
		t.Fatalf("OpenPMTiles failed: %v", err)
	}
	defer s.Close()

	visited := 0
	err = s.VisitTileIDs(func(tile.ID) error {
		visited++
		return nil
	})
	if !errors.Is(err, source.ErrInvalidDirectory) {
		t.Errorf("VisitTileIDs error = %v, want = %v", err, source.ErrInvalidDirectory)
	}
	if visited != 0 {
		t.Errorf("visited %d tiles, want = 0", visited)
	}
}

func TestPMTilesInvalidHeader(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tiles.pmtiles")
	if err := os.WriteFile(filePath, []byte("foobar"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := source.OpenPMTiles(filePath)
	if !errors.Is(err, source.ErrInvalidHeader) {
		t.Errorf("OpenPMTiles error = %v, want = %v", err, source.ErrInvalidHeader)
	}
}

func TestTileCode(t *testing.T) {
	for z := range 8 {
		for x := range 1 << z {
			for y := range 1 << z {
				tileID := tile.ID{X: uint32(x), Y: uint32(y), Z: uint32(z)}
				if diff := gcmp.Diff(tileID, source.DecodeTileCode(source.EncodeTileCode(tileID))); diff != "" {
					t.Errorf("DecodeTileCode(EncodeTileCode(%v)) mismatch (-want+got):\n%v", tileID, diff)
				}
			}
		}
	}
	if got := source.EncodeTileCode(tile.ID{X: 0, Y: 0, Z: 1}); got != 1 {
		t.Errorf("EncodeTileCode(0/0/1) = %v, want = 1", got)
	}
}
