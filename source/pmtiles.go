package source

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/bits"
	"os"

	"github.com/eak1mov/go-tilemask/tile"
	"github.com/google/hilbert"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var ErrInvalidHeader = errors.New("tilemask: invalid pmtiles header")
var ErrUnsupportedCompression = errors.New("tilemask: unsupported compression")
var ErrInvalidDirectory = errors.New("tilemask: invalid pmtiles directory")

// maxDirectoryDepth is the root directory plus one level of leaf directories.
const maxDirectoryDepth = 2

const (
	pmHeaderMagic   uint64 = 0x73656C69544D50 // "PMTiles"
	pmHeaderMagicV3 uint64 = pmHeaderMagic | (0x03 << 56)
	pmHeaderLength         = 127
)

const (
	compressionNone uint8 = 1
	compressionGzip uint8 = 2
	compressionZstd uint8 = 4
)

// pmHeader is the leading part of a PMTiles v3 header, up to the zoom range.
type pmHeader struct {
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
}

type pmEntry struct {
	TileCode  uint64
	Offset    uint64
	Length    uint32
	RunLength uint32
}

// PMTiles enumerates tiles of a PMTiles v3 archive by walking its directories.
type PMTiles struct {
	file   *os.File
	header pmHeader
	logger *slog.Logger
}

func OpenPMTiles(filePath string, opts ...Option) (*PMTiles, error) {
	c := newConfig(opts)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	headerData := make([]byte, pmHeaderLength)
	if _, err := file.ReadAt(headerData, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	header := pmHeader{}
	if err := binary.Read(bytes.NewReader(headerData), binary.LittleEndian, &header); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if header.Magic != pmHeaderMagicV3 {
		file.Close()
		return nil, ErrInvalidHeader
	}
	c.Logger.Debug("tilemask: opened pmtiles", "path", filePath, "entries", header.TileEntriesCount)

	return &PMTiles{file: file, header: header, logger: c.Logger}, nil
}

func (s *PMTiles) Close() error {
	return s.file.Close()
}

func (s *PMTiles) MaxZoom() int {
	return int(s.header.MaxZoom)
}

func (s *PMTiles) readDirectory(offset, length uint64) ([]pmEntry, error) {
	compressed := make([]byte, length)
	if _, err := s.file.ReadAt(compressed, int64(offset)); err != nil {
		return nil, err
	}
	data, err := decompress(compressed, s.header.InternalCompression)
	if err != nil {
		return nil, err
	}
	return deserializeDirectory(data)
}

func (s *PMTiles) VisitTileIDs(visitor func(tile.ID) error) error {
	var traverse func(offset, length uint64, depth int) error
	traverse = func(offset, length uint64, depth int) error {
		if depth >= maxDirectoryDepth {
			return fmt.Errorf("%w: nested leaf directory at offset %d", ErrInvalidDirectory, offset)
		}
		entries, err := s.readDirectory(offset, length)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.RunLength == 0 {
				err := traverse(s.header.LeafDirectoryOffset+entry.Offset, uint64(entry.Length), depth+1)
				if err != nil {
					return err
				}
				continue
			}
			for i := range entry.RunLength {
				if err := visitor(decodeTileCode(entry.TileCode + uint64(i))); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return traverse(s.header.RootOffset, s.header.RootLength, 0)
}

func decompress(data []byte, compression uint8) ([]byte, error) {
	switch compression {
	case compressionNone:
		return data, nil
	case compressionGzip:
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress: %w", err)
		}
		defer reader.Close()
		return io.ReadAll(reader)
	case compressionZstd:
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		result, err := decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress: %w", err)
		}
		return result, nil
	}
	return nil, fmt.Errorf("%w (%v)", ErrUnsupportedCompression, compression)
}

func deserializeDirectory(data []byte) ([]pmEntry, error) {
	byteReader := bytes.NewReader(data)

	var err error
	readUvarint := func() uint64 {
		if err != nil {
			return 0
		}
		var value uint64
		value, err = binary.ReadUvarint(byteReader)
		return value
	}

	numEntries := readUvarint()
	if err != nil {
		return nil, err
	}
	if numEntries > uint64(len(data)) {
		return nil, fmt.Errorf("tilemask: invalid directory size %d", numEntries)
	}
	entries := make([]pmEntry, numEntries)

	lastCode := uint64(0)
	for i := range entries {
		lastCode += readUvarint()
		entries[i].TileCode = lastCode
	}
	for i := range entries {
		entries[i].RunLength = uint32(readUvarint())
	}
	for i := range entries {
		entries[i].Length = uint32(readUvarint())
	}
	for i := range entries {
		value := readUvarint()
		if value == 0 && i > 0 {
			entries[i].Offset = entries[i-1].Offset + uint64(entries[i-1].Length)
		} else {
			entries[i].Offset = value - 1
		}
	}

	return entries, err
}

// decodeTileCode maps a PMTiles tile code, the Hilbert curve position
// offset by the tile count of all lower zooms, to a tile ID.
func decodeTileCode(tileCode uint64) tile.ID {
	z := (bits.Len64(3*tileCode+1) - 1) / 2
	tilesCount := (1<<(z*2) - 1) / 3

	h, _ := hilbert.NewHilbert(1 << z)
	x, y, _ := h.Map(int(tileCode) - tilesCount)

	return tile.ID{X: uint32(x), Y: uint32(y), Z: uint32(z)}
}
