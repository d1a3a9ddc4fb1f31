// Package source enumerates the tiles of existing tilesets, so that package
// tile masks can be built from them.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before opening MBTiles files.
package source

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/eak1mov/go-tilemask/tile"
)

// Source is a tileset whose tile IDs can be enumerated.
type Source interface {
	io.Closer
	tile.IDVisitor

	// MaxZoom returns the deepest zoom level of the tileset, or -1 if unknown.
	MaxZoom() int
}

type config struct {
	Logger *slog.Logger
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

func newConfig(opts []Option) config {
	c := config{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// DeduceFormat returns format, or guesses it from the path suffix when empty.
func DeduceFormat(format, filePath string) string {
	if format != "" {
		return format
	}
	switch {
	case strings.HasSuffix(filePath, ".mbtiles"):
		return "mbtiles"
	case strings.HasSuffix(filePath, ".pmtiles"):
		return "pmtiles"
	case strings.HasSuffix(filePath, ".index"):
		return "index"
	case strings.Contains(filePath, "{z}"):
		return "xyz"
	}
	return format
}

// Open opens a tileset of the given format (mbtiles, pmtiles, xyz, index).
func Open(format, path string, opts ...Option) (Source, error) {
	switch DeduceFormat(format, path) {
	case "mbtiles":
		return OpenMBTiles(path, opts...)
	case "pmtiles":
		return OpenPMTiles(path, opts...)
	case "xyz":
		return OpenXYZ(path, opts...)
	case "index":
		return OpenIndex(path, opts...)
	}
	return nil, fmt.Errorf("tilemask: invalid input format: %q", format)
}
