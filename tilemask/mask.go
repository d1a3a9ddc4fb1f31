// Package tilemask implements package tile masks: compact encodings of the
// tiles covered by an offline map package, supporting fast tile-in-package
// tests without materializing the tile list.
package tilemask

import (
	"log/slog"
	"sync"

	"github.com/eak1mov/go-tilemask/tile"
	"github.com/eak1mov/go-tilemask/tilemask/quadtree"
)

// Mask is an immutable package tile mask. It is safe for concurrent use.
type Mask struct {
	value   string
	maxZoom int
	tree    func() (*quadtree.Tree, error)
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

// decodeTree is replaced in tests to observe decoding.
var decodeTree = decodeValue

// New creates a mask from its encoded string and maximum zoom level.
// Either alphabet is accepted. The string is decoded on first use,
// malformed input is reported by the first query.
func New(value string, maxZoom int, opts ...Option) *Mask {
	c := newConfig(opts)
	value = standardAlphabet(value)
	maxZoom = int(quadtree.ClampZoom(maxZoom))

	return &Mask{
		value:   value,
		maxZoom: maxZoom,
		tree: sync.OnceValues(func() (*quadtree.Tree, error) {
			tree, err := decodeTree(value, maxZoom)
			if err != nil {
				c.Logger.Debug("tilemask: decode failed", "error", err)
				return nil, err
			}
			c.Logger.Debug("tilemask: decoded", "nodes", tree.Len(), "maxZoom", maxZoom)
			return tree, nil
		}),
	}
}

// FromTiles builds a mask covering the given tiles, clipped at clipZoom.
func FromTiles(tiles []tile.ID, clipZoom int, opts ...Option) *Mask {
	c := newConfig(opts)
	tree := quadtree.Build(tiles, clipZoom)
	value := encodeValue(tree)
	c.Logger.Debug("tilemask: built", "tiles", len(tiles), "nodes", tree.Len(), "clipZoom", tree.MaxZoom())

	return &Mask{
		value:   value,
		maxZoom: int(tree.MaxZoom()),
		tree:    func() (*quadtree.Tree, error) { return tree, nil },
	}
}

// String returns the encoded mask in the standard base64 alphabet.
// It is an opaque value, not meant to be displayed to users.
func (m *Mask) String() string {
	return m.value
}

// URLSafeString returns the encoded mask in the URL-safe base64 alphabet.
func (m *Mask) URLSafeString() string {
	return urlSafeAlphabet(m.value)
}

// MaxZoom returns the maximum zoom level encoded in the mask.
func (m *Mask) MaxZoom() int {
	return m.maxZoom
}

// Tree returns the decoded coverage tree, decoding it on first use.
func (m *Mask) Tree() (*quadtree.Tree, error) {
	return m.tree()
}
