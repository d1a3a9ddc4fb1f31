package tilemask

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/eak1mov/go-tilemask/tilemask/quadtree"
)

var ErrInvalidEncoding = errors.New("tilemask: invalid encoding")

var (
	toURLSafe  = strings.NewReplacer("+", "-", "/", "_")
	toStandard = strings.NewReplacer("-", "+", "_", "/")
)

func standardAlphabet(value string) string {
	return toStandard.Replace(value)
}

func urlSafeAlphabet(value string) string {
	return toURLSafe.Replace(value)
}

func encodeValue(tree *quadtree.Tree) string {
	return base64.StdEncoding.EncodeToString(quadtree.Encode(tree))
}

// decodeValue accepts a standard alphabet string with or without padding.
func decodeValue(value string, maxZoom int) (*quadtree.Tree, error) {
	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(value, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	tree, err := quadtree.Decode(data, maxZoom)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return tree, nil
}
