package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/eak1mov/go-tilemask/tile"
)

var ErrInvalidPattern = errors.New("tilemask: invalid file pattern")

// XYZ enumerates tiles stored as individual files with paths like "/z/x/y.ext".
type XYZ struct {
	rootDir    string
	pathRegexp *regexp.Regexp
	logger     *slog.Logger
}

// OpenXYZ creates a source for the given file pattern (e.g. "/home/user/tiles/{z}/{x}/{y}.png").
func OpenXYZ(filePattern string, opts ...Option) (*XYZ, error) {
	c := newConfig(opts)

	for _, p := range []string{"{x}", "{y}", "{z}"} {
		if !strings.Contains(filePattern, p) {
			return nil, fmt.Errorf("%w: placeholder %v not found", ErrInvalidPattern, p)
		}
	}

	regexPattern := regexp.QuoteMeta(filepath.Clean(filePattern))
	for _, p := range []string{"x", "y", "z"} {
		placeholder := regexp.QuoteMeta("{" + p + "}")
		regexPattern = strings.ReplaceAll(regexPattern, placeholder, "(?P<"+p+">\\d+)")
	}
	pathRegexp, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	// walk from the deepest directory that holds no placeholder
	rootDir := filePattern
	for strings.Contains(rootDir, "{") {
		rootDir = filepath.Dir(rootDir)
	}

	return &XYZ{rootDir: rootDir, pathRegexp: pathRegexp, logger: c.Logger}, nil
}

func (s *XYZ) Close() error {
	return nil
}

// MaxZoom is not known without a full walk.
func (s *XYZ) MaxZoom() int {
	return -1
}

func (s *XYZ) VisitTileIDs(visitor func(tile.ID) error) error {
	return filepath.WalkDir(s.rootDir, func(filePath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := s.pathRegexp.FindStringSubmatch(filePath)
		if matches == nil {
			s.logger.Debug("tilemask: skipping file", "path", filePath)
			return nil
		}

		var coords [3]uint32
		for i, name := range []string{"x", "y", "z"} {
			value, err := strconv.ParseUint(matches[s.pathRegexp.SubexpIndex(name)], 10, 32)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPattern, err)
			}
			coords[i] = uint32(value)
		}

		return visitor(tile.ID{X: coords[0], Y: coords[1], Z: coords[2]})
	})
}
