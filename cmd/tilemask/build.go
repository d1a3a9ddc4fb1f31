package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"slices"

	"github.com/eak1mov/go-tilemask/source"
	"github.com/eak1mov/go-tilemask/tile"
	"github.com/eak1mov/go-tilemask/tilemask"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type buildCmd struct {
	inputFormat string
	inputPath   string
	clipZoom    int
	urlSafe     bool
	verbose     bool
}

func (c *buildCmd) Name() string     { return "build" }
func (c *buildCmd) Synopsis() string { return "build package tile mask from tileset" }
func (c *buildCmd) Usage() string {
	return "tilemask build -i <path> [-if <format> -z <zoom> -url]\n"
}
func (c *buildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (mbtiles, pmtiles, xyz, index)")
	f.IntVar(&c.clipZoom, "z", envInt("TILEMASK_ZOOM", -1), "Clip zoom (defaults to tileset max zoom)")
	f.BoolVar(&c.urlSafe, "url", false, "Print URL-safe encoding")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func (c *buildCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	logger := slog.New(slog.DiscardHandler)
	if c.verbose {
		logger = slog.Default()
	}

	reader, err := source.Open(c.inputFormat, c.inputPath, source.WithLogger(logger))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer reader.Close()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
	)
	mask, err := buildMask(progressVisitor{reader, bar}, reader.MaxZoom(), c.clipZoom, logger)
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if c.urlSafe {
		fmt.Println(mask.URLSafeString())
	} else {
		fmt.Println(mask.String())
	}
	logger.Info("tilemask: done", "maxZoom", mask.MaxZoom())

	return subcommands.ExitSuccess
}

// progressVisitor advances the progress bar for every visited tile.
type progressVisitor struct {
	tile.IDVisitor
	bar *progressbar.ProgressBar
}

func (v progressVisitor) VisitTileIDs(visitor func(tile.ID) error) error {
	return v.IDVisitor.VisitTileIDs(func(tileID tile.ID) error {
		if err := visitor(tileID); err != nil {
			return err
		}
		return v.bar.Add(1)
	})
}

// buildMask builds the mask of a tileset. Tilesets store a full pyramid,
// every covered tile comes with all of its ancestors, so coverage is taken
// from tiles at or below the clip zoom only. A negative clipZoom selects
// sourceMaxZoom, or the deepest visited zoom when that is unknown too.
func buildMask(v tile.IDVisitor, sourceMaxZoom, clipZoom int, logger *slog.Logger) (*tilemask.Mask, error) {
	tiles, err := tile.CollectIDs(v)
	if err != nil {
		return nil, err
	}

	if clipZoom < 0 {
		clipZoom = sourceMaxZoom
	}
	if clipZoom < 0 {
		for _, tileID := range tiles {
			clipZoom = max(clipZoom, int(tileID.Z))
		}
	}

	coverage := slices.DeleteFunc(tiles, func(tileID tile.ID) bool {
		return int(tileID.Z) < clipZoom
	})
	logger.Debug("tilemask: coverage", "tiles", len(coverage), "clipZoom", clipZoom)

	return tilemask.FromTiles(coverage, clipZoom, tilemask.WithLogger(logger)), nil
}
