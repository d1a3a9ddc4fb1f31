package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/eak1mov/go-tilemask/projection"
	"github.com/eak1mov/go-tilemask/tile"
	"github.com/eak1mov/go-tilemask/tilemask"
	"github.com/google/subcommands"
	"github.com/paulmach/orb/geojson"
)

type maskFlags struct {
	value   string
	maxZoom int
}

func (m *maskFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&m.value, "m", "", "Encoded tile mask")
	f.IntVar(&m.maxZoom, "z", envInt("TILEMASK_ZOOM", 14), "Tile mask max zoom")
}

func (m *maskFlags) mask() *tilemask.Mask {
	return tilemask.New(m.value, m.maxZoom)
}

func parseTile(value string) (tile.ID, error) {
	var tileID tile.ID
	if _, err := fmt.Sscanf(value, "%d/%d/%d", &tileID.Z, &tileID.X, &tileID.Y); err != nil {
		return tile.ID{}, fmt.Errorf("invalid tile %q, want z/x/y: %w", value, err)
	}
	return tileID, nil
}

type statusCmd struct {
	maskFlags
}

func (c *statusCmd) Name() string     { return "status" }
func (c *statusCmd) Synopsis() string { return "print package status of tiles" }
func (c *statusCmd) Usage() string {
	return "tilemask status -m <mask> [-z <zoom>] <z/x/y>...\n"
}
func (c *statusCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
}

func (c *statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	mask := c.mask()
	for _, arg := range f.Args() {
		tileID, err := parseTile(arg)
		if err != nil {
			log.Println(err)
			return subcommands.ExitUsageError
		}
		status, err := mask.TileStatus(tileID)
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		bound := tileID.Bound()
		fmt.Printf("%v\t%v\t%.6f,%.6f,%.6f,%.6f\n", arg, status, bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1])
	}
	return subcommands.ExitSuccess
}

type polygonCmd struct {
	maskFlags
	projection string
}

func (c *polygonCmd) Name() string     { return "polygon" }
func (c *polygonCmd) Synopsis() string { return "print bounding polygon of tile mask as GeoJSON" }
func (c *polygonCmd) Usage() string {
	return "tilemask polygon -m <mask> [-z <zoom> -proj <projection>]\n"
}
func (c *polygonCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.projection, "proj", envString("TILEMASK_PROJECTION", "wgs84"), "Output projection (wgs84, mercator, tile)")
}

func (c *polygonCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	proj, ok := projection.ByName(c.projection)
	if !ok {
		log.Printf("invalid projection: %q", c.projection)
		return subcommands.ExitUsageError
	}

	polygon, err := c.mask().BoundingPolygon(proj)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	fc := geojson.NewFeatureCollection()
	feature := geojson.NewFeature(polygon)
	feature.Properties["maxzoom"] = c.maxZoom
	fc.Append(feature)

	data, err := fc.MarshalJSON()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(data))
	return subcommands.ExitSuccess
}
