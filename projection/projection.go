// Package projection provides tile space projections for tile mask polygons.
package projection

import (
	"strings"

	"github.com/eak1mov/go-tilemask/tilemask"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// earthCircumference is the length of the equator in Web Mercator metres.
const earthCircumference = 2 * 20037508.342789244

// TileSpace keeps normalized tile coordinates.
type TileSpace struct{}

func (TileSpace) FromTileSpace(p orb.Point) orb.Point {
	return p
}

// WebMercator projects to EPSG:3857 metres.
type WebMercator struct{}

func (WebMercator) FromTileSpace(p orb.Point) orb.Point {
	return orb.Point{
		(p[0] - 0.5) * earthCircumference,
		(0.5 - p[1]) * earthCircumference,
	}
}

// WGS84 projects to longitude/latitude degrees.
type WGS84 struct{}

func (WGS84) FromTileSpace(p orb.Point) orb.Point {
	return project.Mercator.ToWGS84(WebMercator{}.FromTileSpace(p))
}

// ByName returns a projection by its command line name.
func ByName(name string) (tilemask.Projection, bool) {
	switch strings.ToLower(name) {
	case "tile", "tilespace":
		return TileSpace{}, true
	case "mercator", "epsg:3857", "webmercator":
		return WebMercator{}, true
	case "wgs84", "epsg:4326", "lonlat":
		return WGS84{}, true
	}
	return nil, false
}
