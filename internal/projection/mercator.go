package projection

import (
	"math"

	"github.com/woozymasta/mapgeo/internal/geo"
)

const (
	// TileSize is the edge of the world square at zoom 0, in world units.
	TileSize = 256

	// MaxLat is the latitude where the Web Mercator world square ends.
	MaxLat = 85.05112878
)

// WebMercator is the spherical Mercator projection used by slippy maps.
// The world is a TileSize square with its origin at the north-west corner.
type WebMercator struct{}

// ToWorld projects c into world space. Latitudes beyond MaxLat are clamped.
func (WebMercator) ToWorld(c geo.Coordinate) WorldPoint {
	lat := math.Max(-MaxLat, math.Min(MaxLat, c.Lat))

	// lng: [-180..180] -> x: [0..TileSize]
	x := TileSize * (0.5 + c.Lng/360.0)

	// Mercator y: [PI..-PI] -> y: [0..TileSize]
	mercatorY := math.Log(math.Tan(math.Pi/4 + lat*math.Pi/360.0))
	y := TileSize * (0.5 - mercatorY/(2.0*math.Pi))

	return WorldPoint{X: x, Y: y}
}

// FromWorld is the inverse of ToWorld.
func (WebMercator) FromWorld(p WorldPoint) geo.Coordinate {
	lng := p.X*360.0/TileSize - 180.0

	mercatorY := math.Pi - (2.0*math.Pi)*p.Y/TileSize

	// Inverse Mercator projection
	latRad := (2.0 * math.Atan(math.Exp(mercatorY))) - (math.Pi * 0.5)
	lat := latRad * (180.0 / math.Pi)

	if lat > MaxLat {
		lat = MaxLat
	} else if lat < -MaxLat {
		lat = -MaxLat
	}

	return geo.Coordinate{Lat: lat, Lng: lng}
}
