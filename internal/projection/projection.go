// Package projection converts between geographic coordinates and pixel
// offsets inside a map viewport, and estimates the viewport's map scale.
//
// The viewport and its projection are supplied by the hosting map widget
// through the Viewport and Projection interfaces; nothing here keeps them
// beyond a single call.
package projection

import (
	"math"

	"github.com/woozymasta/mapgeo/internal/geo"
)

// WorldPoint is a position in the projection's world space, before the
// zoom scale is applied.
type WorldPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// PixelPoint is an integer pixel offset from the top-left corner of the
// viewport, with Y growing downward.
type PixelPoint struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Projection maps geographic coordinates to world points and back.
type Projection interface {
	ToWorld(c geo.Coordinate) WorldPoint
	FromWorld(p WorldPoint) geo.Coordinate
}

// Bounds is the visible area of a viewport.
type Bounds struct {
	NorthEast geo.Coordinate `json:"north_east" yaml:"north_east"`
	SouthWest geo.Coordinate `json:"south_west" yaml:"south_west"`
}

// NorthWest returns the top-left corner of the bounds.
func (b Bounds) NorthWest() geo.Coordinate {
	return geo.Coordinate{Lat: b.NorthEast.Lat, Lng: b.SouthWest.Lng}
}

// Viewport is the read-only view state of the hosting map.
type Viewport interface {
	Zoom() int
	Center() geo.Coordinate
	Bounds() Bounds
	Projection() Projection
}

// ToScreenPoint returns the pixel within the viewport that shows c.
func ToScreenPoint(v Viewport, c geo.Coordinate) PixelPoint {
	proj := v.Projection()
	scale := math.Exp2(float64(v.Zoom()))

	nw := proj.ToWorld(v.Bounds().NorthWest())
	wc := proj.ToWorld(c)

	return PixelPoint{
		X: int(math.Floor((wc.X - nw.X) * scale)),
		Y: int(math.Floor((wc.Y - nw.Y) * scale)),
	}
}

// ToGeoCoordinate returns the geographic coordinate shown at pixel p.
func ToGeoCoordinate(v Viewport, p PixelPoint) geo.Coordinate {
	proj := v.Projection()
	scale := math.Exp2(float64(v.Zoom()))

	nw := proj.ToWorld(v.Bounds().NorthWest())

	return proj.FromWorld(WorldPoint{
		X: float64(p.X)/scale + nw.X,
		Y: float64(p.Y)/scale + nw.Y,
	})
}
