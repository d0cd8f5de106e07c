package projection

import (
	"fmt"
	"math"

	"github.com/woozymasta/mapgeo/internal/geo"
)

// MaxZoom is the deepest zoom level a StaticViewport accepts.
const MaxZoom = 30

// StaticViewport is an immutable Viewport, useful outside of a live map
// widget (CLI, batch jobs, tests).
type StaticViewport struct {
	proj   Projection
	center geo.Coordinate
	bounds Bounds
	zoom   int
}

// NewViewport builds a viewport of width x height pixels centered on center.
// The bounds are derived from the projection at the given zoom.
func NewViewport(proj Projection, center geo.Coordinate, zoom, width, height int) (StaticViewport, error) {
	if err := checkZoom(zoom); err != nil {
		return StaticViewport{}, err
	}
	if width <= 0 || height <= 0 {
		return StaticViewport{}, fmt.Errorf("viewport size %dx%d: must be positive", width, height)
	}
	if !center.Valid() {
		return StaticViewport{}, fmt.Errorf("viewport center %s: out of range", center)
	}

	scale := math.Exp2(float64(zoom))
	wc := proj.ToWorld(center)
	halfW := float64(width) / 2 / scale
	halfH := float64(height) / 2 / scale

	return StaticViewport{
		proj:   proj,
		center: center,
		zoom:   zoom,
		bounds: Bounds{
			NorthEast: proj.FromWorld(WorldPoint{X: wc.X + halfW, Y: wc.Y - halfH}),
			SouthWest: proj.FromWorld(WorldPoint{X: wc.X - halfW, Y: wc.Y + halfH}),
		},
	}, nil
}

// NewViewportFromBounds builds a viewport showing bounds at the given zoom.
// The center is the middle of the bounds in world space.
func NewViewportFromBounds(proj Projection, bounds Bounds, zoom int) (StaticViewport, error) {
	if err := checkZoom(zoom); err != nil {
		return StaticViewport{}, err
	}
	if !bounds.NorthEast.Valid() || !bounds.SouthWest.Valid() {
		return StaticViewport{}, fmt.Errorf("viewport bounds %s/%s: out of range", bounds.NorthEast, bounds.SouthWest)
	}
	if bounds.NorthEast.Lat < bounds.SouthWest.Lat {
		return StaticViewport{}, fmt.Errorf("viewport bounds: north-east %s lies south of south-west %s",
			bounds.NorthEast, bounds.SouthWest)
	}

	ne := proj.ToWorld(bounds.NorthEast)
	sw := proj.ToWorld(bounds.SouthWest)

	return StaticViewport{
		proj:   proj,
		center: proj.FromWorld(WorldPoint{X: (ne.X + sw.X) / 2, Y: (ne.Y + sw.Y) / 2}),
		zoom:   zoom,
		bounds: bounds,
	}, nil
}

func checkZoom(zoom int) error {
	if zoom < 0 || zoom > MaxZoom {
		return fmt.Errorf("zoom %d: must be within [0,%d]", zoom, MaxZoom)
	}
	return nil
}

// Zoom implements Viewport.
func (v StaticViewport) Zoom() int { return v.zoom }

// Center implements Viewport.
func (v StaticViewport) Center() geo.Coordinate { return v.center }

// Bounds implements Viewport.
func (v StaticViewport) Bounds() Bounds { return v.bounds }

// Projection implements Viewport.
func (v StaticViewport) Projection() Projection { return v.proj }

// Size returns the viewport dimensions in pixels, rounded to whole pixels.
func (v StaticViewport) Size() (width, height int) {
	scale := math.Exp2(float64(v.zoom))
	ne := v.proj.ToWorld(v.bounds.NorthEast)
	sw := v.proj.ToWorld(v.bounds.SouthWest)

	return int(math.Round((ne.X - sw.X) * scale)), int(math.Round((sw.Y - ne.Y) * scale))
}
