package projection

import (
	"math"
	"testing"

	"github.com/woozymasta/mapgeo/internal/geo"
)

var miami = geo.Coordinate{Lat: 25.774252, Lng: -80.190262}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func mustViewport(t *testing.T, center geo.Coordinate, zoom, width, height int) StaticViewport {
	t.Helper()

	v, err := NewViewport(WebMercator{}, center, zoom, width, height)
	if err != nil {
		t.Fatalf("NewViewport: %v", err)
	}
	return v
}

func TestWebMercator(t *testing.T) {
	var proj WebMercator

	origin := proj.ToWorld(geo.Coordinate{})
	if !near(origin.X, 128, 1e-12) || !near(origin.Y, 128, 1e-12) {
		t.Fatalf("ToWorld(0,0) = %+v, want (128,128)", origin)
	}

	edge := proj.ToWorld(geo.Coordinate{Lat: 0, Lng: 180})
	if !near(edge.X, TileSize, 1e-12) {
		t.Fatalf("ToWorld(0,180).X = %v, want %v", edge.X, TileSize)
	}

	for _, c := range []geo.Coordinate{miami, {Lat: -33.8688, Lng: 151.2093}, {Lat: 84.9, Lng: -179.9}, {Lat: -60, Lng: 0}} {
		back := proj.FromWorld(proj.ToWorld(c))
		if !near(back.Lat, c.Lat, 1e-9) || !near(back.Lng, c.Lng, 1e-9) {
			t.Fatalf("FromWorld(ToWorld(%s)) = %s", c, back)
		}
	}

	if top := proj.FromWorld(WorldPoint{X: 0, Y: -10}); top.Lat != MaxLat {
		t.Fatalf("FromWorld above the world = %s, want latitude clamped to %v", top, MaxLat)
	}
}

func TestNorthWestCornerIsOrigin(t *testing.T) {
	cases := []struct {
		center        geo.Coordinate
		zoom          int
		width, height int
	}{
		{miami, 14, 200, 200},
		{geo.Coordinate{Lat: -33.8688, Lng: 151.2093}, 3, 1024, 768},
		{geo.Coordinate{}, 0, 256, 256},
		{geo.Coordinate{Lat: 60, Lng: 10}, 20, 1, 1},
	}

	for _, tc := range cases {
		v := mustViewport(t, tc.center, tc.zoom, tc.width, tc.height)
		if got := ToScreenPoint(v, v.Bounds().NorthWest()); got != (PixelPoint{}) {
			t.Fatalf("ToScreenPoint(north-west) at zoom %d = %+v, want (0,0)", tc.zoom, got)
		}
	}
}

func TestScreenCenter(t *testing.T) {
	v := mustViewport(t, miami, 14, 200, 200)

	got := ToGeoCoordinate(v, PixelPoint{X: 100, Y: 100})
	if !near(got.Lat, miami.Lat, 1e-6) || !near(got.Lng, miami.Lng, 1e-6) {
		t.Fatalf("ToGeoCoordinate(100,100) = %s, want %s", got, miami)
	}

	p := ToScreenPoint(v, miami)
	if p.X < 99 || p.X > 100 || p.Y < 99 || p.Y > 100 {
		t.Fatalf("ToScreenPoint(center) = %+v, want (100,100)", p)
	}

	if w, h := v.Size(); w != 200 || h != 200 {
		t.Fatalf("Size() = %dx%d, want 200x200", w, h)
	}
}

func TestScreenRoundTrip(t *testing.T) {
	// at zoom 28 a pixel spans a few nanodegrees
	v := mustViewport(t, miami, 28, 800, 600)

	offsets := []geo.Coordinate{{}, {Lat: 1e-5, Lng: -1e-5}, {Lat: -2e-5, Lng: 3e-5}, {Lat: 4e-6, Lng: 7e-6}}
	for _, off := range offsets {
		c := geo.Coordinate{Lat: miami.Lat + off.Lat, Lng: miami.Lng + off.Lng}
		back := ToGeoCoordinate(v, ToScreenPoint(v, c))
		if !near(back.Lat, c.Lat, 1e-6) || !near(back.Lng, c.Lng, 1e-6) {
			t.Fatalf("round trip of %s = %s", c, back)
		}
	}
}

func TestScreenRoundTripWithinPixel(t *testing.T) {
	v := mustViewport(t, geo.Coordinate{Lat: 48.8566, Lng: 2.3522}, 12, 1024, 768)

	// one pixel at zoom 12 is 360/(256*4096) degrees of longitude
	pixelDeg := 360.0 / (TileSize * 4096)

	for _, c := range []geo.Coordinate{v.Center(), {Lat: 48.9, Lng: 2.3}, {Lat: 48.8, Lng: 2.5}} {
		p := ToScreenPoint(v, c)
		back := ToGeoCoordinate(v, p)
		if !near(back.Lng, c.Lng, pixelDeg) || !near(back.Lat, c.Lat, pixelDeg) {
			t.Fatalf("round trip of %s via %+v = %s", c, p, back)
		}
	}
}

func TestScreenAxes(t *testing.T) {
	v := mustViewport(t, miami, 10, 500, 500)

	east := ToScreenPoint(v, geo.Coordinate{Lat: miami.Lat, Lng: miami.Lng + 0.1})
	south := ToScreenPoint(v, geo.Coordinate{Lat: miami.Lat - 0.1, Lng: miami.Lng})
	center := ToScreenPoint(v, miami)

	if east.X <= center.X {
		t.Fatalf("east point %+v is not right of center %+v", east, center)
	}
	if south.Y <= center.Y {
		t.Fatalf("south point %+v is not below center %+v", south, center)
	}
}

func TestNewViewportFromBounds(t *testing.T) {
	src := mustViewport(t, miami, 14, 640, 480)

	v, err := NewViewportFromBounds(WebMercator{}, src.Bounds(), 14)
	if err != nil {
		t.Fatalf("NewViewportFromBounds: %v", err)
	}
	if !near(v.Center().Lat, miami.Lat, 1e-9) || !near(v.Center().Lng, miami.Lng, 1e-9) {
		t.Fatalf("Center() = %s, want %s", v.Center(), miami)
	}
	if w, h := v.Size(); w != 640 || h != 480 {
		t.Fatalf("Size() = %dx%d, want 640x480", w, h)
	}

	flipped := Bounds{NorthEast: src.Bounds().SouthWest, SouthWest: src.Bounds().NorthEast}
	if _, err := NewViewportFromBounds(WebMercator{}, flipped, 14); err == nil {
		t.Fatal("expected error for inverted bounds")
	}
}

func TestNewViewportErrors(t *testing.T) {
	cases := []struct {
		name          string
		center        geo.Coordinate
		zoom          int
		width, height int
	}{
		{"negative zoom", miami, -1, 10, 10},
		{"zoom too deep", miami, MaxZoom + 1, 10, 10},
		{"zero width", miami, 1, 0, 10},
		{"negative height", miami, 1, 10, -5},
		{"invalid center", geo.Coordinate{Lat: 95}, 1, 10, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewViewport(WebMercator{}, tc.center, tc.zoom, tc.width, tc.height); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
