package projection

import (
	"math"
	"testing"

	"github.com/woozymasta/mapgeo/internal/geo"
)

func TestEstimateScale(t *testing.T) {
	v := mustViewport(t, geo.Coordinate{Lat: 10, Lng: 10}, 3, 100, 100)

	got := EstimateScale(v, ScaleOptions{}.WithZoom(14).WithLat(25.774252).WithFixed(6))
	if got != 7.655102 {
		t.Fatalf("EstimateScale = %v, want 7.655102", got)
	}
}

func TestEstimateScaleDefaultsToViewport(t *testing.T) {
	v := mustViewport(t, miami, 14, 200, 200)

	want := EarthCircumference * math.Cos(miami.Lat) / math.Exp2(22)
	if got := EstimateScale(v, ScaleOptions{}); !near(got, want, 1e-12) {
		t.Fatalf("EstimateScale = %v, want %v", got, want)
	}

	// each zoom level halves the scale
	z13 := EstimateScale(v, ScaleOptions{}.WithZoom(13))
	if !near(z13, 2*want, 1e-12) {
		t.Fatalf("EstimateScale at zoom 13 = %v, want %v", z13, 2*want)
	}
}

func TestEstimateScaleWithoutViewport(t *testing.T) {
	got := EstimateScale(nil, ScaleOptions{}.WithZoom(0).WithLat(0))
	if got != EarthCircumference/256.0 {
		t.Fatalf("EstimateScale = %v, want %v", got, EarthCircumference/256.0)
	}
}

func TestEstimateScaleFixed(t *testing.T) {
	opt := ScaleOptions{}.WithZoom(0).WithLat(0)

	cases := []struct {
		digits int
		want   float64
	}{
		{0, 156543},
		{2, 156543.13}, // 156543.125 is an exact tie
		{-1, EarthCircumference / 256.0},
	}

	for _, tc := range cases {
		if got := EstimateScale(nil, opt.WithFixed(tc.digits)); got != tc.want {
			t.Fatalf("EstimateScale fixed %d = %v, want %v", tc.digits, got, tc.want)
		}
	}
}

func TestScaleOptionsMerge(t *testing.T) {
	defaults := ScaleOptions{}.WithZoom(5).WithFixed(2)
	got := ScaleOptions{}.WithZoom(9).Merge(defaults)

	if got.Zoom == nil || *got.Zoom != 9 {
		t.Fatalf("Zoom = %v, want 9", got.Zoom)
	}
	if got.Fixed == nil || *got.Fixed != 2 {
		t.Fatalf("Fixed = %v, want 2", got.Fixed)
	}
	if got.Lat != nil {
		t.Fatalf("Lat = %v, want nil", *got.Lat)
	}
}

func TestRoundFixed(t *testing.T) {
	cases := []struct {
		x      float64
		digits int
		want   float64
	}{
		{1.005, 2, 1}, // 1.005 is stored just below the tie
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{0.125, 2, 0.13},
		{7.6551022957938555, 6, 7.655102},
		{123.456, 200, 123.456},
	}

	for _, tc := range cases {
		if got := roundFixed(tc.x, tc.digits); got != tc.want {
			t.Fatalf("roundFixed(%v, %d) = %v, want %v", tc.x, tc.digits, got, tc.want)
		}
	}
}
