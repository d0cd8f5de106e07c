package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used by all spherical formulas.
const EarthRadiusKm = 6371.0

// DefaultTolerance is the largest overshoot of an acos argument past [-1,1]
// that Intersection absorbs as rounding noise.
const DefaultTolerance = 1e-9

// sines below this are treated as zero when testing for coincident paths
const sinEpsilon = 1e-12

// start points whose latitude cosine falls below this lie on a pole, where
// the bearing towards the other point is undefined
const poleEpsilon = 1e-12

// roundingSlack is the absolute rounding error of the bearing step
// numerators; dividing by the step's denominator gives the overshoot that
// is still rounding noise.
const roundingSlack = 16 * 0x1p-52

// ErrNumericDomain is returned when a formula leaves the domain of an inverse
// trigonometric function and the result would not be a real coordinate.
var ErrNumericDomain = errors.New("numeric domain error")

// BearingTo returns the initial great-circle bearing from one point to
// another, in degrees clockwise from north within [0,360).
func BearingTo(from, to Coordinate) float64 {
	lat1 := toRad(from.Lat)
	lat2 := toRad(to.Lat)
	dLng := toRad(to.Lng - from.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	return math.Mod(toDeg(math.Atan2(y, x))+360, 360)
}

// DestinationPoint returns the point reached by travelling distanceKm from
// origin along a great circle with the given initial bearing in degrees.
//
// A zero distance yields origin unchanged. If the formula produces a
// non-real latitude or longitude the error wraps ErrNumericDomain.
func DestinationPoint(origin Coordinate, bearing, distanceKm float64) (Coordinate, error) {
	if distanceKm == 0 {
		return origin, nil
	}

	dist := distanceKm / EarthRadiusKm
	brng := toRad(bearing)
	lat1 := toRad(origin.Lat)
	lng1 := toRad(origin.Lng)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(dist) +
		math.Cos(lat1)*math.Sin(dist)*math.Cos(brng))
	lng2 := lng1 + math.Atan2(math.Sin(brng)*math.Sin(dist)*math.Cos(lat1),
		math.Cos(dist)-math.Sin(lat1)*math.Sin(lat2))

	if !finite(lat2, lng2) {
		return Coordinate{}, fmt.Errorf("destination from %s bearing %g distance %g km: %w",
			origin, bearing, distanceKm, ErrNumericDomain)
	}

	if lng2 < -math.Pi || lng2 > math.Pi {
		lng2 = normalizeLng(lng2)
	}

	return Coordinate{Lat: toDeg(lat2), Lng: toDeg(lng2)}, nil
}

// MidpointTo returns the point half-way along the great circle between a and b.
func MidpointTo(a, b Coordinate) Coordinate {
	lat1 := toRad(a.Lat)
	lng1 := toRad(a.Lng)
	lat2 := toRad(b.Lat)
	dLng := toRad(b.Lng - a.Lng)

	bx := math.Cos(lat2) * math.Cos(dLng)
	by := math.Cos(lat2) * math.Sin(dLng)

	lat3 := math.Atan2(math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by))
	lng3 := normalizeLng(lng1 + math.Atan2(by, math.Cos(lat1)+bx))

	return Coordinate{Lat: toDeg(lat3), Lng: toDeg(lng3)}
}

// DistanceTo returns the great-circle distance between a and b in kilometers.
func DistanceTo(a, b Coordinate) float64 {
	angle := s2.LatLngFromDegrees(a.Lat, a.Lng).Distance(s2.LatLngFromDegrees(b.Lat, b.Lng))
	return angle.Radians() * EarthRadiusKm
}

// Intersection returns the point where the great-circle path leaving p1 on
// brng1 crosses the path leaving p2 on brng2, using DefaultTolerance.
// See IntersectionWithTolerance.
func Intersection(p1 Coordinate, brng1 float64, p2 Coordinate, brng2 float64) (Coordinate, bool, error) {
	return IntersectionWithTolerance(p1, brng1, p2, brng2, DefaultTolerance)
}

// IntersectionWithTolerance returns the point where two paths, each given
// by a start point and an initial bearing in degrees, intersect.
//
// ok is false, with a nil error, when no unique intersection exists:
// the start points coincide, both paths lie on the same great circle,
// or the paths run away from each other.
//
// Acos arguments overshooting [-1,1] by no more than tol are clamped. The
// bearing step divides by sin(δ12)·cos φ, so its allowance grows by the
// rounding error of that division for start points that are close together
// or nearly antipodal. Larger overshoots wrap ErrNumericDomain. A start
// point on a pole has no defined bearing and also wraps ErrNumericDomain,
// never a no-result.
func IntersectionWithTolerance(p1 Coordinate, brng1 float64, p2 Coordinate, brng2 float64, tol float64) (Coordinate, bool, error) {
	lat1, lng1 := toRad(p1.Lat), toRad(p1.Lng)
	lat2, lng2 := toRad(p2.Lat), toRad(p2.Lng)
	brng13, brng23 := toRad(brng1), toRad(brng2)
	dLat, dLng := lat2-lat1, lng2-lng1

	dist12 := 2 * math.Asin(math.Sqrt(math.Sin(dLat/2)*math.Sin(dLat/2)+
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)))
	if dist12 == 0 {
		return Coordinate{}, false, nil
	}
	if !finite(dist12, brng13, brng23) {
		return Coordinate{}, false, fmt.Errorf("intersection of %s and %s: %w", p1, p2, ErrNumericDomain)
	}

	if math.Abs(math.Cos(lat1)) < poleEpsilon || math.Abs(math.Cos(lat2)) < poleEpsilon {
		return Coordinate{}, false, fmt.Errorf("intersection of %s and %s: start point on a pole: %w",
			p1, p2, ErrNumericDomain)
	}

	// initial/final bearings between points
	denA := math.Sin(dist12) * math.Cos(lat1)
	cosA, err := clampUnit((math.Sin(lat2)-math.Sin(lat1)*math.Cos(dist12))/denA,
		tol+roundingSlack/math.Abs(denA))
	if err != nil {
		return Coordinate{}, false, fmt.Errorf("intersection of %s and %s: initial bearing: %w", p1, p2, err)
	}
	denB := math.Sin(dist12) * math.Cos(lat2)
	cosB, err := clampUnit((math.Sin(lat1)-math.Sin(lat2)*math.Cos(dist12))/denB,
		tol+roundingSlack/math.Abs(denB))
	if err != nil {
		return Coordinate{}, false, fmt.Errorf("intersection of %s and %s: final bearing: %w", p1, p2, err)
	}
	brngA, brngB := math.Acos(cosA), math.Acos(cosB)

	var brng12, brng21 float64
	if math.Sin(lng2-lng1) > 0 {
		brng12 = brngA
		brng21 = 2*math.Pi - brngB
	} else {
		brng12 = 2*math.Pi - brngA
		brng21 = brngB
	}

	alpha1 := math.Mod(brng13-brng12+math.Pi, 2*math.Pi) - math.Pi // angle 2-1-3
	alpha2 := math.Mod(brng21-brng23+math.Pi, 2*math.Pi) - math.Pi // angle 1-2-3
	sin1, sin2 := math.Sin(alpha1), math.Sin(alpha2)

	if math.Abs(sin1) < sinEpsilon && math.Abs(sin2) < sinEpsilon {
		return Coordinate{}, false, nil // infinite intersections
	}
	if sin1*sin2 < 0 {
		return Coordinate{}, false, nil // ambiguous intersection
	}

	cos3, err := clampUnit(-math.Cos(alpha1)*math.Cos(alpha2)+sin1*sin2*math.Cos(dist12), tol)
	if err != nil {
		return Coordinate{}, false, fmt.Errorf("intersection of %s and %s: third angle: %w", p1, p2, err)
	}
	alpha3 := math.Acos(cos3)

	dist13 := math.Atan2(math.Sin(dist12)*sin1*sin2, math.Cos(alpha2)+math.Cos(alpha1)*math.Cos(alpha3))

	lat3 := math.Asin(math.Sin(lat1)*math.Cos(dist13) + math.Cos(lat1)*math.Sin(dist13)*math.Cos(brng13))
	dLng13 := math.Atan2(math.Sin(brng13)*math.Sin(dist13)*math.Cos(lat1),
		math.Cos(dist13)-math.Sin(lat1)*math.Sin(lat3))
	lng3 := normalizeLng(lng1 + dLng13)

	if !finite(lat3, lng3) {
		return Coordinate{}, false, fmt.Errorf("intersection of %s and %s: %w", p1, p2, ErrNumericDomain)
	}

	return Coordinate{Lat: toDeg(lat3), Lng: toDeg(lng3)}, true, nil
}

// clampUnit pulls an acos argument back into [-1,1] when it overshoots by at
// most tol.
func clampUnit(v, tol float64) (float64, error) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0, ErrNumericDomain
	case v > 1:
		if v-1 > tol {
			return 0, fmt.Errorf("acos argument %g: %w", v, ErrNumericDomain)
		}
		return 1, nil
	case v < -1:
		if -1-v > tol {
			return 0, fmt.Errorf("acos argument %g: %w", v, ErrNumericDomain)
		}
		return -1, nil
	}
	return v, nil
}
