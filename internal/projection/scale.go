package projection

import (
	"math"
	"math/big"
)

// EarthCircumference is the equatorial circumference in meters.
const EarthCircumference = 40075040

// maxFixedDigits bounds ScaleOptions.Fixed.
const maxFixedDigits = 100

// ScaleOptions overrides the viewport state used by EstimateScale.
// Nil fields fall back to the viewport.
type ScaleOptions struct {
	Zoom  *int     `json:"zoom,omitempty" yaml:"zoom,omitempty"`
	Lat   *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Fixed *int     `json:"fixed,omitempty" yaml:"fixed,omitempty"`
}

// WithZoom returns a copy of o computing the scale at zoom.
func (o ScaleOptions) WithZoom(zoom int) ScaleOptions {
	o.Zoom = &zoom
	return o
}

// WithLat returns a copy of o computing the scale at latitude lat.
func (o ScaleOptions) WithLat(lat float64) ScaleOptions {
	o.Lat = &lat
	return o
}

// WithFixed returns a copy of o rounding the scale to digits decimal places.
func (o ScaleOptions) WithFixed(digits int) ScaleOptions {
	o.Fixed = &digits
	return o
}

// Merge returns o with nil fields filled from defaults.
func (o ScaleOptions) Merge(defaults ScaleOptions) ScaleOptions {
	if o.Zoom == nil {
		o.Zoom = defaults.Zoom
	}
	if o.Lat == nil {
		o.Lat = defaults.Lat
	}
	if o.Fixed == nil {
		o.Fixed = defaults.Fixed
	}
	return o
}

// EstimateScale returns the map scale in meters per pixel.
//
// Zoom and latitude come from the viewport unless overridden in opt; v may be
// nil when both are overridden. The latitude is passed to cos as given, which
// is what the published reference values (7.655102 m/px at zoom 14, latitude
// 25.774252) are computed with.
func EstimateScale(v Viewport, opt ScaleOptions) float64 {
	var zoom int
	if opt.Zoom != nil {
		zoom = *opt.Zoom
	} else {
		zoom = v.Zoom()
	}

	var lat float64
	if opt.Lat != nil {
		lat = *opt.Lat
	} else {
		lat = v.Center().Lat
	}

	scale := EarthCircumference * math.Cos(lat) / math.Exp2(float64(zoom+8))

	if opt.Fixed != nil && *opt.Fixed >= 0 {
		scale = roundFixed(scale, *opt.Fixed)
	}

	return scale
}

// roundFixed rounds x to digits decimal places. Exact ties round away from
// zero, computed on the exact binary value of x.
func roundFixed(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	if digits > maxFixedDigits {
		digits = maxFixedDigits
	}

	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)

	// 2048 bits hold the product of a float64 mantissa and 10^100 exactly
	scaled := new(big.Float).SetPrec(2048).SetFloat64(math.Abs(x))
	scaled.Mul(scaled, new(big.Float).SetPrec(2048).SetInt(pow))

	n, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(2048).Sub(scaled, new(big.Float).SetPrec(2048).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	r, _ := new(big.Rat).SetFrac(n, pow).Float64()
	if x < 0 {
		r = -r
	}
	return r
}
