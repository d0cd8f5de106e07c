package geo

import "math"

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// normalizeLng wraps a longitude in radians into [-PI, PI).
func normalizeLng(rad float64) float64 {
	return math.Mod(rad+3*math.Pi, 2*math.Pi) - math.Pi
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
