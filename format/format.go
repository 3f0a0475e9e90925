package format

import "math"

// FixFloatingPoint rounds n to three decimal places. NaN is returned unchanged.
func FixFloatingPoint(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return n
	}
	return math.Round(n*1000) / 1000
}
