package weather

import "math"

var windDirections = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WindDirection maps degrees to a 16-point compass label. Each label covers the
// 22.5 degree sector starting at its own bearing; 360 wraps to N.
func WindDirection(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}

	x := deg/22.5 + 0.5
	if x >= 16 {
		x = 1
	}
	return windDirections[int(math.Round(x))-1]
}
