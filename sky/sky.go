package sky

import "math"

// Hammer projects a longitude/latitude pair (radians, lon in [-pi, pi]) onto the
// Hammer-Aitoff ellipse, x in [-2*sqrt2, 2*sqrt2] and y in [-sqrt2, sqrt2].
func Hammer(lon, lat float64) (x, y float64) {
	z := math.Sqrt(1 + math.Cos(lat)*math.Cos(lon/2))
	x = 2 * math.Sqrt2 * math.Cos(lat) * math.Sin(lon/2) / z
	y = math.Sqrt2 * math.Sin(lat) / z
	return x, y
}
