package astro

import "math"

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }

func rad2deg(r float64) float64 { return r * 180.0 / math.Pi }

func sinDeg(d float64) float64 { return math.Sin(deg2rad(d)) }

func cosDeg(d float64) float64 { return math.Cos(deg2rad(d)) }

func tanDeg(d float64) float64 { return math.Tan(deg2rad(d)) }

// normalize360 reduces an angle in degrees to [0, 360).
func normalize360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}
