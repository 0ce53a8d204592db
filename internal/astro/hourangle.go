package astro

import "math"

// HourAngle returns the hour angle in degrees (>= 0) at which the sun
// reaches altitudeDeg for an observer at latitudeDeg, given the sun's
// declination. Negative altitudes are below the horizon.
//
// When the required cosine falls outside [-1, 1] the sun never reaches
// that altitude on the day in question (polar day or polar night) and the
// second return value is false. That boundary is exact, not an
// approximation.
func HourAngle(altitudeDeg, declinationDeg, latitudeDeg float64) (float64, bool) {
	cosH := (sinDeg(altitudeDeg) - sinDeg(latitudeDeg)*sinDeg(declinationDeg)) /
		(cosDeg(latitudeDeg) * cosDeg(declinationDeg))
	if cosH < -1.0 || cosH > 1.0 {
		return 0, false
	}
	return rad2deg(math.Acos(cosH)), true
}
