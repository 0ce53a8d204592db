package astro

import "math"

// SolarCoordinates holds the sun's apparent position parameters for one
// instant: declination in degrees and the equation of time in minutes.
// Declination stays within roughly +/-23.45 degrees and the equation of
// time within roughly +/-20 minutes for any date.
type SolarCoordinates struct {
	DeclinationDeg    float64
	EquationOfTimeMin float64
}

// SunCoordinates computes the sun's apparent declination and the equation
// of time for the given Julian Date using the Meeus low-precision solar
// position series. Valid for several centuries around J2000.
func SunCoordinates(jd float64) SolarCoordinates {
	t := JulianCenturies(jd)

	// Geometric mean longitude and mean anomaly of the sun (degrees).
	l0 := normalize360(280.46646 + t*(36000.76983+t*0.0003032))
	m := normalize360(357.52911 + t*(35999.05029-t*0.0001537))

	// Eccentricity of Earth's orbit.
	e := 0.016708634 - t*(0.000042037+t*0.0000001267)

	// Equation of center.
	c := sinDeg(m)*(1.914602-t*(0.004817+t*0.000014)) +
		sinDeg(2*m)*(0.019993-t*0.000101) +
		sinDeg(3*m)*0.000289

	trueLon := l0 + c

	// Nutation and aberration via the longitude of the ascending node of
	// the lunar orbit.
	omega := 125.04 - 1934.136*t
	lambda := trueLon - 0.00569 - 0.00478*sinDeg(omega)

	// Mean obliquity of the ecliptic (arcsecond polynomial), then the
	// corrected obliquity.
	eps0 := 23.0 + (26.0+(21.448-t*(46.815+t*(0.00059-t*0.001813)))/60.0)/60.0
	eps := eps0 + 0.00256*cosDeg(omega)

	decl := rad2deg(math.Asin(sinDeg(eps) * sinDeg(lambda)))

	// Equation of time, in minutes of time.
	y := tanDeg(eps / 2.0)
	y *= y
	eot := 4.0 * rad2deg(y*sinDeg(2*l0)-
		2*e*sinDeg(m)+
		4*e*y*sinDeg(m)*cosDeg(2*l0)-
		0.5*y*y*sinDeg(4*l0)-
		1.25*e*e*sinDeg(2*m))

	return SolarCoordinates{
		DeclinationDeg:    decl,
		EquationOfTimeMin: eot,
	}
}
