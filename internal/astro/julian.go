// Package astro computes solar event times from first principles.
//
// The pipeline runs strictly downward: a civil instant becomes a Julian
// Date, the Julian Date yields the sun's declination and the equation of
// time, and the hour-angle inversion turns a target solar altitude into a
// clock-time offset from local solar noon. Every function is a pure
// transformation of its arguments; nothing here caches or mutates shared
// state, so all of it is safe to call concurrently.
//
// Accuracy is bounded by the low-precision series used (about 0.01 degrees
// in declination and 0.1 minutes in the equation of time), which keeps
// event times within one to two minutes of higher-order ephemerides.
package astro

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// j2000 is the Julian Date of the J2000.0 epoch (2000-01-01 12:00 TT).
const j2000 = 2451545.0

// JulianDate converts a civil instant to a continuous Julian Date.
// The instant is interpreted on the UTC axis.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// JulianCenturies returns the number of Julian centuries between jd and
// the J2000.0 epoch.
func JulianCenturies(jd float64) float64 {
	return (jd - j2000) / 36525.0
}
