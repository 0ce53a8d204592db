package astro

import (
	"math"
	"time"
)

// HorizonAltitude is the sun-centre altitude in degrees at which the upper
// limb touches the horizon under standard refraction: -50 arcminutes.
const HorizonAltitude = -0.833

// Branch selects which of the two daily crossings of a target altitude is
// wanted: the one before solar transit or the one after.
type Branch int

const (
	// Morning selects the crossing before solar transit (rising sun).
	Morning Branch = iota
	// Evening selects the crossing after solar transit (setting sun).
	Evening
)

// Result holds the outcome of an event search: the instant of the event
// and whether one exists at all on the day in question.
type Result struct {
	Time time.Time
	OK   bool
}

// NoonUTC returns the universal-time instant corresponding to 12:00 on
// the local clock for the given civil date at a fixed offset from UTC.
// This is a clock convention, not the physical solar noon; SolarTransit
// refines it with the longitude and equation-of-time corrections.
func NoonUTC(year int, month time.Month, day int, tzOffsetMin int) time.Time {
	noon := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return noon.Add(-time.Duration(tzOffsetMin) * time.Minute)
}

// longitudeCorrection converts the observer's position and clock
// convention into an offset in minutes from the assumed-noon reference.
// Each degree of longitude is four minutes of time.
func longitudeCorrection(lonDeg float64, tzOffsetMin int) float64 {
	return lonDeg*4.0 - float64(tzOffsetMin)
}

// SolarTransit returns the instant the sun crosses the local meridian on
// the day anchored by noonUTC. Always defined.
func SolarTransit(noonUTC time.Time, lonDeg float64, tzOffsetMin int) time.Time {
	coords := SunCoordinates(JulianDate(noonUTC))
	offsetMin := -longitudeCorrection(lonDeg, tzOffsetMin) - coords.EquationOfTimeMin
	return addMinutes(noonUTC, offsetMin)
}

// TimeAtAltitude returns the instant at which the sun's centre crosses
// altitudeDeg on the morning or evening branch of the day anchored by
// noonUTC, for an observer at latDeg/lonDeg whose clock runs tzOffsetMin
// minutes ahead of UTC. Result.OK is false when the altitude is never
// reached that day.
func TimeAtAltitude(noonUTC time.Time, latDeg, lonDeg float64, tzOffsetMin int, altitudeDeg float64, branch Branch) Result {
	coords := SunCoordinates(JulianDate(noonUTC))

	h, ok := HourAngle(altitudeDeg, coords.DeclinationDeg, latDeg)
	if !ok {
		return Result{}
	}
	if branch == Morning {
		h = -h
	}

	offsetMin := h*4.0 - longitudeCorrection(lonDeg, tzOffsetMin) - coords.EquationOfTimeMin
	return Result{Time: addMinutes(noonUTC, offsetMin), OK: true}
}

// Dawn returns the morning twilight crossing at angleDeg below the horizon.
func Dawn(noonUTC time.Time, latDeg, lonDeg float64, tzOffsetMin int, angleDeg float64) Result {
	return TimeAtAltitude(noonUTC, latDeg, lonDeg, tzOffsetMin, -angleDeg, Morning)
}

// Dusk returns the evening twilight crossing at angleDeg below the horizon.
func Dusk(noonUTC time.Time, latDeg, lonDeg float64, tzOffsetMin int, angleDeg float64) Result {
	return TimeAtAltitude(noonUTC, latDeg, lonDeg, tzOffsetMin, -angleDeg, Evening)
}

// Sunrise returns the standard sunrise (upper limb on the horizon).
func Sunrise(noonUTC time.Time, latDeg, lonDeg float64, tzOffsetMin int) Result {
	return TimeAtAltitude(noonUTC, latDeg, lonDeg, tzOffsetMin, HorizonAltitude, Morning)
}

// Sunset returns the standard sunset (upper limb on the horizon).
func Sunset(noonUTC time.Time, latDeg, lonDeg float64, tzOffsetMin int) Result {
	return TimeAtAltitude(noonUTC, latDeg, lonDeg, tzOffsetMin, HorizonAltitude, Evening)
}

// addMinutes shifts t by a fractional number of minutes, rounded to the
// nearest second to avoid nanosecond noise in downstream arithmetic.
func addMinutes(t time.Time, minutes float64) time.Time {
	sec := math.Round(minutes * 60.0)
	return t.Add(time.Duration(sec) * time.Second)
}
