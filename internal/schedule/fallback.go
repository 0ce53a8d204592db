package schedule

import (
	"time"

	"github.com/hamzaghanim/taqwim-api/internal/astro"
)

// applyFallback substitutes dawn and nightfall when the twilight
// depression is never reached. The night span runs from this day's sunset
// to the following day's sunrise; every mode leaves the evening boundary
// at the directly computed sunset and only approximates dawn.
//
// The third return value is false when the inputs the policy needs are
// themselves unobtainable (continuous daylight or darkness), in which
// case the day has no schedule.
func applyFallback(civil time.Time, cfg Config, dawn, night, rise, set astro.Result) (astro.Result, astro.Result, bool) {
	if !set.OK {
		return dawn, night, false
	}

	next := civil.AddDate(0, 0, 1)
	nextNoon := astro.NoonUTC(next.Year(), next.Month(), next.Day(), cfg.TimeZoneOffsetMin)
	nextRise := astro.Sunrise(nextNoon, cfg.Location.Latitude, cfg.Location.Longitude, cfg.TimeZoneOffsetMin)
	if !nextRise.OK {
		return dawn, night, false
	}

	nightSpan := nextRise.Time.Sub(set.Time)

	if !dawn.OK {
		switch cfg.HighLatitudeMode {
		case HighLatitudeMiddleOfNight:
			dawn = astro.Result{Time: set.Time.Add(nightSpan / 2), OK: true}
		case HighLatitudeOneSeventh:
			if !rise.OK {
				return dawn, night, false
			}
			dawn = astro.Result{Time: rise.Time.Add(-nightSpan / 7), OK: true}
		case HighLatitudeAngleBased:
			if !rise.OK {
				return dawn, night, false
			}
			back := time.Duration(float64(nightSpan) * cfg.DawnAngleDeg / 60.0)
			dawn = astro.Result{Time: rise.Time.Add(-back), OK: true}
		default:
			return dawn, night, false
		}
	}

	if !night.OK {
		night = set
	}

	return dawn, night, true
}
