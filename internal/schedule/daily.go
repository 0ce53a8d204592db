package schedule

import (
	"math"
	"time"

	"github.com/hamzaghanim/taqwim-api/internal/astro"
)

// DaySchedule holds the resolved instants for one civil date. All times
// are on the UTC axis; rendering at the configured offset is a display
// concern. A schedule is produced fresh per (date, config) pair and never
// mutated afterwards.
type DaySchedule struct {
	Date time.Time // civil date, midnight UTC

	Dawn      time.Time // sun at the dawn twilight depression, rising
	DawnStart time.Time // Dawn minus the configured margin
	Sunrise   time.Time
	Transit   time.Time // true solar noon
	Sunset    time.Time
	Dusk      time.Time // Sunset plus the configured delay
	Night     time.Time // sun at the dusk twilight depression, setting

	FastingMinutes  int  // whole minutes from DawnStart to Dusk
	FallbackApplied bool // true when the high-latitude policy supplied dawn or night
}

// DayResult is the two-variant outcome of a daily computation: either a
// schedule or the no-solution marker for days the configured events
// cannot be resolved.
type DayResult struct {
	Date     time.Time
	Schedule DaySchedule
	OK       bool
}

// sunriseStandIn is the pinned offset used when dawn resolves but the
// horizon crossing does not. It is a behavioral compatibility constant,
// not a physical result.
const sunriseStandIn = 90 * time.Minute

// ComputeDaily resolves the schedule for one civil date. The date's
// year, month and day are used as given; time-of-day components are
// ignored. A ConfigError is returned before any astronomy runs; an
// unresolvable day is reported through DayResult.OK, not as an error.
func ComputeDaily(date time.Time, cfg Config) (DayResult, error) {
	if err := cfg.Validate(); err != nil {
		return DayResult{}, err
	}
	return computeDay(date, cfg), nil
}

// computeDay assumes cfg has been validated.
func computeDay(date time.Time, cfg Config) DayResult {
	year, month, day := date.Date()
	civil := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	lat := cfg.Location.Latitude
	lon := cfg.Location.Longitude
	tz := cfg.TimeZoneOffsetMin

	noon := astro.NoonUTC(year, month, day, tz)
	transit := astro.SolarTransit(noon, lon, tz)
	dawn := astro.Dawn(noon, lat, lon, tz, cfg.DawnAngleDeg)
	night := astro.Dusk(noon, lat, lon, tz, cfg.DuskAngleDeg)
	rise := astro.Sunrise(noon, lat, lon, tz)
	set := astro.Sunset(noon, lat, lon, tz)

	fallback := false
	if !dawn.OK || !night.OK {
		if cfg.HighLatitudeMode == HighLatitudeNone {
			return DayResult{Date: civil}
		}
		var ok bool
		dawn, night, ok = applyFallback(civil, cfg, dawn, night, rise, set)
		if !ok {
			return DayResult{Date: civil}
		}
		fallback = true
	}

	if !set.OK {
		// Sun below the horizon all day; nothing to anchor the evening on.
		return DayResult{Date: civil}
	}
	if !rise.OK {
		// Near the threshold latitude dawn can resolve while the horizon
		// crossing does not; substitute the pinned stand-in.
		rise = astro.Result{Time: dawn.Time.Add(sunriseStandIn), OK: true}
	}

	dawnStart := dawn.Time.Add(-time.Duration(cfg.DawnMarginMin) * time.Minute)
	dusk := set.Time.Add(time.Duration(cfg.DuskDelayMin) * time.Minute)

	// In the fallback frame dawn can land after sunset (it belongs to the
	// night that follows this date); measure the fast on the clock circle.
	span := dusk.Sub(dawnStart)
	if span < 0 {
		span += 24 * time.Hour
	}

	return DayResult{
		Date: civil,
		Schedule: DaySchedule{
			Date:            civil,
			Dawn:            dawn.Time,
			DawnStart:       dawnStart,
			Sunrise:         rise.Time,
			Transit:         transit,
			Sunset:          set.Time,
			Dusk:            dusk,
			Night:           night.Time,
			FastingMinutes:  int(math.Round(span.Minutes())),
			FallbackApplied: fallback,
		},
		OK: true,
	}
}
