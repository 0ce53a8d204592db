// Package schedule derives daily fasting and prayer timetables from solar
// events. It layers configuration validation, the high-latitude fallback
// policy and margin bookkeeping on top of the astronomical resolver in
// internal/astro.
package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Location is an observer position in degrees.
type Location struct {
	Latitude  float64 // [-90, 90]
	Longitude float64 // [-180, 180]
}

// HighLatitudeMode selects the scholarly convention used to approximate
// dawn when the configured twilight depression is never reached.
type HighLatitudeMode int

const (
	// HighLatitudeNone disables the fallback; unresolvable days yield no
	// schedule.
	HighLatitudeNone HighLatitudeMode = iota
	// HighLatitudeMiddleOfNight places dawn at the midpoint of the night.
	HighLatitudeMiddleOfNight
	// HighLatitudeOneSeventh places dawn one seventh of the night before
	// sunrise.
	HighLatitudeOneSeventh
	// HighLatitudeAngleBased places dawn angle/60 of the night before
	// sunrise.
	HighLatitudeAngleBased
)

var modeNames = map[HighLatitudeMode]string{
	HighLatitudeNone:          "none",
	HighLatitudeMiddleOfNight: "middle_of_night",
	HighLatitudeOneSeventh:    "one_seventh",
	HighLatitudeAngleBased:    "angle_based",
}

func (m HighLatitudeMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("HighLatitudeMode(%d)", int(m))
}

// ParseHighLatitudeMode maps a mode name to its value. Unknown names are
// rejected rather than defaulted.
func ParseHighLatitudeMode(s string) (HighLatitudeMode, error) {
	for mode, name := range modeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return HighLatitudeNone, &ConfigError{
		Field: "high_latitude_mode",
		Value: s,
		Valid: "one of none, middle_of_night, one_seventh, angle_based",
	}
}

// Tunable limits. Twilight depressions used by the named prayer
// conventions all fall between 10 and 24 degrees.
const (
	DefaultTwilightAngle = 18.0
	MinTwilightAngle     = 10.0
	MaxTwilightAngle     = 24.0

	MinTimeZoneOffsetMin = -720 // UTC-12
	MaxTimeZoneOffsetMin = 840  // UTC+14

	MaxMarginMin = 60
)

// Config carries everything a daily computation needs. It is an immutable
// input; every calculation reads it and allocates only local results.
type Config struct {
	Location          Location
	TimeZoneOffsetMin int // local clock minutes ahead of UTC

	DawnAngleDeg float64 // twilight depression defining dawn
	DuskAngleDeg float64 // twilight depression defining nightfall

	DawnMarginMin int // precautionary minutes before dawn
	DuskDelayMin  int // precautionary minutes after sunset

	HighLatitudeMode HighLatitudeMode
}

// NewConfig returns a Config for the given position with the default
// 18-degree twilight angles, zero margins and no fallback.
func NewConfig(loc Location, tzOffsetMin int) Config {
	return Config{
		Location:          loc,
		TimeZoneOffsetMin: tzOffsetMin,
		DawnAngleDeg:      DefaultTwilightAngle,
		DuskAngleDeg:      DefaultTwilightAngle,
	}
}

// ConfigError reports a configuration field outside its documented range.
type ConfigError struct {
	Field string
	Value any
	Valid string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s = %v, must be %s", e.Field, e.Value, e.Valid)
}

// Validate checks every field against its documented range. All
// violations are reported together. No astronomical work runs on a config
// that fails validation.
func (c Config) Validate() error {
	var errs []error

	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		errs = append(errs, &ConfigError{"latitude", c.Location.Latitude, "in [-90, 90]"})
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		errs = append(errs, &ConfigError{"longitude", c.Location.Longitude, "in [-180, 180]"})
	}
	if c.TimeZoneOffsetMin < MinTimeZoneOffsetMin || c.TimeZoneOffsetMin > MaxTimeZoneOffsetMin {
		errs = append(errs, &ConfigError{"timezone_offset", c.TimeZoneOffsetMin,
			fmt.Sprintf("in [%d, %d] minutes", MinTimeZoneOffsetMin, MaxTimeZoneOffsetMin)})
	}
	if c.DawnAngleDeg < MinTwilightAngle || c.DawnAngleDeg > MaxTwilightAngle {
		errs = append(errs, &ConfigError{"dawn_angle", c.DawnAngleDeg,
			fmt.Sprintf("in [%g, %g] degrees", MinTwilightAngle, MaxTwilightAngle)})
	}
	if c.DuskAngleDeg < MinTwilightAngle || c.DuskAngleDeg > MaxTwilightAngle {
		errs = append(errs, &ConfigError{"dusk_angle", c.DuskAngleDeg,
			fmt.Sprintf("in [%g, %g] degrees", MinTwilightAngle, MaxTwilightAngle)})
	}
	if c.DawnMarginMin < 0 || c.DawnMarginMin > MaxMarginMin {
		errs = append(errs, &ConfigError{"dawn_margin", c.DawnMarginMin,
			fmt.Sprintf("in [0, %d] minutes", MaxMarginMin)})
	}
	if c.DuskDelayMin < 0 || c.DuskDelayMin > MaxMarginMin {
		errs = append(errs, &ConfigError{"dusk_delay", c.DuskDelayMin,
			fmt.Sprintf("in [0, %d] minutes", MaxMarginMin)})
	}
	if _, ok := modeNames[c.HighLatitudeMode]; !ok {
		errs = append(errs, &ConfigError{"high_latitude_mode", int(c.HighLatitudeMode),
			"one of none, middle_of_night, one_seventh, angle_based"})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// IsConfigError reports whether err stems from configuration validation.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
