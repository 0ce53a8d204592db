package database

import (
	"fmt"
	"time"
)

// Place is one gazetteer entry: a named location with coordinates and an
// IANA timezone.
type Place struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"` // IANA zone name, e.g. "Europe/London"
}

// OffsetMinutes returns the place's UTC offset in minutes at the given
// reference instant, so DST transitions are reflected for the date being
// computed.
func (p *Place) OffsetMinutes(on time.Time) (int, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return 0, fmt.Errorf("load timezone %q: %w", p.Timezone, err)
	}
	_, offsetSec := on.In(loc).Zone()
	return offsetSec / 60, nil
}
