// Package geo resolves place names to coordinates and timezone offsets.
//
// It is a collaborator layered above the schedule core: the core only
// ever accepts already-resolved coordinates and offsets and never calls
// into this package.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hamzaghanim/taqwim-api/internal/database"
)

// ErrPlaceNotFound is returned when no gazetteer entry matches a query.
var ErrPlaceNotFound = errors.New("place not found")

// Place is a resolved location: everything the schedule core needs, plus
// the display name.
type Place struct {
	Name          string  `json:"name"`
	Country       string  `json:"country"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Timezone      string  `json:"timezone"`
	OffsetMinutes int     `json:"offset_minutes"`
}

// Resolver turns place names into coordinates and coordinates into area
// names. Implementations may be backed by a local gazetteer or a remote
// geocoding service.
type Resolver interface {
	// ResolvePlace resolves a place name. The reference instant selects
	// the UTC offset (DST-correct for the date being computed).
	ResolvePlace(ctx context.Context, name string, on time.Time) (Place, error)
	// AreaName returns a human-readable name for the area around the
	// given coordinates.
	AreaName(ctx context.Context, lat, lon float64) (string, error)
}

// Gazetteer resolves places from the local SQLite gazetteer.
type Gazetteer struct {
	db     *database.DB
	logger *slog.Logger
}

// NewGazetteer creates a gazetteer-backed resolver.
func NewGazetteer(db *database.DB, logger *slog.Logger) *Gazetteer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gazetteer{db: db, logger: logger}
}

var _ Resolver = (*Gazetteer)(nil)

// ResolvePlace looks up a place by name and evaluates its UTC offset at
// the reference instant.
func (g *Gazetteer) ResolvePlace(ctx context.Context, name string, on time.Time) (Place, error) {
	rec, err := g.db.GetPlaceByName(ctx, name)
	if err != nil {
		if database.IsNotFound(err) {
			return Place{}, fmt.Errorf("%w: %q", ErrPlaceNotFound, name)
		}
		return Place{}, fmt.Errorf("lookup place %q: %w", name, err)
	}

	offset, err := rec.OffsetMinutes(on)
	if err != nil {
		return Place{}, fmt.Errorf("resolve offset for %q: %w", name, err)
	}

	g.logger.Debug("resolved place",
		slog.String("name", rec.Name),
		slog.String("timezone", rec.Timezone),
		slog.Int("offset_minutes", offset),
	)

	return Place{
		Name:          rec.Name,
		Country:       rec.Country,
		Latitude:      rec.Latitude,
		Longitude:     rec.Longitude,
		Timezone:      rec.Timezone,
		OffsetMinutes: offset,
	}, nil
}

// AreaName returns the name of the nearest gazetteer entry.
func (g *Gazetteer) AreaName(ctx context.Context, lat, lon float64) (string, error) {
	rec, err := g.db.NearestPlace(ctx, lat, lon)
	if err != nil {
		if database.IsNotFound(err) {
			return "", ErrPlaceNotFound
		}
		return "", fmt.Errorf("nearest place: %w", err)
	}
	if rec.Country != "" {
		return rec.Name + ", " + rec.Country, nil
	}
	return rec.Name, nil
}
