package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
)

const placeColumns = "id, name, country, latitude, longitude, timezone"

func scanPlace(row interface{ Scan(...any) error }) (*Place, error) {
	var p Place
	err := row.Scan(&p.ID, &p.Name, &p.Country, &p.Latitude, &p.Longitude, &p.Timezone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan place: %w", err)
	}
	return &p, nil
}

// GetPlaceByName returns the place matching name case-insensitively.
// When several countries share the name the lexically first country wins;
// disambiguate with "name, country" (e.g. "Birmingham, GB").
func (db *DB) GetPlaceByName(ctx context.Context, name string) (*Place, error) {
	name = strings.TrimSpace(name)
	country := ""
	if i := strings.LastIndex(name, ","); i >= 0 {
		country = strings.TrimSpace(name[i+1:])
		name = strings.TrimSpace(name[:i])
	}

	query := "SELECT " + placeColumns + " FROM places WHERE name = ?"
	args := []any{name}
	if country != "" {
		query += " AND country = ? COLLATE NOCASE"
		args = append(args, country)
	}
	query += " ORDER BY country LIMIT 1"

	return scanPlace(db.QueryRowContext(ctx, query, args...))
}

// SearchPlaces returns up to limit places whose name starts with prefix,
// ordered by name.
func (db *DB) SearchPlaces(ctx context.Context, prefix string, limit int) ([]Place, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+placeColumns+" FROM places WHERE name LIKE ? ORDER BY name, country LIMIT ?",
		strings.TrimSpace(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	defer rows.Close()

	var places []Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}
	return places, nil
}

// NearestPlace returns the gazetteer entry closest to the given
// coordinates. Distance is compared on an equirectangular approximation,
// which is adequate for picking a nearby named area.
func (db *DB) NearestPlace(ctx context.Context, lat, lon float64) (*Place, error) {
	// Longitude differences are weighted by cos^2 of the query latitude.
	row := db.QueryRowContext(ctx, `
		SELECT `+placeColumns+`
		FROM places
		ORDER BY (latitude - ?1) * (latitude - ?1) +
		         (longitude - ?2) * (longitude - ?2) * ?3
		LIMIT 1`,
		lat, lon, cosSq(lat))
	return scanPlace(row)
}

// cosSq returns cos^2 of the angle in degrees, clamped away from zero so
// polar queries still order sensibly.
func cosSq(deg float64) float64 {
	c := math.Cos(deg * math.Pi / 180)
	if c*c < 0.01 {
		return 0.01
	}
	return c * c
}

// UpsertPlace inserts or updates a place keyed on (name, country).
func (db *DB) UpsertPlace(ctx context.Context, tx *sql.Tx, p *Place) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO places (name, country, latitude, longitude, timezone)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name, country) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			timezone = excluded.timezone,
			updated_at = datetime('now')`,
		p.Name, p.Country, p.Latitude, p.Longitude, p.Timezone)
	if err != nil {
		return fmt.Errorf("upsert place %q: %w", p.Name, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		p.ID = id
	}
	return nil
}

// CountPlaces returns the number of gazetteer entries.
func (db *DB) CountPlaces(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM places").Scan(&n); err != nil {
		return 0, fmt.Errorf("count places: %w", err)
	}
	return n, nil
}
