package database

// migrationsSQL contains all database migrations, applied in order by
// version number.
var migrationsSQL = map[int]string{
	1: migrationV1Places,
	2: migrationV2SeedPlaces,
}

// migrationV1Places creates the gazetteer schema.
//
// Design notes:
//   - Coordinates are stored in degrees; latitude [-90, 90], longitude
//     [-180, 180], matching what the schedule core accepts.
//   - The timezone column holds an IANA zone name ("Europe/London"), not a
//     fixed offset. The offset for a given reference date is evaluated at
//     lookup time so DST is handled correctly.
//   - name is unique case-insensitively; lookups are by name or prefix.
const migrationV1Places = `
-- Migration 001: place gazetteer

CREATE TABLE places (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL COLLATE NOCASE,
    country    TEXT NOT NULL DEFAULT '',
    latitude   REAL NOT NULL CHECK (latitude  BETWEEN -90  AND 90),
    longitude  REAL NOT NULL CHECK (longitude BETWEEN -180 AND 180),
    timezone   TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (name, country)
);

CREATE INDEX idx_places_name ON places(name COLLATE NOCASE);
CREATE INDEX idx_places_coords ON places(latitude, longitude);
`

// migrationV2SeedPlaces loads a starter set of cities so the API is
// usable before any bulk import. Additional places come from cmd/import.
const migrationV2SeedPlaces = `
-- Migration 002: seed places

INSERT INTO places (name, country, latitude, longitude, timezone) VALUES
    ('Makkah',        'SA', 21.4225,  39.8262,  'Asia/Riyadh'),
    ('Madinah',       'SA', 24.4672,  39.6024,  'Asia/Riyadh'),
    ('Riyadh',        'SA', 24.7136,  46.6753,  'Asia/Riyadh'),
    ('Cairo',         'EG', 30.0444,  31.2357,  'Africa/Cairo'),
    ('Istanbul',      'TR', 41.0082,  28.9784,  'Europe/Istanbul'),
    ('Amman',         'JO', 31.9539,  35.9106,  'Asia/Amman'),
    ('Dubai',         'AE', 25.2048,  55.2708,  'Asia/Dubai'),
    ('Karachi',       'PK', 24.8607,  67.0011,  'Asia/Karachi'),
    ('Dhaka',         'BD', 23.8103,  90.4125,  'Asia/Dhaka'),
    ('Jakarta',       'ID', -6.2088,  106.8456, 'Asia/Jakarta'),
    ('Kuala Lumpur',  'MY', 3.1390,   101.6869, 'Asia/Kuala_Lumpur'),
    ('London',        'GB', 51.5085,  -0.1257,  'Europe/London'),
    ('Birmingham',    'GB', 52.4862,  -1.8904,  'Europe/London'),
    ('Paris',         'FR', 48.8566,  2.3522,   'Europe/Paris'),
    ('Berlin',        'DE', 52.5200,  13.4050,  'Europe/Berlin'),
    ('Amsterdam',     'NL', 52.3676,  4.9041,   'Europe/Amsterdam'),
    ('Stockholm',     'SE', 59.3293,  18.0686,  'Europe/Stockholm'),
    ('Oslo',          'NO', 59.9139,  10.7522,  'Europe/Oslo'),
    ('Tromso',        'NO', 69.6492,  18.9553,  'Europe/Oslo'),
    ('New York',      'US', 40.7128,  -74.0060, 'America/New_York'),
    ('Chicago',       'US', 41.8781,  -87.6298, 'America/Chicago'),
    ('Los Angeles',   'US', 34.0522,  -118.2437,'America/Los_Angeles'),
    ('Toronto',       'CA', 43.6532,  -79.3832, 'America/Toronto'),
    ('Sydney',        'AU', -33.8688, 151.2093, 'Australia/Sydney'),
    ('Cape Town',     'ZA', -33.9249, 18.4241,  'Africa/Johannesburg');
`
