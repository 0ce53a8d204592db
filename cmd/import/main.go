// Command import loads gazetteer places from a CSV file into the SQLite
// database.
//
// Usage:
//
//	go run ./cmd/import -csv data/places.csv -db data/places.db
//
// The CSV must carry a header row with the columns
// name,country,latitude,longitude,timezone. Timezones are IANA names and
// are verified against the zone database before import. Rows are upserted,
// so re-running the import refreshes existing entries in place.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/hamzaghanim/taqwim-api/internal/database"
)

func main() {
	csvPath := flag.String("csv", "data/places.csv", "Path to places CSV file")
	dbPath := flag.String("db", "data/places.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := run(*csvPath, *dbPath, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(csvPath, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	logger.Info("reading CSV file", slog.String("path", csvPath))

	places, err := readPlaces(csvPath)
	if err != nil {
		return fmt.Errorf("read CSV: %w", err)
	}
	logger.Info("parsed CSV", slog.Int("places", len(places)))

	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, p := range places {
			if err := db.UpsertPlace(ctx, tx, p); err != nil {
				return fmt.Errorf("upsert %q: %w", p.Name, err)
			}
			logger.Debug("imported place",
				slog.String("name", p.Name),
				slog.String("country", p.Country),
			)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	total, err := db.CountPlaces(ctx)
	if err != nil {
		return fmt.Errorf("count places: %w", err)
	}

	logger.Info("import verified",
		slog.Int("imported", len(places)),
		slog.Int("total_places", total),
		slog.Duration("elapsed", time.Since(startTime)),
	)
	return nil
}

// readPlaces parses and validates the CSV file.
func readPlaces(path string) ([]*database.Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != 5 || header[0] != "name" {
		return nil, fmt.Errorf("unexpected header %v, want name,country,latitude,longitude,timezone", header)
	}

	var places []*database.Place
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		lat, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: latitude %q: %w", line, record[2], err)
		}
		lon, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: longitude %q: %w", line, record[3], err)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("line %d: coordinates (%g, %g) out of range", line, lat, lon)
		}
		if _, err := time.LoadLocation(record[4]); err != nil {
			return nil, fmt.Errorf("line %d: timezone %q: %w", line, record[4], err)
		}

		places = append(places, &database.Place{
			Name:      record[0],
			Country:   record[1],
			Latitude:  lat,
			Longitude: lon,
			Timezone:  record[4],
		})
	}

	if len(places) == 0 {
		return nil, fmt.Errorf("no places in %s", path)
	}
	return places, nil
}
