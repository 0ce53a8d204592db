package database

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // quiet during tests
	}))

	db, err := Open(DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)

	applied, err := db.Migrate(context.Background())
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if applied != 0 {
		t.Errorf("second migrate applied %d migrations, want 0", applied)
	}
}

func TestGetPlaceByName(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		wantName string
		wantErr  bool
	}{
		{"exact", "Makkah", "Makkah", false},
		{"case insensitive", "makkah", "Makkah", false},
		{"with country", "Birmingham, GB", "Birmingham", false},
		{"surrounding spaces", "  London ", "London", false},
		{"missing", "Atlantis", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := db.GetPlaceByName(ctx, tt.query)
			if tt.wantErr {
				if !IsNotFound(err) {
					t.Fatalf("err = %v, want not-found", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetPlaceByName(%q): %v", tt.query, err)
			}
			if p.Name != tt.wantName {
				t.Errorf("name = %q, want %q", p.Name, tt.wantName)
			}
			if p.Timezone == "" {
				t.Error("timezone missing")
			}
		})
	}
}

func TestSearchPlaces(t *testing.T) {
	db := testDB(t)

	places, err := db.SearchPlaces(context.Background(), "Ma", 10)
	if err != nil {
		t.Fatalf("SearchPlaces: %v", err)
	}
	if len(places) == 0 {
		t.Fatal("no matches for prefix Ma")
	}
	for _, p := range places {
		if p.Name[:2] != "Ma" && p.Name[:2] != "ma" {
			t.Errorf("unexpected match %q", p.Name)
		}
	}
}

func TestNearestPlace(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"central london", 51.50, -0.12, "London"},
		{"jeddah coast near makkah", 21.54, 39.17, "Makkah"},
		{"brooklyn", 40.68, -73.94, "New York"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := db.NearestPlace(ctx, tt.lat, tt.lon)
			if err != nil {
				t.Fatalf("NearestPlace: %v", err)
			}
			if p.Name != tt.want {
				t.Errorf("nearest = %q, want %q", p.Name, tt.want)
			}
		})
	}
}

func TestUpsertPlace(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := &Place{Name: "Testville", Country: "TS", Latitude: 10, Longitude: 20, Timezone: "UTC"}
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		return db.UpsertPlace(ctx, tx, p)
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Second upsert updates in place rather than duplicating.
	p.Latitude = 11
	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		return db.UpsertPlace(ctx, tx, p)
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := db.GetPlaceByName(ctx, "Testville")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.Latitude != 11 {
		t.Errorf("latitude = %v, want 11", got.Latitude)
	}
}

func TestPlaceOffsetMinutes(t *testing.T) {
	p := &Place{Name: "London", Timezone: "Europe/London"}

	winter, err := p.OffsetMinutes(time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("winter offset: %v", err)
	}
	summer, err := p.OffsetMinutes(time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("summer offset: %v", err)
	}

	if winter != 0 {
		t.Errorf("winter offset = %d, want 0", winter)
	}
	if summer != 60 {
		t.Errorf("summer offset = %d, want 60 (BST)", summer)
	}

	bad := &Place{Timezone: "Not/AZone"}
	if _, err := bad.OffsetMinutes(time.Now()); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
