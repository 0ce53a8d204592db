package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/hamzaghanim/taqwim-api/internal/config"
	"github.com/hamzaghanim/taqwim-api/internal/database"
	"github.com/hamzaghanim/taqwim-api/internal/geo"
)

// testEnv sets up a complete test environment with database, config,
// handlers and the assembled router.
type testEnv struct {
	db     *database.DB
	cfg    *config.Config
	router http.Handler
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // quiet during tests
	}))

	db, err := database.Open(database.DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	cfg := &config.Config{
		Port:               8080,
		Env:                config.EnvDevelopment,
		DatabasePath:       ":memory:",
		LogLevel:           "error",
		LogFormat:          "text",
		DefaultDawnAngle:   18,
		DefaultDuskAngle:   18,
		DefaultHighLatMode: "none",
		MaxRangeDays:       366,
	}

	resolver := geo.NewGazetteer(db, logger)
	handlers := NewHandlers(db, resolver, cfg, logger)

	return &testEnv{
		db:     db,
		cfg:    cfg,
		router: SetupRoutes(handlers, logger),
	}
}

// envelope mirrors Response with the data left raw for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

func (env *testEnv) get(t *testing.T, path string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return rec.Code, body
}

func decodeDay(t *testing.T, data json.RawMessage) DayTimes {
	t.Helper()
	var day DayTimes
	if err := json.Unmarshal(data, &day); err != nil {
		t.Fatalf("decode day: %v", err)
	}
	return day
}

// clockMinutes converts an HH:MM string to minutes past midnight.
func clockMinutes(t *testing.T, clock string) int {
	t.Helper()
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		t.Fatalf("parse clock %q: %v", clock, err)
	}
	return parsed.Hour()*60 + parsed.Minute()
}

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	code, body := env.get(t, "/health")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !body.Success {
		t.Error("success = false")
	}

	var data struct {
		Status string `json:"status"`
		Places int    `json:"places"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Status != "healthy" {
		t.Errorf("status = %q, want healthy", data.Status)
	}
	if data.Places == 0 {
		t.Error("gazetteer reported empty")
	}
}

func TestGetDateTimes_Coordinates(t *testing.T) {
	env := setupTest(t)

	code, body := env.get(t,
		"/api/v1/times/date/2024-03-01?lat=21.4225&lon=39.8262&tz=180&dawn_angle=18.5")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	day := decodeDay(t, body.Data)

	if !day.OK {
		t.Fatal("expected a resolved schedule for Makkah")
	}
	if day.Date != "2024-03-01" {
		t.Errorf("date = %q", day.Date)
	}
	if day.OffsetMinutes != 180 {
		t.Errorf("offset = %d, want 180", day.OffsetMinutes)
	}

	// Local dawn should land close to 05:24.
	dawn := clockMinutes(t, day.Times.Dawn)
	if dawn < clockMinutes(t, "05:15") || dawn > clockMinutes(t, "05:35") {
		t.Errorf("dawn = %s, want near 05:24", day.Times.Dawn)
	}
	if day.Times.Sunrise <= day.Times.Dawn {
		t.Errorf("sunrise %s not after dawn %s", day.Times.Sunrise, day.Times.Dawn)
	}
	if day.FastingMinutes <= 0 {
		t.Errorf("fasting_minutes = %d", day.FastingMinutes)
	}
}

func TestGetDateTimes_OffsetRendering(t *testing.T) {
	env := setupTest(t)

	// The same instants rendered on clocks 480 minutes apart.
	base := "/api/v1/times/date/2024-03-01?lat=21.4225&lon=39.8262"
	_, east := env.get(t, base+"&tz=180")
	_, west := env.get(t, base+"&tz=-300")

	dawnEast := clockMinutes(t, decodeDay(t, east.Data).Times.Dawn)
	dawnWest := clockMinutes(t, decodeDay(t, west.Data).Times.Dawn)

	diff := (dawnEast - dawnWest + 1440) % 1440
	if diff != 480 {
		t.Errorf("dawn rendered %d minutes apart, want 480", diff)
	}
}

func TestGetDateTimes_Place(t *testing.T) {
	env := setupTest(t)

	code, body := env.get(t, "/api/v1/times/date/2024-03-01?place=Makkah")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	day := decodeDay(t, body.Data)

	if day.Place == nil || day.Place.Name != "Makkah" {
		t.Fatalf("place = %+v, want Makkah", day.Place)
	}
	if day.OffsetMinutes != 180 {
		t.Errorf("offset = %d, want 180", day.OffsetMinutes)
	}
}

func TestGetDateTimes_PolarDay(t *testing.T) {
	env := setupTest(t)

	code, body := env.get(t, "/api/v1/times/date/2024-06-21?place=Tromso")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (no solution is not an error)", code)
	}
	day := decodeDay(t, body.Data)

	if day.OK {
		t.Fatal("expected no solution for midsummer Tromso")
	}
	if day.Times != nil {
		t.Error("times present on a no-solution day")
	}
	if day.Message == "" {
		t.Error("message missing on a no-solution day")
	}
}

func TestGetDateTimes_Errors(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"bad date", "/api/v1/times/date/03-2024-01?lat=1&lon=1&tz=0", http.StatusBadRequest},
		{"missing location", "/api/v1/times/date/2024-03-01", http.StatusBadRequest},
		{"bad latitude", "/api/v1/times/date/2024-03-01?lat=abc&lon=1&tz=0", http.StatusBadRequest},
		{"latitude out of range", "/api/v1/times/date/2024-03-01?lat=95&lon=1&tz=0", http.StatusBadRequest},
		{"angle out of range", "/api/v1/times/date/2024-03-01?lat=1&lon=1&tz=0&dawn_angle=45", http.StatusBadRequest},
		{"unknown mode", "/api/v1/times/date/2024-03-01?lat=1&lon=1&tz=0&high_lat_mode=guess", http.StatusBadRequest},
		{"unknown place", "/api/v1/times/date/2024-03-01?place=Atlantis", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := env.get(t, tt.path)
			if code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
			if body.Success {
				t.Error("success = true on error response")
			}
			if body.Error == nil || body.Error.Message == "" {
				t.Error("error message missing")
			}
		})
	}
}

func TestGetRangeTimes(t *testing.T) {
	env := setupTest(t)

	code, body := env.get(t,
		"/api/v1/times/range?start=2024-03-01&end=2024-03-03&lat=51.5074&lon=-0.1278&tz=0")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	var data struct {
		Start string     `json:"start"`
		End   string     `json:"end"`
		Days  []DayTimes `json:"days"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	if len(data.Days) != 3 {
		t.Fatalf("got %d days, want 3", len(data.Days))
	}
	for i, day := range data.Days {
		if !day.OK {
			t.Errorf("day %d unresolved", i)
		}
	}
	if data.Days[0].Date != "2024-03-01" || data.Days[2].Date != "2024-03-03" {
		t.Errorf("dates = %s..%s", data.Days[0].Date, data.Days[2].Date)
	}
}

func TestGetRangeTimes_PlaceTracksDST(t *testing.T) {
	env := setupTest(t)

	// British Summer Time begins 2024-03-31.
	code, body := env.get(t,
		"/api/v1/times/range?start=2024-03-30&end=2024-03-31&place=London")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	var data struct {
		Days []DayTimes `json:"days"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Days) != 2 {
		t.Fatalf("got %d days, want 2", len(data.Days))
	}

	if data.Days[0].OffsetMinutes != 0 {
		t.Errorf("pre-transition offset = %d, want 0", data.Days[0].OffsetMinutes)
	}
	if data.Days[1].OffsetMinutes != 60 {
		t.Errorf("post-transition offset = %d, want 60", data.Days[1].OffsetMinutes)
	}
}

func TestGetRangeTimes_Validation(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		path string
	}{
		{"missing params", "/api/v1/times/range?lat=1&lon=1&tz=0"},
		{"end before start", "/api/v1/times/range?start=2024-03-05&end=2024-03-01&lat=1&lon=1&tz=0"},
		{"range too long", "/api/v1/times/range?start=2024-01-01&end=2025-06-01&lat=1&lon=1&tz=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := env.get(t, tt.path)
			if code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
		})
	}
}

func TestSearchPlacesEndpoint(t *testing.T) {
	env := setupTest(t)

	code, body := env.get(t, "/api/v1/places?q=Lo")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	var data struct {
		Places []database.Place `json:"places"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	found := false
	for _, p := range data.Places {
		if p.Name == "London" {
			found = true
		}
	}
	if !found {
		t.Error("London missing from prefix search")
	}

	code, _ = env.get(t, "/api/v1/places")
	if code != http.StatusBadRequest {
		t.Errorf("missing q: status = %d, want 400", code)
	}
}

func TestNearestPlaceEndpoint(t *testing.T) {
	env := setupTest(t)

	code, body := env.get(t, "/api/v1/places/nearest?lat=51.50&lon=-0.12")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	var data struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Name != "London, GB" {
		t.Errorf("name = %q, want London, GB", data.Name)
	}
}
