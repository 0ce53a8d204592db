package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hamzaghanim/taqwim-api/internal/config"
	"github.com/hamzaghanim/taqwim-api/internal/database"
	"github.com/hamzaghanim/taqwim-api/internal/geo"
	"github.com/hamzaghanim/taqwim-api/internal/schedule"
)

const dateLayout = "2006-01-02"

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	resolver geo.Resolver
	cfg      *config.Config
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, resolver geo.Resolver, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:       db,
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

// EventTimes renders one day's events as local wall clock times.
type EventTimes struct {
	DawnStart string `json:"dawn_start"`
	Dawn      string `json:"dawn"`
	Sunrise   string `json:"sunrise"`
	Transit   string `json:"transit"`
	Sunset    string `json:"sunset"`
	Dusk      string `json:"dusk"`
	Night     string `json:"night"`
}

// DayTimes is the response body for a single computed day. Days where the
// configured events cannot be resolved carry OK=false and no times.
type DayTimes struct {
	Date            string      `json:"date"`
	OK              bool        `json:"ok"`
	Place           *geo.Place  `json:"place,omitempty"`
	OffsetMinutes   int         `json:"offset_minutes"`
	Times           *EventTimes `json:"times,omitempty"`
	FastingMinutes  int         `json:"fasting_minutes,omitempty"`
	FallbackApplied bool        `json:"fallback_applied,omitempty"`
	Message         string      `json:"message,omitempty"`
}

// timesRequest is a parsed and validated times query. loc is non-nil only
// for place-based requests, where per-day offsets must track DST.
type timesRequest struct {
	cfg   schedule.Config
	place *geo.Place
	loc   *time.Location
}

// requestError marks a client-side problem with the query string.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	places, err := h.db.CountPlaces(ctx)
	if err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Gazetteer unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]any{
		"status": "healthy",
		"places": places,
	})
}

// GetTodayTimes handles GET /api/v1/times/today
func (h *Handlers) GetTodayTimes(w http.ResponseWriter, r *http.Request) {
	h.serveDay(w, r, time.Now().UTC())
}

// GetDateTimes handles GET /api/v1/times/date/{YYYY-MM-DD}
func (h *Handlers) GetDateTimes(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}
	h.serveDay(w, r, date)
}

// serveDay computes and writes the schedule for one civil date.
func (h *Handlers) serveDay(w http.ResponseWriter, r *http.Request, date time.Time) {
	req, err := h.parseTimesRequest(r, date)
	if err != nil {
		h.writeTimesError(w, err)
		return
	}

	res, err := schedule.ComputeDaily(date, req.cfg)
	if err != nil {
		h.writeTimesError(w, err)
		return
	}

	day := renderDay(res, req.cfg.TimeZoneOffsetMin)
	day.Place = req.place
	WriteSuccess(w, day)
}

// GetRangeTimes handles GET /api/v1/times/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRangeTimes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	startStr := q.Get("start")
	endStr := q.Get("end")
	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
		return
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
		return
	}
	if start.After(end) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days > h.cfg.MaxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", h.cfg.MaxRangeDays))
		return
	}

	req, err := h.parseTimesRequest(r, start)
	if err != nil {
		h.writeTimesError(w, err)
		return
	}

	results := make([]DayTimes, 0, days)
	if req.loc == nil {
		dayResults, err := schedule.ComputeRange(start, end, req.cfg)
		if err != nil {
			h.writeTimesError(w, err)
			return
		}
		for _, res := range dayResults {
			results = append(results, renderDay(res, req.cfg.TimeZoneOffsetMin))
		}
	} else {
		// Re-evaluate the offset each day so DST transitions inside the
		// range render with the clock actually in force.
		for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
			dayCfg := req.cfg
			_, sec := time.Date(cur.Year(), cur.Month(), cur.Day(), 12, 0, 0, 0, req.loc).Zone()
			dayCfg.TimeZoneOffsetMin = sec / 60

			res, err := schedule.ComputeDaily(cur, dayCfg)
			if err != nil {
				h.writeTimesError(w, err)
				return
			}
			results = append(results, renderDay(res, dayCfg.TimeZoneOffsetMin))
		}
	}

	WriteSuccess(w, map[string]any{
		"start": startStr,
		"end":   endStr,
		"place": req.place,
		"days":  results,
	})
}

// SearchPlaces handles GET /api/v1/places?q=prefix
func (h *Handlers) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	if prefix == "" {
		WriteBadRequest(w, "q parameter is required")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	places, err := h.db.SearchPlaces(r.Context(), prefix, limit)
	if err != nil {
		h.logger.Error("place search failed", slog.Any("error", err))
		WriteInternalError(w, "Failed to search places")
		return
	}

	WriteSuccess(w, map[string]any{
		"query":  prefix,
		"places": places,
	})
}

// NearestPlace handles GET /api/v1/places/nearest?lat=..&lon=..
func (h *Handlers) NearestPlace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := parseFloatParam(q, "lat")
	if err != nil {
		h.writeTimesError(w, err)
		return
	}
	lon, err := parseFloatParam(q, "lon")
	if err != nil {
		h.writeTimesError(w, err)
		return
	}

	name, err := h.resolver.AreaName(r.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, geo.ErrPlaceNotFound) {
			WriteNotFound(w, "No known place near those coordinates")
			return
		}
		h.logger.Error("nearest place failed", slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve nearest place")
		return
	}

	WriteSuccess(w, map[string]any{
		"name":      name,
		"latitude":  lat,
		"longitude": lon,
	})
}

// parseTimesRequest builds a calculation config from the query string.
// Location comes either from place= (resolved against the gazetteer, with
// the offset evaluated at ref) or from explicit lat/lon/tz parameters.
func (h *Handlers) parseTimesRequest(r *http.Request, ref time.Time) (*timesRequest, error) {
	q := r.URL.Query()

	mode, _ := schedule.ParseHighLatitudeMode(h.cfg.DefaultHighLatMode)
	cfg := schedule.Config{
		DawnAngleDeg:     h.cfg.DefaultDawnAngle,
		DuskAngleDeg:     h.cfg.DefaultDuskAngle,
		HighLatitudeMode: mode,
	}
	req := &timesRequest{}

	if name := q.Get("place"); name != "" {
		place, err := h.resolver.ResolvePlace(r.Context(), name, ref)
		if err != nil {
			return nil, err
		}
		loc, err := time.LoadLocation(place.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", place.Timezone, err)
		}
		cfg.Location = schedule.Location{Latitude: place.Latitude, Longitude: place.Longitude}
		cfg.TimeZoneOffsetMin = place.OffsetMinutes
		req.place = &place
		req.loc = loc
	} else {
		lat, err := parseFloatParam(q, "lat")
		if err != nil {
			return nil, err
		}
		lon, err := parseFloatParam(q, "lon")
		if err != nil {
			return nil, err
		}
		tz, err := parseIntParam(q, "tz")
		if err != nil {
			return nil, err
		}
		cfg.Location = schedule.Location{Latitude: lat, Longitude: lon}
		cfg.TimeZoneOffsetMin = tz
	}

	if v := q.Get("dawn_angle"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &requestError{fmt.Sprintf("invalid dawn_angle: %q", v)}
		}
		cfg.DawnAngleDeg = f
	}
	if v := q.Get("dusk_angle"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &requestError{fmt.Sprintf("invalid dusk_angle: %q", v)}
		}
		cfg.DuskAngleDeg = f
	}
	if v := q.Get("dawn_margin"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &requestError{fmt.Sprintf("invalid dawn_margin: %q", v)}
		}
		cfg.DawnMarginMin = n
	}
	if v := q.Get("dusk_delay"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &requestError{fmt.Sprintf("invalid dusk_delay: %q", v)}
		}
		cfg.DuskDelayMin = n
	}
	if v := q.Get("high_lat_mode"); v != "" {
		m, err := schedule.ParseHighLatitudeMode(v)
		if err != nil {
			return nil, err
		}
		cfg.HighLatitudeMode = m
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	req.cfg = cfg
	return req, nil
}

// writeTimesError maps computation and parsing errors to HTTP responses.
func (h *Handlers) writeTimesError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		WriteBadRequest(w, reqErr.msg)
	case errors.Is(err, geo.ErrPlaceNotFound):
		WriteNotFound(w, err.Error())
	case schedule.IsConfigError(err):
		WriteBadRequest(w, err.Error())
	default:
		h.logger.Error("times request failed", slog.Any("error", err))
		WriteInternalError(w, "Failed to compute times")
	}
}

// renderDay converts a computation result to its wire form, formatting
// event instants as wall clock times at the given offset.
func renderDay(res schedule.DayResult, offsetMin int) DayTimes {
	day := DayTimes{
		Date:          res.Date.Format(dateLayout),
		OK:            res.OK,
		OffsetMinutes: offsetMin,
	}
	if !res.OK {
		day.Message = "sun does not reach the configured depressions on this date"
		return day
	}

	s := res.Schedule
	day.Times = &EventTimes{
		DawnStart: localClock(s.DawnStart, offsetMin),
		Dawn:      localClock(s.Dawn, offsetMin),
		Sunrise:   localClock(s.Sunrise, offsetMin),
		Transit:   localClock(s.Transit, offsetMin),
		Sunset:    localClock(s.Sunset, offsetMin),
		Dusk:      localClock(s.Dusk, offsetMin),
		Night:     localClock(s.Night, offsetMin),
	}
	day.FastingMinutes = s.FastingMinutes
	day.FallbackApplied = s.FallbackApplied
	return day
}

// localClock renders a UTC instant as HH:MM on the clock offsetMin minutes
// ahead of UTC.
func localClock(t time.Time, offsetMin int) string {
	return t.In(time.FixedZone("", offsetMin*60)).Format("15:04")
}

func parseFloatParam(q url.Values, key string) (float64, error) {
	v := q.Get(key)
	if v == "" {
		return 0, &requestError{fmt.Sprintf("%s parameter is required (or pass place=)", key)}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &requestError{fmt.Sprintf("invalid %s: %q", key, v)}
	}
	return f, nil
}

func parseIntParam(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, &requestError{fmt.Sprintf("%s parameter is required (or pass place=)", key)}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &requestError{fmt.Sprintf("invalid %s: %q", key, v)}
	}
	return n, nil
}
