// Command timetable prints a fasting timetable for a place or coordinate
// pair, one row per day, with times rendered on the local clock.
//
// Usage:
//
//	go run ./cmd/timetable -place Makkah -start 2025-03-01 -end 2025-03-30
//	go run ./cmd/timetable -lat 51.5 -lon -0.13 -tz 0 -date 2025-06-21 -mode angle_based
//
// With -place the coordinates and UTC offset come from the gazetteer
// database; the offset is evaluated at the start date and held fixed for
// the whole table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/hamzaghanim/taqwim-api/internal/database"
	"github.com/hamzaghanim/taqwim-api/internal/geo"
	"github.com/hamzaghanim/taqwim-api/internal/schedule"
)

const dateLayout = "2006-01-02"

type options struct {
	place string
	lat   float64
	lon   float64
	tz    int

	date  string
	start string
	end   string

	dawnAngle  float64
	duskAngle  float64
	dawnMargin int
	duskDelay  int
	mode       string

	dbPath string
}

func main() {
	var opts options
	flag.StringVar(&opts.place, "place", "", "Place name from the gazetteer (overrides lat/lon/tz)")
	flag.Float64Var(&opts.lat, "lat", 0, "Latitude in degrees")
	flag.Float64Var(&opts.lon, "lon", 0, "Longitude in degrees")
	flag.IntVar(&opts.tz, "tz", 0, "UTC offset in minutes")
	flag.StringVar(&opts.date, "date", "", "Single date YYYY-MM-DD (default today)")
	flag.StringVar(&opts.start, "start", "", "Range start YYYY-MM-DD")
	flag.StringVar(&opts.end, "end", "", "Range end YYYY-MM-DD")
	flag.Float64Var(&opts.dawnAngle, "dawn-angle", schedule.DefaultTwilightAngle, "Dawn twilight depression in degrees")
	flag.Float64Var(&opts.duskAngle, "dusk-angle", schedule.DefaultTwilightAngle, "Dusk twilight depression in degrees")
	flag.IntVar(&opts.dawnMargin, "dawn-margin", 0, "Precautionary minutes before dawn")
	flag.IntVar(&opts.duskDelay, "dusk-delay", 0, "Precautionary minutes after sunset")
	flag.StringVar(&opts.mode, "mode", "none", "High latitude mode: none, middle_of_night, one_seventh, angle_based")
	flag.StringVar(&opts.dbPath, "db", "data/places.db", "Path to gazetteer database (used with -place)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	if err := run(opts, logger); err != nil {
		fmt.Fprintln(os.Stderr, "timetable:", err)
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	start, end, err := parseDates(opts)
	if err != nil {
		return err
	}

	mode, err := schedule.ParseHighLatitudeMode(opts.mode)
	if err != nil {
		return err
	}

	cfg := schedule.Config{
		Location:          schedule.Location{Latitude: opts.lat, Longitude: opts.lon},
		TimeZoneOffsetMin: opts.tz,
		DawnAngleDeg:      opts.dawnAngle,
		DuskAngleDeg:      opts.duskAngle,
		DawnMarginMin:     opts.dawnMargin,
		DuskDelayMin:      opts.duskDelay,
		HighLatitudeMode:  mode,
	}

	header := fmt.Sprintf("%.4f, %.4f (UTC%+d min)", cfg.Location.Latitude, cfg.Location.Longitude, cfg.TimeZoneOffsetMin)
	if opts.place != "" {
		place, err := resolvePlace(opts, start, logger)
		if err != nil {
			return err
		}
		cfg.Location = schedule.Location{Latitude: place.Latitude, Longitude: place.Longitude}
		cfg.TimeZoneOffsetMin = place.OffsetMinutes
		header = fmt.Sprintf("%s, %s (%s, UTC%+d min)", place.Name, place.Country, place.Timezone, place.OffsetMinutes)
	}

	results, err := schedule.ComputeRange(start, end, cfg)
	if err != nil {
		return err
	}

	fmt.Println(header)
	printTable(os.Stdout, results, cfg.TimeZoneOffsetMin)
	return nil
}

// parseDates resolves the -date / -start / -end flags to an inclusive
// range. With no date flags at all, the table covers just today.
func parseDates(opts options) (start, end time.Time, err error) {
	switch {
	case opts.date != "" && (opts.start != "" || opts.end != ""):
		return start, end, fmt.Errorf("use either -date or -start/-end, not both")
	case opts.date != "":
		start, err = time.Parse(dateLayout, opts.date)
		if err != nil {
			return start, end, fmt.Errorf("invalid -date %q: use YYYY-MM-DD", opts.date)
		}
		return start, start, nil
	case opts.start != "" && opts.end != "":
		start, err = time.Parse(dateLayout, opts.start)
		if err != nil {
			return start, end, fmt.Errorf("invalid -start %q: use YYYY-MM-DD", opts.start)
		}
		end, err = time.Parse(dateLayout, opts.end)
		if err != nil {
			return start, end, fmt.Errorf("invalid -end %q: use YYYY-MM-DD", opts.end)
		}
		return start, end, nil
	case opts.start != "" || opts.end != "":
		return start, end, fmt.Errorf("-start and -end must be given together")
	default:
		now := time.Now().UTC()
		return now, now, nil
	}
}

func resolvePlace(opts options, on time.Time, logger *slog.Logger) (geo.Place, error) {
	db, err := database.Open(database.DefaultConfig(opts.dbPath), logger)
	if err != nil {
		return geo.Place{}, fmt.Errorf("open gazetteer %s: %w", opts.dbPath, err)
	}
	defer db.Close()

	if _, err := db.Migrate(context.Background()); err != nil {
		return geo.Place{}, fmt.Errorf("migrate gazetteer: %w", err)
	}

	resolver := geo.NewGazetteer(db, logger)
	return resolver.ResolvePlace(context.Background(), opts.place, on)
}

func printTable(w *os.File, results []schedule.DayResult, offsetMin int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "DATE\tDAWN\tSUNRISE\tTRANSIT\tSUNSET\tDUSK\tNIGHT\tFAST")

	zone := time.FixedZone("", offsetMin*60)
	clock := func(t time.Time) string { return t.In(zone).Format("15:04") }

	for _, res := range results {
		date := res.Date.Format(dateLayout)
		if !res.OK {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\t-\n", date)
			continue
		}
		s := res.Schedule
		fast := fmt.Sprintf("%dh%02dm", s.FastingMinutes/60, s.FastingMinutes%60)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			date, clock(s.DawnStart), clock(s.Sunrise), clock(s.Transit),
			clock(s.Sunset), clock(s.Dusk), clock(s.Night), fast)
	}
}
