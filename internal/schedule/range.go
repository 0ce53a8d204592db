package schedule

import (
	"fmt"
	"time"
)

// ComputeRange resolves one DayResult per calendar day from start to end
// inclusive, in ascending order. Time-of-day components of start and end
// are ignored; iteration is by whole civil days. One unresolvable day
// does not abort the rest of the range.
func ComputeRange(start, end time.Time, cfg Config) ([]DayResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	first := midnightUTC(start)
	last := midnightUTC(end)
	if last.Before(first) {
		return nil, fmt.Errorf("schedule: range end %s before start %s",
			last.Format("2006-01-02"), first.Format("2006-01-02"))
	}

	days := int(last.Sub(first).Hours()/24) + 1
	results := make([]DayResult, 0, days)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		results = append(results, computeDay(d, cfg))
	}
	return results, nil
}

func midnightUTC(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
