package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRange_Completeness(t *testing.T) {
	cfg := NewConfig(london, 0)

	results, err := ComputeRange(date(2024, time.February, 25), date(2024, time.March, 5), cfg)
	require.NoError(t, err)
	require.Len(t, results, 10, "inclusive range across the leap day")

	for i, r := range results {
		want := date(2024, time.February, 25).AddDate(0, 0, i)
		assert.True(t, r.Date.Equal(want), "entry %d: date %v, want %v", i, r.Date, want)
		assert.True(t, r.OK, "entry %d should resolve", i)
	}
}

func TestComputeRange_IgnoresTimeOfDay(t *testing.T) {
	cfg := NewConfig(london, 0)

	start := time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 3, 0, 1, 0, 0, time.UTC)

	results, err := ComputeRange(start, end, cfg)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestComputeRange_SingleDay(t *testing.T) {
	cfg := NewConfig(makkah, 180)

	results, err := ComputeRange(date(2024, time.March, 1), date(2024, time.March, 1), cfg)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].OK)
}

func TestComputeRange_EndBeforeStart(t *testing.T) {
	cfg := NewConfig(london, 0)

	_, err := ComputeRange(date(2024, time.March, 5), date(2024, time.March, 1), cfg)
	assert.Error(t, err)
}

func TestComputeRange_InvalidConfig(t *testing.T) {
	cfg := NewConfig(Location{Longitude: -999}, 0)

	_, err := ComputeRange(date(2024, time.March, 1), date(2024, time.March, 2), cfg)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestComputeRange_NoSolutionDaysDoNotAbort(t *testing.T) {
	// Polar day in Tromso with no fallback: every day is present in the
	// output but unresolved.
	cfg := NewConfig(tromso, 120)

	results, err := ComputeRange(date(2024, time.June, 18), date(2024, time.June, 22), cfg)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for _, r := range results {
		assert.False(t, r.OK, "%s should be unresolvable under the midnight sun", r.Date.Format("2006-01-02"))
	}
}

func TestComputeRange_FallbackOnFinalDay(t *testing.T) {
	// The fallback reaches one day past the end of the range for the next
	// sunrise; the final day must still resolve.
	cfg := NewConfig(london, 0)
	cfg.HighLatitudeMode = HighLatitudeMiddleOfNight

	results, err := ComputeRange(date(2024, time.June, 19), date(2024, time.June, 21), cfg)
	require.NoError(t, err)
	require.Len(t, results, 3)

	last := results[len(results)-1]
	require.True(t, last.OK)
	assert.True(t, last.Schedule.FallbackApplied)
}
