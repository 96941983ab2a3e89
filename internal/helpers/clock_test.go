package helpers_test

import (
	"testing"
	"time"

	"github.com/isometry/obelix/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatISO(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    time.Time
		Expected string
	}{
		{
			Name:     "whole_seconds",
			Input:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Expected: "2024-01-01T00:00:00",
		},
		{
			Name:     "microseconds",
			Input:    time.Date(2024, 1, 1, 0, 0, 0, 123456000, time.UTC),
			Expected: "2024-01-01T00:00:00.123456",
		},
		{
			Name:     "trailing_zero_micros_kept",
			Input:    time.Date(2024, 1, 1, 0, 0, 0, 500000000, time.UTC),
			Expected: "2024-01-01T00:00:00.500000",
		},
		{
			Name:     "sub_microsecond_dropped",
			Input:    time.Date(2024, 1, 1, 0, 0, 0, 999, time.UTC),
			Expected: "2024-01-01T00:00:00",
		},
		{
			Name:     "converted_to_utc",
			Input:    time.Date(2024, 1, 1, 2, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
			Expected: "2024-01-01T00:00:00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.FormatISO(tc.Input))
		})
	}
}

func TestClockNeverGoesBackwards(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	readings := []time.Time{
		base,
		base.Add(time.Second),
		base.Add(-time.Hour),
		base.Add(2 * time.Second),
	}
	i := 0
	clock := helpers.NewClock(func() time.Time {
		r := readings[i]
		i++
		return r
	})

	var got []time.Time
	for range readings {
		got = append(got, clock.Now())
	}

	assert.Equal(t, []time.Time{
		base,
		base.Add(time.Second),
		base.Add(time.Second),
		base.Add(2 * time.Second),
	}, got)
}

func TestClockTimestampIsISO(t *testing.T) {
	clock := helpers.NewClock(nil)

	prev := ""
	for range 50 {
		ts := clock.Timestamp()
		parsed, err := time.Parse("2006-01-02T15:04:05.999999", ts)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, parsed.Location())
		assert.GreaterOrEqual(t, ts, prev)
		prev = ts
	}
}
