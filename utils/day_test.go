package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf(t *testing.T) {
	t.Run("TruncatesToUTCDay", func(t *testing.T) {
		ts := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
		assert.Equal(t, "2026-03-15", DayOf(ts).String())
	})

	t.Run("ConvertsZonedTimestamps", func(t *testing.T) {
		// 23:30 in UTC-5 is already the next day in UTC
		zone := time.FixedZone("UTC-5", -5*3600)
		ts := time.Date(2026, 3, 15, 23, 30, 0, 0, zone)
		assert.Equal(t, "2026-03-16", DayOf(ts).String())
	})
}

func TestParseDay(t *testing.T) {
	t.Run("ValidDate", func(t *testing.T) {
		day, err := ParseDay("2026-01-31")
		require.NoError(t, err)
		assert.Equal(t, "2026-01-31", day.String())
	})

	t.Run("InvalidDate", func(t *testing.T) {
		_, err := ParseDay("31/01/2026")
		assert.Error(t, err)
	})
}

func TestDayArithmetic(t *testing.T) {
	t.Run("PrevCrossesMonthBoundary", func(t *testing.T) {
		day, err := ParseDay("2026-03-01")
		require.NoError(t, err)
		assert.Equal(t, "2026-02-28", day.Prev().String())
	})

	t.Run("PrevCrossesYearBoundary", func(t *testing.T) {
		day, err := ParseDay("2026-01-01")
		require.NoError(t, err)
		assert.Equal(t, "2025-12-31", day.Prev().String())
	})

	t.Run("NextUndoesPrev", func(t *testing.T) {
		day := Today()
		assert.True(t, day.Prev().Next().Equal(day))
	})

	t.Run("LeapDay", func(t *testing.T) {
		day, err := ParseDay("2028-03-01")
		require.NoError(t, err)
		assert.Equal(t, "2028-02-29", day.Prev().String())
	})
}

func TestDayZeroValue(t *testing.T) {
	var day Day
	assert.True(t, day.IsZero())
	assert.False(t, Today().IsZero())
}
