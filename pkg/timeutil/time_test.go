package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 15, 17, 42, 9, 120, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)
	evening := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	nextDay := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextDay))
}

func TestSameDayAcrossZones(t *testing.T) {
	// 23:30 UTC-2 is 01:30 UTC the next day
	zone := time.FixedZone("minus2", -2*3600)
	local := time.Date(2026, 3, 15, 23, 30, 0, 0, zone)
	utcNext := time.Date(2026, 3, 16, 1, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(local, utcNext))
}
