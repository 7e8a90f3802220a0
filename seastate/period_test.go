package seastate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rollSeries builds buffer entries from a roll series sampled at the
// given spacing, starting from a fixed epoch.
func rollSeries(rolls []float64, spacing time.Duration) []BufferEntry {
	start := time.Unix(1_700_000_000, 0)
	entries := make([]BufferEntry, len(rolls))
	for i, roll := range rolls {
		entries[i] = BufferEntry{
			Timestamp: start.Add(time.Duration(i) * spacing),
			Roll:      roll,
		}
	}
	return entries
}

// sineRoll samples roll(t) = sin(2π t / period) at 1 Hz.
func sineRoll(n int, periodSeconds float64) []float64 {
	rolls := make([]float64, n)
	for i := range rolls {
		rolls[i] = math.Sin(2 * math.Pi * float64(i) / periodSeconds)
	}
	return rolls
}

func TestPeriodDetectorUpdate(t *testing.T) {
	t.Parallel()

	t.Run("absent below minimum buffer depth", func(t *testing.T) {
		t.Parallel()
		d := NewPeriodDetector(2, 20)

		_, ok := d.Update(rollSeries(sineRoll(9, 5), time.Second))
		assert.False(t, ok)
	})

	t.Run("absent with fewer than two crossings", func(t *testing.T) {
		t.Parallel()
		d := NewPeriodDetector(2, 20)

		// Monotonically rising roll never crosses zero twice.
		rolls := make([]float64, 15)
		for i := range rolls {
			rolls[i] = 0.1 + float64(i)*0.01
		}
		_, ok := d.Update(rollSeries(rolls, time.Second))
		assert.False(t, ok)
	})

	t.Run("converges near a 5 second synthetic swell", func(t *testing.T) {
		t.Parallel()
		d := NewPeriodDetector(2, 20)

		period, ok := d.Update(rollSeries(sineRoll(31, 5), time.Second))
		require.True(t, ok)
		assert.InDelta(t, 5.0, period, 0.6)
	})

	t.Run("rejects candidates outside the accepted range", func(t *testing.T) {
		t.Parallel()
		d := NewPeriodDetector(2, 20)

		// Sign flip every 100 ms is a 200 ms wave, far below minimum.
		rolls := make([]float64, 20)
		for i := range rolls {
			if i%2 == 0 {
				rolls[i] = 0.1
			} else {
				rolls[i] = -0.1
			}
		}
		_, ok := d.Update(rollSeries(rolls, 100*time.Millisecond))
		assert.False(t, ok)
	})

	t.Run("crossing starting at exactly zero is not flagged", func(t *testing.T) {
		t.Parallel()
		d := NewPeriodDetector(2, 20)

		// One recorded crossing (positive to zero); the zero-to-positive
		// step that follows must not count as a second one.
		rolls := []float64{0.5, 0.4, 0.3, 0.2, 0.1, 0.0, 0.1, 0.2, 0.3, 0.4, 0.5}
		_, ok := d.Update(rollSeries(rolls, time.Second))
		assert.False(t, ok)
	})

	t.Run("estimate stays within the configured range", func(t *testing.T) {
		t.Parallel()
		d := NewPeriodDetector(2, 20)

		for _, wave := range []float64{4, 6, 10, 16} {
			period, ok := d.Update(rollSeries(sineRoll(40, wave), time.Second))
			if ok {
				assert.GreaterOrEqual(t, period, 2.0)
				assert.LessOrEqual(t, period, 20.0)
			}
		}
	})
}

func TestPeriodDetectorSmoothing(t *testing.T) {
	t.Parallel()

	d := NewPeriodDetector(2, 20)

	// Repeated scans of the same signal keep the history mean stable.
	entries := rollSeries(sineRoll(31, 5), time.Second)
	var last float64
	for i := 0; i < 15; i++ {
		period, ok := d.Update(entries)
		require.True(t, ok)
		last = period
	}
	assert.InDelta(t, 5.0, last, 0.6)
}

func TestPeriodDetectorReset(t *testing.T) {
	t.Parallel()

	d := NewPeriodDetector(2, 20)
	_, ok := d.Update(rollSeries(sineRoll(31, 5), time.Second))
	require.True(t, ok)

	d.Reset()

	// After a reset the next estimate is a fresh single-scan mean.
	period, ok := d.Update(rollSeries(sineRoll(31, 8), time.Second))
	require.True(t, ok)
	assert.InDelta(t, 8.0, period, 1.1)
}
