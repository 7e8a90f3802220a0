package seastate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	require.NoError(t, err)
	return e
}

// tickSine drives the engine with a sinusoidal swell at 1 Hz and
// returns the last result.
func tickSine(t *testing.T, e *Engine, n int, periodSeconds float64) Result {
	t.Helper()
	start := time.Unix(1_700_000_000, 0)
	var last Result
	for i := 0; i < n; i++ {
		angle := 0.1 * math.Sin(2*math.Pi*float64(i)/periodSeconds)
		result, ok := e.Tick(AttitudeSample{
			Timestamp: start.Add(time.Duration(i) * time.Second),
			Pitch:     angle,
			Roll:      angle * 0.9,
			Yaw:       math.NaN(),
		})
		require.True(t, ok)
		last = result
	}
	return last
}

func TestNewEngineValidation(t *testing.T) {
	t.Parallel()

	t.Run("accepts the default config", func(t *testing.T) {
		t.Parallel()
		_, err := NewEngine(DefaultConfig())
		assert.NoError(t, err)
	})

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero update rate", func(c *Config) { c.UpdateRateMs = 0 }},
		{"zero buffer span", func(c *Config) { c.PeriodBufferSeconds = 0 }},
		{"inverted period range", func(c *Config) { c.MinimumPeriod = 25 }},
		{"smoothing above one", func(c *Config) { c.DirectionSmoothing = 1.5 }},
		{"zero smoothing", func(c *Config) { c.DirectionSmoothing = 0 }},
		{"negative wave multiplier", func(c *Config) { c.WaveMultiplier = -0.5 }},
		{"zero vessel length", func(c *Config) { c.VesselLength = 0 }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, err := NewEngine(cfg)
			assert.Error(t, err)
		})
	}
}

func TestEngineTickBasics(t *testing.T) {
	t.Parallel()

	t.Run("wave height scales motion magnitude", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, DefaultConfig())

		result, ok := e.Tick(sampleAt(time.Now(), 0.1, 0.05))
		require.True(t, ok)

		assert.InDelta(t, 6.406, result.MotionMagnitude, 0.001)
		assert.InDelta(t, 3.203, result.WaveHeight, 0.001)
		require.NotNil(t, result.Heave)
		assert.InDelta(t, 1.198, *result.Heave, 0.001)
	})

	t.Run("flat sea produces zero wave height", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, DefaultConfig())

		result, ok := e.Tick(sampleAt(time.Now(), 0, 0))
		require.True(t, ok)
		assert.Zero(t, result.WaveHeight)
		assert.Zero(t, result.MotionMagnitude)
	})

	t.Run("invalid sample skips the tick", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, DefaultConfig())
		e.Tick(sampleAt(time.Now(), 0.1, 0.1))

		_, ok := e.Tick(AttitudeSample{Timestamp: time.Now(), Pitch: 0.1, Roll: math.NaN()})
		assert.False(t, ok)
		assert.Equal(t, 1, e.Len())

		_, ok = e.Tick(AttitudeSample{Timestamp: time.Now(), Pitch: math.NaN(), Roll: 0.1})
		assert.False(t, ok)
		assert.Equal(t, 1, e.Len())
	})
}

func TestEngineWarmup(t *testing.T) {
	t.Parallel()

	// Nine samples are below every estimator threshold: height and
	// heave come out, period and direction stay absent.
	e := newTestEngine(t, DefaultConfig())
	e.SetHeading(0)

	last := tickSine(t, e, 9, 5)

	assert.Positive(t, last.WaveHeight)
	assert.NotNil(t, last.Heave)
	assert.Nil(t, last.Period)
	assert.Nil(t, last.Direction)
	assert.Empty(t, last.DominantAxis)
	assert.Zero(t, last.DirectionConfidence)
}

func TestEngineWithoutHeading(t *testing.T) {
	t.Parallel()

	// Motion statistics come out without a heading; the absolute
	// direction cannot.
	e := newTestEngine(t, DefaultConfig())

	last := tickSine(t, e, 15, 5)

	assert.Nil(t, last.Direction)
	assert.Nil(t, last.DirectionDegrees)
	assert.NotEmpty(t, last.DominantAxis)

	_, has := e.Heading()
	assert.False(t, has)
}

func TestEngineFullEstimate(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())
	e.SetHeading(math.Pi / 4)

	last := tickSine(t, e, 31, 5)

	require.NotNil(t, last.Period)
	assert.InDelta(t, 5.0, *last.Period, 0.6)
	assert.GreaterOrEqual(t, *last.Period, 2.0)
	assert.LessOrEqual(t, *last.Period, 20.0)

	require.NotNil(t, last.Direction)
	assert.GreaterOrEqual(t, *last.Direction, 0.0)
	assert.Less(t, *last.Direction, 2*math.Pi)
	require.NotNil(t, last.DirectionDegrees)
	assert.InDelta(t, *last.Direction*180/math.Pi, *last.DirectionDegrees, 1e-9)

	assert.GreaterOrEqual(t, last.DirectionConfidence, 0.0)
	assert.LessOrEqual(t, last.DirectionConfidence, 1.0)
	assert.NotEmpty(t, last.DominantAxis)
}

func TestEngineToggles(t *testing.T) {
	t.Parallel()

	t.Run("heave disabled", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.EnableHeave = false
		e := newTestEngine(t, cfg)

		last := tickSine(t, e, 31, 5)
		assert.Nil(t, last.Heave)
		assert.NotNil(t, last.Period)
	})

	t.Run("period disabled", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.EnablePeriod = false
		e := newTestEngine(t, cfg)
		e.SetHeading(0)

		last := tickSine(t, e, 31, 5)
		assert.Nil(t, last.Period)
		assert.NotNil(t, last.Direction)
	})

	t.Run("direction disabled", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.EnableDirection = false
		e := newTestEngine(t, cfg)
		e.SetHeading(0)

		last := tickSine(t, e, 31, 5)
		assert.Nil(t, last.Direction)
		assert.Empty(t, last.DominantAxis)
		assert.NotNil(t, last.Period)
	})
}

func TestEngineSetHeading(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	e.SetHeading(-math.Pi / 2)
	heading, has := e.Heading()
	require.True(t, has)
	assert.InDelta(t, 3*math.Pi/2, heading, 1e-12)

	e.SetHeading(5 * math.Pi)
	heading, _ = e.Heading()
	assert.InDelta(t, math.Pi, heading, 1e-12)
}

func TestEngineReset(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())
	e.SetHeading(1.0)
	tickSine(t, e, 31, 5)
	require.Positive(t, e.Len())

	e.Reset()

	assert.Zero(t, e.Len())
	_, has := e.Heading()
	assert.False(t, has)

	last := tickSine(t, e, 9, 5)
	assert.Nil(t, last.Period)
	assert.Nil(t, last.Direction)
	assert.Zero(t, last.DirectionConfidence)
}
