package seastate

import (
	"fmt"
	"math"
	"time"
)

// AttitudeSample is a single attitude reading from the vessel's motion
// sensor. Pitch and roll are radians; a NaN pitch or roll marks the
// value as missing and causes the engine to skip the tick. Yaw is
// optional (NaN when the sensor does not report it).
type AttitudeSample struct {
	Timestamp time.Time
	Pitch     float64 // radians
	Roll      float64 // radians
	Yaw       float64 // radians, NaN if absent
}

// Valid reports whether the sample carries both required angles.
func (s AttitudeSample) Valid() bool {
	return !math.IsNaN(s.Pitch) && !math.IsNaN(s.Roll)
}

// BufferEntry is an attitude sample as stored in the rolling window.
// MotionMagnitude is cached at insertion time: the Euclidean norm of
// the degree-converted pitch and roll.
type BufferEntry struct {
	Timestamp       time.Time
	Pitch           float64 // radians
	Roll            float64 // radians
	Yaw             float64 // radians, NaN if absent
	MotionMagnitude float64 // degrees
}

// DominantAxis classifies which motion axis carries the wave energy.
type DominantAxis string

const (
	AxisPitch    DominantAxis = "pitch"
	AxisRoll     DominantAxis = "roll"
	AxisCombined DominantAxis = "combined"
)

// Result is the sea-state estimate produced by one engine tick.
// Optional outputs are nil when the corresponding estimator could not
// produce a value (insufficient samples, missing heading, disabled).
type Result struct {
	Timestamp           time.Time    `json:"timestamp"`
	WaveHeight          float64      `json:"wave_height_m"`
	MotionMagnitude     float64      `json:"motion_magnitude_deg"`
	Heave               *float64     `json:"heave_m,omitempty"`
	Period              *float64     `json:"period_s,omitempty"`
	Direction           *float64     `json:"direction_rad,omitempty"`
	DirectionDegrees    *float64     `json:"direction_deg,omitempty"`
	DirectionConfidence float64      `json:"direction_confidence"`
	DominantAxis        DominantAxis `json:"dominant_axis,omitempty"`
}

// Config holds the estimation engine tuning parameters.
type Config struct {
	WaveMultiplier      float64 // wave height per degree of motion magnitude
	VesselLength        float64 // meters, used by the heave estimate
	PeriodBufferSeconds float64 // rolling window span in seconds
	MinimumPeriod       float64 // seconds, shortest credible wave period
	MaximumPeriod       float64 // seconds, longest credible wave period
	DirectionSmoothing  float64 // (0,1), 1 = no smoothing
	UpdateRateMs        int     // expected sample spacing in milliseconds

	EnableHeave     bool
	EnablePeriod    bool
	EnableDirection bool
}

// DefaultConfig returns the standard engine tuning.
func DefaultConfig() Config {
	return Config{
		WaveMultiplier:      0.5,
		VesselLength:        12,
		PeriodBufferSeconds: 30,
		MinimumPeriod:       2,
		MaximumPeriod:       20,
		DirectionSmoothing:  0.3,
		UpdateRateMs:        1000,
		EnableHeave:         true,
		EnablePeriod:        true,
		EnableDirection:     true,
	}
}

// Validate checks that the configuration values are usable.
func (c Config) Validate() error {
	if c.UpdateRateMs <= 0 {
		return fmt.Errorf("update rate must be positive, got %d ms", c.UpdateRateMs)
	}
	if c.PeriodBufferSeconds <= 0 {
		return fmt.Errorf("period buffer must be positive, got %f s", c.PeriodBufferSeconds)
	}
	if c.MinimumPeriod >= c.MaximumPeriod {
		return fmt.Errorf("minimum period %f must be below maximum period %f", c.MinimumPeriod, c.MaximumPeriod)
	}
	if c.DirectionSmoothing <= 0 || c.DirectionSmoothing > 1 {
		return fmt.Errorf("direction smoothing must be in (0,1], got %f", c.DirectionSmoothing)
	}
	if c.WaveMultiplier <= 0 {
		return fmt.Errorf("wave multiplier must be positive, got %f", c.WaveMultiplier)
	}
	if c.VesselLength <= 0 {
		return fmt.Errorf("vessel length must be positive, got %f m", c.VesselLength)
	}
	return nil
}

// BufferCapacity returns the sample buffer capacity implied by the
// window span and the update rate.
func (c Config) BufferCapacity() int {
	return int(math.Ceil(c.PeriodBufferSeconds * 1000 / float64(c.UpdateRateMs)))
}
