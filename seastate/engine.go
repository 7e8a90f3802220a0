package seastate

import (
	"fmt"
	"math"
)

// Engine runs one sea-state estimation per attitude sample. It owns
// the rolling sample buffer, the period and direction estimators, and
// the last known heading. All state is mutated only by Tick/SetHeading,
// which must be called from a single goroutine (serialize concurrent
// feeds upstream). Multiple engines are independent: one per vessel.
type Engine struct {
	cfg       Config
	buffer    *SampleBuffer
	period    *PeriodDetector
	direction *DirectionEstimator

	heading    float64
	hasHeading bool
}

// NewEngine creates an engine for the given configuration.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{
		cfg:       cfg,
		buffer:    NewSampleBuffer(cfg.BufferCapacity()),
		period:    NewPeriodDetector(cfg.MinimumPeriod, cfg.MaximumPeriod),
		direction: NewDirectionEstimator(cfg.DirectionSmoothing),
	}, nil
}

// SetHeading records the vessel's last known magnetic heading in
// radians. Heading arrives independently of attitude samples.
func (e *Engine) SetHeading(radians float64) {
	e.heading = normalizeAngle(radians)
	e.hasHeading = true
}

// Heading returns the last known heading and whether one was received.
func (e *Engine) Heading() (float64, bool) {
	return e.heading, e.hasHeading
}

// Len returns the current sample buffer depth.
func (e *Engine) Len() int {
	return e.buffer.Len()
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Tick ingests one attitude sample and produces a sea-state estimate.
// A sample missing pitch or roll skips the tick entirely: no state is
// mutated and false is returned. Optional outputs degrade to nil
// rather than failing the result.
func (e *Engine) Tick(sample AttitudeSample) (Result, bool) {
	if !sample.Valid() {
		return Result{}, false
	}

	entry := e.buffer.Push(sample)
	entries := e.buffer.All()

	result := Result{
		Timestamp:       entry.Timestamp,
		MotionMagnitude: entry.MotionMagnitude,
		WaveHeight:      e.cfg.WaveMultiplier * entry.MotionMagnitude,
	}

	if e.cfg.EnableHeave {
		heave := Heave(sample.Pitch, e.cfg.VesselLength)
		result.Heave = &heave
	}

	if e.cfg.EnablePeriod && len(entries) >= minPeriodSamples {
		if period, ok := e.period.Update(entries); ok {
			result.Period = &period
		}
	}

	if e.cfg.EnableDirection && len(entries) >= minDirectionSamples {
		stats := AnalyzeMotion(entries, e.cfg.UpdateRateMs)
		result.DominantAxis = stats.DominantAxis
		if e.hasHeading {
			if dir, _, ok := e.direction.Update(entries, stats, e.heading); ok {
				deg := dir * 180 / math.Pi
				result.Direction = &dir
				result.DirectionDegrees = &deg
			}
		}
	}
	result.DirectionConfidence = e.direction.Confidence()

	return result, true
}

// Reset discards all accumulated state: buffered samples, period and
// direction histories, and the last known heading.
func (e *Engine) Reset() {
	e.buffer.Clear()
	e.period.Reset()
	e.direction.Reset()
	e.heading = 0
	e.hasHeading = false
}
