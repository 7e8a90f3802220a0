package seastate

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// minDirectionSamples is the buffer depth required before a direction
// estimate is attempted.
const minDirectionSamples = 10

// directionHistoryMax bounds the history of reported directions used
// for the circular-variance confidence score.
const directionHistoryMax = 10

// minConfidenceHistory is the history depth above which the confidence
// score is recomputed; below it the last value is carried forward.
const minConfidenceHistory = 5

// directionVectorWindow is how many of the newest entries feed the
// vector analysis when neither axis dominates.
const directionVectorWindow = 10

// DirectionEstimator derives the absolute wave bearing from motion
// statistics and the vessel heading, smooths it along the shortest
// angular path, and tracks a confidence score from the spread of
// recent estimates.
type DirectionEstimator struct {
	smoothing float64

	lastDirection  float64
	hasLast        bool
	history        []float64
	lastConfidence float64
}

// NewDirectionEstimator creates an estimator with the given smoothing
// factor in (0,1]; values near 1 follow the raw estimate immediately.
func NewDirectionEstimator(smoothing float64) *DirectionEstimator {
	return &DirectionEstimator{smoothing: smoothing}
}

// Update computes the smoothed absolute wave direction in [0,2π) and
// the current confidence in [0,1]. heading is the vessel's magnetic
// heading in radians. Returns false, with no state change, when the
// window is too shallow.
func (d *DirectionEstimator) Update(entries []BufferEntry, stats MotionStats, heading float64) (float64, float64, bool) {
	if len(entries) < minDirectionSamples {
		return 0, d.lastConfidence, false
	}

	relative := relativeDirection(entries, stats)
	absolute := normalizeAngle(relative + heading)

	// Exponential smoothing along the shortest angular path avoids a
	// jump when the estimate crosses the 0/2π seam.
	if d.hasLast {
		delta := wrapAngle(absolute - d.lastDirection)
		absolute = normalizeAngle(d.lastDirection + d.smoothing*delta)
	}
	d.lastDirection = absolute
	d.hasLast = true

	d.history = append(d.history, absolute)
	if len(d.history) > directionHistoryMax {
		d.history = d.history[1:]
	}
	if len(d.history) > minConfidenceHistory {
		d.lastConfidence = circularConfidence(d.history)
	}

	return absolute, d.lastConfidence, true
}

// Confidence returns the last computed confidence score.
func (d *DirectionEstimator) Confidence() float64 {
	return d.lastConfidence
}

// Reset clears the smoothing and confidence state.
func (d *DirectionEstimator) Reset() {
	d.lastDirection = 0
	d.hasLast = false
	d.history = nil
	d.lastConfidence = 0
}

// relativeDirection estimates the wave bearing in the vessel frame:
// 0 = bow, π/2 = starboard.
func relativeDirection(entries []BufferEntry, stats MotionStats) float64 {
	var relative float64
	switch stats.DominantAxis {
	case AxisPitch:
		// Pitch-driven motion means waves along the hull: bow when
		// pitch and roll move together, stern otherwise.
		if stats.CrossCorrelation > 0 {
			relative = 0
		} else {
			relative = math.Pi
		}
	case AxisRoll:
		if stats.CrossCorrelation > 0 {
			relative = math.Pi / 2
		} else {
			relative = 3 * math.Pi / 2
		}
	default:
		// Neither axis dominates: vector-sum the instantaneous motion
		// angles weighted by motion magnitude over the newest entries.
		recent := entries
		if len(recent) > directionVectorWindow {
			recent = recent[len(recent)-directionVectorWindow:]
		}
		var sumX, sumY float64
		for _, e := range recent {
			angle := math.Atan2(e.Roll, e.Pitch)
			sumX += math.Cos(angle) * e.MotionMagnitude
			sumY += math.Sin(angle) * e.MotionMagnitude
		}
		relative = math.Atan2(sumY, sumX)
	}
	return normalizeAngle(relative)
}

// circularConfidence maps the circular variance of the direction
// history onto [0,1]: tightly clustered estimates score near 1.
func circularConfidence(history []float64) float64 {
	circMean := stat.CircularMean(history, nil)

	var variance float64
	for _, theta := range history {
		dev := wrapAngle(theta - circMean)
		variance += dev * dev
	}
	variance /= float64(len(history))

	return math.Max(0, 1-variance/(math.Pi*math.Pi/4))
}

// normalizeAngle maps an angle into [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// wrapAngle maps an angular difference into [-π, π].
func wrapAngle(d float64) float64 {
	d = math.Mod(d+math.Pi, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d - math.Pi
}
