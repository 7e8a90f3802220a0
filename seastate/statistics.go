package seastate

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// minStatsSamples is the buffer depth required before motion statistics
// are computed; below it AnalyzeMotion returns neutral values.
const minStatsSamples = 5

// minPhaseSamples is the buffer depth required before the peak-pairing
// phase shift estimate is attempted.
const minPhaseSamples = 10

// varianceEpsilon guards the cross-correlation denominator against
// near-zero variance on a calm sea.
const varianceEpsilon = 1e-10

// MotionStats summarizes the pitch/roll motion over the sample window.
type MotionStats struct {
	PitchVariance    float64
	RollVariance     float64
	CrossCorrelation float64
	DominantAxis     DominantAxis
	PhaseShiftMs     float64
}

// AnalyzeMotion computes population statistics over the radian
// pitch/roll series of the buffered entries. updateRateMs is the
// sample spacing used to express the phase shift in milliseconds.
func AnalyzeMotion(entries []BufferEntry, updateRateMs int) MotionStats {
	if len(entries) < minStatsSamples {
		return MotionStats{DominantAxis: AxisCombined}
	}

	pitch := make([]float64, len(entries))
	roll := make([]float64, len(entries))
	for i, e := range entries {
		pitch[i] = e.Pitch
		roll[i] = e.Roll
	}

	meanPitch := stat.Mean(pitch, nil)
	meanRoll := stat.Mean(roll, nil)

	// Population variance (divide by N) and raw covariance sum.
	var sumSqPitch, sumSqRoll, sumCross float64
	for i := range pitch {
		dp := pitch[i] - meanPitch
		dr := roll[i] - meanRoll
		sumSqPitch += dp * dp
		sumSqRoll += dr * dr
		sumCross += dp * dr
	}
	n := float64(len(pitch))
	varPitch := sumSqPitch / n
	varRoll := sumSqRoll / n

	corr := sumCross / (n * math.Sqrt(varPitch*varRoll+varianceEpsilon))
	if math.IsNaN(corr) {
		corr = 0
	}

	stats := MotionStats{
		PitchVariance:    varPitch,
		RollVariance:     varRoll,
		CrossCorrelation: corr,
		DominantAxis:     classifyAxis(varPitch, varRoll),
	}

	if len(entries) > minPhaseSamples {
		stats.PhaseShiftMs = phaseShiftMs(pitch, roll, updateRateMs)
	}

	return stats
}

// classifyAxis picks the dominant motion axis from the variance ratio.
func classifyAxis(varPitch, varRoll float64) DominantAxis {
	ratio := varPitch / (varRoll + varianceEpsilon)
	switch {
	case ratio > 2:
		return AxisPitch
	case ratio < 0.5:
		return AxisRoll
	default:
		return AxisCombined
	}
}

// phaseShiftMs estimates the pitch-to-roll phase shift by pairing each
// pitch peak with its nearest roll peak by index. The same roll peak
// may serve several pitch peaks; on an equidistant tie the earlier
// peak wins.
func phaseShiftMs(pitch, roll []float64, updateRateMs int) float64 {
	pitchPeaks := localMaxima(pitch)
	rollPeaks := localMaxima(roll)
	if len(pitchPeaks) == 0 || len(rollPeaks) == 0 {
		return 0
	}

	var sum float64
	for _, pp := range pitchPeaks {
		nearest := rollPeaks[0]
		best := abs(rollPeaks[0] - pp)
		for _, rp := range rollPeaks[1:] {
			if d := abs(rp - pp); d < best {
				best = d
				nearest = rp
			}
		}
		sum += float64(nearest-pp) * float64(updateRateMs)
	}
	return sum / float64(len(pitchPeaks))
}

// localMaxima returns the indices of strict interior local maxima.
func localMaxima(series []float64) []int {
	var peaks []int
	for i := 1; i < len(series)-1; i++ {
		if series[i] > series[i-1] && series[i] > series[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
