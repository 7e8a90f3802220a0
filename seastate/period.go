package seastate

import "gonum.org/v1/gonum/stat"

// minPeriodSamples is the buffer depth required before the zero-crossing
// scan produces anything meaningful.
const minPeriodSamples = 10

// periodHistoryMax bounds the smoothing history of accepted period
// estimates. Deeper history means a steadier estimate with more lag.
const periodHistoryMax = 10

// PeriodDetector derives the dominant wave period from zero crossings
// of the roll signal and smooths it over a bounded history of scans.
type PeriodDetector struct {
	minPeriod float64 // seconds
	maxPeriod float64 // seconds
	history   []float64
}

// NewPeriodDetector creates a detector that only accepts periods in
// [minPeriod, maxPeriod] seconds.
func NewPeriodDetector(minPeriod, maxPeriod float64) *PeriodDetector {
	return &PeriodDetector{
		minPeriod: minPeriod,
		maxPeriod: maxPeriod,
	}
}

// Update scans the buffered roll series for zero crossings and returns
// the smoothed period estimate in seconds. Returns false, leaving the
// history untouched, when the buffer is too shallow, fewer than two
// crossings are found, or every candidate falls outside the accepted
// range.
func (d *PeriodDetector) Update(entries []BufferEntry) (float64, bool) {
	if len(entries) < minPeriodSamples {
		return 0, false
	}

	// A crossing is a sign change between consecutive samples. A
	// transition starting from exactly zero is not flagged: that
	// crossing was already recorded on the step that reached zero.
	var crossings []int64
	for i := 1; i < len(entries); i++ {
		prev := entries[i-1].Roll
		curr := entries[i].Roll
		if (prev < 0 && curr >= 0) || (prev > 0 && curr <= 0) {
			crossings = append(crossings, entries[i].Timestamp.UnixMilli())
		}
	}
	if len(crossings) < 2 {
		return 0, false
	}

	// Consecutive crossings span half a wave cycle.
	var accepted []float64
	for i := 1; i < len(crossings); i++ {
		halfPeriod := float64(crossings[i]-crossings[i-1]) / 1000
		period := 2 * halfPeriod
		if period >= d.minPeriod && period <= d.maxPeriod {
			accepted = append(accepted, period)
		}
	}
	if len(accepted) == 0 {
		return 0, false
	}

	d.history = append(d.history, stat.Mean(accepted, nil))
	if len(d.history) > periodHistoryMax {
		d.history = d.history[1:]
	}

	return stat.Mean(d.history, nil), true
}

// Reset clears the smoothing history.
func (d *PeriodDetector) Reset() {
	d.history = nil
}
