package seastate

import "math"

// Heave converts the latest pitch angle into vertical displacement at
// the bow, assuming the attitude sensor sits at the vessel's center of
// motion. No correction is applied for off-center mounting.
func Heave(pitchRadians, vesselLengthMeters float64) float64 {
	return vesselLengthMeters * math.Sin(pitchRadians)
}
