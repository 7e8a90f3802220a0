package feed

import (
	"math"
	"time"

	"wavesense/seastate"
)

// The onboard sensors publish loosely-typed JSON: angles may arrive in
// radians or degrees depending on firmware, timestamps in epoch
// milliseconds. Everything is validated into typed values here so the
// engine never sees an unstructured payload.

// parseAttitude builds a typed attitude sample from a raw payload.
// Returns nil when the payload carries no recognizable angle fields.
// Missing pitch or roll becomes NaN: the engine skips those ticks and
// the skip is counted, which distinguishes a degraded sensor from a
// garbage payload.
func parseAttitude(payload map[string]interface{}) *seastate.AttitudeSample {
	pitch, okPitch := angleField(payload, "pitch", "pitch_deg")
	roll, okRoll := angleField(payload, "roll", "roll_deg")
	yaw, okYaw := angleField(payload, "yaw", "yaw_deg")

	if !okPitch && !okRoll && !okYaw {
		return nil
	}

	sample := &seastate.AttitudeSample{
		Timestamp: payloadTimestamp(payload),
		Pitch:     math.NaN(),
		Roll:      math.NaN(),
		Yaw:       math.NaN(),
	}
	if okPitch {
		sample.Pitch = pitch
	}
	if okRoll {
		sample.Roll = roll
	}
	if okYaw {
		sample.Yaw = yaw
	}
	return sample
}

// parseHeading extracts a magnetic heading in radians.
func parseHeading(payload map[string]interface{}) (float64, bool) {
	return angleField(payload, "heading", "heading_deg")
}

// angleField reads an angle, preferring the radian key and falling
// back to the degree key.
func angleField(payload map[string]interface{}, radKey, degKey string) (float64, bool) {
	if v, ok := numberField(payload, radKey); ok {
		return v, true
	}
	if v, ok := numberField(payload, degKey); ok {
		return v * math.Pi / 180, true
	}
	return 0, false
}

func numberField(payload map[string]interface{}, key string) (float64, bool) {
	raw, ok := payload[key]
	if !ok {
		return 0, false
	}
	v, ok := raw.(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// payloadTimestamp reads an epoch-millisecond timestamp, falling back
// to receive time.
func payloadTimestamp(payload map[string]interface{}) time.Time {
	if ts, ok := numberField(payload, "ts"); ok {
		return time.UnixMilli(int64(ts))
	}
	if ts, ok := numberField(payload, "timestamp"); ok {
		return time.UnixMilli(int64(ts))
	}
	return time.Now()
}
