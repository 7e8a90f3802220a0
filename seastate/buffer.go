package seastate

import "math"

// SampleBuffer is a fixed-capacity rolling window of attitude samples,
// ordered oldest to newest. It is not safe for concurrent use: the
// engine owns it and is driven by a single consumer loop, so no
// locking happens on the tick path.
type SampleBuffer struct {
	entries  []BufferEntry
	head     int // next write position
	size     int
	capacity int
}

// NewSampleBuffer creates a sample buffer with the given capacity.
func NewSampleBuffer(capacity int) *SampleBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SampleBuffer{
		entries:  make([]BufferEntry, capacity),
		capacity: capacity,
	}
}

// Push converts the sample's pitch/roll to degrees, caches the motion
// magnitude, and appends the entry, evicting the oldest when full.
// Returns the stored entry.
func (b *SampleBuffer) Push(s AttitudeSample) BufferEntry {
	pitchDeg := s.Pitch * 180 / math.Pi
	rollDeg := s.Roll * 180 / math.Pi

	entry := BufferEntry{
		Timestamp:       s.Timestamp,
		Pitch:           s.Pitch,
		Roll:            s.Roll,
		Yaw:             s.Yaw,
		MotionMagnitude: math.Hypot(pitchDeg, rollDeg),
	}

	b.entries[b.head] = entry
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}

	return entry
}

// Len returns the current number of buffered entries.
func (b *SampleBuffer) Len() int {
	return b.size
}

// Capacity returns the maximum number of entries the buffer holds.
func (b *SampleBuffer) Capacity() int {
	return b.capacity
}

// All returns the buffered entries ordered oldest to newest.
func (b *SampleBuffer) All() []BufferEntry {
	result := make([]BufferEntry, b.size)
	for i := 0; i < b.size; i++ {
		idx := (b.head - b.size + i + b.capacity) % b.capacity
		result[i] = b.entries[idx]
	}
	return result
}

// Last returns the newest n entries ordered oldest to newest.
func (b *SampleBuffer) Last(n int) []BufferEntry {
	if n > b.size {
		n = b.size
	}
	result := make([]BufferEntry, n)
	for i := 0; i < n; i++ {
		idx := (b.head - n + i + b.capacity) % b.capacity
		result[i] = b.entries[idx]
	}
	return result
}

// Clear empties the buffer.
func (b *SampleBuffer) Clear() {
	b.head = 0
	b.size = 0
}
