package storage

import (
	"sync"
	"time"

	"wavesense/seastate"
)

// ResultRing keeps a bounded in-memory history of sea-state estimates
// for the HTTP API. Unlike the engine's sample window this ring is
// read from HTTP handler goroutines, so it is locked.
type ResultRing struct {
	data     []seastate.Result
	head     int
	size     int
	capacity int
	mu       sync.RWMutex
}

func NewResultRing(capacity int) *ResultRing {
	if capacity < 1 {
		capacity = 1
	}
	return &ResultRing{
		data:     make([]seastate.Result, capacity),
		capacity: capacity,
	}
}

func (r *ResultRing) Push(result seastate.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[r.head] = result
	r.head = (r.head + 1) % r.capacity
	if r.size < r.capacity {
		r.size++
	}
}

// GetRecent returns up to n results, newest first.
func (r *ResultRing) GetRecent(n int) []seastate.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n > r.size {
		n = r.size
	}
	result := make([]seastate.Result, n)
	for i := 0; i < n; i++ {
		idx := (r.head - 1 - i + r.capacity) % r.capacity
		result[i] = r.data[idx]
	}
	return result
}

// Latest returns the newest result, or nil when empty.
func (r *ResultRing) Latest() *seastate.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.size == 0 {
		return nil
	}
	idx := (r.head - 1 + r.capacity) % r.capacity
	result := r.data[idx]
	return &result
}

// GetByTimeRange returns all results with timestamps in [start, end],
// oldest first.
func (r *ResultRing) GetByTimeRange(start, end time.Time) []seastate.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]seastate.Result, 0)
	for i := 0; i < r.size; i++ {
		idx := (r.head - r.size + i + r.capacity) % r.capacity
		res := r.data[idx]
		if !res.Timestamp.Before(start) && !res.Timestamp.After(end) {
			result = append(result, res)
		}
	}
	return result
}

func (r *ResultRing) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *ResultRing) Capacity() int {
	return r.capacity
}

func (r *ResultRing) GetStats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	oldest := time.Time{}
	newest := time.Time{}

	if r.size > 0 {
		oldestIdx := (r.head - r.size + r.capacity) % r.capacity
		oldest = r.data[oldestIdx].Timestamp

		newestIdx := (r.head - 1 + r.capacity) % r.capacity
		newest = r.data[newestIdx].Timestamp
	}

	return map[string]interface{}{
		"size":              r.size,
		"capacity":          r.capacity,
		"utilization":       float64(r.size) / float64(r.capacity) * 100.0,
		"oldest_timestamp":  oldest,
		"newest_timestamp":  newest,
		"time_span_seconds": newest.Sub(oldest).Seconds(),
	}
}
