package feed

import (
	"sync"
	"time"

	"wavesense/seastate"
)

// Config holds the attitude feed configuration.
type Config struct {
	MQTTBroker      string
	MQTTPort        int
	MQTTUsername    string
	MQTTPassword    string
	AttitudeTopic   string
	HeadingTopic    string
	UseTLS          bool
	InsecureSkipTLS bool
	VesselID        string
	QueueSize       int
	EnableCSV       bool
	CSVResultsPath  string
	ResultBufferLen int

	Engine seastate.Config
}

// DefaultConfig returns the standard feed configuration: a local
// broker, one day of result history at the default 1 Hz tick rate.
func DefaultConfig() Config {
	return Config{
		MQTTBroker:      "localhost",
		MQTTPort:        1883,
		AttitudeTopic:   "vessels/wavesense-dev01/attitude",
		HeadingTopic:    "vessels/wavesense-dev01/heading",
		UseTLS:          false,
		InsecureSkipTLS: false,
		VesselID:        "wavesense-dev01",
		QueueSize:       1000,
		EnableCSV:       true,
		CSVResultsPath:  "data/seastate.csv",
		ResultBufferLen: 86400,
		Engine:          seastate.DefaultConfig(),
	}
}

// Statistics tracks feed and engine throughput.
type Statistics struct {
	mu              sync.RWMutex
	SamplesReceived int64
	TicksSkipped    int64
	HeadingUpdates  int64
	ResultsEmitted  int64
	ParseFailures   int64
	QueueDrops      int64
	LastUpdate      time.Time
	StartTime       time.Time
}

func NewStatistics() *Statistics {
	return &Statistics{
		StartTime:  time.Now(),
		LastUpdate: time.Now(),
	}
}

func (s *Statistics) RecordSample() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SamplesReceived++
	s.LastUpdate = time.Now()
}

func (s *Statistics) RecordSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TicksSkipped++
}

func (s *Statistics) RecordHeading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HeadingUpdates++
	s.LastUpdate = time.Now()
}

func (s *Statistics) RecordResult() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ResultsEmitted++
}

func (s *Statistics) RecordParseFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ParseFailures++
}

func (s *Statistics) RecordDrop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.QueueDrops++
}

// GetSnapshot returns the counters plus derived rates for the status
// endpoint.
func (s *Statistics) GetSnapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uptime := time.Since(s.StartTime)
	samplesPerSec := 0.0
	if uptime.Seconds() > 0 {
		samplesPerSec = float64(s.SamplesReceived) / uptime.Seconds()
	}

	return map[string]interface{}{
		"samples_received": s.SamplesReceived,
		"ticks_skipped":    s.TicksSkipped,
		"heading_updates":  s.HeadingUpdates,
		"results_emitted":  s.ResultsEmitted,
		"parse_failures":   s.ParseFailures,
		"queue_drops":      s.QueueDrops,
		"samples_per_sec":  samplesPerSec,
		"uptime_seconds":   uptime.Seconds(),
		"last_update":      s.LastUpdate,
	}
}
