package feed

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"wavesense/seastate"
)

// Interfaces for dependency injection (testing)
type BufferInterface interface {
	Push(result seastate.Result)
	Size() int
	GetStats() map[string]interface{}
}

type CSVWriterInterface interface {
	WriteResult(result seastate.Result)
	Close()
}

// event is one item on the serialized inbound stream: either an
// attitude sample or a heading update, never both.
type event struct {
	sample  *seastate.AttitudeSample
	heading *float64
}

// Collector subscribes to the vessel's attitude and heading topics,
// validates the payloads, and drives the estimation engine. Attitude
// and heading arrive on independent MQTT callbacks; both are funneled
// into a single buffered channel consumed by one run loop, so the
// engine state has exactly one writer.
type Collector struct {
	config Config
	client mqtt.Client
	engine *seastate.Engine
	buffer BufferInterface
	csv    CSVWriterInterface
	stats  *Statistics
	events chan event
	done   chan struct{}

	latestMu  sync.RWMutex
	latest    seastate.Result
	hasLatest bool
	window    int
}

func NewCollector(config Config, buffer BufferInterface, csv CSVWriterInterface) (*Collector, error) {
	engine, err := seastate.NewEngine(config.Engine)
	if err != nil {
		return nil, err
	}
	return &Collector{
		config: config,
		engine: engine,
		buffer: buffer,
		csv:    csv,
		stats:  NewStatistics(),
		events: make(chan event, config.QueueSize),
		done:   make(chan struct{}),
	}, nil
}

func (c *Collector) Start() error {
	log.Printf("[Feed] Starting collector...")
	log.Printf("[Feed] Config: Broker=%s:%d Attitude=%s Heading=%s",
		c.config.MQTTBroker, c.config.MQTTPort, c.config.AttitudeTopic, c.config.HeadingTopic)

	opts := mqtt.NewClientOptions()

	protocol := "tcp"
	if c.config.UseTLS {
		protocol = "tls"
	}
	brokerURL := fmt.Sprintf("%s://%s:%d", protocol, c.config.MQTTBroker, c.config.MQTTPort)
	opts.AddBroker(brokerURL)

	clientID := fmt.Sprintf("wavesense-%s-%s", c.config.VesselID, uuid.NewString()[:8])
	opts.SetClientID(clientID)

	if c.config.MQTTUsername != "" {
		opts.SetUsername(c.config.MQTTUsername)
		opts.SetPassword(c.config.MQTTPassword)
	}

	if c.config.UseTLS {
		opts.SetTLSConfig(&tls.Config{
			InsecureSkipVerify: c.config.InsecureSkipTLS,
		})
	}

	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = c.onConnect
	opts.OnConnectionLost = c.onConnectionLost
	opts.OnReconnecting = c.onReconnecting

	c.client = mqtt.NewClient(opts)

	log.Printf("[MQTT] Connecting to %s as %s...", brokerURL, clientID)

	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("MQTT connect timeout")
	}
	if token.Error() != nil {
		return fmt.Errorf("MQTT connect failed: %w", token.Error())
	}

	go c.runLoop()
	go c.statsReporter()

	log.Printf("[Feed] Collector started successfully")
	return nil
}

func (c *Collector) Stop() {
	log.Printf("[Feed] Stopping collector...")
	close(c.done)

	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(1000)
	}

	if c.csv != nil {
		c.csv.Close()
	}

	log.Printf("[Feed] Collector stopped - %d samples in, %d results out, %d skipped",
		c.stats.SamplesReceived, c.stats.ResultsEmitted, c.stats.TicksSkipped)
}

func (c *Collector) onConnect(client mqtt.Client) {
	log.Printf("[MQTT] Connected successfully")

	c.subscribe(client, c.config.AttitudeTopic, c.onAttitude)
	c.subscribe(client, c.config.HeadingTopic, c.onHeading)
}

func (c *Collector) subscribe(client mqtt.Client, topic string, handler mqtt.MessageHandler) {
	token := client.Subscribe(topic, 0, handler)
	if !token.WaitTimeout(5 * time.Second) {
		log.Printf("[MQTT] Subscribe timeout for %s", topic)
		return
	}
	if token.Error() != nil {
		log.Printf("[MQTT] Subscribe error for %s: %v", topic, token.Error())
		return
	}
	log.Printf("[MQTT] Subscribed to %s", topic)
}

func (c *Collector) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("[MQTT] Connection lost: %v (will auto-reconnect)", err)
}

func (c *Collector) onReconnecting(client mqtt.Client, opts *mqtt.ClientOptions) {
	log.Printf("[MQTT] Reconnecting...")
}

func (c *Collector) onAttitude(client mqtt.Client, msg mqtt.Message) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		c.stats.RecordParseFailure()
		return
	}

	sample := parseAttitude(payload)
	if sample == nil {
		c.stats.RecordParseFailure()
		return
	}
	c.stats.RecordSample()

	c.enqueue(event{sample: sample})
}

func (c *Collector) onHeading(client mqtt.Client, msg mqtt.Message) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		c.stats.RecordParseFailure()
		return
	}

	heading, ok := parseHeading(payload)
	if !ok {
		c.stats.RecordParseFailure()
		return
	}
	c.stats.RecordHeading()

	c.enqueue(event{heading: &heading})
}

func (c *Collector) enqueue(ev event) {
	select {
	case c.events <- ev:
		// Success
	case <-c.done:
	default:
		// Queue full, drop (prioritize latest data)
		c.stats.RecordDrop()
	}
}

// runLoop is the single consumer of the event stream and the only
// goroutine that touches engine state.
func (c *Collector) runLoop() {
	log.Printf("[Feed] Run loop started")

	for {
		select {
		case ev := <-c.events:
			if ev.heading != nil {
				c.engine.SetHeading(*ev.heading)
				continue
			}

			result, ok := c.engine.Tick(*ev.sample)
			if !ok {
				c.stats.RecordSkipped()
				continue
			}
			c.stats.RecordResult()

			c.latestMu.Lock()
			c.latest = result
			c.hasLatest = true
			c.window = c.engine.Len()
			c.latestMu.Unlock()

			if c.buffer != nil {
				c.buffer.Push(result)
			}
			if c.csv != nil {
				c.csv.WriteResult(result)
			}

		case <-c.done:
			log.Printf("[Feed] Run loop stopped")
			return
		}
	}
}

func (c *Collector) statsReporter() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snapshot := c.stats.GetSnapshot()
			depth, capacity := c.WindowDepth()
			log.Printf("[Feed] Stats: %d samples, %.1f/s, %d results, window: %d/%d",
				snapshot["samples_received"],
				snapshot["samples_per_sec"],
				snapshot["results_emitted"],
				depth,
				capacity)

		case <-c.done:
			return
		}
	}
}

// Latest returns the most recent sea-state estimate, if any.
func (c *Collector) Latest() (seastate.Result, bool) {
	c.latestMu.RLock()
	defer c.latestMu.RUnlock()
	return c.latest, c.hasLatest
}

func (c *Collector) Buffer() BufferInterface {
	return c.buffer
}

func (c *Collector) Stats() *Statistics {
	return c.stats
}

func (c *Collector) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// WindowDepth returns the engine's sample count as of the last emitted
// result, plus the window capacity. The engine itself is only touched
// by the run loop.
func (c *Collector) WindowDepth() (int, int) {
	c.latestMu.RLock()
	defer c.latestMu.RUnlock()
	return c.window, c.engine.Config().BufferCapacity()
}
