package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"wavesense/feed"
	"wavesense/storage"
)

//go:embed dashboard.html
var htmlDashboard []byte

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type apiServer struct {
	collector *feed.Collector
	ring      *storage.ResultRing
}

func (s *apiServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(htmlDashboard)
}

func (s *apiServer) handleLatest(w http.ResponseWriter, r *http.Request) {
	result, ok := s.collector.Latest()
	if !ok {
		http.Error(w, "no estimate yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	n := 300
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "n must be a positive integer", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"results": s.ring.GetRecent(n),
	})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	depth, capacity := s.collector.WindowDepth()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"feed":            s.collector.Stats().GetSnapshot(),
		"history":         s.ring.GetStats(),
		"window_depth":    depth,
		"window_capacity": capacity,
		"connected":       s.collector.IsConnected(),
	})
}

func (s *apiServer) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var lastSent time.Time
	for {
		select {
		case <-ticker.C:
			result, ok := s.collector.Latest()
			if !ok || result.Timestamp.Equal(lastSent) {
				continue
			}
			lastSent = result.Timestamp

			data, _ := json.Marshal(result)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		case <-r.Context().Done():
			return
		}
	}
}

func (s *apiServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var lastSent time.Time
	for {
		select {
		case <-ticker.C:
			result, ok := s.collector.Latest()
			if !ok || result.Timestamp.Equal(lastSent) {
				continue
			}
			lastSent = result.Timestamp

			if err := conn.WriteJSON(result); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

func main() {
	cfg := feed.DefaultConfig()

	listen := flag.String("listen", ":8080", "HTTP listen address")
	flag.StringVar(&cfg.MQTTBroker, "broker", cfg.MQTTBroker, "MQTT broker host")
	flag.IntVar(&cfg.MQTTPort, "port", cfg.MQTTPort, "MQTT broker port")
	flag.StringVar(&cfg.MQTTUsername, "user", cfg.MQTTUsername, "MQTT username")
	flag.StringVar(&cfg.MQTTPassword, "pass", cfg.MQTTPassword, "MQTT password")
	flag.BoolVar(&cfg.UseTLS, "tls", cfg.UseTLS, "connect to the broker over TLS")
	flag.StringVar(&cfg.VesselID, "vessel", cfg.VesselID, "vessel identifier")
	flag.StringVar(&cfg.AttitudeTopic, "attitude-topic", cfg.AttitudeTopic, "attitude sample topic")
	flag.StringVar(&cfg.HeadingTopic, "heading-topic", cfg.HeadingTopic, "heading topic")
	flag.StringVar(&cfg.CSVResultsPath, "csv", cfg.CSVResultsPath, "sea-state CSV log path")
	flag.BoolVar(&cfg.EnableCSV, "csv-enable", cfg.EnableCSV, "write the sea-state CSV log")
	flag.Float64Var(&cfg.Engine.VesselLength, "vessel-length", cfg.Engine.VesselLength, "vessel length in meters")
	flag.Float64Var(&cfg.Engine.WaveMultiplier, "wave-multiplier", cfg.Engine.WaveMultiplier, "wave height per degree of motion")
	flag.Parse()

	ring := storage.NewResultRing(cfg.ResultBufferLen)

	var csvWriter *storage.CSVWriter
	var csvSink feed.CSVWriterInterface
	if cfg.EnableCSV {
		csvWriter = storage.NewCSVWriter(cfg.CSVResultsPath)
		csvSink = csvWriter
	}

	collector, err := feed.NewCollector(cfg, ring, csvSink)
	if err != nil {
		log.Fatalf("Failed to initialize collector: %v", err)
	}

	if err := collector.Start(); err != nil {
		log.Printf("[WARN] Feed collector failed to start: %v", err)
		log.Printf("[WARN] Running without live attitude data")
	} else {
		defer collector.Stop()
	}

	api := &apiServer{collector: collector, ring: ring}

	mux := http.NewServeMux()
	mux.HandleFunc("/", api.handleDashboard)
	mux.HandleFunc("/api/seastate/latest", api.handleLatest)
	mux.HandleFunc("/api/seastate/history", api.handleHistory)
	mux.HandleFunc("/api/seastate/status", api.handleStatus)
	mux.HandleFunc("/api/seastate/stream", api.handleStream)
	mux.HandleFunc("/ws", api.handleWS)

	server := &http.Server{Addr: *listen, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[HTTP] Sea-state server listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
