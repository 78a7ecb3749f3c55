package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ayumu-h/zonewatch/internal/annotate"
	"github.com/ayumu-h/zonewatch/internal/config"
	"github.com/ayumu-h/zonewatch/internal/ingest"
	"github.com/ayumu-h/zonewatch/internal/logger"
	"github.com/ayumu-h/zonewatch/internal/metrics"
	"github.com/ayumu-h/zonewatch/internal/monitor"
	"github.com/ayumu-h/zonewatch/internal/zone"
)

var (
	// Command-line flags
	configPath    = flag.String("config", "zones.json", "Zone configuration file")
	inputPath     = flag.String("input", "-", "Detection stream (NDJSON file or '-' for stdin)")
	httpAddr      = flag.String("http", ":8081", "HTTP server address")
	metricsAddr   = flag.String("metrics", ":9090", "Metrics server address")
	overlayWidth  = flag.Int("overlay-width", 1280, "Overlay snapshot width")
	overlayHeight = flag.Int("overlay-height", 720, "Overlay snapshot height")
	logLevel      = flag.String("log-level", "info", "Log level (debug, info, warn, error, silent)")
	logColor      = flag.Bool("log-color", true, "Enable colored log output")
)

// Options carries the server knobs that arrive as flags.
type Options struct {
	HTTPAddr      string
	MetricsAddr   string
	OverlayWidth  int
	OverlayHeight int
}

// Server is the counting server: one ingest loop feeding the zone set,
// plus the operator HTTP surfaces.
type Server struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	opts       Options
	style      annotate.Style
	metrics    *metrics.Metrics
	mon        *monitor.Monitor
	input      io.ReadCloser
	httpServer *http.Server
}

func main() {
	flag.Parse()

	// Initialize logger
	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger.Init(level, os.Stderr, *logColor)

	logger.Info("Main", "Zone counting server starting...")
	logger.Info("Main", "Log level: %s", level)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	input, err := openInput(*inputPath)
	if err != nil {
		log.Fatalf("Failed to open detection stream: %v", err)
	}

	srv, err := NewServer(cfg, input, Options{
		HTTPAddr:      *httpAddr,
		MetricsAddr:   *metricsAddr,
		OverlayWidth:  *overlayWidth,
		OverlayHeight: *overlayHeight,
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	srv.Start()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	if err := srv.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return file, nil
}

// NewServer builds the zone set from the config, arms persistence when
// configured and wires the HTTP surfaces.
func NewServer(cfg *config.Config, input io.ReadCloser, opts Options) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())

	set, err := zone.NewSet(cfg.ZoneSpecs(), cfg.Defaults())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build zone set: %w", err)
	}

	m := metrics.New()
	if pc := cfg.PersistSettings(); pc != nil {
		if err := set.EnablePersistence(*pc); err != nil {
			cancel()
			return nil, fmt.Errorf("enable persistence: %w", err)
		}
		m.PersistArmed.Store(1)
	}

	mux := http.NewServeMux()
	srv := &Server{
		ctx:    ctx,
		cancel: cancel,
		opts:   opts,
		style: annotate.Style{
			Color:        color.RGBA{R: cfg.Render.Color[0], G: cfg.Render.Color[1], B: cfg.Render.Color[2], A: 255},
			BoxThickness: cfg.Render.BoxThickness,
			TextOffset:   image.Pt(cfg.Render.TextOffset.X, cfg.Render.TextOffset.Y),
			TextScale:    cfg.Render.TextScale,
		},
		metrics: m,
		mon:     monitor.New(set),
		input:   input,
		httpServer: &http.Server{
			Addr:    opts.HTTPAddr,
			Handler: mux,
		},
	}
	srv.setupRoutes(mux)

	return srv, nil
}

// Start starts the ingest loop and the HTTP servers.
func (s *Server) Start() {
	logger.Info("Main", "Session: %s", s.mon.SessionID())
	logger.Info("Main", "HTTP server: %s", s.opts.HTTPAddr)
	logger.Info("Main", "Metrics server: %s", s.opts.MetricsAddr)

	// Start metrics server
	go func() {
		if err := s.metrics.StartServer(s.opts.MetricsAddr); err != nil {
			logger.Error("HTTP", "Metrics server error: %v", err)
		}
	}()

	// Start HTTP server
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP", "Server error: %v", err)
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop()
	}()
}

// runLoop drains the detection stream: per frame, every position is
// checked and the set ticks once. A persistence failure is fatal to the
// loop; the HTTP surfaces stay up for inspection.
func (s *Server) runLoop() {
	logger.Info("Loop", "Reading detection stream")
	reader := ingest.NewReader(s.input)

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		frame, err := reader.Next()
		if err == io.EOF {
			logger.Info("Loop", "Detection stream ended after %d frames", s.metrics.FramesTicked.Load())
			return
		}
		if err != nil {
			s.metrics.IngestErrors.Add(1)
			logger.Warn("Loop", "Ingest error: %v", err)
			continue
		}

		positions, err := ingest.Positions(frame)
		if err != nil {
			s.metrics.IngestErrors.Add(1)
			logger.Warn("Loop", "Frame %d: %v", frame.FrameNumber, err)
			continue
		}

		if err := s.mon.Advance(positions); err != nil {
			if errors.Is(err, zone.ErrInvalidInput) {
				s.metrics.IngestErrors.Add(1)
				logger.Warn("Loop", "Frame %d: %v", frame.FrameNumber, err)
				continue
			}
			// Persistence failure: no retry, the loop stops.
			logger.Error("Loop", "Frame %d: %v", frame.FrameNumber, err)
			return
		}

		s.metrics.FramesTicked.Add(1)
		s.metrics.PositionsChecked.Add(uint64(len(positions)))
		s.metrics.FramesSkipped.Store(reader.Skipped())
		s.publishZoneStats()
	}
}

func (s *Server) publishZoneStats() {
	stats := s.mon.Snapshot()
	for _, z := range stats.Zones {
		s.metrics.SetZoneValue(z.Name, z.Value)
	}
	s.metrics.RowsWritten.Store(stats.Persistence.Rows)
	s.metrics.LogBytes.Store(stats.Persistence.BytesWritten)
}

// setupRoutes sets up HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/overlay.png", s.handleOverlay)
}

// handleHealth handles health checks
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "ok",
		"session_id": s.mon.SessionID(),
		"frames":     s.metrics.FramesTicked.Load(),
	})
}

// handleStatus handles status requests
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.mon.Snapshot())
}

// handleOverlay serves a PNG snapshot of the zones and their current
// smoothed values on a synthesized canvas.
func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	img := s.mon.RenderOverlay(s.opts.OverlayWidth, s.opts.OverlayHeight, s.style)
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		logger.Warn("HTTP", "Overlay encode error: %v", err)
	}
}

// Shutdown stops the ingest loop, closes the count log and shuts down
// the HTTP server.
func (s *Server) Shutdown() error {
	s.cancel()
	s.input.Close()
	s.wg.Wait()

	if err := s.mon.Close(); err != nil {
		logger.Error("Main", "Close count log: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
