// Package monitor serves a small HTTP interface for observing a
// running simulation: a health check, a JSON status endpoint, a
// go-echarts debugging chart and a plain HTML index page, grounded on the
// teacher's lidar WebServer (NewWebServer/Start/RegisterRoutes shape)
// narrowed to the handful of counters a radar simulation run exposes.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fers-sim/fers/internal/world"
)

// WebServer handles the HTTP interface for monitoring a simulation run.
type WebServer struct {
	address string
	stats   *Stats
	world   *world.World
	runID   int64
	server  *http.Server
}

// WebServerConfig configures a new WebServer.
type WebServerConfig struct {
	Address string
	Stats   *Stats
	World   *world.World
	RunID   int64
}

// NewWebServer constructs a WebServer from config. Start must be
// called to actually begin serving.
func NewWebServer(config WebServerConfig) *WebServer {
	return &WebServer{
		address: config.Address,
		stats:   config.Stats,
		world:   config.World,
		runID:   config.RunID,
	}
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// RegisterRoutes registers every monitor route on mux.
func (ws *WebServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/api/status", ws.handleStatus)
	mux.HandleFunc("/debug/windows", ws.handleWindowsChart)
	mux.HandleFunc("/debug", ws.handleDashboard)
}

// Start begins the HTTP server in a goroutine and blocks until ctx is
// cancelled, then shuts the server down gracefully.
func (ws *WebServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	ws.RegisterRoutes(mux)
	ws.server = &http.Server{Addr: ws.address, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		opsf("monitor: listening on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("monitor: server failed: %w", err)
	case <-ctx.Done():
	}

	opsf("monitor: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("monitor: shutdown: %w", err)
	}
	return nil
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","service":"fers","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}

func (ws *WebServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	var snap StatsSnapshot
	if ws.stats != nil {
		snap = ws.stats.Snapshot()
	}

	response := struct {
		RunID           int64   `json:"run_id,omitempty"`
		Transmitters    int     `json:"transmitters"`
		Receivers       int     `json:"receivers"`
		Targets         int     `json:"targets"`
		WindowsRendered int64   `json:"windows_rendered"`
		SamplesRendered int64   `json:"samples_rendered"`
		LastPeakMag     float64 `json:"last_peak_magnitude"`
		LastReceiver    string  `json:"last_receiver,omitempty"`
		LastWindow      int     `json:"last_window"`
		UptimeSeconds   float64 `json:"uptime_seconds"`
	}{
		RunID:           ws.runID,
		WindowsRendered: snap.WindowsRendered,
		SamplesRendered: snap.SamplesRendered,
		LastPeakMag:     snap.LastPeakMag,
		LastReceiver:    snap.LastReceiver,
		LastWindow:      snap.LastWindow,
		UptimeSeconds:   snap.Uptime.Seconds(),
	}
	if ws.world != nil {
		response.Transmitters = len(ws.world.Transmitters())
		response.Receivers = len(ws.world.Receivers())
		response.Targets = len(ws.world.Targets())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
