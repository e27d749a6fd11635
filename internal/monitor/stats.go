package monitor

import (
	"math/cmplx"
	"sync"
	"time"

	"github.com/fers-sim/fers/internal/render"
)

// historyLimit bounds how many recent windows per receiver Stats
// keeps in memory for the debug charts; older entries are dropped.
const historyLimit = 500

// WindowPoint is one rendered window's index and peak magnitude,
// retained for the peak-magnitude chart.
type WindowPoint struct {
	Index   int
	Peak    float64
	StartTime float64
}

// StatsSnapshot is a point-in-time readout of rendering progress.
type StatsSnapshot struct {
	WindowsRendered int64
	SamplesRendered int64
	LastPeakMag     float64
	LastReceiver    string
	LastWindow      int
	Uptime          time.Duration
	Timestamp       time.Time
}

// Stats tracks rendering throughput with thread-safe operations, the
// same counters-plus-mutex shape as the teacher's PacketStats applied
// to rendered windows instead of parsed packets.
type Stats struct {
	mu              sync.Mutex
	startTime       time.Time
	windowsRendered int64
	samplesRendered int64
	lastPeakMag     float64
	lastReceiver    string
	lastWindow      int
	history         map[string][]WindowPoint
}

// NewStats returns a Stats instance whose uptime is measured from now.
func NewStats() *Stats {
	return &Stats{startTime: time.Now(), history: make(map[string][]WindowPoint)}
}

// AddWindow records one rendered window.
func (s *Stats) AddWindow(w render.Window) {
	peak := 0.0
	for _, sample := range w.Samples {
		if mag := cmplx.Abs(sample); mag > peak {
			peak = mag
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.windowsRendered++
	s.samplesRendered += int64(len(w.Samples))
	s.lastPeakMag = peak
	s.lastReceiver = w.Receiver
	s.lastWindow = w.Index

	points := append(s.history[w.Receiver], WindowPoint{Index: w.Index, Peak: peak, StartTime: w.StartTime})
	if len(points) > historyLimit {
		points = points[len(points)-historyLimit:]
	}
	s.history[w.Receiver] = points
}

// History returns a copy of the retained window points for receiver,
// oldest first.
func (s *Stats) History(receiver string) []WindowPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	points := s.history[receiver]
	out := make([]WindowPoint, len(points))
	copy(out, points)
	return out
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		WindowsRendered: s.windowsRendered,
		SamplesRendered: s.samplesRendered,
		LastPeakMag:     s.lastPeakMag,
		LastReceiver:    s.lastReceiver,
		LastWindow:      s.lastWindow,
		Uptime:          time.Since(s.startTime).Round(time.Millisecond),
		Timestamp:       time.Now(),
	}
}
