package monitor

import "github.com/fers-sim/fers/internal/render"

// StatsSink wraps another WindowSink, recording every window into
// Stats before forwarding it, so a run can be monitored without the
// renderer knowing anything about HTTP.
type StatsSink struct {
	stats *Stats
	next  render.WindowSink
}

var _ render.WindowSink = (*StatsSink)(nil)

// NewStatsSink returns a WindowSink that updates stats and then, if
// next is non-nil, forwards the window to it unchanged.
func NewStatsSink(stats *Stats, next render.WindowSink) *StatsSink {
	return &StatsSink{stats: stats, next: next}
}

// WriteWindow implements render.WindowSink.
func (s *StatsSink) WriteWindow(w render.Window) error {
	s.stats.AddWindow(w)
	if s.next == nil {
		return nil
	}
	return s.next.WriteWindow(w)
}
