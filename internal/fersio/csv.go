package fersio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fers-sim/fers/internal/render"
)

// CSVSink writes one row per sample as (window, sample index within
// window, time, real, imag).
type CSVSink struct {
	w          *csv.Writer
	sampleRate float64
	wroteHead  bool
}

// NewCSVSink returns a CSVSink writing to w.
func NewCSVSink(w io.Writer, sampleRate float64) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w), sampleRate: sampleRate}
}

// WriteWindow implements render.WindowSink.
func (s *CSVSink) WriteWindow(win render.Window) error {
	if !s.wroteHead {
		if err := s.w.Write([]string{"window", "sample", "time", "real", "imag"}); err != nil {
			return fmt.Errorf("fersio: csv header: %w", err)
		}
		s.wroteHead = true
	}
	for i, sample := range win.Samples {
		t := win.StartTime + float64(i)/s.sampleRate
		row := []string{
			strconv.Itoa(win.Index),
			strconv.Itoa(i),
			strconv.FormatFloat(t, 'g', -1, 64),
			strconv.FormatFloat(real(sample), 'g', -1, 64),
			strconv.FormatFloat(imag(sample), 'g', -1, 64),
		}
		if err := s.w.Write(row); err != nil {
			return fmt.Errorf("fersio: csv row: %w", err)
		}
	}
	s.w.Flush()
	return s.w.Error()
}
