// Package fersio implements the output sinks a rendered scenario run
// writes to: a packed binary format matching libfers' FersBin headers,
// CSV/XML per-window dumps, and a KML trajectory export for platform
// paths.
package fersio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fers-sim/fers/internal/render"
)

const (
	fileMagic  uint32 = 0xFE12BE10
	fileVersion uint16 = 1

	pulseMagic uint32 = 0xFE12BE20
)

// FileHeader is the fixed 8-byte header written once at the start of
// a binary output file, matching libfers' FersBin::FileHeader.
type FileHeader struct {
	Magic     uint32
	Version   uint16
	FloatSize uint16
}

// PulseResponseHeader precedes each window's sample block, matching
// libfers' FersBin::PulseResponseHeader.
type PulseResponseHeader struct {
	Magic uint32
	Count uint32
	Rate  float64
	Start float64
}

// BinarySink writes windows to w in the packed binary layout.
type BinarySink struct {
	w           io.Writer
	sampleRate  float64
	headerDone  bool
}

// NewBinarySink returns a BinarySink that writes to w.
func NewBinarySink(w io.Writer, sampleRate float64) *BinarySink {
	return &BinarySink{w: w, sampleRate: sampleRate}
}

func (s *BinarySink) writeFileHeader() error {
	h := FileHeader{Magic: fileMagic, Version: fileVersion, FloatSize: 8}
	return binary.Write(s.w, binary.LittleEndian, h)
}

// WriteWindow implements render.WindowSink.
func (s *BinarySink) WriteWindow(w render.Window) error {
	if !s.headerDone {
		if err := s.writeFileHeader(); err != nil {
			return fmt.Errorf("fersio: failed to write file header: %w", err)
		}
		s.headerDone = true
	}

	ph := PulseResponseHeader{
		Magic: pulseMagic,
		Count: uint32(len(w.Samples)),
		Rate:  s.sampleRate,
		Start: w.StartTime,
	}
	if err := binary.Write(s.w, binary.LittleEndian, ph); err != nil {
		return fmt.Errorf("fersio: failed to write pulse response header for window %d: %w", w.Index, err)
	}
	for _, sample := range w.Samples {
		if err := binary.Write(s.w, binary.LittleEndian, real(sample)); err != nil {
			return fmt.Errorf("fersio: failed to write sample: %w", err)
		}
		if err := binary.Write(s.w, binary.LittleEndian, imag(sample)); err != nil {
			return fmt.Errorf("fersio: failed to write sample: %w", err)
		}
	}
	return nil
}
