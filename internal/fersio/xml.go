package fersio

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/fers-sim/fers/internal/render"
)

// xmlSample is the per-sample element written into a window's XML
// sink output.
type xmlSample struct {
	XMLName xml.Name `xml:"sample"`
	Index   int      `xml:"index,attr"`
	Real    float64  `xml:"real"`
	Imag    float64  `xml:"imag"`
}

type xmlWindow struct {
	XMLName   xml.Name    `xml:"window"`
	Index     int         `xml:"index,attr"`
	StartTime float64     `xml:"startTime,attr"`
	Samples   []xmlSample `xml:"sample"`
}

// XMLSink writes one <window> element per rendered window.
type XMLSink struct {
	enc *xml.Encoder
}

// NewXMLSink returns an XMLSink writing to w.
func NewXMLSink(w io.Writer) *XMLSink {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &XMLSink{enc: enc}
}

// WriteWindow implements render.WindowSink.
func (s *XMLSink) WriteWindow(win render.Window) error {
	out := xmlWindow{Index: win.Index, StartTime: win.StartTime}
	out.Samples = make([]xmlSample, len(win.Samples))
	for i, sample := range win.Samples {
		out.Samples[i] = xmlSample{Index: i, Real: real(sample), Imag: imag(sample)}
	}
	if err := s.enc.Encode(out); err != nil {
		return fmt.Errorf("fersio: failed to write xml window %d: %w", win.Index, err)
	}
	return nil
}
