package fersio

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/fers-sim/fers/internal/platform"
)

// kmlDocument mirrors just enough of the KML schema to render a
// LineString placemark per platform.
type kmlDocument struct {
	XMLName xml.Name   `xml:"kml"`
	Xmlns   string     `xml:"xmlns,attr"`
	Doc     kmlDocBody `xml:"Document"`
}

type kmlDocBody struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string         `xml:"name"`
	LineString  kmlLineString  `xml:"LineString"`
}

type kmlLineString struct {
	Coordinates string `xml:"coordinates"`
}

// WriteTrajectories samples each platform's position path at the
// given interval across [start, end] and writes a KML document with
// one LineString placemark per platform to w.
//
// Coordinates are written as raw simulation-frame (x, y, z) meters in
// the longitude/latitude/altitude slots: this module has no geodetic
// reference frame to project into, matching the spec's framing of KML
// export as a thin, interface-only external collaborator.
func WriteTrajectories(w io.Writer, platforms []*platform.Platform, start, end, interval float64) error {
	if interval <= 0 {
		return fmt.Errorf("fersio: kml export interval must be positive, got %v", interval)
	}

	doc := kmlDocument{Xmlns: "http://www.opengis.net/kml/2.2"}
	for _, p := range platforms {
		coords := ""
		for t := start; t <= end; t += interval {
			pos, err := p.GetPosition(t)
			if err != nil {
				return fmt.Errorf("fersio: kml export for %q: %w", p.Name, err)
			}
			coords += fmt.Sprintf("%v,%v,%v\n", pos.X, pos.Y, pos.Z)
		}
		doc.Doc.Placemarks = append(doc.Doc.Placemarks, kmlPlacemark{
			Name:       p.Name,
			LineString: kmlLineString{Coordinates: coords},
		})
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("fersio: failed to encode kml: %w", err)
	}
	return nil
}
