// Package response defines the Response record a transmitter emits
// for each illuminated target/direct-path contribution, consumed by
// the renderer to build a receiver's I/Q stream.
package response

import "github.com/fers-sim/fers/internal/interp"

// Kind distinguishes a pulsed return, a continuous-wave segment, and a
// direct transmitter-to-receiver path that never touched a target.
type Kind int

const (
	Pulse Kind = iota
	CWSegment
	Direct
)

// Response is one contribution from a transmitter (possibly via a
// target) to a receiver, carrying the interpolation points the
// renderer needs to reconstruct its effect on the I/Q stream.
type Response struct {
	ID           string
	Kind         Kind
	Transmitter  string
	Receiver     string
	Target       string // empty for a direct-path response
	StartTime    float64
	Points       []interp.Point
}
