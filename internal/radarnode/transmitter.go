package radarnode

import (
	"fmt"

	"github.com/fers-sim/fers/internal/signal"
)

// Mode selects a transmitter's emission style.
type Mode int

const (
	Pulsed Mode = iota
	CW
)

// Transmitter emits either discrete pulses at a pulse repetition
// frequency, or a continuous wave.
type Transmitter struct {
	Radar
	Mode      Mode
	Pulse     *signal.Prototype
	prf       float64
	sampleRate, oversampleRatio float64

	// Attached is the Receiver paired with this transmitter in a
	// monostatic configuration, set by AttachReceiver. nil for a
	// bistatic transmitter with no paired receiver.
	Attached *Receiver
}

// AttachReceiver marks tx and rx as a monostatic pair: both sides'
// single-use attachment invariant is enforced, and tx remembers rx so
// evaluateDirectPaths can suppress the self-illumination direct path.
func (tx *Transmitter) AttachReceiver(rx *Receiver) error {
	if err := tx.SetAttached(); err != nil {
		return err
	}
	if err := rx.SetAttached(); err != nil {
		return err
	}
	tx.Attached = rx
	return nil
}

// SetPulse attaches the pulse prototype to transmit. Requires a timing
// source to already be set, matching libfers' setPulse.
func (tx *Transmitter) SetPulse(p *signal.Prototype) error {
	if _, err := tx.Timing(); err != nil {
		return fmt.Errorf("transmitter %q: cannot set pulse: %w", tx.Name, err)
	}
	tx.Pulse = p
	return nil
}

// SetPRF configures the pulse repetition frequency, quantized to the
// given sample rate and oversample ratio exactly as the receiver
// quantizes its window PRF, so pulse and window boundaries line up.
func (tx *Transmitter) SetPRF(sampleRate, oversampleRatio, requestedPRF float64) {
	tx.sampleRate = sampleRate
	tx.oversampleRatio = oversampleRatio
	tx.prf = quantizedRate(sampleRate, oversampleRatio, requestedPRF)
}

// PRF returns the quantized pulse repetition frequency.
func (tx *Transmitter) PRF() float64 { return tx.prf }

// PulseTime returns the local pulse-start time for the n'th pulse (in
// Pulsed mode) or 0 (in CW mode, which has no discrete pulses).
func (tx *Transmitter) PulseTime(n int) float64 {
	if tx.Mode != Pulsed || tx.prf == 0 {
		return 0
	}
	return float64(n) / tx.prf
}
