package radarnode

import (
	"fmt"
	"math"
	"sync"

	"github.com/fers-sim/fers/internal/response"
	"github.com/fers-sim/fers/internal/signal"
)

// Contribution pairs a Response with the transmitted pulse prototype
// that produced it, so the renderer can fold the prototype's own
// waveform shape into its per-output-sample reconstruction. Proto is
// nil for a CW segment, which has no finite envelope to fold in.
type Contribution struct {
	Response response.Response
	Proto    *signal.Prototype
}

// Receiver accumulates incoming responses into per-window inboxes and
// exposes the quantized window schedule the engine and renderer both
// need. Inbox access is mutex-protected so the engine's single thread
// and the renderer's worker pool can both touch a Receiver safely.
type Receiver struct {
	Radar

	oversampleRatio float64
	sampleRate      float64
	windowPRF       float64
	windowSkip      float64
	windowLength    float64
	noiseTemperature float64

	inboxMu      sync.Mutex
	inbox        map[int][]Contribution
	outstanding  map[int]int
	closed       map[int]bool
	finalized    map[int]bool

	interferenceMu  sync.Mutex
	interferenceLog []response.Response

	cwMu      sync.Mutex
	cwSamples []complex128
}

// NewReceiver returns a Receiver with empty inbox/interference state.
func NewReceiver(name string) *Receiver {
	r := &Receiver{}
	r.Name = name
	r.inbox = make(map[int][]Contribution)
	r.outstanding = make(map[int]int)
	r.closed = make(map[int]bool)
	r.finalized = make(map[int]bool)
	return r
}

// SetNoiseTemperature sets the receiver's own noise contribution,
// added to the antenna's. Negative values (beyond float epsilon) are
// rejected, matching libfers' validation.
func (r *Receiver) SetNoiseTemperature(t float64) error {
	const epsilon = 1e-12
	if t < -epsilon {
		return fmt.Errorf("receiver %q: noise temperature must be >= 0, got %v", r.Name, t)
	}
	r.noiseTemperature = t
	return nil
}

// GetNoiseTemperature returns the receiver's own noise temperature
// plus its antenna's, per libfers' Receiver::getNoiseTemperature.
func (r *Receiver) GetNoiseTemperature() (float64, error) {
	ant, err := r.NoiseTemperature()
	if err != nil {
		return 0, err
	}
	return r.noiseTemperature + ant, nil
}

// SetWindowProperties configures the receiver's window schedule: an
// oversampled effective rate, a quantized window PRF and a quantized
// skip interval, matching libfers' Receiver::setWindowProperties.
func (r *Receiver) SetWindowProperties(sampleRate, oversampleRatio, requestedPRF, skip, length float64) {
	r.sampleRate = sampleRate
	r.oversampleRatio = oversampleRatio
	rate := sampleRate * oversampleRatio
	r.windowPRF = quantizedRate(sampleRate, oversampleRatio, requestedPRF)
	r.windowSkip = math.Floor(rate*skip) / rate
	r.windowLength = length
}

// OversampleRatio returns the receiver's configured oversample ratio.
func (r *Receiver) OversampleRatio() float64 { return r.oversampleRatio }

// EffectiveSampleRate returns the receiver's oversampled working rate
// (base sample rate times oversample ratio), the granularity at which
// the renderer reconstructs a window and CW data is accumulated. Zero
// if SetWindowProperties has never been called.
func (r *Receiver) EffectiveSampleRate() float64 {
	if r.oversampleRatio <= 0 {
		return r.sampleRate
	}
	return r.sampleRate * r.oversampleRatio
}

// WindowPRF returns the quantized window pulse repetition frequency.
func (r *Receiver) WindowPRF() float64 { return r.windowPRF }

// WindowLength returns the configured window duration in seconds.
func (r *Receiver) WindowLength() float64 { return r.windowLength }

// WindowSkip returns the quantized skip interval before the first window.
func (r *Receiver) WindowSkip() float64 { return r.windowSkip }

// WindowCount returns the number of windows covering [startTime, endTime).
func (r *Receiver) WindowCount(startTime, endTime float64) int {
	if r.windowPRF == 0 {
		return 0
	}
	return int(math.Ceil((endTime - startTime) * r.windowPRF))
}

// WindowStart returns the start time of the given window index. It
// requires a timing source to already be attached, matching libfers'
// Receiver::getWindowStart (it throws without one).
func (r *Receiver) WindowStart(window int) (float64, error) {
	if _, err := r.Timing(); err != nil {
		return 0, fmt.Errorf("receiver %q: cannot compute window start: %w", r.Name, err)
	}
	if r.windowPRF == 0 {
		return 0, fmt.Errorf("receiver %q: window PRF not configured", r.Name)
	}
	return float64(window)/r.windowPRF + r.windowSkip, nil
}

// AddResponseToInbox files resp (with its originating pulse prototype,
// if any) under its window index.
func (r *Receiver) AddResponseToInbox(window int, resp response.Response, proto *signal.Prototype) {
	r.inboxMu.Lock()
	defer r.inboxMu.Unlock()
	r.inbox[window] = append(r.inbox[window], Contribution{Response: resp, Proto: proto})
}

// AddInterferenceToLog appends a response that represents
// interference rather than a wanted return.
func (r *Receiver) AddInterferenceToLog(resp response.Response) {
	r.interferenceMu.Lock()
	defer r.interferenceMu.Unlock()
	r.interferenceLog = append(r.interferenceLog, resp)
}

// MarkOutstanding increments the number of pending renders for window,
// called by the engine as it schedules producer work.
func (r *Receiver) MarkOutstanding(window int, delta int) int {
	r.inboxMu.Lock()
	defer r.inboxMu.Unlock()
	r.outstanding[window] += delta
	return r.outstanding[window]
}

// readyLocked reports whether window is closed, has no outstanding
// producers, and has not already been handed to the finalizer. Callers
// must hold inboxMu.
func (r *Receiver) readyLocked(window int) bool {
	if r.finalized[window] || !r.closed[window] || r.outstanding[window] > 0 {
		return false
	}
	r.finalized[window] = true
	return true
}

// Complete records that one producer finished writing its response
// into window's inbox, and reports whether the window is now ready to
// hand off to the finalizer (exactly once, even if this races with
// RequestClose).
func (r *Receiver) Complete(window int) bool {
	r.inboxMu.Lock()
	defer r.inboxMu.Unlock()
	r.outstanding[window]--
	return r.readyLocked(window)
}

// RequestClose marks window as closed, meaning no further producers
// will submit to it, and reports whether it is ready to hand off to
// the finalizer now (it may already have zero outstanding producers,
// including the common case of a window nothing was ever submitted
// to).
func (r *Receiver) RequestClose(window int) bool {
	r.inboxMu.Lock()
	defer r.inboxMu.Unlock()
	r.closed[window] = true
	return r.readyLocked(window)
}

// DrainInbox removes and returns every contribution filed for window,
// clearing outstanding state for that window. Intended to be called
// once by the finalizer when MarkOutstanding reaches zero.
func (r *Receiver) DrainInbox(window int) []Contribution {
	r.inboxMu.Lock()
	defer r.inboxMu.Unlock()
	items := r.inbox[window]
	delete(r.inbox, window)
	delete(r.outstanding, window)
	return items
}

// InterferenceLog returns a snapshot of all logged interference
// responses.
func (r *Receiver) InterferenceLog() []response.Response {
	r.interferenceMu.Lock()
	defer r.interferenceMu.Unlock()
	out := make([]response.Response, len(r.interferenceLog))
	copy(out, r.interferenceLog)
	return out
}

// PrepareCWData allocates a CW sample buffer of length n, discarding
// any previous buffer.
func (r *Receiver) PrepareCWData(n int) {
	r.cwMu.Lock()
	defer r.cwMu.Unlock()
	r.cwSamples = make([]complex128, n)
}

// SetCWSample adds v into the sample at index idx. Per libfers'
// defensive-cap behavior (and the spec's RuntimeError classification
// of this exact case), an out-of-range index is dropped with only a
// diag log line rather than causing a fatal error; the buffer length
// is len(CWSamples()).
func (r *Receiver) SetCWSample(idx int, v complex128) {
	r.cwMu.Lock()
	defer r.cwMu.Unlock()
	if idx < 0 || idx >= len(r.cwSamples) {
		diagf("receiver %s: dropped cw sample at out-of-range index %d (len %d)", r.Name, idx, len(r.cwSamples))
		return
	}
	r.cwSamples[idx] += v
}

// CWSamples returns a snapshot of the accumulated CW buffer.
func (r *Receiver) CWSamples() []complex128 {
	r.cwMu.Lock()
	defer r.cwMu.Unlock()
	out := make([]complex128, len(r.cwSamples))
	copy(out, r.cwSamples)
	return out
}
