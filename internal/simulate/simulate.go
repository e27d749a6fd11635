// Package simulate implements the radar-equation evaluation stage that
// turns each scheduled transmission event into Response contributions
// at every receiver: the glue between the engine's event clock and the
// renderer's per-receiver accumulation, mirroring the way the teacher's
// tracking pipeline wires discrete stage interfaces (foreground
// extraction, clustering, tracking) into one coordinator driven by a
// single upstream event source.
package simulate

import (
	"math"
	"math/cmplx"

	"github.com/fers-sim/fers/internal/engine"
	"github.com/fers-sim/fers/internal/geom"
	"github.com/fers-sim/fers/internal/interp"
	"github.com/fers-sim/fers/internal/radarnode"
	"github.com/fers-sim/fers/internal/render"
	"github.com/fers-sim/fers/internal/response"
	"github.com/fers-sim/fers/internal/runid"
	"github.com/fers-sim/fers/internal/world"
)

// dopplerEpsilon is the finite-difference step used to estimate range
// rate for the Doppler term; small relative to any plausible platform
// dynamics but far larger than floating point noise.
const dopplerEpsilon = 1e-4

// pulseSamplePoints is the default number of InterpPoint samples taken
// across a pulse's own transmission width, giving the renderer's
// linear interpolation something real to interpolate between instead
// of a single degenerate point.
const pulseSamplePoints = 9

// Coordinator implements engine.Dispatcher: on each transmission event
// it evaluates the bistatic radar equation against every receiver and
// target in the world, and submits the resulting Response contributions
// to the renderer. Besides its injected dependencies it tracks only the
// open CwOn time per transmitter, needed to evaluate the full interval
// once CwOff arrives, the same "thin coordinator over injected stages"
// shape as the teacher's tracking pipeline coordinator.
type Coordinator struct {
	world    *world.World
	renderer *render.Renderer
	cwStart  map[string]float64
}

var _ engine.Dispatcher = (*Coordinator)(nil)

// New returns a Coordinator evaluating transmissions in w and
// submitting results to r.
func New(w *world.World, r *render.Renderer) *Coordinator {
	return &Coordinator{world: w, renderer: r, cwStart: make(map[string]float64)}
}

// HandlePulseFire evaluates one discrete pulse's contribution to every
// receiver, both via each target's bistatic reflection and via the
// direct transmitter-to-receiver path.
func (c *Coordinator) HandlePulseFire(tx *radarnode.Transmitter, pulseIndex int, t float64) {
	if tx == nil || tx.Pulse == nil {
		return
	}
	c.evaluateTransmission(tx, t)
	c.evaluateDirectPaths(tx, t)
}

// HandleCwOn records the start of tx's active-CW interval; the
// composite CW segment is evaluated at HandleCwOff once the interval's
// end is known.
func (c *Coordinator) HandleCwOn(tx *radarnode.Transmitter, t float64) {
	if tx == nil {
		return
	}
	c.cwStart[tx.Name] = t
	diagf("transmitter %s: cw on at t=%v", tx.Name, t)
}

// HandleCwOff evaluates the just-completed CW interval: every
// target's echo is sampled at the receiver's own sample-rate
// granularity across the full interval, both fed into the per-window
// renderer pipeline and accumulated into the receiver's CW I/Q buffer
// (Receiver.PrepareCWData/SetCWSample), plus one direct-path snapshot
// at the interval's midpoint.
func (c *Coordinator) HandleCwOff(tx *radarnode.Transmitter, t float64) {
	if tx == nil || tx.Pulse == nil {
		return
	}
	start, ok := c.cwStart[tx.Name]
	delete(c.cwStart, tx.Name)
	if !ok {
		start = t
	}
	c.evaluateCWInterval(tx, start, t)
	c.evaluateDirectPaths(tx, (start+t)/2)
}

// HandleReceiverWindowOpen exists to satisfy engine.Dispatcher; window
// bookkeeping is driven entirely by MarkOutstanding/DrainInbox once
// responses arrive, so there is nothing to do at open time besides log.
func (c *Coordinator) HandleReceiverWindowOpen(rx *radarnode.Receiver, window int, t float64) {
	if rx == nil {
		return
	}
	diagf("receiver %s: window %d open at t=%v", rx.Name, window, t)
}

// HandleReceiverWindowClose tells the renderer no further responses
// will arrive for this window, letting its finalizer render as soon as
// the last outstanding producer reports in.
func (c *Coordinator) HandleReceiverWindowClose(rx *radarnode.Receiver, window int, t float64) {
	if rx == nil {
		return
	}
	c.renderer.CloseWindow(rx.Name, window)
}

func (c *Coordinator) evaluateTransmission(tx *radarnode.Transmitter, txTime float64) {
	for _, tgt := range c.world.Targets() {
		c.evaluateTarget(tx, txTime, tgt)
	}
}

func (c *Coordinator) evaluateTarget(tx *radarnode.Transmitter, txTime float64, tgt *world.TargetEntry) {
	for _, rx := range c.world.Receivers() {
		c.evaluatePulseReceiver(tx, rx, txTime, tgt)
	}
}

// evaluatePulseReceiver samples one tx->target->rx path at
// pulseSamplePoints instants spread across the pulse's own
// transmission width, building the multi-point InterpPoint table the
// renderer's linear interpolation needs, and submits the resulting
// Response to the window it arrives in.
func (c *Coordinator) evaluatePulseReceiver(tx *radarnode.Transmitter, rx *radarnode.Receiver, txTime float64, tgt *world.TargetEntry) {
	duration := tx.Pulse.Duration()

	pts := make([]interp.Point, 0, pulseSamplePoints)
	for i := 0; i < pulseSamplePoints; i++ {
		frac := float64(i) / float64(pulseSamplePoints-1)
		p, ok := c.computeContribution(tx, rx, tgt, txTime+frac*duration)
		if ok {
			pts = append(pts, p)
		}
	}
	if len(pts) < 2 {
		return
	}

	window, ok := windowForTime(rx, pts[0].Time)
	if !ok {
		diagf("receiver %s: response at t=%v falls outside any scheduled window", rx.Name, pts[0].Time)
		return
	}

	resp := response.Response{
		ID:          runid.NewResponseID(),
		Kind:        response.Pulse,
		Transmitter: tx.Name,
		Receiver:    rx.Name,
		Target:      tgt.Name,
		StartTime:   txTime,
		Points:      pts,
	}
	c.renderer.Submit(rx.Name, window, resp, tx.Pulse)
}

// evaluateCWInterval samples every target's echo at each receiver's
// own sample-rate granularity across [start, end), the composite CW
// segment libfers calls a continuous accumulation.
func (c *Coordinator) evaluateCWInterval(tx *radarnode.Transmitter, start, end float64) {
	if end <= start {
		return
	}
	for _, rx := range c.world.Receivers() {
		c.evaluateCWReceiver(tx, rx, start, end)
	}
}

func (c *Coordinator) evaluateCWReceiver(tx *radarnode.Transmitter, rx *radarnode.Receiver, start, end float64) {
	rate := rx.EffectiveSampleRate()
	if rate <= 0 {
		return
	}
	n := int(math.Ceil((end - start) * rate))
	if n <= 0 {
		return
	}
	rx.PrepareCWData(n)

	for _, tgt := range c.world.Targets() {
		byWindow := make(map[int][]interp.Point)
		for k := 0; k < n; k++ {
			sampleT := start + float64(k)/rate
			p, ok := c.computeContribution(tx, rx, tgt, sampleT)
			if !ok {
				continue
			}
			rx.SetCWSample(k, cmplx.Rect(p.Power, p.Phase))
			if window, ok := windowForTime(rx, p.Time); ok {
				byWindow[window] = append(byWindow[window], p)
			}
		}
		for window, pts := range byWindow {
			if len(pts) < 2 {
				continue
			}
			resp := response.Response{
				ID:          runid.NewResponseID(),
				Kind:        response.CWSegment,
				Transmitter: tx.Name,
				Receiver:    rx.Name,
				Target:      tgt.Name,
				StartTime:   start,
				Points:      pts,
			}
			c.renderer.Submit(rx.Name, window, resp, nil)
		}
	}
}

// computeContribution evaluates one tx->target->rx bistatic path at
// evaluation instant t, returning the InterpPoint it contributes.
// Reports ok=false whenever geometry, gain lookup or RCS makes the
// path contribute nothing (coincident positions, a gain pattern that
// has no defined value there, non-positive RCS or received power).
func (c *Coordinator) computeContribution(tx *radarnode.Transmitter, rx *radarnode.Receiver, tgt *world.TargetEntry, t float64) (interp.Point, bool) {
	txPos, err := tx.Platform.GetPosition(t)
	if err != nil {
		diagf("transmitter %s: %v", tx.Name, err)
		return interp.Point{}, false
	}
	txRot, err := tx.Platform.GetRotation(t)
	if err != nil {
		diagf("transmitter %s: %v", tx.Name, err)
		return interp.Point{}, false
	}

	targetPos, err := tgt.Platform.GetPosition(t)
	if err != nil {
		diagf("target %s: %v", tgt.Name, err)
		return interp.Point{}, false
	}

	rangeTx := geom.V3ToS3(targetPos.Sub(txPos))
	rt := rangeTx.Length
	if rt == 0 {
		return interp.Point{}, false
	}
	txLocal := rangeTx.Sub(txRot)
	txGain, err := tx.Gain(txLocal.Azimuth, txLocal.Elevation)
	if err != nil {
		diagf("transmitter %s: %v", tx.Name, err)
		return interp.Point{}, false
	}

	rxPos, err := rx.Platform.GetPosition(t)
	if err != nil {
		diagf("receiver %s: %v", rx.Name, err)
		return interp.Point{}, false
	}

	rangeRx := geom.V3ToS3(rxPos.Sub(targetPos))
	rr := rangeRx.Length
	if rr == 0 {
		return interp.Point{}, false
	}

	rcs, err := tgt.Model.RCS(rangeTx, rangeRx, t)
	if err != nil {
		diagf("target %s: %v", tgt.Name, err)
		return interp.Point{}, false
	}
	if rcs <= 0 {
		return interp.Point{}, false
	}

	delay := (rt + rr) / c.world.Options.SpeedOfLight
	arrival := t + delay

	rxRot, err := rx.Platform.GetRotation(arrival)
	if err != nil {
		diagf("receiver %s: %v", rx.Name, err)
		return interp.Point{}, false
	}
	rxIncident := geom.V3ToS3(targetPos.Sub(rxPos))
	rxLocal := rxIncident.Sub(rxRot)
	rxGain, err := rx.Gain(rxLocal.Azimuth, rxLocal.Elevation)
	if err != nil {
		diagf("receiver %s: %v", rx.Name, err)
		return interp.Point{}, false
	}

	carrier := tx.Pulse.Carrier
	if carrier <= 0 {
		return interp.Point{}, false
	}
	wavelength := c.world.Options.SpeedOfLight / carrier

	power := radarEquation(tx.Pulse.Power, txGain, rxGain, wavelength, rcs, rt, rr)
	if power <= 0 || math.IsNaN(power) {
		return interp.Point{}, false
	}

	phase := math.Mod(-2*math.Pi*carrier*delay, 2*math.Pi)
	doppler := c.estimateDoppler(tx, rx, tgt, t, carrier)

	return interp.Point{
		Power:   math.Sqrt(power),
		Time:    arrival,
		Delay:   delay,
		Doppler: doppler,
		Phase:   phase,
	}, true
}

// evaluateDirectPaths evaluates the direct transmitter-to-receiver
// path (Friis free-space equation, no target in the loop) at instant
// t against every receiver, logging each as interference rather than a
// wanted return. A receiver attached to tx as its monostatic pair
// never sees its own transmitter's direct path, matching a real
// monostatic radar's shared-antenna geometry.
func (c *Coordinator) evaluateDirectPaths(tx *radarnode.Transmitter, t float64) {
	if tx == nil || tx.Pulse == nil {
		return
	}
	txPos, err := tx.Platform.GetPosition(t)
	if err != nil {
		diagf("transmitter %s: %v", tx.Name, err)
		return
	}
	txRot, err := tx.Platform.GetRotation(t)
	if err != nil {
		diagf("transmitter %s: %v", tx.Name, err)
		return
	}

	for _, rx := range c.world.Receivers() {
		if tx.Attached == rx {
			continue
		}
		c.evaluateDirectPath(tx, rx, txPos, txRot, t)
	}
}

func (c *Coordinator) evaluateDirectPath(tx *radarnode.Transmitter, rx *radarnode.Receiver, txPos geom.V3, txRot geom.S3, t float64) {
	rxPos, err := rx.Platform.GetPosition(t)
	if err != nil {
		diagf("receiver %s: %v", rx.Name, err)
		return
	}

	rng := geom.V3ToS3(rxPos.Sub(txPos))
	r := rng.Length
	if r == 0 {
		return
	}
	txLocal := rng.Sub(txRot)
	txGain, err := tx.Gain(txLocal.Azimuth, txLocal.Elevation)
	if err != nil {
		diagf("transmitter %s: %v", tx.Name, err)
		return
	}

	delay := r / c.world.Options.SpeedOfLight
	arrival := t + delay

	rxRot, err := rx.Platform.GetRotation(arrival)
	if err != nil {
		diagf("receiver %s: %v", rx.Name, err)
		return
	}
	rxIncident := geom.V3ToS3(txPos.Sub(rxPos))
	rxLocal := rxIncident.Sub(rxRot)
	rxGain, err := rx.Gain(rxLocal.Azimuth, rxLocal.Elevation)
	if err != nil {
		diagf("receiver %s: %v", rx.Name, err)
		return
	}

	carrier := tx.Pulse.Carrier
	if carrier <= 0 {
		return
	}
	wavelength := c.world.Options.SpeedOfLight / carrier

	power := directPathPower(tx.Pulse.Power, txGain, rxGain, wavelength, r)
	if power <= 0 || math.IsNaN(power) {
		return
	}
	phase := math.Mod(-2*math.Pi*carrier*delay, 2*math.Pi)

	resp := response.Response{
		ID:          runid.NewResponseID(),
		Kind:        response.Direct,
		Transmitter: tx.Name,
		Receiver:    rx.Name,
		StartTime:   t,
		Points: []interp.Point{{
			Power: math.Sqrt(power),
			Time:  arrival,
			Delay: delay,
			Phase: phase,
		}},
	}
	rx.AddInterferenceToLog(resp)
}

// estimateDoppler approximates the Doppler shift from the numerical
// derivative of the total (transmitter->target->receiver) path length,
// since neither Path nor RotationPath expose an analytic velocity.
func (c *Coordinator) estimateDoppler(tx *radarnode.Transmitter, rx *radarnode.Receiver, tgt *world.TargetEntry, t, carrier float64) float64 {
	pathLen := func(at float64) (float64, bool) {
		txPos, err := tx.Platform.GetPosition(at)
		if err != nil {
			return 0, false
		}
		targetPos, err := tgt.Platform.GetPosition(at)
		if err != nil {
			return 0, false
		}
		rxPos, err := rx.Platform.GetPosition(at)
		if err != nil {
			return 0, false
		}
		rt := targetPos.Sub(txPos).Length()
		rr := rxPos.Sub(targetPos).Length()
		return rt + rr, true
	}

	l0, ok0 := pathLen(t)
	l1, ok1 := pathLen(t + dopplerEpsilon)
	if !ok0 || !ok1 {
		return 0
	}
	rangeRate := (l1 - l0) / dopplerEpsilon
	return -(carrier / c.world.Options.SpeedOfLight) * rangeRate
}

// radarEquation evaluates the bistatic radar range equation:
// Pr = Pt Gt Gr lambda^2 sigma / ((4 pi)^3 Rt^2 Rr^2).
func radarEquation(pt, gt, gr, wavelength, rcs, rt, rr float64) float64 {
	numerator := pt * gt * gr * wavelength * wavelength * rcs
	denominator := math.Pow(4*math.Pi, 3) * rt * rt * rr * rr
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// directPathPower evaluates the Friis free-space transmission
// equation for a path with no target in the loop:
// Pr = Pt Gt Gr lambda^2 / (4 pi R)^2.
func directPathPower(pt, gt, gr, wavelength, r float64) float64 {
	numerator := pt * gt * gr * wavelength * wavelength
	denominator := math.Pow(4*math.Pi*r, 2)
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// windowForTime inverts the receiver's window schedule (see
// radarnode.quantizedRate/SetWindowProperties) to find which window
// index contains t.
func windowForTime(rx *radarnode.Receiver, t float64) (int, bool) {
	prf := rx.WindowPRF()
	if prf <= 0 {
		return 0, false
	}
	w := int(math.Floor((t - rx.WindowSkip()) * prf))
	if w < 0 {
		return 0, false
	}
	start, err := rx.WindowStart(w)
	if err != nil {
		return 0, false
	}
	if t < start || t >= start+rx.WindowLength() {
		return 0, false
	}
	return w, true
}
