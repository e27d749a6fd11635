// Package render implements the receiver-side rendering pipeline: a
// worker pool of producers fold each Response's interpolation points
// into a window's accumulator, and one finalizer goroutine per
// receiver turns a fully-accumulated window into a final I/Q sample
// block once every producer has reported in.
//
// The concurrency shape mirrors the teacher's frame-callback worker
// (one dedicated goroutine draining a buffered channel, closed via a
// sentinel) applied per receiver instead of per sensor.
package render

import (
	"math"
	"math/cmplx"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/fers-sim/fers/internal/interp"
	"github.com/fers-sim/fers/internal/radarnode"
	"github.com/fers-sim/fers/internal/response"
	"github.com/fers-sim/fers/internal/signal"
)

// boltzmann is the Boltzmann constant, used by the thermal noise stage.
const boltzmann = 1.380649e-23

// Window is a finished receiver window: its index, start time, and
// the rendered complex baseband samples.
type Window struct {
	Receiver string
	Index    int
	StartTime float64
	Samples  []complex128
}

// WindowSink receives finished windows one at a time per receiver (the
// finalizer processes a receiver's windows serially, in the order they
// become ready; with several workers that is not necessarily
// increasing index order).
type WindowSink interface {
	WriteWindow(w Window) error
}

// job is a unit of producer work: fold resp into the named receiver's
// window, using proto (if set) to fold the transmitted pulse's own
// envelope into each interpolation point. A job with an empty
// resp.ID is a bare CloseWindow marker.
type job struct {
	receiver string
	window   int
	resp     response.Response
	proto    *signal.Prototype
}

// Renderer owns one worker pool + one finalizer goroutine per
// receiver. Submit is safe to call from the engine's single thread;
// the workers and finalizer never block the caller beyond a channel
// send.
type Renderer struct {
	sink       WindowSink
	sampleRate float64
	numWorkers int

	mu       sync.Mutex
	channels map[string]*receiverPipeline
}

type receiverPipeline struct {
	rx        *radarnode.Receiver
	jobs      chan job
	toFinal   chan int
	finalDone chan struct{}
	wg        sync.WaitGroup
	rng       *rand.Rand
}

// New returns a Renderer that writes finished windows to sink, using
// numWorkers producer goroutines per receiver (0 or negative picks the
// teacher's countProcessors-style default of runtime.NumCPU()).
func New(sink WindowSink, sampleRate float64, numWorkers int) *Renderer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkerCount()
	}
	return &Renderer{
		sink:       sink,
		sampleRate: sampleRate,
		numWorkers: numWorkers,
		channels:   make(map[string]*receiverPipeline),
	}
}

// Register starts rx's worker pool and finalizer goroutine. Must be
// called before any Submit for that receiver.
func (r *Renderer) Register(rx *radarnode.Receiver, seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pipe := &receiverPipeline{
		rx:        rx,
		jobs:      make(chan job, 256),
		toFinal:   make(chan int, 256),
		finalDone: make(chan struct{}),
		rng:       rand.New(rand.NewSource(seed)),
	}
	r.channels[rx.Name] = pipe

	for i := 0; i < r.numWorkers; i++ {
		pipe.wg.Add(1)
		go r.worker(pipe)
	}
	go r.finalizer(pipe)
}

// Submit hands resp off to the named receiver's worker pool. Non-blocking
// from the caller's perspective beyond the buffered channel send; if the
// channel is full this will block the caller (the engine thread), which
// is acceptable backpressure since producers, unlike the engine, are
// allowed to block.
func (r *Renderer) Submit(receiverName string, window int, resp response.Response, proto *signal.Prototype) {
	r.mu.Lock()
	pipe, ok := r.channels[receiverName]
	r.mu.Unlock()
	if !ok {
		return
	}
	pipe.rx.MarkOutstanding(window, 1)
	pipe.jobs <- job{receiver: receiverName, window: window, resp: resp, proto: proto}
}

// CloseWindow signals that no further responses will arrive for
// window on the named receiver; the finalizer renders it once the
// last outstanding producer finishes.
func (r *Renderer) CloseWindow(receiverName string, window int) {
	r.mu.Lock()
	pipe, ok := r.channels[receiverName]
	r.mu.Unlock()
	if !ok {
		return
	}
	pipe.jobs <- job{receiver: receiverName, window: window}
}

// Shutdown stops every receiver's worker pool and finalizer, waiting
// for in-flight work to drain.
func (r *Renderer) Shutdown() {
	r.mu.Lock()
	pipes := make([]*receiverPipeline, 0, len(r.channels))
	for _, p := range r.channels {
		pipes = append(pipes, p)
	}
	r.mu.Unlock()

	for _, p := range pipes {
		close(p.jobs)
		p.wg.Wait()
		close(p.toFinal)
		<-p.finalDone
	}
}

func (r *Renderer) worker(pipe *receiverPipeline) {
	defer pipe.wg.Done()
	for j := range pipe.jobs {
		if j.resp.ID == "" {
			if pipe.rx.RequestClose(j.window) {
				pipe.toFinal <- j.window
			}
			continue
		}
		pipe.rx.AddResponseToInbox(j.window, j.resp, j.proto)
		if pipe.rx.Complete(j.window) {
			pipe.toFinal <- j.window
		}
	}
}

// finalizer is its own goroutine per receiver so window rendering
// (decimation, thermal noise) always happens serially and never blocks
// a producer goroutine that other windows' work is queued behind.
func (r *Renderer) finalizer(pipe *receiverPipeline) {
	defer close(pipe.finalDone)
	for window := range pipe.toFinal {
		r.renderWindow(pipe, window)
	}
}

func (r *Renderer) renderWindow(pipe *receiverPipeline, window int) {
	items := pipe.rx.DrainInbox(window)
	diagf("receiver %s: rendering window %d from %d contributions", pipe.rx.Name, window, len(items))

	windowStart, err := pipe.rx.WindowStart(window)
	if err != nil {
		diagf("receiver %s: window %d start time unavailable: %v", pipe.rx.Name, window, err)
	}

	rate := r.effectiveRate(pipe.rx)
	n := int(math.Ceil(pipe.rx.WindowLength() * rate))

	samples := accumulate(items, windowStart, rate, n)
	addThermalNoise(samples, pipe.rx, rate, pipe.rng)
	samples = Decimate(samples, int(math.Round(pipe.rx.OversampleRatio())))

	w := Window{Receiver: pipe.rx.Name, Index: window, StartTime: windowStart, Samples: samples}
	if r.sink != nil {
		_ = r.sink.WriteWindow(w)
	}
}

// effectiveRate returns rx's own oversampled working rate, falling
// back to the Renderer's configured base rate for a receiver that
// never called SetWindowProperties (e.g. a bare unit-test fixture).
func (r *Renderer) effectiveRate(rx *radarnode.Receiver) float64 {
	if rate := rx.EffectiveSampleRate(); rate > 0 {
		return rate
	}
	return r.sampleRate
}

func defaultWorkerCount() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

// accumulate implements the renderer's four-step per-output-sample
// reconstruction: for every output sample k at absolute time
// windowStart+k/rate, each contribution's InterpPoint table is
// linearly interpolated to (power, delay, phase), the transmitted
// waveform is sampled at the resulting local time t_k-delay, and the
// two are combined and summed into the window's I/Q buffer.
func accumulate(items []radarnode.Contribution, windowStart, rate float64, n int) []complex128 {
	samples := make([]complex128, n)
	for _, item := range items {
		pts := item.Response.Points
		if len(pts) < 2 {
			continue
		}
		for k := 0; k < n; k++ {
			tk := windowStart + float64(k)/rate
			power, delay, phase, ok := interpolatePoints(pts, tk)
			if !ok {
				continue
			}
			envelope := complex(1, 0)
			if item.Proto != nil {
				envelope = item.Proto.At(tk - delay)
			}
			samples[k] += envelope * cmplx.Rect(power, phase)
		}
	}
	return samples
}

// interpolatePoints linearly interpolates power/delay/phase at time t
// across pts (sorted ascending by Time), reporting ok=false when t
// falls outside the span the table covers: a response's points only
// describe the interval it actually illuminates a receiver, not the
// whole window.
func interpolatePoints(pts []interp.Point, t float64) (power, delay, phase float64, ok bool) {
	if t < pts[0].Time || t > pts[len(pts)-1].Time {
		return 0, 0, 0, false
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Time >= t })
	if i == 0 {
		p := pts[0]
		return p.Power, p.Delay, p.Phase, true
	}
	lo, hi := pts[i-1], pts[i]
	if hi.Time == lo.Time {
		return lo.Power, lo.Delay, lo.Phase, true
	}
	frac := (t - lo.Time) / (hi.Time - lo.Time)
	power = lo.Power + frac*(hi.Power-lo.Power)
	delay = lo.Delay + frac*(hi.Delay-lo.Delay)
	phase = lo.Phase + frac*(hi.Phase-lo.Phase)
	return power, delay, phase, true
}

func addThermalNoise(samples []complex128, rx *radarnode.Receiver, sampleRate float64, rng *rand.Rand) {
	if len(samples) == 0 {
		return
	}
	noiseTemp, err := rx.GetNoiseTemperature()
	if err != nil || noiseTemp <= 0 {
		return
	}
	sigma := math.Sqrt(boltzmann * noiseTemp * sampleRate / 2)
	for i := range samples {
		samples[i] += complex(rng.NormFloat64()*sigma, rng.NormFloat64()*sigma)
	}
}
