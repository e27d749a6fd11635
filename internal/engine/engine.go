// Package engine implements the single-threaded, event-driven
// simulation clock: a priority queue of PulseFire/CwOn/CwOff/
// ReceiverWindowOpen/ReceiverWindowClose events, a master simulation
// time, and the set of currently-active CW transmitters, mirroring
// libfers' SimulationState.
package engine

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/fers-sim/fers/internal/radarnode"
	"github.com/fers-sim/fers/internal/world"
)

// Dispatcher receives each event as the engine's single thread pops
// it off the queue. Implementations must not block: long-running work
// (radar-equation evaluation, rendering) belongs on another goroutine,
// handed off through a channel.
type Dispatcher interface {
	HandlePulseFire(tx *radarnode.Transmitter, pulseIndex int, t float64)
	HandleCwOn(tx *radarnode.Transmitter, t float64)
	HandleCwOff(tx *radarnode.Transmitter, t float64)
	HandleReceiverWindowOpen(rx *radarnode.Receiver, window int, t float64)
	HandleReceiverWindowClose(rx *radarnode.Receiver, window int, t float64)
}

// State is the engine's master clock plus the set of transmitters
// currently emitting CW, mirroring libfers' SimulationState.
type State struct {
	Current         float64
	ActiveCW        map[string]*radarnode.Transmitter
}

func newState() *State {
	return &State{ActiveCW: make(map[string]*radarnode.Transmitter)}
}

// Engine owns the event queue and the shared clock State. It is not
// safe for concurrent use: Run must be the only goroutine touching it.
type Engine struct {
	world *world.World
	queue eventQueue
	state *State
	seq   int64
}

// New returns an Engine for w with an empty event queue.
func New(w *world.World) *Engine {
	e := &Engine{world: w, state: newState()}
	heap.Init(&e.queue)
	return e
}

// Schedule adds an event to the queue. Safe to call before Run, or
// from within a Dispatcher callback during Run (the engine is single
// threaded, so this never races with the pop loop that calls it).
func (e *Engine) Schedule(ev Event) {
	ev.seq = e.seq
	e.seq++
	heap.Push(&e.queue, &ev)
}

// State returns the engine's live clock/active-CW state. Dispatchers
// may read it but must not mutate ActiveCW directly; use the Handle*
// callbacks' semantics (CwOn/CwOff) instead.
func (e *Engine) State() *State { return e.state }

// ScheduleTransmitter enqueues every pulse (Pulsed mode) or a single
// CwOn/CwOff pair (CW mode) for tx across [startTime, endTime).
func (e *Engine) ScheduleTransmitter(tx *radarnode.Transmitter, startTime, endTime float64) error {
	if tx.Mode == radarnode.CW {
		e.Schedule(Event{Time: startTime, Kind: CwOn, Node: tx.Name})
		e.Schedule(Event{Time: endTime, Kind: CwOff, Node: tx.Name})
		return nil
	}
	prf := tx.PRF()
	if prf <= 0 {
		return fmt.Errorf("engine: transmitter %q has no PRF configured", tx.Name)
	}
	n := 0
	for t := startTime; t < endTime; t = startTime + float64(n)/prf {
		e.Schedule(Event{Time: t, Kind: PulseFire, Node: tx.Name, Index: n})
		n++
	}
	return nil
}

// ScheduleReceiver enqueues every window-open/window-close pair for rx
// across [startTime, endTime).
func (e *Engine) ScheduleReceiver(rx *radarnode.Receiver, startTime, endTime float64) error {
	count := rx.WindowCount(startTime, endTime)
	for w := 0; w < count; w++ {
		start, err := rx.WindowStart(w)
		if err != nil {
			return fmt.Errorf("engine: receiver %q: %w", rx.Name, err)
		}
		e.Schedule(Event{Time: start, Kind: ReceiverWindowOpen, Node: rx.Name, Index: w})
		e.Schedule(Event{Time: start + rx.WindowLength(), Kind: ReceiverWindowClose, Node: rx.Name, Index: w})
	}
	return nil
}

// Run drains the event queue in time order, dispatching each event to
// d, until the queue is empty or ctx is cancelled. The engine thread
// never blocks: Dispatcher implementations must hand off any slow work
// to other goroutines.
func (e *Engine) Run(ctx context.Context, d Dispatcher) error {
	for e.queue.Len() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev := heap.Pop(&e.queue).(*Event)
		e.state.Current = ev.Time
		tracef("dispatching %s for %q at t=%v", ev.Kind, ev.Node, ev.Time)

		tx, _ := e.world.TransmitterByName(ev.Node)
		rx, _ := e.world.ReceiverByName(ev.Node)

		switch ev.Kind {
		case PulseFire:
			d.HandlePulseFire(tx, ev.Index, ev.Time)
		case CwOn:
			e.state.ActiveCW[ev.Node] = tx
			d.HandleCwOn(tx, ev.Time)
		case CwOff:
			delete(e.state.ActiveCW, ev.Node)
			d.HandleCwOff(tx, ev.Time)
		case ReceiverWindowOpen:
			d.HandleReceiverWindowOpen(rx, ev.Index, ev.Time)
		case ReceiverWindowClose:
			d.HandleReceiverWindowClose(rx, ev.Index, ev.Time)
		}
	}
	return nil
}
