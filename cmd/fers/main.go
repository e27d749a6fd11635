// Command fers runs a radar scene simulation: it loads scalar World
// options from a JSON document (scenario authoring itself stays out
// of scope, see internal/config), builds the engine/renderer/
// coordinator pipeline, and writes the rendered windows to the
// requested sink. Flag/signal glue here mirrors the teacher's
// cmd/radar entry point (flag.Parse, signal.NotifyContext, deferred
// log-file cleanup) narrowed to this module's much smaller surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fers-sim/fers/internal/config"
	"github.com/fers-sim/fers/internal/engine"
	"github.com/fers-sim/fers/internal/fersio"
	"github.com/fers-sim/fers/internal/monitor"
	"github.com/fers-sim/fers/internal/platform"
	"github.com/fers-sim/fers/internal/radarnode"
	"github.com/fers-sim/fers/internal/render"
	"github.com/fers-sim/fers/internal/runid"
	"github.com/fers-sim/fers/internal/simulate"
	"github.com/fers-sim/fers/internal/store/sqlite"
	"github.com/fers-sim/fers/internal/world"
)

var (
	configPath   = flag.String("config", "", "Path to JSON World options file (defaults baked in if omitted)")
	outPath      = flag.String("out", "", "Path to write rendered windows to (stdout if omitted)")
	outFormat    = flag.String("format", "csv", "Output sink format: csv, binary, or xml")
	kmlPath      = flag.String("kml", "", "Optional path to write platform trajectories as KML")
	dbPath       = flag.String("db-path", "", "Optional sqlite path to persist this run's windows")
	monitorAddr  = flag.String("monitor-listen", "", "Optional HTTP address to serve live run diagnostics (e.g. :8090)")
	numWorkers   = flag.Int("workers", 0, "Renderer worker pool size (0 = runtime.NumCPU() default)")
	versionFlag  = flag.Bool("version", false, "Print version information and exit")
)

const version = "0.1.0"

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(os.Stdout)
	configureLogging()

	if *versionFlag {
		fmt.Printf("fers v%s\n", version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		log.Printf("fers: %v", err)
		os.Exit(1)
	}
}

// configureLogging wires every package's three-stream logger to
// FERS_{OPS,DEBUG,TRACE}_LOG env vars, falling back to a single
// FERS_DEBUG_LOG for all three streams, matching the teacher's
// layered env-var logging convention.
func configureLogging() {
	opsPath := os.Getenv("FERS_OPS_LOG")
	debugPath := os.Getenv("FERS_DEBUG_LOG")
	tracePath := os.Getenv("FERS_TRACE_LOG")

	open := func(path string) io.Writer {
		if path == "" {
			return nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Printf("warning: failed to open log file %s: %v", path, err)
			return nil
		}
		return f
	}

	ops, debug, trace := open(opsPath), open(debugPath), open(tracePath)
	if ops == nil {
		ops = debug
	}
	if trace == nil {
		trace = debug
	}
	if ops == nil && debug == nil && trace == nil {
		return
	}
	engine.SetLogWriters(ops, debug, trace)
	radarnode.SetLogWriters(ops, debug, trace)
	world.SetLogWriters(ops, debug, trace)
	simulate.SetLogWriters(ops, debug, trace)
	render.SetLogWriters(ops, debug, trace)
	monitor.SetLogWriters(ops, debug, trace)
}

func run() error {
	opts := world.DefaultOptions()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		opts = loaded.Resolve()
	}
	if opts.EndTime <= opts.StartTime {
		opts.EndTime = opts.StartTime + 10
	}

	w := world.New(opts)
	if err := buildDemoScenario(w); err != nil {
		return fmt.Errorf("build scenario: %w", err)
	}
	w.Finalize()

	sink, closeSink, err := openSink(*outPath, *outFormat, opts.SampleRate)
	if err != nil {
		return fmt.Errorf("open output sink: %w", err)
	}
	defer closeSink()

	stats := monitor.NewStats()
	runID := runid.New()
	var runRecordID int64

	if *dbPath != "" {
		store, err := sqlite.Open(*dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()
		runRecordID, err = store.InsertRun(opts.RandomSeed, opts)
		if err != nil {
			return fmt.Errorf("insert run record: %w", err)
		}
		sink = &multiSink{primary: store.NewRunSink(runRecordID), secondary: sink}
	}
	sink = monitor.NewStatsSink(stats, sink)

	renderer := render.New(sink, opts.SampleRate, *numWorkers)
	for _, rx := range w.Receivers() {
		renderer.Register(rx, opts.RandomSeed)
	}

	coordinator := simulate.New(w, renderer)
	eng := engine.New(w)
	for _, tx := range w.Transmitters() {
		if err := eng.ScheduleTransmitter(tx, opts.StartTime, opts.EndTime); err != nil {
			return fmt.Errorf("schedule transmitter %s: %w", tx.Name, err)
		}
	}
	for _, rx := range w.Receivers() {
		if err := eng.ScheduleReceiver(rx, opts.StartTime, opts.EndTime); err != nil {
			return fmt.Errorf("schedule receiver %s: %w", rx.Name, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *monitorAddr != "" {
		ws := monitor.NewWebServer(monitor.WebServerConfig{Address: *monitorAddr, Stats: stats, World: w, RunID: runRecordID})
		go func() {
			if err := ws.Start(ctx); err != nil {
				log.Printf("monitor: %v", err)
			}
		}()
	}

	if err := eng.Run(ctx, coordinator); err != nil {
		renderer.Shutdown()
		return fmt.Errorf("run engine: %w", err)
	}
	renderer.Shutdown()

	if *kmlPath != "" {
		if err := writeKML(*kmlPath, w, opts); err != nil {
			return fmt.Errorf("write kml: %w", err)
		}
	}

	log.Printf("fers: run %s complete: %d transmitters, %d receivers, %d targets", runID, len(w.Transmitters()), len(w.Receivers()), len(w.Targets()))
	return nil
}

// openSink resolves the requested output path/format into a
// render.WindowSink plus a cleanup func. An empty path writes to
// stdout.
func openSink(path, format string, sampleRate float64) (render.WindowSink, func(), error) {
	var out io.Writer = os.Stdout
	closeFn := func() {}
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { f.Close() }
	}

	switch format {
	case "csv":
		return fersio.NewCSVSink(out, sampleRate), closeFn, nil
	case "binary":
		return fersio.NewBinarySink(out, sampleRate), closeFn, nil
	case "xml":
		return fersio.NewXMLSink(out), closeFn, nil
	default:
		closeFn()
		return nil, nil, fmt.Errorf("unknown output format %q (want csv, binary, or xml)", format)
	}
}

func writeKML(path string, w *world.World, opts world.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var platforms []*platform.Platform
	for _, tx := range w.Transmitters() {
		platforms = append(platforms, tx.Platform)
	}
	for _, rx := range w.Receivers() {
		platforms = append(platforms, rx.Platform)
	}
	for _, tgt := range w.Targets() {
		platforms = append(platforms, tgt.Platform)
	}

	return fersio.WriteTrajectories(f, platforms, opts.StartTime, opts.EndTime, 1.0)
}

// multiSink fans a window out to two sinks, used to both persist to
// sqlite and still write the user-requested output format.
type multiSink struct {
	primary   render.WindowSink
	secondary render.WindowSink
}

func (m *multiSink) WriteWindow(win render.Window) error {
	if err := m.primary.WriteWindow(win); err != nil {
		return err
	}
	return m.secondary.WriteWindow(win)
}
