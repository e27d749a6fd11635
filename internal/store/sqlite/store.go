// Package sqlite persists simulation runs and their rendered windows:
// one row per run (seed, options, time span) and one row per finished
// window (receiver, index, sample count, peak magnitude), grounded on
// the teacher's internal/db package's NewDB/applyPragmas/migrate shape,
// narrowed to this module's much smaller schema.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math/cmplx"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/fers-sim/fers/internal/render"
	"github.com/fers-sim/fers/internal/world"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store owns a sqlite database recording simulation runs and windows.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite database at path, applies
// the WAL/busy-timeout PRAGMAs the teacher's db package always applies,
// and migrates it to the latest schema version.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open %q: %w", path, err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("store: failed to execute %q: %w", p, err)
		}
	}
	return nil
}

func (s *Store) migrate() error {
	sourceFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("store: failed to open embedded migrations: %w", err)
	}
	sourceDriver, err := iofs.New(sourceFS, ".")
	if err != nil {
		return fmt.Errorf("store: failed to create migration source: %w", err)
	}
	dbDriver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("store: failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("store: failed to build migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("store: migration failed: %w", err)
	}
	return nil
}

// InsertRun records a new run's parameters and returns its id.
func (s *Store) InsertRun(seed int64, opts world.Options) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (seed, speed_of_light, sample_rate, oversample_ratio, start_time, end_time, created_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seed, opts.SpeedOfLight, opts.SampleRate, opts.OversampleRatio, opts.StartTime, opts.EndTime, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("store: failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: failed to read inserted run id: %w", err)
	}
	return id, nil
}

// RunSink persists every window rendered for one run as a row in the
// windows table. It implements render.WindowSink so it can be used
// directly (or composed with another sink) as the renderer's output.
type RunSink struct {
	store *Store
	runID int64
}

var _ render.WindowSink = (*RunSink)(nil)

// NewRunSink returns a WindowSink that records windows under runID.
func (s *Store) NewRunSink(runID int64) *RunSink {
	return &RunSink{store: s, runID: runID}
}

// WriteWindow implements render.WindowSink.
func (rs *RunSink) WriteWindow(w render.Window) error {
	peak := 0.0
	for _, sample := range w.Samples {
		if mag := cmplx.Abs(sample); mag > peak {
			peak = mag
		}
	}
	_, err := rs.store.db.Exec(
		`INSERT INTO windows (run_id, receiver, window_index, start_time, sample_count, peak_magnitude)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rs.runID, w.Receiver, w.Index, w.StartTime, len(w.Samples), peak,
	)
	if err != nil {
		return fmt.Errorf("store: failed to insert window %d for %q: %w", w.Index, w.Receiver, err)
	}
	return nil
}
