// Package config loads the flat World options a scenario run needs
// from a JSON document, separate from scenario authoring (XML parsing
// of platforms/transmitters/receivers/targets lives outside this
// module's scope; this package only owns the scalar run parameters).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fers-sim/fers/internal/world"
)

// DefaultConfigPath is the conventional location for a run's option
// file. Nothing loads it automatically: when no -config is given,
// cmd/fers uses world.DefaultOptions().
const DefaultConfigPath = "config/fers.defaults.json"

// WorldOptions mirrors world.Options with all-pointer fields so a
// partial JSON document only overrides what it specifies.
type WorldOptions struct {
	SpeedOfLight    *float64 `json:"speed_of_light,omitempty"`
	SampleRate      *float64 `json:"sample_rate,omitempty"`
	OversampleRatio *float64 `json:"oversample_ratio,omitempty"`
	StartTime       *float64 `json:"start_time,omitempty"`
	EndTime         *float64 `json:"end_time,omitempty"`
	RandomSeed      *int64   `json:"random_seed,omitempty"`
}

// EmptyWorldOptions returns a WorldOptions with every field nil. Use
// Load to populate actual values from a file.
func EmptyWorldOptions() *WorldOptions {
	return &WorldOptions{}
}

// Load reads a JSON document at path into a WorldOptions. Fields
// omitted from the document keep the world.DefaultOptions() values
// when Resolve is later called.
func Load(path string) (*WorldOptions, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config: file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to stat %q: %w", cleanPath, err)
	}
	const maxFileSize = 1 << 20
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config: file %q too large: %d bytes (max %d)", cleanPath, info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %q: %w", cleanPath, err)
	}

	opts := EmptyWorldOptions()
	if err := json.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("config: failed to parse %q: %w", cleanPath, err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid options in %q: %w", cleanPath, err)
	}
	return opts, nil
}

// Validate checks the configured values for obvious mistakes.
func (o *WorldOptions) Validate() error {
	if o.SampleRate != nil && *o.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %v", *o.SampleRate)
	}
	if o.OversampleRatio != nil && *o.OversampleRatio <= 0 {
		return fmt.Errorf("oversample_ratio must be positive, got %v", *o.OversampleRatio)
	}
	if o.EndTime != nil && o.StartTime != nil && *o.EndTime < *o.StartTime {
		return fmt.Errorf("end_time (%v) must be >= start_time (%v)", *o.EndTime, *o.StartTime)
	}
	return nil
}

// Resolve overlays o onto world.DefaultOptions(), returning a fully
// populated world.Options.
func (o *WorldOptions) Resolve() world.Options {
	out := world.DefaultOptions()
	if o.SpeedOfLight != nil {
		out.SpeedOfLight = *o.SpeedOfLight
	}
	if o.SampleRate != nil {
		out.SampleRate = *o.SampleRate
	}
	if o.OversampleRatio != nil {
		out.OversampleRatio = *o.OversampleRatio
	}
	if o.StartTime != nil {
		out.StartTime = *o.StartTime
	}
	if o.EndTime != nil {
		out.EndTime = *o.EndTime
	}
	if o.RandomSeed != nil {
		out.RandomSeed = *o.RandomSeed
	}
	return out
}
