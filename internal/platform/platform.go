// Package platform implements the mobile reference frame that a
// transmitter, receiver or target is attached to: a position path plus
// a rotation path, both exposed at a point in time.
package platform

import (
	"fmt"

	"github.com/fers-sim/fers/internal/geom"
	"github.com/fers-sim/fers/internal/path"
)

// Platform owns a position path and a rotation path. It is not safe
// for concurrent use during construction (AddCoord/AddRot/Finalize),
// but GetPosition/GetRotation are read-only and safe once finalized.
type Platform struct {
	Name     string
	position *path.Path
	rotation *path.RotationPath
}

// New returns a named Platform with the given interpolation modes.
func New(name string, posMode, rotMode path.Mode) *Platform {
	return &Platform{
		Name:     name,
		position: path.New(posMode),
		rotation: path.NewRotation(rotMode),
	}
}

// Position returns the platform's path for direct mutation (AddCoord,
// SetMode) before Finalize.
func (p *Platform) Position() *path.Path { return p.position }

// Rotation returns the platform's rotation path for direct mutation.
func (p *Platform) Rotation() *path.RotationPath { return p.rotation }

// Finalize finalizes both the position and rotation paths.
func (p *Platform) Finalize() {
	p.position.Finalize()
	p.rotation.Finalize()
}

// GetPosition returns the platform's position at time t.
func (p *Platform) GetPosition(t float64) (geom.V3, error) {
	pos, err := p.position.Position(t)
	if err != nil {
		return geom.V3{}, fmt.Errorf("platform %q: %w", p.Name, err)
	}
	return pos, nil
}

// GetRotation returns the platform's orientation at time t.
func (p *Platform) GetRotation(t float64) (geom.S3, error) {
	rot, err := p.rotation.Orientation(t)
	if err != nil {
		return geom.S3{}, fmt.Errorf("platform %q: %w", p.Name, err)
	}
	return rot, nil
}
