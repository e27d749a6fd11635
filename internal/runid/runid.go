// Package runid generates identifiers for simulation runs and the
// responses they produce.
package runid

import "github.com/google/uuid"

// New returns a fresh run identifier.
func New() string {
	return uuid.NewString()
}

// NewResponseID returns a fresh response identifier.
func NewResponseID() string {
	return uuid.NewString()
}
