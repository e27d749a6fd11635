package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLinearInterp(t *testing.T) {
	var s Set
	s.Add(1, 10)
	s.Add(0, 0)
	s.Add(2, 20)

	assert.Equal(t, 0.0, s.Value(0))
	assert.Equal(t, 10.0, s.Value(1))
	assert.Equal(t, 5.0, s.Value(0.5))
	assert.Equal(t, 15.0, s.Value(1.5))
}

func TestSetClampedExtrapolation(t *testing.T) {
	var s Set
	s.Add(0, 1)
	s.Add(1, 2)

	assert.Equal(t, 1.0, s.Value(-5))
	assert.Equal(t, 2.0, s.Value(5))
}

func TestSetSingleSample(t *testing.T) {
	var s Set
	s.Add(3, 42)
	assert.Equal(t, 42.0, s.Value(-100))
	assert.Equal(t, 42.0, s.Value(100))
}
