package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrototypeValidation(t *testing.T) {
	_, err := NewPrototype("bad-rate", 0, []complex128{1}, 1, 1e9)
	require.Error(t, err)

	_, err = NewPrototype("no-samples", 1e6, nil, 1, 1e9)
	require.Error(t, err)
}

func TestPrototypeAtInterpolates(t *testing.T) {
	p, err := NewPrototype("p", 1, []complex128{0, complex(10, 0)}, 1, 1e9)
	require.NoError(t, err)
	assert.Equal(t, complex(5, 0), p.At(0.5))
	assert.Equal(t, complex(0, 0), p.At(-1))
	assert.Equal(t, complex(0, 0), p.At(5))
}

func TestDuration(t *testing.T) {
	p, err := NewPrototype("p", 2, make([]complex128, 10), 1, 1e9)
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.Duration())
}
