package target

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Constant always returns a multiplier of 1 (no fluctuation).
type Constant struct{}

func (Constant) Sample() float64 { return 1 }

// NewSource returns a distuv-compatible RNG source seeded with seed,
// for constructing SwerlingI1II/SwerlingIIIIV models with independent,
// reproducible streams.
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

// SwerlingI1II models Swerling case I/II targets: RCS follows a
// chi-square distribution with 2 degrees of freedom, i.e. an
// exponential distribution with mean 1.
type SwerlingI1II struct {
	dist distuv.Exponential
}

// NewSwerlingI1II returns a Swerling I/II model seeded from src.
func NewSwerlingI1II(src rand.Source) *SwerlingI1II {
	return &SwerlingI1II{dist: distuv.Exponential{Rate: 1, Src: src}}
}

func (s *SwerlingI1II) Sample() float64 { return s.dist.Rand() }

// SwerlingIIIIV models Swerling case III/IV targets: RCS follows a
// chi-square distribution with 4 degrees of freedom, i.e. a gamma
// distribution with shape 2, scaled so its mean is 1.
type SwerlingIIIIV struct {
	dist distuv.Gamma
}

// NewSwerlingIIIIV returns a Swerling III/IV model seeded from src.
func NewSwerlingIIIIV(src rand.Source) *SwerlingIIIIV {
	return &SwerlingIIIIV{dist: distuv.Gamma{Alpha: 2, Beta: 2, Src: src}}
}

func (s *SwerlingIIIIV) Sample() float64 { return s.dist.Rand() }
