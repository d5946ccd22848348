package runtime

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler is the source of randomness for one simulation trial.
// Tests inject deterministic implementations.
type Sampler interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// IntN returns a uniform draw in [0, n).
	IntN(n int) int
	// Normal draws from N(mu, sigma).
	Normal(mu, sigma float64) float64
	// LogNormal draws from a log-normal whose underlying normal is N(mu, sigma).
	LogNormal(mu, sigma float64) float64
}

// DistSampler draws from gonum distributions over a PCG source.
// It is not safe for concurrent use; give every worker its own.
type DistSampler struct {
	rnd *rand.Rand
}

// NewSampler creates a sampler seeded with seed.
func NewSampler(seed uint64) *DistSampler {
	return &DistSampler{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *DistSampler) Float64() float64 {
	return distuv.Uniform{Min: 0, Max: 1, Src: s.rnd}.Rand()
}

func (s *DistSampler) IntN(n int) int {
	return s.rnd.IntN(n)
}

func (s *DistSampler) Normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.rnd}.Rand()
}

func (s *DistSampler) LogNormal(mu, sigma float64) float64 {
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: s.rnd}.Rand()
}

// logNormSigma is the shape of the skewed distribution used when useLogNorm is on.
const logNormSigma = 0.5

// Sample draws one value from the range [low, high].
//
// rangeStd is how many standard deviations the half-range spans (2 reads as
// "roughly a 95% interval"). A degenerate range returns low without consuming
// randomness, and a non-positive rangeStd collapses to the midpoint.
func Sample(s Sampler, low, high float64, mustBePositive bool, rangeStd float64, useLogNorm bool) float64 {
	if low == high {
		return low
	}
	if high < low {
		low, high = high, low
	}

	mean := (low + high) / 2
	var value float64
	if rangeStd <= 0 {
		value = mean
	} else {
		std := (high - mean) / rangeStd
		if useLogNorm {
			value = (s.LogNormal(0, logNormSigma)-1)*std + mean
		} else {
			value = s.Normal(mean, std)
		}
	}

	if mustBePositive && value < 0 {
		return 0
	}
	return value
}
