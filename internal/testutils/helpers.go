package testutils

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	tmpDir := t.TempDir()

	// Loam sometimes prefers absolute paths, though t.TempDir usually returns one.
	absPath, err := filepath.Abs(tmpDir)
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// SequenceSampler is a deterministic sampler for tests.
//
// Float64 replays Uniforms in order and then keeps returning the last value
// (0.5 when empty). Normal and LogNormal return the center of the distribution,
// so every ranged sample lands on the midpoint of its range. IntN always picks 0.
type SequenceSampler struct {
	Uniforms []float64
	// Draws counts every call, whatever the distribution.
	Draws int
	next  int
}

// NewSequenceSampler creates a sampler replaying uniforms.
func NewSequenceSampler(uniforms ...float64) *SequenceSampler {
	return &SequenceSampler{Uniforms: uniforms}
}

func (s *SequenceSampler) Float64() float64 {
	s.Draws++
	if len(s.Uniforms) == 0 {
		return 0.5
	}
	i := min(s.next, len(s.Uniforms)-1)
	s.next++
	return s.Uniforms[i]
}

func (s *SequenceSampler) IntN(n int) int {
	s.Draws++
	return 0
}

func (s *SequenceSampler) Normal(mu, sigma float64) float64 {
	s.Draws++
	return mu
}

func (s *SequenceSampler) LogNormal(mu, sigma float64) float64 {
	s.Draws++
	return math.Exp(mu)
}

// SampleProgram is a complete program exercising every action kind.
const SampleProgram = `[useLogNorm = 0 ipoBuy = 100 sellBuy = 90 quitBuy = 50 optionTax = 26 regularIncomeTax = 33 longTermTax = 20 waitToSell = 0 strikePrice = 1 totalGrant = 200 startVestingMonths = 10 immediatelyVest = 20 monthlyVest = 10 startFMV = 2 startTotalShares = 100000 rangeStd = 2 startMonthLow = 5 startMonthHigh = 15]{e_0.1: buy(80%) | c_0.1: ipo(500,000,000 - 1,000,000,000 total) | c_0.4: sell(100,000,000 - 500,000,000 total) | c_else:raise(2 - 3 fmv diluting 10 - 20% wait 12 - 24 months then {e_0.2: quit() | c_0.1: fail() | c_0.4: sell(200,000,000 - 700,000,000 total) | c_0.5: ipo(500,000,000 - 1,500,000,000 total)} ) }`
