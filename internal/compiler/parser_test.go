package compiler

import (
	"errors"
	"testing"

	"github.com/aretw0/optionsbot/internal/testutils"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shortProgram = `[testa=1 testb=2.3]{e_0.1: buy(80%) | c_0.1: ipo(3 - 4 share) | c_0.4: sell(2 - 3 share) | c_else:raise(1.1 - 1.2 fmv diluting 10 - 20% wait 12 - 24 months then {c_0.5: sell(1 - 2 share) | c_0.5: ipo(2 - 3 share)} ) }`

// ignorePositions compares trees by structure only.
var ignorePositions = cmp.FilterPath(func(p cmp.Path) bool {
	return p.Last().String() == ".Pos"
}, cmp.Ignore())

func TestParse_Program(t *testing.T) {
	prog, err := Parse(shortProgram)
	require.NoError(t, err)

	want := &domain.Program{
		Variables: []domain.Assignment{{Name: "testa", Value: 1}, {Name: "testb", Value: 2.3}},
		Root: domain.BranchSet{
			{Actor: domain.ActorEmployee, Chance: domain.Chance{P: 0.1}, Action: domain.Buy{Percent: 80}},
			{Actor: domain.ActorCompany, Chance: domain.Chance{P: 0.1}, Action: domain.IPO{Low: 3, High: 4, Units: domain.UnitsShare}},
			{Actor: domain.ActorCompany, Chance: domain.Chance{P: 0.4}, Action: domain.Sell{Low: 2, High: 3, Units: domain.UnitsShare}},
			{Actor: domain.ActorCompany, Chance: domain.Chance{Else: true}, Action: domain.Raise{
				FMVLow: 1.1, FMVHigh: 1.2, DiluteLow: 10, DiluteHigh: 20, DelayLow: 12, DelayHigh: 24,
				Next: domain.BranchSet{
					{Actor: domain.ActorCompany, Chance: domain.Chance{P: 0.5}, Action: domain.Sell{Low: 1, High: 2, Units: domain.UnitsShare}},
					{Actor: domain.ActorCompany, Chance: domain.Chance{P: 0.5}, Action: domain.IPO{Low: 2, High: 3, Units: domain.UnitsShare}},
				},
			}},
		},
	}

	if diff := cmp.Diff(want, prog, ignorePositions); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SampleProgram(t *testing.T) {
	prog, err := Parse(testutils.SampleProgram)
	require.NoError(t, err)

	assert.Len(t, prog.Variables, 18)
	assert.Equal(t, 1, domain.CountRaises(prog.Root))

	ipo, ok := prog.Root[1].Action.(domain.IPO)
	require.True(t, ok)
	assert.Equal(t, 500000000.0, ipo.Low)
	assert.Equal(t, domain.UnitsTotal, ipo.Units)
}

func TestParse_Positions(t *testing.T) {
	prog, err := Parse("[]{\n  c_0.5: fail()\n  |e_else: quit()}")
	require.NoError(t, err)

	require.Len(t, prog.Root, 2)
	assert.Equal(t, domain.Position{Line: 2, Column: 3}, prog.Root[0].Pos)
	assert.Equal(t, domain.Position{Line: 3, Column: 4}, prog.Root[1].Pos)
}

func TestParse_EmptyBranchSet(t *testing.T) {
	prog, err := Parse("[a=1]{}")
	require.NoError(t, err)
	assert.Empty(t, prog.Root)

	prog, err = Parse("[]{c_else: raise(1 - 2 fmv diluting 1 - 2% wait 1 - 2 months then {})}")
	require.NoError(t, err)
	require.Len(t, prog.Root, 1)
	assert.Empty(t, prog.Root[0].Action.(domain.Raise).Next)
}

func TestParse_PercentProbability(t *testing.T) {
	prog, err := Parse("[]{c_25%: fail()}")
	require.NoError(t, err)
	assert.Equal(t, 0.25, prog.Root[0].Chance.P)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing header", "{c_1: fail()}", "expecting '['"},
		{"bad actor", "[]{x_1: fail()}", "expecting 'c' or 'e'"},
		{"unknown action", "[]{c_1: explode()}", "expecting fail, quit, buy, sell, ipo or raise"},
		{"missing units", "[]{c_1: sell(1 - 2)}", "expecting 'share' or 'total'"},
		{"buy needs percent", "[]{e_1: buy(80)}", "expecting '%'"},
		{"unclosed body", "[]{c_1: fail()", "expecting '}'"},
		{"trailing input", "[]{c_1: fail()} extra", "expecting end of input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)

			var syn *domain.SyntaxErrors
			require.True(t, errors.As(err, &syn))
			require.NotEmpty(t, syn.Errors)
			assert.Contains(t, syn.Errors[len(syn.Errors)-1].Message, tt.msg)
		})
	}
}

func TestParse_InvalidNumberReported(t *testing.T) {
	_, err := Parse("[a=1.2.3 b=1..5]{}")
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrInvalidNumber)
	assert.Len(t, domain.Messages(err), 2)
}
