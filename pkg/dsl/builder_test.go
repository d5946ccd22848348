package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/optionsbot/internal/compiler"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/dsl"
	"github.com/aretw0/optionsbot/pkg/format"
)

func TestBuilder_MatchesParsedSource(t *testing.T) {
	b := dsl.New().Set("testa", 1).Set("testb", 2.3)
	b.Root().
		Employee(0.1, dsl.Buy(80)).
		Company(0.1, dsl.IPO(3, 4, domain.UnitsShare)).
		Company(0.4, dsl.Sell(2, 3, domain.UnitsShare)).
		CompanyElse(dsl.Raise(1.1, 1.2, 10, 20, 12, 24, func(next *dsl.Stage) {
			next.
				Company(0.5, dsl.Sell(1, 2, domain.UnitsShare)).
				Company(0.5, dsl.IPO(2, 3, domain.UnitsShare))
		}))

	parsed, err := compiler.Parse(`[testa=1 testb=2.3]{e_0.1: buy(80%) | c_0.1: ipo(3 - 4 share) | c_0.4: sell(2 - 3 share) | c_else:raise(1.1 - 1.2 fmv diluting 10 - 20% wait 12 - 24 months then {c_0.5: sell(1 - 2 share) | c_0.5: ipo(2 - 3 share)} ) }`)
	require.NoError(t, err)

	assert.Equal(t, format.Format(parsed), format.Format(b.Build()))
}

func TestBuilder_SetReplacesInPlace(t *testing.T) {
	prog := dsl.New().Set("a", 1).Set("b", 2).Set("a", 3).Build()

	assert.Equal(t, []domain.Assignment{{Name: "a", Value: 3}, {Name: "b", Value: 2}}, prog.Variables)
}

func TestBuilder_EmptyRaise(t *testing.T) {
	b := dsl.New()
	b.Root().EmployeeElse(dsl.Quit()).CompanyElse(dsl.Raise(1, 2, 0, 0, 1, 1, nil))

	assert.Equal(t, "[]\n{\n  e_else: quit()\n  |c_else: raise(1 - 2 fmv diluting 0 - 0% wait 1 - 1 months then {\n  })\n}",
		format.Format(b.Build()))
}

func TestBuilder_CompilesWithDefaultHeader(t *testing.T) {
	parsed, err := compiler.Parse("[ipoBuy=100 sellBuy=90 quitBuy=50 optionTax=26 regularIncomeTax=33 longTermTax=20 waitToSell=0 strikePrice=1 totalGrant=200 startVestingMonths=0 immediatelyVest=200 monthlyVest=0 startFMV=2 startTotalShares=1000 rangeStd=2 useLogNorm=0 startMonthLow=0 startMonthHigh=0]{}")
	require.NoError(t, err)

	b := dsl.New().SetAll(parsed.Variables)
	b.Root().CompanyElse(dsl.Fail())

	prog, err := compiler.Compile(b.Build())
	require.NoError(t, err)
	assert.Equal(t, 1, prog.Stages())

	b.Root().Company(0.6, dsl.Sell(1, 2, domain.UnitsShare)).Company(0.6, dsl.IPO(1, 2, domain.UnitsShare))
	_, err = compiler.Compile(b.Build())
	assert.ErrorIs(t, err, domain.ErrProbabilityOverflow)
}
