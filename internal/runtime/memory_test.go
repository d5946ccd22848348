package runtime_test

import (
	"errors"
	"testing"

	"github.com/aretw0/optionsbot/internal/runtime"
	"github.com/aretw0/optionsbot/internal/testutils"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseVariables() map[string]float64 {
	return map[string]float64{
		domain.VarIPOBuy:             100,
		domain.VarSellBuy:            90,
		domain.VarQuitBuy:            50,
		domain.VarOptionTax:          22,
		domain.VarRegularIncomeTax:   33,
		domain.VarLongTermTax:        20,
		domain.VarWaitToSell:         0.8,
		domain.VarRangeStd:           2,
		domain.VarUseLogNorm:         0,
		domain.VarStrikePrice:        1.1,
		domain.VarTotalGrant:         123,
		domain.VarStartVestingMonths: 0,
		domain.VarImmediatelyVest:    123,
		domain.VarMonthlyVest:        0,
		domain.VarStartFMV:           1.2,
		domain.VarStartTotalShares:   1234567,
		domain.VarStartMonthLow:      0,
		domain.VarStartMonthHigh:     0,
	}
}

func newSetUpMemory(t *testing.T, overrides map[string]float64) *runtime.Memory {
	t.Helper()
	mem := runtime.NewMemory(testutils.NewSequenceSampler())
	for k, v := range baseVariables() {
		mem.SetValue(k, v)
	}
	for k, v := range overrides {
		mem.SetValue(k, v)
	}
	require.NoError(t, mem.FinishSetup())
	return mem
}

func TestMemory_FinishSetup_MissingVariable(t *testing.T) {
	mem := runtime.NewMemory(testutils.NewSequenceSampler())

	err := mem.FinishSetup()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingVariable)
	var missing *domain.MissingVariableError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, domain.VarIPOBuy, missing.Name)
}

func TestMemory_FinishSetup_Twice(t *testing.T) {
	mem := newSetUpMemory(t, nil)
	assert.ErrorIs(t, mem.FinishSetup(), domain.ErrDoubleSetup)
}

func TestMemory_FinishSetup_AppliesStartDelay(t *testing.T) {
	mem := newSetUpMemory(t, map[string]float64{
		domain.VarStartMonthLow:  5,
		domain.VarStartMonthHigh: 15,
	})

	// The sequence sampler lands on the midpoint of the range.
	assert.InDelta(t, 10, mem.Month(), 1e-9)
	assert.InDelta(t, 1.2, mem.FairMarketValue(), 1e-9)
	assert.InDelta(t, 1234567, mem.TotalShares(), 1e-9)
}

func TestMemory_OptionsAvailable_VestingSchedule(t *testing.T) {
	mem := newSetUpMemory(t, map[string]float64{
		domain.VarTotalGrant:         200,
		domain.VarStartVestingMonths: 10,
		domain.VarImmediatelyVest:    20,
		domain.VarMonthlyVest:        10,
	})

	mem.Delay(9.5)
	assert.Equal(t, 0.0, mem.OptionsAvailable(), "before the cliff")

	mem.Delay(0.5)
	assert.Equal(t, 20.0, mem.OptionsAvailable(), "at the cliff")

	mem.Delay(3)
	assert.Equal(t, 50.0, mem.OptionsAvailable(), "three months after the cliff")

	mem.Delay(100)
	assert.Equal(t, 200.0, mem.OptionsAvailable(), "capped at the grant")
}

func TestMemory_BuyOptions_RoundsAndClamps(t *testing.T) {
	mem := newSetUpMemory(t, nil)
	assert.Equal(t, 123.0, mem.OptionsAvailable())

	mem.BuyOptions(99.9)
	assert.Equal(t, 23.0, mem.OptionsAvailable())
	assert.Equal(t, 100.0, mem.Purchased())

	mem.BuyOptions(99.9)
	assert.Equal(t, 0.0, mem.OptionsAvailable())
	assert.Equal(t, 123.0, mem.Purchased())

	mem.BuyOptions(50)
	assert.Equal(t, 123.0, mem.Purchased(), "never exceeds the grant")
	assert.Len(t, mem.History(), 2, "empty purchases are not recorded")
}

func TestMemory_BuyOptions_History(t *testing.T) {
	mem := newSetUpMemory(t, nil)

	mem.SetFairMarketValue(1.2)
	mem.BuyOptions(99.9)
	mem.Delay(23)
	mem.SetFairMarketValue(2.3)
	mem.BuyOptions(99.9)

	history := mem.History()
	require.Len(t, history, 2)
	assert.Equal(t, runtime.Lot{Month: 0, Count: 100, Basis: 1.2}, history[0])
	assert.Equal(t, runtime.Lot{Month: 23, Count: 23, Basis: 2.3}, history[1])

	events := mem.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "Bought 100 with spread 0.1 each.", events[0].Text)
	assert.Equal(t, "Bought 23 with spread 1.2 each.", events[1].Text)
}

func TestMemory_Lifecycle(t *testing.T) {
	mem := newSetUpMemory(t, nil)

	_, err := mem.Result()
	assert.ErrorIs(t, err, domain.ErrResultBeforeFinalize)

	require.NoError(t, mem.Finalize())
	assert.ErrorIs(t, mem.Finalize(), domain.ErrDoubleFinalize)
}

func TestMemory_Finalize_NoPurchases(t *testing.T) {
	mem := newSetUpMemory(t, nil)
	mem.SetExitShare(100)

	require.NoError(t, mem.Finalize())
	result, err := mem.Result()
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Profit)
	assert.Empty(t, result.Events)
}

// twoLots buys 100 options at FMV 1.2 in month 0 and 23 options at FMV 2.3 in month 23,
// then exits at 4.5 in month 29.
func twoLots(t *testing.T, overrides map[string]float64) *runtime.Memory {
	mem := newSetUpMemory(t, overrides)
	mem.SetFairMarketValue(1.2)
	mem.BuyOptions(99.9)
	mem.Delay(23)
	mem.SetFairMarketValue(2.3)
	mem.BuyOptions(99.9)
	mem.SetExitShare(4.5)
	mem.Delay(6)
	return mem
}

func TestMemory_Finalize_WaitsForLongTerm(t *testing.T) {
	mem := twoLots(t, nil)

	require.NoError(t, mem.Finalize())
	result, err := mem.Result()
	require.NoError(t, err)

	spreadTax := ((1.2-1.1)*100 + (2.3-1.1)*23) * 0.22
	longTermTax := (100*(4.5-1.2) + 23*(4.5-2.3)) * 0.20
	strikePaid := 123 * 1.1
	totalSale := 123 * 4.5
	expected := totalSale - longTermTax - spreadTax - strikePaid

	assert.InDelta(t, expected, result.Profit, 1e-9)
	assert.InDelta(t, 35, result.Months, 1e-9)

	texts := make([]string, len(result.Events))
	for i, e := range result.Events {
		texts[i] = e.Text
	}
	assert.Contains(t, texts, "Wait to sell for long term gains tax.")
	assert.Equal(t,
		"Sold 123 at 553.5 with taxes of 76.12 after tax on spread of 8.27 for shares costing 135.3",
		texts[len(texts)-1])
}

func TestMemory_Finalize_SplitsHoldingPeriods(t *testing.T) {
	mem := twoLots(t, map[string]float64{domain.VarWaitToSell: 0})

	require.NoError(t, mem.Finalize())
	result, err := mem.Result()
	require.NoError(t, err)

	spreadTax := ((1.2-1.1)*100 + (2.3-1.1)*23) * 0.22
	longTermTax := 100 * (4.5 - 1.2) * 0.20
	regularTax := 23 * (4.5 - 2.3) * 0.33
	strikePaid := 123 * 1.1
	totalSale := 123 * 4.5
	expected := totalSale - longTermTax - regularTax - spreadTax - strikePaid

	assert.InDelta(t, expected, result.Profit, 1e-9)
	assert.InDelta(t, 29, result.Months, 1e-9)
}

func TestMemory_Finalize_FloorsLossesPerLot(t *testing.T) {
	mem := newSetUpMemory(t, map[string]float64{domain.VarWaitToSell: 0})
	mem.SetFairMarketValue(1.2)
	mem.BuyOptions(100)
	mem.Delay(23)
	mem.SetFairMarketValue(2.3)
	mem.BuyOptions(23)
	mem.SetExitShare(2)
	mem.Delay(6)

	require.NoError(t, mem.Finalize())
	result, err := mem.Result()
	require.NoError(t, err)

	// The second lot lost money; its loss must not offset the first lot's gain.
	spreadTax := ((1.2-1.1)*100 + (2.3-1.1)*23) * 0.22
	longTermTax := 100 * (2 - 1.2) * 0.20
	expected := 123*2 - longTermTax - spreadTax - 123*1.1

	assert.InDelta(t, expected, result.Profit, 1e-9)
}

func TestMemory_Quit(t *testing.T) {
	mem := newSetUpMemory(t, nil)

	mem.Quit()
	mem.Quit()

	assert.Equal(t, 0.0, mem.OptionsAvailable())
	events := mem.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Left job.", events[0].Text)
}

func TestMemory_ExitAndDilution(t *testing.T) {
	mem := newSetUpMemory(t, nil)

	mem.SetExitValue(1234567 * 2)
	assert.InDelta(t, 2, mem.ExitShare(), 1e-9)
	assert.InDelta(t, 2, mem.FairMarketValue(), 1e-9)

	mem.SetExitShare(3)
	assert.InDelta(t, 3, mem.ExitShare(), 1e-9)

	mem.Dilute(0.1)
	assert.InDelta(t, 1234567*1.1, mem.TotalShares(), 1e-6)
}

func TestMemory_ClampsNegativeInputs(t *testing.T) {
	mem := newSetUpMemory(t, nil)

	mem.Delay(-5)
	mem.SetFairMarketValue(-1)
	mem.Dilute(-0.5)
	mem.BuyOptions(-10)

	assert.Equal(t, 0.0, mem.Month())
	assert.Equal(t, 0.0, mem.FairMarketValue())
	assert.InDelta(t, 1234567, mem.TotalShares(), 1e-9)
	assert.Equal(t, 0.0, mem.Purchased())
}

func TestMemory_FinalizeBeforeSetup(t *testing.T) {
	mem := runtime.NewMemory(testutils.NewSequenceSampler())
	assert.ErrorIs(t, mem.Finalize(), domain.ErrNotSetUp)
}
