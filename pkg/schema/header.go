package schema

import "github.com/aretw0/optionsbot/pkg/domain"

// Header returns the rules for the variables a simulation reads.
func Header() Schema {
	return Schema{
		domain.VarIPOBuy:             Percent(),
		domain.VarSellBuy:            Percent(),
		domain.VarQuitBuy:            Percent(),
		domain.VarOptionTax:          Percent(),
		domain.VarRegularIncomeTax:   Percent(),
		domain.VarLongTermTax:        Percent(),
		domain.VarWaitToSell:         Flag(),
		domain.VarUseLogNorm:         Flag(),
		domain.VarRangeStd:           NonNegative(),
		domain.VarStrikePrice:        NonNegative(),
		domain.VarTotalGrant:         NonNegative(),
		domain.VarStartVestingMonths: NonNegative(),
		domain.VarImmediatelyVest:    NonNegative(),
		domain.VarMonthlyVest:        NonNegative(),
		domain.VarStartFMV:           NonNegative(),
		domain.VarStartTotalShares:   Positive(),
		domain.VarStartMonthLow:      NonNegative(),
		domain.VarStartMonthHigh:     NonNegative(),
	}
}

// Variables collects a program header into a map. Later assignments win.
func Variables(prog *domain.Program) map[string]float64 {
	out := make(map[string]float64, len(prog.Variables))
	for _, a := range prog.Variables {
		out[a.Name] = a.Value
	}
	return out
}
