package domain

// ProbabilityEpsilon is the tolerance allowed when explicit probabilities of
// one actor group are summed.
const ProbabilityEpsilon = 0.01

// Variable names read by the simulation.
const (
	VarIPOBuy             = "ipoBuy"
	VarSellBuy            = "sellBuy"
	VarQuitBuy            = "quitBuy"
	VarOptionTax          = "optionTax"
	VarRegularIncomeTax   = "regularIncomeTax"
	VarLongTermTax        = "longTermTax"
	VarWaitToSell         = "waitToSell"
	VarRangeStd           = "rangeStd"
	VarUseLogNorm         = "useLogNorm"
	VarStrikePrice        = "strikePrice"
	VarTotalGrant         = "totalGrant"
	VarStartVestingMonths = "startVestingMonths"
	VarImmediatelyVest    = "immediatelyVest"
	VarMonthlyVest        = "monthlyVest"
	VarStartFMV           = "startFMV"
	VarStartTotalShares   = "startTotalShares"
	VarStartMonthLow      = "startMonthLow"
	VarStartMonthHigh     = "startMonthHigh"
)

// RequiredVariables lists, in check order, every variable a program header must define.
var RequiredVariables = []string{
	VarIPOBuy,
	VarSellBuy,
	VarQuitBuy,
	VarOptionTax,
	VarRegularIncomeTax,
	VarLongTermTax,
	VarWaitToSell,
	VarRangeStd,
	VarUseLogNorm,
	VarStrikePrice,
	VarTotalGrant,
	VarStartVestingMonths,
	VarImmediatelyVest,
	VarMonthlyVest,
	VarStartFMV,
	VarStartTotalShares,
	VarStartMonthLow,
	VarStartMonthHigh,
}
