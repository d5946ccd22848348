package optionsbot

// DefaultProgram is a complete starting point: an employee with a 200 option
// grant at a company that may exit directly or after one funding round.
const DefaultProgram = `[useLogNorm=0 ipoBuy=100 sellBuy=90 quitBuy=50 optionTax=26 regularIncomeTax=33 longTermTax=20 waitToSell=0 strikePrice=1 totalGrant=200 startVestingMonths=10 immediatelyVest=20 monthlyVest=10 startFMV=2 startTotalShares=100,000 rangeStd=2 startMonthLow=5 startMonthHigh=15]
{
  e_0.1: buy(80%)
  |c_0.1: ipo(500,000,000 - 1,000,000,000 total)
  |c_0.4: sell(100,000,000 - 500,000,000 total)
  |c_else: raise(2 - 3 fmv diluting 10 - 20% wait 12 - 24 months then {
    e_0.2: quit()
    |c_0.1: fail()
    |c_0.4: sell(200,000,000 - 700,000,000 total)
    |c_0.5: ipo(500,000,000 - 1,500,000,000 total)
  })
}`
