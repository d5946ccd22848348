/*
Package optionsbot models startup employee equity as a small language and
simulates it.

A program declares the grant, the taxes and the company's starting point in a
header of variables, then describes what can happen next as a tree of
probabilistic branches: the company may fail, be sold, go public or raise a
round (which leads to another set of branches), and the employee may buy
options or quit.

	[ipoBuy=100 sellBuy=90 quitBuy=50 ... startMonthHigh=15]
	{
	  e_0.1: buy(80%)
	  |c_0.1: ipo(500,000,000 - 1,000,000,000 total)
	  |c_else: raise(2 - 3 fmv diluting 10 - 20% wait 12 - 24 months then {
	    c_0.5: sell(200,000,000 - 700,000,000 total)
	    |c_else: fail()
	  })
	}

# Usage

The package-level functions cover the stateless operations:

	prog, err := optionsbot.Compile(src)          // executable simulation
	doc, err := optionsbot.Serialize(src)         // editable stage list
	text, err := optionsbot.Format(src)           // canonical layout
	src, err := optionsbot.Deserialize(doc)       // back to source text

Syntax problems are returned as a *domain.SyntaxErrors listing every
diagnostic with its line and column; Respond converts any result into the
{errors, result} shape used by the HTTP and MCP surfaces.

An Engine adds Monte Carlo batches and report storage:

	eng := optionsbot.New(
		optionsbot.WithReportStore(memory.NewStore()),
		optionsbot.WithRunnerOptions(runner.WithTrials(5000)),
	)
	report, err := eng.Simulate(ctx, src)
*/
package optionsbot
