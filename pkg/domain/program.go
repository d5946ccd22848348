package domain

// Actor identifies who a branch outcome happens to.
type Actor string

const (
	ActorCompany  Actor = "c"
	ActorEmployee Actor = "e"
)

// Units tells how a sell or IPO range is expressed.
type Units string

const (
	// UnitsShare means the range is a per-share price.
	UnitsShare Units = "share"
	// UnitsTotal means the range is a whole-company valuation.
	UnitsTotal Units = "total"
)

// ActionKind is the discriminator of the Action union.
type ActionKind string

const (
	KindFail  ActionKind = "fail"
	KindQuit  ActionKind = "quit"
	KindBuy   ActionKind = "buy"
	KindSell  ActionKind = "sell"
	KindIPO   ActionKind = "ipo"
	KindRaise ActionKind = "raise"
)

// Position is a 1-based location in the source text.
type Position struct {
	Line   int
	Column int
}

// Program is a parsed simulation: a header of variables and the root decision point.
type Program struct {
	// Variables keeps declaration order so formatting round-trips.
	Variables []Assignment
	Root      BranchSet
}

// Assignment is a single "name = number" header entry.
type Assignment struct {
	Name  string
	Value float64
	Pos   Position
}

// Lookup returns the last value assigned to name.
func (p *Program) Lookup(name string) (float64, bool) {
	var (
		value float64
		found bool
	)
	for _, a := range p.Variables {
		if a.Name == name {
			value, found = a.Value, true
		}
	}
	return value, found
}

// BranchSet is an ordered list of competing outcomes at one decision point.
type BranchSet []Branch

// Chance is either an explicit probability in [0,1] or the residual "else".
type Chance struct {
	Else bool
	P    float64
}

// Branch is one outcome inside a BranchSet.
type Branch struct {
	Actor  Actor
	Chance Chance
	Action Action
	Pos    Position
}

// Action is the tagged union of things that can happen on a branch.
// Implementations are Fail, Quit, Buy, Sell, IPO and Raise.
type Action interface {
	Kind() ActionKind
}

// Fail ends the company with an exit value of zero.
type Fail struct{}

// Quit makes the employee leave, exercising quitBuy percent of what is vested.
type Quit struct{}

// Buy exercises a percentage of the currently available options.
type Buy struct {
	// Percent is kept as written (80 for "80%").
	Percent float64
}

// Sell is an acquisition with a sampled price.
type Sell struct {
	Low   float64
	High  float64
	Units Units
}

// IPO is a public offering with a sampled price.
type IPO struct {
	Low   float64
	High  float64
	Units Units
}

// Raise is a funding round. It updates the ledger and then continues into Next.
type Raise struct {
	FMVLow  float64
	FMVHigh float64
	// DiluteLow and DiluteHigh are percentages as written (10 for "10%").
	DiluteLow  float64
	DiluteHigh float64
	DelayLow   float64
	DelayHigh  float64
	Next       BranchSet
}

func (Fail) Kind() ActionKind  { return KindFail }
func (Quit) Kind() ActionKind  { return KindQuit }
func (Buy) Kind() ActionKind   { return KindBuy }
func (Sell) Kind() ActionKind  { return KindSell }
func (IPO) Kind() ActionKind   { return KindIPO }
func (Raise) Kind() ActionKind { return KindRaise }

// CountRaises returns the number of raise actions in the whole tree rooted at set.
func CountRaises(set BranchSet) int {
	n := 0
	for _, b := range set {
		if r, ok := b.Action.(Raise); ok {
			n += 1 + CountRaises(r.Next)
		}
	}
	return n
}
