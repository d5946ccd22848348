package dsl

import "github.com/aretw0/optionsbot/pkg/domain"

// Stage provides a fluent API for filling one decision point.
// Branches keep the order they are added in.
type Stage struct {
	branches []branch
}

type branch struct {
	actor  domain.Actor
	chance domain.Chance
	action Action
}

// Action is an outcome that can be placed on a branch.
type Action struct {
	action domain.Action
	then   func(*Stage)
}

// Company adds a company outcome with probability p.
func (s *Stage) Company(p float64, a Action) *Stage {
	return s.add(domain.ActorCompany, domain.Chance{P: p}, a)
}

// CompanyElse adds the residual company outcome.
func (s *Stage) CompanyElse(a Action) *Stage {
	return s.add(domain.ActorCompany, domain.Chance{Else: true}, a)
}

// Employee adds an employee outcome with probability p.
func (s *Stage) Employee(p float64, a Action) *Stage {
	return s.add(domain.ActorEmployee, domain.Chance{P: p}, a)
}

// EmployeeElse adds the residual employee outcome.
func (s *Stage) EmployeeElse(a Action) *Stage {
	return s.add(domain.ActorEmployee, domain.Chance{Else: true}, a)
}

func (s *Stage) add(actor domain.Actor, chance domain.Chance, a Action) *Stage {
	s.branches = append(s.branches, branch{actor: actor, chance: chance, action: a})
	return s
}

func (s *Stage) build() domain.BranchSet {
	out := make(domain.BranchSet, 0, len(s.branches))
	for _, b := range s.branches {
		action := b.action.action
		if r, ok := action.(domain.Raise); ok {
			next := &Stage{}
			if b.action.then != nil {
				b.action.then(next)
			}
			r.Next = next.build()
			action = r
		}
		out = append(out, domain.Branch{Actor: b.actor, Chance: b.chance, Action: action})
	}
	return out
}

// Fail ends the company with nothing for the employee.
func Fail() Action { return Action{action: domain.Fail{}} }

// Quit makes the employee leave.
func Quit() Action { return Action{action: domain.Quit{}} }

// Buy exercises percent (80 for 80%) of the available options.
func Buy(percent float64) Action {
	return Action{action: domain.Buy{Percent: percent}}
}

// Sell is an acquisition priced between low and high.
func Sell(low, high float64, units domain.Units) Action {
	return Action{action: domain.Sell{Low: low, High: high, Units: units}}
}

// IPO is a public offering priced between low and high.
func IPO(low, high float64, units domain.Units) Action {
	return Action{action: domain.IPO{Low: low, High: high, Units: units}}
}

// Raise is a funding round. Dilution is in percent. then fills the decision
// point reached after the round and may be nil.
func Raise(fmvLow, fmvHigh, diluteLow, diluteHigh, delayLow, delayHigh float64, then func(*Stage)) Action {
	return Action{
		action: domain.Raise{
			FMVLow:     fmvLow,
			FMVHigh:    fmvHigh,
			DiluteLow:  diluteLow,
			DiluteHigh: diluteHigh,
			DelayLow:   delayLow,
			DelayHigh:  delayHigh,
		},
		then: then,
	}
}
