/*
Package domain contains the core models of the options simulator.

It defines the program tree produced by the parser, the outcome of a single
simulation trial and the aggregated report of a Monte Carlo batch. This package
is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Program: Variable assignments plus the root BranchSet of the decision tree.
  - BranchSet: One decision point (a "stage") with competing company and employee outcomes.
  - Action: Tagged union of Fail, Quit, Buy, Sell, IPO and Raise. Only Raise carries a nested BranchSet.
  - SimulationResult: Immutable snapshot of one finalized trial (months, profit, events).
  - Report: Summary statistics over a batch of trials.
*/
package domain
