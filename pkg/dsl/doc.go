/*
Package dsl provides a Go DSL for building simulation programs without writing source text.

It produces the same domain.Program the parser does, so a built program can be
formatted, serialized or compiled like any other. This is useful for generating
scenarios from code and for tests.

Example usage:

	package main

	import (
		"fmt"

		"github.com/aretw0/optionsbot/pkg/domain"
		"github.com/aretw0/optionsbot/pkg/dsl"
		"github.com/aretw0/optionsbot/pkg/format"
	)

	func main() {
		b := dsl.New().
			Set("totalGrant", 200).
			Set("strikePrice", 1)

		b.Root().
			Employee(0.1, dsl.Buy(80)).
			Company(0.4, dsl.Sell(100_000_000, 500_000_000, domain.UnitsTotal)).
			CompanyElse(dsl.Raise(2, 3, 10, 20, 12, 24, func(next *dsl.Stage) {
				next.CompanyElse(dsl.Fail())
			}))

		fmt.Println(format.Format(b.Build()))
	}
*/
package dsl
