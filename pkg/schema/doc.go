// Package schema validates program header variables.
//
// A Schema maps variable names to numeric rules. Rules are built with the
// factory functions or parsed from short names, so profiles can add their own
// constraints:
//
//	s := schema.Schema{
//	    "ipoBuy":           schema.Percent(),
//	    "startTotalShares": schema.Positive(),
//	    "waitToSell":       schema.Range(0, 1),
//	}
//
//	if err := schema.Validate(s, vars); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        // report e
//	    }
//	}
//
//	extra, err := schema.ParseRuleMap(map[string]string{"bonus": "range(0,10)"})
//
// Header returns the schema every program must satisfy before simulation.
package schema
