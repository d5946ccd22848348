/*
Package serialization converts programs to and from their structured, editable form.

The structured form flattens the decision tree into an ordered list of stages so
that an editor can show nested funding rounds as a linear sequence:

	{
	  "variables": {"startFMV": 2, ...},
	  "states": [
	    {"current": [{"proba": 0.1, "isElse": false, "isCompany": true, "target": {"action": "ipo", ...}}, ...]},
	    ...
	  ]
	}

Serialize walks the tree and splices the body of every raise out into the stage
list, marking the raise with nextBranches "accepted". Deserialize re-nests the
stages depth-first, giving each raise the next unconsumed stage as its body, and
renders compact source text. A document is consistent when it has exactly one
stage more than it has raise actions.
*/
package serialization
