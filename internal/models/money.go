package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// AllocationEpsilon is the tolerance applied when comparing the allocation
// total against a budget's overall amount.
var AllocationEpsilon = decimal.RequireFromString("0.001")
