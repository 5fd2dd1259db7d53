package pricing

import "math"

// rate holds per-1000-token prices in dollars
type rate struct {
	inputPer1K  float64
	outputPer1K float64
}

// rates is the static provider price table
var rates = map[string]rate{
	"vendorA": {inputPer1K: 0.002, outputPer1K: 0.002},
	"vendorB": {inputPer1K: 0.003, outputPer1K: 0.003},
}

// CalculateCost returns the dollar cost of a completed turn, rounded to six
// decimal places. Unknown providers are free rather than an error; billing
// gaps surface in reporting, not in the request path.
func CalculateCost(provider string, tokensIn, tokensOut int) float64 {
	r, ok := rates[provider]
	if !ok {
		return 0
	}

	cost := float64(tokensIn)/1000*r.inputPer1K + float64(tokensOut)/1000*r.outputPer1K
	return math.Round(cost*1e6) / 1e6
}

// KnownProvider reports whether the provider has a price entry
func KnownProvider(provider string) bool {
	_, ok := rates[provider]
	return ok
}
