package vision

import "strings"

// Flat per-item token estimates for stock-metadata inference: one image
// tile plus the prompt in, one JSON object out.
const (
	EstTokensIn  = 258 + 300
	EstTokensOut = 200
)

// price is USD per million tokens.
type price struct {
	in  float64
	out float64
}

var defaultPrice = price{in: 0.10, out: 0.40}

// Checked in order, most specific first.
var modelPrices = []struct {
	key string
	price
}{
	{"gemini-1.5-pro", price{in: 3.50, out: 10.50}},
	{"gemini", price{in: 0.00, out: 0.00}},
	{"gemma", price{in: 0.10, out: 0.10}},
	{"groq", price{in: 0.00, out: 0.00}},
	{"gpt-4o", price{in: 2.50, out: 10.00}},
	{"claude", price{in: 3.00, out: 15.00}},
}

// EstimateCost returns the estimated USD cost for a call against model.
// Model names are matched by substring against the price table; unknown
// models use the default rate.
func EstimateCost(model string, tokensIn, tokensOut int) float64 {
	p := defaultPrice
	lower := strings.ToLower(model)
	for _, mp := range modelPrices {
		if strings.Contains(lower, mp.key) {
			p = mp.price
			break
		}
	}
	return float64(tokensIn)/1e6*p.in + float64(tokensOut)/1e6*p.out
}
