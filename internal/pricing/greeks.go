package pricing

import "math"

// Greeks holds the first-order sensitivities of a call option.
// Theta is per calendar day; vega is per volatility point.
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
}

// CallGreeks computes delta, gamma, theta, and vega for a European call.
// At expiry delta collapses to 0 or 1 and the rest vanish.
func CallGreeks(S, K, T, r, sigma float64) Greeks {
	if T <= 0 {
		g := Greeks{}
		if S > K {
			g.Delta = 1.0
		}
		return g
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	return Greeks{
		Delta: normCDF(d1),
		Gamma: normPDF(d1) / (S * sigma * sqrtT),
		Theta: (-S*normPDF(d1)*sigma/(2*sqrtT) - r*K*math.Exp(-r*T)*normCDF(d2)) / 365,
		Vega:  S * normPDF(d1) * sqrtT / 100,
	}
}
