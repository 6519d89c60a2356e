// Package pricing values synthetic option contracts: trailing historical
// volatility feeding a closed-form Black-Scholes call price. No live option
// chain exists, so premiums are modeled, never observed.
package pricing

import "math"

const (
	// DefaultVolatility is used when the price history cannot support an
	// estimate (fewer than two observations, or a flat series).
	DefaultVolatility = 0.20

	// DefaultVolWindow is the trailing window, in trading days, for the
	// historical volatility estimate.
	DefaultVolWindow = 30

	tradingDaysPerYear = 252
)

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// BlackScholesCall prices a European call. S is spot, K strike, T time to
// expiry in years, r the risk-free rate, sigma annualized volatility.
// At or past expiry the intrinsic value is returned.
func BlackScholesCall(S, K, T, r, sigma float64) float64 {
	if T <= 0 {
		return math.Max(S-K, 0)
	}
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)
	return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
}

// HistoricalVolatility estimates annualized volatility from log returns over
// the trailing window+1 prices. The window shrinks when history is shorter.
// Degrades to DefaultVolatility rather than erroring on thin or flat data.
func HistoricalVolatility(prices []float64, window int) float64 {
	if len(prices) < 2 {
		return DefaultVolatility
	}
	if len(prices) < window+1 {
		window = len(prices) - 1
	}
	if window <= 0 {
		return DefaultVolatility
	}

	slice := prices[len(prices)-window-1:]
	returns := make([]float64, 0, len(slice)-1)
	for i := 1; i < len(slice); i++ {
		returns = append(returns, math.Log(slice[i]/slice[i-1]))
	}
	if len(returns) == 0 {
		return DefaultVolatility
	}

	// Population standard deviation, annualized by sqrt(252).
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	vol := math.Sqrt(ss/float64(len(returns))) * math.Sqrt(tradingDaysPerYear)

	if vol <= 0 {
		return DefaultVolatility
	}
	return vol
}

// StrikeFromMoneyness selects a strike offset from spot by moneyness percent
// (0=ATM, positive=OTM for calls), rounded to the nearest spacing increment.
func StrikeFromMoneyness(spot, moneynessPct, spacing float64) float64 {
	target := spot * (1 + moneynessPct/100)
	return math.Round(target/spacing) * spacing
}

// ContractPremium prices one synthetic call contract. Volatility is
// estimated from the supplied price history over DefaultVolWindow days.
// Non-positive days to expiry short-circuits to intrinsic value.
func ContractPremium(spot, strike, daysToExpiry, rate float64, history []float64) float64 {
	T := daysToExpiry / 365.0
	if T <= 0 {
		return math.Max(spot-strike, 0)
	}
	sigma := HistoricalVolatility(history, DefaultVolWindow)
	return BlackScholesCall(spot, strike, T, rate, sigma)
}
