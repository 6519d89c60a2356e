package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlackScholesCall_KnownValue(t *testing.T) {
	// S=K=100, T=1y, r=5%, sigma=20% prices at ~10.45.
	price := BlackScholesCall(100, 100, 1.0, 0.05, 0.20)
	assert.InDelta(t, 10.45, price, 0.05)
}

func TestBlackScholesCall_ExpiryIsIntrinsic(t *testing.T) {
	assert.Equal(t, 10.0, BlackScholesCall(110, 100, 0, 0.05, 0.20))
	assert.Equal(t, 0.0, BlackScholesCall(90, 100, 0, 0.05, 0.20))
	assert.Equal(t, 5.0, BlackScholesCall(105, 100, -0.1, 0.05, 0.20))
}

func TestBlackScholesCall_ITMAboveATM(t *testing.T) {
	atm := BlackScholesCall(100, 100, 1.0, 0.05, 0.20)
	itm := BlackScholesCall(110, 100, 1.0, 0.05, 0.20)
	assert.Greater(t, itm, atm, "ITM call should be more expensive than ATM")
}

func TestHistoricalVolatility_Defaults(t *testing.T) {
	assert.Equal(t, DefaultVolatility, HistoricalVolatility(nil, 30))
	assert.Equal(t, DefaultVolatility, HistoricalVolatility([]float64{100}, 30))

	// Flat series has zero volatility, which falls back to the default.
	flat := make([]float64, 50)
	for i := range flat {
		flat[i] = 100
	}
	assert.Equal(t, DefaultVolatility, HistoricalVolatility(flat, 30))
}

func TestHistoricalVolatility_ShrinksWindow(t *testing.T) {
	// Only 10 prices with a 30-day window: must still produce an estimate.
	prices := []float64{100, 101, 99, 102, 98, 103, 97, 104, 96, 105}
	vol := HistoricalVolatility(prices, 30)
	assert.Greater(t, vol, 0.0)
	assert.Less(t, vol, 2.0)
}

func TestHistoricalVolatility_Reasonable(t *testing.T) {
	// Alternating ±1% moves: annualized vol near 16%.
	prices := make([]float64, 100)
	prices[0] = 100
	for i := 1; i < len(prices); i++ {
		if i%2 == 0 {
			prices[i] = prices[i-1] * 1.01
		} else {
			prices[i] = prices[i-1] * 0.99
		}
	}
	vol := HistoricalVolatility(prices, 30)
	assert.Greater(t, vol, 0.0)
	assert.Less(t, vol, 1.0)
}

func TestStrikeFromMoneyness(t *testing.T) {
	spot := 450.5

	atm := StrikeFromMoneyness(spot, 0, 1.0)
	assert.InDelta(t, spot, atm, 1.0)

	otm := StrikeFromMoneyness(spot, 5, 1.0)
	assert.Greater(t, otm, spot)
	assert.InDelta(t, spot*1.05, otm, 2.0)

	itm := StrikeFromMoneyness(spot, -5, 1.0)
	assert.Less(t, itm, spot)

	// Wider spacing snaps to the grid.
	assert.Equal(t, 450.0, StrikeFromMoneyness(451.0, 0, 5.0))
}

func TestContractPremium(t *testing.T) {
	history := make([]float64, 100)
	for i := range history {
		history[i] = 400 + float64(i)*50/99
	}

	premium := ContractPremium(450, 450, 365, 0.045, history)
	require.Greater(t, premium, 0.0)
	assert.Greater(t, premium, 15.0, "ATM 1-year option should carry significant premium")

	// Expired contract is worth intrinsic value.
	assert.Equal(t, 10.0, ContractPremium(460, 450, 0, 0.045, history))
}

func TestCallGreeks(t *testing.T) {
	g := CallGreeks(450, 450, 1.0, 0.045, 0.20)

	assert.Greater(t, g.Delta, 0.4)
	assert.Less(t, g.Delta, 0.7)
	assert.Greater(t, g.Gamma, 0.0)
	assert.Less(t, g.Theta, 0.0)
	assert.Greater(t, g.Vega, 0.0)
}

func TestCallGreeks_Expired(t *testing.T) {
	itm := CallGreeks(110, 100, 0, 0.045, 0.20)
	assert.Equal(t, 1.0, itm.Delta)
	assert.Equal(t, 0.0, itm.Gamma)

	otm := CallGreeks(90, 100, 0, 0.045, 0.20)
	assert.Equal(t, 0.0, otm.Delta)
}

func TestNormCDF_Symmetry(t *testing.T) {
	assert.InDelta(t, 0.5, normCDF(0), 1e-12)
	for _, x := range []float64{0.5, 1.0, 2.0} {
		assert.InDelta(t, 1.0, normCDF(x)+normCDF(-x), 1e-12)
	}
	assert.InDelta(t, 0.8413, normCDF(1), 1e-4)
	assert.False(t, math.IsNaN(normCDF(-40)))
}
