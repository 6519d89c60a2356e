package engine

import (
	"math"
	"time"

	"github.com/dthrottle/spy-leaps-monitor/internal/model"
	"github.com/dthrottle/spy-leaps-monitor/internal/pricing"
)

// contractMultiplier is the shares-per-contract multiplier for equity options.
const contractMultiplier = 100

// Position is one synthetic LEAP lot. Created only by the engine's open
// action and closed exactly once; never partially closed.
type Position struct {
	EntryDate    time.Time
	EntryPrice   float64
	Strike       float64
	EntryPremium float64
	Contracts    int
	ExpiryDate   time.Time

	ExitDate    time.Time
	ExitPrice   float64
	ExitPremium float64
	PnL         float64
	closed      bool
}

// daysToExpiry returns whole calendar days from date to the position expiry.
func (p *Position) daysToExpiry(date time.Time) float64 {
	return math.Floor(p.ExpiryDate.Sub(date).Hours() / 24)
}

// MarkToMarket values the position on the given day using the synthetic
// pricer and the price history available through that day. An expired
// position is worth intrinsic value.
func (p *Position) MarkToMarket(date time.Time, price, rate float64, history []float64) float64 {
	days := p.daysToExpiry(date)
	var premium float64
	if days <= 0 {
		premium = math.Max(price-p.Strike, 0)
	} else {
		premium = pricing.ContractPremium(price, p.Strike, days, rate, history)
	}
	return premium * float64(p.Contracts) * contractMultiplier
}

// NotionalCost is the entry premium paid for the lot, the basis used by the
// exposure gate.
func (p *Position) NotionalCost() float64 {
	return p.EntryPremium * float64(p.Contracts) * contractMultiplier
}

// Close realizes the position at the given exit premium.
func (p *Position) Close(date time.Time, price, exitPremium float64) {
	p.ExitDate = date
	p.ExitPrice = price
	p.ExitPremium = exitPremium
	p.PnL = (exitPremium - p.EntryPremium) * float64(p.Contracts) * contractMultiplier
	p.closed = true
}

// Closed reports whether the position has been realized.
func (p *Position) Closed() bool { return p.closed }

// Trade converts the closed position into its persisted record shape.
func (p *Position) Trade() model.Trade {
	return model.Trade{
		EntryDate:    p.EntryDate.Format(model.DateLayout),
		ExitDate:     p.ExitDate.Format(model.DateLayout),
		EntryPrice:   p.EntryPrice,
		ExitPrice:    p.ExitPrice,
		Strike:       p.Strike,
		EntryPremium: p.EntryPremium,
		ExitPremium:  p.ExitPremium,
		Contracts:    p.Contracts,
		PnL:          p.PnL,
	}
}
