package model

// Trade is the persisted record of one closed position.
type Trade struct {
	EntryDate    string
	ExitDate     string
	EntryPrice   float64
	ExitPrice    float64
	Strike       float64
	EntryPremium float64
	ExitPremium  float64
	Contracts    int
	PnL          float64
	Notes        string
}

// EquitySample is one point on the equity curve: total portfolio value
// (cash plus mark-to-market of open positions) on a simulated day.
type EquitySample struct {
	Date          string
	Value         float64
	SpotPrice     float64
	OpenPositions int
}

// Metrics is the result of a backtest run. Percent-valued fields
// (returns, drawdown, win rate) are expressed in percent, not fractions.
type Metrics struct {
	TotalReturn   float64
	BuyHoldReturn float64
	CAGR          float64
	MaxDrawdown   float64
	WinRate       float64
	AvgWin        float64
	AvgLoss       float64
	SharpeRatio   float64
	SortinoRatio  float64
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	FinalValue    float64
	EquityCurve   []EquitySample
}
