package model

// SignalType indicates what kind of event the engine emitted.
type SignalType string

const (
	SignalBuy         SignalType = "BUY"
	SignalPause       SignalType = "PAUSE"
	SignalResume      SignalType = "RESUME"
	SignalLiquidate   SignalType = "LIQUIDATE"
	SignalMaxExposure SignalType = "MAX_EXPOSURE"
)

// Signal is one entry in the engine's append-only signal log.
type Signal struct {
	Date    string
	Type    SignalType
	Details string
}
