package model

import "time"

// DateLayout is the canonical date format used in the store and in logs.
const DateLayout = "2006-01-02"

// Bar represents a single daily candlestick bar.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// Series holds daily bars ordered by date ascending.
type Series []Bar

// Closes returns the close prices of the series, in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// First returns the earliest bar. Callers must check len(s) > 0.
func (s Series) First() Bar { return s[0] }

// Last returns the most recent bar. Callers must check len(s) > 0.
func (s Series) Last() Bar { return s[len(s)-1] }

// CloseMap indexes close prices by formatted date. Used for point lookups
// into an auxiliary series such as VIX.
func (s Series) CloseMap() map[string]float64 {
	m := make(map[string]float64, len(s))
	for _, b := range s {
		m[b.Date.Format(DateLayout)] = b.Close
	}
	return m
}
