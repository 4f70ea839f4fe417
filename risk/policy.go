package risk

import (
	"fmt"
	"time"
)

// Policy is the immutable per-session risk configuration. Construct it
// once, hand it to the engine, never mutate it mid-session; per-trade
// overrides travel in the trade request instead.
type Policy struct {
	// Risk limits
	MaxRiskPerTrade float64 // fraction of account balance, e.g. 0.03
	MaxDailyLoss    float64 // fraction of account balance, e.g. 0.05

	// Exposure limits
	MaxTotalPositions  int
	MaxCEPositions     int
	MaxPEPositions     int
	MaxSpreadPositions int

	// Exit defaults
	DefaultStopLossPct float64 // e.g. 0.15
	DefaultTargetPct   float64 // e.g. 0.30
	TrailingStopPct    float64 // e.g. 0.05
	MaxHolding         time.Duration
}

// Default returns the standard intraday policy.
func Default() Policy {
	return Policy{
		MaxRiskPerTrade:    0.03,
		MaxDailyLoss:       0.05,
		MaxTotalPositions:  5,
		MaxCEPositions:     3,
		MaxPEPositions:     3,
		MaxSpreadPositions: 2,
		DefaultStopLossPct: 0.15,
		DefaultTargetPct:   0.30,
		TrailingStopPct:    0.05,
		MaxHolding:         6 * time.Hour,
	}
}

// Validate checks the policy for values that would make every trade
// unplaceable or every limit vacuous.
func (p Policy) Validate() error {
	if p.MaxRiskPerTrade <= 0 || p.MaxRiskPerTrade > 1 {
		return fmt.Errorf("max_risk_per_trade must be in (0,1], got %v", p.MaxRiskPerTrade)
	}
	if p.MaxDailyLoss <= 0 || p.MaxDailyLoss > 1 {
		return fmt.Errorf("max_daily_loss must be in (0,1], got %v", p.MaxDailyLoss)
	}
	if p.MaxTotalPositions < 1 {
		return fmt.Errorf("max_total_positions must be at least 1, got %d", p.MaxTotalPositions)
	}
	if p.MaxCEPositions < 0 || p.MaxPEPositions < 0 || p.MaxSpreadPositions < 0 {
		return fmt.Errorf("side limits must not be negative")
	}
	if p.DefaultStopLossPct <= 0 || p.DefaultStopLossPct >= 1 {
		return fmt.Errorf("default_stop_loss_pct must be in (0,1), got %v", p.DefaultStopLossPct)
	}
	if p.DefaultTargetPct <= 0 {
		return fmt.Errorf("default_target_pct must be positive, got %v", p.DefaultTargetPct)
	}
	if p.TrailingStopPct <= 0 || p.TrailingStopPct >= 1 {
		return fmt.Errorf("trailing_stop_pct must be in (0,1), got %v", p.TrailingStopPct)
	}
	if p.MaxHolding <= 0 {
		return fmt.Errorf("max_holding must be positive, got %v", p.MaxHolding)
	}
	return nil
}
