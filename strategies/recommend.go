// Package strategies maps trading time slots to advisory entry ideas.
// Purely informational: nothing here places or blocks trades.
package strategies

import "github.com/Aditya2838/new-market/market"

// Strategy names an intraday option strategy.
type Strategy string

const (
	MomentumBreakout    Strategy = "MOMENTUM_BREAKOUT"
	MeanReversion       Strategy = "MEAN_REVERSION"
	TechnicalBreakout   Strategy = "TECHNICAL_BREAKOUT"
	VolatilityExpansion Strategy = "VOLATILITY_EXPANSION"
	Straddle            Strategy = "STRADDLE"
	Strangle            Strategy = "STRANGLE"
)

// Recommendation is one advisory entry idea for a time slot.
type Recommendation struct {
	Strategy        Strategy
	Description     string
	RiskLevel       string // LOW, MEDIUM, HIGH
	StrikeSelection string
}

// ForSlot returns the playbook for a time slot. Slots outside regular
// hours get nothing.
func ForSlot(slot market.Slot) []Recommendation {
	switch slot {
	case market.Opening:
		return []Recommendation{
			{Straddle, "Buy both CE & PE at the same strike for gap moves", "HIGH", "At-the-money"},
			{MomentumBreakout, "Breakout trading in the first 15 minutes", "MEDIUM", "Near-the-money"},
		}
	case market.Morning:
		return []Recommendation{
			{TechnicalBreakout, "Technical breakout patterns", "MEDIUM", "Support/resistance levels"},
			{Strangle, "Buy OTM CE & PE for volatility expansion", "MEDIUM", "Out-of-the-money"},
		}
	case market.MidDay:
		return []Recommendation{
			{MeanReversion, "Mean reversion trades", "LOW", "Moving average levels"},
			{VolatilityExpansion, "Volatility-based trades", "MEDIUM", "Volatility bands"},
		}
	case market.Closing:
		return []Recommendation{
			{MeanReversion, "End-of-day mean reversion", "LOW", "Daily pivot points"},
		}
	default:
		return nil
	}
}
