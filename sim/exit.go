package sim

import (
	"time"

	"github.com/Aditya2838/new-market/market"
)

// Evaluate decides whether the position must exit at the given price
// and time. Conditions are checked in strict priority order and the
// first hit wins:
//
//	MARKET_CLOSE > TIME_BASED > STOP_LOSS > TARGET_HIT > TRAILING_STOP
//
// The trailing ratchet is advanced before the price triggers are
// checked, on every tick, whether or not an exit fires.
func Evaluate(p *Position, price float64, now time.Time) (ExitReason, bool) {
	if p.Status != StatusOpen {
		return ExitNone, false
	}

	if !now.Before(market.SessionClose(now)) {
		return ExitMarketClose, true
	}

	if p.HoldingDuration(now) >= p.MaxHolding {
		return ExitTimeBased, true
	}

	p.ratchet(price)

	if hitStopLoss(p, price) {
		return ExitStopLoss, true
	}
	if hitTarget(p, price) {
		return ExitTarget, true
	}
	if hitTrailingStop(p, price) {
		return ExitTrailingStop, true
	}

	return ExitNone, false
}

func hitStopLoss(p *Position, price float64) bool {
	if p.Action == market.Buy {
		return price <= p.StopLoss
	}
	return price >= p.StopLoss
}

func hitTarget(p *Position, price float64) bool {
	if p.Action == market.Buy {
		return price >= p.Target
	}
	return price <= p.Target
}

func hitTrailingStop(p *Position, price float64) bool {
	if !p.Trailing || p.TrailingStop == nil {
		return false
	}
	if p.Action == market.Buy {
		return price <= *p.TrailingStop
	}
	return price >= *p.TrailingStop
}
