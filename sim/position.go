package sim

import (
	"time"

	"github.com/Aditya2838/new-market/market"
)

// Status of a position. A position is created OPEN and moves to CLOSED
// exactly once; closed positions are kept as immutable history.
type Status int

const (
	StatusOpen Status = iota
	StatusClosed
)

func (s Status) String() string {
	if s == StatusOpen {
		return "OPEN"
	}
	return "CLOSED"
}

// ExitReason records which condition closed a position.
type ExitReason int

const (
	ExitNone ExitReason = iota
	ExitStopLoss
	ExitTarget
	ExitTimeBased
	ExitTrailingStop
	ExitMarketClose
	ExitManual
)

func (r ExitReason) String() string {
	switch r {
	case ExitStopLoss:
		return "STOP_LOSS"
	case ExitTarget:
		return "TARGET_HIT"
	case ExitTimeBased:
		return "TIME_BASED"
	case ExitTrailingStop:
		return "TRAILING_STOP"
	case ExitMarketClose:
		return "MARKET_CLOSE"
	case ExitManual:
		return "MANUAL"
	default:
		return "NONE"
	}
}

// Position is one option trade. Owned by the ledger once opened;
// mutated only by the evaluator's trailing ratchet and by close.
type Position struct {
	ID       string
	Contract market.Contract
	Side     market.Side
	Action   market.Action

	EntryPrice float64
	StopLoss   float64
	Target     float64
	Lots       int
	RiskAmount float64
	IsSpread   bool

	Trailing     bool
	TrailingPct  float64
	TrailingStop *float64 // nil until the first favorable ratchet
	bestPrice    float64  // best favorable price seen so far

	OpenedAt   time.Time
	MaxHolding time.Duration

	Status      Status
	ExitReason  ExitReason
	ExitPrice   float64
	ClosedAt    time.Time
	RealizedPnL float64
}

// PnL is the realized profit at exitPrice: signed price move times
// lots times lot size.
func (p *Position) PnL(exitPrice float64) float64 {
	return (exitPrice - p.EntryPrice) * p.Action.Sign() * float64(p.Lots) * float64(p.Contract.LotSize)
}

// HoldingDuration is the time the position has been open.
func (p *Position) HoldingDuration(now time.Time) time.Duration {
	return now.Sub(p.OpenedAt)
}

// ratchet advances the trailing stop when price has moved favorably
// beyond the best price seen. The stop only ever tightens: for a BUY it
// never moves down, for a SELL never up.
func (p *Position) ratchet(price float64) {
	if !p.Trailing {
		return
	}

	if p.Action == market.Buy {
		if price <= p.bestPrice {
			return
		}
		p.bestPrice = price
		stop := price * (1 - p.TrailingPct)
		if p.TrailingStop == nil || stop > *p.TrailingStop {
			p.TrailingStop = &stop
		}
		return
	}

	if price >= p.bestPrice {
		return
	}
	p.bestPrice = price
	stop := price * (1 + p.TrailingPct)
	if p.TrailingStop == nil || stop < *p.TrailingStop {
		p.TrailingStop = &stop
	}
}

// close marks the position closed. Idempotence is the ledger's job;
// this assumes status is OPEN.
func (p *Position) close(exitPrice float64, reason ExitReason, at time.Time) {
	p.Status = StatusClosed
	p.ExitReason = reason
	p.ExitPrice = exitPrice
	p.ClosedAt = at
	p.RealizedPnL = p.PnL(exitPrice)
}
