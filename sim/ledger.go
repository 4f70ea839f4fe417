package sim

import (
	"errors"
	"time"

	"github.com/Aditya2838/new-market/market"
	"github.com/Aditya2838/new-market/risk"
)

var (
	ErrUnknownPosition = errors.New("unknown position")
	ErrAlreadyClosed   = errors.New("position already closed")
)

// Ledger aggregates the open positions and the session's realized
// results, and enforces the risk policy's exposure limits. It is not
// goroutine safe; the engine serializes access.
type Ledger struct {
	policy  risk.Policy
	balance float64 // account balance at session start

	open   map[string]*Position
	closed []*Position

	ceCount     int
	peCount     int
	spreadCount int

	dailyPnL     float64
	lossLimitHit bool // sticky for the rest of the session
}

func NewLedger(policy risk.Policy, balance float64) *Ledger {
	return &Ledger{
		policy:  policy,
		balance: balance,
		open:    make(map[string]*Position),
	}
}

// CanOpen checks every admission invariant and returns the first
// violated one as a *risk.Rejection. It mutates nothing; the caller
// pairs it with Open under a single lock.
func (l *Ledger) CanOpen(side market.Side, riskAmount float64, isSpread bool) error {
	if len(l.open) >= l.policy.MaxTotalPositions {
		return risk.Reject(risk.PositionLimit,
			"maximum intraday positions (%d) reached", l.policy.MaxTotalPositions)
	}

	if side == market.CE && l.ceCount >= l.policy.MaxCEPositions {
		return risk.Reject(risk.SideLimit,
			"maximum CE positions (%d) reached", l.policy.MaxCEPositions)
	}
	if side == market.PE && l.peCount >= l.policy.MaxPEPositions {
		return risk.Reject(risk.SideLimit,
			"maximum PE positions (%d) reached", l.policy.MaxPEPositions)
	}

	if isSpread && l.spreadCount >= l.policy.MaxSpreadPositions {
		return risk.Reject(risk.SpreadLimit,
			"maximum spread positions (%d) reached", l.policy.MaxSpreadPositions)
	}

	if limit := l.policy.MaxRiskPerTrade * l.balance; riskAmount > limit {
		return risk.Reject(risk.RiskCapExceeded,
			"risk %.2f exceeds per-trade cap %.2f", riskAmount, limit)
	}

	if l.lossLimitHit {
		return risk.Reject(risk.DailyLossLimitHit,
			"daily loss limit reached (realized %.2f)", l.dailyPnL)
	}

	return nil
}

// Open admits a position. CanOpen must have succeeded under the same
// lock; Open itself re-checks nothing.
func (l *Ledger) Open(p *Position) {
	l.open[p.ID] = p
	if p.Side == market.CE {
		l.ceCount++
	} else {
		l.peCount++
	}
	if p.IsSpread {
		l.spreadCount++
	}
}

// remove unwinds a just-opened position without recording history.
// Used to roll back the first leg of a pair when the second is refused.
func (l *Ledger) remove(p *Position) {
	if _, ok := l.open[p.ID]; !ok {
		return
	}
	delete(l.open, p.ID)
	if p.Side == market.CE {
		l.ceCount--
	} else {
		l.peCount--
	}
	if p.IsSpread {
		l.spreadCount--
	}
}

// Close marks the position closed, realizes its P&L into the daily
// total and releases its side counters.
func (l *Ledger) Close(id string, exitPrice float64, reason ExitReason, at time.Time) (*Position, error) {
	p, ok := l.open[id]
	if !ok {
		for _, c := range l.closed {
			if c.ID == id {
				return nil, ErrAlreadyClosed
			}
		}
		return nil, ErrUnknownPosition
	}
	if p.Status != StatusOpen {
		return nil, ErrAlreadyClosed
	}

	p.close(exitPrice, reason, at)

	delete(l.open, id)
	l.closed = append(l.closed, p)

	if p.Side == market.CE {
		l.ceCount--
	} else {
		l.peCount--
	}
	if p.IsSpread {
		l.spreadCount--
	}

	l.dailyPnL += p.RealizedPnL
	if l.dailyPnL <= -l.policy.MaxDailyLoss*l.balance {
		l.lossLimitHit = true
	}

	return p, nil
}

// Get looks up a position, open or closed.
func (l *Ledger) Get(id string) (*Position, bool) {
	if p, ok := l.open[id]; ok {
		return p, true
	}
	for _, p := range l.closed {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// OpenPositions returns a snapshot slice of the open set, so callers
// can close positions while iterating.
func (l *Ledger) OpenPositions() []*Position {
	out := make([]*Position, 0, len(l.open))
	for _, p := range l.open {
		out = append(out, p)
	}
	return out
}

// BalanceSkew is openCE - openPE. Advisory: |skew| > 2 flags a
// directional tilt but blocks nothing.
func (l *Ledger) BalanceSkew() int {
	return l.ceCount - l.peCount
}

func (l *Ledger) DailyPnL() float64 { return l.dailyPnL }
func (l *Ledger) Balance() float64  { return l.balance }
func (l *Ledger) OpenCount() int    { return len(l.open) }
