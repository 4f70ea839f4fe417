package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/Aditya2838/new-market/market"
)

// Pair is the result of a two-legged entry: one CE and one PE.
type Pair struct {
	CE *Position
	PE *Position
}

// PlaceStraddle opens a BUY CE and a BUY PE at the same strike. Both
// legs count as spread positions. Admission is all-or-nothing: if the
// second leg is refused the first is unwound and the rejection
// returned.
func (e *Engine) PlaceStraddle(strike float64, expiry time.Time, ceEntry, pePrice float64, now time.Time) (Pair, error) {
	return e.placePair(strike, strike, expiry, ceEntry, pePrice, now)
}

// PlaceStrangle opens a BUY CE and a BUY PE at different (typically
// OTM) strikes, with the same all-or-nothing admission as a straddle.
func (e *Engine) PlaceStrangle(ceStrike, peStrike float64, expiry time.Time, ceEntry, pePrice float64, now time.Time) (Pair, error) {
	return e.placePair(ceStrike, peStrike, expiry, ceEntry, pePrice, now)
}

func (e *Engine) placePair(ceStrike, peStrike float64, expiry time.Time, ceEntry, peEntry float64, now time.Time) (Pair, error) {
	ceReq := TradeRequest{
		Contract:   market.NewContract(ceStrike, market.CE, expiry),
		Action:     market.Buy,
		EntryPrice: ceEntry,
		Trailing:   true,
		IsSpread:   true,
		Now:        now,
	}
	peReq := TradeRequest{
		Contract:   market.NewContract(peStrike, market.PE, expiry),
		Action:     market.Buy,
		EntryPrice: peEntry,
		Trailing:   true,
		IsSpread:   true,
		Now:        now,
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ce, err := e.placeLocked(ceReq)
	if err != nil {
		return Pair{}, err
	}

	pe, err := e.placeLocked(peReq)
	if err != nil {
		// All-or-nothing: the CE leg never happened.
		e.ledger.remove(ce)
		return Pair{}, err
	}

	e.logger.Info("pair opened",
		zap.String("ce", ce.ID),
		zap.String("pe", pe.ID),
		zap.Float64("ce_strike", ceStrike),
		zap.Float64("pe_strike", peStrike),
		zap.Float64("total_risk", ce.RiskAmount+pe.RiskAmount))

	return Pair{CE: ce, PE: pe}, nil
}
