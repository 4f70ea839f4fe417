package sim

import (
	"testing"
	"time"

	"github.com/Aditya2838/new-market/market"
)

var expiry = time.Date(2026, 2, 26, 0, 0, 0, 0, time.Local)

func tradingDay(h, m int) time.Time {
	return time.Date(2026, 2, 24, h, m, 0, 0, time.Local)
}

func buyPosition(t *testing.T) *Position {
	t.Helper()
	return &Position{
		ID:          "pos-1",
		Contract:    market.NewContract(19500, market.CE, expiry),
		Side:        market.CE,
		Action:      market.Buy,
		EntryPrice:  50,
		StopLoss:    42.5,
		Target:      65,
		Lots:        1,
		Trailing:    true,
		TrailingPct: 0.05,
		bestPrice:   50,
		OpenedAt:    tradingDay(9, 30),
		MaxHolding:  6 * time.Hour,
		Status:      StatusOpen,
	}
}

func sellPosition(t *testing.T) *Position {
	t.Helper()
	p := buyPosition(t)
	p.Action = market.Sell
	p.StopLoss = 57.5
	p.Target = 35
	return p
}

func TestEvaluateStopLoss(t *testing.T) {
	p := buyPosition(t)

	if reason, fired := Evaluate(p, 43, tradingDay(10, 0)); fired {
		t.Fatalf("no exit expected above stop, got %s", reason)
	}
	reason, fired := Evaluate(p, 42.5, tradingDay(10, 5))
	if !fired || reason != ExitStopLoss {
		t.Fatalf("expected STOP_LOSS at the stop price, got %s fired=%v", reason, fired)
	}

	s := sellPosition(t)
	reason, fired = Evaluate(s, 58, tradingDay(10, 5))
	if !fired || reason != ExitStopLoss {
		t.Fatalf("expected SELL stop above entry to fire, got %s fired=%v", reason, fired)
	}
}

func TestEvaluateTarget(t *testing.T) {
	p := buyPosition(t)

	reason, fired := Evaluate(p, 65, tradingDay(10, 0))
	if !fired || reason != ExitTarget {
		t.Fatalf("expected TARGET_HIT, got %s fired=%v", reason, fired)
	}

	s := sellPosition(t)
	reason, fired = Evaluate(s, 34.9, tradingDay(10, 0))
	if !fired || reason != ExitTarget {
		t.Fatalf("expected SELL target below entry to fire, got %s fired=%v", reason, fired)
	}
}

func TestEvaluatePriorityStopBeatsTarget(t *testing.T) {
	// A degenerate position where one tick satisfies both price
	// conditions; the priority chain must pick STOP_LOSS.
	p := buyPosition(t)
	p.StopLoss = 55
	p.Target = 50

	reason, fired := Evaluate(p, 52, tradingDay(10, 0))
	if !fired || reason != ExitStopLoss {
		t.Fatalf("expected STOP_LOSS to win the tie, got %s fired=%v", reason, fired)
	}
}

func TestEvaluateMarketCloseOverridesAll(t *testing.T) {
	p := buyPosition(t)

	// Price would hit the target, but the session is over.
	reason, fired := Evaluate(p, 70, tradingDay(15, 30))
	if !fired || reason != ExitMarketClose {
		t.Fatalf("expected MARKET_CLOSE at 15:30, got %s fired=%v", reason, fired)
	}
}

func TestEvaluateTimeBased(t *testing.T) {
	p := buyPosition(t)
	p.MaxHolding = 2 * time.Hour

	if _, fired := Evaluate(p, 55, tradingDay(11, 29)); fired {
		t.Fatal("no exit expected before the holding limit")
	}
	reason, fired := Evaluate(p, 55, tradingDay(11, 30))
	if !fired || reason != ExitTimeBased {
		t.Fatalf("expected TIME_BASED at the holding limit, got %s fired=%v", reason, fired)
	}
}

func TestEvaluateTrailingStopRatchet(t *testing.T) {
	// The worked sequence: entry 50, trailing 5%; rise to 60 sets the
	// stop at 57, 58 holds, 56 fires.
	p := buyPosition(t)

	if _, fired := Evaluate(p, 60, tradingDay(10, 0)); fired {
		t.Fatal("rising price must not exit")
	}
	if p.TrailingStop == nil || !approx(*p.TrailingStop, 57) {
		t.Fatalf("expected trailing stop 57, got %v", p.TrailingStop)
	}

	if _, fired := Evaluate(p, 58, tradingDay(10, 1)); fired {
		t.Fatal("58 is above the trailing stop, no exit")
	}
	if !approx(*p.TrailingStop, 57) {
		t.Fatalf("trailing stop must not regress, got %v", *p.TrailingStop)
	}

	reason, fired := Evaluate(p, 56, tradingDay(10, 2))
	if !fired || reason != ExitTrailingStop {
		t.Fatalf("expected TRAILING_STOP at 56, got %s fired=%v", reason, fired)
	}
}

func TestEvaluateTrailingRatchetMonotonic(t *testing.T) {
	p := buyPosition(t)

	prices := []float64{52, 55, 53, 58, 54, 60, 59}
	last := 0.0
	for i, price := range prices {
		Evaluate(p, price, tradingDay(10, i))
		if p.TrailingStop == nil {
			t.Fatalf("trailing stop unset after favorable move to %v", price)
		}
		if *p.TrailingStop < last {
			t.Fatalf("trailing stop regressed: %v -> %v", last, *p.TrailingStop)
		}
		last = *p.TrailingStop
	}
	if !approx(last, 57) {
		t.Fatalf("expected final trailing stop 57 (5%% under 60), got %v", last)
	}
}

func TestEvaluateSellTrailingRatchet(t *testing.T) {
	s := sellPosition(t)

	// Favorable direction for a SELL is down.
	Evaluate(s, 45, tradingDay(10, 0))
	if s.TrailingStop == nil || !approx(*s.TrailingStop, 47.25) {
		t.Fatalf("expected trailing stop 47.25, got %v", s.TrailingStop)
	}

	// Unfavorable bounce must not loosen the stop.
	Evaluate(s, 46, tradingDay(10, 1))
	if !approx(*s.TrailingStop, 47.25) {
		t.Fatalf("trailing stop regressed on bounce: %v", *s.TrailingStop)
	}

	reason, fired := Evaluate(s, 47.3, tradingDay(10, 2))
	if !fired || reason != ExitTrailingStop {
		t.Fatalf("expected SELL trailing stop to fire, got %s fired=%v", reason, fired)
	}
}

func TestEvaluateClosedPositionNeverFires(t *testing.T) {
	p := buyPosition(t)
	p.close(40, ExitStopLoss, tradingDay(10, 0))

	if _, fired := Evaluate(p, 1, tradingDay(10, 1)); fired {
		t.Fatal("closed positions must not be re-evaluated")
	}
}

func TestEvaluateNoTrailingWhenDisabled(t *testing.T) {
	p := buyPosition(t)
	p.Trailing = false

	Evaluate(p, 60, tradingDay(10, 0))
	if p.TrailingStop != nil {
		t.Fatal("trailing disabled, stop must stay unset")
	}
	if _, fired := Evaluate(p, 56, tradingDay(10, 1)); fired {
		t.Fatal("no trailing exit when trailing is disabled")
	}
}

func TestPositionPnL(t *testing.T) {
	// The worked example: BUY entry 50, 1 lot of 50; exit at 39 loses 550.
	p := buyPosition(t)
	p.StopLoss = 40

	if got := p.PnL(39); !approx(got, -550) {
		t.Fatalf("expected -550, got %v", got)
	}

	s := sellPosition(t)
	if got := s.PnL(39); !approx(got, 550) {
		t.Fatalf("SELL side inverts the sign, got %v", got)
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
