package sim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Aditya2838/new-market/market"
	"github.com/Aditya2838/new-market/risk"
)

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	return NewLedger(risk.Default(), 1_000_000)
}

func openTest(t *testing.T, l *Ledger, id string, side market.Side, spread bool) *Position {
	t.Helper()
	p := &Position{
		ID:         id,
		Contract:   market.NewContract(19500, side, expiry),
		Side:       side,
		Action:     market.Buy,
		EntryPrice: 50,
		StopLoss:   42.5,
		Target:     65,
		Lots:       1,
		RiskAmount: 375,
		IsSpread:   spread,
		OpenedAt:   tradingDay(9, 30),
		Status:     StatusOpen,
	}
	if err := l.CanOpen(side, p.RiskAmount, spread); err != nil {
		t.Fatalf("can open %s: %v", id, err)
	}
	l.Open(p)
	return p
}

func TestLedgerSideLimit(t *testing.T) {
	l := newLedger(t)

	for i := 0; i < 3; i++ {
		openTest(t, l, fmt.Sprintf("ce-%d", i), market.CE, false)
	}

	err := l.CanOpen(market.CE, 375, false)
	if risk.RejectionCode(err) != risk.SideLimit {
		t.Fatalf("expected SIDE_LIMIT, got %v", err)
	}

	// Counts are untouched by the failed check and PE is still fine.
	if l.OpenCount() != 3 {
		t.Fatalf("open count changed on rejection: %d", l.OpenCount())
	}
	if err := l.CanOpen(market.PE, 375, false); err != nil {
		t.Fatalf("PE should still be admittable: %v", err)
	}
}

func TestLedgerTotalPositionLimit(t *testing.T) {
	l := newLedger(t)

	openTest(t, l, "ce-0", market.CE, false)
	openTest(t, l, "ce-1", market.CE, false)
	openTest(t, l, "ce-2", market.CE, false)
	openTest(t, l, "pe-0", market.PE, false)
	openTest(t, l, "pe-1", market.PE, false)

	err := l.CanOpen(market.PE, 375, false)
	if risk.RejectionCode(err) != risk.PositionLimit {
		t.Fatalf("expected POSITION_LIMIT, got %v", err)
	}
}

func TestLedgerSpreadLimit(t *testing.T) {
	l := newLedger(t)

	openTest(t, l, "s-0", market.CE, true)
	openTest(t, l, "s-1", market.PE, true)

	err := l.CanOpen(market.CE, 375, true)
	if risk.RejectionCode(err) != risk.SpreadLimit {
		t.Fatalf("expected SPREAD_LIMIT, got %v", err)
	}
	if err := l.CanOpen(market.CE, 375, false); err != nil {
		t.Fatalf("non-spread entries are unaffected: %v", err)
	}
}

func TestLedgerRiskCap(t *testing.T) {
	l := newLedger(t)

	// Cap is 3% of 1,000,000 = 30,000.
	if err := l.CanOpen(market.CE, 30_000, false); err != nil {
		t.Fatalf("risk at the cap is allowed: %v", err)
	}
	err := l.CanOpen(market.CE, 30_001, false)
	if risk.RejectionCode(err) != risk.RiskCapExceeded {
		t.Fatalf("expected RISK_CAP_EXCEEDED, got %v", err)
	}
}

func TestLedgerDailyLossLimitSticky(t *testing.T) {
	l := newLedger(t)

	// Realize exactly the limit: 5% of 1,000,000 = 50,000 of losses.
	// Entry 50, exit 30, 50 lots of 50 -> -50,000.
	p := openTest(t, l, "ce-0", market.CE, false)
	p.Lots = 50
	if _, err := l.Close(p.ID, 30, ExitStopLoss, tradingDay(11, 0)); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !approx(l.DailyPnL(), -50_000) {
		t.Fatalf("expected daily pnl -50000, got %v", l.DailyPnL())
	}

	err := l.CanOpen(market.CE, 100, false)
	if risk.RejectionCode(err) != risk.DailyLossLimitHit {
		t.Fatalf("expected DAILY_LOSS_LIMIT_HIT, got %v", err)
	}

	// Sticky: a later winning close does not reopen the gate.
	p2 := &Position{
		ID: "ce-1", Contract: market.NewContract(19500, market.CE, expiry),
		Side: market.CE, Action: market.Buy, EntryPrice: 50, StopLoss: 42.5,
		Target: 65, Lots: 50, Status: StatusOpen, OpenedAt: tradingDay(9, 30),
	}
	l.Open(p2)
	if _, err := l.Close(p2.ID, 70, ExitTarget, tradingDay(12, 0)); err != nil {
		t.Fatalf("close winner: %v", err)
	}
	if l.DailyPnL() <= -50_000 {
		t.Fatalf("pnl should have recovered, got %v", l.DailyPnL())
	}
	err = l.CanOpen(market.CE, 100, false)
	if risk.RejectionCode(err) != risk.DailyLossLimitHit {
		t.Fatalf("loss gate must stay shut for the session, got %v", err)
	}
}

func TestLedgerCloseErrors(t *testing.T) {
	l := newLedger(t)
	p := openTest(t, l, "ce-0", market.CE, false)

	if _, err := l.Close("nope", 50, ExitManual, tradingDay(10, 0)); !errors.Is(err, ErrUnknownPosition) {
		t.Fatalf("expected ErrUnknownPosition, got %v", err)
	}

	if _, err := l.Close(p.ID, 60, ExitTarget, tradingDay(10, 0)); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := l.Close(p.ID, 60, ExitTarget, tradingDay(10, 1)); !errors.Is(err, ErrAlreadyClosed) {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}
}

func TestLedgerCloseRealizesPnLAndCounters(t *testing.T) {
	l := newLedger(t)
	p := openTest(t, l, "ce-0", market.CE, false)
	p.StopLoss = 40

	closed, err := l.Close(p.ID, 39, ExitStopLoss, tradingDay(10, 0))
	if err != nil {
		t.Fatalf("close: %v", err)
	}

	if closed.Status != StatusClosed || closed.ExitReason != ExitStopLoss {
		t.Fatalf("bad closed state: %v %v", closed.Status, closed.ExitReason)
	}
	if !approx(closed.RealizedPnL, -550) {
		t.Fatalf("expected realized pnl -550, got %v", closed.RealizedPnL)
	}
	if !approx(l.DailyPnL(), -550) {
		t.Fatalf("daily pnl not accumulated: %v", l.DailyPnL())
	}
	if l.OpenCount() != 0 {
		t.Fatalf("open count not decremented: %d", l.OpenCount())
	}

	// History survives, and stays queryable.
	got, ok := l.Get(p.ID)
	if !ok || got.Status != StatusClosed {
		t.Fatal("closed position missing from history")
	}
}

func TestLedgerBalanceSkew(t *testing.T) {
	l := newLedger(t)
	openTest(t, l, "ce-0", market.CE, false)
	openTest(t, l, "ce-1", market.CE, false)
	openTest(t, l, "pe-0", market.PE, false)

	if skew := l.BalanceSkew(); skew != 1 {
		t.Fatalf("expected skew 1, got %d", skew)
	}
}

func TestLedgerSummary(t *testing.T) {
	l := newLedger(t)
	p := openTest(t, l, "ce-0", market.CE, false)
	p2 := openTest(t, l, "pe-0", market.PE, false)
	openTest(t, l, "ce-1", market.CE, false)

	l.Close(p.ID, 60, ExitTarget, tradingDay(10, 0))    // +500
	l.Close(p2.ID, 45, ExitStopLoss, tradingDay(11, 0)) // -250

	s := l.Summary(tradingDay(11, 30))
	if s.OpenPositions != 1 || s.CECount != 1 || s.PECount != 0 {
		t.Fatalf("bad counts: %+v", s)
	}
	if s.TotalTrades != 2 || s.WinningTrades != 1 || s.LosingTrades != 1 {
		t.Fatalf("bad trade tallies: %+v", s)
	}
	if !approx(s.WinRate, 50) {
		t.Fatalf("expected win rate 50, got %v", s.WinRate)
	}
	if !approx(s.DailyPnL, 250) {
		t.Fatalf("expected daily pnl 250, got %v", s.DailyPnL)
	}
	if !approx(s.MaxDrawdown, -250) {
		t.Fatalf("expected max drawdown -250, got %v", s.MaxDrawdown)
	}
	if s.Slot != market.MidDay || !s.MarketOpen {
		t.Fatalf("bad session view: %+v", s)
	}
}
