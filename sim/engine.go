package sim

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Aditya2838/new-market/journal"
	"github.com/Aditya2838/new-market/market"
	"github.com/Aditya2838/new-market/pkg/id"
	"github.com/Aditya2838/new-market/risk"
)

var (
	ErrInvalidStop = errors.New("stop price violates entry ordering")
	ErrBadTick     = errors.New("bad tick")
)

// TradeRequest describes one desired entry. Zero-valued optional
// fields fall back to the policy defaults.
type TradeRequest struct {
	Contract market.Contract
	Action   market.Action

	EntryPrice float64

	// Absolute exit levels; when zero, derived from the percentages.
	StopLoss float64
	Target   float64

	// Percentage overrides; when zero, the policy defaults apply.
	StopLossPct float64
	TargetPct   float64

	// Lots sizes the position directly; when zero, it is derived from
	// RiskAmount (itself defaulting to the per-trade risk cap).
	Lots       int
	RiskAmount float64

	MaxHolding  time.Duration
	Trailing    bool
	TrailingPct float64
	IsSpread    bool

	Now time.Time
}

// ExitEvent is emitted once per closure.
type ExitEvent struct {
	PositionID  string
	Reason      ExitReason
	ExitPrice   float64
	RealizedPnL float64
	ClosedAt    time.Time
}

// ExitListener is notified of every closure, after the engine lock is
// released.
type ExitListener interface {
	OnExit(ExitEvent)
}

// Engine drives positions through PENDING -> OPEN -> CLOSED. All
// mutation of the ledger and of per-position state happens under one
// lock, so the validate-and-admit sequence in PlaceTrade is atomic.
type Engine struct {
	mu       sync.Mutex
	policy   risk.Policy
	ledger   *Ledger
	journal  journal.Journal
	logger   *zap.Logger
	listener ExitListener
}

func NewEngine(policy risk.Policy, balance float64, j journal.Journal, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		policy:  policy,
		ledger:  NewLedger(policy, balance),
		journal: j,
		logger:  logger,
	}
}

// SetExitListener registers an optional closure callback.
func (e *Engine) SetExitListener(l ExitListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// PlaceTrade validates and admits one position. On rejection nothing
// is mutated and the first violated constraint is returned as a
// *risk.Rejection.
func (e *Engine) PlaceTrade(req TradeRequest) (*Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.placeLocked(req)
	if err != nil {
		e.logger.Warn("trade rejected",
			zap.String("contract", req.Contract.ID()),
			zap.Error(err))
		return nil, err
	}

	e.logger.Info("position opened",
		zap.String("id", p.ID),
		zap.String("contract", p.Contract.DisplayName()),
		zap.String("action", p.Action.String()),
		zap.Int("lots", p.Lots),
		zap.Float64("entry", p.EntryPrice),
		zap.Float64("stop", p.StopLoss),
		zap.Float64("target", p.Target),
		zap.Float64("risk", p.RiskAmount))

	e.adviseSkewLocked()
	return p, nil
}

func (e *Engine) placeLocked(req TradeRequest) (*Position, error) {
	if req.EntryPrice <= 0 {
		return nil, fmt.Errorf("%w: entry price %.2f", ErrBadTick, req.EntryPrice)
	}
	if !market.IsMarketOpen(req.Now) {
		return nil, risk.Reject(risk.MarketClosed, "market is closed at %s", req.Now.Format("15:04"))
	}

	slPct := req.StopLossPct
	if slPct == 0 {
		slPct = e.policy.DefaultStopLossPct
	}
	tgtPct := req.TargetPct
	if tgtPct == 0 {
		tgtPct = e.policy.DefaultTargetPct
	}

	stop, target := req.StopLoss, req.Target
	if req.Action == market.Buy {
		if stop == 0 {
			stop = req.EntryPrice * (1 - slPct)
		}
		if target == 0 {
			target = req.EntryPrice * (1 + tgtPct)
		}
		if !(stop < req.EntryPrice && req.EntryPrice < target) {
			return nil, fmt.Errorf("%w: BUY needs stop < entry < target (%.2f, %.2f, %.2f)",
				ErrInvalidStop, stop, req.EntryPrice, target)
		}
	} else {
		if stop == 0 {
			stop = req.EntryPrice * (1 + slPct)
		}
		if target == 0 {
			target = req.EntryPrice * (1 - tgtPct)
		}
		if !(target < req.EntryPrice && req.EntryPrice < stop) {
			return nil, fmt.Errorf("%w: SELL needs target < entry < stop (%.2f, %.2f, %.2f)",
				ErrInvalidStop, target, req.EntryPrice, stop)
		}
	}

	lots := req.Lots
	if lots == 0 {
		budget := req.RiskAmount
		if budget == 0 {
			budget = e.ledger.Balance() * e.policy.MaxRiskPerTrade
		}
		lots = risk.Lots(req.EntryPrice, stop, budget, e.ledger.Balance(), req.Contract.LotSize)
	}
	if lots <= 0 {
		return nil, fmt.Errorf("position size came out to zero lots")
	}

	riskAmount := risk.Amount(req.EntryPrice, stop, lots, req.Contract.LotSize)

	if err := e.ledger.CanOpen(req.Contract.Side, riskAmount, req.IsSpread); err != nil {
		return nil, err
	}

	holding := req.MaxHolding
	if holding == 0 {
		holding = e.policy.MaxHolding
	}
	trailPct := req.TrailingPct
	if trailPct == 0 {
		trailPct = e.policy.TrailingStopPct
	}

	p := &Position{
		ID:          id.New(),
		Contract:    req.Contract,
		Side:        req.Contract.Side,
		Action:      req.Action,
		EntryPrice:  req.EntryPrice,
		StopLoss:    stop,
		Target:      target,
		Lots:        lots,
		RiskAmount:  riskAmount,
		IsSpread:    req.IsSpread,
		Trailing:    req.Trailing,
		TrailingPct: trailPct,
		bestPrice:   req.EntryPrice,
		OpenedAt:    req.Now,
		MaxHolding:  holding,
		Status:      StatusOpen,
	}

	e.ledger.Open(p)
	return p, nil
}

// OnPriceTick evaluates open positions against the tick and closes
// those whose exit condition fires. A tick carrying a contract ID only
// touches positions on that contract. The open set is snapshotted
// first, so a closure never skips a sibling in the same tick. A
// malformed tick is refused without touching any position.
func (e *Engine) OnPriceTick(tick market.Tick) ([]ExitEvent, error) {
	if !tick.Valid() {
		e.logger.Warn("tick rejected", zap.Float64("price", tick.Price), zap.Time("time", tick.Time))
		return nil, fmt.Errorf("%w: price %.2f", ErrBadTick, tick.Price)
	}

	e.mu.Lock()

	var events []ExitEvent
	for _, p := range e.ledger.OpenPositions() {
		if tick.ContractID != "" && p.Contract.ID() != tick.ContractID {
			continue
		}
		reason, fired := Evaluate(p, tick.Price, tick.Time)
		if !fired {
			continue
		}
		ev, err := e.closeLocked(p.ID, tick.Price, reason, tick.Time)
		if err != nil {
			e.mu.Unlock()
			return events, err
		}
		events = append(events, ev)
	}

	listener := e.listener
	e.mu.Unlock()

	e.notify(listener, events)
	return events, nil
}

// ForceCloseAll closes every open position unconditionally, used for
// the session-end sweep.
func (e *Engine) ForceCloseAll(price float64, now time.Time) ([]ExitEvent, error) {
	return e.forceCloseAll(price, now, ExitMarketClose)
}

func (e *Engine) forceCloseAll(price float64, now time.Time, reason ExitReason) ([]ExitEvent, error) {
	e.mu.Lock()

	var events []ExitEvent
	for _, p := range e.ledger.OpenPositions() {
		ev, err := e.closeLocked(p.ID, price, reason, now)
		if err != nil {
			e.mu.Unlock()
			return events, err
		}
		events = append(events, ev)
	}

	listener := e.listener
	e.mu.Unlock()

	e.notify(listener, events)
	return events, nil
}

// ClosePosition closes one position at the given price with reason
// MANUAL.
func (e *Engine) ClosePosition(positionID string, price float64, now time.Time) (ExitEvent, error) {
	e.mu.Lock()

	ev, err := e.closeLocked(positionID, price, ExitManual, now)
	if err != nil {
		e.mu.Unlock()
		return ExitEvent{}, err
	}

	listener := e.listener
	e.mu.Unlock()

	e.notify(listener, []ExitEvent{ev})
	return ev, nil
}

// UpdateStopLoss moves a position's fixed stop. The new stop must stay
// on the losing side of the entry: below it for a BUY, above for a
// SELL.
func (e *Engine) UpdateStopLoss(positionID string, newStop float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.ledger.Get(positionID)
	if !ok {
		return ErrUnknownPosition
	}
	if p.Status != StatusOpen {
		return ErrAlreadyClosed
	}

	if p.Action == market.Buy && newStop >= p.EntryPrice {
		return fmt.Errorf("%w: %.2f is not below entry %.2f", ErrInvalidStop, newStop, p.EntryPrice)
	}
	if p.Action == market.Sell && newStop <= p.EntryPrice {
		return fmt.Errorf("%w: %.2f is not above entry %.2f", ErrInvalidStop, newStop, p.EntryPrice)
	}

	old := p.StopLoss
	p.StopLoss = newStop
	e.logger.Info("stop loss updated",
		zap.String("id", positionID),
		zap.Float64("from", old),
		zap.Float64("to", newStop))
	return nil
}

// Summary reports the session state as of now and journals a snapshot.
func (e *Engine) Summary(now time.Time) Summary {
	e.mu.Lock()
	s := e.ledger.Summary(now)
	e.mu.Unlock()

	if err := e.journal.RecordSnapshot(journal.DaySnapshot{
		Time:          now,
		Balance:       e.ledger.Balance(),
		DailyPnL:      s.DailyPnL,
		OpenPositions: s.OpenPositions,
		CECount:       s.CECount,
		PECount:       s.PECount,
		WinRate:       s.WinRate,
	}); err != nil {
		e.logger.Warn("snapshot not journaled", zap.Error(err))
	}
	return s
}

// Ledger exposes the ledger for read-mostly callers (the CLI). Writes
// must go through the engine.
func (e *Engine) Ledger() *Ledger { return e.ledger }

func (e *Engine) closeLocked(positionID string, price float64, reason ExitReason, now time.Time) (ExitEvent, error) {
	p, err := e.ledger.Close(positionID, price, reason, now)
	if err != nil {
		return ExitEvent{}, err
	}

	ev := ExitEvent{
		PositionID:  p.ID,
		Reason:      reason,
		ExitPrice:   price,
		RealizedPnL: p.RealizedPnL,
		ClosedAt:    now,
	}

	if err := e.journal.RecordExit(journal.ExitRecord{
		PositionID:   p.ID,
		ContractID:   p.Contract.ID(),
		Side:         p.Side.String(),
		Action:       p.Action.String(),
		Lots:         p.Lots,
		EntryPrice:   p.EntryPrice,
		ExitPrice:    price,
		OpenedAt:     p.OpenedAt,
		ClosedAt:     now,
		Reason:       reason.String(),
		RealizedPnL:  p.RealizedPnL,
		HoldingHours: p.HoldingDuration(now).Hours(),
	}); err != nil {
		e.logger.Warn("exit not journaled", zap.String("id", p.ID), zap.Error(err))
	}

	e.logger.Info("position closed",
		zap.String("id", p.ID),
		zap.String("reason", reason.String()),
		zap.Float64("exit", price),
		zap.Float64("pnl", p.RealizedPnL))

	return ev, nil
}

func (e *Engine) notify(l ExitListener, events []ExitEvent) {
	if l == nil {
		return
	}
	for _, ev := range events {
		l.OnExit(ev)
	}
}

func (e *Engine) adviseSkewLocked() {
	if skew := e.ledger.BalanceSkew(); skew > 2 || skew < -2 {
		e.logger.Warn("directional bias", zap.Int("ce_pe_skew", skew))
	}
}
