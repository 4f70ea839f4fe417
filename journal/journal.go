package journal

import "time"

// ExitRecord is one closed position, written once per closure.
type ExitRecord struct {
	PositionID   string
	ContractID   string
	Side         string // CE or PE
	Action       string // BUY or SELL
	Lots         int
	EntryPrice   float64
	ExitPrice    float64
	OpenedAt     time.Time
	ClosedAt     time.Time
	Reason       string
	RealizedPnL  float64
	HoldingHours float64
}

// DaySnapshot is a point-in-time view of the session's results.
type DaySnapshot struct {
	Time          time.Time
	Balance       float64
	DailyPnL      float64
	OpenPositions int
	CECount       int
	PECount       int
	WinRate       float64
}

type Journal interface {
	RecordExit(ExitRecord) error
	RecordSnapshot(DaySnapshot) error
	Close() error
}

// Discard is a Journal that drops everything. Useful for tests and
// for running the engine without persistence.
type Discard struct{}

func (Discard) RecordExit(ExitRecord) error      { return nil }
func (Discard) RecordSnapshot(DaySnapshot) error { return nil }
func (Discard) Close() error                     { return nil }
