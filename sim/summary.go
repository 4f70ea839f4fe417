package sim

import (
	"time"

	"github.com/Aditya2838/new-market/market"
)

// Summary is the pull-based view of the session, computed on demand
// from ledger state.
type Summary struct {
	OpenPositions int
	CECount       int
	PECount       int
	SpreadCount   int

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64 // percent
	AveragePnL    float64
	MaxDrawdown   float64 // worst single realized P&L

	DailyPnL float64
	Skew     int // CE - PE

	Slot       market.Slot
	MarketOpen bool
}

// Summary computes the session summary as of now.
func (l *Ledger) Summary(now time.Time) Summary {
	s := Summary{
		OpenPositions: len(l.open),
		CECount:       l.ceCount,
		PECount:       l.peCount,
		SpreadCount:   l.spreadCount,
		TotalTrades:   len(l.closed),
		DailyPnL:      l.dailyPnL,
		Skew:          l.ceCount - l.peCount,
		Slot:          market.TimeSlot(now),
		MarketOpen:    market.IsMarketOpen(now),
	}

	var total float64
	for _, p := range l.closed {
		total += p.RealizedPnL
		if p.RealizedPnL > 0 {
			s.WinningTrades++
		} else if p.RealizedPnL < 0 {
			s.LosingTrades++
		}
		if p.RealizedPnL < s.MaxDrawdown {
			s.MaxDrawdown = p.RealizedPnL
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
		s.AveragePnL = total / float64(s.TotalTrades)
	}

	return s
}
