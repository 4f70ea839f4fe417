package market

import "time"

// Slot is an intraday trading time slot on the exchange clock.
type Slot int

const (
	PreMarket Slot = iota // 9:00 - 9:15
	Opening               // 9:15 - 9:30
	Morning               // 9:30 - 11:00
	MidDay                // 11:00 - 14:00
	Afternoon             // 14:00 - 15:00
	Closing               // 15:00 - 15:30
	Closed                // everything else
)

func (s Slot) String() string {
	switch s {
	case PreMarket:
		return "PRE_MARKET"
	case Opening:
		return "OPENING"
	case Morning:
		return "MORNING"
	case MidDay:
		return "MID_DAY"
	case Afternoon:
		return "AFTERNOON"
	case Closing:
		return "CLOSING"
	default:
		return "CLOSED"
	}
}

// minuteOfDay collapses a timestamp to minutes since midnight in its
// own location, which is all the slot boundaries care about.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// TimeSlot maps a timestamp to its trading slot. Total over all
// timestamps; weekends and holidays are not modelled.
func TimeSlot(t time.Time) Slot {
	m := minuteOfDay(t)
	switch {
	case m >= 9*60 && m < 9*60+15:
		return PreMarket
	case m < 9*60+30:
		return Opening
	case m < 11*60:
		return Morning
	case m < 14*60:
		return MidDay
	case m < 15*60:
		return Afternoon
	case m < 15*60+30:
		return Closing
	default:
		return Closed
	}
}

// IsMarketOpen reports whether trades may be placed at t, i.e. the
// slot is OPENING through CLOSING.
func IsMarketOpen(t time.Time) bool {
	m := minuteOfDay(t)
	return m >= 9*60+15 && m < 15*60+30
}

// SessionClose returns the 15:30 close instant on t's calendar day.
func SessionClose(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 15, 30, 0, 0, t.Location())
}
