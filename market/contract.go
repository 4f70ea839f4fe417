package market

import (
	"fmt"
	"time"
)

// Side is the option side: CE (call) or PE (put).
type Side int

const (
	CE Side = iota // call option
	PE             // put option
)

func (s Side) String() string {
	if s == CE {
		return "CE"
	}
	return "PE"
}

// Action is the direction of the opening trade.
type Action int

const (
	Buy Action = iota
	Sell
)

func (a Action) String() string {
	if a == Buy {
		return "BUY"
	}
	return "SELL"
}

// Sign returns +1 for a BUY and -1 for a SELL, the multiplier that
// converts a raw price move into signed P&L.
func (a Action) Sign() float64 {
	if a == Buy {
		return 1
	}
	return -1
}

// DefaultLotSize is the NIFTY option lot size.
const DefaultLotSize = 50

// Contract identifies one option contract. Immutable once created.
type Contract struct {
	Underlying string
	Strike     float64
	Side       Side
	Expiry     time.Time
	LotSize    int
}

// NewContract builds a NIFTY contract with the default lot size.
func NewContract(strike float64, side Side, expiry time.Time) Contract {
	return Contract{
		Underlying: "NIFTY50",
		Strike:     strike,
		Side:       side,
		Expiry:     expiry,
		LotSize:    DefaultLotSize,
	}
}

// ID returns the canonical contract identifier, e.g.
// "NIFTY50_19500_CE_20260226".
func (c Contract) ID() string {
	return fmt.Sprintf("%s_%.0f_%s_%s", c.Underlying, c.Strike, c.Side, c.Expiry.Format("20060102"))
}

// DisplayName is the human-readable form, e.g. "19500 CE 26-Feb-2026".
func (c Contract) DisplayName() string {
	return fmt.Sprintf("%.0f %s %s", c.Strike, c.Side, c.Expiry.Format("02-Jan-2006"))
}
