package risk

import (
	"errors"
	"fmt"
)

// Code classifies why a trade request was not admitted.
type Code string

const (
	PositionLimit     Code = "POSITION_LIMIT"
	SideLimit         Code = "SIDE_LIMIT"
	SpreadLimit       Code = "SPREAD_LIMIT"
	RiskCapExceeded   Code = "RISK_CAP_EXCEEDED"
	DailyLossLimitHit Code = "DAILY_LOSS_LIMIT_HIT"
	MarketClosed      Code = "MARKET_CLOSED"
)

// Rejection is a refused admission. It is always recoverable: nothing
// was mutated, the caller may retry with different terms.
type Rejection struct {
	Code Code
	Msg  string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Msg)
}

// Reject builds a Rejection with a formatted message.
func Reject(code Code, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// RejectionCode extracts the code from an admission error, or "" if
// err is not a Rejection.
func RejectionCode(err error) Code {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Code
	}
	return ""
}
