package risk

import "math"

// Amount computes the capital at risk if the stop is hit:
// |entry - stop| * lots * lotSize, in account currency.
func Amount(entry, stop float64, lots, lotSize int) float64 {
	return math.Abs(entry-stop) * float64(lots) * float64(lotSize)
}

// RR is the reward/risk ratio of a planned trade.
func RR(entry, stop, target float64) float64 {
	r := math.Abs(entry - stop)
	if r == 0 {
		return 0
	}
	return math.Abs(target-entry) / r
}

// Lots sizes a position from the amount the trader is willing to lose.
// At least one lot is returned, but never so many that the entry
// notional exceeds 10% of the account balance.
func Lots(entry, stop, riskAmount, balance float64, lotSize int) int {
	perLot := math.Abs(entry-stop) * float64(lotSize)
	if perLot <= 0 {
		return 0
	}

	lots := int(riskAmount / perLot)
	if lots < 1 {
		lots = 1
	}

	maxByBalance := int(balance * 0.1 / (entry * float64(lotSize)))
	if lots > maxByBalance {
		lots = maxByBalance
	}
	return lots
}
