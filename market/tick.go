package market

import "time"

// Tick is one observation of an option's traded price. A tick with an
// empty ContractID applies to every open position; otherwise only to
// positions on that contract.
type Tick struct {
	Time       time.Time
	Price      float64
	ContractID string
}

// Valid reports whether the tick is usable: a positive price and a
// non-zero timestamp.
func (t Tick) Valid() bool {
	return t.Price > 0 && !t.Time.IsZero()
}
