package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   float64
		stop    float64
		lots    int
		lotSize int
		want    float64
	}{
		{"buy one lot", 50, 40, 1, 50, 500},
		{"sell stop above entry", 50, 60, 1, 50, 500},
		{"two lots", 120, 102, 2, 50, 1800},
		{"zero distance", 50, 50, 3, 50, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Amount(tt.entry, tt.stop, tt.lots, tt.lotSize)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRR(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, RR(50, 42.5, 65), 1e-9)
	assert.InDelta(t, 2.0, RR(50, 57.5, 35), 1e-9, "sell side")
	assert.Zero(t, RR(50, 50, 65), "degenerate stop")
}

func TestLots(t *testing.T) {
	t.Parallel()

	// 500 per lot of risk, 1500 budget -> 3 lots.
	assert.Equal(t, 3, Lots(50, 40, 1500, 1_000_000, 50))

	// Budget below one lot still returns the minimum.
	assert.Equal(t, 1, Lots(50, 40, 100, 1_000_000, 50))

	// Notional cap: 10% of 50_000 = 5_000, entry notional per lot is
	// 2_500, so at most 2 lots no matter the risk budget.
	assert.Equal(t, 2, Lots(50, 40, 10_000, 50_000, 50))

	assert.Equal(t, 0, Lots(50, 50, 1500, 1_000_000, 50), "no stop distance")
}

func TestPolicyValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Default().Validate())

	p := Default()
	p.MaxRiskPerTrade = 0
	assert.Error(t, p.Validate())

	p = Default()
	p.MaxTotalPositions = 0
	assert.Error(t, p.Validate())

	p = Default()
	p.TrailingStopPct = 1.2
	assert.Error(t, p.Validate())

	p = Default()
	p.MaxHolding = 0
	assert.Error(t, p.Validate())
}

func TestRejectionCode(t *testing.T) {
	t.Parallel()

	err := Reject(SideLimit, "maximum CE positions (%d) reached", 3)
	assert.EqualError(t, err, "SIDE_LIMIT: maximum CE positions (3) reached")
	assert.Equal(t, SideLimit, RejectionCode(err))
	assert.Equal(t, Code(""), RejectionCode(assert.AnError))
}
