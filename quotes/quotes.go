// Package quotes generates synthetic option quotes for demos and
// replay sessions. It stands in for a real market-data feed; the
// trading core never imports it.
package quotes

import (
	"math"
	"math/rand"
	"time"

	"github.com/Aditya2838/new-market/market"
)

// Quote is one synthetic observation of an option contract.
type Quote struct {
	Contract market.Contract
	Bid      float64
	Ask      float64
	Last     float64

	Volume       int
	OpenInterest int
	ImpliedVol   float64
	Delta        float64
	Gamma        float64
	Theta        float64
	Vega         float64

	Time time.Time
}

// Mid is the bid/ask midpoint.
func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

// Spread is the bid/ask width.
func (q Quote) Spread() float64 {
	return q.Ask - q.Bid
}

// Generator prices contracts off a spot level. Deterministic for a
// given seed.
type Generator struct {
	rng  *rand.Rand
	spot float64
}

func NewGenerator(spot float64, seed int64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		spot: spot,
	}
}

// SetSpot moves the underlying level for subsequent quotes.
func (g *Generator) SetSpot(spot float64) { g.spot = spot }

// Spot returns the current underlying level.
func (g *Generator) Spot() float64 { return g.spot }

// Quote prices the contract: intrinsic value plus a crude time value,
// with a 5% spread around the mark. Not a pricing model, just a
// plausible demo feed.
func (g *Generator) Quote(c market.Contract, now time.Time) Quote {
	var intrinsic float64
	if c.Side == market.CE {
		intrinsic = math.Max(0, g.spot-c.Strike)
	} else {
		intrinsic = math.Max(0, c.Strike-g.spot)
	}

	years := c.Expiry.Sub(now).Hours() / (24 * 365)
	timeValue := math.Max(0.1, intrinsic*0.1+years*0.5)
	price := intrinsic + timeValue

	spread := price * 0.05
	bid := math.Max(0.05, price-spread/2)
	ask := price + spread/2

	return Quote{
		Contract:     c,
		Bid:          round2(bid),
		Ask:          round2(ask),
		Last:         round2(price),
		Volume:       100 + g.rng.Intn(900),
		OpenInterest: 500 + g.rng.Intn(4500),
		ImpliedVol:   0.25 + g.rng.Float64()*0.2,
		Delta:        0.5 + g.rng.Float64()*0.4,
		Gamma:        0.01 + g.rng.Float64()*0.02,
		Theta:        -0.1 - g.rng.Float64()*0.2,
		Vega:         0.5 + g.rng.Float64()*0.5,
		Time:         now,
	}
}

// Walk perturbs the spot by a bounded random step and returns the new
// level, for generating a tick path.
func (g *Generator) Walk(maxStep float64) float64 {
	g.spot += (g.rng.Float64()*2 - 1) * maxStep
	return g.spot
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
