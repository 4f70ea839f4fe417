package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aditya2838/new-market/journal"
	"github.com/Aditya2838/new-market/market"
	"github.com/Aditya2838/new-market/quotes"
	"github.com/Aditya2838/new-market/risk"
	"github.com/Aditya2838/new-market/sim"
	"github.com/Aditya2838/new-market/strategies"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run example simulations and demos",
	Long: `Run example trading sessions to learn how the simulator works.

Available demos:
  basic    - Single CE buy with stop loss, target and trailing stop
  straddle - ATM straddle over a synthetic random-walk session
  slots    - Print the strategy playbook for every session time slot

Examples:
  niftysim demo basic
  niftysim demo straddle`,
}

var demoBasicCmd = &cobra.Command{
	Use:   "basic",
	Short: "Run a basic single trade demo",
	Long: `Demonstrates one BUY CE position with policy-default exits.

Shows the basic workflow of:
  1. Setting up the engine with the default risk policy
  2. Placing a trade sized from the per-trade risk cap
  3. Feeding price ticks through the exit engine
  4. Watching the trailing stop ratchet after a favorable move`,
	RunE: runDemoBasic,
}

var demoStraddleCmd = &cobra.Command{
	Use:   "straddle",
	Short: "Run an ATM straddle over a synthetic session",
	Long: `Opens a straddle at the money, then walks the underlying with a
seeded random walk, repricing both legs every five minutes until the
close. Closures are recorded to a CSV journal.`,
	RunE: runDemoStraddle,
}

var demoSlotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Print the strategy playbook per time slot",
	RunE:  runDemoSlots,
}

var demoSeed int64

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.AddCommand(demoBasicCmd)
	demoCmd.AddCommand(demoStraddleCmd)
	demoCmd.AddCommand(demoSlotsCmd)

	demoStraddleCmd.Flags().Int64Var(&demoSeed, "seed", 42, "random walk seed")
}

func demoDay(h, m int) time.Time {
	return time.Date(2026, 2, 24, h, m, 0, 0, time.Local)
}

func runDemoBasic(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Basic Trade Demo ===")
	fmt.Println()

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine := sim.NewEngine(risk.Default(), 1_000_000, journal.Discard{}, logger)
	expiry := demoDay(15, 30).AddDate(0, 0, 2)

	p, err := engine.PlaceTrade(sim.TradeRequest{
		Contract:   market.NewContract(19500, market.CE, expiry),
		Action:     market.Buy,
		EntryPrice: 100,
		Trailing:   true,
		Now:        demoDay(9, 30),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Opened %s x%d lots @ %.2f\n", p.Contract.DisplayName(), p.Lots, p.EntryPrice)
	fmt.Printf("  Stop: %.2f  Target: %.2f  Risk: ₹%.2f\n\n", p.StopLoss, p.Target, p.RiskAmount)

	fmt.Println("Simulating a favorable move, then a pullback...")
	for _, step := range []struct {
		h, m  int
		price float64
	}{
		{10, 0, 108},
		{10, 30, 120},
		{11, 0, 118},
		{11, 30, 113},
	} {
		exits, err := engine.OnPriceTick(market.Tick{Time: demoDay(step.h, step.m), Price: step.price})
		if err != nil {
			return err
		}
		trail := "-"
		if p.TrailingStop != nil {
			trail = fmt.Sprintf("%.2f", *p.TrailingStop)
		}
		fmt.Printf("%02d:%02d  price=%.2f trailing_stop=%s\n", step.h, step.m, step.price, trail)
		for _, x := range exits {
			fmt.Printf("       CLOSE reason=%s exit=%.2f pnl=₹%.2f\n", x.Reason, x.ExitPrice, x.RealizedPnL)
		}
	}

	printSummary(engine.Summary(demoDay(11, 30)))
	return nil
}

func runDemoStraddle(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ATM Straddle Demo ===")
	fmt.Println()

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	j, err := journal.NewCSV("./demo-exits.csv", "./demo-snapshots.csv")
	if err != nil {
		return err
	}
	defer j.Close()

	engine := sim.NewEngine(risk.Default(), 1_000_000, j, logger)

	gen := quotes.NewGenerator(19520, demoSeed)
	expiry := demoDay(15, 30).AddDate(0, 0, 2)
	strike := 19500.0
	now := demoDay(9, 30)

	ceQuote := gen.Quote(market.NewContract(strike, market.CE, expiry), now)
	peQuote := gen.Quote(market.NewContract(strike, market.PE, expiry), now)

	pair, err := engine.PlaceStraddle(strike, expiry, ceQuote.Ask, peQuote.Ask, now)
	if err != nil {
		return err
	}
	fmt.Printf("Straddle opened at strike %.0f (spot %.2f)\n", strike, gen.Spot())
	fmt.Printf("  CE %s x%d @ %.2f\n", pair.CE.ID, pair.CE.Lots, pair.CE.EntryPrice)
	fmt.Printf("  PE %s x%d @ %.2f\n\n", pair.PE.ID, pair.PE.Lots, pair.PE.EntryPrice)

	ce := market.NewContract(strike, market.CE, expiry)
	pe := market.NewContract(strike, market.PE, expiry)

	// Reprice both legs every five minutes. The final iteration lands on
	// 15:30, where the market-close sweep fires for whatever survived.
	closeAt := market.SessionClose(now)
	for t := now.Add(5 * time.Minute); !t.After(closeAt); t = t.Add(5 * time.Minute) {
		gen.Walk(15)

		for _, leg := range []market.Contract{ce, pe} {
			q := gen.Quote(leg, t)
			exits, err := engine.OnPriceTick(market.Tick{Time: t, Price: q.Last, ContractID: leg.ID()})
			if err != nil {
				return err
			}
			for _, x := range exits {
				fmt.Printf("%s  CLOSE %s reason=%s exit=%.2f pnl=₹%.2f\n",
					t.Format("15:04"), x.PositionID, x.Reason, x.ExitPrice, x.RealizedPnL)
			}
		}
	}

	printSummary(engine.Summary(closeAt))
	fmt.Printf("\n✓ Check demo-exits.csv and demo-snapshots.csv for detailed records.\n")
	return nil
}

func runDemoSlots(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Session Playbook ===")

	for slot := market.PreMarket; slot <= market.Closed; slot++ {
		recs := strategies.ForSlot(slot)
		fmt.Printf("\n%s:\n", slot)
		if len(recs) == 0 {
			fmt.Println("  (no entries recommended)")
			continue
		}
		for _, r := range recs {
			fmt.Printf("  - %s (%s risk)\n    %s\n    Strikes: %s\n",
				r.Strategy, r.RiskLevel, r.Description, r.StrikeSelection)
		}
	}
	return nil
}
