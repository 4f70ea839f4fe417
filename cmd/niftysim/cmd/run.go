package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aditya2838/new-market/config"
	"github.com/Aditya2838/new-market/journal"
	"github.com/Aditya2838/new-market/market"
	"github.com/Aditya2838/new-market/sim"
	"github.com/Aditya2838/new-market/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a trading day from a config file",
	Long: `Replay a trading session using settings from a configuration file.

The config file specifies the account, the risk policy, the entries to
place and the price ticks to feed through the exit engine. Entries and
ticks are replayed in time order; whatever is still open at 15:30 is
closed at the last seen price.

Example:
  niftysim run --config session.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyEnvOverrides(cfg)

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	fmt.Printf("Replaying session %s with config: %s\n", cfg.Session.Date, runConfigPath)
	fmt.Printf("  Account: %s (Balance: ₹%.2f)\n", cfg.Account.ID, cfg.Account.Balance)
	fmt.Printf("  Policy: risk %.1f%%/trade, daily loss %.1f%%, max %d positions (%d CE / %d PE)\n",
		cfg.Policy.MaxRiskPerTrade*100, cfg.Policy.MaxDailyLoss*100,
		cfg.Policy.MaxTotalPositions, cfg.Policy.MaxCEPositions, cfg.Policy.MaxPEPositions)
	fmt.Println()

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	engine := sim.NewEngine(cfg.Policy.ToPolicy(), cfg.Account.Balance, j, logger)

	expiry, err := cfg.ExpiryDate()
	if err != nil {
		return err
	}

	events, err := buildTimeline(cfg)
	if err != nil {
		return err
	}

	var lastPrice float64
	var lastTick market.Tick
	for _, ev := range events {
		if ev.trade != nil {
			tr := ev.trade
			side := market.CE
			if tr.Side == "PE" {
				side = market.PE
			}
			action := market.Buy
			if tr.Action == "SELL" {
				action = market.Sell
			}

			p, err := engine.PlaceTrade(sim.TradeRequest{
				Contract:    market.NewContract(tr.Strike, side, expiry),
				Action:      action,
				EntryPrice:  tr.Entry,
				StopLossPct: tr.StopLossPct,
				TargetPct:   tr.TargetPct,
				Lots:        tr.Lots,
				Trailing:    tr.Trailing,
				Now:         ev.at,
			})
			if err != nil {
				fmt.Printf("%s  REJECTED %s: %v\n", tr.At, tr.Side, err)
				continue
			}
			fmt.Printf("%s  OPEN  %s x%d @ %.2f (stop %.2f, target %.2f)\n",
				tr.At, p.Contract.DisplayName(), p.Lots, p.EntryPrice, p.StopLoss, p.Target)
			continue
		}

		lastPrice = ev.tick.Price
		lastTick = market.Tick{Time: ev.at, Price: ev.tick.Price}
		if ev.tick.Side != "" {
			side := market.CE
			if ev.tick.Side == "PE" {
				side = market.PE
			}
			lastTick.ContractID = market.NewContract(ev.tick.Strike, side, expiry).ID()
		}
		exits, err := engine.OnPriceTick(lastTick)
		if err != nil {
			return fmt.Errorf("tick at %s: %w", ev.tick.At, err)
		}
		for _, x := range exits {
			fmt.Printf("%s  CLOSE %s reason=%s exit=%.2f pnl=%.2f\n",
				ev.tick.At, x.PositionID, x.Reason, x.ExitPrice, x.RealizedPnL)
		}
	}

	// End-of-day sweep at the close.
	if lastPrice > 0 {
		closeAt := market.SessionClose(lastTick.Time)
		exits, err := engine.ForceCloseAll(lastPrice, closeAt)
		if err != nil {
			return err
		}
		for _, x := range exits {
			fmt.Printf("15:30  CLOSE %s reason=%s exit=%.2f pnl=%.2f\n",
				x.PositionID, x.Reason, x.ExitPrice, x.RealizedPnL)
		}

		printSummary(engine.Summary(closeAt))
	}

	switch cfg.Journal.Type {
	case "csv":
		fmt.Printf("\nResults saved to:\n  - %s\n  - %s\n", cfg.Journal.ExitsFile, cfg.Journal.SnapshotsFile)
	case "sqlite":
		fmt.Printf("\nResults saved to: %s\n", cfg.Journal.DBPath)
	}

	return nil
}

// timelineEvent is either one entry or one tick, tagged with its
// absolute time on the session date.
type timelineEvent struct {
	at    time.Time
	trade *config.TradeConfig
	tick  *config.TickStep
}

func buildTimeline(cfg *config.Config) ([]timelineEvent, error) {
	var events []timelineEvent
	for i := range cfg.Session.Trades {
		tr := &cfg.Session.Trades[i]
		at, err := cfg.At(tr.At)
		if err != nil {
			return nil, err
		}
		events = append(events, timelineEvent{at: at, trade: tr})
	}
	for i := range cfg.Session.Ticks {
		tk := &cfg.Session.Ticks[i]
		at, err := cfg.At(tk.At)
		if err != nil {
			return nil, err
		}
		events = append(events, timelineEvent{at: at, tick: tk})
	}

	// Trades sort before ticks at the same instant so an entry sees the
	// tick that follows it.
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].at.Equal(events[j].at) {
			return events[i].at.Before(events[j].at)
		}
		return events[i].trade != nil && events[j].trade == nil
	})
	return events, nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.ExitsFile, jc.SnapshotsFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Discard{}, nil
	}
}

// applyEnvOverrides lets the environment (or a .env file) override the
// journal path and starting balance without editing the config.
func applyEnvOverrides(cfg *config.Config) {
	if db := os.Getenv("NIFTYSIM_DB"); db != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = db
	}
	if bal := os.Getenv("NIFTYSIM_BALANCE"); bal != "" {
		if v, err := strconv.ParseFloat(bal, 64); err == nil && v > 0 {
			cfg.Account.Balance = v
		}
	}
}

func printSummary(s sim.Summary) {
	fmt.Printf("\nSession Summary (%s):\n", s.Slot)
	fmt.Printf("  Trades: %d (won %d, lost %d, win rate %.1f%%)\n",
		s.TotalTrades, s.WinningTrades, s.LosingTrades, s.WinRate)
	fmt.Printf("  Daily P&L: ₹%.2f (avg ₹%.2f, worst ₹%.2f)\n", s.DailyPnL, s.AveragePnL, s.MaxDrawdown)
	fmt.Printf("  Open: %d (CE %d / PE %d, skew %+d)\n", s.OpenPositions, s.CECount, s.PECount, s.Skew)

	if recs := strategies.ForSlot(s.Slot); len(recs) > 0 {
		fmt.Println("\nStrategies for this slot:")
		for _, r := range recs {
			fmt.Printf("  - %s (%s risk): %s\n", r.Strategy, r.RiskLevel, r.Description)
		}
	}
}
