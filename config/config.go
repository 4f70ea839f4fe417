package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aditya2838/new-market/risk"
)

// Config is the complete session configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Policy  PolicyConfig  `json:"policy" yaml:"policy"`
	Session SessionConfig `json:"session" yaml:"session"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID      string  `json:"id" yaml:"id"`
	Balance float64 `json:"balance" yaml:"balance"`
}

// PolicyConfig mirrors risk.Policy in file-friendly units.
type PolicyConfig struct {
	MaxRiskPerTrade    float64 `json:"max_risk_per_trade" yaml:"max_risk_per_trade"`
	MaxDailyLoss       float64 `json:"max_daily_loss" yaml:"max_daily_loss"`
	MaxTotalPositions  int     `json:"max_total_positions" yaml:"max_total_positions"`
	MaxCEPositions     int     `json:"max_ce_positions" yaml:"max_ce_positions"`
	MaxPEPositions     int     `json:"max_pe_positions" yaml:"max_pe_positions"`
	MaxSpreadPositions int     `json:"max_spread_positions" yaml:"max_spread_positions"`
	StopLossPct        float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TargetPct          float64 `json:"target_pct" yaml:"target_pct"`
	TrailingStopPct    float64 `json:"trailing_stop_pct" yaml:"trailing_stop_pct"`
	MaxHoldingHours    float64 `json:"max_holding_hours" yaml:"max_holding_hours"`
}

// ToPolicy converts the file form into the engine's immutable policy.
func (pc PolicyConfig) ToPolicy() risk.Policy {
	return risk.Policy{
		MaxRiskPerTrade:    pc.MaxRiskPerTrade,
		MaxDailyLoss:       pc.MaxDailyLoss,
		MaxTotalPositions:  pc.MaxTotalPositions,
		MaxCEPositions:     pc.MaxCEPositions,
		MaxPEPositions:     pc.MaxPEPositions,
		MaxSpreadPositions: pc.MaxSpreadPositions,
		DefaultStopLossPct: pc.StopLossPct,
		DefaultTargetPct:   pc.TargetPct,
		TrailingStopPct:    pc.TrailingStopPct,
		MaxHolding:         time.Duration(pc.MaxHoldingHours * float64(time.Hour)),
	}
}

// SessionConfig describes the replayed trading day.
type SessionConfig struct {
	Date   string        `json:"date" yaml:"date"` // 2026-02-24
	Expiry string        `json:"expiry" yaml:"expiry"`
	Trades []TradeConfig `json:"trades" yaml:"trades"`
	Ticks  []TickStep    `json:"ticks" yaml:"ticks"`
}

// TradeConfig is one entry to place at session open.
type TradeConfig struct {
	Strike      float64 `json:"strike" yaml:"strike"`
	Side        string  `json:"side" yaml:"side"`     // CE or PE
	Action      string  `json:"action" yaml:"action"` // BUY or SELL
	Entry       float64 `json:"entry" yaml:"entry"`
	StopLossPct float64 `json:"stop_loss_pct,omitempty" yaml:"stop_loss_pct,omitempty"`
	TargetPct   float64 `json:"target_pct,omitempty" yaml:"target_pct,omitempty"`
	Lots        int     `json:"lots,omitempty" yaml:"lots,omitempty"`
	Trailing    bool    `json:"trailing" yaml:"trailing"`
	At          string  `json:"at" yaml:"at"` // clock time, e.g. "09:30"
}

// TickStep is one price observation in the replay. When Strike and
// Side are set the tick only applies to positions on that contract;
// otherwise it applies to every open position.
type TickStep struct {
	Price  float64 `json:"price" yaml:"price"`
	At     string  `json:"at" yaml:"at"` // clock time, e.g. "10:15"
	Strike float64 `json:"strike,omitempty" yaml:"strike,omitempty"`
	Side   string  `json:"side,omitempty" yaml:"side,omitempty"`
}

// JournalConfig selects where closures are persisted.
type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "csv" or "sqlite"
	ExitsFile     string `json:"exits_file,omitempty" yaml:"exits_file,omitempty"`
	SnapshotsFile string `json:"snapshots_file,omitempty" yaml:"snapshots_file,omitempty"`
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration, YAML for .yaml/.yml paths and
// JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Day parses the session date in the local exchange timezone.
func (c *Config) Day() (time.Time, error) {
	return time.ParseInLocation("2006-01-02", c.Session.Date, time.Local)
}

// ExpiryDate parses the contract expiry.
func (c *Config) ExpiryDate() (time.Time, error) {
	return time.ParseInLocation("2006-01-02", c.Session.Expiry, time.Local)
}

// At combines the session date with a clock time like "10:15".
func (c *Config) At(clock string) (time.Time, error) {
	day, err := c.Day()
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad clock time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if err := c.Policy.ToPolicy().Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if _, err := c.Day(); err != nil {
		return fmt.Errorf("session.date must be YYYY-MM-DD: %w", err)
	}
	if _, err := c.ExpiryDate(); err != nil {
		return fmt.Errorf("session.expiry must be YYYY-MM-DD: %w", err)
	}
	for i, tr := range c.Session.Trades {
		if tr.Side != "CE" && tr.Side != "PE" {
			return fmt.Errorf("trade %d: side must be CE or PE", i)
		}
		if tr.Action != "BUY" && tr.Action != "SELL" {
			return fmt.Errorf("trade %d: action must be BUY or SELL", i)
		}
		if tr.Entry <= 0 {
			return fmt.Errorf("trade %d: entry must be positive", i)
		}
		if _, err := c.At(tr.At); err != nil {
			return fmt.Errorf("trade %d: %w", i, err)
		}
	}
	for i, tk := range c.Session.Ticks {
		if _, err := c.At(tk.At); err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
		if tk.Side != "" && tk.Side != "CE" && tk.Side != "PE" {
			return fmt.Errorf("tick %d: side must be CE or PE", i)
		}
		if (tk.Side == "") != (tk.Strike == 0) {
			return fmt.Errorf("tick %d: strike and side must be set together", i)
		}
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.ExitsFile == "" || c.Journal.SnapshotsFile == "" {
			return fmt.Errorf("journal exits_file and snapshots_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	p := risk.Default()
	return &Config{
		Account: AccountConfig{
			ID:      "SIM-001",
			Balance: 1_000_000,
		},
		Policy: PolicyConfig{
			MaxRiskPerTrade:    p.MaxRiskPerTrade,
			MaxDailyLoss:       p.MaxDailyLoss,
			MaxTotalPositions:  p.MaxTotalPositions,
			MaxCEPositions:     p.MaxCEPositions,
			MaxPEPositions:     p.MaxPEPositions,
			MaxSpreadPositions: p.MaxSpreadPositions,
			StopLossPct:        p.DefaultStopLossPct,
			TargetPct:          p.DefaultTargetPct,
			TrailingStopPct:    p.TrailingStopPct,
			MaxHoldingHours:    p.MaxHolding.Hours(),
		},
		Session: SessionConfig{
			Date:   "2026-02-24",
			Expiry: "2026-02-26",
		},
		Journal: JournalConfig{
			Type:          "csv",
			ExitsFile:     "./exits.csv",
			SnapshotsFile: "./snapshots.csv",
		},
	}
}
