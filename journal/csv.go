// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	exits  *csv.Writer
	snaps  *csv.Writer
	xf, sf *os.File
}

func NewCSV(exitsPath, snapshotsPath string) (*CSVJournal, error) {
	xf, err := os.Create(exitsPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(snapshotsPath)
	if err != nil {
		return nil, err
	}

	xw := csv.NewWriter(xf)
	sw := csv.NewWriter(sf)

	if err := xw.Write([]string{"position_id", "contract_id", "side", "action", "lots", "entry_price", "exit_price", "opened_at", "closed_at", "reason", "realized_pnl", "holding_hours"}); err != nil {
		return nil, err
	}
	if err := sw.Write([]string{"time", "balance", "daily_pnl", "open_positions", "ce_count", "pe_count", "win_rate"}); err != nil {
		return nil, err
	}

	xw.Flush()
	if err := xw.Error(); err != nil {
		return nil, err
	}
	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{xw, sw, xf, sf}, nil
}

func (j *CSVJournal) RecordExit(r ExitRecord) error {
	err := j.exits.Write([]string{
		r.PositionID,
		r.ContractID,
		r.Side,
		r.Action,
		strconv.Itoa(r.Lots),
		f(r.EntryPrice),
		f(r.ExitPrice),
		r.OpenedAt.Format(time.RFC3339),
		r.ClosedAt.Format(time.RFC3339),
		r.Reason,
		f(r.RealizedPnL),
		f(r.HoldingHours),
	})
	if err != nil {
		return err
	}
	j.exits.Flush()
	return j.exits.Error()
}

func (j *CSVJournal) RecordSnapshot(s DaySnapshot) error {
	err := j.snaps.Write([]string{
		s.Time.Format(time.RFC3339),
		f(s.Balance),
		f(s.DailyPnL),
		strconv.Itoa(s.OpenPositions),
		strconv.Itoa(s.CECount),
		strconv.Itoa(s.PECount),
		f(s.WinRate),
	})
	if err != nil {
		return err
	}
	j.snaps.Flush()
	return j.snaps.Error()
}

func (j *CSVJournal) Close() error {
	j.exits.Flush()
	if err := j.exits.Error(); err != nil {
		return err
	}
	j.snaps.Flush()
	if err := j.snaps.Error(); err != nil {
		return err
	}

	if err := j.xf.Close(); err != nil {
		return err
	}
	if err := j.sf.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
