package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordExit(r ExitRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO exits
		(position_id, contract_id, side, action, lots, entry_price, exit_price, opened_at, closed_at, reason, realized_pnl, holding_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.PositionID, r.ContractID, r.Side, r.Action, r.Lots,
		r.EntryPrice, r.ExitPrice, r.OpenedAt, r.ClosedAt,
		r.Reason, r.RealizedPnL, r.HoldingHours,
	)
	return err
}

func (j *SQLiteJournal) RecordSnapshot(s DaySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO snapshots
		(time, balance, daily_pnl, open_positions, ce_count, pe_count, win_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Time, s.Balance, s.DailyPnL, s.OpenPositions, s.CECount, s.PECount, s.WinRate,
	)
	return err
}

// ListExits returns every recorded closure, oldest first.
func (j *SQLiteJournal) ListExits() ([]ExitRecord, error) {
	rows, err := j.db.Query(`
		SELECT position_id, contract_id, side, action, lots, entry_price, exit_price,
		       opened_at, closed_at, reason, realized_pnl, holding_hours
		FROM exits ORDER BY closed_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExitRecord
	for rows.Next() {
		var r ExitRecord
		if err := rows.Scan(&r.PositionID, &r.ContractID, &r.Side, &r.Action, &r.Lots,
			&r.EntryPrice, &r.ExitPrice, &r.OpenedAt, &r.ClosedAt,
			&r.Reason, &r.RealizedPnL, &r.HoldingHours); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
