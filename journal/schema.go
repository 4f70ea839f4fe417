// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS exits (
	position_id TEXT PRIMARY KEY,
	contract_id TEXT NOT NULL,
	side TEXT NOT NULL,
	action TEXT NOT NULL,
	lots INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	opened_at DATETIME NOT NULL,
	closed_at DATETIME NOT NULL,
	reason TEXT NOT NULL,
	realized_pnl REAL NOT NULL,
	holding_hours REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	time DATETIME NOT NULL,
	balance REAL NOT NULL,
	daily_pnl REAL NOT NULL,
	open_positions INTEGER NOT NULL,
	ce_count INTEGER NOT NULL,
	pe_count INTEGER NOT NULL,
	win_rate REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exits_closed_at ON exits(closed_at);
CREATE INDEX IF NOT EXISTS idx_snapshots_time ON snapshots(time);
`
