package journal

const schema = `
CREATE TABLE IF NOT EXISTS signals (
	time DATETIME NOT NULL,
	signal TEXT NOT NULL,
	label TEXT NOT NULL,
	price REAL NOT NULL,
	fast_ema REAL NOT NULL,
	slow_ema REAL NOT NULL,
	rsi REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	signal TEXT NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	units REAL NOT NULL,
	pnl REAL NOT NULL,
	pnl_percent REAL NOT NULL,
	status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signals_time ON signals(time);
CREATE INDEX IF NOT EXISTS idx_trades_exit_time ON trades(exit_time);
`
