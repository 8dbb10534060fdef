package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite journals into a local database, one row per signal or trade.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and applies the
// schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordSignal(s SignalRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO signals
		(time, signal, label, price, fast_ema, slow_ema, rsi, stop_loss, take_profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Time, s.Signal, s.Label, s.Price,
		s.FastEMA, s.SlowEMA, s.RSI, s.StopLoss, s.TakeProfit,
	)
	return err
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, signal, entry_time, exit_time, entry_price, exit_price, units, pnl, pnl_percent, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Signal, t.EntryTime, t.ExitTime,
		t.EntryPrice, t.ExitPrice, t.Units, t.RealizedPL, t.PLPercent, t.Status,
	)
	return err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, signal, entry_time, exit_time, entry_price, exit_price, units, pnl, pnl_percent, status
		FROM trades
		WHERE trade_id = ?`, tradeID)

	var rec TradeRecord
	err := row.Scan(
		&rec.TradeID, &rec.Signal, &rec.EntryTime, &rec.ExitTime,
		&rec.EntryPrice, &rec.ExitPrice, &rec.Units, &rec.RealizedPL,
		&rec.PLPercent, &rec.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns trades whose exit_time is within
// [start, end), ordered by close time.
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, signal, entry_time, exit_time, entry_price, exit_price, units, pnl, pnl_percent, status
		FROM trades
		WHERE exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		err := rows.Scan(
			&rec.TradeID, &rec.Signal, &rec.EntryTime, &rec.ExitTime,
			&rec.EntryPrice, &rec.ExitPrice, &rec.Units, &rec.RealizedPL,
			&rec.PLPercent, &rec.Status,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListSignals returns every signal row in time order.
func (j *SQLite) ListSignals() ([]SignalRecord, error) {
	rows, err := j.db.Query(`
		SELECT time, signal, label, price, fast_ema, slow_ema, rsi, stop_loss, take_profit
		FROM signals
		ORDER BY time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SignalRecord
	for rows.Next() {
		var rec SignalRecord
		err := rows.Scan(
			&rec.Time, &rec.Signal, &rec.Label, &rec.Price,
			&rec.FastEMA, &rec.SlowEMA, &rec.RSI, &rec.StopLoss, &rec.TakeProfit,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
