package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV writes signals and trades to two flat files, one header row each,
// flushed per record so a killed session loses at most the in-flight row.
type CSV struct {
	signals *csv.Writer
	trades  *csv.Writer
	sf, tf  *os.File
}

// NewCSV creates (truncating) the two CSV files and writes their headers.
func NewCSV(signalsPath, tradesPath string) (*CSV, error) {
	sf, err := os.Create(signalsPath)
	if err != nil {
		return nil, err
	}
	tf, err := os.Create(tradesPath)
	if err != nil {
		sf.Close()
		return nil, err
	}

	sw := csv.NewWriter(sf)
	tw := csv.NewWriter(tf)

	if err := sw.Write([]string{"timestamp", "signal", "label", "price", "fast_ema", "slow_ema", "rsi", "stop_loss", "take_profit"}); err != nil {
		return nil, err
	}
	if err := tw.Write([]string{"trade_id", "signal", "entry_time", "exit_time", "entry_price", "exit_price", "units", "pnl", "pnl_percent", "status"}); err != nil {
		return nil, err
	}

	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}
	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}

	return &CSV{signals: sw, trades: tw, sf: sf, tf: tf}, nil
}

func (j *CSV) RecordSignal(s SignalRecord) error {
	err := j.signals.Write([]string{
		s.Time.Format(time.RFC3339),
		s.Signal,
		s.Label,
		f(s.Price),
		f(s.FastEMA),
		f(s.SlowEMA),
		f(s.RSI),
		f(s.StopLoss),
		f(s.TakeProfit),
	})
	if err != nil {
		return err
	}
	j.signals.Flush()
	return j.signals.Error()
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.Signal,
		t.EntryTime.Format(time.RFC3339),
		t.ExitTime.Format(time.RFC3339),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.Units),
		f(t.RealizedPL),
		f(t.PLPercent),
		t.Status,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSV) Close() error {
	j.signals.Flush()
	if err := j.signals.Error(); err != nil {
		return err
	}
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	if err := j.sf.Close(); err != nil {
		return err
	}
	return j.tf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
