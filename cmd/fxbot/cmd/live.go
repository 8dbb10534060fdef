package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/fxbot/config"
	"github.com/rustyeddy/fxbot/feed"
	"github.com/rustyeddy/fxbot/internal/metrics"
	"github.com/rustyeddy/fxbot/journal"
	"github.com/rustyeddy/fxbot/risk"
	"github.com/rustyeddy/fxbot/strategy"
	"github.com/spf13/cobra"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run the live signal loop against a price feed",
	Long: `Live streams prices from the configured feed (Yahoo quotes, a random
walk, or a CSV replay) through the strategy engine, journaling every signal
and trade. Interrupt (Ctrl-C) closes open positions at the last price before
exiting.

Example:
  fxbot live --config fxbot.yaml --metrics-addr :9090`,
	RunE: runLive,
}

var (
	liveConfigPath  string
	liveMetricsAddr string
)

func init() {
	rootCmd.AddCommand(liveCmd)

	liveCmd.Flags().StringVarP(&liveConfigPath, "config", "c", "", "path to config file (defaults apply when omitted)")
	liveCmd.Flags().StringVar(&liveMetricsAddr, "metrics-addr", "", "listen address for /metrics and /healthz (overrides config)")
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(liveConfigPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ledger, err := risk.NewManager(cfg.Risk)
	if err != nil {
		return err
	}
	eng, err := strategy.New(cfg.Strategy, ledger)
	if err != nil {
		return err
	}

	jnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jnl.Close()

	f, err := openFeed(cfg)
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	if cfg.Feed.Type == "yahoo" && cfg.Feed.Preload > 0 {
		hist, err := feed.YahooHistory(cfg.Symbol, cfg.Feed.Preload)
		if err != nil {
			logger.Warn("history preload failed", "err", err)
		} else {
			eng.Seed(hist)
			logger.Info("seeded price history", "closes", len(hist))
		}
	}

	m := metrics.New()
	health := metrics.NewHealth()

	addr := cfg.Metrics.Addr
	if liveMetricsAddr != "" {
		addr = liveMetricsAddr
	}
	if addr != "" {
		srv := metrics.NewServer(addr, m, health, logger)
		srv.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			srv.Stop(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// unblocks a Next waiting on the poll interval
		<-ctx.Done()
		f.Close()
	}()

	logger.Info("live session started",
		"symbol", cfg.Symbol,
		"variant", cfg.Strategy.Variant,
		"feed", cfg.Feed.Type,
		"balance", ledger.Balance(),
	)

	var (
		lastPrice float64
		anyTick   bool
	)
	for ctx.Err() == nil {
		tick, ok, err := f.Next()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			m.FeedErrors.Inc()
			logger.Error("feed", "err", err)
			continue
		}
		if !ok {
			break
		}

		now := tick.Time
		if now.IsZero() {
			now = time.Now().UTC()
		}
		lastPrice, anyTick = tick.Price, true

		m.TicksTotal.Inc()
		health.SetLastTick(now)

		for _, sig := range eng.OnPrice(tick.Price, now) {
			m.SignalsTotal.WithLabelValues(string(sig.Action)).Inc()
			if err := jnl.RecordSignal(journal.NewSignalRecord(sig)); err != nil {
				logger.Error("journal signal", "err", err)
			}
			if sig.Action == strategy.ActionClose {
				m.TradesClosed.WithLabelValues(string(sig.Position.Status)).Inc()
				if err := jnl.RecordTrade(journal.NewTradeRecord(sig.Position)); err != nil {
					logger.Error("journal trade", "err", err)
				}
			}
			logger.Info("signal", "action", sig.Action, "price", sig.Price, "label", sig.Label)
		}

		m.Balance.Set(ledger.Balance())
		m.Equity.Set(ledger.Balance() + ledger.UnrealizedPL(tick.Price))
		m.OpenCount.Set(float64(len(ledger.OpenPositions())))
	}

	if anyTick {
		for _, p := range ledger.CloseAll(lastPrice, time.Now().UTC()) {
			m.TradesClosed.WithLabelValues(string(p.Status)).Inc()
			if err := jnl.RecordTrade(journal.NewTradeRecord(p)); err != nil {
				logger.Error("journal trade", "err", err)
			}
			logger.Info("closed at shutdown", "id", p.ID, "side", p.Side.String(), "pnl", p.RealizedPL)
		}
	}

	st := eng.Stats()
	logger.Info("live session finished",
		"ticks", st.DataPoints,
		"signals", st.TotalSignals,
		"balance", ledger.Balance(),
	)
	if st.Performance != nil {
		pf := fmt.Sprintf("%.2f", st.Performance.ProfitFactor)
		if math.IsInf(st.Performance.ProfitFactor, 1) {
			pf = "inf"
		}
		logger.Info("performance",
			"trades", st.Performance.TotalTrades,
			"win_rate", st.Performance.WinRate,
			"profit_factor", pf,
			"max_drawdown", st.Performance.MaxDrawdown,
		)
	}
	return nil
}

// openFeed builds the configured price source. The caller owns Close.
func openFeed(cfg *config.Config) (feed.Feed, error) {
	switch cfg.Feed.Type {
	case "yahoo":
		return feed.NewYahooFeed(cfg.Symbol, time.Duration(cfg.Feed.PollSeconds)*time.Second), nil
	case "random":
		return feed.NewRandomFeed(cfg.Feed.StartPrice, cfg.Feed.Volatility, cfg.Feed.Ticks, cfg.Feed.Seed), nil
	case "csv":
		return feed.OpenCSV(cfg.Feed.CSVPath, cfg.Feed.CSVColumn)
	default:
		return nil, fmt.Errorf("unknown feed type %q", cfg.Feed.Type)
	}
}
