package cmd

import (
	"fmt"

	"github.com/rustyeddy/fxbot/config"
	"github.com/rustyeddy/fxbot/journal"
)

// openJournal builds the configured journal backend. The caller owns Close.
func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "none", "":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(cfg.SignalsFile, cfg.TradesFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}
