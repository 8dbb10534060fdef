package backtest

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"text/template"
)

// Report summarizes one backtest run.
type Report struct {
	InitialBalance float64
	FinalBalance   float64
	TotalReturn    float64 // percent
	TotalTrades    int
	WinningTrades  int
	LosingTrades   int
	WinRate        float64 // percent
	ProfitFactor   float64 // +Inf when no losing trades
	MaxDrawdown    float64 // percent
	EquityCurve    []float64
	Trades         []TradeEntry
}

var reportFuncs = template.FuncMap{
	"money": func(x float64) string { return fmt.Sprintf("$%.2f", x) },
	"pct":   func(x float64) string { return fmt.Sprintf("%.2f%%", x) },
	"factor": func(x float64) string {
		if math.IsInf(x, 1) {
			return "inf"
		}
		return fmt.Sprintf("%.2f", x)
	},
}

// Render formats the report for terminals and plain-text logs.
func (r Report) Render() (string, error) {
	t, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile renders the report and writes it to path.
func (r Report) WriteFile(path string) error {
	s, err := r.Render()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const reportTemplate = `==================================================
 BACKTEST REPORT
==================================================
 Initial Balance:  {{money .InitialBalance}}
 Final Balance:    {{money .FinalBalance}}
 Total Return:     {{pct .TotalReturn}}
 Total Trades:     {{.TotalTrades}}
 Winning Trades:   {{.WinningTrades}}
 Losing Trades:    {{.LosingTrades}}
 Win Rate:         {{pct .WinRate}}
 Profit Factor:    {{factor .ProfitFactor}}
 Max Drawdown:     {{pct .MaxDrawdown}}
==================================================
{{- if .Trades}}

 Entry Signals
{{- range .Trades}}
 [{{.Time.Format "2006-01-02 15:04:05"}}] {{.Signal}} @ {{printf "%.5f" .Price}} | {{.Label}}
{{- end}}
{{- end}}
`
