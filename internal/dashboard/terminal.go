// Package dashboard renders the view model as a live ANSI terminal UI.
//
// The renderer is a pure consumer: it reads store snapshots and draws, it
// never mutates state. Redraws are driven by the store's coalescing change
// channel plus a 1s heartbeat so relative times stay fresh.
package dashboard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/web3guy0/algodash/internal/model"
	"github.com/web3guy0/algodash/internal/overlay"
	"github.com/web3guy0/algodash/internal/store"
)

// ANSI escape codes
const (
	clearScreen = "\033[2J"
	cursorHome  = "\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgRed    = "\033[31m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgCyan   = "\033[36m"
	fgWhite  = "\033[37m"
)

const (
	termWidth   = 110
	chartHeight = 14
)

// Terminal is the ANSI dashboard.
type Terminal struct {
	st  *store.Store
	out io.Writer

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a terminal dashboard writing to stdout.
func New(st *store.Store) *Terminal {
	return &Terminal{
		st:     st,
		out:    os.Stdout,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start clears the screen and begins the render loop.
func (t *Terminal) Start() {
	fmt.Fprint(t.out, hideCursor, clearScreen)
	go t.renderLoop()
}

// Stop halts rendering and restores the cursor.
func (t *Terminal) Stop() {
	close(t.stopCh)
	<-t.doneCh
	fmt.Fprint(t.out, showCursor, "\n")
}

func (t *Terminal) renderLoop() {
	defer close(t.doneCh)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	t.render()
	for {
		select {
		case <-t.stopCh:
			return
		case <-t.st.Changes():
			t.render()
		case <-ticker.C:
			t.render()
		}
	}
}

func (t *Terminal) render() {
	vm := t.st.Snapshot()

	var b strings.Builder
	b.WriteString(cursorHome)

	writeLine := func(s string) {
		b.WriteString(padLine(s, termWidth))
		b.WriteString("\n")
	}

	writeLine(t.header(vm))
	writeLine(t.watchlistLine(vm))
	writeLine(t.rangeLine(vm))
	writeLine(strings.Repeat("─", termWidth))
	writeLine(t.indicatorLine(vm))
	writeLine(t.levelsLine(vm))
	writeLine(t.analysisLine(vm))
	writeLine(strings.Repeat("─", termWidth))

	if vm.Err != "" {
		writeLine(fgRed + bold + " ⚠ " + vm.Err + reset)
	} else if vm.Loading {
		writeLine(fgYellow + " loading chart data..." + reset)
	} else {
		writeLine("")
	}

	lines := overlay.Derive(vm.Indicators)
	for _, row := range RenderChart(vm.PriceSeries, lines, termWidth, chartHeight) {
		writeLine(colorChartRow(row))
	}
	writeLine(dim + TimeAxis(vm.PriceSeries, termWidth) + reset)

	writeLine(strings.Repeat("─", termWidth))
	writeLine(fgYellow + bold + " 📋 RECENT TRADES" + reset)
	for _, line := range t.tradeLines(vm) {
		writeLine(line)
	}

	writeLine(strings.Repeat("─", termWidth))
	writeLine(t.footer(vm))

	fmt.Fprint(t.out, b.String())
}

func (t *Terminal) header(vm store.ViewModel) string {
	status := fgWhite + dim + "⚫ IDLE" + reset
	if vm.BotStatus == model.BotRunning {
		status = fgGreen + bold + "🟢 RUNNING" + reset
	}
	updated := "never"
	if !vm.LastUpdate.IsZero() {
		updated = vm.LastUpdate.Format("15:04:05")
	}
	return fmt.Sprintf(" %s📈 ALGO TRADER%s  %s  │  💵 %s  ₿ %s  │  📊 %d trades  │  🕒 %s",
		fgCyan+bold, reset,
		status,
		vm.Balance.FormatUSD(), vm.Balance.FormatBTC(),
		vm.TradeCount,
		updated)
}

func (t *Terminal) watchlistLine(vm store.ViewModel) string {
	parts := make([]string, 0, len(vm.Watchlist))
	for _, sym := range vm.Watchlist {
		if sym == vm.SelectedSymbol {
			parts = append(parts, fgCyan+bold+"["+sym+"]"+reset)
		} else {
			parts = append(parts, dim+sym+reset)
		}
	}
	return " Watchlist: " + strings.Join(parts, "  ")
}

func (t *Terminal) rangeLine(vm store.ViewModel) string {
	parts := make([]string, 0, len(model.TimeRanges))
	for _, tr := range model.TimeRanges {
		if tr == vm.Range {
			parts = append(parts, fgBlue+bold+"["+tr.Label+"]"+reset)
		} else {
			parts = append(parts, dim+tr.Label+reset)
		}
	}
	return " Range:     " + strings.Join(parts, "  ")
}

func (t *Terminal) indicatorLine(vm store.ViewModel) string {
	ind := vm.Indicators

	rsiColor := fgWhite
	if ind.RSI != nil {
		switch {
		case *ind.RSI > 70:
			rsiColor = fgRed
		case *ind.RSI < 30:
			rsiColor = fgGreen
		}
	}
	macdColor := fgWhite
	if ind.MACD != nil && ind.Signal != nil {
		if *ind.MACD > *ind.Signal {
			macdColor = fgGreen
		} else {
			macdColor = fgRed
		}
	}

	return fmt.Sprintf(" 📊 %s%s%s  │  RSI: %s%s%s  │  MACD: %s%s%s  │  Signal: %s",
		bold, vm.SelectedSymbol, reset,
		rsiColor, model.FormatValue(ind.RSI, 2), reset,
		macdColor, model.FormatValue(ind.MACD, 4), reset,
		model.FormatValue(ind.Signal, 4))
}

func (t *Terminal) levelsLine(vm store.ViewModel) string {
	ind := vm.Indicators
	return fmt.Sprintf(" %s🟢 Support:%s %s   %s🔴 Resistance:%s %s",
		fgGreen, reset, levelSummary(ind.SupportLevels, ind.Support),
		fgRed, reset, levelSummary(ind.ResistanceLevels, ind.Resistance))
}

func (t *Terminal) analysisLine(vm store.ViewModel) string {
	ind := vm.Indicators
	if ind.CurrentPrice == nil {
		return ""
	}
	return fmt.Sprintf(" 📈 Current: $%.2f  │  Pivots: %d  │  Support quality: %.0f  │  Resistance quality: %.0f",
		*ind.CurrentPrice, ind.TotalPivotsFound, ind.SupportQuality, ind.ResistanceQuality)
}

func (t *Terminal) tradeLines(vm store.ViewModel) []string {
	if len(vm.TradeLog) == 0 {
		return []string{dim + " no trades yet" + reset}
	}
	out := make([]string, 0, len(vm.TradeLog))
	// Most recent first on screen; storage stays chronological.
	for i := len(vm.TradeLog) - 1; i >= 0; i-- {
		tr := vm.TradeLog[i]
		color, icon := fgRed, "🔴"
		if tr.Action == "BUY" {
			color, icon = fgGreen, "🟢"
		}
		out = append(out, fmt.Sprintf(" %s  %s %s%-4s%s at $%s  │  RSI: %s  MACD: %s  │  %s USD, %s BTC",
			tr.Time, icon, color+bold, tr.Action, reset,
			tr.Price.StringFixed(2),
			model.FormatValue(tr.RSI, 2), model.FormatValue(tr.MACD, 4),
			tr.Wallet.FormatUSD(), tr.Wallet.FormatBTC()))
	}
	return out
}

func (t *Terminal) footer(vm store.ViewModel) string {
	return fmt.Sprintf(" %sdata points: %d  │  • price  ═ S/R  ┄ current  │  strength = cluster x10 + touches x5 + recency%s",
		dim, len(vm.PriceSeries), reset)
}

// levelSummary renders the detailed level list when present, falling back
// to the scalar value, then to the placeholder.
func levelSummary(levels []model.SRLevel, scalar *float64) string {
	if len(levels) > 0 {
		parts := make([]string, 0, len(levels))
		for _, lvl := range levels {
			parts = append(parts, fmt.Sprintf("$%.2f (s:%.0f t:%d)", lvl.Level, lvl.Strength, lvl.Touches))
		}
		return strings.Join(parts, "  ")
	}
	if scalar != nil {
		return fmt.Sprintf("$%.2f (basic)", *scalar)
	}
	return "..."
}

// colorChartRow colors line glyphs after rendering; the canvas itself
// carries no escape sequences.
func colorChartRow(row string) string {
	replacer := strings.NewReplacer(
		string(markPrice), fgBlue+string(markPrice)+reset,
		string(markLineCurrent), fgYellow+string(markLineCurrent)+reset,
	)
	return replacer.Replace(row)
}

// padLine pads a line to the terminal width, ignoring ANSI sequences when
// measuring.
func padLine(s string, width int) string {
	visible := visibleLen(s)
	if visible < width {
		return s + strings.Repeat(" ", width-visible)
	}
	return s
}

func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\033':
			inEscape = true
		default:
			n++
		}
	}
	return n
}
