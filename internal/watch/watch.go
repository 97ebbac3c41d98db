// Package watch maintains the symbol watchlist and the active time range.
//
// Every effective change (new symbol selected, range switched) emits a
// Change event that drives the market-data refresh. The watchlist is never
// empty: it is seeded with defaults at startup and symbols are only added,
// never removed.
package watch

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/web3guy0/algodash/internal/model"
	"github.com/web3guy0/algodash/internal/store"
)

// DefaultSymbols seeds the watchlist when no configuration is given.
var DefaultSymbols = []string{"BTC-USD", "AAPL", "ETH-USD"}

// Change is the snapshot of the selection that a market refresh should
// fetch. Carrying the values (instead of re-reading current state) keeps a
// slow fetch pinned to the selection that triggered it.
type Change struct {
	Symbol string
	Range  model.TimeRange
}

// Manager owns the watchlist, the selected symbol, and the time range.
type Manager struct {
	mu       sync.Mutex
	symbols  []string
	selected string
	rng      model.TimeRange

	st      *store.Store
	changes chan Change
}

// NewManager seeds the watchlist and emits the initial Change so the first
// market fetch runs as soon as the poller starts.
func NewManager(seed []string, st *store.Store) *Manager {
	symbols := make([]string, 0, len(seed))
	for _, s := range seed {
		if n := Normalize(s); n != "" && !contains(symbols, n) {
			symbols = append(symbols, n)
		}
	}
	if len(symbols) == 0 {
		symbols = append(symbols, DefaultSymbols...)
	}

	m := &Manager{
		symbols:  symbols,
		selected: symbols[0],
		rng:      model.TimeRanges[0],
		st:       st,
		changes:  make(chan Change, 1),
	}
	m.publish()
	m.emit()
	return m
}

// Changes returns the market refresh trigger channel. Rapid successive
// changes coalesce: only the latest pending Change is kept.
func (m *Manager) Changes() <-chan Change {
	return m.changes
}

// Add normalizes the input, appends it to the watchlist, and selects it.
// Empty input and duplicates are no-ops. Returns the normalized symbol and
// whether the watchlist changed.
func (m *Manager) Add(input string) (string, bool) {
	sym := Normalize(input)
	if sym == "" {
		return "", false
	}

	m.mu.Lock()
	if contains(m.symbols, sym) {
		m.mu.Unlock()
		return sym, false
	}
	m.symbols = append(m.symbols, sym)
	m.selected = sym
	m.mu.Unlock()

	log.Info().Str("symbol", sym).Msg("➕ symbol added to watchlist")
	m.publish()
	m.emit()
	return sym, true
}

// Select switches the selected symbol. Selecting an unknown symbol or the
// one already selected is a no-op.
func (m *Manager) Select(sym string) bool {
	sym = Normalize(sym)

	m.mu.Lock()
	if sym == m.selected || !contains(m.symbols, sym) {
		m.mu.Unlock()
		return false
	}
	m.selected = sym
	m.mu.Unlock()

	m.publish()
	m.emit()
	return true
}

// SetRange switches the active time range preset.
func (m *Manager) SetRange(tr model.TimeRange) bool {
	m.mu.Lock()
	if tr == m.rng {
		m.mu.Unlock()
		return false
	}
	m.rng = tr
	m.mu.Unlock()

	m.publish()
	m.emit()
	return true
}

// Selection returns the currently selected symbol and time range.
func (m *Manager) Selection() (string, model.TimeRange) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected, m.rng
}

// Symbols returns a copy of the watchlist in insertion order.
func (m *Manager) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.symbols))
	copy(out, m.symbols)
	return out
}

// Normalize trims whitespace and uppercases a symbol.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// publish mirrors the selection into the view model for rendering. The
// watchlist, selection, and range are captured under one lock so a
// concurrent mutation can never mirror a mixed snapshot.
func (m *Manager) publish() {
	m.mu.Lock()
	symbols := make([]string, len(m.symbols))
	copy(symbols, m.symbols)
	selected, rng := m.selected, m.rng
	m.mu.Unlock()

	m.st.SetSelection(symbols, selected, rng)
}

// emit queues a Change, replacing any not-yet-consumed one.
func (m *Manager) emit() {
	sym, tr := m.Selection()
	c := Change{Symbol: sym, Range: tr}
	for {
		select {
		case m.changes <- c:
			return
		default:
			select {
			case <-m.changes:
			default:
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
