// Package poller runs the two refresh loops that feed the view model.
//
// The market loop re-fetches price history and indicators whenever the
// selection changes. The telemetry loop polls bot status, balance, and the
// trade log on a fixed interval for the life of the dashboard. The loops
// are independent; each one applies everything a single iteration produced
// in one atomic store update.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/web3guy0/algodash/internal/model"
	"github.com/web3guy0/algodash/internal/store"
	"github.com/web3guy0/algodash/internal/watch"
)

// TradeLogLimit is how many trades the view model retains for display.
const TradeLogLimit = 10

// Gateway is the slice of the API client the poller needs.
type Gateway interface {
	PriceHistory(ctx context.Context, symbol string, tr model.TimeRange) ([]model.PricePoint, error)
	Indicators(ctx context.Context, symbol string, tr model.TimeRange) (model.Indicators, error)
	Status(ctx context.Context) (model.BotStatus, int, error)
	Balance(ctx context.Context) (model.Balance, error)
	TradeLog(ctx context.Context) ([]model.TradeLogEntry, error)
}

// StatusSink receives every authoritative bot status the telemetry loop
// observes (the control state machine).
type StatusSink interface {
	ReconcileServer(status model.BotStatus)
}

// Poller owns the two loops and their lifecycle.
type Poller struct {
	gw       Gateway
	st       *store.Store
	sink     StatusSink
	changes  <-chan watch.Change
	interval time.Duration

	// Optional observers, wired before Start. Both are invoked from the
	// telemetry goroutine after a successful fetch.
	onTradeLog func([]model.TradeLogEntry)
	onStatus   func(model.BotStatus)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a poller. interval is the telemetry cadence (5s in
// production, shorter in tests).
func New(gw Gateway, st *store.Store, sink StatusSink, changes <-chan watch.Change, interval time.Duration) *Poller {
	return &Poller{
		gw:       gw,
		st:       st,
		sink:     sink,
		changes:  changes,
		interval: interval,
	}
}

// SetTradeLogCallback registers an observer for every successful trade-log
// fetch (full, untruncated server order). Must be called before Start.
func (p *Poller) SetTradeLogCallback(fn func([]model.TradeLogEntry)) {
	p.onTradeLog = fn
}

// SetStatusCallback registers an observer for every successful status
// fetch. Must be called before Start.
func (p *Poller) SetStatusCallback(fn func(model.BotStatus)) {
	p.onStatus = fn
}

// Start launches both loops.
func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.wg.Add(2)
	go p.marketLoop(ctx)
	go p.telemetryLoop(ctx)

	log.Info().Dur("interval", p.interval).Msg("📡 poller started")
}

// Stop cancels both loops and waits for them to finish. No fetch is issued
// after Stop returns.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	log.Info().Msg("poller stopped")
}

func (p *Poller) marketLoop(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-p.changes:
			p.refreshMarket(ctx, c)
		}
	}
}

// refreshMarket runs one market iteration: mandatory price history first,
// then best-effort indicators. A price failure raises the error banner and
// leaves the previous series visible; an indicator failure is logged and
// otherwise invisible. Both outcomes clear the loading flag.
func (p *Poller) refreshMarket(ctx context.Context, c watch.Change) {
	p.st.Update(func(vm *store.ViewModel) {
		vm.Loading = true
		vm.Err = ""
	})

	series, err := p.gw.PriceHistory(ctx, c.Symbol, c.Range)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Str("symbol", c.Symbol).Msg("price history fetch failed")
		p.st.Update(func(vm *store.ViewModel) {
			vm.Loading = false
			vm.Err = err.Error()
		})
		return
	}

	ind, indErr := p.gw.Indicators(ctx, c.Symbol, c.Range)
	if ctx.Err() != nil {
		return
	}
	if indErr != nil {
		log.Debug().Err(indErr).Str("symbol", c.Symbol).Msg("indicators fetch failed, keeping previous snapshot")
	}

	p.st.Update(func(vm *store.ViewModel) {
		vm.PriceSeries = series
		if indErr == nil {
			vm.Indicators = ind
		}
		vm.Loading = false
		vm.Err = ""
	})
	log.Debug().Str("symbol", c.Symbol).Int("points", len(series)).Msg("📈 market data refreshed")
}

func (p *Poller) telemetryLoop(ctx context.Context) {
	defer p.wg.Done()

	p.pollTelemetry(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollTelemetry(ctx)
		}
	}
}

// pollTelemetry runs one telemetry tick. The three fetches run
// concurrently and fail independently: a dead endpoint only freezes its
// own panel. lastUpdate is stamped once all three attempts settle.
func (p *Poller) pollTelemetry(ctx context.Context) {
	var (
		wg sync.WaitGroup

		status    model.BotStatus
		trades    int
		statusErr error

		bal    model.Balance
		balErr error

		entries []model.TradeLogEntry
		logErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		status, trades, statusErr = p.gw.Status(ctx)
	}()
	go func() {
		defer wg.Done()
		bal, balErr = p.gw.Balance(ctx)
	}()
	go func() {
		defer wg.Done()
		entries, logErr = p.gw.TradeLog(ctx)
	}()
	wg.Wait()

	if ctx.Err() != nil {
		return
	}

	if statusErr != nil {
		log.Debug().Err(statusErr).Msg("status fetch failed")
	}
	if balErr != nil {
		log.Debug().Err(balErr).Msg("balance fetch failed")
	}
	if logErr != nil {
		log.Debug().Err(logErr).Msg("trade log fetch failed")
	}

	p.st.Update(func(vm *store.ViewModel) {
		if statusErr == nil {
			vm.BotStatus = status
			vm.TradeCount = trades
		}
		if balErr == nil {
			vm.Balance = bal
		}
		if logErr == nil {
			vm.TradeLog = truncate(entries, TradeLogLimit)
		}
		vm.LastUpdate = time.Now()
	})

	if statusErr == nil {
		p.sink.ReconcileServer(status)
		if p.onStatus != nil {
			p.onStatus(status)
		}
	}
	if logErr == nil && p.onTradeLog != nil {
		p.onTradeLog(entries)
	}
}

// truncate keeps the most recent n entries without reordering them.
func truncate(entries []model.TradeLogEntry, n int) []model.TradeLogEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
