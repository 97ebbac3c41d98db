// Package store owns the dashboard's view model.
//
// The Store is the single source of truth for everything the renderer
// shows. All mutation goes through setters (or Update for a batch), so a
// failing data source can never blank out state owned by another source,
// and one poll iteration's results land atomically: readers see either the
// whole batch or none of it.
package store

import (
	"sync"
	"time"

	"github.com/web3guy0/algodash/internal/model"
)

// ViewModel is the aggregate render state. Slices handed out via Snapshot
// are shared; treat them as immutable once set.
type ViewModel struct {
	Watchlist      []string
	SelectedSymbol string
	Range          model.TimeRange

	PriceSeries []model.PricePoint
	Indicators  model.Indicators

	BotStatus  model.BotStatus
	TradeCount int
	Balance    model.Balance
	TradeLog   []model.TradeLogEntry

	Loading    bool
	Err        string    // "" means no error banner
	LastUpdate time.Time // zero until the first telemetry pass completes
}

// Store guards the ViewModel and publishes change notifications.
type Store struct {
	mu      sync.RWMutex
	vm      ViewModel
	changes chan struct{}
}

// New creates an empty store. Watchlist and selection are seeded by the
// watchlist manager at startup.
func New() *Store {
	return &Store{
		vm:      ViewModel{BotStatus: model.BotIdle},
		changes: make(chan struct{}, 1),
	}
}

// Snapshot returns a copy of the current view model. The copy is shallow;
// contained slices must not be mutated by callers.
func (s *Store) Snapshot() ViewModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vm
}

// Update applies fn to the view model under the write lock and schedules
// one re-render. Use it to land everything one poll iteration produced as
// a single visible transition.
func (s *Store) Update(fn func(*ViewModel)) {
	s.mu.Lock()
	fn(&s.vm)
	s.mu.Unlock()
	s.notify()
}

// Changes returns a coalescing notification channel: any number of setter
// calls between renders collapse into a single pending signal.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Named setters. Each touches exactly one slice of the view model.

func (s *Store) SetSelection(watchlist []string, selected string, tr model.TimeRange) {
	s.Update(func(vm *ViewModel) {
		vm.Watchlist = watchlist
		vm.SelectedSymbol = selected
		vm.Range = tr
	})
}

func (s *Store) SetPriceSeries(series []model.PricePoint) {
	s.Update(func(vm *ViewModel) { vm.PriceSeries = series })
}

func (s *Store) SetIndicators(ind model.Indicators) {
	s.Update(func(vm *ViewModel) { vm.Indicators = ind })
}

func (s *Store) SetBotStatus(status model.BotStatus) {
	s.Update(func(vm *ViewModel) { vm.BotStatus = status })
}

func (s *Store) SetBalance(bal model.Balance) {
	s.Update(func(vm *ViewModel) { vm.Balance = bal })
}

func (s *Store) SetTradeLog(entries []model.TradeLogEntry) {
	s.Update(func(vm *ViewModel) { vm.TradeLog = entries })
}

func (s *Store) SetLoading(loading bool) {
	s.Update(func(vm *ViewModel) { vm.Loading = loading })
}

// SetError sets the error banner. Price series and indicators are left
// untouched; stale data stays visible underneath the banner.
func (s *Store) SetError(msg string) {
	s.Update(func(vm *ViewModel) { vm.Err = msg })
}

func (s *Store) ClearError() {
	s.Update(func(vm *ViewModel) { vm.Err = "" })
}

func (s *Store) SetLastUpdate(t time.Time) {
	s.Update(func(vm *ViewModel) { vm.LastUpdate = t })
}
