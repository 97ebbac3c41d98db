package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/web3guy0/algodash/internal/model"
)

func f(v float64) *float64 { return &v }

func TestSetErrorKeepsData(t *testing.T) {
	assertion := assert.New(t)

	st := New()
	series := []model.PricePoint{{Time: "10:00:00", Price: f(100)}}
	st.SetPriceSeries(series)
	st.SetIndicators(model.Indicators{RSI: f(55)})

	st.SetError("price data fetch failed: 502")

	vm := st.Snapshot()
	assertion.Equal("price data fetch failed: 502", vm.Err)
	assertion.Len(vm.PriceSeries, 1)
	assertion.NotNil(vm.Indicators.RSI)
}

func TestSetDataKeepsError(t *testing.T) {
	assertion := assert.New(t)

	st := New()
	st.SetError("boom")
	st.SetBalance(model.Balance{})

	assertion.Equal("boom", st.Snapshot().Err)
}

func TestClearError(t *testing.T) {
	assertion := assert.New(t)

	st := New()
	st.SetError("boom")
	st.ClearError()
	assertion.Empty(st.Snapshot().Err)
}

func TestUpdateAppliesBatchAtomically(t *testing.T) {
	assertion := assert.New(t)

	st := New()
	now := time.Now()
	st.Update(func(vm *ViewModel) {
		vm.BotStatus = model.BotRunning
		vm.TradeCount = 7
		vm.LastUpdate = now
	})

	vm := st.Snapshot()
	assertion.Equal(model.BotRunning, vm.BotStatus)
	assertion.Equal(7, vm.TradeCount)
	assertion.Equal(now, vm.LastUpdate)
}

func TestChangesCoalesce(t *testing.T) {
	assertion := assert.New(t)

	st := New()
	st.SetLoading(true)
	st.SetLoading(false)
	st.SetError("x")

	// Three mutations, one pending signal.
	select {
	case <-st.Changes():
	default:
		t.Fatal("expected a pending change signal")
	}
	select {
	case <-st.Changes():
		t.Fatal("expected signals to coalesce into one")
	default:
	}

	// A later mutation raises the signal again.
	st.ClearError()
	select {
	case <-st.Changes():
	default:
		t.Fatal("expected a new change signal")
	}
	assertion.Empty(st.Snapshot().Err)
}

func TestSnapshotIsCopy(t *testing.T) {
	assertion := assert.New(t)

	st := New()
	st.SetBotStatus(model.BotRunning)

	vm := st.Snapshot()
	vm.BotStatus = model.BotIdle

	assertion.Equal(model.BotRunning, st.Snapshot().BotStatus)
}

func TestDefaultsStartIdleAndEmpty(t *testing.T) {
	assertion := assert.New(t)

	vm := New().Snapshot()
	assertion.Equal(model.BotIdle, vm.BotStatus)
	assertion.Empty(vm.PriceSeries)
	assertion.Empty(vm.Err)
	assertion.True(vm.LastUpdate.IsZero())
}
