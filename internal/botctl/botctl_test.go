package botctl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/web3guy0/algodash/internal/model"
	"github.com/web3guy0/algodash/internal/store"
)

type fakeGateway struct {
	startErr error
	stopErr  error
	starts   int
	stops    int
}

func (g *fakeGateway) StartStrategy(ctx context.Context) error {
	g.starts++
	return g.startErr
}

func (g *fakeGateway) StopStrategy(ctx context.Context) error {
	g.stops++
	return g.stopErr
}

func TestStartIsOptimistic(t *testing.T) {
	assertion := assert.New(t)

	gw := &fakeGateway{}
	st := store.New()
	m := New(gw, st)

	m.Start(context.Background())

	// Running immediately, before any telemetry poll confirms it.
	status, origin := m.Status()
	assertion.Equal(model.BotRunning, status)
	assertion.Equal(Optimistic, origin)
	assertion.Equal(model.BotRunning, st.Snapshot().BotStatus)
	assertion.Equal(1, gw.starts)
}

func TestStartFailureKeepsIdle(t *testing.T) {
	assertion := assert.New(t)

	gw := &fakeGateway{startErr: errors.New("503")}
	st := store.New()
	m := New(gw, st)

	m.Start(context.Background())

	status, origin := m.Status()
	assertion.Equal(model.BotIdle, status)
	assertion.Equal(Confirmed, origin)
	assertion.Equal(model.BotIdle, st.Snapshot().BotStatus)
}

func TestStopIsOptimistic(t *testing.T) {
	assertion := assert.New(t)

	gw := &fakeGateway{}
	m := New(gw, store.New())
	m.ReconcileServer(model.BotRunning)

	m.Stop(context.Background())

	status, origin := m.Status()
	assertion.Equal(model.BotIdle, status)
	assertion.Equal(Optimistic, origin)
	assertion.Equal(1, gw.stops)
}

func TestServerOverridesOptimisticState(t *testing.T) {
	assertion := assert.New(t)

	m := New(&fakeGateway{}, store.New())
	m.Start(context.Background())

	// The server rejected the start: the next authoritative poll wins.
	m.ReconcileServer(model.BotIdle)

	status, origin := m.Status()
	assertion.Equal(model.BotIdle, status)
	assertion.Equal(Confirmed, origin)
}

func TestReconcileConfirmsMatchingOptimisticState(t *testing.T) {
	assertion := assert.New(t)

	m := New(&fakeGateway{}, store.New())
	m.Start(context.Background())
	m.ReconcileServer(model.BotRunning)

	status, origin := m.Status()
	assertion.Equal(model.BotRunning, status)
	assertion.Equal(Confirmed, origin)
}

func TestControlGating(t *testing.T) {
	assertion := assert.New(t)

	m := New(&fakeGateway{}, store.New())
	assertion.True(m.CanStart())
	assertion.False(m.CanStop())

	m.Start(context.Background())
	assertion.False(m.CanStart())
	assertion.True(m.CanStop())
}
