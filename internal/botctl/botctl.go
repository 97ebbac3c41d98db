// Package botctl tracks the remote bot's run state and drives start/stop
// commands against it.
//
// A successful command flips the local state optimistically, before the
// next telemetry poll confirms it. Every server-reported status overwrites
// the local value regardless of origin, so an optimistic flip the server
// rejected can never get stuck.
package botctl

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/web3guy0/algodash/internal/model"
	"github.com/web3guy0/algodash/internal/store"
)

// Origin records whether the current status came from the server or from
// an optimistic local transition awaiting confirmation.
type Origin string

const (
	Confirmed  Origin = "confirmed"
	Optimistic Origin = "optimistic"
)

// CommandGateway is the slice of the API client the machine needs.
type CommandGateway interface {
	StartStrategy(ctx context.Context) error
	StopStrategy(ctx context.Context) error
}

// Machine is the bot-control state machine.
type Machine struct {
	mu     sync.Mutex
	status model.BotStatus
	origin Origin

	gw CommandGateway
	st *store.Store
}

// New creates a machine starting in the idle state.
func New(gw CommandGateway, st *store.Store) *Machine {
	return &Machine{
		status: model.BotIdle,
		origin: Confirmed,
		gw:     gw,
		st:     st,
	}
}

// Status returns the current state and where it came from.
func (m *Machine) Status() (model.BotStatus, Origin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.origin
}

// CanStart reports whether the start control should be enabled.
func (m *Machine) CanStart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status != model.BotRunning
}

// CanStop reports whether the stop control should be enabled.
func (m *Machine) CanStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status != model.BotIdle
}

// Start sends the start command. On success the state flips to running
// immediately; on failure the state is unchanged and the attempt is only
// logged, never surfaced as a banner.
func (m *Machine) Start(ctx context.Context) {
	if err := m.gw.StartStrategy(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to start bot")
		return
	}
	m.transition(model.BotRunning)
}

// Stop sends the stop command, symmetric to Start.
func (m *Machine) Stop(ctx context.Context) {
	if err := m.gw.StopStrategy(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to stop bot")
		return
	}
	m.transition(model.BotIdle)
}

// ReconcileServer applies an authoritative status from a telemetry poll.
// It always wins, even over a pending optimistic transition.
func (m *Machine) ReconcileServer(status model.BotStatus) {
	m.mu.Lock()
	overridden := m.origin == Optimistic && m.status != status
	m.status = status
	m.origin = Confirmed
	m.mu.Unlock()

	if overridden {
		log.Debug().Str("status", string(status)).Msg("server overrode optimistic bot status")
	}
}

func (m *Machine) transition(status model.BotStatus) {
	m.mu.Lock()
	m.status = status
	m.origin = Optimistic
	m.mu.Unlock()

	m.st.SetBotStatus(status)
	log.Info().Str("status", string(status)).Msg("🤖 bot command accepted")
}
