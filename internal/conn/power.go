// internal/conn/power.go
package conn

import (
	"log"
	"time"

	"github.com/marcuz1234/mynd-firmware/internal/link"
)

// PowerPhase is a requested wireless-module power transition.
type PowerPhase uint8

const (
	PhaseOn PowerPhase = iota
	PhasePreOff
	PhaseOff
)

func (p PowerPhase) String() string {
	switch p {
	case PhaseOn:
		return "on"
	case PhasePreOff:
		return "pre-off"
	case PhaseOff:
		return "off"
	}
	return "unknown"
}

const (
	// powerPollInterval paces every wait loop in the sequencer.
	powerPollInterval = 50 * time.Millisecond

	// onSettleDelay sits between module readiness and the power-on
	// request.
	onSettleDelay = 100 * time.Millisecond

	// blockedLogInterval throttles progress logging while a wait loop
	// holds the worker.
	blockedLogInterval = 5 * time.Second
)

// powerBoard is the slice of the board the sequencer drives.
type powerBoard interface {
	SetModulePower(on bool) error
	SetModuleReset(asserted bool) error
	CompanionFirmwareVersion() (string, error)
}

// powerSequencer drives the module through power transitions. Phases run
// synchronously inside message handling, so they can never interleave:
// the worker is single and not preemptible. The blocked marker exists so
// the head-of-line-blocking trade-off is observable from outside.
type powerSequencer struct {
	clock     Clock
	transport link.Transport
	events    link.EventSink
	board     powerBoard

	preOffDelay       time.Duration
	offConfirmTimeout time.Duration

	blocked      PowerPhase
	blockedValid bool

	offConfirmed bool

	// audioSourceSeen reports whether the first audio-source
	// notification has arrived since init.
	audioSourceSeen func() bool

	// onPoweredOff runs after the module is fully shut down.
	onPoweredOff func()
}

// confirmOff records the module's power-off confirmation. Called from
// the PowerStateChanged event, which fires inside transport.Tick, i.e.
// inside the Off wait loop itself.
func (p *powerSequencer) confirmOff() {
	p.offConfirmed = true
}

// BlockedPhase reports the phase currently holding the worker, if any.
func (p *powerSequencer) BlockedPhase() (PowerPhase, bool) {
	return p.blocked, p.blockedValid
}

func (p *powerSequencer) run(phase PowerPhase) {
	p.blocked = phase
	p.blockedValid = true
	defer func() { p.blockedValid = false }()

	log.Printf("power: phase %s begin", phase)
	switch phase {
	case PhaseOn:
		p.runOn()
	case PhasePreOff:
		p.runPreOff()
	case PhaseOff:
		p.runOff()
	}
	log.Printf("power: phase %s done", phase)
}

// runPreOff only waits: the audible power-down cue must finish before
// the caller mutes the amplifier. No transport interaction.
func (p *powerSequencer) runPreOff() {
	p.clock.Sleep(p.preOffDelay)
}

// runOff asks the module to power down, waits a bounded time for the
// confirmation event, then cuts it off regardless. Best effort, no
// retry.
func (p *powerSequencer) runOff() {
	p.offConfirmed = false

	if err := p.transport.SetPowerState(link.ModulePowerOff); err != nil {
		log.Printf("power: off request failed: %v", err)
	}

	deadline := p.clock.Now().Add(p.offConfirmTimeout)
	for !p.offConfirmed && p.clock.Now().Before(deadline) {
		p.transport.Tick()
		p.clock.Sleep(powerPollInterval)
	}
	if !p.offConfirmed {
		log.Printf("power: off confirmation timed out after %s, proceeding", p.offConfirmTimeout)
	}

	if err := p.transport.Deinit(); err != nil {
		log.Printf("power: transport deinit failed: %v", err)
	}
	if err := p.board.SetModuleReset(true); err != nil {
		log.Printf("power: reset assert failed: %v", err)
	}
	if err := p.board.SetModulePower(false); err != nil {
		log.Printf("power: power line drop failed: %v", err)
	}

	if p.onPoweredOff != nil {
		p.onPoweredOff()
	}
}

// runOn raises the module, reinitializes the transport and waits for it
// to come alive. The readiness and first-audio-source waits have no
// timeout: a dead module stalls the worker, which is the inherited
// contract. Progress lines make the stall visible.
func (p *powerSequencer) runOn() {
	if err := p.board.SetModulePower(true); err != nil {
		log.Printf("power: power line raise failed: %v", err)
	}
	if err := p.board.SetModuleReset(false); err != nil {
		log.Printf("power: reset release failed: %v", err)
	}

	if err := p.transport.Init(p.events); err != nil {
		log.Printf("power: transport init failed: %v", err)
	}

	p.waitFor("module ready", p.transport.IsReady)

	if v, err := p.transport.FirmwareVersion(); err != nil {
		log.Printf("power: module version query failed: %v", err)
	} else {
		log.Printf("power: module firmware %s", v)
	}
	if v, err := p.board.CompanionFirmwareVersion(); err != nil {
		log.Printf("power: companion version query failed: %v", err)
	} else {
		log.Printf("power: companion firmware %s", v)
	}

	p.clock.Sleep(onSettleDelay)

	if err := p.transport.SetPowerState(link.ModulePowerOn); err != nil {
		log.Printf("power: on request failed: %v", err)
	}

	p.waitFor("first audio source", p.audioSourceSeen)
}

// waitFor polls the transport until cond holds. Unbounded.
func (p *powerSequencer) waitFor(what string, cond func() bool) {
	started := p.clock.Now()
	lastLog := started
	for !cond() {
		p.transport.Tick()
		p.clock.Sleep(powerPollInterval)

		now := p.clock.Now()
		if now.Sub(lastLog) >= blockedLogInterval {
			log.Printf("power: still waiting for %s (%s)", what, now.Sub(started).Round(time.Second))
			lastLog = now
		}
	}
}
