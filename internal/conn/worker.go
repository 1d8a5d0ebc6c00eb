// internal/conn/worker.go
package conn

import (
	"context"
	"log"
	"time"

	"github.com/marcuz1234/mynd-firmware/internal/link"
	"github.com/marcuz1234/mynd-firmware/internal/status"
)

const (
	// mailboxCapacity bounds the message queue, mirroring the worker's
	// fixed-size mailbox. Senders never block; overflow drops and logs.
	mailboxCapacity = 8

	// idlePollInterval bounds how long the idle callback waits when the
	// mailbox is empty.
	idlePollInterval = 10 * time.Millisecond

	volumeStep = 5
	volumeMax  = 100
)

// Board is the slice of the board adapter the supervisor needs.
type Board interface {
	JackConnected() bool
	SetModulePower(on bool) error
	SetModuleReset(asserted bool) error
	CompanionFirmwareVersion() (string, error)
}

// Sink receives everything the supervisor pushes to the rest of the
// system: the resolved status, the streaming flag and forwarded
// settings.
type Sink interface {
	ConnectivityChanged(c status.Connectivity)
	StreamingChanged(active bool)
	BatteryLevel(percent uint8)
	ChargerStatus(s link.ChargerStatus)
	VolumeChanged(v uint8)
	BrightnessChanged(level uint8)
	BassChanged(level int8)
	TrebleChanged(level int8)
	EcoModeChanged(on bool)
	OffTimerChanged(minutes uint16)
	CuesEnabledChanged(on bool)

	// FactoryReset tells the rest of the system to wipe its own
	// persisted settings alongside the module's pairing data.
	FactoryReset()
}

// Options carries the tunable timings. Zero values are invalid; the
// config layer normalizes them before construction.
type Options struct {
	Settle            time.Duration
	IdleOffAfter      time.Duration
	PreOffDelay       time.Duration
	OffConfirmTimeout time.Duration
	CuesEnabled       bool
}

// Supervisor reconciles the module's connectivity signals into one
// published status and drives the dependent behaviors. All state below
// is touched only from the worker's context; Post is the sole
// cross-context entry point.
type Supervisor struct {
	opt       Options
	clock     Clock
	transport link.Transport
	board     Board
	sink      Sink
	store     *status.Store

	mailbox chan Message

	sig       signalSet
	published status.Connectivity

	// Debounce coalescer: any signal-affecting event sets pending and
	// restamps pendingAt; one resolve runs per settle window.
	pending   bool
	pendingAt time.Time

	cues *cueArbiter
	seq  *powerSequencer
	idle *idleMonitor

	devicePower        bool
	streaming          bool
	resumeAfterPairing bool
	volume             uint8
}

func New(opt Options, clock Clock, transport link.Transport, board Board, sink Sink, store *status.Store) *Supervisor {
	s := &Supervisor{
		opt:       opt,
		clock:     clock,
		transport: transport,
		board:     board,
		sink:      sink,
		store:     store,
		mailbox:   make(chan Message, mailboxCapacity),
		volume:    50,
	}

	s.cues = newCueArbiter(transport, opt.CuesEnabled, []cueLoop{
		{cue: link.CueBtPairing, active: func() bool {
			return s.sig.pairingState == link.PairingBluetooth
		}},
		{cue: link.CueSlavePairing, active: func() bool {
			return s.sig.pairingState == link.PairingChainSlave ||
				s.sig.chainState == link.ChainSlavePairing
		}},
	})

	s.seq = &powerSequencer{
		clock:             clock,
		transport:         transport,
		events:            s,
		board:             board,
		preOffDelay:       opt.PreOffDelay,
		offConfirmTimeout: opt.OffConfirmTimeout,
		audioSourceSeen:   func() bool { return s.sig.audioSource != nil },
		onPoweredOff:      s.onModulePoweredOff,
	}

	s.idle = &idleMonitor{threshold: opt.IdleOffAfter}

	return s
}

// Post enqueues a message for the worker. Safe for concurrent senders.
// A full mailbox drops the message; the sender finds out from the log.
func (s *Supervisor) Post(m Message) bool {
	select {
	case s.mailbox <- m:
		return true
	default:
		log.Printf("conn: mailbox full, dropping %T", m)
		return false
	}
}

// Status returns the published snapshot store.
func (s *Supervisor) Status() *status.Store {
	return s.store
}

// Run is the worker loop: messages strictly in arrival order, idle work
// whenever the mailbox stays empty past the poll interval.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-s.mailbox:
			s.handle(m)
		case <-time.After(idlePollInterval):
			s.onIdle()
		}
	}
}

// onIdle runs the periodic work: transport tick (events fire here), the
// arbiter's continuous scan, the debounced resolution, and the idle
// auto-off monitor.
func (s *Supervisor) onIdle() {
	s.transport.Tick()
	s.cues.scan(s.clock.Now())
	s.maybeResolve()
	s.idle.tick(s.clock.Now(), s.devicePower, s.sig.connectedDevices, func() error {
		return s.transport.SetPowerState(link.ModulePowerOff)
	})
}

// handle dispatches one mailbox message. Exhaustive over the Message
// set.
func (s *Supervisor) handle(m Message) {
	now := s.clock.Now()

	switch m := m.(type) {
	case SetPowerPhase:
		s.runPhase(m.Phase)

	case BatteryLevel:
		if err := s.transport.NotifyBatteryLevel(m.Percent); err != nil {
			log.Printf("conn: battery forward failed: %v", err)
		}
		s.sink.BatteryLevel(m.Percent)

	case ChargerState:
		if err := s.transport.NotifyChargerStatus(m.Status); err != nil {
			log.Printf("conn: charger forward failed: %v", err)
		}
		s.sink.ChargerStatus(m.Status)

	case SetChargeType:
		if err := s.transport.NotifyChargeType(m.Type); err != nil {
			log.Printf("conn: charge type forward failed: %v", err)
		}

	case SetColor:
		if err := s.transport.NotifyColor(m.Color); err != nil {
			log.Printf("conn: color forward failed: %v", err)
		}

	case ModuleReady:
		// The module has something to say; drain it now rather than on
		// the next idle cycle.
		s.transport.Tick()

	case WakeUp:
		if s.devicePower {
			log.Printf("conn: wake-up while already on, ignored")
			return
		}
		s.runPhase(PhaseOn)

	case VolumeUp:
		s.setVolume(min(int(s.volume)+volumeStep, volumeMax))

	case VolumeDown:
		s.setVolume(max(int(s.volume)-volumeStep, 0))

	case StartPairing:
		if err := s.transport.StartPairing(); err != nil {
			log.Printf("conn: start pairing failed: %v", err)
		}

	case StartChainPairing:
		if err := s.transport.StartChainPairing(); err != nil {
			log.Printf("conn: start chain pairing failed: %v", err)
		}

	case StopPairing:
		if err := s.transport.StopPairing(m.Reason); err != nil {
			log.Printf("conn: stop pairing failed: %v", err)
		}
		if s.sig.chainState != link.ChainDisabled {
			if err := s.transport.ExitChain(m.Reason); err != nil {
				log.Printf("conn: chain exit failed: %v", err)
			}
		}

	case AuxConnectionChanged:
		if err := s.transport.NotifyAuxConnected(m.Connected); err != nil {
			log.Printf("conn: aux forward failed: %v", err)
		}
		s.noteSignalChange()

	case UsbConnectionChanged:
		if err := s.transport.NotifyUsbConnected(m.Connected); err != nil {
			log.Printf("conn: usb forward failed: %v", err)
		}

	case EnterUpdateMode:
		if err := s.transport.EnterUpdateMode(); err != nil {
			log.Printf("conn: update mode request failed: %v", err)
		}

	case ClearPairedDevices:
		if err := s.transport.ClearDeviceList(); err != nil {
			log.Printf("conn: device list clear failed: %v", err)
		}

	case FactoryReset:
		log.Printf("conn: factory reset")
		if err := s.transport.ClearDeviceList(); err != nil {
			log.Printf("conn: device list clear failed: %v", err)
		}
		if s.sig.chainState != link.ChainDisabled {
			if err := s.transport.ExitChain(link.StopReasonUser); err != nil {
				log.Printf("conn: chain exit failed: %v", err)
			}
		}
		s.sink.FactoryReset()

	case SetBrightness:
		s.sink.BrightnessChanged(m.Level)

	case SetBass:
		s.sink.BassChanged(m.Level)

	case SetTreble:
		s.sink.TrebleChanged(m.Level)

	case SetEcoMode:
		s.sink.EcoModeChanged(m.Enabled)

	case SetOffTimer:
		s.sink.OffTimerChanged(m.Minutes)

	case PlayPause:
		if err := s.transport.PlayPause(); err != nil {
			log.Printf("conn: play/pause failed: %v", err)
		}

	case NextTrack:
		if err := s.transport.NextTrack(); err != nil {
			log.Printf("conn: next track failed: %v", err)
		}

	case PreviousTrack:
		if err := s.transport.PreviousTrack(); err != nil {
			log.Printf("conn: previous track failed: %v", err)
		}

	case PlaySoundIcon:
		s.cues.play(m.Icon, m.Repeat, now)

	case StopSoundIcon:
		s.cues.stop(m.Icon)

	case SetCuesEnabled:
		s.cues.setEnabled(m.Enabled)
		s.sink.CuesEnabledChanged(m.Enabled)

	default:
		log.Printf("conn: unhandled message %T", m)
	}
}

// onModulePoweredOff wipes everything the module ever reported. The
// next session starts clean: the boot cue rearms, the On phase waits
// for a fresh audio-source report, and the resolver gate closes until
// one arrives.
func (s *Supervisor) onModulePoweredOff() {
	s.sig = signalSet{}
	s.cues.resetGuard()
	if s.streaming {
		s.streaming = false
		s.store.SetStreamingActive(false)
		s.sink.StreamingChanged(false)
	}
}

// runPhase executes a power transition synchronously and keeps the
// device-power gate in step with it.
func (s *Supervisor) runPhase(phase PowerPhase) {
	s.seq.run(phase)
	switch phase {
	case PhaseOn:
		s.devicePower = true
		s.idle.reset()
	case PhaseOff:
		s.devicePower = false
	}
}

func (s *Supervisor) setVolume(v int) {
	s.volume = uint8(v)
	if err := s.transport.SetAbsoluteVolume(s.volume); err != nil {
		log.Printf("conn: volume sync failed: %v", err)
	}
	s.sink.VolumeChanged(s.volume)
}
