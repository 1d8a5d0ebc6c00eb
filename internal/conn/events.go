// internal/conn/events.go
package conn

import (
	"log"

	"github.com/marcuz1234/mynd-firmware/internal/link"
)

// The Supervisor is the transport's event sink. Every callback fires
// inside transport.Tick, which only runs from the worker context, so no
// locking is needed here.

func (s *Supervisor) SystemReady() {
	log.Printf("conn: module ready")
	// The startup cue plays exactly once per power cycle; the arbiter's
	// guard enforces that.
	s.cues.play(link.CuePowerUp, false, s.clock.Now())
}

func (s *Supervisor) PowerStateChanged(p link.ModulePower) {
	log.Printf("conn: module power state %s", p)
	if p == link.ModulePowerOff {
		s.seq.confirmOff()
	}
}

func (s *Supervisor) AudioSourceChanged(src link.AudioSource) {
	s.sig.audioSource = &src
	s.noteSignalChange()
}

func (s *Supervisor) VolumeChanged(v uint8) {
	s.volume = v
	s.sink.VolumeChanged(v)
}

func (s *Supervisor) StreamStateChanged(st link.StreamState) {
	s.streaming = st == link.StreamActive
	s.store.SetStreamingActive(s.streaming)
	s.sink.StreamingChanged(s.streaming)
}

func (s *Supervisor) LinkConnected() {
	if !s.sig.deviceConnected() {
		return
	}
	s.cues.play(link.CueDeviceConnected, false, s.clock.Now())
	s.noteSignalChange()
}

func (s *Supervisor) LinkDisconnected() {
	if !s.sig.deviceDisconnected() {
		return
	}
	s.noteSignalChange()
}

func (s *Supervisor) PairingStateChanged(p link.PairingState) {
	// Latch the stream so playback resumes when pairing ends.
	if p != link.PairingIdle && s.sig.pairingState == link.PairingIdle && s.streaming {
		s.resumeAfterPairing = true
	}
	s.sig.pairingState = p
	s.noteSignalChange()
}

func (s *Supervisor) ChainStateChanged(c link.ChainState) {
	if c == link.ChainSlavePairing && s.sig.chainState != link.ChainSlavePairing && s.streaming {
		s.resumeAfterPairing = true
	}
	s.sig.chainState = c
	s.noteSignalChange()
}

func (s *Supervisor) UsbConnectedChanged(connected bool) {
	s.sig.usbSourceAvailable = connected
	s.noteSignalChange()
}

func (s *Supervisor) UpdateModeChanged(active bool) {
	s.sig.dfuActive = active
	s.noteSignalChange()
}

// noteSignalChange marks the signal set dirty and restamps the settle
// window: resolution runs once the burst quiets down.
func (s *Supervisor) noteSignalChange() {
	s.pending = true
	s.pendingAt = s.clock.Now()
}

// maybeResolve is the debounce coalescer. It runs the resolver at most
// once per settle window, and not at all while the boot-cue hold or the
// resolver's own gates are in effect. Pending stays set across a gated
// attempt so the resolve happens as soon as the gate opens.
func (s *Supervisor) maybeResolve() {
	if !s.pending {
		return
	}
	now := s.clock.Now()
	if now.Sub(s.pendingAt) <= s.opt.Settle {
		return
	}
	if s.cues.holdsResolve(now) {
		return
	}
	// Resolver gates: an audio source must have been observed, and the
	// boot cue must be out of the way unless feedback is off entirely.
	if s.sig.audioSource == nil {
		return
	}
	if s.cues.enabled && !s.cues.bootCueFinished(now) {
		return
	}

	s.pending = false
	s.resolveAndPublish()
}

// resolveAndPublish recomputes the status and runs the downstream
// effects. The chain hysteresis keeps unrelated signal churn from
// replaying the chain-entry cue.
func (s *Supervisor) resolveAndPublish() {
	now := s.clock.Now()
	jack := s.board.JackConnected()
	next := resolve(&s.sig, jack)

	if next == s.published && next.IsChain() {
		return
	}

	prev := s.published
	s.published = next
	s.store.SetConnectivity(next)
	s.sink.ConnectivityChanged(next)
	log.Printf("conn: status %s -> %s", prev, next)

	s.cues.statusChanged(prev, next, now)

	if s.resumeAfterPairing && !next.IsPairing() {
		s.resumeAfterPairing = false
		log.Printf("conn: resuming playback after pairing")
		if err := s.transport.PlayPause(); err != nil {
			log.Printf("conn: playback resume failed: %v", err)
		}
	}
}
