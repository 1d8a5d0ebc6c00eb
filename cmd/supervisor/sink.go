// cmd/supervisor/sink.go
package main

import (
	"log"

	"github.com/marcuz1234/mynd-firmware/internal/board"
	"github.com/marcuz1234/mynd-firmware/internal/conn"
	"github.com/marcuz1234/mynd-firmware/internal/link"
	"github.com/marcuz1234/mynd-firmware/internal/status"
)

// systemSink receives the supervisor's outbound effects. On this unit
// the interesting part is driving the analog path and the amplifier from
// the resolved status; everything else is observability.
type systemSink struct {
	board *board.Board
}

var _ conn.Sink = (*systemSink)(nil)

func (s *systemSink) ConnectivityChanged(c status.Connectivity) {
	log.Printf("system: connectivity %s", c)

	path := board.PathWireless
	if c == status.AuxConnected {
		path = board.PathAux
	}
	if err := s.board.SetAudioPath(path); err != nil {
		log.Printf("system: audio path switch failed: %v", err)
	}

	// The amplifier stays muted while the module is being reflashed.
	if err := s.board.SetAmpMute(c == status.DfuMode); err != nil {
		log.Printf("system: amp mute failed: %v", err)
	}
}

func (s *systemSink) StreamingChanged(active bool) {
	log.Printf("system: streaming=%t", active)
}

func (s *systemSink) BatteryLevel(percent uint8) {
	log.Printf("system: battery %d%%", percent)
}

func (s *systemSink) ChargerStatus(cs link.ChargerStatus) {
	log.Printf("system: charger status %d", cs)
}

func (s *systemSink) VolumeChanged(v uint8) {
	log.Printf("system: volume %d", v)
}

func (s *systemSink) BrightnessChanged(level uint8) {
	log.Printf("system: brightness %d", level)
}

func (s *systemSink) BassChanged(level int8) {
	log.Printf("system: bass %d", level)
}

func (s *systemSink) TrebleChanged(level int8) {
	log.Printf("system: treble %d", level)
}

func (s *systemSink) EcoModeChanged(on bool) {
	log.Printf("system: eco mode=%t", on)
}

func (s *systemSink) OffTimerChanged(minutes uint16) {
	log.Printf("system: off timer %d min", minutes)
}

func (s *systemSink) CuesEnabledChanged(on bool) {
	log.Printf("system: cues enabled=%t", on)
}

func (s *systemSink) FactoryReset() {
	log.Printf("system: factory reset, wiping persisted settings")
}
