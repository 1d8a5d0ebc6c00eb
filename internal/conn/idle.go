// internal/conn/idle.go
package conn

import (
	"log"
	"time"
)

// idleMonitor powers the module down after prolonged zero-connection
// time. Runs once per idle cycle, only while overall device power is on.
//
// Extra gating by update-mode/pairing/chain/streaming state existed in
// an earlier revision but is deliberately disabled: device power is the
// only gate.
type idleMonitor struct {
	threshold time.Duration

	// zeroSince is the most recent instant the connected-device count
	// hit zero. The zero value means disarmed: a device is connected,
	// or the timer already fired.
	zeroSince time.Time
}

// reset disarms the timer. Called when the module reboots.
func (m *idleMonitor) reset() {
	m.zeroSince = time.Time{}
}

// tick arms, clears or fires the timer. off is the fire-and-forget
// power-off request; its failure is logged and the timer resets anyway.
func (m *idleMonitor) tick(now time.Time, powerOn bool, connectedDevices int, off func() error) {
	if !powerOn {
		return
	}

	if connectedDevices > 0 {
		m.zeroSince = time.Time{}
		return
	}

	if m.zeroSince.IsZero() {
		m.zeroSince = now
		return
	}

	if now.Sub(m.zeroSince) < m.threshold {
		return
	}

	log.Printf("idle: no connected devices for %s, requesting power off", m.threshold)
	if err := off(); err != nil {
		log.Printf("idle: power-off request failed: %v", err)
	}
	m.zeroSince = time.Time{}
}
