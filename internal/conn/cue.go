// internal/conn/cue.go
package conn

import (
	"log"
	"time"

	"github.com/marcuz1234/mynd-firmware/internal/link"
	"github.com/marcuz1234/mynd-firmware/internal/status"
)

// cuePlayer is the slice of the transport the arbiter uses.
type cuePlayer interface {
	PlayCue(id link.Cue, repeat bool) error
	StopCue(id link.Cue) error
}

const (
	// bootCueGrace extends the exclusivity window past the boot cue's
	// nominal end so nothing lands on its tail.
	bootCueGrace = 500 * time.Millisecond

	// deferredCueDelay is how long a device-connected cue requested
	// during the boot window is pushed back before being reissued.
	deferredCueDelay = 750 * time.Millisecond
)

// cueDuration returns the nominal duration of a cue. Used only for
// scheduling and overlap decisions, never to enforce playback stop.
func cueDuration(c link.Cue) time.Duration {
	switch c {
	case link.CuePowerUp:
		return 2 * time.Second
	case link.CuePowerDown:
		return 1500 * time.Millisecond
	case link.CueBtPairing:
		return time.Second
	case link.CueDeviceConnected:
		return 800 * time.Millisecond
	case link.CueChainEntered:
		return 1200 * time.Millisecond
	case link.CueChainDisconnected:
		return 1200 * time.Millisecond
	case link.CueSlavePairing:
		return time.Second
	case link.CueBatteryLow:
		return 900 * time.Millisecond
	}
	return 0
}

// statusCue maps a connectivity value to the cue announcing it. The
// second return is false when the value has no cue.
func statusCue(c status.Connectivity) (cue link.Cue, repeat bool, ok bool) {
	switch c {
	case status.BluetoothPairing:
		return link.CueBtPairing, true, true
	case status.ChainMaster:
		return link.CueChainEntered, false, true
	case status.SlavePairing:
		return link.CueSlavePairing, true, true
	}
	return link.CueNone, false, false
}

// guardState tracks the boot-cue exclusivity guard. It only ever moves
// forward: idle -> active -> done. Reset happens solely when the module
// is powered off and reinitialized.
type guardState uint8

const (
	guardIdle guardState = iota
	guardActive
	guardDone
)

type bootGuard struct {
	state     guardState
	startedAt time.Time
}

type pendingCue struct {
	cue    link.Cue
	repeat bool
	dueAt  time.Time
}

// cueLoop ties an infinite cue to a continuous condition.
type cueLoop struct {
	cue    link.Cue
	active func() bool
}

// cueArbiter decides which sound icon plays, and when. At most one
// non-boot icon is logically current at a time.
type cueArbiter struct {
	player  cuePlayer
	enabled bool

	current       link.Cue
	currentAt     time.Time
	currentRepeat bool

	guard    bootGuard
	deferred *pendingCue
	queued   link.Cue

	loops []cueLoop
}

func newCueArbiter(player cuePlayer, enabled bool, loops []cueLoop) *cueArbiter {
	return &cueArbiter{
		player:  player,
		enabled: enabled,
		loops:   loops,
	}
}

func (a *cueArbiter) setEnabled(on bool) {
	a.enabled = on
	if on {
		log.Printf("cue: audible feedback enabled")
	} else {
		log.Printf("cue: audible feedback disabled")
	}
}

// inBootWindow reports whether only the startup cue may play right now.
func (a *cueArbiter) inBootWindow(now time.Time) bool {
	return a.guard.state == guardActive &&
		now.Sub(a.guard.startedAt) < cueDuration(link.CuePowerUp)+bootCueGrace
}

// bootCueFinished reports whether the startup cue's nominal duration has
// elapsed. Gates the status resolver.
func (a *cueArbiter) bootCueFinished(now time.Time) bool {
	switch a.guard.state {
	case guardDone:
		return true
	case guardActive:
		return now.Sub(a.guard.startedAt) >= cueDuration(link.CuePowerUp)
	}
	return false
}

// holdsResolve reports whether the coalescer must keep deferring
// resolution: the first second after the boot cue starts is quiet time.
func (a *cueArbiter) holdsResolve(now time.Time) bool {
	return a.guard.state == guardActive && now.Sub(a.guard.startedAt) <= time.Second
}

// resetGuard rearms the boot cue. Called only on full module
// reinitialization (power-off).
func (a *cueArbiter) resetGuard() {
	a.guard = bootGuard{}
	a.current = link.CueNone
	a.deferred = nil
	a.queued = link.CueNone
}

// play requests a cue. Ignored (logged) when feedback is disabled. The
// boot cue plays exactly once per module power cycle; during its window
// a device-connected request is deferred and reissued, anything else is
// dropped.
func (a *cueArbiter) play(cue link.Cue, repeat bool, now time.Time) {
	if !a.enabled {
		log.Printf("cue: feedback disabled, ignoring play %s", cue)
		return
	}

	if cue == link.CuePowerUp {
		if a.guard.state != guardIdle {
			log.Printf("cue: boot cue already played, ignoring")
			return
		}
		a.guard.state = guardActive
		a.guard.startedAt = now
		if err := a.player.PlayCue(cue, false); err != nil {
			log.Printf("cue: play %s failed: %v", cue, err)
		}
		return
	}

	if a.inBootWindow(now) {
		if cue == link.CueDeviceConnected {
			a.deferred = &pendingCue{cue: cue, repeat: repeat, dueAt: now.Add(deferredCueDelay)}
			log.Printf("cue: %s deferred past boot window", cue)
			return
		}
		log.Printf("cue: %s suppressed during boot window", cue)
		return
	}

	if err := a.player.PlayCue(cue, repeat); err != nil {
		log.Printf("cue: play %s failed: %v", cue, err)
	}
	a.current = cue
	a.currentAt = now
	a.currentRepeat = repeat
}

// stop requests a cue stop. Ignored (logged) when feedback is disabled.
func (a *cueArbiter) stop(cue link.Cue) {
	if !a.enabled {
		log.Printf("cue: feedback disabled, ignoring stop %s", cue)
		return
	}
	if err := a.player.StopCue(cue); err != nil {
		log.Printf("cue: stop %s failed: %v", cue, err)
	}
	if a.current == cue {
		a.current = link.CueNone
	}
}

// busy reports whether the nominal duration of whatever is currently
// playing has not yet elapsed. Repeating cues stay busy until stopped.
func (a *cueArbiter) busy(now time.Time) bool {
	if a.current == link.CueNone {
		return false
	}
	if a.currentRepeat {
		return true
	}
	return now.Sub(a.currentAt) < cueDuration(a.current)
}

// statusChanged is the reactive half: runs on every non-suppressed
// status publication.
func (a *cueArbiter) statusChanged(prev, next status.Connectivity, now time.Time) {
	if cue, repeat, ok := statusCue(next); ok {
		// A one-shot landing inside the boot window would be dropped
		// for good: the hysteresis never republishes the same chain
		// status. Queue it instead; repeating cues need no rescue, the
		// continuous half restarts them once the window closes.
		if !repeat && a.inBootWindow(now) {
			a.queued = cue
			return
		}
		a.play(cue, repeat, now)
		return
	}
	// Leaving a chain mode announces the drop once the current cue is
	// out of the way. Leaving plain pairing announces nothing; the
	// continuous half stops the loop.
	if prev.IsChain() {
		a.queued = link.CueChainDisconnected
	}
}

// scan is the continuous half: runs once per idle cycle, before the
// status resolver.
func (a *cueArbiter) scan(now time.Time) {
	// Guard only moves forward.
	if a.guard.state == guardActive &&
		now.Sub(a.guard.startedAt) >= cueDuration(link.CuePowerUp)+bootCueGrace {
		a.guard.state = guardDone
	}

	// Reissue a deferred device-connected cue.
	if a.deferred != nil && !now.Before(a.deferred.dueAt) {
		d := a.deferred
		a.deferred = nil
		a.play(d.cue, d.repeat, now)
	}

	// A finished one-shot is no longer current.
	if a.current != link.CueNone && !a.currentRepeat &&
		now.Sub(a.currentAt) >= cueDuration(a.current) {
		a.current = link.CueNone
	}

	// Queued chain-disconnected plays after the current cue finishes.
	if a.queued != link.CueNone && !a.busy(now) && !a.inBootWindow(now) {
		q := a.queued
		a.queued = link.CueNone
		a.play(q, false, now)
	}

	// Condition-bound infinite cues.
	for _, lc := range a.loops {
		switch {
		case lc.active():
			if a.current != lc.cue && !a.busy(now) {
				a.play(lc.cue, true, now)
			}
		case a.current == lc.cue:
			a.stop(lc.cue)
		}
	}
}
