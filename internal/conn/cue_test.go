// internal/conn/cue_test.go
package conn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marcuz1234/mynd-firmware/internal/link"
	"github.com/marcuz1234/mynd-firmware/internal/status"
)

func newTestArbiter(enabled bool, loops []cueLoop) (*cueArbiter, *fakeTransport, *fakeClock) {
	tr := newFakeTransport()
	clock := newFakeClock()
	return newCueArbiter(tr, enabled, loops), tr, clock
}

func TestBootCuePlaysExactlyOnce(t *testing.T) {
	a, tr, clock := newTestArbiter(true, nil)

	a.play(link.CuePowerUp, false, clock.Now())
	a.play(link.CuePowerUp, false, clock.Now())
	require.Equal(t, 1, tr.count("play power-up repeat=false"))

	// Guard never moves backwards, even across the done transition.
	clock.advance(3 * time.Second)
	a.scan(clock.Now())
	require.Equal(t, guardDone, a.guard.state)

	a.play(link.CuePowerUp, false, clock.Now())
	require.Equal(t, 1, tr.count("play power-up repeat=false"))
}

func TestGuardResetRearmsBootCue(t *testing.T) {
	a, tr, clock := newTestArbiter(true, nil)

	a.play(link.CuePowerUp, false, clock.Now())
	clock.advance(3 * time.Second)
	a.scan(clock.Now())

	a.resetGuard()
	require.Equal(t, guardIdle, a.guard.state)

	a.play(link.CuePowerUp, false, clock.Now())
	require.Equal(t, 2, tr.count("play power-up repeat=false"))
}

func TestDeviceConnectedDeferredPastBootWindow(t *testing.T) {
	a, tr, clock := newTestArbiter(true, nil)

	a.play(link.CuePowerUp, false, clock.Now())
	clock.advance(100 * time.Millisecond)

	a.play(link.CueDeviceConnected, false, clock.Now())
	require.Equal(t, 0, tr.count("play device-connected repeat=false"))
	require.NotNil(t, a.deferred)

	// Reissue lands inside the window again: deferred a second time.
	clock.advance(800 * time.Millisecond)
	a.scan(clock.Now())
	require.Equal(t, 0, tr.count("play device-connected repeat=false"))
	require.NotNil(t, a.deferred)

	// Past the window the reissue goes through.
	clock.advance(2 * time.Second)
	a.scan(clock.Now())
	require.Equal(t, 1, tr.count("play device-connected repeat=false"))
	require.Nil(t, a.deferred)
}

func TestOtherCuesSuppressedDuringBootWindow(t *testing.T) {
	a, tr, clock := newTestArbiter(true, nil)

	a.play(link.CuePowerUp, false, clock.Now())
	clock.advance(500 * time.Millisecond)

	a.play(link.CueBatteryLow, false, clock.Now())
	require.Equal(t, 0, tr.count("play battery-low repeat=false"))
}

func TestLoopCueStartsAndStopsWithCondition(t *testing.T) {
	active := false
	a, tr, clock := newTestArbiter(true, []cueLoop{
		{cue: link.CueBtPairing, active: func() bool { return active }},
	})

	a.scan(clock.Now())
	require.Equal(t, 0, tr.count("play bt-pairing repeat=true"))

	active = true
	a.scan(clock.Now())
	require.Equal(t, 1, tr.count("play bt-pairing repeat=true"))

	// Already current: no restart on the next cycle.
	a.scan(clock.Now())
	require.Equal(t, 1, tr.count("play bt-pairing repeat=true"))

	active = false
	a.scan(clock.Now())
	require.Equal(t, 1, tr.count("stop bt-pairing"))
	require.Equal(t, link.CueNone, a.current)
}

func TestLoopCueWaitsForCurrentToFinish(t *testing.T) {
	active := true
	a, tr, clock := newTestArbiter(true, []cueLoop{
		{cue: link.CueSlavePairing, active: func() bool { return active }},
	})

	// A one-shot is playing; the loop must wait out its nominal
	// duration.
	a.play(link.CueDeviceConnected, false, clock.Now())
	a.scan(clock.Now())
	require.Equal(t, 0, tr.count("play slave-pairing repeat=true"))

	clock.advance(cueDuration(link.CueDeviceConnected) + 10*time.Millisecond)
	a.scan(clock.Now())
	require.Equal(t, 1, tr.count("play slave-pairing repeat=true"))
}

func TestOneShotStatusCueSurvivesBootGrace(t *testing.T) {
	a, tr, clock := newTestArbiter(true, nil)
	a.play(link.CuePowerUp, false, clock.Now())

	// Boot cue nominally finished, grace window still open: the
	// chain-entered one-shot must be queued, not dropped.
	clock.advance(2100 * time.Millisecond)
	a.statusChanged(status.BluetoothDisconnected, status.ChainMaster, clock.Now())
	require.Equal(t, 0, tr.count("play chain-entered repeat=false"))
	require.Equal(t, link.CueChainEntered, a.queued)

	clock.advance(500 * time.Millisecond)
	a.scan(clock.Now())
	require.Equal(t, 1, tr.count("play chain-entered repeat=false"))
}

func TestDisabledFeedbackIgnoresRequests(t *testing.T) {
	a, tr, clock := newTestArbiter(false, nil)

	a.play(link.CueBatteryLow, false, clock.Now())
	a.play(link.CuePowerUp, false, clock.Now())
	a.stop(link.CueBatteryLow)
	require.Empty(t, tr.calls)

	// Guard untouched: disabled feedback never consumes the boot slot.
	require.Equal(t, guardIdle, a.guard.state)
}

func TestStatusChangedMapping(t *testing.T) {
	a, tr, clock := newTestArbiter(true, nil)

	a.statusChanged(status.BluetoothDisconnected, status.SlavePairing, clock.Now())
	require.Equal(t, 1, tr.count("play slave-pairing repeat=true"))

	// Leaving plain pairing: nothing queued, nothing played.
	a.statusChanged(status.BluetoothPairing, status.BluetoothConnected, clock.Now())
	require.Equal(t, link.CueNone, a.queued)

	// Leaving a chain mode queues the drop announcement.
	a.statusChanged(status.ChainSlave, status.BluetoothDisconnected, clock.Now())
	require.Equal(t, link.CueChainDisconnected, a.queued)
}

func TestCueDurationsArePositiveForRealCues(t *testing.T) {
	cues := []link.Cue{
		link.CuePowerUp, link.CuePowerDown, link.CueBtPairing,
		link.CueDeviceConnected, link.CueChainEntered,
		link.CueChainDisconnected, link.CueSlavePairing, link.CueBatteryLow,
	}
	for _, c := range cues {
		require.Greater(t, cueDuration(c), time.Duration(0), c.String())
	}
	require.Equal(t, time.Duration(0), cueDuration(link.CueNone))
}
