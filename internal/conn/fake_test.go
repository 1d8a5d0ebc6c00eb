// internal/conn/fake_test.go
package conn

import (
	"errors"
	"fmt"
	"time"

	"github.com/marcuz1234/mynd-firmware/internal/link"
	"github.com/marcuz1234/mynd-firmware/internal/status"
)

// fakeClock advances only when the code under test sleeps or the test
// steps it.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }
func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// fakeTransport records every command and lets tests script readiness
// and event delivery from inside Tick.
type fakeTransport struct {
	calls  []string
	events link.EventSink

	ready      bool
	readyAfter int // Ticks until IsReady flips true; <0 = never

	// onTick runs on every Tick after the readiness countdown, with
	// the bound event sink. Used to script event callbacks.
	onTick func(events link.EventSink)

	failCommands bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{readyAfter: -1}
}

func (t *fakeTransport) record(s string) error {
	t.calls = append(t.calls, s)
	if t.failCommands {
		return errors.New("scripted failure")
	}
	return nil
}

func (t *fakeTransport) count(s string) int {
	n := 0
	for _, c := range t.calls {
		if c == s {
			n++
		}
	}
	return n
}

func (t *fakeTransport) Init(events link.EventSink) error {
	t.events = events
	return t.record("init")
}

func (t *fakeTransport) Deinit() error {
	t.events = nil
	t.ready = false
	return t.record("deinit")
}

func (t *fakeTransport) Tick() {
	if t.readyAfter == 0 {
		t.ready = true
	}
	if t.readyAfter >= 0 {
		t.readyAfter--
	}
	if t.onTick != nil && t.events != nil {
		t.onTick(t.events)
	}
}

func (t *fakeTransport) IsReady() bool { return t.ready }

func (t *fakeTransport) SetPowerState(p link.ModulePower) error {
	return t.record("power " + p.String())
}

func (t *fakeTransport) NotifyBatteryLevel(percent uint8) error {
	return t.record(fmt.Sprintf("battery %d", percent))
}

func (t *fakeTransport) NotifyChargerStatus(s link.ChargerStatus) error {
	return t.record(fmt.Sprintf("charger %d", s))
}

func (t *fakeTransport) NotifyChargeType(ct link.ChargeType) error {
	return t.record(fmt.Sprintf("charge-type %d", ct))
}

func (t *fakeTransport) NotifyColor(c link.Color) error {
	return t.record(fmt.Sprintf("color %d", c))
}

func (t *fakeTransport) NotifyAuxConnected(connected bool) error {
	return t.record(fmt.Sprintf("aux %t", connected))
}

func (t *fakeTransport) NotifyUsbConnected(connected bool) error {
	return t.record(fmt.Sprintf("usb %t", connected))
}

func (t *fakeTransport) SetAbsoluteVolume(v uint8) error {
	return t.record(fmt.Sprintf("volume %d", v))
}

func (t *fakeTransport) FirmwareVersion() (string, error) {
	t.record("version")
	return "2.4.1", nil
}

func (t *fakeTransport) StartPairing() error      { return t.record("start-pairing") }
func (t *fakeTransport) StartChainPairing() error { return t.record("start-chain-pairing") }
func (t *fakeTransport) ClearDeviceList() error   { return t.record("clear-devices") }
func (t *fakeTransport) PlayPause() error         { return t.record("play-pause") }
func (t *fakeTransport) NextTrack() error         { return t.record("next") }
func (t *fakeTransport) PreviousTrack() error     { return t.record("previous") }
func (t *fakeTransport) EnterUpdateMode() error   { return t.record("enter-update") }

func (t *fakeTransport) StopPairing(r link.StopReason) error {
	return t.record(fmt.Sprintf("stop-pairing %d", r))
}

func (t *fakeTransport) ExitChain(r link.StopReason) error {
	return t.record(fmt.Sprintf("exit-chain %d", r))
}

func (t *fakeTransport) PlayCue(id link.Cue, repeat bool) error {
	return t.record(fmt.Sprintf("play %s repeat=%t", id, repeat))
}

func (t *fakeTransport) StopCue(id link.Cue) error {
	return t.record("stop " + id.String())
}

// fakeBoard scripts the jack line and records the power lines.
type fakeBoard struct {
	jack  bool
	calls []string
}

func (b *fakeBoard) JackConnected() bool { return b.jack }

func (b *fakeBoard) SetModulePower(on bool) error {
	b.calls = append(b.calls, fmt.Sprintf("power %t", on))
	return nil
}

func (b *fakeBoard) SetModuleReset(asserted bool) error {
	b.calls = append(b.calls, fmt.Sprintf("reset %t", asserted))
	return nil
}

func (b *fakeBoard) CompanionFirmwareVersion() (string, error) {
	return "1.0.9", nil
}

// fakeSink records everything published.
type fakeSink struct {
	statuses  []status.Connectivity
	streaming []bool
	volumes   []uint8
	batteries []uint8
	chargers  []link.ChargerStatus
	settings  []string
	cueToggle []bool
	resets    int
}

func (s *fakeSink) ConnectivityChanged(c status.Connectivity) {
	s.statuses = append(s.statuses, c)
}

func (s *fakeSink) StreamingChanged(active bool) {
	s.streaming = append(s.streaming, active)
}

func (s *fakeSink) BatteryLevel(p uint8) {
	s.batteries = append(s.batteries, p)
}

func (s *fakeSink) ChargerStatus(c link.ChargerStatus) {
	s.chargers = append(s.chargers, c)
}

func (s *fakeSink) VolumeChanged(v uint8) {
	s.volumes = append(s.volumes, v)
}

func (s *fakeSink) BrightnessChanged(level uint8) {
	s.settings = append(s.settings, fmt.Sprintf("brightness %d", level))
}

func (s *fakeSink) BassChanged(level int8) {
	s.settings = append(s.settings, fmt.Sprintf("bass %d", level))
}

func (s *fakeSink) TrebleChanged(level int8) {
	s.settings = append(s.settings, fmt.Sprintf("treble %d", level))
}

func (s *fakeSink) EcoModeChanged(on bool) {
	s.settings = append(s.settings, fmt.Sprintf("eco %t", on))
}

func (s *fakeSink) OffTimerChanged(minutes uint16) {
	s.settings = append(s.settings, fmt.Sprintf("off-timer %d", minutes))
}

func (s *fakeSink) CuesEnabledChanged(on bool) {
	s.cueToggle = append(s.cueToggle, on)
}

func (s *fakeSink) FactoryReset() {
	s.resets++
}

// testRig bundles a supervisor with all its fakes.
type testRig struct {
	sup       *Supervisor
	clock     *fakeClock
	transport *fakeTransport
	board     *fakeBoard
	sink      *fakeSink
}

func defaultOptions() Options {
	return Options{
		Settle:            200 * time.Millisecond,
		IdleOffAfter:      5 * time.Minute,
		PreOffDelay:       1500 * time.Millisecond,
		OffConfirmTimeout: 2 * time.Second,
		CuesEnabled:       true,
	}
}

func newTestRig(opt Options) *testRig {
	clock := newFakeClock()
	transport := newFakeTransport()
	brd := &fakeBoard{}
	sink := &fakeSink{}
	sup := New(opt, clock, transport, brd, sink, status.NewStore())
	return &testRig{sup: sup, clock: clock, transport: transport, board: brd, sink: sink}
}

// observeSource reports an audio source so the resolver gate opens.
func (r *testRig) observeSource(src link.AudioSource) {
	r.sup.AudioSourceChanged(src)
}

// finishBoot plays the startup cue and advances time until the guard is
// done, unblocking status resolution.
func (r *testRig) finishBoot() {
	r.sup.cues.play(link.CuePowerUp, false, r.clock.Now())
	r.clock.advance(3 * time.Second)
	r.sup.cues.scan(r.clock.Now())
}

// settle advances past the settle window and runs one coalescer pass.
func (r *testRig) settle() {
	r.clock.advance(201 * time.Millisecond)
	r.sup.maybeResolve()
}
