// internal/link/link.go
package link

// Transport is the exact contract the supervisor uses to talk to the
// wireless module. The module's own protocol is opaque: this interface
// carries commands out and delivers events back, nothing else.
//
// Tick MUST be polled regularly; it is the only point where queued inbound
// bytes are parsed and EventSink callbacks fire. All callbacks run
// synchronously inside Tick, in the caller's context.
type Transport interface {
	Init(events EventSink) error
	Deinit() error
	Tick()
	IsReady() bool

	SetPowerState(p ModulePower) error

	NotifyBatteryLevel(percent uint8) error
	NotifyChargerStatus(s ChargerStatus) error
	NotifyChargeType(t ChargeType) error
	NotifyColor(c Color) error
	NotifyAuxConnected(connected bool) error
	NotifyUsbConnected(connected bool) error
	SetAbsoluteVolume(v uint8) error

	FirmwareVersion() (string, error)

	StartPairing() error
	StartChainPairing() error
	StopPairing(r StopReason) error
	ExitChain(r StopReason) error
	ClearDeviceList() error

	PlayCue(id Cue, repeat bool) error
	StopCue(id Cue) error

	PlayPause() error
	NextTrack() error
	PreviousTrack() error

	EnterUpdateMode() error
}

// EventSink receives module events. One method per event kind so a new
// event cannot be added without every consumer handling it.
type EventSink interface {
	SystemReady()
	PowerStateChanged(p ModulePower)
	AudioSourceChanged(s AudioSource)
	VolumeChanged(v uint8)
	StreamStateChanged(s StreamState)
	LinkConnected()
	LinkDisconnected()
	PairingStateChanged(p PairingState)
	ChainStateChanged(c ChainState)
	UsbConnectedChanged(connected bool)
	UpdateModeChanged(active bool)
}
