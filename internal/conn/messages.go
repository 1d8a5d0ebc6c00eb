// internal/conn/messages.go
package conn

import "github.com/marcuz1234/mynd-firmware/internal/link"

// Message is the closed set of mailbox messages the supervisor consumes.
// Adding a kind means adding a case to Supervisor.handle; the exhaustive
// switch there is the dispatch table.
type Message interface {
	isMessage()
}

// SetPowerPhase requests one wireless-module power transition. Processed
// synchronously: the worker blocks until the phase completes.
type SetPowerPhase struct{ Phase PowerPhase }

// BatteryLevel reports the pack charge percentage.
type BatteryLevel struct{ Percent uint8 }

// ChargerState reports the charging hardware status.
type ChargerState struct{ Status link.ChargerStatus }

// SetChargeType selects the charging profile.
type SetChargeType struct{ Type link.ChargeType }

// SetColor reports the unit's color index for app display.
type SetColor struct{ Color link.Color }

// ModuleReady is a hint from the companion that the module has spoken.
type ModuleReady struct{}

// WakeUp powers the module on if it is off; otherwise a no-op.
type WakeUp struct{}

// VolumeUp and VolumeDown step the absolute volume.
type VolumeUp struct{}
type VolumeDown struct{}

// StartPairing puts the module into Bluetooth pairing.
type StartPairing struct{}

// StartChainPairing puts the module into multichain pairing.
type StartChainPairing struct{}

// StopPairing leaves pairing and, when chained, the chain as well.
type StopPairing struct{ Reason link.StopReason }

// AuxConnectionChanged reports the physical jack event. The resolver
// still samples the jack itself; this only forwards and reschedules.
type AuxConnectionChanged struct{ Connected bool }

// UsbConnectionChanged reports host USB presence.
type UsbConnectionChanged struct{ Connected bool }

// EnterUpdateMode asks the module to enter firmware update mode.
type EnterUpdateMode struct{}

// ClearPairedDevices wipes the module's paired device list.
type ClearPairedDevices struct{}

// FactoryReset wipes pairing data and leaves any chain.
type FactoryReset struct{}

// Audio and system settings forwarded to their owning subsystems.
type SetBrightness struct{ Level uint8 }
type SetBass struct{ Level int8 }
type SetTreble struct{ Level int8 }
type SetEcoMode struct{ Enabled bool }
type SetOffTimer struct{ Minutes uint16 }

// Playback controls forwarded to the module.
type PlayPause struct{}
type NextTrack struct{}
type PreviousTrack struct{}

// PlaySoundIcon and StopSoundIcon are direct cue requests from other
// subsystems. They go through the arbiter like any other cue.
type PlaySoundIcon struct {
	Icon   link.Cue
	Repeat bool
}
type StopSoundIcon struct{ Icon link.Cue }

// SetCuesEnabled acknowledges the audible-feedback toggle.
type SetCuesEnabled struct{ Enabled bool }

func (SetPowerPhase) isMessage()        {}
func (BatteryLevel) isMessage()         {}
func (ChargerState) isMessage()         {}
func (SetChargeType) isMessage()        {}
func (SetColor) isMessage()             {}
func (ModuleReady) isMessage()          {}
func (WakeUp) isMessage()               {}
func (VolumeUp) isMessage()             {}
func (VolumeDown) isMessage()           {}
func (StartPairing) isMessage()         {}
func (StartChainPairing) isMessage()    {}
func (StopPairing) isMessage()          {}
func (AuxConnectionChanged) isMessage() {}
func (UsbConnectionChanged) isMessage() {}
func (EnterUpdateMode) isMessage()      {}
func (ClearPairedDevices) isMessage()   {}
func (FactoryReset) isMessage()         {}
func (SetBrightness) isMessage()        {}
func (SetBass) isMessage()              {}
func (SetTreble) isMessage()            {}
func (SetEcoMode) isMessage()           {}
func (SetOffTimer) isMessage()          {}
func (PlayPause) isMessage()            {}
func (NextTrack) isMessage()            {}
func (PreviousTrack) isMessage()        {}
func (PlaySoundIcon) isMessage()        {}
func (StopSoundIcon) isMessage()        {}
func (SetCuesEnabled) isMessage()       {}

