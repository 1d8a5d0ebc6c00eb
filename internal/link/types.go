// internal/link/types.go
package link

// ModulePower is the wireless module's requested/reported power state.
type ModulePower uint8

const (
	ModulePowerOff ModulePower = iota
	ModulePowerOn
)

func (p ModulePower) String() string {
	if p == ModulePowerOn {
		return "on"
	}
	return "off"
}

// AudioSource is the module's active audio input.
type AudioSource uint8

const (
	SourceBluetooth AudioSource = iota
	SourceAnalog
	SourceUSB
)

func (s AudioSource) String() string {
	switch s {
	case SourceBluetooth:
		return "bluetooth"
	case SourceAnalog:
		return "analog"
	case SourceUSB:
		return "usb"
	}
	return "unknown"
}

// PairingState reported by the module.
type PairingState uint8

const (
	PairingIdle PairingState = iota
	PairingBluetooth
	PairingChainMaster
	PairingChainSlave
)

// ChainState reported by the module for chain broadcast (one unit
// broadcasting audio to multiple receiving units).
type ChainState uint8

const (
	ChainDisabled ChainState = iota
	ChainMaster
	ChainSlave
	ChainSlavePairing
)

// StreamState reported by the module for the A2DP stream.
type StreamState uint8

const (
	StreamIdle StreamState = iota
	StreamActive
)

// ChargerStatus as reported by the charging hardware, forwarded to the
// module for app display.
type ChargerStatus uint8

const (
	ChargerDisconnected ChargerStatus = iota
	ChargerActive
	ChargerComplete
	ChargerFault
)

// ChargeType selects the charging profile.
type ChargeType uint8

const (
	ChargeTypeStandard ChargeType = iota
	ChargeTypeEco
)

// Color is the vendor color index the module reports to connected apps.
type Color uint8

// StopReason qualifies a pairing/chain stop request.
type StopReason uint8

const (
	StopReasonUser StopReason = iota
	StopReasonTimeout
	StopReasonConnected
	StopReasonPowerOff
)

// Cue identifies a sound icon stored on the wireless module.
type Cue uint8

const (
	CueNone Cue = iota
	CuePowerUp
	CuePowerDown
	CueBtPairing
	CueDeviceConnected
	CueChainEntered
	CueChainDisconnected
	CueSlavePairing
	CueBatteryLow
)

func (c Cue) String() string {
	switch c {
	case CueNone:
		return "none"
	case CuePowerUp:
		return "power-up"
	case CuePowerDown:
		return "power-down"
	case CueBtPairing:
		return "bt-pairing"
	case CueDeviceConnected:
		return "device-connected"
	case CueChainEntered:
		return "chain-entered"
	case CueChainDisconnected:
		return "chain-disconnected"
	case CueSlavePairing:
		return "slave-pairing"
	case CueBatteryLow:
		return "battery-low"
	}
	return "unknown"
}
