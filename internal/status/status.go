// internal/status/status.go
package status

// Connectivity is the single published value summarizing which audio/link
// mode the unit is currently in. Exactly one value holds at a time.
type Connectivity int

const (
	// None is the pre-boot state, before the first resolution has run.
	None Connectivity = iota
	BluetoothDisconnected
	BluetoothConnected
	BluetoothPairing
	AuxConnected
	UsbConnected
	DfuMode
	ChainMaster
	ChainSlave
	SlavePairing
)

func (c Connectivity) String() string {
	switch c {
	case None:
		return "none"
	case BluetoothDisconnected:
		return "bt-disconnected"
	case BluetoothConnected:
		return "bt-connected"
	case BluetoothPairing:
		return "bt-pairing"
	case AuxConnected:
		return "aux"
	case UsbConnected:
		return "usb"
	case DfuMode:
		return "dfu"
	case ChainMaster:
		return "chain-master"
	case ChainSlave:
		return "chain-slave"
	case SlavePairing:
		return "slave-pairing"
	}
	return "unknown"
}

// IsPairing reports whether c is one of the pairing modes that latch the
// resume-after-pairing behavior.
func (c Connectivity) IsPairing() bool {
	return c == BluetoothPairing || c == SlavePairing
}

// IsChain reports whether c is a chain-broadcast mode.
func (c Connectivity) IsChain() bool {
	return c == ChainMaster || c == ChainSlave
}
