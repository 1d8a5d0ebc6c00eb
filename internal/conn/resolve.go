// internal/conn/resolve.go
package conn

import (
	"github.com/marcuz1234/mynd-firmware/internal/link"
	"github.com/marcuz1234/mynd-firmware/internal/status"
)

// chainConnectivity maps a chain state to its connectivity value.
// The second return is false for ChainDisabled: no mapping.
func chainConnectivity(c link.ChainState) (status.Connectivity, bool) {
	switch c {
	case link.ChainMaster:
		return status.ChainMaster, true
	case link.ChainSlave:
		return status.ChainSlave, true
	case link.ChainSlavePairing:
		return status.SlavePairing, true
	}
	return status.None, false
}

// pairingConnectivity maps a pairing state to its connectivity value.
// The second return is false for PairingIdle: no mapping.
func pairingConnectivity(p link.PairingState) (status.Connectivity, bool) {
	switch p {
	case link.PairingBluetooth:
		return status.BluetoothPairing, true
	case link.PairingChainMaster:
		return status.ChainMaster, true
	case link.PairingChainSlave:
		return status.SlavePairing, true
	}
	return status.None, false
}

// resolve maps the aggregated signal set to exactly one connectivity
// value. First matching rule wins; the order is the contract.
func resolve(sig *signalSet, jackConnected bool) status.Connectivity {
	if c, ok := chainConnectivity(sig.chainState); ok {
		return c
	}
	if c, ok := pairingConnectivity(sig.pairingState); ok {
		return c
	}
	if sig.audioSource != nil && *sig.audioSource == link.SourceAnalog && jackConnected {
		return status.AuxConnected
	}
	if sig.dfuActive {
		return status.DfuMode
	}
	if sig.audioSource != nil && *sig.audioSource == link.SourceUSB && sig.usbSourceAvailable {
		return status.UsbConnected
	}
	if sig.linkConnected {
		return status.BluetoothConnected
	}
	return status.BluetoothDisconnected
}
