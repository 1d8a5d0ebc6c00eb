// internal/conn/resolve_test.go
package conn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcuz1234/mynd-firmware/internal/link"
	"github.com/marcuz1234/mynd-firmware/internal/status"
)

func src(s link.AudioSource) *link.AudioSource { return &s }

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name string
		sig  signalSet
		jack bool
		want status.Connectivity
	}{
		{
			name: "chain state beats everything",
			sig: signalSet{
				audioSource:  src(link.SourceAnalog),
				chainState:   link.ChainMaster,
				pairingState: link.PairingBluetooth,
				dfuActive:    true,
			},
			jack: true,
			want: status.ChainMaster,
		},
		{
			name: "chain slave",
			sig:  signalSet{audioSource: src(link.SourceBluetooth), chainState: link.ChainSlave},
			want: status.ChainSlave,
		},
		{
			name: "chain slave pairing",
			sig:  signalSet{audioSource: src(link.SourceBluetooth), chainState: link.ChainSlavePairing},
			want: status.SlavePairing,
		},
		{
			name: "pairing beats aux",
			sig: signalSet{
				audioSource:  src(link.SourceAnalog),
				pairingState: link.PairingBluetooth,
			},
			jack: true,
			want: status.BluetoothPairing,
		},
		{
			name: "chain master pairing maps to chain master",
			sig:  signalSet{audioSource: src(link.SourceBluetooth), pairingState: link.PairingChainMaster},
			want: status.ChainMaster,
		},
		{
			name: "aux needs analog source and physical jack",
			sig:  signalSet{audioSource: src(link.SourceAnalog)},
			jack: true,
			want: status.AuxConnected,
		},
		{
			name: "analog source without jack falls through",
			sig:  signalSet{audioSource: src(link.SourceAnalog)},
			jack: false,
			want: status.BluetoothDisconnected,
		},
		{
			name: "dfu beats usb",
			sig: signalSet{
				audioSource:        src(link.SourceUSB),
				usbSourceAvailable: true,
				dfuActive:          true,
			},
			want: status.DfuMode,
		},
		{
			name: "usb needs source and availability",
			sig:  signalSet{audioSource: src(link.SourceUSB), usbSourceAvailable: true},
			want: status.UsbConnected,
		},
		{
			name: "usb source without availability falls through",
			sig:  signalSet{audioSource: src(link.SourceUSB)},
			want: status.BluetoothDisconnected,
		},
		{
			name: "link up",
			sig:  signalSet{audioSource: src(link.SourceBluetooth), linkConnected: true},
			want: status.BluetoothConnected,
		},
		{
			name: "nothing at all",
			sig:  signalSet{audioSource: src(link.SourceBluetooth)},
			want: status.BluetoothDisconnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(&tt.sig, tt.jack)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestChainConnectivityNoMapping(t *testing.T) {
	_, ok := chainConnectivity(link.ChainDisabled)
	require.False(t, ok)
}

func TestPairingConnectivityNoMapping(t *testing.T) {
	_, ok := pairingConnectivity(link.PairingIdle)
	require.False(t, ok)
}
