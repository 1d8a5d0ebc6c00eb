// internal/conn/signals.go
package conn

import (
	"log"

	"github.com/marcuz1234/mynd-firmware/internal/link"
)

// maxConnectedDevices is the module's multipoint limit.
const maxConnectedDevices = 2

// signalSet holds the latest value of every independent input signal.
// Mutated only from the worker context, by event notifications. The
// physical jack state is deliberately absent: it is sampled from the
// board at resolution time, never cached.
type signalSet struct {
	audioSource        *link.AudioSource // nil until the first report
	pairingState       link.PairingState
	chainState         link.ChainState
	usbSourceAvailable bool
	dfuActive          bool
	linkConnected      bool
	connectedDevices   int
}

// deviceConnected counts a link-connection event, reporting whether the
// count changed. Connections past the multipoint limit are logged and
// ignored.
func (s *signalSet) deviceConnected() bool {
	if s.connectedDevices >= maxConnectedDevices {
		log.Printf("conn: connection event at device cap %d, ignored", maxConnectedDevices)
		return false
	}
	s.connectedDevices++
	s.linkConnected = true
	return true
}

// deviceDisconnected counts a link-disconnection event, reporting
// whether the count changed. A disconnect without a matching connect is
// logged and ignored.
func (s *signalSet) deviceDisconnected() bool {
	if s.connectedDevices == 0 {
		log.Printf("conn: spurious disconnection event at zero devices, ignored")
		return false
	}
	s.connectedDevices--
	s.linkConnected = s.connectedDevices > 0
	return true
}
