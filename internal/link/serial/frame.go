// internal/link/serial/frame.go
package serial

import "errors"

// Wire framing for the module UART protocol.
//
// Frame:
//   SOF(1=0xA5) LEN(1) OP(1) PAYLOAD(LEN) SUM(1)
//
// SUM is the XOR of LEN, OP and every payload byte. LEN counts payload
// bytes only.
const sof = 0xA5

// Command opcodes (host -> module).
const (
	opSetPowerState  = 0x01
	opNotifyBattery  = 0x02
	opNotifyCharger  = 0x03
	opNotifyChgType  = 0x04
	opNotifyColor    = 0x05
	opNotifyAux      = 0x06
	opNotifyUsb      = 0x07
	opSetVolume      = 0x08
	opStartPairing   = 0x09
	opStartChainPair = 0x0A
	opStopPairing    = 0x0B
	opExitChain      = 0x0C
	opClearDevices   = 0x0D
	opPlayCue        = 0x0E
	opStopCue        = 0x0F
	opPlayPause      = 0x10
	opNextTrack      = 0x11
	opPrevTrack      = 0x12
	opEnterUpdate    = 0x13
	opGetVersion     = 0x14
)

// Event opcodes (module -> host).
const (
	evSystemReady   = 0x80
	evPowerState    = 0x81
	evAudioSource   = 0x82
	evVolume        = 0x83
	evStreamState   = 0x84
	evLinkConnected = 0x85
	evLinkDropped   = 0x86
	evPairingState  = 0x87
	evChainState    = 0x88
	evUsbConnected  = 0x89
	evUpdateMode    = 0x8A
	evVersion       = 0x8B
)

var (
	errShortFrame = errors.New("serial: short frame")
	errBadSum     = errors.New("serial: checksum mismatch")
)

// encodeFrame builds a complete wire frame.
func encodeFrame(op byte, payload []byte) []byte {
	f := make([]byte, 0, 4+len(payload))
	f = append(f, sof, byte(len(payload)), op)
	f = append(f, payload...)
	sum := byte(len(payload)) ^ op
	for _, b := range payload {
		sum ^= b
	}
	return append(f, sum)
}

// decodeFrame extracts the first complete frame from buf.
// Returns the opcode, payload, and the number of bytes consumed.
// consumed > 0 with err == errBadSum means the frame was skipped.
// consumed == 0 means more bytes are needed.
func decodeFrame(buf []byte) (op byte, payload []byte, consumed int, err error) {
	// Resync: discard garbage before the start byte.
	i := 0
	for i < len(buf) && buf[i] != sof {
		i++
	}
	if i > 0 {
		return 0, nil, i, errShortFrame
	}
	if len(buf) < 4 {
		return 0, nil, 0, errShortFrame
	}
	n := int(buf[1])
	total := 4 + n
	if len(buf) < total {
		return 0, nil, 0, errShortFrame
	}

	op = buf[2]
	payload = buf[3 : 3+n]
	sum := buf[1] ^ op
	for _, b := range payload {
		sum ^= b
	}
	if sum != buf[total-1] {
		// Skip the start byte and resync on the next one.
		return 0, nil, 1, errBadSum
	}
	return op, payload, total, nil
}
