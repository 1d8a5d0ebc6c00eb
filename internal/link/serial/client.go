// internal/link/serial/client.go
package serial

import (
	"errors"
	"fmt"
	"log"
	"time"

	modserial "go.bug.st/serial"

	"github.com/marcuz1234/mynd-firmware/internal/link"
)

// Client implements link.Transport over the module UART.
// This adapter is framing-only: it builds command frames and unpacks raw
// event frames. All protocol semantics live in the caller.
type Client struct {
	cfg    Config
	port   modserial.Port
	events link.EventSink

	rx    []byte
	ready bool
}

var _ link.Transport = (*Client)(nil)

// Config is minimal port config.
type Config struct {
	Port string
	Baud int
}

// New creates an unopened client. The port is opened by Init so the
// supervisor can power-cycle the module and re-init cleanly.
func New(cfg Config) (*Client, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial client: port required")
	}
	if cfg.Baud <= 0 {
		return nil, errors.New("serial client: baud must be > 0")
	}
	return &Client{cfg: cfg}, nil
}

// Init opens the port, drops any stale buffered bytes and binds the event
// sink. Safe to call again after Deinit.
func (c *Client) Init(events link.EventSink) error {
	if events == nil {
		return errors.New("serial client: nil event sink")
	}
	mode := &modserial.Mode{BaudRate: c.cfg.Baud}
	port, err := modserial.Open(c.cfg.Port, mode)
	if err != nil {
		return fmt.Errorf("serial client: open %s: %w", c.cfg.Port, err)
	}
	// Non-blocking reads: Tick must never stall the worker.
	if err := port.SetReadTimeout(time.Millisecond); err != nil {
		port.Close()
		return fmt.Errorf("serial client: read timeout: %w", err)
	}
	port.ResetInputBuffer()

	c.port = port
	c.events = events
	c.rx = c.rx[:0]
	c.ready = false
	return nil
}

// Deinit closes the port. Events stop firing; IsReady reports false.
func (c *Client) Deinit() error {
	c.ready = false
	c.events = nil
	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	return err
}

// Tick drains the port and dispatches every complete event frame.
// The only point where EventSink callbacks fire.
func (c *Client) Tick() {
	if c.port == nil {
		return
	}
	var chunk [256]byte
	for {
		n, err := c.port.Read(chunk[:])
		if n > 0 {
			c.rx = append(c.rx, chunk[:n]...)
		}
		if err != nil || n == 0 {
			break
		}
	}
	c.drainFrames()
}

func (c *Client) drainFrames() {
	for {
		op, payload, consumed, err := decodeFrame(c.rx)
		if consumed == 0 {
			return
		}
		c.rx = c.rx[consumed:]
		if err != nil {
			if errors.Is(err, errBadSum) {
				log.Printf("serial: dropped frame with bad checksum")
			}
			continue
		}
		c.dispatch(op, payload)
	}
}

func (c *Client) dispatch(op byte, payload []byte) {
	if c.events == nil {
		return
	}
	b0 := func() byte {
		if len(payload) > 0 {
			return payload[0]
		}
		return 0
	}

	switch op {
	case evSystemReady:
		c.ready = true
		c.events.SystemReady()
	case evPowerState:
		c.events.PowerStateChanged(link.ModulePower(b0()))
	case evAudioSource:
		c.events.AudioSourceChanged(link.AudioSource(b0()))
	case evVolume:
		c.events.VolumeChanged(b0())
	case evStreamState:
		c.events.StreamStateChanged(link.StreamState(b0()))
	case evLinkConnected:
		c.events.LinkConnected()
	case evLinkDropped:
		c.events.LinkDisconnected()
	case evPairingState:
		c.events.PairingStateChanged(link.PairingState(b0()))
	case evChainState:
		c.events.ChainStateChanged(link.ChainState(b0()))
	case evUsbConnected:
		c.events.UsbConnectedChanged(b0() != 0)
	case evUpdateMode:
		c.events.UpdateModeChanged(b0() != 0)
	case evVersion:
		// Handled synchronously by FirmwareVersion; a stray one is noise.
		log.Printf("serial: unsolicited version frame")
	default:
		log.Printf("serial: unknown event opcode 0x%02X", op)
	}
}

// IsReady reports whether the module has announced itself since Init.
func (c *Client) IsReady() bool {
	return c.ready
}

func (c *Client) send(op byte, payload ...byte) error {
	if c.port == nil {
		return errors.New("serial client: not initialized")
	}
	f := encodeFrame(op, payload)
	n, err := c.port.Write(f)
	if err != nil {
		return fmt.Errorf("serial client: write op 0x%02X: %w", op, err)
	}
	if n != len(f) {
		return fmt.Errorf("serial client: short write op 0x%02X: %d/%d", op, n, len(f))
	}
	return nil
}

// ---- link.Transport commands ----

func (c *Client) SetPowerState(p link.ModulePower) error {
	return c.send(opSetPowerState, byte(p))
}

func (c *Client) NotifyBatteryLevel(percent uint8) error {
	return c.send(opNotifyBattery, percent)
}

func (c *Client) NotifyChargerStatus(s link.ChargerStatus) error {
	return c.send(opNotifyCharger, byte(s))
}

func (c *Client) NotifyChargeType(t link.ChargeType) error {
	return c.send(opNotifyChgType, byte(t))
}

func (c *Client) NotifyColor(col link.Color) error {
	return c.send(opNotifyColor, byte(col))
}

func (c *Client) NotifyAuxConnected(connected bool) error {
	return c.send(opNotifyAux, boolByte(connected))
}

func (c *Client) NotifyUsbConnected(connected bool) error {
	return c.send(opNotifyUsb, boolByte(connected))
}

func (c *Client) SetAbsoluteVolume(v uint8) error {
	return c.send(opSetVolume, v)
}

func (c *Client) StartPairing() error {
	return c.send(opStartPairing)
}

func (c *Client) StartChainPairing() error {
	return c.send(opStartChainPair)
}

func (c *Client) StopPairing(r link.StopReason) error {
	return c.send(opStopPairing, byte(r))
}

func (c *Client) ExitChain(r link.StopReason) error {
	return c.send(opExitChain, byte(r))
}

func (c *Client) ClearDeviceList() error {
	return c.send(opClearDevices)
}

func (c *Client) PlayCue(id link.Cue, repeat bool) error {
	return c.send(opPlayCue, byte(id), boolByte(repeat))
}

func (c *Client) StopCue(id link.Cue) error {
	return c.send(opStopCue, byte(id))
}

func (c *Client) PlayPause() error {
	return c.send(opPlayPause)
}

func (c *Client) NextTrack() error {
	return c.send(opNextTrack)
}

func (c *Client) PreviousTrack() error {
	return c.send(opPrevTrack)
}

func (c *Client) EnterUpdateMode() error {
	return c.send(opEnterUpdate)
}

// FirmwareVersion sends a version request and waits briefly for the reply,
// dispatching any interleaved event frames so none are lost. Best effort:
// a silent module yields an error, not a stall.
func (c *Client) FirmwareVersion() (string, error) {
	if err := c.send(opGetVersion); err != nil {
		return "", err
	}
	deadline := time.Now().Add(200 * time.Millisecond)
	var chunk [64]byte
	for time.Now().Before(deadline) {
		n, _ := c.port.Read(chunk[:])
		if n > 0 {
			c.rx = append(c.rx, chunk[:n]...)
		}
		for {
			op, payload, consumed, err := decodeFrame(c.rx)
			if consumed == 0 {
				break
			}
			c.rx = c.rx[consumed:]
			if err != nil {
				continue
			}
			if op == evVersion {
				return string(payload), nil
			}
			c.dispatch(op, payload)
		}
	}
	return "", errors.New("serial client: version request timed out")
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
