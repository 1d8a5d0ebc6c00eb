// internal/board/board.go
package board

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	gpiod "github.com/warthog618/go-gpiocdev"
)

// AudioPath selects which source feeds the amplifier.
type AudioPath uint8

const (
	PathWireless AudioPath = iota
	PathAux
)

// Config names the GPIO lines the supervisor drives. Offsets are chip
// line offsets, not header pin numbers.
type Config struct {
	Chip string

	JackDetectLine  int
	JackActiveLow   bool
	ModulePowerLine int
	ModuleResetLine int
	AmpMuteLine     int
	AudioPathLine   int

	// CompanionVersionFile is the sysfs node the companion controller
	// driver exposes its firmware version through.
	CompanionVersionFile string
}

// Board owns the requested GPIO lines for the lifetime of the process.
type Board struct {
	cfg Config

	jack  *gpiod.Line
	power *gpiod.Line
	reset *gpiod.Line
	mute  *gpiod.Line
	path  *gpiod.Line
}

// Open requests all lines. Outputs start in the safe state: module power
// off, reset asserted, amp muted, path on wireless.
func Open(cfg Config) (*Board, error) {
	if cfg.Chip == "" {
		return nil, errors.New("board: gpio chip required")
	}

	b := &Board{cfg: cfg}

	var err error
	if b.jack, err = gpiod.RequestLine(cfg.Chip, cfg.JackDetectLine, gpiod.AsInput); err != nil {
		return nil, fmt.Errorf("board: jack detect line %d: %w", cfg.JackDetectLine, err)
	}
	if b.power, err = gpiod.RequestLine(cfg.Chip, cfg.ModulePowerLine, gpiod.AsOutput(0)); err != nil {
		b.Close()
		return nil, fmt.Errorf("board: module power line %d: %w", cfg.ModulePowerLine, err)
	}
	if b.reset, err = gpiod.RequestLine(cfg.Chip, cfg.ModuleResetLine, gpiod.AsOutput(1)); err != nil {
		b.Close()
		return nil, fmt.Errorf("board: module reset line %d: %w", cfg.ModuleResetLine, err)
	}
	if b.mute, err = gpiod.RequestLine(cfg.Chip, cfg.AmpMuteLine, gpiod.AsOutput(1)); err != nil {
		b.Close()
		return nil, fmt.Errorf("board: amp mute line %d: %w", cfg.AmpMuteLine, err)
	}
	if b.path, err = gpiod.RequestLine(cfg.Chip, cfg.AudioPathLine, gpiod.AsOutput(0)); err != nil {
		b.Close()
		return nil, fmt.Errorf("board: audio path line %d: %w", cfg.AudioPathLine, err)
	}

	return b, nil
}

// Close releases every requested line. Safe on a partially opened board.
func (b *Board) Close() {
	for _, l := range []*gpiod.Line{b.jack, b.power, b.reset, b.mute, b.path} {
		if l != nil {
			l.Close()
		}
	}
}

// JackConnected samples the physical jack-detect line. A read failure is
// logged and reported as not connected.
func (b *Board) JackConnected() bool {
	v, err := b.jack.Value()
	if err != nil {
		log.Printf("board: jack detect read failed: %v", err)
		return false
	}
	if b.cfg.JackActiveLow {
		return v == 0
	}
	return v == 1
}

// SetModulePower drives the wireless-module supply rail.
func (b *Board) SetModulePower(on bool) error {
	return b.power.SetValue(level(on))
}

// SetModuleReset drives the module reset line (asserted = held in reset).
func (b *Board) SetModuleReset(asserted bool) error {
	return b.reset.SetValue(level(asserted))
}

// SetAmpMute drives the amplifier mute line.
func (b *Board) SetAmpMute(muted bool) error {
	return b.mute.SetValue(level(muted))
}

// SetAudioPath switches the analog path feeding the amplifier.
func (b *Board) SetAudioPath(p AudioPath) error {
	return b.path.SetValue(level(p == PathAux))
}

// CompanionFirmwareVersion reads the companion controller's version from
// its driver node. Best effort.
func (b *Board) CompanionFirmwareVersion() (string, error) {
	if b.cfg.CompanionVersionFile == "" {
		return "", errors.New("board: companion version file not configured")
	}
	data, err := os.ReadFile(b.cfg.CompanionVersionFile)
	if err != nil {
		return "", fmt.Errorf("board: companion version: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func level(on bool) int {
	if on {
		return 1
	}
	return 0
}
