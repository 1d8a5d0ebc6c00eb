// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	s := cfg.Supervisor

	// ------------------------------------------------------------
	// SERIAL
	// ------------------------------------------------------------

	if s.Serial.Port == "" {
		return fmt.Errorf("supervisor.serial.port is required")
	}
	if s.Serial.Baud < 0 {
		return fmt.Errorf("supervisor.serial.baud must not be negative")
	}

	// ------------------------------------------------------------
	// GPIO
	// ------------------------------------------------------------

	if s.GPIO.Chip == "" {
		return fmt.Errorf("supervisor.gpio.chip is required")
	}

	lines := map[string]int{
		"jack_detect_line":  s.GPIO.JackDetectLine,
		"module_power_line": s.GPIO.ModulePowerLine,
		"module_reset_line": s.GPIO.ModuleResetLine,
		"amp_mute_line":     s.GPIO.AmpMuteLine,
		"audio_path_line":   s.GPIO.AudioPathLine,
	}
	for name, off := range lines {
		if off < 0 {
			return fmt.Errorf("supervisor.gpio.%s must not be negative", name)
		}
	}

	// No two roles may share a line offset.
	owner := make(map[int]string)
	for name, off := range lines {
		if prev, exists := owner[off]; exists {
			return fmt.Errorf(
				"gpio line collision: offset=%d used by %s and %s",
				off, prev, name,
			)
		}
		owner[off] = name
	}

	// ------------------------------------------------------------
	// TIMINGS
	// ------------------------------------------------------------

	t := s.Timings
	if t.SettleMs < 0 || t.IdleOffMinutes < 0 || t.PreOffDelayMs < 0 || t.OffConfirmTimeoutMs < 0 {
		return fmt.Errorf("supervisor.timings values must not be negative")
	}

	return nil
}
