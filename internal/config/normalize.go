// internal/config/normalize.go
package config

// Built-in defaults applied by Normalize.
const (
	DefaultBaud                = 115200
	DefaultSettleMs            = 200
	DefaultIdleOffMinutes      = 5
	DefaultPreOffDelayMs       = 1500
	DefaultOffConfirmTimeoutMs = 2000
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Supervisor

	if s.Serial.Baud == 0 {
		s.Serial.Baud = DefaultBaud
	}

	t := &s.Timings
	if t.SettleMs == 0 {
		t.SettleMs = DefaultSettleMs
	}
	if t.IdleOffMinutes == 0 {
		t.IdleOffMinutes = DefaultIdleOffMinutes
	}
	if t.PreOffDelayMs == 0 {
		t.PreOffDelayMs = DefaultPreOffDelayMs
	}
	if t.OffConfirmTimeoutMs == 0 {
		t.OffConfirmTimeoutMs = DefaultOffConfirmTimeoutMs
	}

	if s.CuesEnabled == nil {
		enabled := true
		s.CuesEnabled = &enabled
	}
}
