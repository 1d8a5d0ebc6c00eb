// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Supervisor SupervisorConfig `yaml:"supervisor"`
}

type SupervisorConfig struct {
	Serial  SerialConfig  `yaml:"serial"`
	GPIO    GPIOConfig    `yaml:"gpio"`
	Timings TimingsConfig `yaml:"timings"`

	// CuesEnabled is the boot default for audible feedback; the system
	// task may toggle it at runtime.
	CuesEnabled *bool `yaml:"cues_enabled"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// ---- GPIO ----

type GPIOConfig struct {
	Chip string `yaml:"chip"`

	JackDetectLine  int  `yaml:"jack_detect_line"`
	JackActiveLow   bool `yaml:"jack_active_low"`
	ModulePowerLine int  `yaml:"module_power_line"`
	ModuleResetLine int  `yaml:"module_reset_line"`
	AmpMuteLine     int  `yaml:"amp_mute_line"`
	AudioPathLine   int  `yaml:"audio_path_line"`

	CompanionVersionFile string `yaml:"companion_version_file"`
}

// ---- TIMINGS ----

// All durations are overrides; zero means "use the built-in default".
type TimingsConfig struct {
	SettleMs            int `yaml:"settle_ms"`
	IdleOffMinutes      int `yaml:"idle_off_minutes"`
	PreOffDelayMs       int `yaml:"pre_off_delay_ms"`
	OffConfirmTimeoutMs int `yaml:"off_confirm_timeout_ms"`
}

// Load reads and parses the YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
