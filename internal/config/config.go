package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the simulator's runtime settings. Values come from an
// optional YAML/JSON config file, SIM_* environment variables, and the
// defaults below, in increasing order of precedence for env over file.
type Config struct {
	ScenarioPath string        `mapstructure:"scenario_path"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Accelerated  bool          `mapstructure:"accelerated"`
	Duration     time.Duration `mapstructure:"duration"`

	// TaxiDuration is how long the aircraft takes to traverse the full
	// waypoint path once. LoopPath restarts the traversal when done.
	TaxiDuration time.Duration `mapstructure:"taxi_duration"`
	LoopPath     bool          `mapstructure:"loop_path"`

	// DisableOcclusion forces the always-clear line-of-sight mode even
	// when the scenario defines obstacles.
	DisableOcclusion bool `mapstructure:"disable_occlusion"`

	MetricsAddr string `mapstructure:"metrics_addr"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scenario_path", "configs/airport_scenario.json")
	v.SetDefault("tick_interval", time.Second/60)
	v.SetDefault("accelerated", false)
	v.SetDefault("duration", 60*time.Second)
	v.SetDefault("taxi_duration", 45*time.Second)
	v.SetDefault("loop_path", true)
	v.SetDefault("disable_occlusion", false)
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads configuration from the given file path (optional, "" skips the
// file) and from SIM_* environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SIM")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the simulator cannot run with.
func (c Config) Validate() error {
	if c.ScenarioPath == "" {
		return fmt.Errorf("scenario_path must be set")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.TaxiDuration <= 0 {
		return fmt.Errorf("taxi_duration must be positive, got %s", c.TaxiDuration)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Duration)
	}
	return nil
}
