package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed view of configs/config.yml.
type Config struct {
	Port    string
	DBPath  string
	Log     LogConfig
	Device  DeviceConfig
	Polling PollingConfig
	Auth    AuthConfig
	Sim     SimConfig
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type DeviceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PollingConfig holds every polling cadence used by the panel.
type PollingConfig struct {
	Zones             time.Duration
	ProgramNormal     time.Duration
	ProgramRunning    time.Duration
	ProgramFast       time.Duration
	AccelerateFor     time.Duration
	HiddenMultiplier  int
	Connection        time.Duration
	ProgramRetries    int
	ProgramRetryDelay time.Duration
	ToastDuration     time.Duration
}

type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// SimConfig configures the device simulator.
type SimConfig struct {
	Port string
	Tick time.Duration
	Seed string
}

// Defaults registered before reading the file; each key can be overridden by
// PANEL_<KEY> with dots replaced by underscores.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "panel.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("device.base_url", "http://127.0.0.1:8081")
	v.SetDefault("device.timeout", 5*time.Second)
	v.SetDefault("polling.zones", 3*time.Second)
	v.SetDefault("polling.program_normal", 5*time.Second)
	v.SetDefault("polling.program_running", 1*time.Second)
	v.SetDefault("polling.program_fast", 1*time.Second)
	v.SetDefault("polling.accelerate_for", 15*time.Second)
	v.SetDefault("polling.hidden_multiplier", 2)
	v.SetDefault("polling.connection", 30*time.Second)
	v.SetDefault("polling.program_retries", 3)
	v.SetDefault("polling.program_retry_delay", 500*time.Millisecond)
	v.SetDefault("polling.toast_duration", 3*time.Second)
	v.SetDefault("auth.signing_key", "change-me")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("sim.port", "8081")
	v.SetDefault("sim.tick", time.Second)
	v.SetDefault("sim.seed", "")
}

// Load reads configs/config.yml (if present) and the environment.
// A missing file is not an error; every key has a default.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if len(paths) == 0 {
		paths = []string{"configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetEnvPrefix("panel")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:   v.GetString("port"),
		DBPath: v.GetString("db.path"),
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
		},
		Device: DeviceConfig{
			BaseURL: strings.TrimRight(v.GetString("device.base_url"), "/"),
			Timeout: v.GetDuration("device.timeout"),
		},
		Polling: PollingConfig{
			Zones:             v.GetDuration("polling.zones"),
			ProgramNormal:     v.GetDuration("polling.program_normal"),
			ProgramRunning:    v.GetDuration("polling.program_running"),
			ProgramFast:       v.GetDuration("polling.program_fast"),
			AccelerateFor:     v.GetDuration("polling.accelerate_for"),
			HiddenMultiplier:  v.GetInt("polling.hidden_multiplier"),
			Connection:        v.GetDuration("polling.connection"),
			ProgramRetries:    v.GetInt("polling.program_retries"),
			ProgramRetryDelay: v.GetDuration("polling.program_retry_delay"),
			ToastDuration:     v.GetDuration("polling.toast_duration"),
		},
		Auth: AuthConfig{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
		Sim: SimConfig{
			Port: v.GetString("sim.port"),
			Tick: v.GetDuration("sim.tick"),
			Seed: v.GetString("sim.seed"),
		},
	}
}

// Default returns the configuration with only defaults applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}
