// Package config loads tool settings from defaults, an optional config
// file, GLICPATCH_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	// EnvPrefix prefixes every environment override, e.g. GLICPATCH_STOP_TIMEOUT.
	EnvPrefix = "GLICPATCH"

	BackendExec     = "exec"     // pgrep/kill/osascript/tasklist/taskkill
	BackendGopsutil = "gopsutil" // in-process enumeration and signals
)

// Keys shared by defaults, flags and environment.
const (
	KeyBackend      = "backend"
	KeyPollInterval = "poll_interval"
	KeyStopTimeout  = "stop_timeout"
	KeyLogLevel     = "log_level"
	KeyLogFile      = "log_file"
	KeyDebug        = "debug"
)

var (
	ErrInvalidBackend  = errors.New("invalid process backend")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidLevel    = errors.New("invalid log level")
)

// Config is the resolved tool configuration.
type Config struct {
	Backend      string        `mapstructure:"backend"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	StopTimeout  time.Duration `mapstructure:"stop_timeout"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFile      string        `mapstructure:"log_file"`
	Debug        bool          `mapstructure:"debug"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")

	v.SetDefault(KeyBackend, BackendExec)
	v.SetDefault(KeyPollInterval, 300*time.Millisecond)
	v.SetDefault(KeyStopTimeout, 3*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyDebug, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads file (when non-empty) into v and returns the validated result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decoderConfig()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field and normalizes the backend and level names.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendExec, BackendGopsutil:
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidBackend, c.Backend, BackendExec, BackendGopsutil)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidDuration, KeyPollInterval, c.PollInterval)
	}
	if c.StopTimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidDuration, KeyStopTimeout, c.StopTimeout)
	}

	if c.Debug {
		c.LogLevel = zapcore.DebugLevel.String()
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.LogLevel)
	}
	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func decoderConfig() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
}
